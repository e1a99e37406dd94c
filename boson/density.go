package boson

import (
	"sort"

	"github.com/ajroetker/bosesim/boson/contrib/workerpool"
)

// sortedUniquePositions returns positions deduplicated and sorted ascending.
func sortedUniquePositions(positions []int) []int {
	s := make([]int, len(positions))
	copy(s, positions)
	sort.Ints(s)
	out := s[:0]
	for i, p := range s {
		if i == 0 || p != s[i-1] {
			out = append(out, p)
		}
	}
	return out
}

// Density computes the reduced density matrix rho_S = Tr_Sbar(|psi><psi|)
// for the mode subset positions, returned as a row-major d_S x d_S matrix
// where d_S = densitySize(layout, S).
//
// The batch range [0, batchSize) -- one entry per bit-configuration of the
// complement of S -- is split into contiguous chunks, one per pool worker
// (the bosesim command sizes its pool to runtime.NumCPU()+1), each with a
// private accumulator merged into the result only after every worker has
// finished. Within a chunk, each state-vector entry touched by a batch
// item is read once into a scratch buffer and reused for every (j, k')
// pair of that item, rather than re-read from state for every pair --
// turning what would be O(d_S^2 * batchSize) loads into O(d_S * batchSize).
func Density[T Complex](pool *workerpool.Pool, state []T, layout Layout, positions []int) []T {
	s := sortedUniquePositions(positions)
	if debugAssertions {
		for _, p := range s {
			if p < 0 || p >= len(layout) {
				panic("boson: density position out of range")
			}
		}
	}

	dS := densitySize(layout, s)
	bs := batchSize(layout, s)
	str := strides(layout, s)
	enc := targetEncodings(layout, s)
	bMasks := batchMasks(str)
	dMasks, dShifts := densityShiftsAndMasks(layout, s)

	workers := 1
	if pool != nil {
		workers = pool.NumWorkers()
	}
	if workers > bs {
		workers = bs
	}
	if workers < 1 {
		workers = 1
	}
	chunkLen := (bs + workers - 1) / workers

	accs := make([][]T, workers)

	process := func(c int) {
		lo := c * chunkLen
		hi := lo + chunkLen
		if hi > bs {
			hi = bs
		}
		if lo >= hi {
			return
		}
		acc := make([]T, dS*dS)
		scratch := make([]T, dS)
		for k := lo; k < hi; k++ {
			base := batchIndex(k, bMasks, enc)
			for j := 0; j < dS; j++ {
				scratch[j] = state[base+densityIndexToStateIndex(j, dMasks, dShifts)]
				row := j * dS
				for kp := 0; kp <= j; kp++ {
					acc[row+kp] += conj(scratch[j]) * scratch[kp]
				}
				for kp := 0; kp < j; kp++ {
					acc[kp*dS+j] += conj(scratch[kp]) * scratch[j]
				}
			}
		}
		accs[c] = acc
	}

	if pool == nil || workers == 1 {
		for c := 0; c < workers; c++ {
			process(c)
		}
	} else {
		pool.ParallelFor(workers, func(clo, chi int) {
			for c := clo; c < chi; c++ {
				process(c)
			}
		})
	}

	result := make([]T, dS*dS)
	for _, acc := range accs {
		if acc == nil {
			continue
		}
		for i := range result {
			result[i] += acc[i]
		}
	}
	return result
}

// Trace returns the trace of a row-major square matrix of dimension dim.
func Trace[T Complex](m []T, dim int) T {
	var t T
	for i := 0; i < dim; i++ {
		t += m[i*dim+i]
	}
	return t
}
