package boson

import "github.com/ajroetker/bosesim/boson/contrib/workerpool"

// minParallelSweep is the smallest sweep range ApplyTerm will hand to a
// worker pool. Below it, dispatch overhead dominates the handful of
// complex multiply-adds involved, so the sweep just runs sequentially on
// the calling goroutine, mirroring the MinParallelOps-style threshold a
// strip-partitioned matrix multiply uses to skip pool dispatch for small
// workloads.
const minParallelSweep = 4096

// debugAssertions gates the Term.valid check in ApplyTerm. The kernel's
// contract requires a well-formed term; this exists only to turn silent
// out-of-bounds corruption into a panic while developing a new caller.
const debugAssertions = true

// ApplyTerm adds alpha * term to dst, interpreting dst and src as vectors
// indexed by layout's composite state index:
//
//	dst[x - delta] += alpha * D[operatorIndex(x)] * src[x]
//
// for every x for which both x and x-delta lie in [0, layout.Size()), where
// D is the term's diagonal (see getDiagonal) and delta is its global index
// shift (see globalOffset). dst and src may be the same slice only when
// delta is zero (a pure N/N2 term); otherwise the shifted read/write
// pattern would clobber entries still needed later in the sweep. Passing a
// nil pool runs the sweep on the calling goroutine.
func ApplyTerm[T Complex](pool *workerpool.Pool, dst, src []T, layout Layout, term Term, alpha T) {
	if debugAssertions && !term.valid(layout) {
		panic("boson: invalid term for layout")
	}

	// Operators on distinct modes commute, so listing the term's
	// (position, op) pairs in ascending position order leaves the operator
	// unchanged while lining getDiagonal's term-order tensor product up with
	// masksAndShifts' layout-order packing. NewTerm copies, so the caller's
	// slices are left as they were.
	term = NewTerm(term.Positions, term.Ops)
	for i := 1; i < term.Arity(); i++ {
		for j := i; j > 0 && term.Positions[j] < term.Positions[j-1]; j-- {
			term.Positions[j], term.Positions[j-1] = term.Positions[j-1], term.Positions[j]
			term.Ops[j], term.Ops[j-1] = term.Ops[j-1], term.Ops[j]
		}
	}

	size := layout.Size()
	masks, shifts := masksAndShifts(layout, term.Positions)
	diag := getDiagonal[T](layout, term)
	delta := globalOffset(layout, term)

	var lo, hi int
	if delta >= 0 {
		lo, hi = delta, size
	} else {
		lo, hi = 0, size+delta
	}
	if lo >= hi {
		return
	}

	sweep := func(a, b int) {
		for x := a; x < b; x++ {
			oi := operatorIndex(x, masks, shifts)
			dst[x-delta] += alpha * diag[oi] * src[x]
		}
	}

	n := hi - lo
	if pool == nil || n < minParallelSweep {
		sweep(lo, hi)
		return
	}
	pool.ParallelFor(n, func(start, end int) {
		sweep(lo+start, lo+end)
	})
}
