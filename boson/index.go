package boson

import "sort"

// masksAndShifts computes, for a mode layout and a list of positions, the
// bitmasks and shift amounts such that
//
//	operatorIndex(x) = OR_i ((x & masks[i]) >> shifts[i])
//
// packs the sub-indices of x restricted to those positions contiguously, in
// ascending full-layout order whatever order the positions were given in:
// masks[i] and shifts[i] still belong to positions[i], but the lowest mode
// lands in the lowest packed bits. getDiagonal builds its tensor product in
// term order instead, which is why ApplyTerm sorts a term's positions
// ascending before using the two together.
func masksAndShifts(layout Layout, positions []int) (masks, shifts []int) {
	n := len(positions)
	masks = make([]int, n)
	shifts = make([]int, n)
	startFull, startReduced := 0, 0
	for j, e := range layout {
		for i, p := range positions {
			if p == j {
				masks[i] = ((1 << uint(e)) - 1) << uint(startFull)
				shifts[i] = startFull - startReduced
				startReduced += e
			}
		}
		startFull += e
	}
	return masks, shifts
}

// operatorIndex folds a global state index down to the packed index over
// the positions masks/shifts was built from.
func operatorIndex(index int, masks, shifts []int) int {
	oi := 0
	for i := range masks {
		oi |= (masks[i] & index) >> uint(shifts[i])
	}
	return oi
}

// foldOffset is the inverse of operatorIndex: it places a packed index back
// into the bit positions it occupies in a global index, leaving every other
// bit zero.
func foldOffset(oi int, masks, shifts []int) int {
	idx := 0
	for i := range masks {
		idx |= ((masks[i] >> uint(shifts[i])) & oi) << uint(shifts[i])
	}
	return idx
}

// sumEncodings returns sum(layout[lo:hi]), the bit width spanned by modes
// [lo, hi).
func sumEncodings(layout Layout, lo, hi int) int {
	s := 0
	for j := lo; j < hi; j++ {
		s += layout[j]
	}
	return s
}

// globalOffset computes delta, the signed shift between src and dst global
// indices induced by a term's raising/lowering operators (the shift
// contributions of N and N2 are zero). Unlike masksAndShifts/operatorIndex,
// this primitive must process the term's affected modes in descending
// full-layout position order regardless of the order the caller listed
// them in: the running product accumulates the dimensions of every mode
// strictly between two consecutive affected positions, which only makes
// sense scanned monotonically across the layout. A position-reversed walk
// over the term's array as given only produces this ordering when the
// caller happens to list positions ascending; sorting descending
// internally makes the result agree with that walk for an already-ascending
// term while also never going out of bounds on a term given in arbitrary
// order -- safe because operators on distinct modes commute, so permuting
// a term's (position, op) pairs does not change the operator it
// represents.
func globalOffset(layout Layout, term Term) int {
	n := term.Arity()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return term.Positions[order[a]] > term.Positions[order[b]]
	})

	hi := len(layout)
	delta := 0
	for _, i := range order {
		pos := term.Positions[i]
		dim := 1 << uint(sumEncodings(layout, pos, hi))
		delta *= dim
		switch term.Ops[i] {
		case Lowering:
			delta++
		case Rising:
			delta--
		}
		hi = pos
	}
	if hi > 0 {
		delta *= 1 << uint(sumEncodings(layout, 0, hi))
	}
	return delta
}

// batchSize returns the number of distinct bit-configurations of the modes
// NOT in positions -- the size of the complement batch a term's sweep (or a
// reduced-density partial trace) iterates over.
func batchSize(layout Layout, positions []int) int {
	in := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		in[p] = struct{}{}
	}
	size := 1
	for j, e := range layout {
		if _, ok := in[j]; !ok {
			size <<= uint(e)
		}
	}
	return size
}

// strides returns, for each (sorted-ascending) position, 2^(sum of the
// encodings of modes below it) -- the weight a one-unit change to that
// mode's local index carries in the global state index.
func strides(layout Layout, positions []int) []int {
	s := make([]int, len(positions))
	for i, p := range positions {
		s[i] = 1 << uint(sumEncodings(layout, 0, p))
	}
	return s
}

// targetEncodings returns layout[p] for each position p.
func targetEncodings(layout Layout, positions []int) []int {
	e := make([]int, len(positions))
	for i, p := range positions {
		e[i] = layout[p]
	}
	return e
}

// batchMasks turns strides into the complement bitmask used by batchIndex:
// every bit at or above a position's stride, i.e. ^(stride-1).
func batchMasks(strides []int) []int {
	masks := make([]int, len(strides))
	for i, s := range strides {
		masks[i] = ^(s - 1)
	}
	return masks
}

// batchIndex inserts zero bit-fields at the positions strides/encodings
// describe into k, producing the base global index for batch item k: a
// global index whose bits at those positions are all zero and whose
// remaining bits are k's, redistributed around the gaps. masks and
// encodings must describe positions in ascending order for the insertion
// to land correctly.
func batchIndex(k int, masks, encodings []int) int {
	for i := range masks {
		k = ((masks[i] & k) << uint(encodings[i])) | (^masks[i] & k)
	}
	return k
}

// densitySize returns d_S = 2^(sum of the encodings of the positions in S).
func densitySize(layout Layout, positions []int) int {
	size := 1
	for _, p := range positions {
		size <<= uint(layout[p])
	}
	return size
}

// densityShiftsAndMasks is masksAndShifts's counterpart for the compressed
// density-matrix index space: masks are built against the packed
// (start_reduced) offset rather than the full-layout (start_full) offset,
// so densityIndexToStateIndex can place a density-local index's bits back
// at their true locations in a global index.
func densityShiftsAndMasks(layout Layout, positions []int) (masks, shifts []int) {
	n := len(positions)
	masks = make([]int, n)
	shifts = make([]int, n)
	startFull, startReduced := 0, 0
	for j, e := range layout {
		for i, p := range positions {
			if p == j {
				masks[i] = ((1 << uint(e)) - 1) << uint(startReduced)
				shifts[i] = startFull - startReduced
				startReduced += e
			}
		}
		startFull += e
	}
	return masks, shifts
}

// densityIndexToStateIndex expands a compressed density-matrix row/column
// index into the bit pattern it occupies in a global state index.
func densityIndexToStateIndex(index int, masks, shifts []int) int {
	idx := 0
	for i := range masks {
		idx |= (masks[i] & index) << uint(shifts[i])
	}
	return idx
}
