package boson

import "math"

// diagPerOp returns the diagonal of a single-mode operator of local
// dimension dim, in the Fock basis |0>, |1>, ..., |dim-1>:
//
//	Rising (a†):   [sqrt(1), sqrt(2), ..., sqrt(dim-1), 0]
//	Lowering (a):  [sqrt(0), sqrt(1), ..., sqrt(dim-1)]
//	N (a†a):       [0, 1, ..., dim-1]
//	N2 ((a†a)^2):  [0, 1, ..., (dim-1)^2]
//
// Rising and Lowering are shift-plus-diagonal operators; the vector
// returned here is the diagonal half, paired with a shift of mp/-1 applied
// separately by globalOffset. The top rung of Rising carries no amplitude
// because a† has no state above dim-1 to create into.
func diagPerOp[T Complex](op Op, dim int) []T {
	v := make([]T, dim)
	switch op {
	case Rising:
		for k := 1; k < dim; k++ {
			v[k-1] = T(complex(math.Sqrt(float64(k)), 0))
		}
	case Lowering:
		for k := 0; k < dim; k++ {
			v[k] = T(complex(math.Sqrt(float64(k)), 0))
		}
	case N:
		for k := 0; k < dim; k++ {
			v[k] = T(complex(float64(k), 0))
		}
	case N2:
		for k := 0; k < dim; k++ {
			v[k] = T(complex(float64(k*k), 0))
		}
	}
	return v
}

// tensorProduct returns the Kronecker product of operands, with the first
// operand varying fastest (occupying the low bits of the result index):
// tensorProduct([1,2,3], [3,2]) = [3,6,9,2,4,6].
func tensorProduct[T Complex](operands [][]T) []T {
	size := 1
	for _, op := range operands {
		size *= len(op)
	}
	result := make([]T, size)
	one := T(complex(1, 0))
	for i := 0; i < size; i++ {
		value := one
		rem := i
		for _, op := range operands {
			j := rem % len(op)
			value *= op[j]
			rem /= len(op)
		}
		result[i] = value
	}
	return result
}

// getDiagonal builds a term's diagonal D: the Kronecker tensor product of
// each position's per-mode operator diagonal, taken in the order the
// positions appear in the term (not sorted). This order must match
// masksAndShifts' packing order for operatorIndex(x) to index correctly
// into D; masksAndShifts packs in ascending layout order, so the two agree
// only for a term whose positions are ascending, and ApplyTerm sorts a
// term's (position, op) pairs that way before calling either.
func getDiagonal[T Complex](layout Layout, term Term) []T {
	n := term.Arity()
	operands := make([][]T, n)
	for i := 0; i < n; i++ {
		operands[i] = diagPerOp[T](term.Ops[i], layout.Dim(term.Positions[i]))
	}
	return tensorProduct(operands)
}

// diagonalOffset computes the shift, local to a term's own packed operator
// index, between a diagonal entry and the entry its Hermitian conjugate
// would occupy. Unlike globalOffset this never needs to span the full
// layout -- each step only ever looks at the dimension of the one mode it
// touches -- so no sort-robustness fix is needed here; term order is
// processed as given, in reverse, same as the reference.
func diagonalOffset(layout Layout, term Term) int {
	n := term.Arity()
	delta := 0
	for i := n - 1; i >= 0; i-- {
		delta *= layout.Dim(term.Positions[i])
		switch term.Ops[i] {
		case Rising:
			delta--
		case Lowering:
			delta++
		}
	}
	return delta
}
