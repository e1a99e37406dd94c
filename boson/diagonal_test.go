package boson

import (
	"math/cmplx"
	"testing"
)

// checkDiagonalTransposeInvariant verifies the term-transpose testable
// property: getDiagonal(term) and getDiagonal(term.transpose()) are the
// same vector shifted against each other by diagonalOffset, with the
// transpose's offset equal in magnitude and opposite in sign.
func checkDiagonalTransposeInvariant(t *testing.T, layout Layout, term Term) {
	t.Helper()
	tr := term.transpose()

	delta := diagonalOffset(layout, term)
	deltaTr := diagonalOffset(layout, tr)
	if delta != -deltaTr {
		t.Fatalf("diagonalOffset(term)=%d, diagonalOffset(transpose)=%d, want equal magnitude opposite sign", delta, deltaTr)
	}

	diag := getDiagonal[complex128](layout, term)
	diagTr := getDiagonal[complex128](layout, tr)
	if len(diag) != len(diagTr) {
		t.Fatalf("diagonal length mismatch: %d vs %d", len(diag), len(diagTr))
	}

	for j, v := range diag {
		jp := j - delta
		if jp < 0 || jp >= len(diagTr) {
			if cmplx.Abs(v) > 1e-12 {
				t.Errorf("diag[%d]=%v, want 0 (shifted index %d out of range)", j, v, jp)
			}
			continue
		}
		if diff := cmplx.Abs(v - diagTr[jp]); diff > 1e-12 {
			t.Errorf("diag[%d]=%v, diagTranspose[%d]=%v, want equal (diff %v)", j, v, jp, diagTr[jp], diff)
		}
	}
}

func TestDiagonalTransposeInvariantSingleMode(t *testing.T) {
	layout := Layout{2}
	checkDiagonalTransposeInvariant(t, layout, NewTerm([]int{0}, []Op{Rising}))
	checkDiagonalTransposeInvariant(t, layout, NewTerm([]int{0}, []Op{N}))
	checkDiagonalTransposeInvariant(t, layout, NewTerm([]int{0}, []Op{N2}))
}

func TestDiagonalTransposeInvariantMultiMode(t *testing.T) {
	layout := Layout{2, 3, 1}
	checkDiagonalTransposeInvariant(t, layout, NewTerm([]int{0, 1}, []Op{Rising, Lowering}))
	checkDiagonalTransposeInvariant(t, layout, NewTerm([]int{1, 0}, []Op{Lowering, Rising}))
	checkDiagonalTransposeInvariant(t, layout, NewTerm([]int{0, 1, 2}, []Op{Rising, N, Lowering}))
}
