package boson

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"
)

// denseOpMatrix returns the dim x dim matrix of a single-mode operator in
// the Fock basis, built directly from its mathematical definition rather
// than from any production code path.
func denseOpMatrix(op Op, dim int) [][]complex128 {
	m := make([][]complex128, dim)
	for i := range m {
		m[i] = make([]complex128, dim)
	}
	switch op {
	case Rising:
		for k := 0; k < dim-1; k++ {
			m[k+1][k] = complex(math.Sqrt(float64(k+1)), 0)
		}
	case Lowering:
		for k := 0; k < dim-1; k++ {
			m[k][k+1] = complex(math.Sqrt(float64(k+1)), 0)
		}
	case N:
		for k := 0; k < dim; k++ {
			m[k][k] = complex(float64(k), 0)
		}
	case N2:
		for k := 0; k < dim; k++ {
			m[k][k] = complex(float64(k*k), 0)
		}
	}
	return m
}

// referenceApplyTerm computes alpha * M * src where M is the full D x D
// operator built as a dense Kronecker product across every mode
// (identity for modes the term does not touch), by decomposing each
// global index directly into its per-mode sub-indices rather than by any
// bit-packing trick ApplyTerm itself relies on. This is the fuzz-testing
// oracle the reference-equivalence property is checked against.
func referenceApplyTerm(layout Layout, term Term, alpha complex128, src []complex128) []complex128 {
	offsets := make([]int, len(layout))
	o := 0
	for j, e := range layout {
		offsets[j] = o
		o += e
	}
	modeIndex := func(x, j int) int {
		return (x >> offsets[j]) & (layout.Dim(j) - 1)
	}

	opAt := make(map[int][][]complex128, term.Arity())
	for i, p := range term.Positions {
		opAt[p] = denseOpMatrix(term.Ops[i], layout.Dim(p))
	}

	size := layout.Size()
	dst := make([]complex128, size)
	for y := 0; y < size; y++ {
		var sum complex128
		for x := 0; x < size; x++ {
			if src[x] == 0 {
				continue
			}
			val := complex128(1)
			zero := false
			for j := range layout {
				xj := modeIndex(x, j)
				yj := modeIndex(y, j)
				if mat, touched := opAt[j]; touched {
					val *= mat[yj][xj]
					if val == 0 {
						zero = true
						break
					}
				} else if xj != yj {
					zero = true
					break
				}
			}
			if !zero {
				sum += val * src[x]
			}
		}
		dst[y] = alpha * sum
	}
	return dst
}

func randomComplexVector(rng *rand.Rand, n int) []complex128 {
	v := make([]complex128, n)
	for i := range v {
		v[i] = complex(rng.NormFloat64(), rng.NormFloat64())
	}
	return v
}

func TestApplyTermAgainstReference(t *testing.T) {
	layout := Layout{2, 1, 2, 3, 2, 1}
	rng := rand.New(rand.NewSource(1))
	alpha := complex(0.3, 0.7)

	cases := []Term{
		NewTerm([]int{0}, []Op{Rising}),
		NewTerm([]int{3}, []Op{Lowering}),
		NewTerm([]int{2}, []Op{N}),
		NewTerm([]int{5}, []Op{N2}),
		NewTerm([]int{0, 2}, []Op{Rising, Lowering}),
		NewTerm([]int{1, 3}, []Op{Lowering, Rising}),
		NewTerm([]int{3, 1}, []Op{Rising, Lowering}), // positions given descending
		NewTerm([]int{0, 1, 2}, []Op{Rising, N, Lowering}),
		NewTerm([]int{0, 2, 3, 5}, []Op{Rising, Lowering, N, N2}),
	}

	for _, term := range cases {
		src := randomComplexVector(rng, layout.Size())
		dst := make([]complex128, layout.Size())
		ApplyTerm(nil, dst, src, layout, term, alpha)

		want := referenceApplyTerm(layout, term, alpha, src)
		for i := range dst {
			if diff := cmplx.Abs(dst[i] - want[i]); diff > 1e-9 {
				t.Fatalf("term %+v: dst[%d] = %v, want %v (diff %v)", term, i, dst[i], want[i], diff)
			}
		}
	}
}

func TestApplyTermAccumulates(t *testing.T) {
	layout := Layout{1}
	term := NewTerm([]int{0}, []Op{N})
	src := []complex128{1, 1}
	dst := []complex128{10, 10}
	ApplyTerm(nil, dst, src, layout, term, complex(1, 0))
	want := []complex128{10, 11} // N|0>=0, N|1>=1, added onto the existing dst
	for i := range dst {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}
