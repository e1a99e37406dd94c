// Package boson implements the numerical core of a bit-packed bosonic /
// qubit time-evolution simulator: a dense complex state vector addressed by
// concatenated per-mode sub-indices, a sparse operator kernel that applies
// one tensor-product term of creation/annihilation/number operators by
// exploiting its banded structure, a Chebyshev expansion of exp(x·H), and a
// parallel reduced-density-matrix engine.
package boson

// Complex is the set of numeric types the engine can run at: complex64 for
// single precision, complex128 for double precision. Every exported routine
// in this package is generic over this constraint so a caller picks the
// precision once, at the top of the call stack.
type Complex interface {
	~complex64 | ~complex128
}

// Op identifies one of the four single-mode operator kinds the engine
// understands. Each is diagonal-plus-shift in the local Fock basis: Rising
// and Lowering shift the index by one rung, N and N2 are pure diagonals.
type Op int

const (
	// Rising is the creation operator a†.
	Rising Op = iota
	// Lowering is the annihilation operator a.
	Lowering
	// N is the number operator a†a.
	N
	// N2 is the number-squared operator (a†a)².
	N2
)

// String renders an Op using the wire vocabulary from the YAML config
// ("A+", "A-", "N1", "N2"), which doubles as a useful debug representation.
func (o Op) String() string {
	switch o {
	case Rising:
		return "A+"
	case Lowering:
		return "A-"
	case N:
		return "N1"
	case N2:
		return "N2"
	default:
		return "Op(?)"
	}
}

// transpose returns the Hermitian-conjugate op kind: Rising and Lowering
// swap, the diagonal kinds N and N2 are self-adjoint.
func (o Op) transpose() Op {
	switch o {
	case Rising:
		return Lowering
	case Lowering:
		return Rising
	default:
		return o
	}
}

// Layout is the ordered sequence of per-mode bit widths E = [e0, e1, ...].
// Mode i has local dimension 2^E[i] and occupies bits
// [sum_{j<i} E[j], sum_{j<=i} E[j]) of the composite state index; mode 0
// sits at the least-significant end. TotalBits and Size are the two
// quantities every other routine in this package is built from.
type Layout []int

// TotalBits returns sum(E), the number of bits of the composite state
// index, i.e. log2 of the state-vector length.
func (l Layout) TotalBits() int {
	total := 0
	for _, e := range l {
		total += e
	}
	return total
}

// Size returns D = 2^TotalBits(), the length of the state vector.
func (l Layout) Size() int {
	return 1 << l.TotalBits()
}

// Dim returns the local Hilbert-space dimension 2^E[pos] of a single mode.
func (l Layout) Dim(pos int) int {
	return 1 << l[pos]
}

// Term is a fixed-arity tensor-product summand of the Hamiltonian: operator
// kind Ops[i] acting on mode Positions[i], identity elsewhere. Positions
// need not be sorted and are not required to be distinct by the type
// system, but every routine that consumes a Term assumes they are (see
// Term.valid).
type Term struct {
	Positions []int
	Ops       []Op
}

// NewTerm builds a Term from parallel position/op-kind slices. The slices
// are copied so the caller may reuse or mutate its originals.
func NewTerm(positions []int, ops []Op) Term {
	p := make([]int, len(positions))
	copy(p, positions)
	o := make([]Op, len(ops))
	copy(o, ops)
	return Term{Positions: p, Ops: o}
}

// Arity returns N, the number of modes the term acts on non-trivially.
func (t Term) Arity() int {
	return len(t.Positions)
}

// transpose returns the Hermitian conjugate of t: every Rising/Lowering op
// kind flips, positions are unchanged. Used by the term-transpose testable
// property: applying a term and its transpose should relate as adjoints.
func (t Term) transpose() Term {
	ops := make([]Op, len(t.Ops))
	for i, o := range t.Ops {
		ops[i] = o.transpose()
	}
	return Term{Positions: t.Positions, Ops: ops}
}

// valid reports whether t's positions are in range for layout and mutually
// distinct, and whether its arity is supported (1-4). ApplyTerm calls this
// (when debugAssertions is set) before touching the state vector; the
// config loader runs the same checks through its own validation.
func (t Term) valid(layout Layout) bool {
	n := t.Arity()
	if n < 1 || n > 4 || len(t.Ops) != n {
		return false
	}
	seen := make(map[int]struct{}, n)
	for _, p := range t.Positions {
		if p < 0 || p >= len(layout) {
			return false
		}
		if _, dup := seen[p]; dup {
			return false
		}
		seen[p] = struct{}{}
	}
	return true
}

// conj returns the complex conjugate of x, generic over Complex.
func conj[T Complex](x T) T {
	c := complex128(x)
	return T(complex(real(c), -imag(c)))
}

// HamiltonianTerm pairs a real amplitude with the Term it scales. The
// Hamiltonian itself is just []HamiltonianTerm; it is not required to be
// Hermitian at this layer (see the design notes on unenforced Hermiticity).
type HamiltonianTerm struct {
	Amplitude float64
	Term      Term
}
