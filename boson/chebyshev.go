package boson

// besselCoeffs is the fixed 16-entry table of Bessel values J_k(-i) (J_k the
// Bessel function of the first kind) behind the Jacobi-Anger expansion of
// exp(x) in Chebyshev polynomials: ChebExp uses entry 0 as the k = 0
// coefficient and scales entry k >= 1 by 2*i^k. The values are carried
// at double precision regardless of the instantiated numeric type so a
// complex64 run narrows from the same high-precision constants a complex128
// run uses directly.
var besselCoeffs = [16]complex128{
	complex(1.2660658777520083355982446252147175376076703113549622068081353312, 0),
	complex(0, -0.56515910399248502720769602760986330732889962162109200948029448),
	complex(-0.135747669767038281182852569994990922949871068112778187847546352, 0),
	complex(0, 0.022168424924331902476285747629899615529415349169979258090109080),
	complex(0.0027371202210468663251380842155932297733789730929026393068918695, 0),
	complex(0, -0.00027146315595697187518107390515377734238356442675814363497412),
	complex(-0.000022488661477147573327345164055456349543328825321202957150624, 0),
	complex(0, 1.5992182312009952529319364883011478636185229037081491666241e-6),
	complex(9.9606240333639786298053219240279452669504669288868817881985e-8, 0),
	complex(0, -5.51838586275867216308498045667662090644819508624808051273e-9),
	complex(-2.75294803983687362523571020100276353437157736403368652675e-10, 0),
	complex(0, 1.248978308492491261356005467109383770504035818070745922593e-11),
	complex(5.1957611533928502524981733621192392626985642780454970518752e-13, 0),
	complex(0, -1.9956316782072007564438602007663474563803913398266301430e-14),
	complex(-7.11879005412828574413684012673587610954679449625867991552e-16, 0),
	complex(0, 2.370463051280748085544965280302145707288880874199766713661e-17),
}

// MaxChebOrder is the largest order ChebExp accepts: the length of
// besselCoeffs. Requesting more terms than the table holds is a
// programming error, not a runtime condition to recover from.
const MaxChebOrder = len(besselCoeffs)

type chebSign int

const (
	chebPos chebSign = iota
	chebNeg
)

// chebState pairs a scratch buffer with a sign tag: sign == chebNeg means
// the buffer currently holds the negation of the Chebyshev polynomial it
// conceptually represents. Tracking the sign this way lets the recurrence
// below use only additions (an operator-application closure has no
// subtraction of its own to offer), at the cost of needing a coefficient
// flip wherever a tagged value is read.
type chebState[T Complex] struct {
	buf  []T
	sign chebSign
}

// nextNegativeChebyshev advances the two-term Chebyshev recurrence
// T_{k+1} = 2*H(T_k) - T_{k-1} by overwriting prev.buf in place with (up to
// sign) T_{k+1}, using only prev += coeff*H(curr) for some coeff in
// {+2, -2}. Which sign prev ends up holding depends on the sign the two
// inputs carried in; the four cases mirror the four (prev.sign, curr.sign)
// combinations directly.
func nextNegativeChebyshev[T Complex](prev, curr *chebState[T], applyH func(dst, src []T, coeff T)) {
	two := T(complex(2, 0))
	var coeff T
	switch {
	case prev.sign == chebPos && curr.sign == chebPos:
		coeff = -two
		prev.sign = chebNeg
	case prev.sign == chebPos && curr.sign == chebNeg:
		coeff = two
		prev.sign = chebNeg
	case prev.sign == chebNeg && curr.sign == chebPos:
		coeff = two
		prev.sign = chebPos
	default: // chebNeg, chebNeg
		coeff = -two
		prev.sign = chebPos
	}
	applyH(prev.buf, curr.buf, coeff)
}

// addScaled performs dst += coeff*src elementwise.
func addScaled[T Complex](dst, src []T, coeff T) {
	for i := range dst {
		dst[i] += coeff * src[i]
	}
}

// ChebExp approximates exp(x)*state0 via a truncated Jacobi-Anger /
// Chebyshev expansion and accumulates the result into expOut, where x is
// whatever linear operator applyH implements: applyH(dst, src, coeff) must
// compute dst += coeff * x * src for the caller's choice of x (a
// Simulation passes a closure that sums ApplyTerm over every Hamiltonian
// term, scaled by -i*dt).
//
// state must hold the input vector (T0 = state0) on entry; aux must be
// zeroed. Both are consumed as scratch during the recurrence and must not
// be read by the caller afterward. order selects the truncation depth and
// must satisfy 2 <= order <= MaxChebOrder; f32 runs use order 7, f64 runs
// use order 14 (see the --dtype handling in the bosesim command).
func ChebExp[T Complex](expOut, state, aux []T, applyH func(dst, src []T, coeff T), order int) {
	if debugAssertions && (order < 2 || order > MaxChebOrder) {
		panic("boson: chebyshev order out of range")
	}

	imag := T(complex(0, 1))
	imagPow := imag
	two := T(complex(2, 0))

	addScaled(expOut, state, T(besselCoeffs[0]))
	applyH(aux, state, T(complex(1, 0)))
	addScaled(expOut, aux, two*imagPow*T(besselCoeffs[1]))

	prev := &chebState[T]{buf: state, sign: chebPos}
	curr := &chebState[T]{buf: aux, sign: chebPos}

	for k := 2; k < order; k++ {
		imagPow *= imag
		nextNegativeChebyshev(prev, curr, applyH)
		prev, curr = curr, prev

		var coeff T
		if curr.sign == chebPos {
			coeff = two * imagPow * T(besselCoeffs[k])
		} else {
			coeff = -two * imagPow * T(besselCoeffs[k])
		}
		addScaled(expOut, curr.buf, coeff)
	}
}
