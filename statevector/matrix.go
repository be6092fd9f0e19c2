package statevector

import (
	"math"
	"math/cmplx"
)

// Matrix2x2 is an arbitrary single-qubit unitary (or, transiently, a
// non-unitary 2x2 linear map composed with a pending buffer), laid out
// row-major: [[m00, m01], [m10, m11]].
type Matrix2x2 struct {
	M00, M01, M10, M11 complex128
}

// Identity is the 2x2 identity matrix.
var Identity = Matrix2x2{M00: 1, M11: 1}

// PauliX, PauliY, PauliZ, Hadamard are the fixed single-qubit Cliffords
// every higher layer builds on, generalizing q-deck's hardcoded
// applyX/applyY/applyZ/applyH loops into matrix values consumed by one
// ApplySingleQubit implementation.
var (
	PauliX    = Matrix2x2{M01: 1, M10: 1}
	PauliY    = Matrix2x2{M01: complex(0, -1), M10: complex(0, 1)}
	PauliZ    = Matrix2x2{M00: 1, M11: -1}
	Hadamard = scaled(Matrix2x2{M00: 1, M01: 1, M10: 1, M11: -1}, complex(1/math.Sqrt2, 0))
	SGate    = Matrix2x2{M00: 1, M11: complex(0, 1)}
	SdgGate  = Matrix2x2{M00: 1, M11: complex(0, -1)}
	TGate    = Matrix2x2{M00: 1, M11: cmplx.Exp(complex(0, math.Pi/4))}
	TdgGate  = Matrix2x2{M00: 1, M11: cmplx.Exp(complex(0, -math.Pi/4))}
)

func scaled(m Matrix2x2, c complex128) Matrix2x2 {
	return Matrix2x2{M00: m.M00 * c, M01: m.M01 * c, M10: m.M10 * c, M11: m.M11 * c}
}

// Phase builds the diagonal specialization diag(topLeft, bottomRight)
// used by ApplyPhase.
func Phase(topLeft, bottomRight complex128) Matrix2x2 {
	return Matrix2x2{M00: topLeft, M11: bottomRight}
}

// Invert builds the anti-diagonal specialization used by ApplyInvert.
func Invert(topRight, bottomLeft complex128) Matrix2x2 {
	return Matrix2x2{M01: topRight, M10: bottomLeft}
}

// RX, RY, RZ are the standard parametrized rotations, grounded on
// q-deck's applyRX/applyRY/applyRZ.
func RX(theta float64) Matrix2x2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(0, -math.Sin(theta/2))
	return Matrix2x2{M00: c, M01: s, M10: s, M11: c}
}

func RY(theta float64) Matrix2x2 {
	c := complex(math.Cos(theta/2), 0)
	s := complex(math.Sin(theta/2), 0)
	return Matrix2x2{M00: c, M01: -s, M10: s, M11: c}
}

func RZ(theta float64) Matrix2x2 {
	p := cmplx.Exp(complex(0, theta/2))
	return Matrix2x2{M00: cmplx.Conj(p), M11: p}
}

// IsPhaseLike reports whether m has zero off-diagonal entries, the
// classification the unit layer uses to decide whether a matrix can be
// absorbed into a cross-shard phase buffer.
func (m Matrix2x2) IsPhaseLike() bool {
	return m.M01 == 0 && m.M10 == 0
}

// IsInvertLike reports whether m has zero diagonal entries.
func (m Matrix2x2) IsInvertLike() bool {
	return m.M00 == 0 && m.M11 == 0
}

// Mul composes a*b (apply b first, then a).
func (a Matrix2x2) Mul(b Matrix2x2) Matrix2x2 {
	return Matrix2x2{
		M00: a.M00*b.M00 + a.M01*b.M10,
		M01: a.M00*b.M01 + a.M01*b.M11,
		M10: a.M10*b.M00 + a.M11*b.M10,
		M11: a.M10*b.M01 + a.M11*b.M11,
	}
}

// Dagger returns the conjugate transpose.
func (a Matrix2x2) Dagger() Matrix2x2 {
	return Matrix2x2{
		M00: cmplx.Conj(a.M00), M01: cmplx.Conj(a.M10),
		M10: cmplx.Conj(a.M01), M11: cmplx.Conj(a.M11),
	}
}

