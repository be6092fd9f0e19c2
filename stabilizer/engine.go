package stabilizer

import (
	"context"
	"math"
	"math/cmplx"

	"github.com/qsimlib/qsim/qerr"
	"github.com/qsimlib/qsim/statevector"
)

// ApplySingleQubit applies m to qubit q. The tableau can only represent
// the fixed Clifford generators exactly; anything else is rejected
// rather than silently approximated, since a caller that needs an
// arbitrary rotation on a bare Tableau (as opposed to through the
// hybrid layer, which promotes first) has asked for something this
// engine cannot do.
func (t *Tableau) ApplySingleQubit(ctx context.Context, m statevector.Matrix2x2, q int) error {
	switch {
	case cliffordEqual(m, statevector.Identity):
		return nil
	case cliffordEqual(m, statevector.Hadamard):
		return t.H(q)
	case cliffordEqual(m, statevector.PauliX):
		return t.X(q)
	case cliffordEqual(m, statevector.PauliY):
		return t.Y(q)
	case cliffordEqual(m, statevector.PauliZ):
		return t.Z(q)
	case cliffordEqual(m, statevector.SGate):
		return t.S(q)
	case cliffordEqual(m, statevector.SdgGate):
		return t.Sdg(q)
	}
	return qerr.Wrap(qerr.InvalidArgument, "stabilizer: matrix is not a recognized Clifford generator")
}

// ApplyControlled applies m to target when every qubit in controls
// reads 1. Only a single Pauli-X or Pauli-Z control (CNOT/CZ) is
// representable exactly; anything else is rejected.
func (t *Tableau) ApplyControlled(ctx context.Context, m statevector.Matrix2x2, controls []int, target int) error {
	if len(controls) != 1 {
		return qerr.Wrap(qerr.InvalidArgument, "stabilizer: controlled gate needs exactly one control, got %d", len(controls))
	}
	switch {
	case cliffordEqual(m, statevector.PauliX):
		return t.CNOT(controls[0], target)
	case cliffordEqual(m, statevector.PauliZ):
		return t.CZ(controls[0], target)
	}
	return qerr.Wrap(qerr.InvalidArgument, "stabilizer: controlled matrix is not CNOT or CZ")
}

// ApplyAntiControlled applies m to target when every qubit in
// antiControls reads 0, via X-sandwiching the single representable
// (CNOT/CZ) controlled case.
func (t *Tableau) ApplyAntiControlled(ctx context.Context, m statevector.Matrix2x2, antiControls []int, target int) error {
	if len(antiControls) != 1 {
		return qerr.Wrap(qerr.InvalidArgument, "stabilizer: anti-controlled gate needs exactly one control, got %d", len(antiControls))
	}
	c := antiControls[0]
	if err := t.X(c); err != nil {
		return err
	}
	if err := t.ApplyControlled(ctx, m, []int{c}, target); err != nil {
		return err
	}
	return t.X(c)
}

// Prob returns P(qubit q == 1), via a non-mutating scratch measurement
// when q is separable and 0.5 when it is maximally uncertain - the
// stabilizer formalism never represents any other probability exactly.
func (t *Tableau) Prob(ctx context.Context, q int) (float64, error) {
	if err := t.checkQubit(q); err != nil {
		return 0, err
	}
	sep, err := t.IsSeparableZ(q)
	if err != nil {
		return 0, err
	}
	if !sep {
		return 0.5, nil
	}
	scratch := t.Clone()
	outcome, err := scratch.Measure(ctx, q)
	if err != nil {
		return 0, err
	}
	return float64(outcome), nil
}

// ProbAll returns P(register == perm) by materializing the state.
func (t *Tableau) ProbAll(ctx context.Context, perm uint64) (float64, error) {
	amps, err := t.GetQuantumState(ctx)
	if err != nil {
		return 0, err
	}
	if perm >= uint64(len(amps)) {
		return 0, qerr.Wrap(qerr.InvalidArgument, "stabilizer: permutation %d out of range for %d qubits", perm, t.n)
	}
	a := amps[perm]
	return real(a)*real(a) + imag(a)*imag(a), nil
}

// GetQuantumState materializes the full amplitude vector.
func (t *Tableau) GetQuantumState(ctx context.Context) ([]complex128, error) {
	eng, err := t.Materialize()
	if err != nil {
		return nil, err
	}
	return eng.GetQuantumState(ctx)
}

// cliffordEqual reports whether m matches c up to an overall phase, the
// same up-to-phase comparison hybrid.IsClifford uses, duplicated here
// rather than imported to avoid a stabilizer<->hybrid import cycle.
func cliffordEqual(m, c statevector.Matrix2x2) bool {
	const eps = 1e-9
	var ref complex128
	switch {
	case cmplx.Abs(c.M00) > eps:
		ref = c.M00
	case cmplx.Abs(c.M01) > eps:
		ref = c.M01
	case cmplx.Abs(c.M10) > eps:
		ref = c.M10
	default:
		ref = c.M11
	}
	var refM complex128
	switch {
	case cmplx.Abs(c.M00) > eps:
		refM = m.M00
	case cmplx.Abs(c.M01) > eps:
		refM = m.M01
	case cmplx.Abs(c.M10) > eps:
		refM = m.M10
	default:
		refM = m.M11
	}
	if cmplx.Abs(refM) < eps {
		return false
	}
	phase := ref / refM
	if math.Abs(cmplx.Abs(phase)-1) > eps {
		return false
	}
	scaledM := statevector.Matrix2x2{
		M00: m.M00 * phase, M01: m.M01 * phase,
		M10: m.M10 * phase, M11: m.M11 * phase,
	}
	return cmplx.Abs(scaledM.M00-c.M00) < eps && cmplx.Abs(scaledM.M01-c.M01) < eps &&
		cmplx.Abs(scaledM.M10-c.M10) < eps && cmplx.Abs(scaledM.M11-c.M11) < eps
}
