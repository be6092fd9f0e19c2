package hybrid

import (
	"context"

	"github.com/qsimlib/qsim/qerr"
	"github.com/qsimlib/qsim/statevector"
)

func (r *Register) checkQubit(q int) error {
	if q < 0 || q >= r.n {
		return qerr.Wrap(qerr.InvalidArgument, "hybrid: qubit index %d out of range [0,%d)", q, r.n)
	}
	return nil
}

// ApplySingleQubit routes a single-qubit matrix: Clifford gates with no
// outstanding buffer on q forward straight to the stabilizer tableau;
// anything else composes into q's shard buffer (deferred promotion) or,
// if already in engine mode, applies directly.
func (r *Register) ApplySingleQubit(ctx context.Context, m statevector.Matrix2x2, q int) error {
	if err := r.checkQubit(q); err != nil {
		return err
	}
	if r.mode == ModeEngine {
		return errWrap("ApplySingleQubit", r.eng.ApplySingleQubit(ctx, m, q))
	}
	if IsClifford(m) && !r.hasBuffer(q) {
		return r.applyCliffordSingle(m, q)
	}
	// Non-Clifford (or a second gate stacking on an existing buffer):
	// compose into the shard buffer and defer promotion until a
	// subsequent gate or read forces it.
	r.shardGate[q] = m.Mul(r.shardGate[q])
	return nil
}

func (r *Register) applyCliffordSingle(m statevector.Matrix2x2, q int) error {
	switch {
	case sameUpToPhase(m, statevector.Identity):
		return nil
	case sameUpToPhase(m, statevector.Hadamard):
		return r.tab.H(q)
	case sameUpToPhase(m, statevector.PauliX):
		return r.tab.X(q)
	case sameUpToPhase(m, statevector.PauliY):
		return r.tab.Y(q)
	case sameUpToPhase(m, statevector.PauliZ):
		return r.tab.Z(q)
	case sameUpToPhase(m, statevector.SGate):
		return r.tab.S(q)
	case sameUpToPhase(m, statevector.SdgGate):
		return r.tab.Sdg(q)
	}
	return qerr.Wrap(qerr.InvalidArgument, "hybrid: unrecognized Clifford matrix")
}

// flushBuffer forces qubit q's pending shard buffer onto the backend,
// promoting to engine mode first if the register is still on the
// stabilizer tableau.
func (r *Register) flushBuffer(ctx context.Context, q int) error {
	if !r.hasBuffer(q) {
		return nil
	}
	if err := r.promote(ctx); err != nil {
		return err
	}
	if err := r.eng.ApplySingleQubit(ctx, r.shardGate[q], q); err != nil {
		return err
	}
	r.shardGate[q] = statevector.Identity
	return nil
}

// ApplyControlled applies m to t conditioned on every qubit in controls
// reading 1. Clifford CNOT/CZ forward to the tableau when no involved
// qubit carries a buffer and m is X or Z. Otherwise controls the tableau
// fixes in Z are eliminated first (a control fixed at |0> makes the gate
// a no-op); if the reduced gate is a buffer-free CNOT/CZ or an
// uncontrolled Clifford it still stays on the tableau, and every other
// case promotes.
func (r *Register) ApplyControlled(ctx context.Context, m statevector.Matrix2x2, controls []int, t int) error {
	return r.applyControlledGeneric(ctx, m, controls, nil, t)
}

// ApplyAntiControlled applies m to t conditioned on every qubit in
// antiControls reading 0.
func (r *Register) ApplyAntiControlled(ctx context.Context, m statevector.Matrix2x2, antiControls []int, t int) error {
	return r.applyControlledGeneric(ctx, m, nil, antiControls, t)
}

func (r *Register) applyControlledGeneric(ctx context.Context, m statevector.Matrix2x2, controls, antiControls []int, t int) error {
	if err := r.checkQubit(t); err != nil {
		return err
	}
	all := append(append([]int{}, controls...), antiControls...)
	for _, c := range all {
		if err := r.checkQubit(c); err != nil {
			return err
		}
	}

	if r.mode == ModeEngine {
		if len(antiControls) > 0 {
			return errWrap("ApplyAntiControlled", r.eng.ApplyAntiControlled(ctx, m, antiControls, t))
		}
		return errWrap("ApplyControlled", r.eng.ApplyControlled(ctx, m, controls, t))
	}

	// Single-control CNOT/CZ with no buffers anywhere involved stays on
	// the tableau.
	if len(antiControls) == 0 && len(controls) == 1 && !r.hasBuffer(t) && !r.hasBuffer(controls[0]) {
		c := controls[0]
		switch {
		case sameUpToPhase(m, statevector.PauliX):
			return r.tab.CNOT(c, t)
		case sameUpToPhase(m, statevector.PauliZ):
			return r.tab.CZ(c, t)
		}
	}

	// Controlled-gate optimization: eliminate a control provably fixed
	// to |0> or |1> via the Z-probe.
	if len(antiControls) == 0 {
		reduced := make([]int, 0, len(controls))
		for _, c := range controls {
			sep, err := r.tab.IsSeparableZ(c)
			if err != nil {
				return err
			}
			if !sep {
				reduced = append(reduced, c)
				continue
			}
			p0, err := r.probZDeterministic(ctx, c)
			if err != nil {
				return err
			}
			if p0 {
				// control is provably |0>: whole gate is a no-op.
				return nil
			}
			// control is provably |1>: drop it from the condition, gate
			// becomes unconditional on the remaining controls.
		}
		controls = reduced
		if len(controls) == 1 && !r.hasBuffer(t) && !r.hasBuffer(controls[0]) {
			c := controls[0]
			switch {
			case sameUpToPhase(m, statevector.PauliX):
				return r.tab.CNOT(c, t)
			case sameUpToPhase(m, statevector.PauliZ):
				return r.tab.CZ(c, t)
			}
		}
		if len(controls) == 0 && IsClifford(m) && !r.hasBuffer(t) {
			return r.applyCliffordSingle(m, t)
		}
	}

	if err := r.promote(ctx); err != nil {
		return err
	}
	if len(antiControls) > 0 {
		return errWrap("ApplyAntiControlled", r.eng.ApplyAntiControlled(ctx, m, antiControls, t))
	}
	return errWrap("ApplyControlled", r.eng.ApplyControlled(ctx, m, controls, t))
}

// probZDeterministic reports, for a qubit the caller has already
// confirmed IsSeparableZ, whether its fixed value is |0> (true) or |1>
// (false).
func (r *Register) probZDeterministic(ctx context.Context, q int) (bool, error) {
	scratch := r.tab.Clone()
	outcome, err := scratch.Measure(ctx, q)
	if err != nil {
		return false, err
	}
	return outcome == 0, nil
}
