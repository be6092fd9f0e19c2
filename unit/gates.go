package unit

import (
	"context"
	"math/cmplx"

	"github.com/qsimlib/qsim/statevector"
)

// ApplySingleQubit applies m to qubit q, absorbing it into the shard's
// buffer (or the lazy H-basis flag) while q stays separable, and
// dispatching to the backing engine once q has been entangled. Before
// folding, any cross-shard phase buffer touching q that would not
// commute with m is resolved first: an X gate rewrites the buffer in
// place (swap angle0/angle1 where q is control, toggle invert where q
// is target) rather than forcing it to flush; a Hadamard flushes only
// the buffers that aren't a global phase or sigma_x-like invert; every
// other matrix flushes everything outstanding.
func (r *Register) ApplySingleQubit(ctx context.Context, m statevector.Matrix2x2, q int) error {
	if err := r.checkQubit(q); err != nil {
		return err
	}
	s := r.shards[q]

	if s.state == stateShared {
		eng, err := r.engines[s.engineIdx].Engine(ctx)
		if err != nil {
			return err
		}
		return eng.ApplySingleQubit(ctx, m, s.qubitIdx)
	}

	switch {
	case sameMatrix(m, statevector.PauliX):
		r.flipCrossBuffersForX(q)
	case sameMatrix(m, statevector.Hadamard):
		if err := r.flushHadamardNonCommuting(ctx, q); err != nil {
			return err
		}
	case s.hasOutstandingBuffers():
		if err := r.flushCrossBuffersTouching(ctx, []int{q}); err != nil {
			return err
		}
	}

	// Flushing a buffer can entangle q into a shared engine; re-check.
	if s.state == stateShared {
		eng, err := r.engines[s.engineIdx].Engine(ctx)
		if err != nil {
			return err
		}
		return eng.ApplySingleQubit(ctx, m, s.qubitIdx)
	}

	if sameMatrix(m, statevector.Hadamard) && s.buffer == statevector.Identity {
		r.enterXBasis(q)
		return nil
	}

	if s.basis == basisX {
		if err := r.revertToZBasis(ctx, q); err != nil {
			return err
		}
	}
	s.buffer = m.Mul(s.buffer)
	if s.buffer == statevector.Identity {
		s.state = stateIsolated
	} else {
		s.state = stateBuffered
	}
	return nil
}

// ApplyControlled applies m to target whenever every qubit in controls
// reads 1. A single control whose matrix is phase- or invert-like, whose
// endpoints are both still separable, and which commutes with every
// buffer already on either endpoint is absorbed into a cross-shard phase
// buffer instead of forcing entanglement; every other case materializes
// into a shared engine.
func (r *Register) ApplyControlled(ctx context.Context, m statevector.Matrix2x2, controls []int, target int) error {
	if err := r.checkQubit(target); err != nil {
		return err
	}
	for _, c := range controls {
		if err := r.checkQubit(c); err != nil {
			return err
		}
	}

	if len(controls) == 1 {
		if ok, err := r.tryBufferedControl(ctx, controls[0], target, m, false); err != nil {
			return err
		} else if ok {
			return nil
		}
	}
	return r.applyEntangled(ctx, m, controls, nil, target)
}

// ApplyAntiControlled is the mirror of ApplyControlled, firing when every
// qubit in antiControls reads 0.
func (r *Register) ApplyAntiControlled(ctx context.Context, m statevector.Matrix2x2, antiControls []int, target int) error {
	if err := r.checkQubit(target); err != nil {
		return err
	}
	for _, c := range antiControls {
		if err := r.checkQubit(c); err != nil {
			return err
		}
	}

	if len(antiControls) == 1 {
		if ok, err := r.tryBufferedControl(ctx, antiControls[0], target, m, true); err != nil {
			return err
		} else if ok {
			return nil
		}
	}
	return r.applyEntangled(ctx, m, nil, antiControls, target)
}

// tryBufferedControl attempts the cross-shard buffer fast path for a
// single control/target pair, reporting false when m's shape, the
// shards' states, or an outstanding buffer that does not commute with m
// force a physical entanglement instead.
func (r *Register) tryBufferedControl(ctx context.Context, control, target int, m statevector.Matrix2x2, anti bool) (bool, error) {
	if control == target {
		return false, nil
	}
	cs, ts := r.shards[control], r.shards[target]
	if cs.state == stateShared || ts.state == stateShared {
		return false, nil
	}
	if !m.IsPhaseLike() && !m.IsInvertLike() {
		return false, nil
	}
	// Outstanding buffers are flushed in map order, not issue order, so a
	// buffer is only installed next to buffers it commutes with: diagonal
	// buffers commute with each other, an invert-like one with none here.
	for _, s := range []*shard{cs, ts} {
		for _, group := range []map[int]phaseBuffer{s.controls, s.targets} {
			for _, b := range group {
				if m.IsInvertLike() || b.isInvert {
					return false, nil
				}
			}
		}
	}
	if cs.basis == basisX {
		if err := r.revertToZBasis(ctx, control); err != nil {
			return false, err
		}
	}

	buf := matrixToBuffer(m)
	if anti {
		buf = buf.flipAsControl()
	}
	r.addCrossBuffer(control, target, buf)
	return true, nil
}

// applyEntangled is the fallback path: it materializes a shared engine
// covering controls/antiControls and target and dispatches the matrix
// there directly.
func (r *Register) applyEntangled(ctx context.Context, m statevector.Matrix2x2, controls, antiControls []int, target int) error {
	qubits := append(append([]int{}, controls...), antiControls...)
	qubits = append(qubits, target)
	engIdx, err := r.Entangle(ctx, qubits)
	if err != nil {
		return err
	}
	eng, err := r.engines[engIdx].Engine(ctx)
	if err != nil {
		return err
	}
	mapped := func(qs []int) []int {
		out := make([]int, len(qs))
		for i, q := range qs {
			out[i] = r.shards[q].qubitIdx
		}
		return out
	}
	t := r.shards[target].qubitIdx
	if len(antiControls) > 0 {
		return eng.ApplyAntiControlled(ctx, m, mapped(antiControls), t)
	}
	return eng.ApplyControlled(ctx, m, mapped(controls), t)
}

// matrixToBuffer converts a phase- or invert-like matrix into the
// phaseBuffer representation the cross-shard graph stores.
func matrixToBuffer(m statevector.Matrix2x2) phaseBuffer {
	if m.IsInvertLike() {
		a0 := cmplx.Phase(m.M01)
		a1 := cmplx.Phase(m.M10)
		return phaseBuffer{angle0: a0, angle1: a1, isInvert: true}
	}
	a0 := 0.0
	if cmplx.Abs(m.M00) > 1e-12 {
		a0 = cmplx.Phase(m.M00)
	}
	a1 := 0.0
	if cmplx.Abs(m.M11) > 1e-12 {
		a1 = cmplx.Phase(m.M11)
	}
	return phaseBuffer{angle0: a0, angle1: a1}
}

func sameMatrix(a, b statevector.Matrix2x2) bool {
	const eps = 1e-9
	return cmplx.Abs(a.M00-b.M00) < eps && cmplx.Abs(a.M01-b.M01) < eps &&
		cmplx.Abs(a.M10-b.M10) < eps && cmplx.Abs(a.M11-b.M11) < eps
}
