package unit

import (
	"context"

	"github.com/qsimlib/qsim/statevector"
)

// revertToZBasis applies a Hadamard to shard q and clears its basis
// flag, undoing the lazy X-basis tracking used to avoid materializing a
// physical Hadamard for every X-measurement-basis gate. Callers must
// have already flushed q's buffer: a buffer applied while still
// X-tracked would need reinterpreting in the new basis, which this
// does not do.
func (r *Register) revertToZBasis(ctx context.Context, q int) error {
	s := r.shards[q]
	if s.basis != basisX {
		return nil
	}
	switch s.state {
	case stateIsolated:
		m := statevector.Hadamard
		amp0, amp1 := s.amp0, s.amp1
		s.amp0 = m.M00*amp0 + m.M01*amp1
		s.amp1 = m.M10*amp0 + m.M11*amp1
	case stateShared:
		eng, err := r.engines[s.engineIdx].Engine(ctx)
		if err != nil {
			return err
		}
		if err := eng.ApplySingleQubit(ctx, statevector.Hadamard, s.qubitIdx); err != nil {
			return err
		}
	}
	s.basis = basisZ
	return nil
}

// enterXBasis is the lazy half of the H-basis optimization: rather than
// materializing the Hadamard, it toggles the tracked basis flag so the
// shard's stored amp0/amp1 are reinterpreted as X-basis coefficients. Any
// outstanding cross-shard buffer that would not commute with this must
// already have been flushed by the caller.
func (r *Register) enterXBasis(q int) {
	s := r.shards[q]
	if s.basis == basisX {
		s.basis = basisZ
		return
	}
	s.basis = basisX
}
