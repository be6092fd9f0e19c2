package unit

import (
	"context"

	"github.com/qsimlib/qsim/qerr"
)

// Measure performs a projective Z-basis measurement of qubit q,
// collapsing it and, when it was entangled, attempting to separate it
// back out of its shared engine. Any cross-shard phase buffer touching
// q is flushed first, since collapsing q can be exactly the event that
// forces a buffered flip onto whatever it's paired with.
func (r *Register) Measure(ctx context.Context, q int) (int, error) {
	if err := r.checkQubit(q); err != nil {
		return 0, err
	}
	if err := r.flushCrossBuffersTouching(ctx, []int{q}); err != nil {
		return 0, err
	}
	s := r.shards[q]
	if s.state == stateShared {
		eng, err := r.engines[s.engineIdx].Engine(ctx)
		if err != nil {
			return 0, err
		}
		outcome, err := eng.Measure(ctx, s.qubitIdx)
		if err != nil {
			return 0, err
		}
		if err := r.trySeparate(ctx, q, r.cfg.SeparabilityThreshold); err != nil {
			return 0, err
		}
		return outcome, nil
	}

	if err := r.flushShardBuffer(ctx, q); err != nil {
		return 0, err
	}
	if s.basis == basisX {
		if err := r.revertToZBasis(ctx, q); err != nil {
			return 0, err
		}
	}
	p1 := real(s.amp1)*real(s.amp1) + imag(s.amp1)*imag(s.amp1)
	outcome := 0
	if r.rng.Float64() < p1 {
		outcome = 1
	}
	if outcome == 1 {
		s.amp0, s.amp1 = 0, 1
	} else {
		s.amp0, s.amp1 = 1, 0
	}
	return outcome, nil
}

// ForceMeasure collapses qubit q to v, requiring the caller to have
// ensured P(q==v) is non-zero. Any cross-shard phase buffer touching q
// is flushed first, for the same reason Measure flushes one.
func (r *Register) ForceMeasure(ctx context.Context, q int, v int) error {
	if v != 0 && v != 1 {
		return qerr.Wrap(qerr.InvalidArgument, "unit: ForceMeasure bit must be 0 or 1, got %d", v)
	}
	if err := r.checkQubit(q); err != nil {
		return err
	}
	if err := r.flushCrossBuffersTouching(ctx, []int{q}); err != nil {
		return err
	}
	s := r.shards[q]
	if s.state == stateShared {
		eng, err := r.engines[s.engineIdx].Engine(ctx)
		if err != nil {
			return err
		}
		if err := eng.ForceMeasure(ctx, s.qubitIdx, v); err != nil {
			return err
		}
		return r.trySeparate(ctx, q, r.cfg.SeparabilityThreshold)
	}

	if err := r.flushShardBuffer(ctx, q); err != nil {
		return err
	}
	if s.basis == basisX {
		if err := r.revertToZBasis(ctx, q); err != nil {
			return err
		}
	}
	p1 := real(s.amp1)*real(s.amp1) + imag(s.amp1)*imag(s.amp1)
	if v == 1 && p1 < r.cfg.NormThreshold {
		return qerr.Wrap(qerr.InvalidArgument, "unit: ForceMeasure(%d,1) inconsistent with zero-probability outcome", q)
	}
	if v == 0 && 1-p1 < r.cfg.NormThreshold {
		return qerr.Wrap(qerr.InvalidArgument, "unit: ForceMeasure(%d,0) inconsistent with zero-probability outcome", q)
	}
	if v == 1 {
		s.amp0, s.amp1 = 0, 1
	} else {
		s.amp0, s.amp1 = 1, 0
	}
	return nil
}
