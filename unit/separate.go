package unit

import (
	"context"

	"github.com/qsimlib/qsim/hybrid"
	"github.com/qsimlib/qsim/qerr"
)

// trySeparate attempts to pull shard q back out of its shared engine
// into an isolated amplitude pair, the recovery half of the
// entangle-then-separate cycle (e.g. two CZ gates canceling, or a
// measurement leaving its qubit in a product state). A non-separable
// range is not an error here; it just means q stays Shared.
func (r *Register) trySeparate(ctx context.Context, q int, tolerance float64) error {
	s := r.shards[q]
	if s.state != stateShared {
		return nil
	}
	eng := r.engines[s.engineIdx]
	if eng.NumQubits() == 1 {
		return nil
	}

	dest, err := hybrid.New(hybrid.Params{
		QubitCount:    1,
		RNGSeed:       r.cfg.RNGSeed,
		NormThreshold: r.cfg.NormThreshold,
		AutoNormalize: r.cfg.DoAutoNormalize,
		Logger:        r.logger,
	})
	if err != nil {
		return err
	}

	start := s.qubitIdx
	if err := eng.Decompose(ctx, start, 1, dest, tolerance); err != nil {
		if qerr.Is(err, qerr.SeparabilityViolation) {
			return nil
		}
		return err
	}

	amps, err := dest.GetQuantumState(ctx)
	if err != nil {
		return err
	}

	for _, other := range r.shards {
		if other == s {
			continue
		}
		if other.state == stateShared && other.engineIdx == s.engineIdx && other.qubitIdx > start {
			other.qubitIdx--
		}
	}

	*s = *newIsolatedShard()
	s.amp0, s.amp1 = amps[0], amps[1]
	return nil
}
