package unit

import (
	"context"

	"github.com/qsimlib/qsim/qerr"
)

// Compose tensor-appends other's qubits after this register's, leaving
// every shard's separability untouched: other's shards are simply
// relocated into this register's shard arena (and, for Shared shards,
// its engine arena) rather than being entangled with anything here.
// Their cross-shard buffer keys are offset to the new arena indices.
func (r *Register) Compose(other *Register) {
	engBase := len(r.engines)
	shardBase := len(r.shards)
	r.engines = append(r.engines, other.engines...)
	for _, s := range other.shards {
		if s.state == stateShared {
			s.engineIdx += engBase
		}
		controls := make(map[int]phaseBuffer, len(s.controls))
		for k, b := range s.controls {
			controls[k+shardBase] = b
		}
		targets := make(map[int]phaseBuffer, len(s.targets))
		for k, b := range s.targets {
			targets[k+shardBase] = b
		}
		s.controls, s.targets = controls, targets
		r.shards = append(r.shards, s)
	}
}

// Decompose factors the qubit range [start,start+length) out into dest,
// which must already be sized to length qubits and itself fully
// separate from every other qubit in that range. Ranges overlapping a
// shared engine are decomposed at the engine level first.
func (r *Register) Decompose(ctx context.Context, start, length int, dest *Register, tolerance float64) error {
	if length <= 0 || start < 0 || start+length > len(r.shards) {
		return qerr.Wrap(qerr.InvalidArgument, "unit: invalid decompose range [%d,%d) over %d qubits", start, start+length, len(r.shards))
	}
	if len(dest.shards) != length {
		return qerr.Wrap(qerr.InvalidArgument, "unit: decompose destination has %d qubits, want %d", len(dest.shards), length)
	}

	for q := start; q < start+length; q++ {
		if err := r.trySeparate(ctx, q, tolerance); err != nil {
			return err
		}
		if r.shards[q].state == stateShared {
			return qerr.Wrap(qerr.SeparabilityViolation, "unit: qubit %d is entangled outside range [%d,%d)", q, start, start+length)
		}
	}

	moved := append([]*shard(nil), r.shards[start:start+length]...)
	r.shards = append(r.shards[:start:start], r.shards[start+length:]...)
	dest.shards = moved
	dest.engines = nil
	return nil
}

// Dispose is Decompose followed by discarding the extracted block.
func (r *Register) Dispose(ctx context.Context, start, length int, tolerance float64) error {
	for q := start; q < start+length; q++ {
		if err := r.trySeparate(ctx, q, tolerance); err != nil {
			return err
		}
		if r.shards[q].state == stateShared {
			return qerr.Wrap(qerr.SeparabilityViolation, "unit: qubit %d is entangled outside range [%d,%d)", q, start, start+length)
		}
	}
	r.shards = append(r.shards[:start:start], r.shards[start+length:]...)
	return nil
}
