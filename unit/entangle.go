package unit

import (
	"context"

	"github.com/qsimlib/qsim/statevector"
)

// Entangle finds or creates the shared engine covering every qubit in
// qubits, merging any distinct engines among them via Compose, and
// remaps each involved shard's engineIdx/qubitIdx.
func (r *Register) Entangle(ctx context.Context, qubits []int) (int, error) {
	if err := r.flushCrossBuffersTouching(ctx, qubits); err != nil {
		return -1, err
	}

	// Collect the distinct existing engines among qubits, and the
	// isolated/buffered qubits that still need to be folded in.
	seen := map[int]bool{}
	var engineIdxs []int
	var loose []int
	for _, q := range qubits {
		s := r.shards[q]
		if s.state == stateShared {
			if !seen[s.engineIdx] {
				seen[s.engineIdx] = true
				engineIdxs = append(engineIdxs, s.engineIdx)
			}
		} else {
			loose = append(loose, q)
		}
	}

	var targetIdx int
	if len(engineIdxs) == 0 {
		// Nothing is shared yet: start from an empty engine; the loose
		// qubits (isolated+buffered) are folded in below in the order
		// they appear in qubits, which fixes their qubitIdx.
		idx, err := r.newEngine(0)
		if err != nil {
			return -1, err
		}
		targetIdx = idx
	} else {
		targetIdx = engineIdxs[0]
		for _, idx := range engineIdxs[1:] {
			if err := r.mergeEngines(ctx, targetIdx, idx); err != nil {
				return -1, err
			}
		}
	}

	for _, q := range loose {
		if err := r.foldLooseQubitInto(ctx, targetIdx, q); err != nil {
			return -1, err
		}
	}

	return targetIdx, nil
}

// mergeEngines composes engines[src] onto engines[dst] and remaps every
// shard pointing at src.
func (r *Register) mergeEngines(ctx context.Context, dst, src int) error {
	if dst == src {
		return nil
	}
	offset := r.engines[dst].NumQubits()
	if err := r.engines[dst].Compose(ctx, r.engines[src]); err != nil {
		return err
	}
	for _, s := range r.shards {
		if s.state == stateShared && s.engineIdx == src {
			s.engineIdx = dst
			s.qubitIdx += offset
		}
	}
	r.engines[src] = nil
	return nil
}

// foldLooseQubitInto composes qubit q's isolated-or-buffered state into
// engines[dst] and converts its shard to Shared.
func (r *Register) foldLooseQubitInto(ctx context.Context, dst int, q int) error {
	s := r.shards[q]
	if err := r.flushShardBuffer(ctx, q); err != nil {
		return err
	}
	if s.basis == basisX {
		if err := r.revertToZBasis(ctx, q); err != nil {
			return err
		}
	}

	single, err := newHybridRegisterWithState(r.cfg, s.amp0, s.amp1)
	if err != nil {
		return err
	}
	offset := r.engines[dst].NumQubits()
	if err := r.engines[dst].Compose(ctx, single); err != nil {
		return err
	}
	s.state = stateShared
	s.engineIdx = dst
	s.qubitIdx = offset
	s.amp0, s.amp1 = 1, 0
	s.buffer = statevector.Identity
	return nil
}
