package unit

import (
	"context"

	"github.com/qsimlib/qsim/hybrid"
	"github.com/qsimlib/qsim/qopt"
	"github.com/qsimlib/qsim/statevector"
)

// newHybridRegisterWithState builds a fresh 1-qubit hybrid.Register
// initialized to amp0*|0> + amp1*|1>, used when a loose (isolated or
// just-flushed) shard is folded into a shared engine.
func newHybridRegisterWithState(cfg qopt.Config, amp0, amp1 complex128) (*hybrid.Register, error) {
	reg, err := hybrid.New(hybrid.Params{
		QubitCount:    1,
		RNGSeed:       cfg.RNGSeed,
		NormThreshold: cfg.NormThreshold,
		AutoNormalize: cfg.DoAutoNormalize,
		Logger:        cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	eng, err := reg.Engine(context.Background())
	if err != nil {
		return nil, err
	}
	if err := eng.SetQuantumState([]complex128{amp0, amp1}); err != nil {
		return nil, err
	}
	return reg, nil
}

// flushShardBuffer applies an isolated or buffered shard's pending
// single-qubit matrix to its cached amplitude pair, or to the shared
// engine if already entangled, clearing the buffer.
func (r *Register) flushShardBuffer(ctx context.Context, q int) error {
	s := r.shards[q]
	switch s.state {
	case stateIsolated:
		return nil
	case stateBuffered:
		m := s.buffer
		amp0, amp1 := s.amp0, s.amp1
		s.amp0 = m.M00*amp0 + m.M01*amp1
		s.amp1 = m.M10*amp0 + m.M11*amp1
		s.buffer = statevector.Identity
		s.state = stateIsolated
		return nil
	case stateShared:
		if s.buffer == statevector.Identity {
			return nil
		}
		eng, err := r.engines[s.engineIdx].Engine(ctx)
		if err != nil {
			return err
		}
		if err := eng.ApplySingleQubit(ctx, s.buffer, s.qubitIdx); err != nil {
			return err
		}
		s.buffer = statevector.Identity
		return nil
	}
	return nil
}

// flushCrossBuffersTouching flushes every cross-shard phase buffer that
// has one endpoint among qubits, applying the buffered controlled-phase
// gate to the backing engine(s) and removing both sides of the
// bipartite map entry so the two endpoints stay symmetric.
func (r *Register) flushCrossBuffersTouching(ctx context.Context, qubits []int) error {
	touch := map[int]bool{}
	for _, q := range qubits {
		touch[q] = true
	}
	for q := range r.shards {
		s := r.shards[q]
		if !touch[q] {
			continue
		}
		for other := range s.controls {
			if err := r.flushCrossBuffer(ctx, q, other); err != nil {
				return err
			}
		}
		for other := range s.targets {
			if err := r.flushCrossBuffer(ctx, other, q); err != nil {
				return err
			}
		}
	}
	return nil
}

// flushCrossBuffer applies the buffered controlled-phase gate between
// control and target directly (entangling them first if needed) and
// removes the buffer from both endpoints.
func (r *Register) flushCrossBuffer(ctx context.Context, control, target int) error {
	cs := r.shards[control]
	buf, ok := cs.controls[target]
	if !ok {
		return nil
	}
	delete(cs.controls, target)
	delete(r.shards[target].targets, control)

	if buf.isIdentity() {
		return nil
	}
	engIdx, err := r.Entangle(ctx, []int{control, target})
	if err != nil {
		return err
	}
	eng, err := r.engines[engIdx].Engine(ctx)
	if err != nil {
		return err
	}
	cShard := r.shards[control]
	tShard := r.shards[target]
	return eng.ApplyControlled(ctx, buf.matrix(), []int{cShard.qubitIdx}, tShard.qubitIdx)
}

// addCrossBuffer fuses buf into the existing control->target buffer (or
// installs it fresh), maintaining the symmetric invariant.
func (r *Register) addCrossBuffer(control, target int, buf phaseBuffer) {
	cs := r.shards[control]
	ts := r.shards[target]
	existing, ok := cs.controls[control2key(target)]
	fused := buf
	if ok {
		fused = existing.fuse(buf)
	}
	if fused.isIdentity() {
		delete(cs.controls, target)
		delete(ts.targets, control)
		return
	}
	cs.controls[target] = fused
	ts.targets[control] = fused
}

func control2key(q int) int { return q }

// flipCrossBuffersForX rewrites every cross-shard buffer touching q to
// account for an X gate on q, instead of forcing it to flush: a buffer
// where q is the control has angle0/angle1 swapped (FlipPhaseAnti),
// and a buffer where q is the target has its invert flag toggled. Both
// copies of the affected bipartite entry are kept in sync.
func (r *Register) flipCrossBuffersForX(q int) {
	s := r.shards[q]
	for other, buf := range s.controls {
		flipped := buf.flipAsControl()
		s.controls[other] = flipped
		r.shards[other].targets[q] = flipped
	}
	for other, buf := range s.targets {
		toggled := buf.toggleInvertAsTarget()
		s.targets[other] = toggled
		r.shards[other].controls[q] = toggled
	}
}

// flushHadamardNonCommuting flushes every cross-shard buffer touching q
// whose shape isn't one of the two a Hadamard can pass through without
// disturbing it (a global phase or a sigma_x-like invert); those are
// left outstanding since toggling q's basis flag commutes with them.
func (r *Register) flushHadamardNonCommuting(ctx context.Context, q int) error {
	s := r.shards[q]
	for other, buf := range s.controls {
		if !buf.commutesWithHadamard() {
			if err := r.flushCrossBuffer(ctx, q, other); err != nil {
				return err
			}
		}
	}
	for other, buf := range s.targets {
		if !buf.commutesWithHadamard() {
			if err := r.flushCrossBuffer(ctx, other, q); err != nil {
				return err
			}
		}
	}
	return nil
}
