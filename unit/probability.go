package unit

import (
	"context"

	"github.com/qsimlib/qsim/qerr"
)

// Prob returns P(qubit q == 1), read directly off the cached amplitude
// pair for a still-separable shard rather than forcing entanglement.
// Any cross-shard phase buffer touching q is flushed first: once
// applied it can change q's own marginal (an invert-type buffer acts
// on the target the moment the control is fixed or read), so the
// cached amplitude pair can't be trusted until that's settled.
func (r *Register) Prob(ctx context.Context, q int) (float64, error) {
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
		return eng.Prob(ctx, s.qubitIdx)
	}
	if err := r.flushShardBuffer(ctx, q); err != nil {
		return 0, err
	}
	if s.basis == basisX {
		a := (s.amp0 - s.amp1) / complex(1.4142135623730951, 0)
		return real(a)*real(a) + imag(a)*imag(a), nil
	}
	return real(s.amp1)*real(s.amp1) + imag(s.amp1)*imag(s.amp1), nil
}

// ProbAll returns P(register == perm), materializing every entangled
// group's engine along the way.
func (r *Register) ProbAll(ctx context.Context, perm uint64) (float64, error) {
	amps, err := r.GetQuantumState(ctx)
	if err != nil {
		return 0, err
	}
	if perm >= uint64(len(amps)) {
		return 0, qerr.Wrap(qerr.InvalidArgument, "unit: permutation %d out of range for %d qubits", perm, r.NumQubits())
	}
	a := amps[perm]
	return real(a)*real(a) + imag(a)*imag(a), nil
}

// GetQuantumState materializes the whole register into a single
// amplitude vector, entangling every shard into one engine along the
// way. Expensive; intended for small registers and tests.
func (r *Register) GetQuantumState(ctx context.Context) ([]complex128, error) {
	n := r.NumQubits()
	if n == 0 {
		return []complex128{1}, nil
	}
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	engIdx, err := r.Entangle(ctx, all)
	if err != nil {
		return nil, err
	}
	eng, err := r.engines[engIdx].Engine(ctx)
	if err != nil {
		return nil, err
	}
	full, err := eng.GetQuantumState(ctx)
	if err != nil {
		return nil, err
	}

	// The shared engine's qubit order need not match the register's
	// external qubit order once merges have interleaved blocks; remap.
	perm := make([]int, n)
	for q := 0; q < n; q++ {
		perm[q] = r.shards[q].qubitIdx
	}
	out := make([]complex128, len(full))
	for i := range full {
		var j int64
		for q := 0; q < n; q++ {
			if (int64(i)>>uint(perm[q]))&1 == 1 {
				j |= int64(1) << uint(q)
			}
		}
		out[j] = full[i]
	}
	return out, nil
}
