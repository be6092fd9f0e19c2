package hybrid

import (
	"context"

	"github.com/qsimlib/qsim/statevector"
)

// Prob returns P(qubit q == 1). Requires amplitude access only when q
// carries a non-Clifford buffer; a plain stabilizer qubit's probability
// is read off the tableau via a scratch measurement that never mutates
// the caller's state.
func (r *Register) Prob(ctx context.Context, q int) (float64, error) {
	if err := r.checkQubit(q); err != nil {
		return 0, err
	}
	if r.mode == ModeEngine {
		return r.eng.Prob(ctx, q)
	}
	if r.hasBuffer(q) {
		if err := r.flushBuffer(ctx, q); err != nil {
			return 0, err
		}
		return r.eng.Prob(ctx, q)
	}
	sep, err := r.tab.IsSeparableZ(q)
	if err != nil {
		return 0, err
	}
	if sep {
		p0, err := r.probZDeterministic(ctx, q)
		if err != nil {
			return 0, err
		}
		if p0 {
			return 0, nil
		}
		return 1, nil
	}
	return 0.5, nil
}

// ProbAll materializes (if needed) and returns P(register == perm).
func (r *Register) ProbAll(ctx context.Context, perm uint64) (float64, error) {
	if err := r.promote(ctx); err != nil {
		return 0, err
	}
	return r.eng.ProbAll(ctx, perm)
}

// GetQuantumState materializes the register and returns its amplitudes.
func (r *Register) GetQuantumState(ctx context.Context) ([]complex128, error) {
	if err := r.promote(ctx); err != nil {
		return nil, err
	}
	return r.eng.GetQuantumState(ctx)
}

// Engine returns the backing dense engine, promoting first if needed.
// Used by the unit and pager layers when they need direct amplitude
// access (e.g. for Compose/Decompose across shards).
func (r *Register) Engine(ctx context.Context) (*statevector.Engine, error) {
	if err := r.promote(ctx); err != nil {
		return nil, err
	}
	return r.eng, nil
}
