package hybrid

import (
	"context"

	"github.com/qsimlib/qsim/stabilizer"
	"github.com/qsimlib/qsim/statevector"
)

// Compose tensor-appends other's qubits. If both registers are still on
// the stabilizer backend the composition stays there; otherwise both
// sides are promoted first.
func (r *Register) Compose(ctx context.Context, other *Register) error {
	if r.mode == ModeStabilizer && other.mode == ModeStabilizer {
		r.tab.Compose(other.tab)
		r.shardGate = append(r.shardGate, other.shardGate...)
		r.n += other.n
		return nil
	}
	if err := r.promote(ctx); err != nil {
		return err
	}
	if err := other.promote(ctx); err != nil {
		return err
	}
	if err := r.eng.Compose(other.eng); err != nil {
		return err
	}
	r.shardGate = append(r.shardGate, other.shardGate...)
	r.n += other.n
	return nil
}

// Decompose factors [start,start+length) out into dest.
func (r *Register) Decompose(ctx context.Context, start, length int, dest *Register, tolerance float64) error {
	for q := start; q < start+length; q++ {
		if r.hasBuffer(q) {
			if err := r.flushBuffer(ctx, q); err != nil {
				return err
			}
		}
	}
	if r.mode == ModeStabilizer && dest.mode == ModeStabilizer {
		if err := r.tab.Decompose(start, length, dest.tab); err != nil {
			return err
		}
		dest.shardGate = append(dest.shardGate[:0], r.shardGate[start:start+length]...)
		r.shardGate = append(r.shardGate[:start], r.shardGate[start+length:]...)
		r.n -= length
		dest.n = length
		return nil
	}
	if err := r.promote(ctx); err != nil {
		return err
	}
	if err := dest.promote(ctx); err != nil {
		return err
	}
	if err := r.eng.Decompose(start, length, dest.eng, tolerance); err != nil {
		return err
	}
	dest.shardGate = append(dest.shardGate[:0], r.shardGate[start:start+length]...)
	r.shardGate = append(r.shardGate[:start], r.shardGate[start+length:]...)
	r.n -= length
	dest.n = length
	return nil
}

// Dispose is Decompose followed by discarding the extracted block.
func (r *Register) Dispose(ctx context.Context, start, length int, tolerance float64) error {
	scratch, err := New(Params{QubitCount: length, RNGSeed: r.rngSeed, NormThreshold: r.normThreshold, AutoNormalize: r.autoNormalize})
	if err != nil {
		return err
	}
	return r.Decompose(ctx, start, length, scratch, tolerance)
}

// SetPermutation resets the register to a basis state, discarding any
// entanglement and returning to the stabilizer backend.
func (r *Register) SetPermutation(perm uint64) error {
	tab, err := stabilizer.New(r.n, r.rngSeed)
	if err != nil {
		return err
	}
	for q := 0; q < r.n; q++ {
		if (perm>>uint(q))&1 == 1 {
			if err := tab.X(q); err != nil {
				return err
			}
		}
	}
	r.tab = tab
	r.eng = nil
	r.mode = ModeStabilizer
	for i := range r.shardGate {
		r.shardGate[i] = statevector.Identity
	}
	return nil
}

