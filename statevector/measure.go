package statevector

import (
	"context"
	"math"

	"github.com/qsimlib/qsim/pfor"
	"github.com/qsimlib/qsim/qerr"
)

// Prob returns P(qubit q == 1).
func (e *Engine) Prob(ctx context.Context, q int) (float64, error) {
	if err := e.checkQubit(q); err != nil {
		return 0, err
	}
	bit := int64(1) << uint(q)
	return pfor.RunReduce(ctx, e.dim(), 6, func(i int64) float64 {
		if i&bit == 0 {
			return 0
		}
		a := e.store.Read(i)
		return real(a)*real(a) + imag(a)*imag(a)
	})
}

// ProbAll returns P(register == perm) over the full basis.
func (e *Engine) ProbAll(ctx context.Context, perm uint64) (float64, error) {
	if perm >= uint64(e.dim()) {
		return 0, qerr.Wrap(qerr.InvalidArgument, "statevector: permutation %d out of range for %d qubits", perm, e.n)
	}
	a := e.store.Read(int64(perm))
	return real(a)*real(a) + imag(a)*imag(a), nil
}

// ProbReg returns P(bits [start,start+length) == value).
func (e *Engine) ProbReg(ctx context.Context, start, length int, value uint64) (float64, error) {
	mask := (int64(1)<<uint(length) - 1) << uint(start)
	pattern := (int64(value) << uint(start)) & mask
	return pfor.RunReduce(ctx, e.dim(), 6, func(i int64) float64 {
		if i&mask != pattern {
			return 0
		}
		a := e.store.Read(i)
		return real(a)*real(a) + imag(a)*imag(a)
	})
}

// ProbMask returns P(index & mask == value).
func (e *Engine) ProbMask(ctx context.Context, mask int64, value int64) (float64, error) {
	pattern := mask & value
	return pfor.RunReduce(ctx, e.dim(), 6, func(i int64) float64 {
		if i&mask != pattern {
			return 0
		}
		a := e.store.Read(i)
		return real(a)*real(a) + imag(a)*imag(a)
	})
}

// ProbParity returns P(popcount(index & mask) is odd).
func (e *Engine) ProbParity(ctx context.Context, mask int64) (float64, error) {
	return pfor.RunReduce(ctx, e.dim(), 6, func(i int64) float64 {
		if popcount(i&mask)%2 == 0 {
			return 0
		}
		a := e.store.Read(i)
		return real(a)*real(a) + imag(a)*imag(a)
	})
}

// Measure performs a projective Z-basis measurement of qubit q,
// collapsing and renormalizing the surviving subspace, and returns the
// observed bit.
func (e *Engine) Measure(ctx context.Context, q int) (int, error) {
	p1, err := e.Prob(ctx, q)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(p1) {
		return 0, qerr.Wrap(qerr.DegenerateState, "statevector: measure on degenerate state at qubit %d", q)
	}
	outcome := 0
	if e.rng.Float64() < p1 {
		outcome = 1
	}
	if err := e.collapse(ctx, q, outcome); err != nil {
		return 0, err
	}
	return outcome, nil
}

// ForceMeasure collapses qubit q to v, requiring the caller to have
// verified that P(q==v) is non-zero; fails otherwise.
func (e *Engine) ForceMeasure(ctx context.Context, q int, v int) error {
	if v != 0 && v != 1 {
		return qerr.Wrap(qerr.InvalidArgument, "statevector: ForceMeasure bit must be 0 or 1, got %d", v)
	}
	p, err := e.probForValue(ctx, q, v)
	if err != nil {
		return err
	}
	if p < e.normThreshold {
		return qerr.Wrap(qerr.InvalidArgument, "statevector: ForceMeasure(%d,%d) inconsistent with zero-probability outcome", q, v)
	}
	return e.collapse(ctx, q, v)
}

func (e *Engine) probForValue(ctx context.Context, q, v int) (float64, error) {
	p1, err := e.Prob(ctx, q)
	if err != nil {
		return 0, err
	}
	if v == 1 {
		return p1, nil
	}
	return 1 - p1, nil
}

func (e *Engine) collapse(ctx context.Context, q, outcome int) error {
	bit := int64(1) << uint(q)
	var keep int64
	if outcome == 1 {
		keep = bit
	}
	if err := pfor.Run(ctx, e.dim(), 6, func(i int64) {
		if i&bit != keep {
			e.store.Write(i, 0)
		}
	}); err != nil {
		return err
	}
	e.normIsUnit = false
	return e.Renormalize()
}
