// Package statevector is the dense/sparse amplitude kernel: arbitrary
// 2x2 unitaries, controlled and anti-controlled application, register
// arithmetic, measurement, and compose/decompose. It generalizes
// q-deck's StateVector (quantum.go), whose applyH/applyX/.../
// applyCX/applyCZ loops hardcode one gate each, into a single
// ApplySingleQubit/ApplyControlled pair parametrized by an arbitrary
// Matrix2x2, dispatched through the pfor strided runtime.
package statevector

import (
	"context"
	"math"
	"math/cmplx"
	"math/rand"

	"go.uber.org/zap"

	"github.com/qsimlib/qsim/amplitude"
	"github.com/qsimlib/qsim/pfor"
	"github.com/qsimlib/qsim/qerr"
)

// Engine is a state vector over a fixed number of qubits, backed by an
// amplitude.Store (dense or sparse).
type Engine struct {
	store         amplitude.Store
	n             int
	normIsUnit    bool
	autoNormalize bool
	normThreshold float64
	rng           *rand.Rand
	logger        *zap.Logger
}

// Params configures Engine construction, mirroring the subset of
// qopt.Config relevant to a bare state-vector engine.
type Params struct {
	QubitCount    int
	UseSparse     bool
	AutoNormalize bool
	NormThreshold float64
	RNGSeed       uint64
	Logger        *zap.Logger
}

// New constructs an n-qubit engine initialized to |0...0>.
func New(p Params) (*Engine, error) {
	if p.QubitCount < 0 {
		return nil, qerr.Wrap(qerr.InvalidArgument, "statevector: negative qubit count %d", p.QubitCount)
	}
	if p.QubitCount > 62 {
		return nil, qerr.Wrap(qerr.CapacityExceeded, "statevector: qubit count %d exceeds representable index width", p.QubitCount)
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	threshold := p.NormThreshold
	if threshold <= 0 {
		threshold = 1e-12
	}

	var store amplitude.Store
	if p.UseSparse {
		store = amplitude.NewSparse(p.QubitCount, threshold)
	} else {
		store = amplitude.NewDense(p.QubitCount)
	}
	e := &Engine{
		store:         store,
		n:             p.QubitCount,
		normIsUnit:    true,
		autoNormalize: p.AutoNormalize,
		normThreshold: threshold,
		rng:           rand.New(rand.NewSource(int64(p.RNGSeed))),
		logger:        logger,
	}
	e.SetPermutation(0)
	return e, nil
}

// NumQubits returns n.
func (e *Engine) NumQubits() int { return e.n }

// Store exposes the backing amplitude store.
func (e *Engine) Store() amplitude.Store { return e.store }

// Configure overrides the normalization threshold and auto-normalize flag
// after construction, used by hybrid.Register.promote to carry its own
// configured values onto an engine that stabilizer.Tableau.Materialize
// built with statevector's bare defaults.
func (e *Engine) Configure(normThreshold float64, autoNormalize bool) {
	if normThreshold > 0 {
		e.normThreshold = normThreshold
	}
	e.autoNormalize = autoNormalize
}

func (e *Engine) dim() int64 { return int64(1) << uint(e.n) }

func (e *Engine) checkQubit(q int) error {
	if q < 0 || q >= e.n {
		return qerr.Wrap(qerr.InvalidArgument, "statevector: qubit index %d out of range [0,%d)", q, e.n)
	}
	return nil
}

// SetPermutation collapses the engine to the basis state perm.
func (e *Engine) SetPermutation(perm uint64) {
	e.store.Clear()
	e.store.Write(int64(perm), 1)
	e.normIsUnit = true
}

// SetQuantumState overwrites the amplitudes wholesale. len(amps) must be
// 2^n.
func (e *Engine) SetQuantumState(amps []complex128) error {
	if int64(len(amps)) != e.dim() {
		return qerr.Wrap(qerr.InvalidArgument, "statevector: expected %d amplitudes, got %d", e.dim(), len(amps))
	}
	for i, a := range amps {
		e.store.Write(int64(i), a)
	}
	e.normIsUnit = false
	return e.Renormalize()
}

// Clone deep-copies the engine's full amplitude state.
func (e *Engine) Clone() *Engine {
	clone := &Engine{
		n:             e.n,
		normIsUnit:    e.normIsUnit,
		autoNormalize: e.autoNormalize,
		normThreshold: e.normThreshold,
		rng:           e.rng,
		logger:        e.logger,
	}
	clone.store = amplitude.NewDense(e.n)
	n := e.dim()
	for i := int64(0); i < n; i++ {
		clone.store.Write(i, e.store.Read(i))
	}
	return clone
}

// GetQuantumState copies out the full amplitude vector. Takes a context
// and returns an error to match the Engine surface every layer shares
// (statevector itself never fails or blocks here; the signature exists
// for that uniformity, not because this implementation needs it).
func (e *Engine) GetQuantumState(ctx context.Context) ([]complex128, error) {
	n := e.dim()
	out := make([]complex128, n)
	for i := int64(0); i < n; i++ {
		out[i] = e.store.Read(i)
	}
	return out, nil
}

// Renormalize rescales amplitudes so Σ|a|^2 = 1. No-op if the norm is
// already known unit.
func (e *Engine) Renormalize() error {
	if e.normIsUnit {
		return nil
	}
	norm := e.store.Norm()
	if norm < e.normThreshold {
		return qerr.Wrap(qerr.DegenerateState, "statevector: norm %g below threshold %g", norm, e.normThreshold)
	}
	if d, ok := e.store.(*amplitude.Dense); ok {
		d.Rescale(norm, e.normThreshold)
	} else {
		inv := 1 / math.Sqrt(norm)
		n := e.dim()
		for i := int64(0); i < n; i++ {
			v := e.store.Read(i) * complex(inv, 0)
			if cmplx.Abs(v) < e.normThreshold {
				v = 0
			}
			e.store.Write(i, v)
		}
	}
	e.normIsUnit = true
	return nil
}

func (e *Engine) maybeAutoNormalize() {
	if e.autoNormalize {
		_ = e.Renormalize()
	}
}

// ApplySingleQubit applies the 2x2 unitary m to qubit q, iterating the
// 2^(n-1) index pairs that differ only in bit q: the bit mask is
// computed once and applied per index, never materialized into a list
// of pairs.
func (e *Engine) ApplySingleQubit(ctx context.Context, m Matrix2x2, q int) error {
	if err := e.checkQubit(q); err != nil {
		return err
	}
	return e.applyControlled(ctx, m, nil, nil, q)
}

// ApplyControlled applies m to qubit t only on basis states where every
// qubit in controls reads 1.
func (e *Engine) ApplyControlled(ctx context.Context, m Matrix2x2, controls []int, t int) error {
	if err := e.checkQubit(t); err != nil {
		return err
	}
	for _, c := range controls {
		if err := e.checkQubit(c); err != nil {
			return err
		}
	}
	return e.applyControlled(ctx, m, controls, nil, t)
}

// ApplyAntiControlled applies m to qubit t only on basis states where
// every qubit in controls reads 0.
func (e *Engine) ApplyAntiControlled(ctx context.Context, m Matrix2x2, antiControls []int, t int) error {
	if err := e.checkQubit(t); err != nil {
		return err
	}
	for _, c := range antiControls {
		if err := e.checkQubit(c); err != nil {
			return err
		}
	}
	return e.applyControlled(ctx, m, nil, antiControls, t)
}

func (e *Engine) applyControlled(ctx context.Context, m Matrix2x2, controls, antiControls []int, t int) error {
	tBit := int64(1) << uint(t)
	var cMask, cPattern int64
	for _, c := range controls {
		bit := int64(1) << uint(c)
		cMask |= bit
		cPattern |= bit
	}
	for _, c := range antiControls {
		bit := int64(1) << uint(c)
		cMask |= bit
	}

	nonUnitary := !isUnitary(m)

	err := pfor.Run(ctx, e.dim(), 6, func(i int64) {
		if i&tBit != 0 {
			return
		}
		if i&cMask != cPattern {
			return
		}
		j := i | tBit
		a0 := e.store.Read(i)
		a1 := e.store.Read(j)
		n0 := m.M00*a0 + m.M01*a1
		n1 := m.M10*a0 + m.M11*a1
		e.store.Write2(i, n0, j, n1)
	})
	if err != nil {
		return err
	}
	if nonUnitary {
		e.normIsUnit = false
	}
	e.maybeAutoNormalize()
	return nil
}

func isUnitary(m Matrix2x2) bool {
	// A 2x2 matrix is unitary iff M*M^dagger = I. Cheap exact check for
	// the small fixed set of gates the upper layers actually construct
	// (rotations, Paulis, phase/invert buffers); composed buffers can
	// drift non-unitary by accumulated floating-point error.
	d := m.Mul(m.Dagger())
	const eps = 1e-9
	return cmplx.Abs(d.M00-1) < eps && cmplx.Abs(d.M11-1) < eps &&
		cmplx.Abs(d.M01) < eps && cmplx.Abs(d.M10) < eps
}

// ApplyPhase is the diag(topLeft, bottomRight) specialization used by
// every gate classified as phase-only after zero-pattern analysis.
func (e *Engine) ApplyPhase(ctx context.Context, topLeft, bottomRight complex128, q int) error {
	return e.ApplySingleQubit(ctx, Phase(topLeft, bottomRight), q)
}

// ApplyInvert is the anti-diagonal specialization.
func (e *Engine) ApplyInvert(ctx context.Context, topRight, bottomLeft complex128, q int) error {
	return e.ApplySingleQubit(ctx, Invert(topRight, bottomLeft), q)
}

// UniformlyControlled applies matrices[k] to qubit t when the controls
// read as the integer k, computing the post-state and its norm in one
// pass.
func (e *Engine) UniformlyControlled(ctx context.Context, controls []int, t int, matrices []Matrix2x2) error {
	if err := e.checkQubit(t); err != nil {
		return err
	}
	if len(matrices) != 1<<len(controls) {
		return qerr.Wrap(qerr.InvalidArgument, "statevector: expected %d matrices for %d controls, got %d", 1<<len(controls), len(controls), len(matrices))
	}
	tBit := int64(1) << uint(t)
	cBits := make([]int64, len(controls))
	for idx, c := range controls {
		if err := e.checkQubit(c); err != nil {
			return err
		}
		cBits[idx] = int64(1) << uint(c)
	}

	norm, err := pfor.RunReduce(ctx, e.dim(), 6, func(i int64) float64 {
		if i&tBit != 0 {
			return 0
		}
		k := 0
		for idx, bit := range cBits {
			if i&bit != 0 {
				k |= 1 << idx
			}
		}
		m := matrices[k]
		j := i | tBit
		a0 := e.store.Read(i)
		a1 := e.store.Read(j)
		n0 := m.M00*a0 + m.M01*a1
		n1 := m.M10*a0 + m.M11*a1
		e.store.Write2(i, n0, j, n1)
		return real(n0)*real(n0) + imag(n0)*imag(n0) + real(n1)*real(n1) + imag(n1)*imag(n1)
	})
	if err != nil {
		return err
	}
	e.normIsUnit = math.Abs(norm-1) < e.normThreshold
	e.maybeAutoNormalize()
	return nil
}

// UniformParityRZ multiplies each amplitude by e^{+-i*angle} according
// to the parity of popcount(index & mask).
func (e *Engine) UniformParityRZ(ctx context.Context, mask int64, angle float64) error {
	pos := cmplx.Exp(complex(0, angle))
	neg := cmplx.Exp(complex(0, -angle))
	return pfor.Run(ctx, e.dim(), 6, func(i int64) {
		if popcount(i&mask)%2 == 0 {
			e.store.Write(i, e.store.Read(i)*pos)
		} else {
			e.store.Write(i, e.store.Read(i)*neg)
		}
	})
}

func popcount(x int64) int {
	c := 0
	for x != 0 {
		c += int(x & 1)
		x >>= 1
	}
	return c
}
