// Package hybrid implements the stabilizer-hybrid layer: it runs gates
// on the stabilizer tableau while the circuit stays inside the Clifford
// group, and transparently promotes to the dense state-vector engine
// the moment a non-Clifford operation (or a request that needs
// amplitudes directly) arrives. The {Stabilizer, Engine} state machine
// is this package's Mode type.
package hybrid

import (
	"context"
	"math"
	"math/cmplx"

	"go.uber.org/zap"

	"github.com/qsimlib/qsim/qerr"
	"github.com/qsimlib/qsim/stabilizer"
	"github.com/qsimlib/qsim/statevector"
)

// Mode is the layer's two-state machine.
type Mode int

const (
	ModeStabilizer Mode = iota
	ModeEngine
)

// Register is either a stabilizer.Tableau or a statevector.Engine, plus
// per-qubit buffered single-qubit matrices pending flush. Never both
// backends at once: once promoted to Engine mode, demotion back to
// Stabilizer never happens automatically.
type Register struct {
	mode Mode
	n    int
	tab  *stabilizer.Tableau
	eng  *statevector.Engine

	shardGate []statevector.Matrix2x2 // per-qubit buffered non-Clifford matrix, identity if empty

	rngSeed       uint64
	normThreshold float64
	autoNormalize bool
	logger        *zap.Logger
}

// Params configures Register construction.
type Params struct {
	QubitCount    int
	RNGSeed       uint64
	NormThreshold float64
	AutoNormalize bool
	Logger        *zap.Logger
}

// New constructs an n-qubit register starting on the stabilizer backend
// in |0...0>.
func New(p Params) (*Register, error) {
	tab, err := stabilizer.New(p.QubitCount, p.RNGSeed)
	if err != nil {
		return nil, err
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	shards := make([]statevector.Matrix2x2, p.QubitCount)
	for i := range shards {
		shards[i] = statevector.Identity
	}
	return &Register{
		mode:          ModeStabilizer,
		n:             p.QubitCount,
		tab:           tab,
		shardGate:     shards,
		rngSeed:       p.RNGSeed,
		normThreshold: p.NormThreshold,
		autoNormalize: p.AutoNormalize,
		logger:        logger,
	}, nil
}

func (r *Register) NumQubits() int { return r.n }
func (r *Register) Mode() Mode     { return r.mode }

// IsClifford reports whether m, up to global phase, is one of the fixed
// Clifford generators {H, S, Sdg, X, Y, Z, I}. Anything else (arbitrary
// rotations, T gates, ...) is non-Clifford and must be buffered or force
// a promotion.
func IsClifford(m statevector.Matrix2x2) bool {
	candidates := []statevector.Matrix2x2{
		statevector.Identity, statevector.Hadamard, statevector.PauliX,
		statevector.PauliY, statevector.PauliZ, statevector.SGate, statevector.SdgGate,
	}
	for _, c := range candidates {
		if sameUpToPhase(m, c) {
			return true
		}
	}
	return false
}

func sameUpToPhase(a, b statevector.Matrix2x2) bool {
	const eps = 1e-9
	// Find a nonzero reference entry in b to fix the relative phase.
	var ref complex128
	switch {
	case cmplx.Abs(b.M00) > eps:
		ref = b.M00
	case cmplx.Abs(b.M01) > eps:
		ref = b.M01
	case cmplx.Abs(b.M10) > eps:
		ref = b.M10
	default:
		ref = b.M11
	}
	var refA complex128
	switch {
	case cmplx.Abs(b.M00) > eps:
		refA = a.M00
	case cmplx.Abs(b.M01) > eps:
		refA = a.M01
	case cmplx.Abs(b.M10) > eps:
		refA = a.M10
	default:
		refA = a.M11
	}
	if cmplx.Abs(refA) < eps {
		return false
	}
	phase := ref / refA
	if math.Abs(cmplx.Abs(phase)-1) > eps {
		return false
	}
	scaled := statevector.Matrix2x2{
		M00: a.M00 * phase, M01: a.M01 * phase,
		M10: a.M10 * phase, M11: a.M11 * phase,
	}
	return cmplx.Abs(scaled.M00-b.M00) < eps && cmplx.Abs(scaled.M01-b.M01) < eps &&
		cmplx.Abs(scaled.M10-b.M10) < eps && cmplx.Abs(scaled.M11-b.M11) < eps
}

// hasBuffer reports whether qubit q carries an outstanding non-Clifford
// shard gate.
func (r *Register) hasBuffer(q int) bool {
	return r.shardGate[q] != statevector.Identity
}

// promote materializes the stabilizer tableau into a dense engine and
// flushes every shard buffer, switching mode to ModeEngine. Per the
// state machine, this transition is never reversed automatically.
func (r *Register) promote(ctx context.Context) error {
	if r.mode == ModeEngine {
		return nil
	}
	r.logger.Debug("hybrid: promoting stabilizer register to state-vector engine")
	eng, err := r.tab.Materialize()
	if err != nil {
		return err
	}
	eng.Configure(r.normThreshold, r.autoNormalize)
	eng = eng.Clone() // detach from any aliasing with the tableau's scratch buffers
	for q := 0; q < r.n; q++ {
		if r.hasBuffer(q) {
			if err := eng.ApplySingleQubit(ctx, r.shardGate[q], q); err != nil {
				return err
			}
			r.shardGate[q] = statevector.Identity
		}
	}
	r.tab = nil
	r.eng = eng
	r.mode = ModeEngine
	return nil
}

// errWrap attaches the hybrid-layer operation name to an error returned
// by the backing engine; a nil error stays nil.
func errWrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return qerr.Wrap(err, "hybrid: %s", op)
}
