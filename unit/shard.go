// Package unit implements the per-qubit separability layer: a vector
// of shards, each either an isolated single-qubit amplitude pair, a
// buffered single-qubit matrix on an otherwise separable qubit, or a
// pointer+index into a shared hybrid.Register. Cross-shard phase
// buffers (the bipartite control/target graph between pending
// diagonal gates) are kept symmetrically on both endpoints, referenced
// by arena index rather than by shared-ownership pointer, so merging
// engines never has to chase live pointers.
package unit

import (
	"math"
	"math/cmplx"

	"github.com/qsimlib/qsim/statevector"
)

// basis flags a shard's tracked computational basis.
type basis int

const (
	basisZ basis = iota
	basisX
)

// phaseBuffer is a pending cross-shard phase gate: diag(e^{i*angle0},
// e^{i*angle1}) (or its anti-diagonal variant when IsInvert), applied
// to the target only once the control is read.
type phaseBuffer struct {
	angle0, angle1 float64
	isInvert       bool
}

func identityPhaseBuffer() phaseBuffer { return phaseBuffer{} }

func (b phaseBuffer) isIdentity() bool {
	return !b.isInvert && nearZeroMod4Pi(b.angle0) && nearZeroMod4Pi(b.angle1)
}

// commutesWithHadamard reports whether b acts as either a pure global
// phase (angle0==angle1, not invert) or a sigma_x-like invert
// (angle0==angle1, invert) - the only two shapes a Hadamard can commute
// past without forcing the buffer to flush.
func (b phaseBuffer) commutesWithHadamard() bool {
	return nearMod4Pi(b.angle0, b.angle1)
}

// fuse adds another buffer component-wise (mod 4*pi).
func (b phaseBuffer) fuse(other phaseBuffer) phaseBuffer {
	return phaseBuffer{
		angle0:   mod4Pi(b.angle0 + other.angle0),
		angle1:   mod4Pi(b.angle1 + other.angle1),
		isInvert: b.isInvert != other.isInvert,
	}
}

// flipAsControl swaps angle0/angle1, the rule an X gate applies to every
// buffer where the flipped qubit appears as control.
func (b phaseBuffer) flipAsControl() phaseBuffer {
	return phaseBuffer{angle0: b.angle1, angle1: b.angle0, isInvert: b.isInvert}
}

// toggleInvertAsTarget toggles IsInvert, the equivalent rule for a
// buffer where the flipped qubit is the target.
func (b phaseBuffer) toggleInvertAsTarget() phaseBuffer {
	return phaseBuffer{angle0: b.angle0, angle1: b.angle1, isInvert: !b.isInvert}
}

// matrix converts the buffer into the 2x2 matrix it represents.
func (b phaseBuffer) matrix() statevector.Matrix2x2 {
	e0 := cmplx.Exp(complex(0, b.angle0))
	e1 := cmplx.Exp(complex(0, b.angle1))
	if b.isInvert {
		return statevector.Invert(e0, e1)
	}
	return statevector.Phase(e0, e1)
}

func mod4Pi(a float64) float64 {
	const period = 4 * math.Pi
	a = math.Mod(a, period)
	if a < 0 {
		a += period
	}
	return a
}

func nearZeroMod4Pi(a float64) bool {
	const eps = 1e-9
	m := mod4Pi(a)
	return m < eps || m > 4*math.Pi-eps
}

func nearMod4Pi(a, b float64) bool {
	const eps = 1e-9
	return math.Abs(mod4Pi(a)-mod4Pi(b)) < eps
}

// shard is the unit layer's per-qubit bookkeeping record.
type shard struct {
	// state tracks the {Isolated, Buffered, Shared} machine this shard
	// moves through as gates entangle and separate it from others.
	state shardState

	// Isolated: amp0/amp1 hold the not-yet-entangled amplitude pair.
	amp0, amp1 complex128

	// Buffered: buffer holds the pending single-qubit matrix.
	buffer statevector.Matrix2x2

	// Shared: engine + index locate the shard inside a shared
	// hybrid.Register, referenced by arena index among the unit
	// layer's engines slice rather than by pointer.
	engineIdx int
	qubitIdx  int

	basis basis

	// controls/targets hold the symmetric cross-shard phase buffers
	// keyed by the OTHER shard's arena index: every buffer present on
	// one endpoint's controls map has a matching entry on the other
	// endpoint's targets map.
	controls map[int]phaseBuffer // this shard is the control
	targets  map[int]phaseBuffer // this shard is the target
}

type shardState int

const (
	stateIsolated shardState = iota
	stateBuffered
	stateShared
)

func newIsolatedShard() *shard {
	return &shard{
		state:    stateIsolated,
		amp0:     1,
		amp1:     0,
		buffer:   statevector.Identity,
		basis:    basisZ,
		controls: make(map[int]phaseBuffer),
		targets:  make(map[int]phaseBuffer),
	}
}

func (s *shard) hasOutstandingBuffers() bool {
	return len(s.controls) > 0 || len(s.targets) > 0
}
