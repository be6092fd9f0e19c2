package unit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qsimlib/qsim/qopt"
	"github.com/qsimlib/qsim/statevector"
)

func newTestRegister(t *testing.T, n int) *Register {
	r, err := New(qopt.WithQubitCount(n), qopt.WithRNGSeed(1), qopt.WithAutoNormalize(true))
	require.NoError(t, err)
	return r
}

func TestBellPairAcrossShards(t *testing.T) {
	ctx := context.Background()
	r := newTestRegister(t, 2)
	require.NoError(t, r.ApplySingleQubit(ctx, statevector.Hadamard, 0))
	require.NoError(t, r.ApplyControlled(ctx, statevector.PauliX, []int{0}, 1))

	p00, err := r.ProbAll(ctx, 0)
	require.NoError(t, err)
	p11, err := r.ProbAll(ctx, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p00, 1e-9)
	assert.InDelta(t, 0.5, p11, 1e-9)
	assert.Equal(t, stateShared, r.shards[0].state)
	assert.Equal(t, stateShared, r.shards[1].state)
}

func TestSeparabilityRecoveryAfterDoubleCZ(t *testing.T) {
	ctx := context.Background()
	r := newTestRegister(t, 2)
	require.NoError(t, r.ApplySingleQubit(ctx, statevector.Hadamard, 0))
	require.NoError(t, r.ApplySingleQubit(ctx, statevector.Hadamard, 1))
	require.NoError(t, r.ApplyControlled(ctx, statevector.PauliZ, []int{0}, 1))
	require.NoError(t, r.ApplyControlled(ctx, statevector.PauliZ, []int{0}, 1))

	assert.Equal(t, stateIsolated, r.shards[0].state, "qubit 0 should remain isolated through CZ^2=I")
	assert.Equal(t, stateIsolated, r.shards[1].state, "qubit 1 should remain isolated through CZ^2=I")
	assert.False(t, r.shards[0].hasOutstandingBuffers(), "CZ^2=I should fuse to an identity buffer and be removed")
	assert.False(t, r.shards[1].hasOutstandingBuffers(), "CZ^2=I should fuse to an identity buffer and be removed")

	p1, err := r.Prob(ctx, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p1, 1e-9, "qubit 0 should still be |+>")
}

func TestGHZAcrossShards(t *testing.T) {
	ctx := context.Background()
	r := newTestRegister(t, 3)
	require.NoError(t, r.ApplySingleQubit(ctx, statevector.Hadamard, 0))
	require.NoError(t, r.ApplyControlled(ctx, statevector.PauliX, []int{0}, 1))
	require.NoError(t, r.ApplyControlled(ctx, statevector.PauliX, []int{1}, 2))

	p000, err := r.ProbAll(ctx, 0)
	require.NoError(t, err)
	p111, err := r.ProbAll(ctx, 7)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p000, 1e-9)
	assert.InDelta(t, 0.5, p111, 1e-9)
}

// assertStatesEqual checks two quantum state vectors match to within
// tolerance, amplitude by amplitude.
func assertStatesEqual(t *testing.T, want, got []complex128) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, real(want[i]), real(got[i]), 1e-9, "amplitude %d real part", i)
		assert.InDelta(t, imag(want[i]), imag(got[i]), 1e-9, "amplitude %d imag part", i)
	}
}

// TestXOnControlOfBufferedControlMatchesEntangledPath exercises the
// FlipPhaseAnti rule: an X gate on the control side of an outstanding
// cross-shard phase buffer must rewrite the buffer (swap angle0/angle1)
// rather than leave it stale. The buffered fast path's final state must
// match a reference path that forces immediate entanglement instead of
// deferring the controlled gate into a buffer.
func TestXOnControlOfBufferedControlMatchesEntangledPath(t *testing.T) {
	ctx := context.Background()
	m := statevector.Phase(1, complex(0, 1)) // controlled-S: angle0=0, angle1=pi/2

	buffered := newTestRegister(t, 2)
	require.NoError(t, buffered.ApplySingleQubit(ctx, statevector.Hadamard, 0))
	require.NoError(t, buffered.ApplySingleQubit(ctx, statevector.Hadamard, 1))
	require.NoError(t, buffered.ApplyControlled(ctx, m, []int{0}, 1))
	require.True(t, buffered.shards[0].hasOutstandingBuffers(), "controlled-S on separable shards should install a buffer, not entangle")
	require.NoError(t, buffered.ApplySingleQubit(ctx, statevector.PauliX, 0))

	reference := newTestRegister(t, 2)
	require.NoError(t, reference.ApplySingleQubit(ctx, statevector.Hadamard, 0))
	require.NoError(t, reference.ApplySingleQubit(ctx, statevector.Hadamard, 1))
	require.NoError(t, reference.applyEntangled(ctx, m, []int{0}, nil, 1))
	require.NoError(t, reference.ApplySingleQubit(ctx, statevector.PauliX, 0))

	want, err := reference.GetQuantumState(ctx)
	require.NoError(t, err)
	got, err := buffered.GetQuantumState(ctx)
	require.NoError(t, err)
	assertStatesEqual(t, want, got)
}

// TestXOnTargetOfBufferedControlMatchesEntangledPath is the target-side
// counterpart: X on the target of an outstanding buffer must toggle the
// buffer's invert flag rather than fold into the target's own buffer as
// if nothing were pending.
func TestXOnTargetOfBufferedControlMatchesEntangledPath(t *testing.T) {
	ctx := context.Background()
	m := statevector.Phase(1, complex(0, 1))

	buffered := newTestRegister(t, 2)
	require.NoError(t, buffered.ApplySingleQubit(ctx, statevector.Hadamard, 0))
	require.NoError(t, buffered.ApplySingleQubit(ctx, statevector.Hadamard, 1))
	require.NoError(t, buffered.ApplyControlled(ctx, m, []int{0}, 1))
	require.NoError(t, buffered.ApplySingleQubit(ctx, statevector.PauliX, 1))

	reference := newTestRegister(t, 2)
	require.NoError(t, reference.ApplySingleQubit(ctx, statevector.Hadamard, 0))
	require.NoError(t, reference.ApplySingleQubit(ctx, statevector.Hadamard, 1))
	require.NoError(t, reference.applyEntangled(ctx, m, []int{0}, nil, 1))
	require.NoError(t, reference.ApplySingleQubit(ctx, statevector.PauliX, 1))

	want, err := reference.GetQuantumState(ctx)
	require.NoError(t, err)
	got, err := buffered.GetQuantumState(ctx)
	require.NoError(t, err)
	assertStatesEqual(t, want, got)
}

// TestHadamardFlushesNonCommutingBuffer exercises the Hadamard rule: a
// buffer whose angle0/angle1 aren't equal (not a global phase or
// sigma_x-like invert) must be flushed before toggling the target's
// basis flag, not silently left stale.
func TestHadamardFlushesNonCommutingBuffer(t *testing.T) {
	ctx := context.Background()
	m := statevector.Phase(1, complex(0, 1)) // angle0=0, angle1=pi/2: doesn't commute with H

	buffered := newTestRegister(t, 2)
	require.NoError(t, buffered.ApplySingleQubit(ctx, statevector.Hadamard, 0))
	require.NoError(t, buffered.ApplySingleQubit(ctx, statevector.Hadamard, 1))
	require.NoError(t, buffered.ApplyControlled(ctx, m, []int{0}, 1))
	require.NoError(t, buffered.ApplySingleQubit(ctx, statevector.Hadamard, 1))

	reference := newTestRegister(t, 2)
	require.NoError(t, reference.ApplySingleQubit(ctx, statevector.Hadamard, 0))
	require.NoError(t, reference.ApplySingleQubit(ctx, statevector.Hadamard, 1))
	require.NoError(t, reference.applyEntangled(ctx, m, []int{0}, nil, 1))
	require.NoError(t, reference.ApplySingleQubit(ctx, statevector.Hadamard, 1))

	want, err := reference.GetQuantumState(ctx)
	require.NoError(t, err)
	got, err := buffered.GetQuantumState(ctx)
	require.NoError(t, err)
	assertStatesEqual(t, want, got)
}

func TestSetPermutationReisolatesShards(t *testing.T) {
	ctx := context.Background()
	r := newTestRegister(t, 2)
	require.NoError(t, r.ApplySingleQubit(ctx, statevector.Hadamard, 0))
	require.NoError(t, r.ApplyControlled(ctx, statevector.PauliX, []int{0}, 1))
	r.SetPermutation(2) // |10>

	assert.Equal(t, stateIsolated, r.shards[0].state)
	assert.Equal(t, stateIsolated, r.shards[1].state)
	p, err := r.ProbAll(ctx, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p, 1e-9, "SetPermutation(2) should leave the register in basis state 2")
}
