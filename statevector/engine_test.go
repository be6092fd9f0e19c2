package statevector

import (
	"context"
	"math"
	"math/cmplx"
	"testing"
)

func newTestEngine(t *testing.T, n int) *Engine {
	e, err := New(Params{QubitCount: n, RNGSeed: 1})
	if err != nil {
		t.Fatalf("New(%d) returned error: %v", n, err)
	}
	return e
}

func TestBellPair(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 2)
	if err := e.H(ctx, 0); err != nil {
		t.Fatalf("H: %v", err)
	}
	if err := e.CX(ctx, 0, 1); err != nil {
		t.Fatalf("CX: %v", err)
	}

	p00, _ := e.ProbAll(ctx, 0)
	p11, _ := e.ProbAll(ctx, 3)
	if math.Abs(p00-0.5) > 1e-9 || math.Abs(p11-0.5) > 1e-9 {
		t.Errorf("Bell pair probs = %g,%g, want 0.5,0.5", p00, p11)
	}
	if p01, _ := e.ProbAll(ctx, 1); p01 > 1e-9 {
		t.Errorf("Bell pair P(01) = %g, want 0", p01)
	}

	bit, err := e.Measure(ctx, 0)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	p1, err := e.Prob(ctx, 1)
	if err != nil {
		t.Fatalf("Prob: %v", err)
	}
	if bit == 0 && p1 > 1e-9 {
		t.Errorf("after Measure(0)=0, P(1==1) = %g, want 0", p1)
	}
	if bit == 1 && math.Abs(p1-1) > 1e-9 {
		t.Errorf("after Measure(0)=1, P(1==1) = %g, want 1", p1)
	}
}

func TestGHZ(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 3)
	if err := e.H(ctx, 0); err != nil {
		t.Fatalf("H: %v", err)
	}
	if err := e.CX(ctx, 0, 1); err != nil {
		t.Fatalf("CX(0,1): %v", err)
	}
	if err := e.CX(ctx, 1, 2); err != nil {
		t.Fatalf("CX(1,2): %v", err)
	}

	p000, _ := e.ProbAll(ctx, 0)
	p111, _ := e.ProbAll(ctx, 7)
	if math.Abs(p000-0.5) > 1e-9 || math.Abs(p111-0.5) > 1e-9 {
		t.Errorf("GHZ probs = %g,%g, want 0.5,0.5", p000, p111)
	}
	for _, perm := range []uint64{1, 2, 3, 4, 5, 6} {
		if p, _ := e.ProbAll(ctx, perm); p > 1e-9 {
			t.Errorf("GHZ P(%d) = %g, want 0", perm, p)
		}
	}
}

func TestGroverStepTwoQubits(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 2)
	// marked state is 3 (|11>)
	if err := e.H(ctx, 0); err != nil {
		t.Fatalf("H(0): %v", err)
	}
	if err := e.H(ctx, 1); err != nil {
		t.Fatalf("H(1): %v", err)
	}
	// oracle: flip phase of |11>
	if err := e.CZ(ctx, 0, 1); err != nil {
		t.Fatalf("oracle CZ: %v", err)
	}
	// diffusion
	if err := e.H(ctx, 0); err != nil {
		t.Fatalf("diffusion H(0): %v", err)
	}
	if err := e.H(ctx, 1); err != nil {
		t.Fatalf("diffusion H(1): %v", err)
	}
	if err := e.X(ctx, 0); err != nil {
		t.Fatalf("diffusion X(0): %v", err)
	}
	if err := e.X(ctx, 1); err != nil {
		t.Fatalf("diffusion X(1): %v", err)
	}
	if err := e.CZ(ctx, 0, 1); err != nil {
		t.Fatalf("diffusion CZ: %v", err)
	}
	if err := e.X(ctx, 0); err != nil {
		t.Fatalf("diffusion X(0) undo: %v", err)
	}
	if err := e.X(ctx, 1); err != nil {
		t.Fatalf("diffusion X(1) undo: %v", err)
	}
	if err := e.H(ctx, 0); err != nil {
		t.Fatalf("diffusion H(0) undo: %v", err)
	}
	if err := e.H(ctx, 1); err != nil {
		t.Fatalf("diffusion H(1) undo: %v", err)
	}

	p3, err := e.ProbAll(ctx, 3)
	if err != nil {
		t.Fatalf("ProbAll: %v", err)
	}
	if math.Abs(p3-1) > 1e-9 {
		t.Errorf("Grover step P(11) = %g, want ~1", p3)
	}
}

func TestSetQuantumStateAndGetQuantumStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 2)
	amps := []complex128{
		complex(0.5, 0), complex(0, 0.5), complex(0.5, 0), complex(0, -0.5),
	}
	if err := e.SetQuantumState(amps); err != nil {
		t.Fatalf("SetQuantumState: %v", err)
	}
	got, err := e.GetQuantumState(ctx)
	if err != nil {
		t.Fatalf("GetQuantumState: %v", err)
	}
	for i := range amps {
		if cmplx.Abs(got[i]-amps[i]) > 1e-9 {
			t.Errorf("amps[%d] = %v, want %v", i, got[i], amps[i])
		}
	}
}

func TestProbAllOutOfRangeErrors(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 2)
	if _, err := e.ProbAll(ctx, 4); err == nil {
		t.Errorf("ProbAll(4) on 2 qubits should error")
	}
}

func TestDoubleHadamardIsIdentity(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 1)
	if err := e.H(ctx, 0); err != nil {
		t.Fatalf("H: %v", err)
	}
	if err := e.H(ctx, 0); err != nil {
		t.Fatalf("H: %v", err)
	}
	p0, _ := e.ProbAll(ctx, 0)
	if math.Abs(p0-1) > 1e-9 {
		t.Errorf("H*H|0> should return to |0>, P(0) = %g", p0)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 1) // starts at |0>
	clone := e.Clone()
	if err := clone.X(ctx, 0); err != nil {
		t.Fatalf("X on clone: %v", err)
	}
	origState, _ := e.GetQuantumState(ctx)
	cloneState, _ := clone.GetQuantumState(ctx)
	if cmplx.Abs(origState[0]-1) > 1e-9 {
		t.Errorf("mutating clone should not affect original, orig[0] = %v, want 1", origState[0])
	}
	if cmplx.Abs(cloneState[1]-1) > 1e-9 {
		t.Errorf("clone after X should be |1>, clone[1] = %v, want 1", cloneState[1])
	}
}
