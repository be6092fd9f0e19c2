package hybrid

import (
	"context"
	"math"
	"testing"

	"github.com/qsimlib/qsim/statevector"
)

func newTestRegister(t *testing.T, n int) *Register {
	r, err := New(Params{QubitCount: n, RNGSeed: 1, AutoNormalize: true})
	if err != nil {
		t.Fatalf("New(%d) returned error: %v", n, err)
	}
	return r
}

func TestCliffordOnlyCircuitStaysOnStabilizer(t *testing.T) {
	ctx := context.Background()
	r := newTestRegister(t, 2)
	if err := r.ApplySingleQubit(ctx, statevector.Hadamard, 0); err != nil {
		t.Fatalf("H: %v", err)
	}
	if err := r.ApplyControlled(ctx, statevector.PauliX, []int{0}, 1); err != nil {
		t.Fatalf("CX: %v", err)
	}
	if r.Mode() != ModeStabilizer {
		t.Errorf("Clifford-only circuit should stay on the stabilizer backend, got mode %v", r.Mode())
	}
}

func TestNonCliffordGateForcesPromotion(t *testing.T) {
	ctx := context.Background()
	r := newTestRegister(t, 1)
	if err := r.ApplySingleQubit(ctx, statevector.TGate, 0); err != nil {
		t.Fatalf("T: %v", err)
	}
	// Still buffered, not yet promoted.
	if r.Mode() != ModeStabilizer {
		t.Errorf("a buffered T gate alone should not promote, got mode %v", r.Mode())
	}
	if _, err := r.Prob(ctx, 0); err != nil {
		t.Fatalf("Prob: %v", err)
	}
	if r.Mode() != ModeEngine {
		t.Errorf("Prob on a buffered qubit should force promotion, got mode %v", r.Mode())
	}
}

func TestBellPairMeasureConsistency(t *testing.T) {
	ctx := context.Background()
	r := newTestRegister(t, 2)
	if err := r.ApplySingleQubit(ctx, statevector.Hadamard, 0); err != nil {
		t.Fatalf("H: %v", err)
	}
	if err := r.ApplyControlled(ctx, statevector.PauliX, []int{0}, 1); err != nil {
		t.Fatalf("CX: %v", err)
	}
	p00, _ := r.ProbAll(ctx, 0)
	p11, _ := r.ProbAll(ctx, 3)
	if math.Abs(p00-0.5) > 1e-9 || math.Abs(p11-0.5) > 1e-9 {
		t.Errorf("Bell pair probs = %g,%g, want 0.5,0.5", p00, p11)
	}

	bit, err := r.Measure(ctx, 0)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	p1, err := r.Prob(ctx, 1)
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

func TestComposeDecomposeStaysOnStabilizerWhenBothDo(t *testing.T) {
	ctx := context.Background()
	a := newTestRegister(t, 1)
	if err := a.ApplySingleQubit(ctx, statevector.Hadamard, 0); err != nil {
		t.Fatalf("H: %v", err)
	}
	b := newTestRegister(t, 1)
	if err := b.ApplySingleQubit(ctx, statevector.PauliX, 0); err != nil {
		t.Fatalf("X: %v", err)
	}

	if err := a.Compose(ctx, b); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if a.NumQubits() != 2 {
		t.Fatalf("NumQubits after Compose = %d, want 2", a.NumQubits())
	}
	if a.Mode() != ModeStabilizer {
		t.Errorf("composing two stabilizer registers should stay on the stabilizer backend, got mode %v", a.Mode())
	}

	dest := newTestRegister(t, 1)
	if err := a.Decompose(ctx, 0, 1, dest, 1e-9); err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if a.NumQubits() != 1 || dest.NumQubits() != 1 {
		t.Fatalf("NumQubits after Decompose = %d,%d, want 1,1", a.NumQubits(), dest.NumQubits())
	}

	p1Dest, err := dest.Prob(ctx, 0)
	if err != nil {
		t.Fatalf("Prob on decomposed first register: %v", err)
	}
	if math.Abs(p1Dest-0.5) > 1e-9 {
		t.Errorf("decomposed H|0> qubit P(1) = %g, want 0.5", p1Dest)
	}
	p1Outer, err := a.Prob(ctx, 0)
	if err != nil {
		t.Fatalf("Prob on remaining outer register: %v", err)
	}
	if math.Abs(p1Outer-1) > 1e-9 {
		t.Errorf("remaining outer qubit (was X|0>) P(1) = %g, want 1", p1Outer)
	}
}

func TestSetPermutationResetsToStabilizer(t *testing.T) {
	ctx := context.Background()
	r := newTestRegister(t, 1)
	if err := r.ApplySingleQubit(ctx, statevector.TGate, 0); err != nil {
		t.Fatalf("T: %v", err)
	}
	if err := r.SetPermutation(1); err != nil {
		t.Fatalf("SetPermutation: %v", err)
	}
	if r.Mode() != ModeStabilizer {
		t.Errorf("SetPermutation should reset to the stabilizer backend, got mode %v", r.Mode())
	}
	p1, err := r.Prob(ctx, 0)
	if err != nil {
		t.Fatalf("Prob: %v", err)
	}
	if math.Abs(p1-1) > 1e-9 {
		t.Errorf("SetPermutation(1) should leave qubit 0 in |1>, P(1) = %g", p1)
	}
}
