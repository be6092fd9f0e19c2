package pager

import (
	"context"
	"math"
	"testing"

	"github.com/qsimlib/qsim/qopt"
	"github.com/qsimlib/qsim/statevector"
)

func newTestPager(t *testing.T, n, pageQubits int) *Pager {
	p, err := New(qopt.WithQubitCount(n), qopt.WithRNGSeed(1), qopt.WithAutoNormalize(true), qopt.WithPageQubits(pageQubits))
	if err != nil {
		t.Fatalf("New(%d,%d) returned error: %v", n, pageQubits, err)
	}
	return p
}

func TestBellPairAcrossPageBoundary(t *testing.T) {
	ctx := context.Background()
	// qubit 0 is local, qubit 1 is the meta qubit selecting the page.
	p := newTestPager(t, 2, 1)
	if err := p.ApplySingleQubit(ctx, statevector.Hadamard, 0); err != nil {
		t.Fatalf("H(0): %v", err)
	}
	if err := p.ApplyControlled(ctx, statevector.PauliX, []int{0}, 1); err != nil {
		t.Fatalf("CX(0,1): %v", err)
	}

	p00, err := p.ProbAll(ctx, 0)
	if err != nil {
		t.Fatalf("ProbAll(0): %v", err)
	}
	p11, err := p.ProbAll(ctx, 3)
	if err != nil {
		t.Fatalf("ProbAll(3): %v", err)
	}
	if math.Abs(p00-0.5) > 1e-9 || math.Abs(p11-0.5) > 1e-9 {
		t.Errorf("Bell pair across page boundary probs = %g,%g, want 0.5,0.5", p00, p11)
	}
	for _, perm := range []uint64{1, 2} {
		if pr, _ := p.ProbAll(ctx, perm); pr > 1e-9 {
			t.Errorf("Bell pair P(%d) = %g, want 0", perm, pr)
		}
	}
}

func TestMetaQubitXIsPurePagePointerSwap(t *testing.T) {
	ctx := context.Background()
	p := newTestPager(t, 2, 1)
	if err := p.ApplySingleQubit(ctx, statevector.PauliX, 0); err != nil {
		t.Fatalf("X(0): %v", err)
	}
	if err := p.ApplySingleQubit(ctx, statevector.PauliX, 1); err != nil {
		t.Fatalf("X(1) [meta]: %v", err)
	}
	pr, err := p.ProbAll(ctx, 3)
	if err != nil {
		t.Fatalf("ProbAll(3): %v", err)
	}
	if math.Abs(pr-1) > 1e-9 {
		t.Errorf("X(local) then X(meta) from |00> should reach |11>, P(3) = %g", pr)
	}
}

func TestSetPermutationOnPager(t *testing.T) {
	ctx := context.Background()
	p := newTestPager(t, 3, 1)
	p.SetPermutation(5)
	pr, err := p.ProbAll(ctx, 5)
	if err != nil {
		t.Fatalf("ProbAll(5): %v", err)
	}
	if math.Abs(pr-1) > 1e-9 {
		t.Errorf("SetPermutation(5) should leave the pager in basis state 5, P = %g", pr)
	}
}
