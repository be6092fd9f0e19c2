package statevector

import (
	"context"
	"math"
	"testing"
)

func TestAddSubIsIdentity(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 4)
	e.SetPermutation(5)
	if err := e.Add(ctx, 0, 4, 7, nil); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := e.Sub(ctx, 0, 4, 7, nil); err != nil {
		t.Fatalf("Sub: %v", err)
	}
	p, err := e.ProbAll(ctx, 5)
	if err != nil {
		t.Fatalf("ProbAll: %v", err)
	}
	if math.Abs(p-1) > 1e-9 {
		t.Errorf("Add then Sub should return to basis state 5, P(5) = %g", p)
	}
}

func TestMulModNOutIMULModNOutRoundTrip(t *testing.T) {
	ctx := context.Background()
	const a, N = 7, 15
	for x := uint64(0); x < N; x++ {
		e := newTestEngine(t, 8)
		e.SetPermutation(x) // input in [0,4), output [4,8) cleared
		if err := e.MulModNOut(ctx, 0, 4, a, N, 4, nil); err != nil {
			t.Fatalf("MulModNOut(x=%d): %v", x, err)
		}
		if err := e.IMULModNOut(ctx, 0, 4, a, N, 4, nil); err != nil {
			t.Fatalf("IMULModNOut(x=%d): %v", x, err)
		}
		p, err := e.ProbAll(ctx, x)
		if err != nil {
			t.Fatalf("ProbAll(x=%d): %v", x, err)
		}
		if math.Abs(p-1) > 1e-9 {
			t.Errorf("MulModNOut+IMULModNOut(x=%d) should restore basis state %d, P = %g", x, x, p)
		}
	}
}

func TestPOWModNOutMatchesClassicalModExp(t *testing.T) {
	ctx := context.Background()
	const a, N = 2, 15
	for x := uint64(0); x < 16; x++ {
		e := newTestEngine(t, 8)
		e.SetPermutation(x) // input [0,4), output [4,8) cleared
		if err := e.POWModNOut(ctx, 0, 4, a, N, 4, 4, nil); err != nil {
			t.Fatalf("POWModNOut(x=%d): %v", x, err)
		}
		want := powMod(a, x, N)
		wantPerm := x | (want << 4)
		p, err := e.ProbAll(ctx, wantPerm)
		if err != nil {
			t.Fatalf("ProbAll(x=%d): %v", x, err)
		}
		if math.Abs(p-1) > 1e-9 {
			t.Errorf("POWModNOut(a=2,N=15,x=%d): want output %d, P(combined basis) = %g", x, want, p)
		}
	}
}
