package statevector

import (
	"context"
	"math"
	"math/cmplx"
	"testing"
)

func TestQFTRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 3)
	amps := []complex128{
		complex(0.1, 0.2), complex(0.3, -0.1), complex(-0.2, 0.1), complex(0.4, 0),
		complex(0, 0.3), complex(-0.1, -0.2), complex(0.2, 0.2), complex(-0.3, 0.1),
	}
	if err := e.SetQuantumState(amps); err != nil {
		t.Fatalf("SetQuantumState: %v", err)
	}
	original, err := e.GetQuantumState(ctx)
	if err != nil {
		t.Fatalf("GetQuantumState: %v", err)
	}

	if err := e.QFT(ctx, 0, 3); err != nil {
		t.Fatalf("QFT: %v", err)
	}
	if err := e.IQFT(ctx, 0, 3); err != nil {
		t.Fatalf("IQFT: %v", err)
	}

	recovered, err := e.GetQuantumState(ctx)
	if err != nil {
		t.Fatalf("GetQuantumState after round trip: %v", err)
	}

	const eps = 1e-9
	for i := range original {
		if d := cmplx.Abs(recovered[i] - original[i]); d > 10*eps {
			t.Errorf("amps[%d] = %v, want %v (diff %g exceeds 10*eps)", i, recovered[i], original[i], d)
		}
	}
}

func TestQFTOnBasisStateProducesUniformState(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t, 2)
	// QFT of the all-zero basis state is the uniform superposition, so
	// every basis state ends with probability 1/4.
	if err := e.QFT(ctx, 0, 2); err != nil {
		t.Fatalf("QFT: %v", err)
	}
	for perm := uint64(0); perm < 4; perm++ {
		p, err := e.ProbAll(ctx, perm)
		if err != nil {
			t.Fatalf("ProbAll(%d): %v", perm, err)
		}
		if math.Abs(p-0.25) > 1e-9 {
			t.Errorf("QFT|00> basis %d prob = %g, want 0.25", perm, p)
		}
	}
}
