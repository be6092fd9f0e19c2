package pfor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestRunVisitsEachIndexExactlyOnce(t *testing.T) {
	const n = 10000
	counts := make([]int32, n)
	err := Run(context.Background(), n, 4, func(i int64) {
		atomic.AddInt32(&counts[i], 1)
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for i, c := range counts {
		if c != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, c)
		}
	}
}

func TestRunZeroOrNegativeIsNoop(t *testing.T) {
	called := false
	if err := Run(context.Background(), 0, 2, func(i int64) { called = true }); err != nil {
		t.Fatalf("Run(0) returned error: %v", err)
	}
	if called {
		t.Errorf("kernel should not be invoked for n=0")
	}
	if err := Run(context.Background(), -5, 2, func(i int64) { called = true }); err != nil {
		t.Fatalf("Run(-5) returned error: %v", err)
	}
	if called {
		t.Errorf("kernel should not be invoked for n<0")
	}
}

func TestRunRecoversPanicAsError(t *testing.T) {
	err := Run(context.Background(), 100, 2, func(i int64) {
		if i == 50 {
			panic("boom")
		}
	})
	if err == nil {
		t.Fatalf("expected Run to surface the panic as an error")
	}
}

func TestRunReduceSumsAcrossWorkers(t *testing.T) {
	const n = 1000
	total, err := RunReduce(context.Background(), n, 3, func(i int64) float64 {
		return 1.0
	})
	if err != nil {
		t.Fatalf("RunReduce returned error: %v", err)
	}
	if total != float64(n) {
		t.Errorf("RunReduce sum = %g, want %g", total, float64(n))
	}
}

func TestRunRespectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, 1<<20, 4, func(i int64) {})
	if err == nil || !errors.Is(err, context.Canceled) {
		t.Errorf("Run with canceled context = %v, want context.Canceled", err)
	}
}
