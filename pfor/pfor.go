// Package pfor is the strided parallel-for primitive the amplitude
// kernels run on: work over [0, N) is split into runs of 2^stride
// consecutive indices, one run handed to each worker in turn,
// amortizing synchronization overhead versus handing out single
// indices. Built on golang.org/x/sync/errgroup the way a
// SIMD-kernel-generation library (the go-highway pack entry) leans on
// bounded worker fan-out rather than a hand-rolled pool.
package pfor

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Kernel is invoked once per index in [0, N). Kernels must be
// independent across indices, or serialize through their own
// accumulator slot — there is no ordering guarantee between indices.
type Kernel func(i int64)

// ReduceKernel is a Kernel variant that also contributes to a per-worker
// running sum.
type ReduceKernel func(i int64) float64

// Run distributes [0, n) across runtime.GOMAXPROCS(0) workers, each
// owning 2^stride-sized contiguous chunks at a time. A kernel panic is
// recovered and returned as an error rather than crashing the process;
// an error raised inside a kernel aborts the whole iteration and
// surfaces at the call site.
func Run(ctx context.Context, n int64, stride uint, kernel Kernel) error {
	if n <= 0 {
		return nil
	}
	chunk := int64(1) << stride
	workers := runtime.GOMAXPROCS(0)
	if int64(workers) > n {
		workers = int(n)
	}
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			return runWorker(ctx, n, chunk, int64(w), int64(workers), kernel)
		})
	}
	return g.Wait()
}

func runWorker(ctx context.Context, n, chunk, worker, workers int64, kernel Kernel) error {
	for base := worker * chunk; base < n; base += workers * chunk {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := base + chunk
		if end > n {
			end = n
		}
		if err := runChunk(base, end, kernel); err != nil {
			return err
		}
	}
	return nil
}

func runChunk(base, end int64, kernel Kernel) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pfor: kernel panicked at index range [%d,%d): %v", base, end, r)
		}
	}()
	for i := base; i < end; i++ {
		kernel(i)
	}
	return nil
}

// RunReduce is Run's reduction variant: each worker accumulates one real
// value locally, and the final sum of all worker partials is returned.
func RunReduce(ctx context.Context, n int64, stride uint, kernel ReduceKernel) (float64, error) {
	if n <= 0 {
		return 0, nil
	}
	chunk := int64(1) << stride
	workers := runtime.GOMAXPROCS(0)
	if int64(workers) > n {
		workers = int(n)
	}
	if workers < 1 {
		workers = 1
	}

	partials := make([]float64, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("pfor: reduce kernel panicked: %v", r)
				}
			}()
			var sum float64
			for base := int64(w) * chunk; base < n; base += int64(workers) * chunk {
				if err := ctx.Err(); err != nil {
					return err
				}
				end := base + chunk
				if end > n {
					end = n
				}
				for i := base; i < end; i++ {
					sum += kernel(i)
				}
			}
			partials[w] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	var total float64
	for _, p := range partials {
		total += p
	}
	return total, nil
}
