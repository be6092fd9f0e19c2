package statevector

import (
	"context"
	"math"
)

// QFT applies the quantum Fourier transform to the register
// [start,start+length), via the standard Hadamard + controlled-phase
// ladder followed by a final qubit-order reversal. Not a hardware
// primitive; a convenience composition over
// ApplySingleQubit/ApplyControlled.
func (e *Engine) QFT(ctx context.Context, start, length int) error {
	for i := 0; i < length; i++ {
		q := start + i
		if err := e.ApplySingleQubit(ctx, Hadamard, q); err != nil {
			return err
		}
		for j := i + 1; j < length; j++ {
			k := start + j
			angle := math.Pi / math.Pow(2, float64(j-i))
			if err := e.ApplyControlled(ctx, Phase(1, complexExp(angle)), []int{k}, q); err != nil {
				return err
			}
		}
	}
	for i := 0; i < length/2; i++ {
		if err := e.swap(ctx, start+i, start+length-1-i); err != nil {
			return err
		}
	}
	return nil
}

// IQFT applies the inverse quantum Fourier transform.
func (e *Engine) IQFT(ctx context.Context, start, length int) error {
	for i := 0; i < length/2; i++ {
		if err := e.swap(ctx, start+i, start+length-1-i); err != nil {
			return err
		}
	}
	for i := length - 1; i >= 0; i-- {
		q := start + i
		for j := length - 1; j > i; j-- {
			k := start + j
			angle := -math.Pi / math.Pow(2, float64(j-i))
			if err := e.ApplyControlled(ctx, Phase(1, complexExp(angle)), []int{k}, q); err != nil {
				return err
			}
		}
		if err := e.ApplySingleQubit(ctx, Hadamard, q); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) swap(ctx context.Context, a, b int) error {
	if a == b {
		return nil
	}
	aBit := int64(1) << uint(a)
	bBit := int64(1) << uint(b)
	return e.permute(ctx, nil, func(i int64) int64 {
		hasA := i&aBit != 0
		hasB := i&bBit != 0
		if hasA == hasB {
			return i
		}
		return i ^ aBit ^ bBit
	})
}

func complexExp(theta float64) complex128 {
	return complex(math.Cos(theta), math.Sin(theta))
}
