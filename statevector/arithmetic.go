package statevector

import (
	"context"

	"github.com/qsimlib/qsim/pfor"
	"github.com/qsimlib/qsim/qerr"
)

// register describes a little-endian unsigned integer occupying the
// half-open bit range [start, start+length) of the engine.
type register struct {
	start, length int
	mask          int64
}

func (e *Engine) reg(start, length int) (register, error) {
	if length <= 0 || start < 0 || start+length > e.n {
		return register{}, qerr.Wrap(qerr.InvalidArgument, "statevector: invalid register range [%d,%d) over %d qubits", start, start+length, e.n)
	}
	return register{start: start, length: length, mask: int64(1)<<uint(length) - 1}, nil
}

func (r register) extract(i int64) int64 {
	return (i >> uint(r.start)) & r.mask
}

func (r register) replace(i, value int64) int64 {
	cleared := i &^ (r.mask << uint(r.start))
	return cleared | ((value & r.mask) << uint(r.start))
}

func controlMask(controls []int) int64 {
	var m int64
	for _, c := range controls {
		m |= int64(1) << uint(c)
	}
	return m
}

// permute applies idx -> newIndex(idx) to every amplitude under an
// optional control gate, by building the full permuted amplitude array
// and swapping it in atomically: allocate the new buffer fully, then
// swap, so a mid-permutation reader never observes a partial result.
// Zero amplitudes are not carried over, so a map that is one-to-one only
// on the populated indices (the *ModNOut gates on a cleared output
// register) still moves every non-zero amplitude to its own target.
func (e *Engine) permute(ctx context.Context, controls []int, newIndex func(i int64) int64) error {
	dim := e.dim()
	cMask := controlMask(controls)
	out := make([]complex128, dim)
	err := pfor.Run(ctx, dim, 6, func(i int64) {
		a := e.store.Read(i)
		if a == 0 {
			return
		}
		j := i
		if i&cMask == cMask {
			j = newIndex(i)
		}
		out[j] = a
	})
	if err != nil {
		return err
	}
	e.replaceStore(out)
	return nil
}

// Add adds value (mod 2^length) into the register [start,start+length),
// with optional controls. Sub is Add with -value.
func (e *Engine) Add(ctx context.Context, start, length int, value uint64, controls []int) error {
	r, err := e.reg(start, length)
	if err != nil {
		return err
	}
	return e.permute(ctx, controls, func(i int64) int64 {
		v := (r.extract(i) + int64(value)) & r.mask
		return r.replace(i, v)
	})
}

func (e *Engine) Sub(ctx context.Context, start, length int, value uint64, controls []int) error {
	r, err := e.reg(start, length)
	if err != nil {
		return err
	}
	mod := r.mask + 1
	dv := int64(value) % mod
	return e.permute(ctx, controls, func(i int64) int64 {
		v := ((r.extract(i)-dv)%mod + mod) % mod
		return r.replace(i, v)
	})
}

// AddC adds value into [start,start+length) and writes the carry bit
// into carryQubit.
func (e *Engine) AddC(ctx context.Context, start, length int, value uint64, carryQubit int, controls []int) error {
	r, err := e.reg(start, length)
	if err != nil {
		return err
	}
	if err := e.checkQubit(carryQubit); err != nil {
		return err
	}
	carryBit := int64(1) << uint(carryQubit)
	mod := r.mask + 1
	return e.permute(ctx, controls, func(i int64) int64 {
		sum := r.extract(i) + int64(value)
		j := r.replace(i, sum&r.mask)
		if sum >= mod {
			j |= carryBit
		} else {
			j &^= carryBit
		}
		return j
	})
}

func (e *Engine) SubC(ctx context.Context, start, length int, value uint64, carryQubit int, controls []int) error {
	r, err := e.reg(start, length)
	if err != nil {
		return err
	}
	if err := e.checkQubit(carryQubit); err != nil {
		return err
	}
	carryBit := int64(1) << uint(carryQubit)
	mod := r.mask + 1
	dv := int64(value) % mod
	return e.permute(ctx, controls, func(i int64) int64 {
		diff := r.extract(i) - dv
		borrow := diff < 0
		j := r.replace(i, ((diff%mod)+mod)%mod)
		if borrow {
			j |= carryBit
		} else {
			j &^= carryBit
		}
		return j
	})
}

// Mul multiplies the register by value mod 2^length, requiring value to
// be odd so the permutation is invertible (non-invertible multipliers
// are rejected, matching the modular-arithmetic gates' requirement of an
// invertible modulus class).
func (e *Engine) Mul(ctx context.Context, start, length int, value uint64, controls []int) error {
	r, err := e.reg(start, length)
	if err != nil {
		return err
	}
	if value%2 == 0 {
		return qerr.Wrap(qerr.InvalidArgument, "statevector: Mul by even value %d is not invertible mod 2^%d", value, length)
	}
	mod := r.mask + 1
	return e.permute(ctx, controls, func(i int64) int64 {
		v := (r.extract(i) * int64(value)) % mod
		return r.replace(i, v)
	})
}

// Div is Mul by the modular inverse of value mod 2^length.
func (e *Engine) Div(ctx context.Context, start, length int, value uint64, controls []int) error {
	mod := int64(1) << uint(length)
	inv, ok := modInverse(int64(value), mod)
	if !ok {
		return qerr.Wrap(qerr.InvalidArgument, "statevector: %d has no inverse mod %d", value, mod)
	}
	return e.Mul(ctx, start, length, uint64(inv), controls)
}

// MulModNOut computes out = (a * in) mod N, writing the result into a
// separate, initially-cleared output register.
func (e *Engine) MulModNOut(ctx context.Context, inStart, inLength int, a, N uint64, outStart int, controls []int) error {
	rin, err := e.reg(inStart, inLength)
	if err != nil {
		return err
	}
	rout, err := e.reg(outStart, inLength)
	if err != nil {
		return err
	}
	if N == 0 {
		return qerr.Wrap(qerr.InvalidArgument, "statevector: MulModNOut with modulus 0")
	}
	return e.permute(ctx, controls, func(i int64) int64 {
		x := rin.extract(i)
		v := int64(0)
		if uint64(x) < N {
			v = int64((a * uint64(x)) % N)
		} else {
			v = x
		}
		return rout.replace(i, v)
	})
}

// IMULModNOut inverts MulModNOut (requires gcd(a,N)=1). MulModNOut
// overwrites the output register rather than adding into it, so its
// adjoint isn't "multiply by the inverse coefficient" — that recomputes
// a fresh, unrelated value from the untouched input register instead of
// undoing what forward wrote. The actual inverse of an overwrite onto a
// register that started at zero is restoring it to zero.
func (e *Engine) IMULModNOut(ctx context.Context, inStart, inLength int, a, N uint64, outStart int, controls []int) error {
	if _, ok := modInverse(int64(a), int64(N)); !ok {
		return qerr.Wrap(qerr.InvalidArgument, "statevector: %d has no inverse mod %d", a, N)
	}
	rout, err := e.reg(outStart, inLength)
	if err != nil {
		return err
	}
	return e.permute(ctx, controls, func(i int64) int64 {
		return rout.replace(i, 0)
	})
}

// POWModNOut computes out = (a^in) mod N for each basis state of the
// input register, writing into the (pre-cleared) output register.
func (e *Engine) POWModNOut(ctx context.Context, inStart, inLength int, a, N uint64, outStart, outLength int, controls []int) error {
	rin, err := e.reg(inStart, inLength)
	if err != nil {
		return err
	}
	rout, err := e.reg(outStart, outLength)
	if err != nil {
		return err
	}
	if N == 0 {
		return qerr.Wrap(qerr.InvalidArgument, "statevector: POWModNOut with modulus 0")
	}
	outMod := int64(1) << uint(outLength)
	return e.permute(ctx, controls, func(i int64) int64 {
		x := uint64(rin.extract(i))
		v := powMod(a, x, N) % uint64(outMod)
		return rout.replace(i, int64(v))
	})
}

// IndexedLFSR looks up a classical byte table indexed by the input
// register and writes the result into the output register.
func (e *Engine) IndexedLFSR(ctx context.Context, inStart, inLength, outStart, outLength int, table []byte) error {
	rin, err := e.reg(inStart, inLength)
	if err != nil {
		return err
	}
	rout, err := e.reg(outStart, outLength)
	if err != nil {
		return err
	}
	return e.permute(ctx, nil, func(i int64) int64 {
		idx := rin.extract(i)
		var v int64
		if int(idx) < len(table) {
			v = int64(table[idx])
		}
		return rout.replace(i, v)
	})
}

// IndexedADC adds a classical byte-table lookup into the output
// register and updates carryQubit.
func (e *Engine) IndexedADC(ctx context.Context, inStart, inLength, outStart, outLength, carryQubit int, table []byte) error {
	rin, err := e.reg(inStart, inLength)
	if err != nil {
		return err
	}
	rout, err := e.reg(outStart, outLength)
	if err != nil {
		return err
	}
	if err := e.checkQubit(carryQubit); err != nil {
		return err
	}
	carryBit := int64(1) << uint(carryQubit)
	mod := rout.mask + 1
	return e.permute(ctx, nil, func(i int64) int64 {
		idx := rin.extract(i)
		var tv int64
		if int(idx) < len(table) {
			tv = int64(table[idx])
		}
		sum := rout.extract(i) + tv
		j := rout.replace(i, sum&rout.mask)
		if sum >= mod {
			j |= carryBit
		} else {
			j &^= carryBit
		}
		return j
	})
}

// IndexedSBC subtracts a classical byte-table lookup from the output
// register and updates carryQubit.
func (e *Engine) IndexedSBC(ctx context.Context, inStart, inLength, outStart, outLength, carryQubit int, table []byte) error {
	rin, err := e.reg(inStart, inLength)
	if err != nil {
		return err
	}
	rout, err := e.reg(outStart, outLength)
	if err != nil {
		return err
	}
	if err := e.checkQubit(carryQubit); err != nil {
		return err
	}
	carryBit := int64(1) << uint(carryQubit)
	mod := rout.mask + 1
	return e.permute(ctx, nil, func(i int64) int64 {
		idx := rin.extract(i)
		var tv int64
		if int(idx) < len(table) {
			tv = int64(table[idx])
		}
		diff := rout.extract(i) - tv
		borrow := diff < 0
		j := rout.replace(i, ((diff%mod)+mod)%mod)
		if borrow {
			j |= carryBit
		} else {
			j &^= carryBit
		}
		return j
	})
}

func modInverse(a, mod int64) (int64, bool) {
	if mod <= 0 {
		return 0, false
	}
	a = ((a % mod) + mod) % mod
	g, x, _ := extendedGCD(a, mod)
	if g != 1 {
		return 0, false
	}
	return ((x % mod) + mod) % mod, true
}

func extendedGCD(a, b int64) (g, x, y int64) {
	if a == 0 {
		return b, 0, 1
	}
	g1, x1, y1 := extendedGCD(b%a, a)
	return g1, y1 - (b/a)*x1, x1
}

func powMod(base, exp, mod uint64) uint64 {
	if mod == 1 {
		return 0
	}
	result := uint64(1)
	base %= mod
	for exp > 0 {
		if exp&1 == 1 {
			result = (result * base) % mod
		}
		exp >>= 1
		base = (base * base) % mod
	}
	return result
}
