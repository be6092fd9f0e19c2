package statevector

import (
	"math"
	"math/cmplx"

	"github.com/qsimlib/qsim/amplitude"
	"github.com/qsimlib/qsim/qerr"
)

// Compose tensor-appends other's qubits after this engine's, growing n
// by other.n: new[i] = a[i & startMask] * b[(i & endMask) >> n_a].
func (e *Engine) Compose(other *Engine) error {
	newN := e.n + other.n
	if newN > 62 {
		return qerr.Wrap(qerr.CapacityExceeded, "statevector: compose would exceed representable index width (%d qubits)", newN)
	}

	startMask := e.dim() - 1
	aDim := e.dim()
	bDim := other.dim()
	newDim := int64(1) << uint(newN)

	newAmps := make([]complex128, newDim)
	for i := int64(0); i < newDim; i++ {
		aIdx := i & startMask
		bIdx := (i >> uint(e.n)) & (bDim - 1)
		if aIdx >= aDim || bIdx >= bDim {
			continue
		}
		newAmps[i] = e.store.Read(aIdx) * other.store.Read(bIdx)
	}

	e.n = newN
	e.replaceStore(newAmps)
	e.normIsUnit = e.normIsUnit && other.normIsUnit
	return nil
}

func (e *Engine) replaceStore(amps []complex128) {
	// allocate-then-swap: the new store is fully built before it
	// replaces the old one, so a concurrent reader never sees a partial
	// store.
	if e.store.IsSparse() {
		sp := amplitude.NewSparse(e.n, e.normThreshold)
		for i, a := range amps {
			sp.Write(int64(i), a)
		}
		e.store = sp
	} else {
		e.store = amplitude.NewDenseFrom(amps)
	}
}

// Decompose factors the separable range [start, start+length) out of e
// into dest (which must already be sized to length qubits): the outer
// factor is read off the column of one anchor amplitude and the inner
// factor off one row, and their product is checked against the
// original. A non-separable
// range raises qerr.SeparabilityViolation rather than silently
// approximating.
func (e *Engine) Decompose(start, length int, dest *Engine, tolerance float64) error {
	if length <= 0 || start < 0 || start+length > e.n {
		return qerr.Wrap(qerr.InvalidArgument, "statevector: invalid decompose range [%d,%d) over %d qubits", start, start+length, e.n)
	}
	if dest.n != length {
		return qerr.Wrap(qerr.InvalidArgument, "statevector: decompose destination has %d qubits, want %d", dest.n, length)
	}

	outerQubits := e.n - length
	outerDim := int64(1) << uint(outerQubits)
	innerDim := int64(1) << uint(length)

	// The anchor is the first non-zero amplitude in outer-major order;
	// its inner index and phase fix the factorization.
	innerAmp := make([]complex128, innerDim)
	outerAmp := make([]complex128, outerDim)
	anchorInner := -1
	var anchorPhase complex128 = 1

	full := e.reindexed(start, length)
	for outer := int64(0); outer < outerDim; outer++ {
		for inner := int64(0); inner < innerDim; inner++ {
			a := full[outer*innerDim+inner]
			if a == 0 {
				continue
			}
			if anchorInner < 0 {
				anchorInner = int(inner)
				mag := cmplx.Abs(a)
				if mag > 0 {
					anchorPhase = a / complex(mag, 0)
				}
			}
		}
	}
	if anchorInner < 0 {
		return qerr.Wrap(qerr.SeparabilityViolation, "statevector: decompose of zero state [%d,%d)", start, start+length)
	}

	for outer := int64(0); outer < outerDim; outer++ {
		a := full[outer*innerDim+int64(anchorInner)]
		outerAmp[outer] = a / anchorPhase
	}
	for inner := int64(0); inner < innerDim; inner++ {
		var best complex128
		var bestOuter int64 = -1
		for outer := int64(0); outer < outerDim; outer++ {
			if outerAmp[outer] != 0 {
				bestOuter = outer
				break
			}
		}
		if bestOuter < 0 {
			continue
		}
		best = full[bestOuter*innerDim+inner] / (outerAmp[bestOuter] * anchorPhase)
		innerAmp[inner] = best
	}

	// Verify separability: reconstructed product must match the
	// original to within tolerance.
	var errSq float64
	for outer := int64(0); outer < outerDim; outer++ {
		for inner := int64(0); inner < innerDim; inner++ {
			want := full[outer*innerDim+inner]
			got := outerAmp[outer] * innerAmp[inner] * anchorPhase
			d := want - got
			errSq += real(d)*real(d) + imag(d)*imag(d)
		}
	}
	if errSq > tolerance*tolerance {
		return qerr.Wrap(qerr.SeparabilityViolation, "statevector: range [%d,%d) is not separable to within tolerance %g (residual %g)", start, start+length, tolerance, math.Sqrt(errSq))
	}

	dest.replaceStore(innerAmp)
	dest.normIsUnit = false
	if err := dest.Renormalize(); err != nil {
		return err
	}

	e.n = outerQubits
	e.replaceStore(outerAmp)
	e.normIsUnit = false
	if err := e.Renormalize(); err != nil {
		return err
	}

	return nil
}

// Dispose is Decompose followed by discarding the extracted block.
func (e *Engine) Dispose(start, length int, tolerance float64) error {
	scratch, err := New(Params{QubitCount: length})
	if err != nil {
		return err
	}
	return e.Decompose(start, length, scratch, tolerance)
}

// reindexed returns the full amplitude vector permuted so that the
// [start,start+length) block occupies the low bits and the remaining
// qubits occupy the high bits, in index order (outer*innerDim + inner).
func (e *Engine) reindexed(start, length int) []complex128 {
	dim := e.dim()
	out := make([]complex128, dim)
	innerMask := int64(1)<<uint(length) - 1
	for i := int64(0); i < dim; i++ {
		inner := (i >> uint(start)) & innerMask
		outerLow := i & (int64(1)<<uint(start) - 1)
		outerHigh := i >> uint(start+length)
		outer := outerLow | (outerHigh << uint(start))
		out[outer*(int64(1)<<uint(length))+inner] = e.store.Read(i)
	}
	return out
}
