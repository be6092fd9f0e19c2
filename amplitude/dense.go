package amplitude

import (
	"math"
	"math/cmplx"
)

// Dense is a contiguous amplitude array, generalizing q-deck's
// StateVector.Amplitudes []complex128 into a standalone, gate-agnostic
// store.
type Dense struct {
	amps   []complex128
	qubits int
}

// NewDense allocates a Dense store of 2^numQubits amplitudes, all zero.
func NewDense(numQubits int) *Dense {
	return &Dense{
		amps:   make([]complex128, int64(1)<<uint(numQubits)),
		qubits: numQubits,
	}
}

// NewDenseFrom wraps an existing slice (len must be a power of two)
// without copying.
func NewDenseFrom(amps []complex128) *Dense {
	n := 0
	for (int64(1) << uint(n)) < int64(len(amps)) {
		n++
	}
	return &Dense{amps: amps, qubits: n}
}

func (d *Dense) Len() int64      { return int64(len(d.amps)) }
func (d *Dense) NumQubits() int  { return d.qubits }
func (d *Dense) IsSparse() bool  { return false }

func (d *Dense) Read(i int64) complex128 { return d.amps[i] }

func (d *Dense) Write(i int64, c complex128) { d.amps[i] = c }

func (d *Dense) Write2(i1 int64, c1 complex128, i2 int64, c2 complex128) {
	d.amps[i1] = c1
	d.amps[i2] = c2
}

func (d *Dense) Clear() {
	for i := range d.amps {
		d.amps[i] = 0
	}
}

func (d *Dense) CopyIn(src Store, offset int64) {
	n := src.Len()
	for i := int64(0); i < n; i++ {
		d.amps[offset+i] = src.Read(i)
	}
}

func (d *Dense) CopyOut(dst Store, offset int64) {
	for i := int64(0); i < int64(len(d.amps)); i++ {
		dst.Write(offset+i, d.amps[i])
	}
}

// Shuffle swaps the upper half of d with the lower half of other, a
// page-half exchange that brings an inter-page qubit intra-page.
func (d *Dense) Shuffle(other Store) {
	o, ok := other.(*Dense)
	if !ok {
		genericShuffle(d, other)
		return
	}
	half := int64(len(d.amps)) / 2
	for i := int64(0); i < half; i++ {
		d.amps[half+i], o.amps[i] = o.amps[i], d.amps[half+i]
	}
}

func genericShuffle(d *Dense, other Store) {
	half := int64(len(d.amps)) / 2
	for i := int64(0); i < half; i++ {
		lo := other.Read(i)
		hi := d.amps[half+i]
		d.amps[half+i] = lo
		other.Write(i, hi)
	}
}

func (d *Dense) GetProbs(out []float64) {
	for i, a := range d.amps {
		out[i] = real(a)*real(a) + imag(a)*imag(a)
	}
}

func (d *Dense) Norm() float64 {
	var sum float64
	for _, a := range d.amps {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return sum
}

// Rescale multiplies every amplitude by 1/sqrt(norm), zeroing entries
// whose resulting magnitude falls below threshold.
func (d *Dense) Rescale(norm, threshold float64) {
	if norm <= 0 {
		return
	}
	inv := complex(1/math.Sqrt(norm), 0)
	for i, a := range d.amps {
		v := a * inv
		if cmplx.Abs(v) < threshold {
			v = 0
		}
		d.amps[i] = v
	}
}
