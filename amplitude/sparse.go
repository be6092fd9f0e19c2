package amplitude

import "math/cmplx"

// Sparse maps nonzero basis-state indices to amplitudes. Absent entries
// are zero; entries whose magnitude falls below a configured epsilon are
// dropped on write.
type Sparse struct {
	entries   map[int64]complex128
	qubits    int
	dim       int64
	threshold float64
}

// NewSparse allocates an empty Sparse store over 2^numQubits indices.
// threshold is the magnitude below which an entry is dropped rather than
// stored.
func NewSparse(numQubits int, threshold float64) *Sparse {
	return &Sparse{
		entries:   make(map[int64]complex128),
		qubits:    numQubits,
		dim:       int64(1) << uint(numQubits),
		threshold: threshold,
	}
}

func (s *Sparse) Len() int64     { return s.dim }
func (s *Sparse) NumQubits() int { return s.qubits }
func (s *Sparse) IsSparse() bool { return true }

func (s *Sparse) Read(i int64) complex128 {
	return s.entries[i]
}

func (s *Sparse) Write(i int64, c complex128) {
	if cmplx.Abs(c) < s.threshold {
		delete(s.entries, i)
		return
	}
	s.entries[i] = c
}

func (s *Sparse) Write2(i1 int64, c1 complex128, i2 int64, c2 complex128) {
	s.Write(i1, c1)
	s.Write(i2, c2)
}

func (s *Sparse) Clear() {
	s.entries = make(map[int64]complex128)
}

func (s *Sparse) CopyIn(src Store, offset int64) {
	n := src.Len()
	for i := int64(0); i < n; i++ {
		if v := src.Read(i); v != 0 {
			s.Write(offset+i, v)
		}
	}
}

func (s *Sparse) CopyOut(dst Store, offset int64) {
	for i, v := range s.entries {
		dst.Write(offset+i, v)
	}
}

func (s *Sparse) Shuffle(other Store) {
	half := s.dim / 2
	for i := int64(0); i < half; i++ {
		hi := s.Read(half + i)
		lo := other.Read(i)
		s.Write(half+i, lo)
		other.Write(i, hi)
	}
}

func (s *Sparse) GetProbs(out []float64) {
	for i := range out {
		out[i] = 0
	}
	for i, v := range s.entries {
		out[i] = real(v)*real(v) + imag(v)*imag(v)
	}
}

func (s *Sparse) Norm() float64 {
	var sum float64
	for _, v := range s.entries {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return sum
}

// NonzeroIndices returns the currently populated indices. Used by the
// state-vector engine to iterate a sparse representation without
// materializing the full dimension.
func (s *Sparse) NonzeroIndices() []int64 {
	out := make([]int64, 0, len(s.entries))
	for i := range s.entries {
		out = append(out, i)
	}
	return out
}
