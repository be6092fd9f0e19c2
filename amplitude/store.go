// Package amplitude owns the contiguous (or sparse) complex-amplitude
// array that backs a state-vector engine. It provides element
// read/write, bulk copy, shuffle, zero, and norm queries, and nothing
// else — no gate semantics live here.
package amplitude

// Store is the amplitude-level contract shared by the dense and sparse
// representations. Implementations are not internally synchronized:
// callers from the parallel-for runtime must own disjoint index ranges.
type Store interface {
	// Len returns 2^NumQubits, the dimension of the amplitude space.
	Len() int64
	NumQubits() int

	Read(i int64) complex128
	Write(i int64, c complex128)
	// Write2 writes a 2x2-update pair atomically from the caller's view:
	// both indices observe either the old or the new values, never a mix.
	Write2(i1 int64, c1 complex128, i2 int64, c2 complex128)

	Clear()
	CopyIn(src Store, offset int64)
	CopyOut(dst Store, offset int64)

	// Shuffle swaps the upper half of this store with the lower half of
	// other, a page-half exchange that brings an inter-page qubit into an
	// intra-page position. The pager package combines page pairs directly
	// and does not call it.
	Shuffle(other Store)

	// GetProbs writes |a_i|^2 for every amplitude into out, which must
	// have length Len().
	GetProbs(out []float64)

	// Norm returns the current sum of squared magnitudes, Σ|a_i|^2.
	Norm() float64

	IsSparse() bool
}
