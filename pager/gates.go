package pager

import (
	"context"
	"math"

	"github.com/qsimlib/qsim/statevector"
)

// ApplySingleQubit applies m to qubit q. A local q runs independently on
// every page, leaving each page's weight untouched; a meta q combines
// each pair of pages that bit selects between, taking the
// permutation-only fast path when m is exactly X.
func (p *Pager) ApplySingleQubit(ctx context.Context, m statevector.Matrix2x2, q int) error {
	if err := p.checkQubit(q); err != nil {
		return err
	}
	if q < p.localQubits {
		return p.forEachPage(ctx, func(page int) error {
			return p.pages[page].ApplySingleQubit(ctx, m, q)
		})
	}
	return p.applyMeta(ctx, m, q-p.localQubits)
}

// applyMeta applies m across the meta-qubit bit k, pairing every page p0
// with bit k clear against p1 = p0|1<<k.
func (p *Pager) applyMeta(ctx context.Context, m statevector.Matrix2x2, k int) error {
	bit := 1 << uint(k)
	if isPauliX(m) {
		for p0 := range p.pages {
			if p0&bit != 0 {
				continue
			}
			p1 := p0 | bit
			p.pages[p0], p.pages[p1] = p.pages[p1], p.pages[p0]
			p.pageAmp[p0], p.pageAmp[p1] = p.pageAmp[p1], p.pageAmp[p0]
		}
		return nil
	}

	for p0 := range p.pages {
		if p0&bit != 0 {
			continue
		}
		p1 := p0 | bit
		if err := p.combinePages(ctx, m, p0, p1); err != nil {
			return err
		}
	}
	return nil
}

// combinePages mixes pages p0/p1 under m, treating each page's weighted
// full vector (pageAmp[p] * its own unit state) as one component of the
// virtual meta qubit: new_p0 = m00*p0 + m01*p1, new_p1 = m10*p0 +
// m11*p1, then re-splits each result back into a page weight and a
// freshly normalized page engine.
func (p *Pager) combinePages(ctx context.Context, m statevector.Matrix2x2, p0, p1 int) error {
	v0, err := p.pageVector(ctx, p0)
	if err != nil {
		return err
	}
	v1, err := p.pageVector(ctx, p1)
	if err != nil {
		return err
	}

	dim := int64(1) << uint(p.localQubits)
	n0 := make([]complex128, dim)
	n1 := make([]complex128, dim)
	for i := int64(0); i < dim; i++ {
		n0[i] = m.M00*v0[i] + m.M01*v1[i]
		n1[i] = m.M10*v0[i] + m.M11*v1[i]
	}

	if err := p.setPageFromVector(ctx, p0, n0); err != nil {
		return err
	}
	return p.setPageFromVector(ctx, p1, n1)
}

// pageVector returns page p's weighted full amplitude vector
// (pageAmp[p] * its own state), or the all-zero vector if p is nil.
func (p *Pager) pageVector(ctx context.Context, page int) ([]complex128, error) {
	dim := int64(1) << uint(p.localQubits)
	if p.pages[page] == nil {
		return make([]complex128, dim), nil
	}
	amps, err := p.pages[page].GetQuantumState(ctx)
	if err != nil {
		return nil, err
	}
	w := p.pageAmp[page]
	out := make([]complex128, dim)
	for i, a := range amps {
		out[i] = a * w
	}
	return out, nil
}

// setPageFromVector splits a weighted full vector back into a page
// weight and a unit-normalized page engine, storing both into page.
// Numerically zero vectors clear the page to nil, per the nil-means-
// zero-weight convention.
func (p *Pager) setPageFromVector(ctx context.Context, page int, v []complex128) error {
	amp, unit := splitAmplitude(v, p.cfg.NormThreshold)
	if amp == 0 {
		p.pages[page] = nil
		p.pageAmp[page] = 0
		return nil
	}
	eng, err := p.newPageEngine()
	if err != nil {
		return err
	}
	inner, err := eng.Engine(ctx)
	if err != nil {
		return err
	}
	if err := inner.SetQuantumState(unit); err != nil {
		return err
	}
	p.pages[page] = eng
	p.pageAmp[page] = amp
	return nil
}

// splitAmplitude factors v = amp * unit with |unit| == 1, fixing the
// free phase the same way statevector.Decompose does: the first
// significant component of unit is real and non-negative.
func splitAmplitude(v []complex128, threshold float64) (complex128, []complex128) {
	var normSq float64
	for _, a := range v {
		normSq += real(a)*real(a) + imag(a)*imag(a)
	}
	if normSq < threshold*threshold {
		return 0, nil
	}
	norm := math.Sqrt(normSq)

	anchor := -1
	for i, a := range v {
		if real(a)*real(a)+imag(a)*imag(a) > threshold*threshold {
			anchor = i
			break
		}
	}
	mag := math.Sqrt(real(v[anchor])*real(v[anchor]) + imag(v[anchor])*imag(v[anchor]))
	anchorPhase := v[anchor] / complex(mag, 0)
	amp := complex(norm, 0) * anchorPhase

	unit := make([]complex128, len(v))
	for i, a := range v {
		unit[i] = a / amp
	}
	return amp, unit
}

func isPauliX(m statevector.Matrix2x2) bool {
	const eps = 1e-9
	return absSq(m.M00) < eps && absSq(m.M11) < eps &&
		absSq(m.M01-1) < eps && absSq(m.M10-1) < eps
}

func absSq(c complex128) float64 {
	re, im := real(c), imag(c)
	return re*re + im*im
}

// ApplyControlled applies m to target whenever every qubit in controls
// reads 1, splitting controls into pages selected by meta controls and
// a residual condition evaluated index-by-index inside each page for
// any local controls.
func (p *Pager) ApplyControlled(ctx context.Context, m statevector.Matrix2x2, controls []int, target int) error {
	return p.applyControlledGeneric(ctx, m, controls, target, false)
}

// ApplyAntiControlled is the mirror of ApplyControlled, firing when
// every qubit in antiControls reads 0.
func (p *Pager) ApplyAntiControlled(ctx context.Context, m statevector.Matrix2x2, antiControls []int, target int) error {
	return p.applyControlledGeneric(ctx, m, antiControls, target, true)
}

func (p *Pager) applyControlledGeneric(ctx context.Context, m statevector.Matrix2x2, controls []int, target int, anti bool) error {
	if err := p.checkQubit(target); err != nil {
		return err
	}
	for _, c := range controls {
		if err := p.checkQubit(c); err != nil {
			return err
		}
	}

	var localControls, metaControls []int
	for _, c := range controls {
		if c < p.localQubits {
			localControls = append(localControls, c)
		} else {
			metaControls = append(metaControls, c-p.localQubits)
		}
	}

	if target < p.localQubits {
		return p.forEachPage(ctx, func(page int) error {
			if !metaPatternMatches(page, metaControls, anti) {
				return nil
			}
			if anti {
				return p.pages[page].ApplyAntiControlled(ctx, m, localControls, target)
			}
			return p.pages[page].ApplyControlled(ctx, m, localControls, target)
		})
	}

	// Meta target: combine the page pairs across the target bit, masked
	// by both the meta controls (whole-page skip) and the local controls
	// (per-index masking inside the combination).
	bit := 1 << uint(target-p.localQubits)
	for p0 := range p.pages {
		if p0&bit != 0 {
			continue
		}
		if !metaPatternMatches(p0, metaControls, anti) {
			continue
		}
		p1 := p0 | bit
		if err := p.combinePagesControlled(ctx, m, p0, p1, localControls, anti); err != nil {
			return err
		}
	}
	return nil
}

func metaPatternMatches(page int, metaBits []int, anti bool) bool {
	for _, k := range metaBits {
		bit := (page >> uint(k)) & 1
		want := 1
		if anti {
			want = 0
		}
		if bit != want {
			return false
		}
	}
	return true
}

// combinePagesControlled is combinePages restricted to the local basis
// indices satisfying localControls (or their complement, for
// anti-controls); every other index passes through unchanged.
func (p *Pager) combinePagesControlled(ctx context.Context, m statevector.Matrix2x2, p0, p1 int, localControls []int, anti bool) error {
	v0, err := p.pageVector(ctx, p0)
	if err != nil {
		return err
	}
	v1, err := p.pageVector(ctx, p1)
	if err != nil {
		return err
	}

	dim := int64(1) << uint(p.localQubits)
	n0 := append([]complex128(nil), v0...)
	n1 := append([]complex128(nil), v1...)
	for i := int64(0); i < dim; i++ {
		if !localMaskMatches(i, localControls, anti) {
			continue
		}
		n0[i] = m.M00*v0[i] + m.M01*v1[i]
		n1[i] = m.M10*v0[i] + m.M11*v1[i]
	}

	if err := p.setPageFromVector(ctx, p0, n0); err != nil {
		return err
	}
	return p.setPageFromVector(ctx, p1, n1)
}

func localMaskMatches(i int64, localControls []int, anti bool) bool {
	for _, c := range localControls {
		bit := (i >> uint(c)) & 1
		want := int64(1)
		if anti {
			want = 0
		}
		if bit != want {
			return false
		}
	}
	return true
}
