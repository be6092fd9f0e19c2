package pager

import "context"

// Prob returns P(qubit q == 1): for a local qubit, the pageAmp-weighted
// sum of each page's own probability; for a meta qubit, the summed
// weight of every page with that bit set.
func (p *Pager) Prob(ctx context.Context, q int) (float64, error) {
	if err := p.checkQubit(q); err != nil {
		return 0, err
	}
	if q < p.localQubits {
		var total float64
		for page := range p.pages {
			if p.pages[page] == nil {
				continue
			}
			pr, err := p.pages[page].Prob(ctx, q)
			if err != nil {
				return 0, err
			}
			total += pr * absSq(p.pageAmp[page])
		}
		return total, nil
	}
	bit := 1 << uint(q-p.localQubits)
	var total float64
	for page := range p.pages {
		if page&bit == 0 || p.pages[page] == nil {
			continue
		}
		total += absSq(p.pageAmp[page])
	}
	return total, nil
}

// ProbAll returns P(register == perm).
func (p *Pager) ProbAll(ctx context.Context, perm uint64) (float64, error) {
	page := int(perm >> uint(p.localQubits))
	if p.pages[page] == nil {
		return 0, nil
	}
	local := perm & (uint64(1)<<uint(p.localQubits) - 1)
	pr, err := p.pages[page].ProbAll(ctx, local)
	if err != nil {
		return 0, err
	}
	return pr * absSq(p.pageAmp[page]), nil
}

// GetQuantumState materializes every page and concatenates their
// pageAmp-weighted amplitudes into the full vector; the page index
// occupies the high-order bits of the combined basis index.
func (p *Pager) GetQuantumState(ctx context.Context) ([]complex128, error) {
	dim := int64(1) << uint(p.NumQubits())
	out := make([]complex128, dim)
	localDim := int64(1) << uint(p.localQubits)
	for page := range p.pages {
		if p.pages[page] == nil {
			continue
		}
		amps, err := p.pages[page].GetQuantumState(ctx)
		if err != nil {
			return nil, err
		}
		w := p.pageAmp[page]
		base := int64(page) * localDim
		for i, a := range amps {
			out[base+int64(i)] = a * w
		}
	}
	return out, nil
}
