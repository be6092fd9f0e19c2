package pager

import (
	"context"
	"math"

	"github.com/qsimlib/qsim/qerr"
)

// Measure performs a projective Z-basis measurement of qubit q. For a
// local qubit every page collapses (or is discarded) on its own; for a
// meta qubit whole pages are discarded, and the survivors' weights are
// renormalized.
func (p *Pager) Measure(ctx context.Context, q int) (int, error) {
	if err := p.checkQubit(q); err != nil {
		return 0, err
	}
	p1, err := p.Prob(ctx, q)
	if err != nil {
		return 0, err
	}
	outcome := 0
	if p.rng.Float64() < p1 {
		outcome = 1
	}
	if err := p.collapse(ctx, q, outcome); err != nil {
		return 0, err
	}
	return outcome, nil
}

// ForceMeasure collapses qubit q to v, requiring the caller to have
// verified that P(q==v) is non-zero.
func (p *Pager) ForceMeasure(ctx context.Context, q int, v int) error {
	if v != 0 && v != 1 {
		return qerr.Wrap(qerr.InvalidArgument, "pager: ForceMeasure bit must be 0 or 1, got %d", v)
	}
	if err := p.checkQubit(q); err != nil {
		return err
	}
	return p.collapse(ctx, q, v)
}

func (p *Pager) collapse(ctx context.Context, q, outcome int) error {
	if q < p.localQubits {
		for page := range p.pages {
			if p.pages[page] == nil {
				continue
			}
			pr, err := p.pages[page].Prob(ctx, q)
			if err != nil {
				return err
			}
			survives := pr
			if outcome == 0 {
				survives = 1 - pr
			}
			if survives < p.cfg.NormThreshold {
				p.pages[page] = nil
				p.pageAmp[page] = 0
				continue
			}
			if err := p.pages[page].ForceMeasure(ctx, q, outcome); err != nil {
				return err
			}
			p.pageAmp[page] *= complex(math.Sqrt(survives), 0)
		}
		return p.renormalizePages()
	}

	metaBit := q - p.localQubits
	want := 1
	if outcome == 0 {
		want = 0
	}
	for page := range p.pages {
		if (page>>uint(metaBit))&1 != want {
			p.pages[page] = nil
			p.pageAmp[page] = 0
		}
	}
	return p.renormalizePages()
}

// renormalizePages rescales every surviving page weight so Σ|pageAmp|^2
// == 1 again after a measurement discards some pages' probability mass.
func (p *Pager) renormalizePages() error {
	var total float64
	for _, a := range p.pageAmp {
		total += real(a)*real(a) + imag(a)*imag(a)
	}
	if total < p.cfg.NormThreshold {
		return qerr.Wrap(qerr.DegenerateState, "pager: measurement left no surviving probability mass")
	}
	inv := complex(1/math.Sqrt(total), 0)
	for i := range p.pageAmp {
		p.pageAmp[i] *= inv
	}
	return nil
}
