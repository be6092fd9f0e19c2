// Package pager implements the page-splitting layer: a qubit register
// whose high-order "meta" qubits select among a vector of page-sized
// hybrid.Register engines rather than living inside any single
// engine's amplitude store. A gate confined to the low-order "local"
// qubits runs independently per page; a gate touching a meta qubit
// combines the pair of pages that bit selects between, falling back to
// a pure page-pointer swap (no amplitude work at all) for the common
// inter-page X case.
package pager

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/qsimlib/qsim/hybrid"
	"github.com/qsimlib/qsim/qerr"
	"github.com/qsimlib/qsim/qopt"
)

// Pager holds one hybrid.Register per page, each always normalized to
// unit norm on its own, plus a per-page complex weight so that the
// register's actual global state is Σ_p pageAmp[p] * (|p>_meta ⊗
// pages[p]'s state). A nil page entry is shorthand for pageAmp[p] == 0:
// the all-but-one-page |0...0> initial state skips allocating
// (2^pageQubits - 1) empty engines.
type Pager struct {
	pages       []*hybrid.Register
	pageAmp     []complex128
	localQubits int // qubits living inside each page's own engine
	pageQubits  int // high-order qubits selecting a page

	cfg qopt.Config
	rng *rand.Rand
}

// New constructs a pager-backed register sized from cfg.QubitCount and
// the page-sizing knobs resolved by derivePageQubits.
func New(opts ...qopt.Option) (*Pager, error) {
	cfg := qopt.Apply(opts...)
	if cfg.QubitCount < 0 {
		return nil, qerr.Wrap(qerr.InvalidArgument, "pager: negative qubit count %d", cfg.QubitCount)
	}
	pageQubits := derivePageQubits(cfg)
	if pageQubits > cfg.QubitCount {
		pageQubits = cfg.QubitCount
	}
	localQubits := cfg.QubitCount - pageQubits

	numPages := 1 << uint(pageQubits)
	p := &Pager{
		pages:       make([]*hybrid.Register, numPages),
		pageAmp:     make([]complex128, numPages),
		localQubits: localQubits,
		pageQubits:  pageQubits,
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(int64(cfg.RNGSeed))),
	}

	activePage := int(cfg.InitialPermutation >> uint(localQubits))
	localPerm := cfg.InitialPermutation & (uint64(1)<<uint(localQubits) - 1)
	eng, err := p.newPageEngine()
	if err != nil {
		return nil, err
	}
	eng.SetPermutation(localPerm)
	p.pages[activePage] = eng
	p.pageAmp[activePage] = 1
	return p, nil
}

// derivePageQubits resolves the page-sizing knobs: PageQubits, when set,
// is the number of page-selecting qubits; otherwise SegmentQubits, or
// failing that MaxPagingQubits, is taken as the per-page (local) qubit
// count. MaxAllocMB is not consulted.
func derivePageQubits(cfg qopt.Config) int {
	if cfg.PageQubits > 0 {
		return cfg.PageQubits
	}
	if cfg.SegmentQubits > 0 && cfg.SegmentQubits < cfg.QubitCount {
		return cfg.QubitCount - cfg.SegmentQubits
	}
	if cfg.MaxPagingQubits > 0 && cfg.MaxPagingQubits < cfg.QubitCount {
		return cfg.QubitCount - cfg.MaxPagingQubits
	}
	return 0
}

func (p *Pager) newPageEngine() (*hybrid.Register, error) {
	return hybrid.New(hybrid.Params{
		QubitCount:    p.localQubits,
		RNGSeed:       p.cfg.RNGSeed,
		NormThreshold: p.cfg.NormThreshold,
		AutoNormalize: p.cfg.DoAutoNormalize,
		Logger:        p.cfg.Logger,
	})
}

// NumQubits returns the pager's total qubit count.
func (p *Pager) NumQubits() int { return p.localQubits + p.pageQubits }

func (p *Pager) checkQubit(q int) error {
	if q < 0 || q >= p.NumQubits() {
		return qerr.Wrap(qerr.InvalidArgument, "pager: qubit index %d out of range [0,%d)", q, p.NumQubits())
	}
	return nil
}

// SetPermutation collapses the whole register to a basis state.
func (p *Pager) SetPermutation(perm uint64) {
	for i := range p.pages {
		p.pages[i] = nil
		p.pageAmp[i] = 0
	}
	activePage := int(perm >> uint(p.localQubits))
	localPerm := perm & (uint64(1)<<uint(p.localQubits) - 1)
	eng, err := p.newPageEngine()
	if err != nil {
		return
	}
	eng.SetPermutation(localPerm)
	p.pages[activePage] = eng
	p.pageAmp[activePage] = 1
}

// forEachPage runs fn over every non-nil page concurrently, per the same
// bounded-fan-out shape pfor.Run uses for index ranges (here the unit of
// work is a whole page rather than an amplitude index).
func (p *Pager) forEachPage(ctx context.Context, fn func(page int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range p.pages {
		if p.pages[i] == nil {
			continue
		}
		i := i
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}

