package unit

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/qsimlib/qsim/hybrid"
	"github.com/qsimlib/qsim/qerr"
	"github.com/qsimlib/qsim/qopt"
)

// Register owns the shard arena and the pool of shared hybrid.Register
// engines entangled groups of shards point into.
type Register struct {
	shards  []*shard
	engines []*hybrid.Register // arena of shared engines, indexed by shard.engineIdx

	cfg    qopt.Config
	logger *zap.Logger
	rng    *rand.Rand
}

// New constructs an n-qubit register with every qubit isolated, in the
// basis state cfg.InitialPermutation (|0...0> by default).
func New(opts ...qopt.Option) (*Register, error) {
	cfg := qopt.Apply(opts...)
	if cfg.QubitCount < 0 {
		return nil, qerr.Wrap(qerr.InvalidArgument, "unit: negative qubit count %d", cfg.QubitCount)
	}
	r := &Register{
		cfg:    cfg,
		logger: cfg.Logger,
		rng:    rand.New(rand.NewSource(int64(cfg.RNGSeed))),
	}
	r.shards = make([]*shard, cfg.QubitCount)
	for i := range r.shards {
		r.shards[i] = newIsolatedShard()
	}
	if cfg.InitialPermutation != 0 {
		for q := 0; q < cfg.QubitCount; q++ {
			if (cfg.InitialPermutation>>uint(q))&1 == 1 {
				r.shards[q].amp0, r.shards[q].amp1 = 0, 1
			}
		}
	}
	return r, nil
}

func (r *Register) NumQubits() int { return len(r.shards) }

func (r *Register) checkQubit(q int) error {
	if q < 0 || q >= len(r.shards) {
		return qerr.Wrap(qerr.InvalidArgument, "unit: qubit index %d out of range [0,%d)", q, len(r.shards))
	}
	return nil
}

// newEngine allocates a fresh hybrid.Register of the given size and
// returns its arena index.
func (r *Register) newEngine(qubitCount int) (int, error) {
	eng, err := hybrid.New(hybrid.Params{
		QubitCount:    qubitCount,
		RNGSeed:       r.cfg.RNGSeed,
		NormThreshold: r.cfg.NormThreshold,
		AutoNormalize: r.cfg.DoAutoNormalize,
		Logger:        r.logger,
	})
	if err != nil {
		return -1, err
	}
	r.engines = append(r.engines, eng)
	return len(r.engines) - 1, nil
}

// SetPermutation collapses the whole register to a basis state,
// re-isolating every shard.
func (r *Register) SetPermutation(perm uint64) {
	r.engines = nil
	for q, s := range r.shards {
		*s = *newIsolatedShard()
		if (perm>>uint(q))&1 == 1 {
			s.amp0, s.amp1 = 0, 1
		}
	}
}
