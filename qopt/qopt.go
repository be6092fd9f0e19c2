// Package qopt carries the engine construction-time configuration
// surface as a functional-options struct, the way hupe1980/vecgo's
// Engine takes a slice of Option funcs rather than a constructor with a
// dozen positional arguments.
package qopt

import (
	"os"
	"strconv"

	"go.uber.org/zap"
)

// Config holds every recognized construction-time option.
type Config struct {
	QubitCount           int
	InitialPermutation   uint64
	RNGSeed              uint64
	ExternalRNG          func() float64
	GlobalPhaseIsRandom  bool
	DoAutoNormalize      bool
	NormThreshold        float64
	HostMemory           bool
	DeviceID             int
	UseSparse            bool
	SeparabilityThreshold float64
	PageQubits           int
	SegmentQubits        int
	MaxPagingQubits      int
	MaxAllocMB           int64
	Logger               *zap.Logger
}

// Option mutates a Config at construction time.
type Option func(*Config)

// Default returns the compile-time defaults used when an option (or
// its matching environment variable) is unset.
func Default() Config {
	return Config{
		QubitCount:            0,
		InitialPermutation:    0,
		RNGSeed:               0,
		GlobalPhaseIsRandom:   false,
		DoAutoNormalize:       true,
		NormThreshold:         1e-12,
		HostMemory:            true,
		DeviceID:              -1,
		UseSparse:             false,
		SeparabilityThreshold: 1e-9,
		PageQubits:            0,
		SegmentQubits:         0,
		MaxPagingQubits:       0,
		MaxAllocMB:            0,
		Logger:                zap.NewNop(),
	}
}

// Apply folds opts over Default().
func Apply(opts ...Option) Config {
	cfg := Default()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func WithQubitCount(n int) Option { return func(c *Config) { c.QubitCount = n } }

func WithInitialPermutation(perm uint64) Option {
	return func(c *Config) { c.InitialPermutation = perm }
}

func WithRNGSeed(seed uint64) Option { return func(c *Config) { c.RNGSeed = seed } }

func WithExternalRNG(rng func() float64) Option {
	return func(c *Config) { c.ExternalRNG = rng }
}

func WithGlobalPhaseRandom(v bool) Option {
	return func(c *Config) { c.GlobalPhaseIsRandom = v }
}

func WithAutoNormalize(v bool) Option { return func(c *Config) { c.DoAutoNormalize = v } }

func WithNormThreshold(eps float64) Option {
	return func(c *Config) { c.NormThreshold = eps }
}

func WithHostMemory(v bool) Option { return func(c *Config) { c.HostMemory = v } }

func WithDeviceID(id int) Option { return func(c *Config) { c.DeviceID = id } }

func WithSparse(v bool) Option { return func(c *Config) { c.UseSparse = v } }

func WithSeparabilityThreshold(eps float64) Option {
	return func(c *Config) { c.SeparabilityThreshold = eps }
}

func WithPageQubits(n int) Option { return func(c *Config) { c.PageQubits = n } }

func WithSegmentQubits(n int) Option { return func(c *Config) { c.SegmentQubits = n } }

func WithMaxPagingQubits(n int) Option { return func(c *Config) { c.MaxPagingQubits = n } }

func WithMaxAllocMB(mb int64) Option { return func(c *Config) { c.MaxAllocMB = mb } }

func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// FromEnv reads the simulator's environment-variable tuning knobs,
// returning the Options needed to override Default(). Unset variables
// leave the compile-time default untouched.
func FromEnv() []Option {
	var opts []Option

	if v, ok := envInt("QSIM_QUBIT_COUNT"); ok {
		opts = append(opts, WithQubitCount(v))
	}
	if v, ok := envUint("QSIM_RNG_SEED"); ok {
		opts = append(opts, WithRNGSeed(v))
	}
	if v, ok := envFloat("QSIM_NORM_THRESHOLD"); ok {
		opts = append(opts, WithNormThreshold(v))
	}
	if v, ok := envBool("QSIM_HOST_MEMORY"); ok {
		opts = append(opts, WithHostMemory(v))
	}
	if v, ok := envInt("QSIM_DEVICE_ID"); ok {
		opts = append(opts, WithDeviceID(v))
	}
	if v, ok := envBool("QSIM_USE_SPARSE"); ok {
		opts = append(opts, WithSparse(v))
	}
	if v, ok := envFloat("QSIM_SEPARABILITY_THRESHOLD"); ok {
		opts = append(opts, WithSeparabilityThreshold(v))
	}
	if v, ok := envInt("QSIM_PAGE_QUBITS"); ok {
		opts = append(opts, WithPageQubits(v))
	}
	if v, ok := envInt("QSIM_SEGMENT_QUBITS"); ok {
		opts = append(opts, WithSegmentQubits(v))
	}
	if v, ok := envInt("QSIM_MAX_PAGING_QUBITS"); ok {
		opts = append(opts, WithMaxPagingQubits(v))
	}
	if v, ok := envInt64("QSIM_MAX_ALLOC_MB"); ok {
		opts = append(opts, WithMaxAllocMB(v))
	}

	return opts
}

func envInt(key string) (int, bool) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	return v, err == nil
}

func envInt64(key string) (int64, bool) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

func envUint(key string) (uint64, bool) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	return v, err == nil
}

func envFloat(key string) (float64, bool) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func envBool(key string) (bool, bool) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(s)
	return v, err == nil
}
