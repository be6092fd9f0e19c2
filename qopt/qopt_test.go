package qopt

import (
	"os"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.QubitCount != 0 {
		t.Errorf("QubitCount = %d, want 0", cfg.QubitCount)
	}
	if !cfg.DoAutoNormalize {
		t.Errorf("DoAutoNormalize = false, want true")
	}
	if cfg.DeviceID != -1 {
		t.Errorf("DeviceID = %d, want -1", cfg.DeviceID)
	}
	if cfg.Logger == nil {
		t.Errorf("Logger should default to a non-nil no-op logger")
	}
}

func TestApplyFoldsOptions(t *testing.T) {
	cfg := Apply(
		WithQubitCount(5),
		WithRNGSeed(42),
		WithAutoNormalize(false),
		WithSeparabilityThreshold(1e-6),
		WithPageQubits(2),
	)
	if cfg.QubitCount != 5 {
		t.Errorf("QubitCount = %d, want 5", cfg.QubitCount)
	}
	if cfg.RNGSeed != 42 {
		t.Errorf("RNGSeed = %d, want 42", cfg.RNGSeed)
	}
	if cfg.DoAutoNormalize {
		t.Errorf("DoAutoNormalize should be false after WithAutoNormalize(false)")
	}
	if cfg.SeparabilityThreshold != 1e-6 {
		t.Errorf("SeparabilityThreshold = %g, want 1e-6", cfg.SeparabilityThreshold)
	}
	if cfg.PageQubits != 2 {
		t.Errorf("PageQubits = %d, want 2", cfg.PageQubits)
	}
}

func TestWithLoggerIgnoresNil(t *testing.T) {
	cfg := Apply(WithLogger(nil))
	if cfg.Logger == nil {
		t.Errorf("WithLogger(nil) should leave the default logger in place, got nil")
	}
}

func TestFromEnvReadsRecognizedKeys(t *testing.T) {
	for _, kv := range [][2]string{
		{"QSIM_QUBIT_COUNT", "10"},
		{"QSIM_RNG_SEED", "99"},
		{"QSIM_USE_SPARSE", "true"},
		{"QSIM_SEPARABILITY_THRESHOLD", "0.001"},
	} {
		os.Setenv(kv[0], kv[1])
		defer os.Unsetenv(kv[0])
	}

	cfg := Apply(FromEnv()...)
	if cfg.QubitCount != 10 {
		t.Errorf("QubitCount = %d, want 10", cfg.QubitCount)
	}
	if cfg.RNGSeed != 99 {
		t.Errorf("RNGSeed = %d, want 99", cfg.RNGSeed)
	}
	if !cfg.UseSparse {
		t.Errorf("UseSparse should be true")
	}
	if cfg.SeparabilityThreshold != 0.001 {
		t.Errorf("SeparabilityThreshold = %g, want 0.001", cfg.SeparabilityThreshold)
	}
}

func TestFromEnvLeavesUnsetKeysAtCompileTimeDefault(t *testing.T) {
	os.Unsetenv("QSIM_MAX_ALLOC_MB")
	cfg := Apply(FromEnv()...)
	if cfg.MaxAllocMB != Default().MaxAllocMB {
		t.Errorf("MaxAllocMB = %d, want unset default %d", cfg.MaxAllocMB, Default().MaxAllocMB)
	}
}
