package qerr

import (
	"strings"
	"testing"
)

func TestWrapPreservesKind(t *testing.T) {
	err := Wrap(InvalidArgument, "qubit index %d out of range", 7)
	if !Is(err, InvalidArgument) {
		t.Fatalf("expected wrapped error to match InvalidArgument, got %v", err)
	}
	if Is(err, DegenerateState) {
		t.Fatalf("wrapped InvalidArgument should not match DegenerateState")
	}
	if !strings.Contains(err.Error(), "qubit index 7 out of range") {
		t.Errorf("expected formatted message in error text, got %q", err.Error())
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	kinds := []error{InvalidArgument, CapacityExceeded, DegenerateState, SeparabilityViolation, BackendFailure}
	for i, a := range kinds {
		for j, b := range kinds {
			if i == j {
				continue
			}
			if Is(Wrap(a, "x"), b) {
				t.Errorf("Wrap(%v) unexpectedly matched %v", a, b)
			}
		}
	}
}
