// Package qerr defines the error kinds surfaced across every simulation
// layer (amplitude store, engines, unit layer, pager). Callers distinguish
// kinds with errors.Is; call-site context is attached with
// github.com/pkg/errors so a failure deep in a gate application still
// carries the qubit/operation that triggered it.
package qerr

import "github.com/pkg/errors"

// Sentinel kinds. Compare with errors.Is, never direct equality, since
// every returned error is wrapped with call-site context.
var (
	// InvalidArgument covers out-of-range qubit indices, zero-length
	// ranges where disallowed, division/modulus by zero, and inconsistent
	// ForceMeasure carry-in values.
	InvalidArgument = errors.New("invalid argument")

	// CapacityExceeded covers qubit counts beyond the representational
	// cap of the chosen index type, or allocations beyond max_alloc_mb.
	CapacityExceeded = errors.New("capacity exceeded")

	// DegenerateState covers measurement or normalization attempted on a
	// state whose total probability has fallen below epsilon.
	DegenerateState = errors.New("degenerate state")

	// SeparabilityViolation covers a Decompose request on a range that is
	// not separable to within the configured tolerance.
	SeparabilityViolation = errors.New("separability violation")

	// BackendFailure covers accelerator allocation or kernel submission
	// failures.
	BackendFailure = errors.New("backend failure")
)

// Wrap attaches call-site context to a sentinel kind, preserving it for
// errors.Is.
func Wrap(kind error, format string, args ...interface{}) error {
	return errors.Wrapf(kind, format, args...)
}

// Is reports whether err ultimately wraps kind.
func Is(err, kind error) bool {
	return errors.Is(err, kind)
}
