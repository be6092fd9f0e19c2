package statevector

import "context"

// H, X, Y, Z, S, Sdg, T, Tdg, CX, CZ, Swap are named convenience
// wrappers over ApplySingleQubit/ApplyControlled/swap, grounded
// directly on q-deck's applyH/applyX/.../applyCX/applyCZ/applySWAP
// dispatch table (quantum.go ApplyGate), generalized to call through the
// single matrix-parametrized path instead of each having its own loop.
func (e *Engine) H(ctx context.Context, q int) error { return e.ApplySingleQubit(ctx, Hadamard, q) }
func (e *Engine) X(ctx context.Context, q int) error { return e.ApplySingleQubit(ctx, PauliX, q) }
func (e *Engine) Y(ctx context.Context, q int) error { return e.ApplySingleQubit(ctx, PauliY, q) }
func (e *Engine) Z(ctx context.Context, q int) error { return e.ApplySingleQubit(ctx, PauliZ, q) }
func (e *Engine) S(ctx context.Context, q int) error { return e.ApplySingleQubit(ctx, SGate, q) }
func (e *Engine) Sdg(ctx context.Context, q int) error {
	return e.ApplySingleQubit(ctx, SdgGate, q)
}
func (e *Engine) T(ctx context.Context, q int) error { return e.ApplySingleQubit(ctx, TGate, q) }
func (e *Engine) Tdg(ctx context.Context, q int) error {
	return e.ApplySingleQubit(ctx, TdgGate, q)
}

func (e *Engine) CX(ctx context.Context, control, target int) error {
	return e.ApplyControlled(ctx, PauliX, []int{control}, target)
}

func (e *Engine) CZ(ctx context.Context, control, target int) error {
	return e.ApplyControlled(ctx, PauliZ, []int{control}, target)
}

func (e *Engine) Swap(ctx context.Context, a, b int) error { return e.swap(ctx, a, b) }
