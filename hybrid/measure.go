package hybrid

import "context"

// Measure performs a projective Z measurement of qubit q. On the
// stabilizer backend with no shard buffer on q it measures the tableau
// directly, without promotion. If q carries a shard buffer, that buffer
// is flushed first, which promotes the register to the state-vector
// engine (flushing every other qubit's buffer as well), and the
// measurement runs there.
func (r *Register) Measure(ctx context.Context, q int) (int, error) {
	if err := r.checkQubit(q); err != nil {
		return 0, err
	}
	if r.mode == ModeEngine {
		return r.eng.Measure(ctx, q)
	}
	if r.hasBuffer(q) {
		if err := r.flushBuffer(ctx, q); err != nil {
			return 0, err
		}
		return r.eng.Measure(ctx, q)
	}
	return r.tab.Measure(ctx, q)
}

// ForceMeasure collapses qubit q to v.
func (r *Register) ForceMeasure(ctx context.Context, q int, v int) error {
	if err := r.checkQubit(q); err != nil {
		return err
	}
	if r.mode == ModeEngine {
		return errWrap("ForceMeasure", r.eng.ForceMeasure(ctx, q, v))
	}
	if r.hasBuffer(q) {
		if err := r.flushBuffer(ctx, q); err != nil {
			return err
		}
		return errWrap("ForceMeasure", r.eng.ForceMeasure(ctx, q, v))
	}
	return r.tab.ForceMeasure(ctx, q, v)
}
