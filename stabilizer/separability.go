package stabilizer

import "github.com/qsimlib/qsim/qerr"

func errInconsistentForce(q, v int) error {
	return qerr.Wrap(qerr.InvalidArgument, "stabilizer: ForceMeasure(%d,%d) inconsistent with deterministic outcome", q, v)
}

// IsSeparableZ reports whether the stabilizer group fixes qubit q to a
// +-1 eigenstate of Z: equivalent to some stabilizer row being exactly
// Z_q (up to sign) once reduced, which the deterministic branch of
// Measure already detects by construction. We probe non-destructively by
// checking whether any stabilizer row has x-component zero everywhere
// except possibly at q... more precisely, q is Z-separable iff no
// stabilizer generator has a nonzero X-component on q (the same
// condition Measure uses to pick the deterministic branch).
func (t *Tableau) IsSeparableZ(q int) (bool, error) {
	if err := t.checkQubit(q); err != nil {
		return false, err
	}
	for r := t.n; r < 2*t.n; r++ {
		if t.x[r][q] {
			return false, nil
		}
	}
	return true, nil
}

// IsSeparableX reports Z/X-basis-flipped separability: conjugate a
// scratch copy by H_q and re-run the Z probe. Never mutates the
// caller's tableau, since this is a read-only query.
func (t *Tableau) IsSeparableX(q int) (bool, error) {
	scratch := t.Clone()
	if err := scratch.H(q); err != nil {
		return false, err
	}
	return scratch.IsSeparableZ(q)
}

// IsSeparableY probes the Y basis via S then H.
func (t *Tableau) IsSeparableY(q int) (bool, error) {
	scratch := t.Clone()
	if err := scratch.S(q); err != nil {
		return false, err
	}
	if err := scratch.H(q); err != nil {
		return false, err
	}
	return scratch.IsSeparableZ(q)
}
