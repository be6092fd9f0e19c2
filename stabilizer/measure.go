package stabilizer

import "context"

// Measure performs a Z-basis measurement of qubit a, following the
// standard Aaronson-Gottesman algorithm: deterministic when some linear
// combination of stabilizers fixes the qubit, uniformly random (and
// tableau-updating) otherwise. Takes a context to match the Engine
// surface every layer shares; the algorithm itself never blocks.
func (t *Tableau) Measure(ctx context.Context, a int) (int, error) {
	if err := t.checkQubit(a); err != nil {
		return 0, err
	}

	// Look for a stabilizer row (index >= n) with a nonzero X-component
	// on qubit a: such a row anticommutes with Z_a, so the outcome is
	// random.
	p := -1
	for r := t.n; r < 2*t.n; r++ {
		if t.x[r][a] {
			p = r
			break
		}
	}

	if p >= 0 {
		for r := 0; r < 2*t.n; r++ {
			if r != p && t.x[r][a] {
				rowMul(t, r, p)
			}
		}
		// destabilizer (p-n) takes over the old stabilizer row's Pauli
		// string; row p becomes the fresh Z_a stabilizer with a random
		// sign.
		copy(t.x[p-t.n], t.x[p])
		copy(t.z[p-t.n], t.z[p])
		t.sign[p-t.n] = t.sign[p]

		for q := 0; q < t.n; q++ {
			t.x[p][q] = false
			t.z[p][q] = q == a
		}
		outcome := t.rng.Intn(2) == 1
		t.sign[p] = outcome
		if outcome {
			return 1, nil
		}
		return 0, nil
	}

	// Deterministic: accumulate the product of every stabilizer row
	// whose matching destabilizer has a nonzero X-component on a. The
	// resulting sign is the measurement outcome.
	scratchX := make([]bool, t.n)
	scratchZ := make([]bool, t.n)
	var scratchSign bool
	for r := 0; r < t.n; r++ {
		if t.x[r][a] {
			rowMulInto(scratchX, scratchZ, &scratchSign, t.x[t.n+r], t.z[t.n+r], t.sign[t.n+r])
		}
	}
	if scratchSign {
		return 1, nil
	}
	return 0, nil
}

// ForceMeasure collapses qubit a to v without sampling randomness,
// requiring the caller to have verified that v is consistent with a
// nonzero-probability outcome on a qubit whose measurement is actually
// random (or matches the deterministic outcome).
func (t *Tableau) ForceMeasure(ctx context.Context, a, v int) error {
	if err := t.checkQubit(a); err != nil {
		return err
	}
	p := -1
	for r := t.n; r < 2*t.n; r++ {
		if t.x[r][a] {
			p = r
			break
		}
	}
	if p < 0 {
		outcome, err := t.Measure(ctx, a)
		if err != nil {
			return err
		}
		if outcome != v {
			return errInconsistentForce(a, v)
		}
		return nil
	}
	for r := 0; r < 2*t.n; r++ {
		if r != p && t.x[r][a] {
			rowMul(t, r, p)
		}
	}
	copy(t.x[p-t.n], t.x[p])
	copy(t.z[p-t.n], t.z[p])
	t.sign[p-t.n] = t.sign[p]
	for q := 0; q < t.n; q++ {
		t.x[p][q] = false
		t.z[p][q] = q == a
	}
	t.sign[p] = v == 1
	return nil
}
