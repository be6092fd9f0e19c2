package stabilizer

import (
	"math"

	"github.com/qsimlib/qsim/qerr"
	"github.com/qsimlib/qsim/statevector"
)

// Materialize converts the stabilizer state into a dense amplitude
// state-vector engine by successively projecting a computational basis
// state |b> onto the +1 eigenspace of every stabilizer generator:
// amps <- (amps + s*P*amps)/2 for each generator's Pauli string P and
// sign s. The product of those projectors is |psi><psi|, so the result
// is <psi|b>|psi>; b runs upward from |0...0> until the projection is
// non-null. This fixes the free phase convention of Open Question #3 by
// construction: the lowest-index basis state with a non-zero amplitude
// comes out real and positive, and every other phase is whatever the
// stabilizer signs impose - no extra phase choice is made anywhere in
// the algorithm.
func (t *Tableau) Materialize() (*statevector.Engine, error) {
	dim := int64(1) << uint(t.n)
	var amps []complex128
	var norm float64
	for start := int64(0); start < dim && norm < 1e-15; start++ {
		amps = make([]complex128, dim)
		amps[start] = 1
		for r := t.n; r < 2*t.n; r++ {
			amps = projectRow(t, r, amps)
		}
		norm = 0
		for _, a := range amps {
			norm += real(a)*real(a) + imag(a)*imag(a)
		}
	}
	if norm < 1e-15 {
		return nil, qerr.Wrap(qerr.DegenerateState, "stabilizer: materialize produced a null state")
	}
	inv := complex(1/math.Sqrt(norm), 0)
	for i := range amps {
		amps[i] *= inv
	}

	eng, err := statevector.New(statevector.Params{QubitCount: t.n})
	if err != nil {
		return nil, err
	}
	if err := eng.SetQuantumState(amps); err != nil {
		return nil, err
	}
	return eng, nil
}

func projectRow(t *Tableau, r int, amps []complex128) []complex128 {
	n := t.n
	dim := int64(len(amps))
	var xmask int64
	for q := 0; q < n; q++ {
		if t.x[r][q] {
			xmask |= int64(1) << uint(q)
		}
	}
	sign := 1.0
	if t.sign[r] {
		sign = -1.0
	}

	pAmps := make([]complex128, dim)
	for i := int64(0); i < dim; i++ {
		if amps[i] == 0 {
			continue
		}
		factor := complex(1, 0)
		for q := 0; q < n; q++ {
			bit := (i >> uint(q)) & 1
			x, z := t.x[r][q], t.z[r][q]
			switch {
			case !x && !z:
				// identity
			case x && !z:
				// X: no phase
			case !x && z:
				if bit == 1 {
					factor = -factor
				}
			default: // Y
				if bit == 0 {
					factor *= complex(0, 1)
				} else {
					factor *= complex(0, -1)
				}
			}
		}
		j := i ^ xmask
		pAmps[j] += factor * amps[i]
	}

	out := make([]complex128, dim)
	for i := int64(0); i < dim; i++ {
		out[i] = (amps[i] + complex(sign, 0)*pAmps[i]) / 2
	}
	return out
}
