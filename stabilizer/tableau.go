// Package stabilizer implements the Clifford-subset tableau engine: a
// 2n x (2n+1) symplectic tableau of n destabilizer and n stabilizer
// generators, updated by row operations under H, S, CNOT, CZ, and Pauli
// gates, with deterministic-or-random Z measurement and separability
// queries. This has no direct analogue in q-deck (whose kernel is
// dense-amplitude only); the row-reduction algorithm below is the
// standard Aaronson-Gottesman construction, written in the flat,
// loop-first style q-deck's own gate functions use rather than as a
// matrix-library abstraction.
package stabilizer

import (
	"math/rand"

	"github.com/qsimlib/qsim/qerr"
)

// Tableau holds 2n generators over n qubits. Row r < n is the r-th
// destabilizer; row n+r is the r-th stabilizer. x[r][q] and z[r][q] are
// the symplectic components; sign[r] is the +/- phase bit.
type Tableau struct {
	n    int
	x    [][]bool
	z    [][]bool
	sign []bool
	rng  *rand.Rand
}

// New constructs the stabilizer state |0...0>: destabilizer r = X_r,
// stabilizer r = Z_r.
func New(n int, seed uint64) (*Tableau, error) {
	if n < 0 {
		return nil, qerr.Wrap(qerr.InvalidArgument, "stabilizer: negative qubit count %d", n)
	}
	rows := 2 * n
	t := &Tableau{
		n:    n,
		x:    make([][]bool, rows),
		z:    make([][]bool, rows),
		sign: make([]bool, rows),
		rng:  rand.New(rand.NewSource(int64(seed))),
	}
	for r := 0; r < rows; r++ {
		t.x[r] = make([]bool, n)
		t.z[r] = make([]bool, n)
	}
	for q := 0; q < n; q++ {
		t.x[q][q] = true    // destabilizer q = X_q
		t.z[n+q][q] = true  // stabilizer q  = Z_q
	}
	return t, nil
}

// NumQubits returns n.
func (t *Tableau) NumQubits() int { return t.n }

func (t *Tableau) checkQubit(q int) error {
	if q < 0 || q >= t.n {
		return qerr.Wrap(qerr.InvalidArgument, "stabilizer: qubit index %d out of range [0,%d)", q, t.n)
	}
	return nil
}

// Clone deep-copies the tableau.
func (t *Tableau) Clone() *Tableau {
	rows := 2 * t.n
	c := &Tableau{n: t.n, sign: append([]bool(nil), t.sign...), rng: t.rng,
		x: make([][]bool, rows), z: make([][]bool, rows)}
	for r := 0; r < rows; r++ {
		c.x[r] = append([]bool(nil), t.x[r]...)
		c.z[r] = append([]bool(nil), t.z[r]...)
	}
	return c
}

// rowMulInto multiplies the Pauli string (xt,zt,*signt) by (xs,zs,signs)
// in place on the target slices, applying the standard phase-accumulation
// rule for composing Pauli strings qubit by qubit. Used both for tableau
// row-row products (rowMul) and for the scratch-row accumulation the
// deterministic measurement path needs.
func rowMulInto(xt, zt []bool, signt *bool, xs, zs []bool, signs bool) {
	m := 0
	for q := range xt {
		x1, z1 := xt[q], zt[q]
		x2, z2 := xs[q], zs[q]
		m += gPhase(x1, z1, x2, z2)
		xt[q] = x1 != x2
		zt[q] = z1 != z2
	}
	sign1, sign2 := 0, 0
	if *signt {
		sign1 = 2
	}
	if signs {
		sign2 = 2
	}
	total := (((m + sign1 + sign2) % 4) + 4) % 4
	*signt = total == 2 || total == 3
}

// rowMul multiplies tableau row target by row src, in place on target.
func rowMul(t *Tableau, target, src int) {
	rowMulInto(t.x[target], t.z[target], &t.sign[target], t.x[src], t.z[src], t.sign[src])
}

// gPhase returns the exponent of i contributed by composing a single
// Pauli (x1,z1) with (x2,z2) in that order, standard table from
// Aaronson-Gottesman section III.
func gPhase(x1, z1, x2, z2 bool) int {
	switch {
	case !x1 && !z1:
		return 0
	case x1 && z1:
		if z2 && !x2 {
			return 1
		}
		if x2 && !z2 {
			return -1
		}
		return 0
	case x1 && !z1:
		if z2 {
			if x2 {
				return 1
			}
			return -1
		}
		return 0
	default: // !x1 && z1
		if x2 {
			if z2 {
				return -1
			}
			return 1
		}
		return 0
	}
}
