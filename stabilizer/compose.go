package stabilizer

import "github.com/qsimlib/qsim/qerr"

// Compose tensor-appends other's qubits after this tableau's, growing n
// by other.n.
func (t *Tableau) Compose(other *Tableau) {
	oldN := t.n
	newN := t.n + other.n
	newRows := 2 * newN

	newX := make([][]bool, newRows)
	newZ := make([][]bool, newRows)
	newSign := make([]bool, newRows)
	for r := range newX {
		newX[r] = make([]bool, newN)
		newZ[r] = make([]bool, newN)
	}

	// destabilizers [0,oldN) and [newN, newN+oldN) come from t;
	// destabilizers [oldN,newN) and stabilizers [newN+oldN,2*newN) come
	// from other, offset by oldN qubits.
	for r := 0; r < oldN; r++ {
		copy(newX[r], t.x[r])
		copy(newZ[r], t.z[r])
		newSign[r] = t.sign[r]

		copy(newX[newN+r], t.x[oldN+r])
		copy(newZ[newN+r], t.z[oldN+r])
		newSign[newN+r] = t.sign[oldN+r]
	}
	for r := 0; r < other.n; r++ {
		for q := 0; q < other.n; q++ {
			newX[oldN+r][oldN+q] = other.x[r][q]
			newZ[oldN+r][oldN+q] = other.z[r][q]
			newX[newN+oldN+r][oldN+q] = other.x[other.n+r][q]
			newZ[newN+oldN+r][oldN+q] = other.z[other.n+r][q]
		}
		newSign[oldN+r] = other.sign[r]
		newSign[newN+oldN+r] = other.sign[other.n+r]
	}

	t.n = newN
	t.x, t.z, t.sign = newX, newZ, newSign
}

// separableBlock reports whether every generator's support lies either
// entirely inside [start,start+length) or entirely outside it - the
// sufficient condition this engine uses to accept a Decompose request.
func (t *Tableau) separableBlock(start, length int) bool {
	rows := 2 * t.n
	for r := 0; r < rows; r++ {
		insideAny, outsideAny := false, false
		for q := 0; q < t.n; q++ {
			if !t.x[r][q] && !t.z[r][q] {
				continue
			}
			if q >= start && q < start+length {
				insideAny = true
			} else {
				outsideAny = true
			}
		}
		if insideAny && outsideAny {
			return false
		}
	}
	return true
}

// Decompose factors the separable block [start,start+length) out into
// dest. Per Open Question #2's resolution, a non-separable block raises
// qerr.SeparabilityViolation.
func (t *Tableau) Decompose(start, length int, dest *Tableau) error {
	if length <= 0 || start < 0 || start+length > t.n {
		return qerr.Wrap(qerr.InvalidArgument, "stabilizer: invalid decompose range [%d,%d) over %d qubits", start, start+length, t.n)
	}
	if !t.separableBlock(start, length) {
		return qerr.Wrap(qerr.SeparabilityViolation, "stabilizer: range [%d,%d) is not separable", start, start+length)
	}
	if dest.n != length {
		return qerr.Wrap(qerr.InvalidArgument, "stabilizer: decompose destination has %d qubits, want %d", dest.n, length)
	}

	destRows := 2 * length
	for r := 0; r < destRows; r++ {
		for q := 0; q < length; q++ {
			dest.x[r][q] = false
			dest.z[r][q] = false
		}
		dest.sign[r] = false
	}

	// Collect the generator rows whose support lies inside the block and
	// copy their restriction to dest; remaining qubits keep their own
	// identity generators on the outer tableau.
	blockDestab := 0
	blockStab := 0
	for r := 0; r < t.n; r++ {
		if rowInBlock(t, r, start, length) {
			copyBlockRow(t, r, start, length, dest, blockDestab)
			blockDestab++
		}
	}
	for r := t.n; r < 2*t.n; r++ {
		if rowInBlock(t, r, start, length) {
			copyBlockRow(t, r, start, length, dest, length+blockStab)
			blockStab++
		}
	}

	outerN := t.n - length
	newX := make([][]bool, 2*outerN)
	newZ := make([][]bool, 2*outerN)
	newSign := make([]bool, 2*outerN)
	for r := range newX {
		newX[r] = make([]bool, outerN)
		newZ[r] = make([]bool, outerN)
	}
	outerDestab, outerStab := 0, 0
	for r := 0; r < t.n; r++ {
		if !rowInBlock(t, r, start, length) {
			copyOuterRow(t, r, start, length, newX[outerDestab], newZ[outerDestab])
			newSign[outerDestab] = t.sign[r]
			outerDestab++
		}
	}
	for r := t.n; r < 2*t.n; r++ {
		if !rowInBlock(t, r, start, length) {
			idx := outerN + outerStab
			copyOuterRow(t, r, start, length, newX[idx], newZ[idx])
			newSign[idx] = t.sign[r]
			outerStab++
		}
	}

	t.n = outerN
	t.x, t.z, t.sign = newX, newZ, newSign
	return nil
}

// Dispose is Decompose followed by discarding the extracted block.
func (t *Tableau) Dispose(start, length int) error {
	scratch, err := New(length, 0)
	if err != nil {
		return err
	}
	return t.Decompose(start, length, scratch)
}

func rowInBlock(t *Tableau, r, start, length int) bool {
	for q := 0; q < t.n; q++ {
		if !t.x[r][q] && !t.z[r][q] {
			continue
		}
		if q < start || q >= start+length {
			return false
		}
	}
	return true
}

func copyBlockRow(t *Tableau, r, start, length int, dest *Tableau, destRow int) {
	for q := 0; q < length; q++ {
		dest.x[destRow][q] = t.x[r][start+q]
		dest.z[destRow][q] = t.z[r][start+q]
	}
	dest.sign[destRow] = t.sign[r]
}

func copyOuterRow(t *Tableau, r, start, length int, outX, outZ []bool) {
	idx := 0
	for q := 0; q < t.n; q++ {
		if q >= start && q < start+length {
			continue
		}
		outX[idx] = t.x[r][q]
		outZ[idx] = t.z[r][q]
		idx++
	}
}
