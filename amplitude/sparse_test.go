package amplitude

import "testing"

func TestSparseDropsBelowThreshold(t *testing.T) {
	s := NewSparse(2, 0.1)
	s.Write(0, complex(0.05, 0))
	if s.Read(0) != 0 {
		t.Errorf("entry below threshold should read back zero, got %v", s.Read(0))
	}
	s.Write(1, complex(1, 0))
	if s.Read(1) != 1 {
		t.Errorf("entry above threshold should be kept, got %v", s.Read(1))
	}
}

func TestSparseWriteThenBelowThresholdDeletes(t *testing.T) {
	s := NewSparse(1, 0.1)
	s.Write(0, complex(1, 0))
	s.Write(0, complex(0.01, 0))
	indices := s.NonzeroIndices()
	for _, i := range indices {
		if i == 0 {
			t.Fatalf("index 0 should have been dropped once written below threshold")
		}
	}
}

func TestSparseNormAndCopy(t *testing.T) {
	s := NewSparse(1, 0)
	s.Write(0, complex(0.6, 0))
	s.Write(1, complex(0.8, 0))
	if got, want := s.Norm(), 1.0; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("Norm() = %g, want %g", got, want)
	}

	dense := NewDense(1)
	s.CopyOut(dense, 0)
	if dense.Read(0) != complex(0.6, 0) || dense.Read(1) != complex(0.8, 0) {
		t.Errorf("CopyOut to dense = %v,%v, want 0.6,0.8", dense.Read(0), dense.Read(1))
	}
}

func TestSparseShuffle(t *testing.T) {
	a := NewSparse(2, 0) // dim 4
	a.Write(2, 1)
	a.Write(3, 2)
	b := NewSparse(1, 0) // dim 2
	b.Write(0, 3)
	b.Write(1, 4)

	a.Shuffle(b)

	if a.Read(2) != 3 || a.Read(3) != 4 {
		t.Errorf("a upper half after Shuffle = %v,%v, want 3,4", a.Read(2), a.Read(3))
	}
	if b.Read(0) != 1 || b.Read(1) != 2 {
		t.Errorf("b after Shuffle = %v,%v, want 1,2", b.Read(0), b.Read(1))
	}
}
