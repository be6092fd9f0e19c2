package amplitude

import (
	"math"
	"testing"
)

func TestDenseReadWrite(t *testing.T) {
	d := NewDense(2)
	d.Write(0, complex(1, 0))
	d.Write(3, complex(0, 1))
	if d.Read(0) != complex(1, 0) {
		t.Errorf("Read(0) = %v, want 1", d.Read(0))
	}
	if d.Read(3) != complex(0, 1) {
		t.Errorf("Read(3) = %v, want i", d.Read(3))
	}
	if d.Read(1) != 0 {
		t.Errorf("Read(1) = %v, want 0", d.Read(1))
	}
}

func TestDenseWrite2Atomic(t *testing.T) {
	d := NewDense(1)
	d.Write2(0, complex(0.6, 0), 1, complex(0.8, 0))
	if d.Read(0) != complex(0.6, 0) || d.Read(1) != complex(0.8, 0) {
		t.Errorf("Write2 did not set both indices: got %v, %v", d.Read(0), d.Read(1))
	}
}

func TestDenseNormAndRescale(t *testing.T) {
	d := NewDense(1)
	d.Write(0, complex(3, 0))
	d.Write(1, complex(4, 0))
	if got, want := d.Norm(), 25.0; got != want {
		t.Fatalf("Norm() = %g, want %g", got, want)
	}
	d.Rescale(25, 1e-12)
	if got := d.Norm(); math.Abs(got-1) > 1e-9 {
		t.Errorf("Norm() after Rescale = %g, want ~1", got)
	}
}

func TestDenseShuffleSwapsHalves(t *testing.T) {
	a := NewDense(2) // dim 4, halves [0,1] and [2,3]
	a.Write(0, 10)
	a.Write(1, 11)
	a.Write(2, 12)
	a.Write(3, 13)
	b := NewDense(1) // dim 2
	b.Write(0, 20)
	b.Write(1, 21)

	a.Shuffle(b)

	if a.Read(2) != 20 || a.Read(3) != 21 {
		t.Errorf("a's upper half after Shuffle = %v,%v, want 20,21", a.Read(2), a.Read(3))
	}
	if b.Read(0) != 12 || b.Read(1) != 13 {
		t.Errorf("b after Shuffle = %v,%v, want 12,13", b.Read(0), b.Read(1))
	}
}

func TestDenseCopyInOut(t *testing.T) {
	src := NewDense(1)
	src.Write(0, 1)
	src.Write(1, 2)
	dst := NewDense(2)
	dst.CopyIn(src, 1)
	if dst.Read(1) != 1 || dst.Read(2) != 2 {
		t.Errorf("CopyIn at offset 1 = %v,%v, want 1,2", dst.Read(1), dst.Read(2))
	}

	dst2 := NewDense(1)
	src.CopyOut(dst2, 0)
	if dst2.Read(0) != 1 || dst2.Read(1) != 2 {
		t.Errorf("CopyOut = %v,%v, want 1,2", dst2.Read(0), dst2.Read(1))
	}
}

func TestDenseGetProbs(t *testing.T) {
	d := NewDense(1)
	d.Write(0, complex(1/math.Sqrt2, 0))
	d.Write(1, complex(1/math.Sqrt2, 0))
	probs := make([]float64, 2)
	d.GetProbs(probs)
	if math.Abs(probs[0]-0.5) > 1e-9 || math.Abs(probs[1]-0.5) > 1e-9 {
		t.Errorf("GetProbs = %v, want [0.5,0.5]", probs)
	}
}
