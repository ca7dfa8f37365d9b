package matrix

import (
	"math/rand/v2"
	"testing"

	"minrank/field"
)

func TestGFMAtSetAt(t *testing.T) {
	m := NewGFM(2, 3)
	m.SetAt(1, 2, 7)
	if m.At(1, 2) != 7 {
		t.Fatalf("At(1,2) = %d, want 7", m.At(1, 2))
	}
	if m.At(0, 0) != 0 {
		t.Fatalf("unset entry should be zero")
	}
}

func TestGFMRowAddrAliasesStorage(t *testing.T) {
	m := NewGFM(2, 3)
	row := m.RowAddr(1)
	row[0] = 9
	if m.At(1, 0) != 9 {
		t.Fatalf("RowAddr should alias matrix storage")
	}
}

func TestFindMaxTnumPerEq(t *testing.T) {
	m := NewGFMFromVals(2, 3, []byte{1, 0, 2, 0, 0, 0})
	if got := FindMaxTnumPerEq(m); got != 2 {
		t.Fatalf("FindMaxTnumPerEq = %d, want 2", got)
	}
}

func TestRandMatricesIndependent(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 1))
	ms := RandMatrices(field.GF16{}, r, 2, 2, 3)
	if len(ms) != 3 {
		t.Fatalf("expected 3 matrices, got %d", len(ms))
	}
	for _, m := range ms {
		for _, v := range m.Data {
			if v >= 16 {
				t.Fatalf("GF16 random entry out of range: %d", v)
			}
		}
	}
}

func TestRMGF16ZeroAndAddi(t *testing.T) {
	a := NewRMGF16(2)
	b := NewRMGF16(2)
	for i := range a.Data {
		a.Data[i] = 1
		b.Data[i] = 2
	}
	f := field.GF16{}
	Addi(f, a, b)
	for i := range a.Data {
		if a.Data[i] != f.Add(1, 2) {
			t.Fatalf("Addi mismatch at %d: got %d", i, a.Data[i])
		}
	}
}

func TestFMaddiScalar2x1(t *testing.T) {
	f := field.GF16{}
	dst0 := make([]byte, BlockWidth)
	dst1 := make([]byte, BlockWidth)
	src := make([]byte, BlockWidth)
	for i := range src {
		src[i] = 3
	}
	FMaddiScalar2x1(f, dst0, dst1, src, 2, 5)
	for i := range dst0 {
		if dst0[i] != f.Mul(3, 2) {
			t.Fatalf("dst0[%d] = %d, want %d", i, dst0[i], f.Mul(3, 2))
		}
		if dst1[i] != f.Mul(3, 5) {
			t.Fatalf("dst1[%d] = %d, want %d", i, dst1[i], f.Mul(3, 5))
		}
	}
}
