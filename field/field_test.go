package field

import (
	"math/rand/v2"
	"testing"
)

func TestGF16AddSelfInverse(t *testing.T) {
	f := GF16{}
	for a := byte(0); a < 16; a++ {
		if f.Add(a, a) != 0 {
			t.Fatalf("a+a != 0 for a=%d", a)
		}
	}
}

func TestGF16MulIdentityAndZero(t *testing.T) {
	f := GF16{}
	for a := byte(0); a < 16; a++ {
		if f.Mul(a, 0) != 0 {
			t.Fatalf("mul(%d,0) != 0", a)
		}
		if f.Mul(a, 1) != a {
			t.Fatalf("mul(%d,1) != %d", a, a)
		}
	}
}

func TestGF16InvRoundTrip(t *testing.T) {
	f := GF16{}
	for a := byte(1); a < 16; a++ {
		inv := f.Inv(a)
		if f.Mul(a, inv) != 1 {
			t.Fatalf("a=%d * inv(a)=%d != 1", a, inv)
		}
	}
}

func TestGF31InvTable(t *testing.T) {
	f := GF31{}
	for a := byte(1); a < 31; a++ {
		inv := f.Inv(a)
		if f.Mul(a, inv) != 1 {
			t.Fatalf("a=%d * inv(a)=%d != 1 mod 31", a, inv)
		}
	}
}

func TestGF31AddModular(t *testing.T) {
	f := GF31{}
	if f.Add(30, 1) != 0 {
		t.Fatalf("30+1 mod 31 should wrap to 0")
	}
}

func TestArrFMaddScalarEarlyReturnOnZeroCoeff(t *testing.T) {
	f := GF31{}
	dst := []byte{1, 2, 3}
	src := []byte{9, 9, 9}
	f.ArrFMaddScalar(dst, src, 0)
	if dst[0] != 1 || dst[1] != 2 || dst[2] != 3 {
		t.Fatalf("fmadd with c=0 mutated dst: %v", dst)
	}
}

func TestArrFMaddScalarMask64(t *testing.T) {
	f := GF16{}
	dst := make([]byte, 64)
	src := make([]byte, 64)
	for i := range src {
		src[i] = 1
	}
	f.ArrFMaddScalarMask64(dst, src, 1, 0b101)
	if dst[0] != 1 || dst[1] != 0 || dst[2] != 1 {
		t.Fatalf("masked fmadd applied to wrong lanes: %v", dst[:3])
	}
}

func TestArrNZCZC(t *testing.T) {
	f := GF31{}
	a := []byte{0, 1, 0, 2, 3}
	if got := f.ArrNZC(a); got != 3 {
		t.Fatalf("ArrNZC = %d, want 3", got)
	}
	if got := f.ArrZC(a); got != 2 {
		t.Fatalf("ArrZC = %d, want 2", got)
	}
}

func TestArrMaskFrom64B(t *testing.T) {
	f := GF31{}
	a := make([]byte, 64)
	a[0] = 1
	a[63] = 5
	mask := f.ArrMaskFrom64B(a)
	want := uint64(1) | (uint64(1) << 63)
	if mask != want {
		t.Fatalf("mask = %064b, want %064b", mask, want)
	}
}

func TestByIDUnsupported(t *testing.T) {
	if _, err := ByID(7); err == nil {
		t.Fatalf("expected error for unsupported field size")
	}
}

func TestRandReduced(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	f16 := GF16{}
	f31 := GF31{}
	for i := 0; i < 100; i++ {
		if v := f16.Rand(r); v >= 16 {
			t.Fatalf("GF16 rand out of range: %d", v)
		}
		if v := f31.Rand(r); v >= 31 {
			t.Fatalf("GF31 rand out of range: %d", v)
		}
	}
}
