package field

import "math/rand/v2"

// GF16 implements arithmetic in GF(2)[x]/(x^4+x+1), the degree-4 extension
// of GF(2) fixed by this solver. GF(16) is small and fixed, so
// multiplication and inversion are driven by precomputed log/antilog tables:
// both run in O(1) with a constant number of table lookups.
type GF16 struct{}

// gf16Poly is the fixed irreducible polynomial x^4+x+1 (0b10011), the
// standard choice for GF(16) power-basis arithmetic.
const gf16Poly = 0x13

var (
	gf16Exp [30]byte // antilog: gf16Exp[i] = generator^i, i in [0,30) (period 15, doubled for wraparound-free lookup)
	gf16Log [16]byte // log[a] = i such that generator^i == a, log[0] unused
)

func init() {
	// generator = 2 (x) is primitive for this polynomial.
	x := byte(1)
	for i := 0; i < 15; i++ {
		gf16Exp[i] = x
		gf16Exp[i+15] = x
		hi := x&0x8 != 0
		x <<= 1
		if hi {
			x ^= gf16Poly
		}
		x &= 0xF
	}
	for i := 0; i < 15; i++ {
		gf16Log[gf16Exp[i]] = byte(i)
	}
}

func (GF16) Q() uint64 { return 16 }

func (GF16) Add(a, b byte) byte { return a ^ b }

func (GF16) Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gf16Exp[int(gf16Log[a])+int(gf16Log[b])]
}

func (GF16) Inv(a byte) byte {
	if a == 0 {
		panic("field: GF16 inverse of zero")
	}
	if a == 1 {
		return 1
	}
	return gf16Exp[15-int(gf16Log[a])]
}

func (f GF16) Rand(r *rand.Rand) byte {
	return byte(r.IntN(16))
}

func (f GF16) ArrRand(dst []byte, r *rand.Rand) {
	for i := range dst {
		dst[i] = f.Rand(r)
	}
}

func (f GF16) ArrMulScalar(dst, src []byte, c byte) {
	if c == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	for i, v := range src {
		dst[i] = f.Mul(v, c)
	}
}

func (f GF16) ArrFMaddScalar(dst, src []byte, c byte) {
	if c == 0 {
		return
	}
	for i, v := range src {
		dst[i] ^= f.Mul(v, c)
	}
}

// ArrFMsubScalar is identical to ArrFMaddScalar in characteristic 2: a-b == a+b.
func (f GF16) ArrFMsubScalar(dst, src []byte, c byte) { f.ArrFMaddScalar(dst, src, c) }

func (f GF16) ArrFMaddScalarMask64(dst, src []byte, c byte, mask uint64) {
	if c == 0 {
		return
	}
	for i := 0; i < 64; i++ {
		if mask&(1<<uint(i)) != 0 {
			dst[i] ^= f.Mul(src[i], c)
		}
	}
}

func (f GF16) ArrFMsubScalarMask64(dst, src []byte, c byte, mask uint64) {
	f.ArrFMaddScalarMask64(dst, src, c, mask)
}

func (GF16) ArrNZC(a []byte) int {
	n := 0
	for _, v := range a {
		if v != 0 {
			n++
		}
	}
	return n
}

func (GF16) ArrZC(a []byte) int {
	n := 0
	for _, v := range a {
		if v == 0 {
			n++
		}
	}
	return n
}

func (GF16) ArrMaskFrom64B(a []byte) uint64 {
	var mask uint64
	for i := 0; i < 64; i++ {
		if a[i] != 0 {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

func (GF16) ArrReduc64(a []byte) {
	for i := 0; i < 64; i++ {
		a[i] &= 0xF
	}
}
