package field

import "math/rand/v2"

// GF31 implements direct modular arithmetic mod 31, the secondary field this
// solver supports. The multiplicative inverse table is the precomputed
// table from the reference implementation's gf31_t_inv_table.
type GF31 struct{}

const gf31Mod = 31

// gf31Inv[a] is the multiplicative inverse of a mod 31; gf31Inv[0] is unused.
var gf31Inv = [31]byte{
	0, 1, 16, 21, 8, 25, 26, 9, 4, 7, 28, 17, 13, 12, 20,
	29, 2, 11, 19, 18, 14, 3, 24, 27, 22, 5, 6, 23, 10, 15, 30,
}

func (GF31) Q() uint64 { return 31 }

func (GF31) Add(a, b byte) byte {
	s := uint16(a) + uint16(b)
	if s >= gf31Mod {
		s -= gf31Mod
	}
	return byte(s)
}

func (GF31) Mul(a, b byte) byte {
	return byte((uint16(a) * uint16(b)) % gf31Mod)
}

func (GF31) Inv(a byte) byte {
	if a == 0 {
		panic("field: GF31 inverse of zero")
	}
	return gf31Inv[a]
}

func (f GF31) sub(a, b byte) byte {
	if a >= b {
		return a - b
	}
	return a + gf31Mod - b
}

func (f GF31) Rand(r *rand.Rand) byte {
	return byte(r.IntN(gf31Mod))
}

func (f GF31) ArrRand(dst []byte, r *rand.Rand) {
	for i := range dst {
		dst[i] = f.Rand(r)
	}
}

func (f GF31) ArrMulScalar(dst, src []byte, c byte) {
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

// ArrFMaddScalar sets dst[i] += src[i]*c for every i, an early-return no-op
// when c==0, matching gf31_t_arr_fmaddi_scalar.
func (f GF31) ArrFMaddScalar(dst, src []byte, c byte) {
	if c == 0 {
		return
	}
	for i, v := range src {
		dst[i] = f.Add(dst[i], f.Mul(v, c))
	}
}

func (f GF31) ArrFMsubScalar(dst, src []byte, c byte) {
	if c == 0 {
		return
	}
	for i, v := range src {
		dst[i] = f.sub(dst[i], f.Mul(v, c))
	}
}

func (f GF31) ArrFMaddScalarMask64(dst, src []byte, c byte, mask uint64) {
	if c == 0 {
		return
	}
	for i := 0; i < 64; i++ {
		if mask&(1<<uint(i)) != 0 {
			dst[i] = f.Add(dst[i], f.Mul(src[i], c))
		}
	}
}

func (f GF31) ArrFMsubScalarMask64(dst, src []byte, c byte, mask uint64) {
	if c == 0 {
		return
	}
	for i := 0; i < 64; i++ {
		if mask&(1<<uint(i)) != 0 {
			dst[i] = f.sub(dst[i], f.Mul(src[i], c))
		}
	}
}

func (GF31) ArrNZC(a []byte) int {
	n := 0
	for _, v := range a {
		if v != 0 {
			n++
		}
	}
	return n
}

func (GF31) ArrZC(a []byte) int {
	n := 0
	for _, v := range a {
		if v == 0 {
			n++
		}
	}
	return n
}

func (GF31) ArrMaskFrom64B(a []byte) uint64 {
	var mask uint64
	for i := 0; i < 64; i++ {
		if a[i] != 0 {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

func (GF31) ArrReduc64(a []byte) {
	for i := 0; i < 64; i++ {
		a[i] %= gf31Mod
	}
}
