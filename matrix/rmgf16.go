package matrix

import "minrank/field"

// BlockWidth is the fixed "block vector" width the sparse matmul inner
// loops operate on (one 64-entry row per block, matching the 64-row GF(2)
// fingerprint system's width).
const BlockWidth = 64

// RMGF16 is a dense nrow x 64 matrix of GF(16) scalars, one row per Lanczos
// block-vector column. The reference implementation packs each row into 32
// bytes (4 bits/entry); this port keeps one byte per entry for clarity and
// because Go gives no warm byte-packing win without hand-rolled bit-twiddling
// that would only obscure the fused-multiply-add inner loops below (see
// DESIGN.md).
type RMGF16 struct {
	NRow uint64
	Data []byte // len == NRow*BlockWidth
}

// NewRMGF16 allocates a zeroed nrow x 64 GF(16) matrix.
func NewRMGF16(nrow uint64) *RMGF16 {
	return &RMGF16{NRow: nrow, Data: make([]byte, nrow*BlockWidth)}
}

// RAddr returns the ri-th row (64 entries) aliasing the matrix's storage.
func (m *RMGF16) RAddr(ri uint64) []byte {
	return m.Data[ri*BlockWidth : (ri+1)*BlockWidth]
}

// Zero sets every entry to zero.
func (m *RMGF16) Zero() {
	for i := range m.Data {
		m.Data[i] = 0
	}
}

// Addi sets dst += src element-wise over f (GF(16) add is XOR, GF(31) add is
// mod-31 sum; this must go through f rather than hardcoding XOR so callers
// merging partial sums stay correct across every supported field).
func Addi(f field.Field, dst, src *RMGF16) {
	for i := range dst.Data {
		dst.Data[i] = f.Add(dst.Data[i], src.Data[i])
	}
}

// FMaddiScalar sets dstRow += c*srcRow over the 64 entries of one row.
func FMaddiScalar(f field.Field, dstRow, srcRow []byte, c byte) {
	f.ArrFMaddScalar(dstRow, srcRow, c)
}

// FMaddiScalar2x1 applies FMaddiScalar to two destination rows from one
// shared source row with independent coefficients. The CMSM and RMSM
// multiplication loops in this module call FMaddiScalar, not this fused form.
func FMaddiScalar2x1(f field.Field, dst0, dst1, src []byte, c0, c1 byte) {
	f.ArrFMaddScalar(dst0, src, c0)
	f.ArrFMaddScalar(dst1, src, c1)
}

// FMaddiScalar1x2 applies FMaddiScalar to one destination row from two
// source rows with independent coefficients.
func FMaddiScalar1x2(f field.Field, dst, src0, src1 []byte, c0, c1 byte) {
	f.ArrFMaddScalar(dst, src0, c0)
	f.ArrFMaddScalar(dst, src1, c1)
}
