// Package matrix implements the dense matrix types the solver needs: GFM, a
// generic row-major dense matrix of field scalars, and RMGF16, the 64-wide
// "block vector" matrix used by the sparse matmul inner loops.
package matrix

import (
	"math/rand/v2"

	"minrank/field"
)

// GFM is a row-major dense nrow x ncol matrix of field scalars.
type GFM struct {
	NRow, NCol uint64
	Data       []byte
}

// NewGFM allocates a zeroed nrow x ncol matrix.
func NewGFM(nrow, ncol uint64) *GFM {
	return &GFM{NRow: nrow, NCol: ncol, Data: make([]byte, nrow*ncol)}
}

// NewGFMFromVals allocates a matrix and copies vals (row-major, length
// nrow*ncol) into it.
func NewGFMFromVals(nrow, ncol uint64, vals []byte) *GFM {
	m := NewGFM(nrow, ncol)
	copy(m.Data, vals)
	return m
}

// RowAddr returns the ri-th row as a slice aliasing the matrix's storage.
func (m *GFM) RowAddr(ri uint64) []byte {
	return m.Data[ri*m.NCol : (ri+1)*m.NCol]
}

// At returns the (ri,ci) entry.
func (m *GFM) At(ri, ci uint64) byte {
	return m.Data[ri*m.NCol+ci]
}

// SetAt sets the (ri,ci) entry.
func (m *GFM) SetAt(ri, ci uint64, v byte) {
	m.Data[ri*m.NCol+ci] = v
}

// Zero sets every entry to zero.
func (m *GFM) Zero() {
	for i := range m.Data {
		m.Data[i] = 0
	}
}

// RowCopyFrom copies row (of length NCol) into row ri.
func (m *GFM) RowCopyFrom(ri uint64, row []byte) {
	copy(m.RowAddr(ri), row)
}

// RowsCopyFrom copies n consecutive rows (n*NCol scalars, row-major) into
// rows [ri, ri+n).
func (m *GFM) RowsCopyFrom(ri uint64, n uint64, rows []byte) {
	copy(m.Data[ri*m.NCol:(ri+n)*m.NCol], rows)
}

// SetFromArr overwrites the whole matrix from a row-major scalar array.
func (m *GFM) SetFromArr(vals []byte) {
	copy(m.Data, vals)
}

// Rand fills the matrix with uniformly random field scalars.
func (m *GFM) Rand(f field.Field, r *rand.Rand) {
	f.ArrRand(m.Data, r)
}

// RandMatrices allocates num independent random nrow x ncol matrices.
func RandMatrices(f field.Field, r *rand.Rand, nrow, ncol, num uint64) []*GFM {
	out := make([]*GFM, num)
	for i := range out {
		out[i] = NewGFM(nrow, ncol)
		out[i].Rand(f, r)
	}
	return out
}

// CountZero returns the number of zero entries.
func (m *GFM) CountZero() uint64 {
	var n uint64
	for _, v := range m.Data {
		if v == 0 {
			n++
		}
	}
	return n
}

// CountNonZero returns the number of non-zero entries.
func (m *GFM) CountNonZero() uint64 {
	return uint64(len(m.Data)) - m.CountZero()
}

// FindMaxTnumPerEq returns the maximum, over every row, of the count of
// non-zero entries in that row.
func FindMaxTnumPerEq(m *GFM) uint64 {
	var max uint64
	for ri := uint64(0); ri < m.NRow; ri++ {
		row := m.RowAddr(ri)
		var n uint64
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
		if n > max {
			max = n
		}
	}
	return max
}
