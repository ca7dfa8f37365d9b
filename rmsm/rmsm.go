// Package rmsm implements the row-major sparse matrix (RMSM): every row of
// a multi-degree Macaulay matrix, restricted to a selected subset of its
// columns. Unlike cmsm, rmsm never subsets rows: package solve multiplies the
// same block-vector through it and through a row-sampled cmsm, and checks
// the two products agree on the sampled rows.
package rmsm

import (
	"fmt"

	"minrank/field"
	"minrank/gfa"
	"minrank/internal/threadpool"
	"minrank/matrix"
	"minrank/mdmac"
)

// RMSM is a row-major sparse matrix: RNum rows (every row of the originating
// MDMac), CNum selected columns, each row an ascending-by-mapped-column-index
// list of non-zero entries.
type RMSM struct {
	RNum, CNum uint64
	NzNum      uint64
	MaxTnum    uint64
	Rows       []gfa.GFA
	arena      *gfa.Arena
}

// FromMDMac builds an RMSM holding every row of mac, restricted to the
// columns named by colIdxs (ascending, a subset of [0, mac.NCol)).
func FromMDMac(mac *mdmac.MDMac, colIdxs []uint64) (*RMSM, error) {
	if len(colIdxs) == 0 {
		return nil, fmt.Errorf("rmsm: at least one column must be selected")
	}
	for i := 1; i < len(colIdxs); i++ {
		if colIdxs[i] <= colIdxs[i-1] {
			return nil, fmt.Errorf("rmsm: colIdxs must be strictly ascending")
		}
	}

	rmap := make(map[uint64]int, len(colIdxs))
	for pos, idx := range colIdxs {
		rmap[idx] = pos
	}

	sizes := make([]int, mac.NRow)
	for ri := uint64(0); ri < mac.NRow; ri++ {
		row := mac.Rows[ri]
		var n int
		for ci := 0; ci < row.Size(); ci++ {
			idx, _ := row.At(ci)
			if _, ok := rmap[uint64(idx)]; ok {
				n++
			}
		}
		sizes[ri] = n
	}

	arena, rows := gfa.NewColumns(sizes)
	m := &RMSM{RNum: mac.NRow, CNum: uint64(len(colIdxs)), Rows: rows, arena: arena}

	var nznum, maxTnum uint64
	for ri := uint64(0); ri < mac.NRow; ri++ {
		src := mac.Rows[ri]
		dst := m.Rows[ri]
		for ci := 0; ci < src.Size(); ci++ {
			idx, v := src.At(ci)
			pos, ok := rmap[uint64(idx)]
			if !ok {
				continue
			}
			dst.Append(uint32(pos), v)
		}
		m.Rows[ri] = dst
		sz := uint64(dst.Size())
		nznum += sz
		if sz > maxTnum {
			maxTnum = sz
		}
	}
	m.NzNum = nznum
	m.MaxTnum = maxTnum
	return m, nil
}

// FromGFM builds an RMSM holding every row and column of a dense matrix.
func FromGFM(a *matrix.GFM) *RMSM {
	sizes := make([]int, a.NRow)
	for ri := uint64(0); ri < a.NRow; ri++ {
		row := a.RowAddr(ri)
		var n int
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
		sizes[ri] = n
	}
	arena, rows := gfa.NewColumns(sizes)
	m := &RMSM{RNum: a.NRow, CNum: a.NCol, Rows: rows, arena: arena}
	var nznum, maxTnum uint64
	for ri := uint64(0); ri < a.NRow; ri++ {
		row := a.RowAddr(ri)
		dst := m.Rows[ri]
		for ci, v := range row {
			if v != 0 {
				dst.Append(uint32(ci), v)
			}
		}
		m.Rows[ri] = dst
		sz := uint64(dst.Size())
		nznum += sz
		if sz > maxTnum {
			maxTnum = sz
		}
	}
	m.NzNum = nznum
	m.MaxTnum = maxTnum
	return m
}

// At returns the (ri,ci) entry, 0 if not stored.
func (m *RMSM) At(ri, ci uint64) byte {
	row := m.Rows[ri]
	for i := 0; i < row.Size(); i++ {
		idx, v := row.At(i)
		if uint64(idx) == ci {
			return v
		}
		if uint64(idx) > ci {
			break
		}
	}
	return 0
}

// MulRMGF16 computes res = m * v over GF(16).
func (m *RMSM) MulRMGF16(f field.Field, res, v *matrix.RMGF16) error {
	if res.NRow != m.RNum || v.NRow != m.CNum {
		return fmt.Errorf("rmsm: MulRMGF16 dimension mismatch")
	}
	res.Zero()
	for ri := uint64(0); ri < m.RNum; ri++ {
		row := m.Rows[ri]
		dst := res.RAddr(ri)
		for j := 0; j < row.Size(); j++ {
			ci, c := row.At(j)
			matrix.FMaddiScalar(f, dst, v.RAddr(uint64(ci)), c)
		}
	}
	return nil
}

// MulRMGF16Parallel computes res = m * v over GF(16) by partitioning rows
// (independent destinations) across nWorkers goroutines; no reduction is
// needed since each worker owns disjoint destination rows.
func (m *RMSM) MulRMGF16Parallel(f field.Field, res, v *matrix.RMGF16, nWorkers int) error {
	if res.NRow != m.RNum || v.NRow != m.CNum {
		return fmt.Errorf("rmsm: MulRMGF16Parallel dimension mismatch")
	}
	res.Zero()
	nWorkers = threadpool.NumWorkers(nWorkers)
	strips := threadpool.Strips(int(m.RNum), nWorkers)

	jobs := make([]func(), len(strips))
	for si, strip := range strips {
		strip := strip
		jobs[si] = func() {
			for ri := uint64(strip[0]); ri < uint64(strip[1]); ri++ {
				row := m.Rows[ri]
				dst := res.RAddr(ri)
				for j := 0; j < row.Size(); j++ {
					ci, c := row.At(j)
					matrix.FMaddiScalar(f, dst, v.RAddr(uint64(ci)), c)
				}
			}
		}
	}
	threadpool.Run(nWorkers, jobs)
	return nil
}

// MulGFM computes res = m * v over an arbitrary field.
func (m *RMSM) MulGFM(f field.Field, res, v *matrix.GFM) error {
	if res.NRow != m.RNum || v.NRow != m.CNum || res.NCol != v.NCol {
		return fmt.Errorf("rmsm: MulGFM dimension mismatch")
	}
	res.Zero()
	for ri := uint64(0); ri < m.RNum; ri++ {
		row := m.Rows[ri]
		dst := res.RowAddr(ri)
		for j := 0; j < row.Size(); j++ {
			ci, c := row.At(j)
			f.ArrFMaddScalar(dst, v.RowAddr(uint64(ci)), c)
		}
	}
	return nil
}
