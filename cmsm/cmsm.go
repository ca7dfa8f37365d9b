// Package cmsm implements the column-major sparse matrix (CMSM): a subset of
// rows and columns of a multi-degree Macaulay matrix, materialized once for
// repeated matrix-vector products during the Lanczos iteration.
package cmsm

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"minrank/field"
	"minrank/gfa"
	"minrank/internal/threadpool"
	"minrank/matrix"
	"minrank/mdmac"
)

// CMSM is a column-major sparse matrix: RNum rows, CNum columns, each column
// an ascending-by-row-index list of non-zero entries.
type CMSM struct {
	RNum, CNum       uint64
	NzNum            uint64
	MaxTnum, AvgTnum uint64
	Cols             []gfa.GFA
	arena            *gfa.Arena

	// SampledRows holds, for each local row i in [0,RNum), the original
	// MDMac row index it was sampled from. Callers that need to relate a
	// CMSM to a dense or row-major view over the same MDMac (e.g. gathering
	// the matching rows of a full-height product) index through this.
	SampledRows []uint64
}

// FromMDMac builds a CMSM from the rows sampled (via mac.IterRandomRows) and
// the columns named by colIdxs (ascending, a subset of [0, mac.NCol)). Unlike
// the reference, which sizes and fills columns via two independent calls
// that must replay the same PRNG sequence to agree, this samples the row set
// once and reuses it for both passes.
func FromMDMac(mac *mdmac.MDMac, nrow uint64, rnd *rand.Rand, colIdxs []uint64) (*CMSM, error) {
	if nrow > mac.NRow {
		return nil, fmt.Errorf("cmsm: nrow %d exceeds MDMac row count %d", nrow, mac.NRow)
	}
	if len(colIdxs) == 0 {
		return nil, fmt.Errorf("cmsm: at least one column must be selected")
	}

	sampled := make([]uint64, 0, nrow)
	if err := mac.IterRandomRows(nrow, rnd, func(_, ridx uint64) {
		sampled = append(sampled, ridx)
	}); err != nil {
		return nil, err
	}

	rmap := make(map[uint64]int, len(colIdxs))
	for pos, idx := range colIdxs {
		rmap[idx] = pos
	}

	sizes := make([]int, len(colIdxs))
	for _, ridx := range sampled {
		row := mac.Rows[ridx]
		for ci := 0; ci < row.Size(); ci++ {
			idx, _ := row.At(ci)
			if pos, ok := rmap[uint64(idx)]; ok {
				sizes[pos]++
			}
		}
	}

	arena, cols := gfa.NewColumns(sizes)
	m := &CMSM{RNum: nrow, CNum: uint64(len(colIdxs)), Cols: cols, arena: arena, SampledRows: sampled}

	for i, ridx := range sampled {
		row := mac.Rows[ridx]
		for ci := 0; ci < row.Size(); ci++ {
			idx, v := row.At(ci)
			pos, ok := rmap[uint64(idx)]
			if !ok {
				continue
			}
			col := m.Cols[pos]
			col.Append(uint32(i), v)
			m.Cols[pos] = col
		}
	}

	var nznum, maxTnum uint64
	for _, c := range m.Cols {
		sz := uint64(c.Size())
		nznum += sz
		if sz > maxTnum {
			maxTnum = sz
		}
	}
	m.NzNum = nznum
	m.MaxTnum = maxTnum
	if len(m.Cols) > 0 {
		m.AvgTnum = nznum / uint64(len(m.Cols))
	}
	return m, nil
}

// FromGFM builds a CMSM holding every row and column of a dense matrix.
func FromGFM(a *matrix.GFM) *CMSM {
	sizes := make([]int, a.NCol)
	for ri := uint64(0); ri < a.NRow; ri++ {
		row := a.RowAddr(ri)
		for ci, v := range row {
			if v != 0 {
				sizes[ci]++
			}
		}
	}
	arena, cols := gfa.NewColumns(sizes)
	m := &CMSM{RNum: a.NRow, CNum: a.NCol, Cols: cols, arena: arena}
	for ri := uint64(0); ri < a.NRow; ri++ {
		row := a.RowAddr(ri)
		for ci, v := range row {
			if v != 0 {
				col := m.Cols[ci]
				col.Append(uint32(ri), v)
				m.Cols[ci] = col
			}
		}
	}
	var nznum, maxTnum uint64
	for _, c := range m.Cols {
		sz := uint64(c.Size())
		nznum += sz
		if sz > maxTnum {
			maxTnum = sz
		}
	}
	m.NzNum = nznum
	m.MaxTnum = maxTnum
	if len(m.Cols) > 0 {
		m.AvgTnum = nznum / uint64(len(m.Cols))
	}
	return m
}

// GatherRows builds a dense RNum x 64 matrix by copying, for each local row i
// of m, the row of src at m.SampledRows[i]. src must span the full MDMac row
// range m was sampled from. This lets a row-major view built over every
// MDMac row (e.g. an rmsm.RMSM product) be related back to a CMSM's
// row-sampled local index space.
func (m *CMSM) GatherRows(src *matrix.RMGF16) (*matrix.RMGF16, error) {
	if uint64(len(m.SampledRows)) != m.RNum {
		return nil, fmt.Errorf("cmsm: GatherRows: no sample recorded (CMSM not built via FromMDMac)")
	}
	out := matrix.NewRMGF16(m.RNum)
	for i, ridx := range m.SampledRows {
		if ridx >= src.NRow {
			return nil, fmt.Errorf("cmsm: GatherRows: sampled row %d out of range for src with %d rows", ridx, src.NRow)
		}
		copy(out.RAddr(uint64(i)), src.RAddr(ridx))
	}
	return out, nil
}

// At returns the (ri,ci) entry, 0 if not stored.
func (m *CMSM) At(ri, ci uint64) byte {
	col := m.Cols[ci]
	for i := 0; i < col.Size(); i++ {
		idx, v := col.At(i)
		if uint64(idx) == ri {
			return v
		}
		if uint64(idx) > ri {
			break
		}
	}
	return 0
}

// MulGFM computes res = m * v (res: RNum x width, v: CNum x width) over an
// arbitrary field.
func (m *CMSM) MulGFM(f field.Field, res, v *matrix.GFM) error {
	if res.NRow != m.RNum || v.NRow != m.CNum || res.NCol != v.NCol {
		return fmt.Errorf("cmsm: MulGFM dimension mismatch")
	}
	res.Zero()
	for ci := uint64(0); ci < m.CNum; ci++ {
		col := m.Cols[ci]
		vRow := v.RowAddr(ci)
		for j := 0; j < col.Size(); j++ {
			ridx, c := col.At(j)
			f.ArrFMaddScalar(res.RowAddr(uint64(ridx)), vRow, c)
		}
	}
	return nil
}

// TrMulGFM computes res = m^T * v (res: CNum x width, v: RNum x width).
func (m *CMSM) TrMulGFM(f field.Field, res, v *matrix.GFM) error {
	if res.NRow != m.CNum || v.NRow != m.RNum || res.NCol != v.NCol {
		return fmt.Errorf("cmsm: TrMulGFM dimension mismatch")
	}
	res.Zero()
	for ci := uint64(0); ci < m.CNum; ci++ {
		col := m.Cols[ci]
		dst := res.RowAddr(ci)
		for j := 0; j < col.Size(); j++ {
			ridx, c := col.At(j)
			f.ArrFMaddScalar(dst, v.RowAddr(uint64(ridx)), c)
		}
	}
	return nil
}

// MulRMGF16 computes res = m * v over GF(16), res/v stored as the 64-wide
// block-vector rows the Lanczos kernel operates on.
func (m *CMSM) MulRMGF16(f field.Field, res, v *matrix.RMGF16) error {
	if res.NRow != m.RNum || v.NRow != m.CNum {
		return fmt.Errorf("cmsm: MulRMGF16 dimension mismatch")
	}
	res.Zero()
	for ci := uint64(0); ci < m.CNum; ci++ {
		col := m.Cols[ci]
		vRow := v.RAddr(ci)
		for j := 0; j < col.Size(); j++ {
			ridx, c := col.At(j)
			matrix.FMaddiScalar(f, res.RAddr(uint64(ridx)), vRow, c)
		}
	}
	return nil
}

// TrMulRMGF16 computes res = m^T * v over GF(16).
func (m *CMSM) TrMulRMGF16(f field.Field, res, v *matrix.RMGF16) error {
	if res.NRow != m.CNum || v.NRow != m.RNum {
		return fmt.Errorf("cmsm: TrMulRMGF16 dimension mismatch")
	}
	res.Zero()
	for ci := uint64(0); ci < m.CNum; ci++ {
		col := m.Cols[ci]
		dst := res.RAddr(ci)
		for j := 0; j < col.Size(); j++ {
			ridx, c := col.At(j)
			matrix.FMaddiScalar(f, dst, v.RAddr(uint64(ridx)), c)
		}
	}
	return nil
}

// MulRMGF16Parallel computes res = m * v over GF(16) by partitioning columns
// across nWorkers goroutines, each accumulating into its own partial result
// merged under a mutex, mirroring the reference's strip-partitioned worker
// and mutex-guarded reduction.
func (m *CMSM) MulRMGF16Parallel(f field.Field, res, v *matrix.RMGF16, nWorkers int) error {
	if res.NRow != m.RNum || v.NRow != m.CNum {
		return fmt.Errorf("cmsm: MulRMGF16Parallel dimension mismatch")
	}
	res.Zero()
	nWorkers = threadpool.NumWorkers(nWorkers)
	strips := threadpool.Strips(int(m.CNum), nWorkers)

	var mu sync.Mutex
	jobs := make([]func(), len(strips))
	for si, strip := range strips {
		strip := strip
		jobs[si] = func() {
			partial := matrix.NewRMGF16(res.NRow)
			for ci := uint64(strip[0]); ci < uint64(strip[1]); ci++ {
				col := m.Cols[ci]
				vRow := v.RAddr(ci)
				for j := 0; j < col.Size(); j++ {
					ridx, c := col.At(j)
					matrix.FMaddiScalar(f, partial.RAddr(uint64(ridx)), vRow, c)
				}
			}
			mu.Lock()
			matrix.Addi(f, res, partial)
			mu.Unlock()
		}
	}
	threadpool.Run(nWorkers, jobs)
	return nil
}

// TrMulRMGF16Parallel computes res = m^T * v over GF(16) by partitioning the
// (independent) destination rows across nWorkers goroutines; no reduction is
// needed since each worker owns disjoint destination rows.
func (m *CMSM) TrMulRMGF16Parallel(f field.Field, res, v *matrix.RMGF16, nWorkers int) error {
	if res.NRow != m.CNum || v.NRow != m.RNum {
		return fmt.Errorf("cmsm: TrMulRMGF16Parallel dimension mismatch")
	}
	res.Zero()
	nWorkers = threadpool.NumWorkers(nWorkers)
	strips := threadpool.Strips(int(m.CNum), nWorkers)

	jobs := make([]func(), len(strips))
	for si, strip := range strips {
		strip := strip
		jobs[si] = func() {
			for ci := uint64(strip[0]); ci < uint64(strip[1]); ci++ {
				col := m.Cols[ci]
				dst := res.RAddr(ci)
				for j := 0; j < col.Size(); j++ {
					ridx, c := col.At(j)
					matrix.FMaddiScalar(f, dst, v.RAddr(uint64(ridx)), c)
				}
			}
		}
	}
	threadpool.Run(nWorkers, jobs)
	return nil
}
