// Package minrank represents MinRank problem instances and builds the dense
// base Kipnis-Shamir matrix they induce.
package minrank

import (
	"fmt"
	"math/rand/v2"

	"minrank/field"
	"minrank/ksindex"
	"minrank/matrix"
)

// Instance is a MinRank problem: find scalars x1..xk such that
// rank(M0 + sum xi*Mi) <= Rank, where every Mi is NRow x NCol over Field.
type Instance struct {
	Field      field.Field
	NRow, NCol uint64
	NMat       uint32 // k
	Rank       uint32 // r
	M0         *matrix.GFM // may be nil (homogeneous case)
	Ms         []*matrix.GFM
}

// New builds a MinRank instance, taking ownership of m0 and ms. If ms is
// nil, k random NRow x NCol matrices are sampled instead (mirroring
// minrank_create's "ms == NULL -> gfm_rand_matrices" behaviour).
func New(f field.Field, nrow, ncol uint64, k, r uint32, m0 *matrix.GFM, ms []*matrix.GFM, rnd *rand.Rand) (*Instance, error) {
	if nrow == 0 || ncol == 0 {
		return nil, fmt.Errorf("minrank: nrow and ncol must be positive")
	}
	if k == 0 {
		return nil, fmt.Errorf("minrank: nmat (k) must be positive")
	}
	if r == 0 || uint64(r) > nrow {
		return nil, fmt.Errorf("minrank: rank must be in [1, nrow]")
	}
	if ms == nil {
		if rnd == nil {
			return nil, fmt.Errorf("minrank: random source required when ms is nil")
		}
		ms = matrix.RandMatrices(f, rnd, nrow, ncol, uint64(k))
	} else if uint32(len(ms)) != k {
		return nil, fmt.Errorf("minrank: len(ms)=%d != k=%d", len(ms), k)
	}
	return &Instance{Field: f, NRow: nrow, NCol: ncol, NMat: k, Rank: r, M0: m0, Ms: ms}, nil
}

// Sum builds M_lambda, the (NRow*NCol) x (NMat+1) dense matrix whose column
// 0 holds M0 (or zero if absent) and column j (j>=1) holds Mj, both in
// row-major order.
func (mr *Instance) Sum() *matrix.GFM {
	nm := mr.NRow * mr.NCol
	ml := matrix.NewGFM(nm, uint64(mr.NMat)+1)
	if mr.M0 != nil {
		for e := uint64(0); e < nm; e++ {
			ml.SetAt(e, 0, mr.M0.Data[e])
		}
	}
	for j, mj := range mr.Ms {
		for e := uint64(0); e < nm; e++ {
			ml.SetAt(e, uint64(j)+1, mj.Data[e])
		}
	}
	return ml
}

// KS builds the (c*NCol) x (1+k+rc+krc) dense base Kipnis-Shamir matrix for
// a multiplier width c in [1, NRow-Rank]. Row group i (i in [0,c)) holds, for
// each column index ri of the original matrices, the linear-in-(1,x,v)
// coefficients of row i of (identity | v) * M_lambda: the constant and
// linear-variable columns come directly from M_lambda's row (i, ri); each
// kernel variable v_{i,j} (j in [0,Rank)) contributes the row (NRow-Rank+j,
// ri) of M_lambda, once as the "v_{i,j} alone" coefficient (M0 entry) and
// once per linear variable as the "x_l * v_{i,j}" cross coefficient (Ml
// entry), per ks_base_cmp_idx_map_d1's {1, x1..xk} * v_{i,j} enumeration.
func (mr *Instance) KS(c uint32) (*matrix.GFM, error) {
	if c == 0 || uint64(c) > mr.NRow-uint64(mr.Rank) {
		return nil, fmt.Errorf("minrank: c must be in [1, nrow-rank]")
	}
	layout := ksindex.BaseColumnLayout{K: mr.NMat, R: mr.Rank, C: c}
	ml := mr.Sum()
	ks := matrix.NewGFM(uint64(c)*mr.NCol, layout.TotalMonoNum())
	f := mr.Field

	for i := uint32(0); i < c; i++ {
		for ri := uint64(0); ri < mr.NCol; ri++ {
			dstRowIdx := uint64(i)*mr.NCol + ri
			dst := ks.RowAddr(dstRowIdx)
			mlRow := ml.RowAddr(uint64(i)*mr.NCol + ri)

			dst[layout.ConstIdx()] = mlRow[0]
			for l := uint32(0); l < mr.NMat; l++ {
				dst[layout.LinearVarIdx(l)] = mlRow[l+1]
			}

			for j := uint32(0); j < mr.Rank; j++ {
				srcMatRow := mr.NRow - uint64(mr.Rank) + uint64(j)
				src := ml.RowAddr(srcMatRow*mr.NCol + ri)

				kIdx := layout.KernelVarIdx(i, j)
				dst[kIdx] = f.Add(dst[kIdx], src[0])

				for l := uint32(0); l < mr.NMat; l++ {
					cIdx := layout.CrossIdx(l, i, j)
					dst[cIdx] = f.Add(dst[cIdx], src[l+1])
				}
			}
		}
	}
	return ks, nil
}

// NRowKS returns the row count of the base KS matrix for a given c.
func (mr *Instance) NRowKS(c uint32) uint64 { return uint64(c) * mr.NCol }

// NColKS returns the column count 1+k+rc+krc of the base KS matrix for a
// given c.
func (mr *Instance) NColKS(c uint32) uint64 {
	return ksindex.BaseColumnLayout{K: mr.NMat, R: mr.Rank, C: c}.TotalMonoNum()
}
