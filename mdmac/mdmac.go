// Package mdmac builds the multi-degree Macaulay matrix (sparse,
// column-indexed) by multiplying every row-group of a dense base
// Kipnis-Shamir system by every monomial up to a target multi-degree (or
// the union of several, in combined-degree mode).
package mdmac

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"minrank/gfa"
	"minrank/ksindex"
	"minrank/matrix"
	"minrank/mdeg"
	"minrank/minrank"
)

// MDMac is a multi-degree Macaulay matrix: NRow sparse equations over NCol
// monomial columns, NRow/M equations of M consecutive rows apiece sharing
// one multiplier monomial.
type MDMac struct {
	K, R, C uint32
	M       uint64 // matrix column count of the originating MinRank instance
	Degs    []mdeg.MDeg
	NRow    uint64
	NCol    uint64
	Rows    []gfa.GFA
	arena   *gfa.Arena
}

func checkDegs(degs []mdeg.MDeg) error {
	if len(degs) == 0 {
		return fmt.Errorf("mdmac: at least one multi-degree is required")
	}
	c := degs[0].C()
	for _, d := range degs {
		if d.C() != c {
			return fmt.Errorf("mdmac: all multi-degrees must share the same kernel-group count")
		}
		if !d.Valid() {
			return fmt.Errorf("mdmac: every group, including the linear group, must have degree >= 1")
		}
	}
	return nil
}

func totalMonoNum(k, r uint32, degs []mdeg.MDeg) uint64 {
	var total uint64
	mdeg.IterSubdegsUnion(degs, func(d mdeg.MDeg) bool {
		total += mdeg.MonoNum(d, k, r)
		return true
	})
	return total
}

// rowMultiDegs decrements the linear-group and the i-th kernel-group degree
// of every element of degs by one: the bound on the multiplier monomial
// that, multiplied with a base-system row from row-group i (whose monomial
// has at most one linear or one group-i kernel variable), cannot exceed the
// target multi-degree.
func rowMultiDegs(i int, degs []mdeg.MDeg) []mdeg.MDeg {
	out := make([]mdeg.MDeg, len(degs))
	for j, d := range degs {
		out[j] = d.Sub1(0).Sub1(i + 1)
	}
	return out
}

// mergeSorted merges two non-decreasing uint32 slices over the same domain
// into one non-decreasing slice.
func mergeSorted(a, b []uint32) []uint32 {
	out := make([]uint32, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// mergeMono returns the product monomial mul*base, both over the same
// (k, r, c) variable space.
func mergeMono(mul, base mdeg.Mono, c int) mdeg.Mono {
	newD := mdeg.Zero(c)
	for g := 0; g <= c; g++ {
		newD.D[g] = mul.D.Get(g) + base.D.Get(g)
	}
	newVars := make([]uint32, 0, len(mul.Vars)+len(base.Vars))
	mulOff, baseOff := 0, 0
	for g := 0; g <= c; g++ {
		mn := int(mul.D.Get(g))
		bn := int(base.D.Get(g))
		merged := mergeSorted(mul.Vars[mulOff:mulOff+mn], base.Vars[baseOff:baseOff+bn])
		newVars = append(newVars, merged...)
		mulOff += mn
		baseOff += bn
	}
	return mdeg.Mono{D: newD, Vars: newVars}
}

// baseMono reconstructs the degree-<=2 monomial a base Kipnis-Shamir column
// index represents, per the BaseColumnLayout ordering (const, linear, kernel,
// cross).
func baseMono(k, r uint32, c int, bcol uint64) mdeg.Mono {
	totalVarNum := 1 + uint64(k) + uint64(r)*uint64(c)
	switch {
	case bcol == 0:
		return mdeg.Mono{D: mdeg.Zero(c), Vars: nil}
	case bcol < 1+uint64(k):
		lvar := uint32(bcol - 1)
		d := mdeg.Zero(c)
		d.D[0] = 1
		return mdeg.Mono{D: d, Vars: []uint32{lvar}}
	case bcol < totalVarNum:
		koff := bcol - (1 + uint64(k))
		i := uint32(koff / uint64(r))
		j := uint32(koff % uint64(r))
		d := mdeg.Zero(c)
		d.D[i+1] = 1
		return mdeg.Mono{D: d, Vars: []uint32{uint32(k) + i*r + j}}
	default:
		crossOff := bcol - totalVarNum
		lvar := uint32(crossOff % uint64(k))
		kernelOff := crossOff / uint64(k)
		i := uint32(kernelOff / uint64(r))
		j := uint32(kernelOff % uint64(r))
		d := mdeg.Zero(c)
		d.D[0] = 1
		d.D[i+1] = 1
		return mdeg.Mono{D: d, Vars: []uint32{lvar, uint32(k) + i*r + j}}
	}
}

// iterMonomials visits, in mdeg.Next/Mono.Iterate order, every monomial
// whose own multi-degree is <= at least one element of degs.
func iterMonomials(degs []mdeg.MDeg, k, r uint32, cb func(mdeg.Mono)) {
	mdeg.IterSubdegsUnion(degs, func(d mdeg.MDeg) bool {
		if d.TotalDegree() == 0 {
			cb(mdeg.Mono{D: d, Vars: nil})
			return true
		}
		m := mdeg.FirstOfDeg(d, k, r)
		for {
			cb(m)
			next, ok := m.Iterate(k, r)
			if !ok {
				break
			}
			m = next
		}
		return true
	})
}

// BuildFromKS multiplies the dense base Kipnis-Shamir system ks (built by
// minrank.Instance.KS) by every monomial up to degs (the union, in
// combined-degree mode), producing the sparse multi-degree Macaulay matrix.
func BuildFromKS(ks *matrix.GFM, mr *minrank.Instance, degs []mdeg.MDeg) (*MDMac, error) {
	if err := checkDegs(degs); err != nil {
		return nil, err
	}
	c := degs[0].C()
	if uint64(c) != ks.NRow/mr.NCol {
		return nil, fmt.Errorf("mdmac: ks row count does not match multi-degree's kernel-group count")
	}

	k, r := mr.NMat, mr.Rank
	ncol := totalMonoNum(k, r, degs)

	var nrow uint64
	for i := 0; i < c; i++ {
		nrow += totalMonoNum(k, r, rowMultiDegs(i, degs)) * mr.NCol
	}
	if nrow == 0 {
		return nil, fmt.Errorf("mdmac: target multi-degree produces zero equations")
	}

	maxTnum := matrix.FindMaxTnumPerEq(ks)
	if maxTnum == 0 {
		return nil, fmt.Errorf("mdmac: base KS system has no non-zero entries")
	}

	arena, rows := gfa.NewColumns(repeat(int(maxTnum), int(nrow)))

	mac := &MDMac{K: k, R: r, C: uint32(c), M: mr.NCol, Degs: degs, NRow: nrow, NCol: ncol, Rows: rows, arena: arena}
	indexer := ksindex.MDMacIndexer{K: k, R: r, Degs: degs}

	type entry struct {
		idx uint64
		val byte
	}

	dstOffset := uint64(0)
	for i := 0; i < c; i++ {
		degsI := rowMultiDegs(i, degs)
		var iterErr error
		iterMonomials(degsI, k, r, func(mul mdeg.Mono) {
			if iterErr != nil {
				return
			}
			for ri := uint64(0); ri < mr.NCol; ri++ {
				srcRowIdx := uint64(i)*mr.NCol + ri
				srcRow := ks.RowAddr(srcRowIdx)

				entries := make([]entry, 0, maxTnum)
				for bcol := uint64(0); bcol < ks.NCol; bcol++ {
					v := srcRow[bcol]
					if v == 0 {
						continue
					}
					base := baseMono(k, r, c, bcol)
					prod := mergeMono(mul, base, c)
					idx, ok := indexer.Midx(prod)
					if !ok {
						iterErr = fmt.Errorf("mdmac: product monomial exceeds target multi-degree")
						return
					}
					entries = append(entries, entry{idx, v})
				}
				sort.Slice(entries, func(a, b int) bool { return entries[a].idx < entries[b].idx })

				dst := mac.Rows[dstOffset]
				for _, e := range entries {
					dst.Append(uint32(e.idx), e.val)
				}
				mac.Rows[dstOffset] = dst
				dstOffset++
			}
		})
		if iterErr != nil {
			return nil, iterErr
		}
	}

	return mac, nil
}

func repeat(v, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// At returns the (i,j) entry, 0 if j is not stored in row i.
func (m *MDMac) At(i, j uint64) byte {
	row := m.Rows[i]
	for ci := 0; ci < row.Size(); ci++ {
		idx, v := row.At(ci)
		if uint64(idx) == j {
			return v
		}
		if uint64(idx) > j {
			break
		}
	}
	return 0
}

// NumLinearCol returns the number of columns corresponding to the constant
// term and the linear/kernel variables (degree <= 1).
func (m *MDMac) NumLinearCol() uint64 {
	return 1 + uint64(m.K) + uint64(m.R)*uint64(m.C)
}

// NumNLCol returns the number of non-linear (degree >= 2) columns.
func (m *MDMac) NumNLCol() uint64 {
	return m.NCol - m.NumLinearCol()
}

// IterRandomRows samples nrow distinct row indices out of m.NRow using
// Floyd's algorithm, calling cb(sampleNum, rowIdx) for each in sampled
// order. Reproducible for a fixed rnd seed, unlike the reference's
// global-PRNG save/restore around rand()/srand().
func (m *MDMac) IterRandomRows(nrow uint64, rnd *rand.Rand, cb func(sampleNum, rowIdx uint64)) error {
	return IterRandomRows(m.NRow, nrow, rnd, cb)
}

// IterRandomRows samples nrow distinct indices out of [0, fullNrow) via
// Floyd's algorithm.
func IterRandomRows(fullNrow, nrow uint64, rnd *rand.Rand, cb func(sampleNum, rowIdx uint64)) error {
	if nrow > fullNrow {
		return fmt.Errorf("mdmac: nrow %d exceeds full row count %d", nrow, fullNrow)
	}
	selected := make(map[uint64]bool, nrow)
	sampleNum := uint64(0)
	for in := fullNrow - nrow; in < fullNrow && sampleNum < nrow; in++ {
		ridx := rnd.Uint64() % (in + 1)
		if selected[ridx] {
			ridx = in
		}
		selected[ridx] = true
		cb(sampleNum, ridx)
		sampleNum++
	}
	return nil
}

// Sample draws nrow distinct rows out of m (via IterRandomRows) and returns
// a new MDMac restricted to that row subset, same column space. This gives
// an explicit, first-class way to bound how many of a large MDMac's rows
// the rest of the pipeline (rmsm, which never subsets rows itself) ever
// sees, rather than silently operating over every row regardless of size.
func (m *MDMac) Sample(nrow uint64, rnd *rand.Rand) (*MDMac, error) {
	if nrow > m.NRow {
		return nil, fmt.Errorf("mdmac: sample size %d exceeds row count %d", nrow, m.NRow)
	}
	rows := make([]gfa.GFA, nrow)
	if err := m.IterRandomRows(nrow, rnd, func(sampleNum, ridx uint64) {
		rows[sampleNum] = m.Rows[ridx]
	}); err != nil {
		return nil, err
	}
	return &MDMac{
		K: m.K, R: m.R, C: m.C, M: m.M, Degs: m.Degs,
		NRow: nrow, NCol: m.NCol, Rows: rows, arena: m.arena,
	}, nil
}

// Nznum samples nrow random rows and returns, per column, the count of
// non-zero entries observed, along with the total non-zero count observed.
func (m *MDMac) Nznum(nrow uint64, rnd *rand.Rand) ([]uint32, int64, error) {
	out := make([]uint32, m.NCol)
	var sum int64
	err := m.IterRandomRows(nrow, rnd, func(_, ridx uint64) {
		row := m.Rows[ridx]
		for ci := 0; ci < row.Size(); ci++ {
			idx, _ := row.At(ci)
			out[idx]++
			sum++
		}
	})
	if err != nil {
		return nil, 0, err
	}
	return out, sum, nil
}
