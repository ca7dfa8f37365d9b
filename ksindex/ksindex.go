// Package ksindex computes grlex column indices for the two monomial
// spaces the solver needs: the degree-<=2 base Kipnis-Shamir system, and
// the general multi-degree Macaulay matrix (single or combined multi-degree).
package ksindex

import "minrank/mdeg"

// Invalid is returned in place of a column index when a monomial does not
// belong to the target multi-degree (set).
const Invalid = ^uint64(0)

// BaseColumnLayout describes the fixed degree-<=2 column ordering of the
// base Kipnis-Shamir matrix: 1 constant column, then k linear columns, then
// rc kernel-variable columns, then k*r*c cross columns x_l * v_{i,j}. This
// is the "column ordering follows grlex on degree-<=2 monomials" rule from
// the data model.
type BaseColumnLayout struct {
	K, R, C uint32
}

// TotalVarNum returns 1 + k + rc, the number of degree-<=1 columns.
func (l BaseColumnLayout) TotalVarNum() uint64 {
	return 1 + uint64(l.K) + uint64(l.R)*uint64(l.C)
}

// TotalMonoNum returns the total column count 1 + k + rc + krc.
func (l BaseColumnLayout) TotalMonoNum() uint64 {
	return l.TotalVarNum() + uint64(l.K)*uint64(l.R)*uint64(l.C)
}

// ConstIdx is the column index of the constant monomial.
func (BaseColumnLayout) ConstIdx() uint64 { return 0 }

// LinearVarIdx returns the column of linear variable x_l (l in [0,k)).
func (l BaseColumnLayout) LinearVarIdx(lvar uint32) uint64 {
	return 1 + uint64(lvar)
}

// KernelVarIdx returns the column of kernel variable v_{i,j}, i in [0,c),
// j in [0,r).
func (l BaseColumnLayout) KernelVarIdx(i, j uint32) uint64 {
	return 1 + uint64(l.K) + uint64(i)*uint64(l.R) + uint64(j)
}

// CrossIdx returns the column of the degree-2 cross monomial x_lvar * v_{i,j}.
func (l BaseColumnLayout) CrossIdx(lvar, i, j uint32) uint64 {
	kernelOff := uint64(i)*uint64(l.R) + uint64(j)
	return l.TotalVarNum() + kernelOff*uint64(l.K) + uint64(lvar)
}

// BaseMidx computes the base-KS column index of a monomial given as its
// linear-variable indices (each in [0,k)) and its kernel-variable indices
// (each a flat index i*r+j in [0,rc)); the base system treats all rc kernel
// variables as one flat group, since the base matrix only needs degree <= 2
// total and at most one kernel variable appears in any base monomial.
//
// The monomial must have total degree <= 2 split as: 0 vars (constant), 1
// linear var, 1 kernel var, or 1 linear + 1 kernel var. BaseMidx returns
// (Invalid, false) for any other shape.
func BaseMidx(l BaseColumnLayout, linearVars []uint32, kernelVars []uint32) (uint64, bool) {
	switch {
	case len(linearVars) == 0 && len(kernelVars) == 0:
		return l.ConstIdx(), true
	case len(linearVars) == 1 && len(kernelVars) == 0:
		return l.LinearVarIdx(linearVars[0]), true
	case len(linearVars) == 0 && len(kernelVars) == 1:
		i, j := kernelVars[0]/l.R, kernelVars[0]%l.R
		return l.KernelVarIdx(i, j), true
	case len(linearVars) == 1 && len(kernelVars) == 1:
		i, j := kernelVars[0]/l.R, kernelVars[0]%l.R
		return l.CrossIdx(linearVars[0], i, j), true
	default:
		return Invalid, false
	}
}

// MDMacIndexer computes grlex column indices within the multi-degree
// Macaulay matrix's monomial space: k linear variables plus c groups of r
// kernel variables, ordered by total multi-degree (mdeg.Next order) then,
// within a multi-degree, by the mixed-radix combination of each group's
// "combinations with repetition" rank (linear group most significant,
// kernel groups in order, matching mdeg.Mono.Iterate's odometer order).
type MDMacIndexer struct {
	K, R uint32
	Degs []mdeg.MDeg // one multi-degree (single-degree mode), or several (combined mode)
}

// Midx returns the column index of mono within the union of m.Degs, or
// Invalid if mono's own multi-degree is not <= any of them.
func (m MDMacIndexer) Midx(mono mdeg.Mono) (uint64, bool) {
	c := m.Degs[0].C()
	own := mdeg.ToMDeg(mono, m.K, m.R, c)
	if !own.IsLeAny(m.Degs) {
		return Invalid, false
	}
	var prefix uint64
	mdeg.IterSubdegsUnion(m.Degs, func(d mdeg.MDeg) bool {
		if d.Equal(own) {
			return false
		}
		prefix += mdeg.MonoNum(d, m.K, m.R)
		return true
	})
	return prefix + rankWithinDegree(mono, m.K, m.R), true
}

// MonoAt is the inverse of Midx restricted to a single multi-degree d:
// given a rank in [0, mdeg.MonoNum(d,k,r)), it reconstructs the monomial.
// It is used by round-trip tests and by callers that need to materialize a
// monomial from a column index.
func MonoAt(d mdeg.MDeg, k, r uint32, rank uint64) mdeg.Mono {
	m := mdeg.FirstOfDeg(d, k, r)
	for i := uint64(0); i < rank; i++ {
		next, ok := m.Iterate(k, r)
		if !ok {
			panic("ksindex: rank out of range for multi-degree")
		}
		m = next
	}
	return m
}

// rankWithinDegree computes the mixed-radix combination rank of mono among
// all monomials of its own (fixed) multi-degree, matching the order
// mdeg.Mono.Iterate produces (kernel groups, last-fastest, carry left).
func rankWithinDegree(mono mdeg.Mono, k, r uint32) uint64 {
	d := mono.D
	c := d.C()
	var total uint64
	for g := 0; g <= c; g++ {
		lo, hi := mdeg.GroupBounds(d, k, r, g)
		off := mdeg.GroupOffset(d, g)
		n := int(d.Get(g))
		run := mono.Vars[off : off+n]
		shifted := make([]uint32, n)
		for i, v := range run {
			shifted[i] = v - lo
		}
		groupRank := rankMultiset(shifted, uint64(hi-lo))
		groupCount := numMultisets(uint64(hi-lo), uint64(n))
		total = total*groupCount + groupRank
	}
	return total
}

// numMultisets returns the number of non-decreasing sequences of length len
// over a domain of size domain (i.e. C(domain+len-1, len)).
func numMultisets(domain, length uint64) uint64 {
	if length == 0 {
		return 1
	}
	if domain == 0 {
		return 0
	}
	return mdeg.Binom(domain+length-1, length)
}

// rankMultiset returns the lexicographic rank (0-indexed) of a non-decreasing
// sequence v (values in [0,domain)) among all such sequences of length
// len(v), in the same order mdeg's nextCombo-driven iteration produces.
func rankMultiset(v []uint32, domain uint64) uint64 {
	var rank uint64
	prev := uint64(0)
	for i, vi := range v {
		remaining := len(v) - i - 1
		for x := prev; x < uint64(vi); x++ {
			rank += numMultisets(domain-x, uint64(remaining))
		}
		prev = uint64(vi)
	}
	return rank
}
