// Package mdeg implements multi-degree tuples and the monomials enumerated
// by them: a linear-variable group of degree d0 plus c kernel-variable
// groups of degree d1..dc each, as required by the Kipnis-Shamir multi-degree
// Macaulay matrix construction.
package mdeg

import "fmt"

// MDeg is an immutable (c+1)-tuple of non-negative degree counts: D[0] is
// the linear-group degree, D[1..c] are the kernel-group degrees.
type MDeg struct {
	D []uint32
}

// New builds a multi-degree from explicit counts (d0, d1, ..., dc).
func New(counts ...uint32) MDeg {
	d := make([]uint32, len(counts))
	copy(d, counts)
	return MDeg{D: d}
}

// Zero returns the all-zero multi-degree with c kernel groups.
func Zero(c int) MDeg {
	return MDeg{D: make([]uint32, c+1)}
}

// C returns the number of kernel-variable groups.
func (d MDeg) C() int { return len(d.D) - 1 }

// Get returns D[i].
func (d MDeg) Get(i int) uint32 { return d.D[i] }

// Valid reports whether d satisfies the MDMac validity invariant: d0 >= 1
// and every kernel-group degree d_i >= 1.
func (d MDeg) Valid() bool {
	for _, v := range d.D {
		if v < 1 {
			return false
		}
	}
	return true
}

// TotalDegree returns the sum of all group degrees.
func (d MDeg) TotalDegree() uint32 {
	var s uint32
	for _, v := range d.D {
		s += v
	}
	return s
}

// Equal reports coordinate-wise equality.
func (d MDeg) Equal(e MDeg) bool {
	if len(d.D) != len(e.D) {
		return false
	}
	for i := range d.D {
		if d.D[i] != e.D[i] {
			return false
		}
	}
	return true
}

// IsLe reports whether d <= e coordinate-wise.
func (d MDeg) IsLe(e MDeg) bool {
	if len(d.D) != len(e.D) {
		return false
	}
	for i := range d.D {
		if d.D[i] > e.D[i] {
			return false
		}
	}
	return true
}

// IsLeAny reports whether d <= at least one of degs.
func (d MDeg) IsLeAny(degs []MDeg) bool {
	for _, e := range degs {
		if d.IsLe(e) {
			return true
		}
	}
	return false
}

// Sub1 returns a copy of d with group i decremented by one. It panics if
// D[i] == 0, matching the caller-enforced precondition the builder relies on
// when it decrements d0/d_i before enumerating multiplier monomials.
func (d MDeg) Sub1(i int) MDeg {
	if d.D[i] == 0 {
		panic(fmt.Sprintf("mdeg: Sub1(%d) on zero group", i))
	}
	out := d.Clone()
	out.D[i]--
	return out
}

// Clone returns an independent copy of d.
func (d MDeg) Clone() MDeg {
	out := make([]uint32, len(d.D))
	copy(out, d.D)
	return MDeg{D: out}
}

// NumSubdegs returns the number of distinct multi-degrees e with e <= d
// (coordinate-wise), i.e. prod (d_i + 1).
func NumSubdegs(d MDeg) uint64 {
	n := uint64(1)
	for _, v := range d.D {
		n *= uint64(v) + 1
	}
	return n
}

// Next advances d to its mixed-radix successor bounded by dmax, raising D[0]
// first (the lowest-order digit), carrying into D[1], D[2], ... as each
// digit overflows its bound. It returns the advanced value and true, or the
// zero value and false once every multi-degree <= dmax has been visited.
func Next(d, dmax MDeg) (MDeg, bool) {
	out := d.Clone()
	for i := 0; i < len(out.D); i++ {
		if out.D[i] < dmax.D[i] {
			out.D[i]++
			return out, true
		}
		out.D[i] = 0
	}
	return MDeg{}, false
}

// MonoNum returns the number of monomials of exactly multi-degree d over k
// linear variables and c groups of r kernel variables each: the product of
// "multiset of size d_i from a domain of size n_i" binomial counts.
func MonoNum(d MDeg, k, r uint32) uint64 {
	n := Binom(uint64(k)+uint64(d.D[0])-1, uint64(d.D[0]))
	if d.D[0] == 0 {
		n = 1
	}
	for i := 1; i < len(d.D); i++ {
		di := d.D[i]
		var cnt uint64
		if di == 0 {
			cnt = 1
		} else {
			cnt = Binom(uint64(r)+uint64(di)-1, uint64(di))
		}
		n *= cnt
	}
	return n
}

// IterSubdegsUnion visits, in Next() successor order, every multi-degree
// that is <= at least one element of degs, calling cb for each. It stops
// early if cb returns false. The traversal bound is the coordinate-wise max
// over degs.
func IterSubdegsUnion(degs []MDeg, cb func(MDeg) bool) int {
	if len(degs) == 0 {
		return 0
	}
	dmax := degs[0].Clone()
	for _, d := range degs[1:] {
		for i := range dmax.D {
			if d.D[i] > dmax.D[i] {
				dmax.D[i] = d.D[i]
			}
		}
	}
	visited := 0
	cur := Zero(dmax.C())
	for {
		if cur.IsLeAny(degs) {
			visited++
			if !cb(cur) {
				return visited
			}
		}
		next, ok := Next(cur, dmax)
		if !ok {
			return visited
		}
		cur = next
	}
}
