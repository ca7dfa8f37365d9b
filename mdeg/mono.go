package mdeg

// Mono is a monomial represented as the concatenation of c+1 non-decreasing
// variable-index runs: Vars[0:D[0]] are linear-variable indices in [0,k),
// and for each kernel group i in [1,c], the next D[i] entries are indices in
// [k+(i-1)*r, k+(i-1)*r+r). This is the standard "sorted multiset" encoding
// of a monomial's exponent vector.
type Mono struct {
	D    MDeg
	Vars []uint32
}

func groupBounds(d MDeg, k, r uint32, group int) (lo, hi uint32) {
	return GroupBounds(d, k, r, group)
}

func groupOffset(d MDeg, group int) int {
	return GroupOffset(d, group)
}

// GroupBounds returns the half-open variable-index range [lo,hi) of group
// (0 is the linear group, 1..c are kernel groups) over k linear variables
// and c groups of r kernel variables each.
func GroupBounds(d MDeg, k, r uint32, group int) (lo, hi uint32) {
	if group == 0 {
		return 0, k
	}
	g := uint32(group - 1)
	return k + g*r, k + (g+1)*r
}

// GroupOffset returns the starting offset within Mono.Vars of the given
// group's run.
func GroupOffset(d MDeg, group int) int {
	off := 0
	for i := 0; i < group; i++ {
		off += int(d.D[i])
	}
	return off
}

// FirstOfDeg returns the lexicographically least monomial whose group
// counts equal d: every group's run is filled with its lowest variable
// index, repeated.
func FirstOfDeg(d MDeg, k, r uint32) Mono {
	total := 0
	for _, c := range d.D {
		total += int(c)
	}
	vars := make([]uint32, total)
	off := 0
	for g := 0; g < len(d.D); g++ {
		lo, _ := groupBounds(d, k, r, g)
		for i := uint32(0); i < d.D[g]; i++ {
			vars[off] = lo
			off++
		}
	}
	return Mono{D: d.Clone(), Vars: vars}
}

// nextCombo advances a non-decreasing sequence vars[lo:hi) is a half-open
// domain bound) over the domain [domLo, domHi) to its successor in the
// standard "combinations with repetition" order. It returns false once the
// sequence is already the last one (every entry == domHi-1).
func nextCombo(vars []uint32, domLo, domHi uint32) bool {
	if len(vars) == 0 || domHi == domLo {
		return false
	}
	i := len(vars) - 1
	for i >= 0 && vars[i] == domHi-1 {
		i--
	}
	if i < 0 {
		return false
	}
	vars[i]++
	for j := i + 1; j < len(vars); j++ {
		vars[j] = vars[i]
	}
	return true
}

// Iterate advances m to the next monomial of the same multi-degree,
// odometer-style over its c+1 group runs with the last group fastest: it
// rolls a group back to its first combination and carries into the group to
// its left whenever the current group's run is exhausted ("roll up when
// reaching max, else increment"). It returns false once every monomial of
// this multi-degree has been visited.
func (m Mono) Iterate(k, r uint32) (Mono, bool) {
	vars := make([]uint32, len(m.Vars))
	copy(vars, m.Vars)
	for g := len(m.D.D) - 1; g >= 0; g-- {
		lo, hi := groupBounds(m.D, k, r, g)
		off := groupOffset(m.D, g)
		n := int(m.D.D[g])
		run := vars[off : off+n]
		if nextCombo(run, lo, hi) {
			return Mono{D: m.D.Clone(), Vars: vars}, true
		}
		// this group exhausted: reset to first combination, carry left
		for i := range run {
			run[i] = lo
		}
	}
	return Mono{}, false
}

// CheckMDeg reports whether m's per-group variable counts equal d exactly
// (m is assumed well-formed; this re-derives the counts from Vars against
// k, r and compares against d).
func (m Mono) CheckMDeg(k, r uint32, d MDeg) bool {
	return ToMDeg(m, k, r, d.C()).Equal(d)
}

// ToMDeg recomputes the multi-degree of a monomial from its variable list.
func ToMDeg(m Mono, k, r uint32, c int) MDeg {
	d := Zero(c)
	for _, v := range m.Vars {
		if v < k {
			d.D[0]++
			continue
		}
		g := int((v-k)/r) + 1
		d.D[g]++
	}
	return d
}
