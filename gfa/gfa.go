// Package gfa implements the sparse "indexed entry" column container every
// sparse matrix structure (MDMac, CMSM, RMSM) is built from: an ordered
// sequence of (index, scalar) pairs sharing one arena-backed allocation.
//
// The reference implementation packs each entry into a 24- or 56-bit index
// plus an 8-bit scalar inside one machine word, switching representations
// when the column count no longer fits 24 bits. Go has no equivalent need:
// a GFA here is simply a pair of slices (indices, scalars) carved out of one
// shared arena, using Go's own slice len/cap machinery as the "view into an
// owning buffer" the reference's flexible-array-member pattern provides in
// C. This sidesteps the 24-vs-56-bit mode switch entirely (see DESIGN.md).
package gfa

// GFA is one sparse column (or row): parallel index/scalar slices. Its
// length is the current number of stored entries; its capacity (inherited
// from the arena it was carved from) is the maximum it may ever grow to.
type GFA struct {
	idx []uint32
	val []byte
}

// Size returns the number of entries currently stored.
func (g GFA) Size() int { return len(g.idx) }

// Cap returns the maximum number of entries this view may grow to.
func (g GFA) Cap() int { return cap(g.idx) }

// SetSize grows or shrinks the view within its arena-given capacity.
func (g *GFA) SetSize(n int) {
	g.idx = g.idx[:n]
	g.val = g.val[:n]
}

// IncSize grows the view by one entry.
func (g *GFA) IncSize() {
	n := len(g.idx)
	g.idx = g.idx[:n+1]
	g.val = g.val[:n+1]
}

// At unpacks the i-th entry.
func (g GFA) At(i int) (index uint32, scalar byte) {
	return g.idx[i], g.val[i]
}

// SetAt packs the i-th entry; i must be < Size() (grow with IncSize/SetSize
// first).
func (g GFA) SetAt(i int, index uint32, scalar byte) {
	g.idx[i] = index
	g.val[i] = scalar
}

// Append grows the view by one entry and sets it, returning the new size.
func (g *GFA) Append(index uint32, scalar byte) int {
	g.IncSize()
	n := len(g.idx)
	g.SetAt(n-1, index, scalar)
	return n
}

// CheckAscend reports whether every stored index is strictly ascending,
// the invariant the MDMac builder and every multiplication inner loop rely
// on (mirrors the reference's mdmac_mmap_check_ascend debug assertion).
func (g GFA) CheckAscend() bool {
	for i := 1; i < len(g.idx); i++ {
		if g.idx[i] <= g.idx[i-1] {
			return false
		}
	}
	return true
}

// Arena is the shared backing allocation every GFA column/row in a sparse
// matrix is carved from. It is allocated once to its final total capacity
// and never resized; every GFA view it hands out aliases into it for its
// entire lifetime, matching the reference's arena-buffer ownership model.
type Arena struct {
	idx []uint32
	val []byte
	off int
}

// NewArena allocates an arena with room for exactly totalEntries entries
// across every view that will be carved from it.
func NewArena(totalEntries int) *Arena {
	return &Arena{
		idx: make([]uint32, totalEntries),
		val: make([]byte, totalEntries),
	}
}

// Carve reserves capacity entries from the arena and returns an empty
// (size-0) view with that capacity. Carve calls must not request more than
// the arena's remaining capacity; doing so panics via the underlying slice
// re-slice, matching "arena buffers are allocated once and never resized."
func (a *Arena) Carve(capacity int) GFA {
	g := GFA{
		idx: a.idx[a.off:a.off:a.off+capacity],
		val: a.val[a.off:a.off:a.off+capacity],
	}
	a.off += capacity
	return g
}

// Used returns the number of entries carved out of the arena so far.
func (a *Arena) Used() int { return a.off }

// Cap returns the arena's total capacity.
func (a *Arena) Cap() int { return len(a.idx) }

// NewColumns carves len(capacities) views out of a freshly allocated arena
// sized to their sum, returning the arena (for diagnostics) and the views in
// order. This is the two-pass "size then fill" shape every sparse matrix
// builder in this module uses: capacities are computed by a sizing pass,
// then the returned views are filled by a second pass via Append/SetAt.
func NewColumns(capacities []int) (*Arena, []GFA) {
	total := 0
	for _, c := range capacities {
		total += c
	}
	arena := NewArena(total)
	cols := make([]GFA, len(capacities))
	for i, c := range capacities {
		cols[i] = arena.Carve(c)
	}
	return arena, cols
}
