// Package bitutil provides the small bit-level primitives the GF(2)
// singular-check kernel (package lanczos) is built from: lowest-set-bit
// isolation, single-bit toggling, and the 4-lane reduction step used by
// every elimination column.
package bitutil

import "golang.org/x/sys/cpu"

// HasAVX2 reports whether the running CPU exposes AVX2, matching the
// reference implementation's compile-time `#if defined(__AVX__)` gate but
// resolved at runtime via golang.org/x/sys/cpu instead of a build tag. Go has
// no portable way to emit the literal 4-lane 256-bit integer compare/and/xor
// sequence without hand-written assembly per architecture; since the spec's
// own Design Notes say "portable implementations are acceptable as long as
// each step's data dependency chain is preserved", Lane4 below is a plain
// Go loop over 4 uint64 lanes that preserves that dependency chain exactly,
// and HasAVX2 is exposed so callers (and benchmarks) can report whether the
// host could in principle run a hand-written SIMD version faster.
func HasAVX2() bool {
	return cpu.X86.HasAVX2
}

// LSB returns the lowest set bit of x (x & -x), 0 when x == 0.
func LSB(x uint64) uint64 {
	return x & (-x)
}

// ToggleAt flips bit i of x (0-indexed) and returns the result.
func ToggleAt(x uint64, i int) uint64 {
	return x ^ (uint64(1) << uint(i))
}

// Lane4 is the 4-lane analogue of the single-column reduction step used by
// every GF(2) elimination column: for each of the 4 rows, XOR in reduc
// whenever (row & mask) == mask. mask and reduc are each broadcast to all 4
// lanes, matching the semantics of the reference's reduce_mm256 helper.
func Lane4(rows [4]uint64, mask, reduc uint64) [4]uint64 {
	var out [4]uint64
	for i := 0; i < 4; i++ {
		out[i] = ReduceColumn(rows[i], mask, reduc)
	}
	return out
}

// ReduceColumn applies one elimination step to a single 64-bit column: it
// returns row XOR reduc when (row & mask) == mask, else row unchanged. This
// is the scalar form of the reference's reduce_mm256 broadcast lane op.
func ReduceColumn(row, mask, reduc uint64) uint64 {
	if row&mask == mask {
		return row ^ reduc
	}
	return row
}
