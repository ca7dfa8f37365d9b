// Package lanczos implements the GF(2) singular-check kernel the
// block-Lanczos outer loop calls once per iteration: a specialised
// Gauss-Jordan elimination over a w+1-wide fingerprint of 64-bit rows
// (one bit per active row), for width w in [5, 32].
package lanczos

import (
	"fmt"

	"minrank/bitutil"
)

// MinWidth and MaxWidth bound the supported fingerprint widths.
const (
	MinWidth = 5
	MaxWidth = 32
)

// Kind distinguishes the three possible outcomes of Solve.
type Kind int

const (
	// Unique means a solution was found; Result.Sol holds it.
	Unique Kind = iota
	// Singular means some column never acquired a pivot: the system is
	// underdetermined.
	Singular
	// Inconsistent means every column pivoted but the reduced constant
	// column still has bits set outside any pivot's reach; Result.Mask
	// holds the offending row bitset.
	Inconsistent
)

func (k Kind) String() string {
	switch k {
	case Unique:
		return "Unique"
	case Singular:
		return "Singular"
	case Inconsistent:
		return "Inconsistent"
	default:
		return "Kind(?)"
	}
}

// Result is the outcome of one Solve call.
type Result struct {
	Kind Kind
	Sol  uint64 // valid iff Kind == Unique
	Mask uint64 // valid iff Kind == Inconsistent
}

// Solve runs Gauss-Jordan elimination on the w+1-wide fingerprint m (m[0]
// the constant column, m[1..w] the coefficient columns), eliminating from
// column w down to column 1. m is modified in place, matching the
// reference's in-place elimination; callers that need the original must
// copy it first.
//
// Each column's lowest set bit within the still-live row mask is its pivot;
// if a column has no live bit, the system is singular. After every column
// has pivoted, any constant-column bit outside every pivot's reach makes
// the system inconsistent; otherwise the solution is assembled bit by bit
// from the constant column restricted to each pivot's bit.
func Solve(w int, m []uint64) (Result, error) {
	if w < MinWidth || w > MaxWidth {
		return Result{}, fmt.Errorf("lanczos: width %d out of range [%d, %d]", w, MinWidth, MaxWidth)
	}
	if len(m) != w+1 {
		return Result{}, fmt.Errorf("lanczos: len(m) = %d, want %d", len(m), w+1)
	}

	lsbs := make([]uint64, w+1) // lsbs[j] valid for j in [1, w]
	mask := ^uint64(0)

	for j := w; j >= 1; j-- {
		lsbJ := bitutil.LSB(m[j] & mask)
		if lsbJ == 0 {
			return Result{Kind: Singular}, nil
		}
		reduc := m[j] ^ lsbJ
		lsbs[j] = lsbJ

		k := 0
		for ; k+4 <= w+1; k += 4 {
			if j >= k && j < k+4 {
				// pivot column falls in this group of four; reduce the
				// other three scalar-style and leave column j untouched.
				for kk := k; kk < k+4; kk++ {
					if kk == j {
						continue
					}
					m[kk] = bitutil.ReduceColumn(m[kk], lsbJ, reduc)
				}
				continue
			}
			var rows [4]uint64
			copy(rows[:], m[k:k+4])
			reduced := bitutil.Lane4(rows, lsbJ, reduc)
			copy(m[k:k+4], reduced[:])
		}
		for ; k < w+1; k++ {
			if k == j {
				continue
			}
			m[k] = bitutil.ReduceColumn(m[k], lsbJ, reduc)
		}

		mask ^= lsbJ
	}

	if mask&m[0] != 0 {
		return Result{Kind: Inconsistent, Mask: mask & m[0]}, nil
	}

	var sol uint64
	for j := 1; j <= w; j++ {
		if m[0]&lsbs[j] != 0 {
			sol |= uint64(1) << uint(j-1)
		}
	}
	return Result{Kind: Unique, Sol: sol}, nil
}
