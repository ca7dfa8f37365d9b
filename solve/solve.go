// Package solve drives one round of the block-Lanczos style iteration: build
// a fresh row-sampled CMSM over an MDMac (the RMSM over every MDMac row is
// built once per Run and reused), evaluate a random candidate block-vector
// through both, fold the 64-wide result into a GF(2)
// fingerprint system, and dispatch it to the singular-check kernel. The
// outer iteration control (how many rounds to run, how the next candidate
// vector is derived from the last, convergence/stopping criteria) belongs to
// the wider block-Lanczos algorithm and is intentionally out of scope here;
// this package only wires the interface every round exercises.
package solve

import (
	"context"
	"fmt"
	"math/rand/v2"

	"minrank/cmsm"
	"minrank/field"
	"minrank/internal/dedup"
	"minrank/lanczos"
	"minrank/matrix"
	"minrank/mdmac"
	"minrank/rmsm"
)

// fpWidth is the row count of every sampled CMSM, chosen to match
// matrix.BlockWidth so one block-vector product yields exactly one fully
// populated fingerprint frame (64 candidate columns, one per GF(2) bit-lane)
// with no wasted or partial rows.
const fpWidth = matrix.BlockWidth

// RoundOutcome summarises one iteration.
type RoundOutcome struct {
	Kind lanczos.Kind
	Sol  uint64 // valid iff Kind == lanczos.Unique
}

// Summary accumulates the outcome of a run of rounds.
type Summary struct {
	Rounds    int
	Unique    int
	Singular  int
	Inconsist int
	Dup       int
}

// Run drives up to maxRounds iterations, recording every distinct Unique
// solution found in dm, and returns once either maxRounds rounds have run or
// ctx is cancelled. w is the singular-check kernel's unknown count
// (lanczos.MinWidth..lanczos.MaxWidth); it bounds how many of the 64
// fingerprint columns a round actually needs (w+1). nWorkers drives every
// round's matrix-vector products through the worker-pool-parallel CMSM/RMSM
// paths (threadpool.NumWorkers resolves nWorkers<=0 to a sane default).
func Run(ctx context.Context, f field.Field, mac *mdmac.MDMac, colIdxs []uint64, w int, maxRounds int, nWorkers int, rnd *rand.Rand, dm *dedup.Map) (Summary, error) {
	if w+1 > fpWidth {
		return Summary{}, fmt.Errorf("solve: width %d needs %d fingerprint columns, only %d available", w, w+1, fpWidth)
	}

	b, err := rmsm.FromMDMac(mac, colIdxs)
	if err != nil {
		return Summary{}, fmt.Errorf("solve: building rmsm: %w", err)
	}

	var sum Summary
	for round := 0; round < maxRounds; round++ {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		outcome, err := oneRound(f, mac, b, colIdxs, w, nWorkers, rnd)
		if err != nil {
			return sum, fmt.Errorf("solve: round %d: %w", round, err)
		}
		sum.Rounds++

		switch outcome.Kind {
		case lanczos.Unique:
			sum.Unique++
			switch dm.Insert(dedup.HashSolution(outcome.Sol), outcome.Sol) {
			case dedup.Duplicate:
				sum.Dup++
			case dedup.Full:
				return sum, fmt.Errorf("solve: dedup map full after %d rounds", sum.Rounds)
			}
		case lanczos.Singular:
			sum.Singular++
		case lanczos.Inconsistent:
			sum.Inconsist++
		}
	}
	return sum, nil
}

// oneRound builds a fresh fpWidth-row CMSM sample `a` over mac/colIdxs,
// evaluates a random candidate block-vector through both `b` (every MDMac
// row) and `a` (the matching row sample only) via the worker-pool-parallel
// paths, cross-checks the two independent evaluations agree on the sampled
// rows, folds the result into a GF(2) fingerprint system and dispatches it
// to the kernel.
func oneRound(f field.Field, mac *mdmac.MDMac, b *rmsm.RMSM, colIdxs []uint64, w, nWorkers int, rnd *rand.Rand) (RoundOutcome, error) {
	a, err := cmsm.FromMDMac(mac, fpWidth, rnd, colIdxs)
	if err != nil {
		return RoundOutcome{}, fmt.Errorf("building cmsm sample: %w", err)
	}

	v := matrix.NewRMGF16(b.CNum)
	for i := uint64(0); i < v.NRow; i++ {
		f.ArrRand(v.RAddr(i), rnd)
	}

	full := matrix.NewRMGF16(b.RNum)
	if err := b.MulRMGF16Parallel(f, full, v, nWorkers); err != nil {
		return RoundOutcome{}, fmt.Errorf("rmsm mul: %w", err)
	}

	u := matrix.NewRMGF16(a.RNum)
	if err := a.MulRMGF16Parallel(f, u, v, nWorkers); err != nil {
		return RoundOutcome{}, fmt.Errorf("cmsm mul: %w", err)
	}

	gathered, err := a.GatherRows(full)
	if err != nil {
		return RoundOutcome{}, fmt.Errorf("gathering rmsm rows for cross-check: %w", err)
	}
	for i := range u.Data {
		if u.Data[i] != gathered.Data[i] {
			return RoundOutcome{}, fmt.Errorf("cmsm/rmsm cross-check mismatch at offset %d", i)
		}
	}

	m, err := extractFingerprint(f, u, w)
	if err != nil {
		return RoundOutcome{}, fmt.Errorf("extracting fingerprint: %w", err)
	}
	res, err := lanczos.Solve(w, m)
	if err != nil {
		return RoundOutcome{}, fmt.Errorf("lanczos solve: %w", err)
	}
	return RoundOutcome{Kind: res.Kind, Sol: res.Sol}, nil
}

// extractFingerprint reads columns 0..w of u (each a 64-entry column, one
// entry per GF(2) bit-lane) and reduces each to a bitmask via
// f.ArrMaskFrom64B, producing the w+1-word input lanczos.Solve expects. u
// must have exactly fpWidth rows.
func extractFingerprint(f field.Field, u *matrix.RMGF16, w int) ([]uint64, error) {
	if u.NRow != fpWidth {
		return nil, fmt.Errorf("extractFingerprint: u has %d rows, want %d", u.NRow, fpWidth)
	}
	m := make([]uint64, w+1)
	col := make([]byte, fpWidth)
	for j := 0; j <= w; j++ {
		for i := uint64(0); i < fpWidth; i++ {
			col[i] = u.RAddr(i)[j]
		}
		m[j] = f.ArrMaskFrom64B(col)
	}
	return m, nil
}
