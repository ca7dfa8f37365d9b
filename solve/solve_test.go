package solve

import (
	"context"
	"math/rand/v2"
	"testing"

	"minrank/field"
	"minrank/internal/dedup"
	"minrank/mdeg"
	"minrank/mdmac"
	"minrank/minrank"
)

// wideMDMac builds an MDMac with at least fpWidth rows, wide enough to
// exercise a full 64-row CMSM fingerprint sample.
func wideMDMac(t *testing.T) *mdmac.MDMac {
	t.Helper()
	f := field.GF16{}
	r := rand.New(rand.NewPCG(7, 13))
	inst, err := minrank.New(f, 3, 64, 1, 1, nil, nil, r)
	if err != nil {
		t.Fatalf("minrank.New: %v", err)
	}
	ks, err := inst.KS(1)
	if err != nil {
		t.Fatalf("KS: %v", err)
	}
	mac, err := mdmac.BuildFromKS(ks, inst, []mdeg.MDeg{mdeg.New(2, 1)})
	if err != nil {
		t.Fatalf("BuildFromKS: %v", err)
	}
	if mac.NRow < fpWidth {
		t.Fatalf("mac.NRow = %d, want >= %d", mac.NRow, fpWidth)
	}
	return mac
}

func allColIdxs(n uint64) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = uint64(i)
	}
	return out
}

func TestRunRejectsWidthExceedingBlockWidth(t *testing.T) {
	mac := wideMDMac(t)
	f := field.GF16{}
	r := rand.New(rand.NewPCG(1, 1))
	dm, err := dedup.New(8)
	if err != nil {
		t.Fatalf("dedup.New: %v", err)
	}
	_, err = Run(context.Background(), f, mac, allColIdxs(mac.NCol), fpWidth, 1, 0, r, dm)
	if err == nil {
		t.Fatalf("expected error for width %d (no room for w+1 columns)", fpWidth)
	}
}

func TestRunCompletesRequestedRounds(t *testing.T) {
	mac := wideMDMac(t)
	f := field.GF16{}
	r := rand.New(rand.NewPCG(2, 3))
	dm, err := dedup.New(64)
	if err != nil {
		t.Fatalf("dedup.New: %v", err)
	}
	sum, err := Run(context.Background(), f, mac, allColIdxs(mac.NCol), 5, 4, 0, r, dm)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Rounds != 4 {
		t.Fatalf("Rounds = %d, want 4", sum.Rounds)
	}
	if sum.Unique+sum.Singular+sum.Inconsist != sum.Rounds {
		t.Fatalf("outcome counts %+v do not sum to Rounds", sum)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	mac := wideMDMac(t)
	f := field.GF16{}
	r := rand.New(rand.NewPCG(4, 5))
	dm, err := dedup.New(64)
	if err != nil {
		t.Fatalf("dedup.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := Run(ctx, f, mac, allColIdxs(mac.NCol), 5, 10, 0, r, dm)
	if err == nil {
		t.Fatalf("expected context.Canceled error")
	}
	if sum.Rounds != 0 {
		t.Fatalf("Rounds = %d, want 0 rounds run before cancellation observed", sum.Rounds)
	}
}

func TestRunRecordsUniqueSolutionsInDedupMap(t *testing.T) {
	mac := wideMDMac(t)
	f := field.GF16{}
	r := rand.New(rand.NewPCG(9, 11))
	dm, err := dedup.New(64)
	if err != nil {
		t.Fatalf("dedup.New: %v", err)
	}
	sum, err := Run(context.Background(), f, mac, allColIdxs(mac.NCol), 5, 20, 0, r, dm)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Unique > 0 && dm.Len() == 0 {
		t.Fatalf("Run reported %d unique solutions but dedup map is empty", sum.Unique)
	}
	if dm.Len() > sum.Unique {
		t.Fatalf("dedup map has %d entries, more than the %d unique rounds reported", dm.Len(), sum.Unique)
	}
}

// TestRunMatchesAcrossWorkerCounts guards solve's wiring of the CMSM/RMSM
// worker-pool-parallel paths: every round's outcome kind must be identical
// regardless of how many workers the matrix-vector products are split
// across, since MulRMGF16Parallel is required to be bit-for-bit identical
// to the serial path.
func TestRunMatchesAcrossWorkerCounts(t *testing.T) {
	f := field.GF16{}
	var kinds [][]int
	for _, nw := range []int{1, 4} {
		mac := wideMDMac(t)
		r := rand.New(rand.NewPCG(20, 30))
		dm, err := dedup.New(64)
		if err != nil {
			t.Fatalf("dedup.New: %v", err)
		}
		sum, err := Run(context.Background(), f, mac, allColIdxs(mac.NCol), 5, 6, nw, r, dm)
		if err != nil {
			t.Fatalf("Run(nWorkers=%d): %v", nw, err)
		}
		kinds = append(kinds, []int{sum.Unique, sum.Singular, sum.Inconsist})
	}
	for i := 1; i < len(kinds); i++ {
		if kinds[i][0] != kinds[0][0] || kinds[i][1] != kinds[0][1] || kinds[i][2] != kinds[0][2] {
			t.Fatalf("outcome counts diverged across worker counts: %v vs %v", kinds[0], kinds[i])
		}
	}
}
