package rmsm

import (
	"math/rand/v2"
	"testing"

	"minrank/field"
	"minrank/matrix"
	"minrank/mdeg"
	"minrank/mdmac"
	"minrank/minrank"
)

func smallMDMac(t *testing.T) *mdmac.MDMac {
	t.Helper()
	f := field.GF16{}
	r := rand.New(rand.NewPCG(21, 21))
	inst, err := minrank.New(f, 3, 2, 1, 1, nil, nil, r)
	if err != nil {
		t.Fatalf("minrank.New: %v", err)
	}
	ks, err := inst.KS(1)
	if err != nil {
		t.Fatalf("KS: %v", err)
	}
	d := mdeg.New(2, 1)
	mac, err := mdmac.BuildFromKS(ks, inst, []mdeg.MDeg{d})
	if err != nil {
		t.Fatalf("BuildFromKS: %v", err)
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

func TestFromMDMacRejectsEmptyColumns(t *testing.T) {
	mac := smallMDMac(t)
	if _, err := FromMDMac(mac, nil); err == nil {
		t.Fatalf("expected error for empty column selection")
	}
}

func TestFromMDMacRejectsUnsortedColumns(t *testing.T) {
	mac := smallMDMac(t)
	if _, err := FromMDMac(mac, []uint64{2, 1}); err == nil {
		t.Fatalf("expected error for non-ascending column selection")
	}
}

func TestFromMDMacAllColumnsMatchesDense(t *testing.T) {
	mac := smallMDMac(t)
	colIdxs := allColIdxs(mac.NCol)
	m, err := FromMDMac(mac, colIdxs)
	if err != nil {
		t.Fatalf("FromMDMac: %v", err)
	}
	if m.RNum != mac.NRow || m.CNum != mac.NCol {
		t.Fatalf("shape = (%d,%d), want (%d,%d)", m.RNum, m.CNum, mac.NRow, mac.NCol)
	}
	for ri := uint64(0); ri < mac.NRow; ri++ {
		for ci := uint64(0); ci < mac.NCol; ci++ {
			if got, want := m.At(ri, ci), mac.At(ri, ci); got != want {
				t.Fatalf("At(%d,%d) = %d, want %d", ri, ci, got, want)
			}
		}
	}
}

func TestFromMDMacSubsetColumnsRemapsIndices(t *testing.T) {
	mac := smallMDMac(t)
	if mac.NCol < 2 {
		t.Skip("not enough columns to subset")
	}
	colIdxs := []uint64{0, mac.NCol - 1}
	m, err := FromMDMac(mac, colIdxs)
	if err != nil {
		t.Fatalf("FromMDMac: %v", err)
	}
	for ri := uint64(0); ri < mac.NRow; ri++ {
		for pos, orig := range colIdxs {
			if got, want := m.At(ri, uint64(pos)), mac.At(ri, orig); got != want {
				t.Fatalf("row %d mapped col %d (orig %d) = %d, want %d", ri, pos, orig, got, want)
			}
		}
	}
}

func TestFromGFMRoundTrips(t *testing.T) {
	f := field.GF16{}
	r := rand.New(rand.NewPCG(22, 22))
	a := matrix.NewGFM(4, 3)
	a.Rand(f, r)
	m := FromGFM(a)
	if m.RNum != a.NRow || m.CNum != a.NCol {
		t.Fatalf("shape mismatch")
	}
	for ri := uint64(0); ri < a.NRow; ri++ {
		for ci := uint64(0); ci < a.NCol; ci++ {
			if got := m.At(ri, ci); got != a.At(ri, ci) {
				t.Fatalf("At(%d,%d) = %d, want %d", ri, ci, got, a.At(ri, ci))
			}
		}
	}
}

func TestMulGFMMatchesDense(t *testing.T) {
	f := field.GF16{}
	r := rand.New(rand.NewPCG(23, 23))
	a := matrix.NewGFM(4, 3)
	a.Rand(f, r)
	m := FromGFM(a)

	v := matrix.NewGFM(3, 2)
	v.Rand(f, r)

	res := matrix.NewGFM(4, 2)
	if err := m.MulGFM(f, res, v); err != nil {
		t.Fatalf("MulGFM: %v", err)
	}

	want := matrix.NewGFM(4, 2)
	for ri := uint64(0); ri < 4; ri++ {
		for ci := uint64(0); ci < 2; ci++ {
			var acc byte
			for k := uint64(0); k < 3; k++ {
				acc = f.Add(acc, f.Mul(a.At(ri, k), v.At(k, ci)))
			}
			want.SetAt(ri, ci, acc)
		}
	}
	for i := range res.Data {
		if res.Data[i] != want.Data[i] {
			t.Fatalf("MulGFM mismatch at flat index %d: got %d want %d", i, res.Data[i], want.Data[i])
		}
	}
}

func toRMGF16(f field.Field, r *rand.Rand, nrow uint64) *matrix.RMGF16 {
	v := matrix.NewRMGF16(nrow)
	for ri := uint64(0); ri < nrow; ri++ {
		f.ArrRand(v.RAddr(ri), r)
	}
	return v
}

func TestMulRMGF16MatchesGFM(t *testing.T) {
	f := field.GF16{}
	r := rand.New(rand.NewPCG(24, 24))
	a := matrix.NewGFM(5, 4)
	a.Rand(f, r)
	m := FromGFM(a)

	v := toRMGF16(f, r, 4)
	res := matrix.NewRMGF16(5)
	if err := m.MulRMGF16(f, res, v); err != nil {
		t.Fatalf("MulRMGF16: %v", err)
	}

	for ri := uint64(0); ri < 5; ri++ {
		for col := 0; col < matrix.BlockWidth; col++ {
			var acc byte
			for k := uint64(0); k < 4; k++ {
				acc = f.Add(acc, f.Mul(a.At(ri, k), v.RAddr(k)[col]))
			}
			if got := res.RAddr(ri)[col]; got != acc {
				t.Fatalf("MulRMGF16 row %d col %d = %d, want %d", ri, col, got, acc)
			}
		}
	}
}

func TestMulRMGF16ParallelMatchesSerial(t *testing.T) {
	f := field.GF16{}
	r := rand.New(rand.NewPCG(25, 25))
	a := matrix.NewGFM(9, 7)
	a.Rand(f, r)
	m := FromGFM(a)

	v := toRMGF16(f, r, 7)

	serial := matrix.NewRMGF16(9)
	if err := m.MulRMGF16(f, serial, v); err != nil {
		t.Fatalf("MulRMGF16: %v", err)
	}

	for _, nw := range []int{1, 2, 4, 9} {
		parallel := matrix.NewRMGF16(9)
		if err := m.MulRMGF16Parallel(f, parallel, v, nw); err != nil {
			t.Fatalf("MulRMGF16Parallel(%d): %v", nw, err)
		}
		for i := range serial.Data {
			if serial.Data[i] != parallel.Data[i] {
				t.Fatalf("nWorkers=%d: parallel result differs from serial at index %d", nw, i)
			}
		}
	}
}

func TestAtOutOfStoreReturnsZero(t *testing.T) {
	a := matrix.NewGFM(3, 3)
	a.SetAt(0, 0, 1)
	a.SetAt(2, 2, 1)
	m := FromGFM(a)
	if got := m.At(1, 1); got != 0 {
		t.Fatalf("At(1,1) = %d, want 0", got)
	}
	if got := m.At(0, 0); got != 1 {
		t.Fatalf("At(0,0) = %d, want 1", got)
	}
}
