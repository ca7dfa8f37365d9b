package gfa

import "testing"

func TestGFARoundTrip(t *testing.T) {
	// Scenario 4 from the specification.
	arena, cols := NewColumns([]int{3})
	g := cols[0]
	g.SetSize(3)
	g.SetAt(0, 0, 3)
	g.SetAt(1, 7, 15)
	g.SetAt(2, 42, 1)

	if g.Size() != 3 {
		t.Fatalf("size = %d, want 3", g.Size())
	}
	if idx, v := g.At(1); idx != 7 || v != 15 {
		t.Fatalf("At(1) = (%d,%d), want (7,15)", idx, v)
	}
	g.SetAt(1, 8, 9)
	if idx, v := g.At(1); idx != 8 || v != 9 {
		t.Fatalf("At(1) after overwrite = (%d,%d), want (8,9)", idx, v)
	}
	if arena.Used() != 3 {
		t.Fatalf("arena used = %d, want 3", arena.Used())
	}
}

func TestAppendGrowsWithinCapacity(t *testing.T) {
	_, cols := NewColumns([]int{2})
	g := cols[0]
	if n := g.Append(5, 1); n != 1 {
		t.Fatalf("first append size = %d, want 1", n)
	}
	if n := g.Append(9, 2); n != 2 {
		t.Fatalf("second append size = %d, want 2", n)
	}
	if g.Cap() != 2 {
		t.Fatalf("cap = %d, want 2", g.Cap())
	}
}

func TestCheckAscend(t *testing.T) {
	_, cols := NewColumns([]int{3})
	g := cols[0]
	g.Append(1, 1)
	g.Append(5, 1)
	g.Append(9, 1)
	if !g.CheckAscend() {
		t.Fatalf("expected ascending indices to pass CheckAscend")
	}

	_, cols2 := NewColumns([]int{2})
	bad := cols2[0]
	bad.Append(5, 1)
	bad.Append(5, 1)
	if bad.CheckAscend() {
		t.Fatalf("expected non-strictly-ascending indices to fail CheckAscend")
	}
}

func TestArenaSharedBacking(t *testing.T) {
	arena, cols := NewColumns([]int{2, 3})
	if arena.Cap() != 5 {
		t.Fatalf("arena cap = %d, want 5", arena.Cap())
	}
	cols[0].Append(1, 1)
	cols[1].Append(2, 2)
	if cols[0].Size() != 1 || cols[1].Size() != 1 {
		t.Fatalf("independent views should grow independently")
	}
}
