package mdeg

import "testing"

func TestIsLe(t *testing.T) {
	a := New(1, 2)
	b := New(1, 3)
	if !a.IsLe(b) {
		t.Fatalf("expected %v <= %v", a, b)
	}
	if b.IsLe(a) {
		t.Fatalf("did not expect %v <= %v", b, a)
	}
}

func TestNextMixedRadix(t *testing.T) {
	dmax := New(1, 1)
	d := Zero(1)
	var seq []MDeg
	seq = append(seq, d)
	for {
		next, ok := Next(d, dmax)
		if !ok {
			break
		}
		seq = append(seq, next)
		d = next
	}
	if uint64(len(seq)) != NumSubdegs(dmax) {
		t.Fatalf("visited %d multi-degrees, want %d", len(seq), NumSubdegs(dmax))
	}
	// first digit (index 0) must advance fastest.
	if seq[1].D[0] != 1 || seq[1].D[1] != 0 {
		t.Fatalf("second visited degree = %v, want (1,0)", seq[1].D)
	}
}

func TestIterSubdegsUnionCount(t *testing.T) {
	// Scenario 5 from the specification: iter_subdegs(d=(1,2,1)) visits 12
	// multi-degrees (the product of (1+1)*(2+1)*(1+1) = 12).
	d := New(1, 2, 1)
	count := IterSubdegsUnion([]MDeg{d}, func(MDeg) bool { return true })
	if count != 12 {
		t.Fatalf("iter_subdegs_union visited %d multi-degrees, want 12", count)
	}
}

func TestIterSubdegsUnionOrderStartsAtZero(t *testing.T) {
	d := New(1, 1)
	var visited []MDeg
	IterSubdegsUnion([]MDeg{d}, func(m MDeg) bool {
		visited = append(visited, m)
		return true
	})
	if len(visited) == 0 || visited[0].D[0] != 0 || visited[0].D[1] != 0 {
		t.Fatalf("expected first visited multi-degree to be (0,0), got %v", visited[0].D)
	}
}

func TestMonoNumTrivial(t *testing.T) {
	// degree 0 in every group always has exactly one monomial: the empty one.
	d := Zero(2)
	if n := MonoNum(d, 5, 3); n != 1 {
		t.Fatalf("MonoNum(zero degree) = %d, want 1", n)
	}
}

func TestBinom(t *testing.T) {
	if Binom(5, 2) != 10 {
		t.Fatalf("C(5,2) = %d, want 10", Binom(5, 2))
	}
	if Binom(5, 0) != 1 {
		t.Fatalf("C(5,0) = %d, want 1", Binom(5, 0))
	}
	if Binom(2, 5) != 0 {
		t.Fatalf("C(2,5) = %d, want 0", Binom(2, 5))
	}
}
