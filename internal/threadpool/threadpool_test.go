package threadpool

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestRunExecutesAllJobs(t *testing.T) {
	var n int64
	jobs := make([]func(), 50)
	for i := range jobs {
		jobs[i] = func() { atomic.AddInt64(&n, 1) }
	}
	Run(4, jobs)
	if n != 50 {
		t.Fatalf("n = %d, want 50", n)
	}
}

func TestRunSerializesWithOneWorker(t *testing.T) {
	var mu sync.Mutex
	order := []int{}
	jobs := make([]func(), 5)
	for i := range jobs {
		i := i
		jobs[i] = func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}
	}
	Run(1, jobs)
	for i, v := range order {
		if v != i {
			t.Fatalf("serial run out of order: %v", order)
		}
	}
}

func TestStripsCoverRangeExactlyOnce(t *testing.T) {
	strips := Strips(17, 4)
	covered := make([]bool, 17)
	for _, s := range strips {
		for i := s[0]; i < s[1]; i++ {
			if covered[i] {
				t.Fatalf("index %d covered twice", i)
			}
			covered[i] = true
		}
	}
	for i, c := range covered {
		if !c {
			t.Fatalf("index %d not covered by any strip", i)
		}
	}
}

func TestStripsClampsWorkerCount(t *testing.T) {
	strips := Strips(3, 10)
	if len(strips) != 3 {
		t.Fatalf("len(strips) = %d, want 3 (clamped to n)", len(strips))
	}
}

func TestNumWorkersClampsToAtLeastOne(t *testing.T) {
	if got := NumWorkers(0); got != 1 {
		t.Fatalf("NumWorkers(0) = %d, want 1", got)
	}
}
