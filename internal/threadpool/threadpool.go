// Package threadpool provides the small fixed-size worker pool the sparse
// matmul kernels (cmsm, rmsm) use to parallelize strip-partitioned work,
// mirroring gonum's fd.jacobianConcurrent: a buffered job channel drained by
// a fixed number of goroutines, joined with a sync.WaitGroup.
package threadpool

import (
	"runtime"
	"sync"
)

// NumWorkers returns a worker count clamped to [1, want] and to
// runtime.GOMAXPROCS(0), the default sizing every caller in this module uses
// unless it has a more specific bound (e.g. one worker per column strip).
func NumWorkers(want int) int {
	if want < 1 {
		want = 1
	}
	if max := runtime.GOMAXPROCS(0); want > max {
		want = max
	}
	return want
}

// Run partitions jobs across up to nWorkers goroutines and blocks until every
// job has completed. nWorkers is clamped to [1, len(jobs)].
func Run(nWorkers int, jobs []func()) {
	if len(jobs) == 0 {
		return
	}
	if nWorkers < 1 {
		nWorkers = 1
	}
	if nWorkers > len(jobs) {
		nWorkers = len(jobs)
	}
	if nWorkers == 1 {
		for _, job := range jobs {
			job()
		}
		return
	}

	ch := make(chan func(), nWorkers)
	var wg sync.WaitGroup
	for i := 0; i < nWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range ch {
				job()
			}
		}()
	}
	for _, job := range jobs {
		ch <- job
	}
	close(ch)
	wg.Wait()
}

// Strips splits [0, n) into nWorkers contiguous, nearly-equal index ranges
// [lo, hi), the fixed-partition scheme every column/row-partitioned parallel
// kernel in this module uses.
func Strips(n, nWorkers int) [][2]int {
	if nWorkers < 1 {
		nWorkers = 1
	}
	if nWorkers > n {
		nWorkers = n
	}
	if nWorkers == 0 {
		return nil
	}
	out := make([][2]int, nWorkers)
	stripSz := n / nWorkers
	lo := 0
	for i := 0; i < nWorkers-1; i++ {
		out[i] = [2]int{lo, lo + stripSz}
		lo += stripSz
	}
	out[nWorkers-1] = [2]int{lo, n}
	return out
}
