package sim

import (
	"runtime"
	"sync"
)

// parallelRange fans fn out over [0,n) across GOMAXPROCS contiguous,
// disjoint slices and blocks until all workers finish — the phase-barrier
// primitive §5 calls for, and idiomatic Go's answer to tbb::parallel_for.
// Grounded in the teacher's own raw-goroutine phase-barrier idiom
// (SPHFluid.Compute/ComputeDensities, VoxelArray.Run use a channel barrier
// over worker goroutines); generalized here to a plain WaitGroup since the
// workers never need to report back a value.
func parallelRange(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
