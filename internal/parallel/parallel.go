// Package parallel runs index-addressed batch work across a fixed
// pool of goroutines. Results keep their input order because each
// call writes to its own index.
package parallel

import (
	"runtime"
	"sync"
)

// Map invokes fn for every i in [0, n), spread over the given number
// of workers in contiguous chunks. workers <= 0 selects GOMAXPROCS;
// a single worker runs inline.
func Map(n, workers int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}
