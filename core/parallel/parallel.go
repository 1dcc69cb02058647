package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items into contiguous ranges, one per worker, and runs
// fn(start, end) for each range concurrently. workers <= 0 means one worker
// per CPU core. It returns once every range has been processed.
func Parallelize(items, workers int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items // No need for more workers than items
	}

	// Calculate the number of items each worker handles (ceiling division)
	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ForEach calls fn(i) for every i in [0, items). With workers == 1 the calls
// happen in order on the calling goroutine; otherwise they are spread over
// Parallelize and may run in any order, so fn must only write to slot i of
// any shared result slice.
func ForEach(items, workers int, fn func(i int)) {
	if workers == 1 || items <= 1 {
		for i := 0; i < items; i++ {
			fn(i)
		}
		return
	}

	Parallelize(items, workers, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
