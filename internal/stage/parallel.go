package stage

import (
	"runtime"
	"sync"
)

// getWorkers returns the configured worker count, or one per CPU.
func getWorkers(meta *Meta) int {
	n := runtime.NumCPU()
	if meta != nil && meta.Settings.Workers > 0 {
		n = meta.Settings.Workers
	}
	return max(n, 1)
}

// runIndexedParallel calls fn for every index in [0,n) on at most workers
// goroutines. out[i] holds fn(i) whatever the completion order.
func runIndexedParallel[T any](n, workers int, fn func(int) T) []T {
	out := make([]T, n)
	workers = min(workers, n)
	if workers <= 1 {
		for i := range n {
			out[i] = fn(i)
		}
		return out
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				out[idx] = fn(idx)
			}
		}()
	}
	for i := range n {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}
