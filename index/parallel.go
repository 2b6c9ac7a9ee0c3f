package index

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// hitsParallelEach runs fn over items concurrently, sharded across
// GOMAXPROCS workers, mirroring internal/hits's authority/hub sweep
// parallelization. It is used for the second pass of Search, where each
// candidate document's relevance score is computed independently of every
// other candidate's.
func hitsParallelEach[T any](items []T, fn func(T)) {
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}
	if workers <= 1 {
		for _, item := range items {
			fn(item)
		}
		return
	}

	chunkSize := (len(items) + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < len(items); start += chunkSize {
		end := start + chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]
		g.Go(func() error {
			for _, item := range chunk {
				fn(item)
			}
			return nil
		})
	}
	_ = g.Wait() // fn never errors
}
