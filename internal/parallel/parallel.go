// Package parallel fans independent units of work out over a bounded number
// of goroutines.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers returns a worker count for n units of work: one for small jobs,
// otherwise up to the number of CPUs.
func Workers(n int) int {
	cpus := runtime.NumCPU()

	switch {
	case n < 2:
		return 1
	case n < 8:
		return max(1, min(n, cpus/2))
	default:
		return max(1, min(n, cpus))
	}
}

// ForEach calls fn(i) for every i in [0, n) using at most workers goroutines
// (Workers(n) when workers <= 0). Each call must write only its own output
// slot. After the first error no new calls start and that error is
// returned.
func ForEach(n, workers int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	if workers <= 0 {
		workers = Workers(n)
	}

	if workers == 1 {
		for i := range n {
			if err := fn(i); err != nil {
				return err
			}
		}

		return nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)

	for i := range n {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			return fn(i)
		})
	}

	return g.Wait()
}
