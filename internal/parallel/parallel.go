// Package parallel runs bounded fan-out over indexed work items.
package parallel

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// ForEach invokes fn for every index in [0, n) using at most workers
// goroutines. A failing item does not cancel its siblings; every item is
// attempted and the returned error combines all per-item errors.
func ForEach(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	errs := make([]error, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			errs[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait() // Closures return nil; failures are in errs.
	return multierr.Combine(errs...)
}

// Join runs the given functions concurrently and waits for all of them.
// The returned error combines every non-nil result.
func Join(fns ...func() error) error {
	errs := make([]error, len(fns))
	var wg sync.WaitGroup
	for i, fn := range fns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = fn()
		}()
	}
	wg.Wait()
	return multierr.Combine(errs...)
}
