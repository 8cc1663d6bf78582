package processors

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// joinAll runs fn for indices 0..n-1 concurrently and waits for all of them.
// It returns the first error; whatever the other calls produced is discarded
// by the caller. The context passed to fn is cancelled after the first error.
func joinAll(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
