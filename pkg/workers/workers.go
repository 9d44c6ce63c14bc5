// Package workers runs independent units of a generation stage on a bounded
// pool and waits for all of them.
package workers

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit is the pool size used when a caller passes a limit <= 0.
func DefaultLimit() int {
	return runtime.GOMAXPROCS(0)
}

// ForEach calls fn for every index in [0, n) with at most limit calls in
// flight. The first error cancels the context passed to the remaining units
// and is returned once every started unit has finished. Units not yet
// started when ctx is cancelled are skipped and ctx's error is returned.
func ForEach(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return ctx.Err()
	}
	if limit <= 0 {
		limit = DefaultLimit()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
