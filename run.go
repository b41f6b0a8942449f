package flowz

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run starts a set of wired runtimes and blocks until every processing loop
// has exited, either by graceful end-of-stream, a processing error, or
// context cancellation. If any runtime fails to start, the ones already
// started are stopped before returning.
//
// A runtime that lands in ERROR contributes its error to the result; graceful
// exits contribute nothing.
func Run(ctx context.Context, runtimes ...Runner) error {
	grp, ctx := errgroup.WithContext(ctx)

	for i, rt := range runtimes {
		if err := rt.Start(ctx); err != nil {
			for _, started := range runtimes[:i] {
				started.Stop()
			}
			return err
		}
	}

	for _, rt := range runtimes {
		rt := rt
		grp.Go(func() error {
			rt.Wait()
			return rt.Err()
		})
	}

	return grp.Wait()
}
