package recon

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// forEachPhase calls f for every phase with at most workers calls in flight.
// Each call must only write to storage owned by its phase.
// The first error stops phases which have not yet started.
func forEachPhase(ctx context.Context, phases, workers int, f func(p int) error) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for p := 0; p < phases; p++ {
		p := p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return f(p)
		})
	}
	return g.Wait()
}
