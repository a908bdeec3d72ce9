package world

import (
	"context"
	"runtime"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// parallelFactor controls how many groups per-entity work is split into.
var parallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if parallelFactor <= 0 {
		parallelFactor = 1
	}
}

// forEachEntityParallel fans work out over contiguous groups of entities.
// Entities are record-disjoint within a phase, so the result is independent
// of interleaving. Per-entity errors are combined rather than short-circuiting
// the group; a canceled context stops remaining work.
func forEachEntityParallel(ctx context.Context, entities []Entity, work func(Entity) error) error {
	if len(entities) == 0 {
		return nil
	}

	numGroups := parallelFactor
	if len(entities) < numGroups {
		numGroups = len(entities)
	}
	groupSize := (len(entities) + numGroups - 1) / numGroups

	g, ctx := errgroup.WithContext(ctx)
	for from := 0; from < len(entities); from += groupSize {
		to := from + groupSize
		if to > len(entities) {
			to = len(entities)
		}
		group := entities[from:to]
		g.Go(func() error {
			var err error
			for _, e := range group {
				if ctx.Err() != nil {
					return multierr.Combine(err, ctx.Err())
				}
				err = multierr.Combine(err, work(e))
			}
			return err
		})
	}
	return g.Wait()
}
