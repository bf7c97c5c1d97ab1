package knowledge

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// fetchAll runs the reads concurrently and returns the first failure. A
// failure cancels the context shared by the remaining reads.
func fetchAll(ctx context.Context, reads ...func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, read := range reads {
		g.Go(func() error {
			return read(gctx)
		})
	}
	return g.Wait()
}
