package client

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// CallMany runs each fn concurrently as "many lightweight blocking tasks"
// (spec.md §5), bounded by limit concurrent goroutines, short-circuiting on
// the first error the way errgroup.Group does, and returns results in the
// same order as fns. limit <= 0 means unbounded (errgroup's own default).
func CallMany[T any](ctx context.Context, limit int, fns ...func(ctx context.Context) (T, error)) ([]T, error) {
	results := make([]T, len(fns))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, fn := range fns {
		i, fn := i, fn
		g.Go(func() error {
			result, err := fn(gctx)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
