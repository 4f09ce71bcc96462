// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parallel runs a function over a slice concurrently and collects
// the results in input order.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map computes fn(items[i]) for every item on a bounded pool of goroutines
// and returns the results with results[i] corresponding to items[i],
// regardless of completion order.
//
// maxWorkers <= 0 sizes the pool to len(items). Errors are fail-fast: the
// first error cancels the context passed to the remaining calls and is
// returned without partial results.
func Map[T, R any](ctx context.Context, items []T, maxWorkers int, fn func(context.Context, T) (R, error)) ([]R, error) {
	if len(items) == 0 {
		return []R{}, nil
	}
	if maxWorkers <= 0 || maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	results := make([]R, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for i, item := range items {
		g.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
