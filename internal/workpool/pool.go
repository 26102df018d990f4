// Package workpool runs independent work units on a bounded number of
// goroutines and joins them at a barrier.
//
// The discovery phases use it one at a time: the sampler and the validators
// each hand it a batch of units, wait for the join, and only then merge the
// per-unit results. Workers never share mutable state.
package workpool

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/teranos/depminer/errors"
)

// Run calls fn for every unit index in [0, n) using at most threads
// goroutines and returns after all started units finished. The first error
// cancels the context passed to the remaining units and is returned.
//
// threads == 1 runs the units inline, in order.
func Run(ctx context.Context, threads, n int, fn func(ctx context.Context, unit int) error) error {
	if threads < 1 {
		return errors.NewConfigurationError("thread count must be >= 1, got %d", threads)
	}
	if threads == 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		unit := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, unit)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Map runs fn for every unit like Run and returns the results indexed by
// unit, so merging them afterwards is independent of scheduling order.
func Map[T any](ctx context.Context, threads, n int, fn func(ctx context.Context, unit int) (T, error)) ([]T, error) {
	out := make([]T, n)
	err := Run(ctx, threads, n, func(ctx context.Context, unit int) error {
		v, err := fn(ctx, unit)
		if err != nil {
			return err
		}
		out[unit] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
