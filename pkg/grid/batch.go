// SPDX-License-Identifier: MPL-2.0

package grid

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"neargrid/pkg/geom"
)

// cancelCheckStride is how many queries a batch worker answers between
// context checks. Checking per query would put a synchronized load in the
// hot loop for no practical gain in cancellation latency.
const cancelCheckStride = 256

// NearestAll answers every query and returns the source indices in query
// order. Queries are split into contiguous chunks across workers goroutines
// (GOMAXPROCS when workers <= 0). The grid is read-only during the fan-out,
// so workers share it without locking.
//
// On cancellation the first context error is returned and the result slice
// is discarded.
func (g *Grid[T]) NearestAll(ctx context.Context, queries []geom.Point, workers int) ([]int, error) {
	if len(queries) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(queries) {
		workers = len(queries)
	}

	out := make([]int, len(queries))
	eg, ctx := errgroup.WithContext(ctx)

	chunk := (len(queries) + workers - 1) / workers
	for start := 0; start < len(queries); start += chunk {
		end := start + chunk
		if end > len(queries) {
			end = len(queries)
		}

		eg.Go(func() error {
			for i := start; i < end; i++ {
				if (i-start)%cancelCheckStride == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				idx, _, ok := g.NearestNeighbor(queries[i])
				if !ok {
					idx = -1
				}
				out[i] = idx
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
