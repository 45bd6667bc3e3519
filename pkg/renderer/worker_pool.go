package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WorkerPool renders tiles in parallel with a bounded number of workers
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run calls render once per tile and waits for all of them. Tiles cover
// disjoint pixels, so render may write to shared output without locking.
// The first error cancels tiles that have not started yet.
func (wp *WorkerPool) Run(ctx context.Context, tiles []*Tile, render func(*Tile) error) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(wp.numWorkers)

	for _, tile := range tiles {
		if groupCtx.Err() != nil {
			break
		}
		tile := tile
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			return render(tile)
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
