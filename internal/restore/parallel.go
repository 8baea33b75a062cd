package restore

import (
	"context"

	"github.com/cybertec-postgresql/sqlrestore/internal/discovery"
	"github.com/cybertec-postgresql/sqlrestore/internal/splitter"
	"golang.org/x/sync/errgroup"
)

// WorkerPool reads and splits scripts concurrently
type WorkerPool struct {
	maxWorkers int
}

// NewWorkerPool creates a new worker pool with the given concurrency limit
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{maxWorkers: maxWorkers}
}

// SplitParallel reads and splits files with at most maxWorkers goroutines.
// Results keep the order of files; the first error cancels the rest.
func (wp *WorkerPool) SplitParallel(ctx context.Context, files []discovery.DiscoveredFile) ([]*SplitResult, error) {
	results := make([]*SplitResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.maxWorkers)

	for i := range files {
		file := &files[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			script, err := discovery.ReadScript(file)
			if err != nil {
				return err
			}
			results[i] = &SplitResult{
				File:       file,
				Script:     script,
				Statements: splitter.SplitStatements(script),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
