package operations

import (
	"context"
	"sync"
)

// BatchResult reports the outcome for one container in a batch run.
type BatchResult struct {
	Container string
	Err       error
}

// RunBatch applies fn to each container path with a bounded worker
// pool. Distinct host documents share no state, so they are safe to
// process in parallel; the per-document mutex still guards against
// the same path appearing twice in one batch.
//
// Cancellation is cooperative at batch granularity: once ctx is
// done, no further containers are dispatched, and the undispatched
// ones are reported with ctx.Err(). Containers already in flight run
// to completion.
func (s *Service) RunBatch(ctx context.Context, containerPaths []string, fn func(ctx context.Context, containerPath string) error) []BatchResult {
	workers := s.cfg.Limits.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]BatchResult, len(containerPaths))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, path := range containerPaths {
		if err := ctx.Err(); err != nil {
			results[i] = BatchResult{Container: path, Err: err}
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = BatchResult{Container: path, Err: fn(ctx, path)}
		}(i, path)
	}

	wg.Wait()
	return results
}
