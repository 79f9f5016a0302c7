// Package tasks runs background units of work detached from the request that
// spawned them. Each task carries its own error and panic boundary, so a
// caller that has already been answered is never affected by a late failure
package tasks

import (
	"context"
	"sync"
	"time"

	"voxanote/internal/platform/logger"
)

// Runner spawns named background tasks
type Runner struct {
	log     logger.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRunner constructs a Runner; timeout bounds each task, 0 means no bound
func NewRunner(log logger.Logger, timeout time.Duration) *Runner {
	return &Runner{log: log, timeout: timeout}
}

// Spawn runs fn on its own goroutine with a fresh context. The task does not
// inherit the caller's context: the HTTP response has usually been written by
// the time the task runs, and its cancellation must not cancel the work
func (r *Runner) Spawn(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx := context.Background()
		var cancel context.CancelFunc
		if r.timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		defer func() {
			if v := recover(); v != nil {
				r.log.Error().Str("task", name).Interface("panic", v).Msg("task panicked")
			}
		}()

		start := time.Now()
		if err := fn(ctx); err != nil {
			r.log.Error().Str("task", name).Dur("elapsed", time.Since(start)).Err(err).Msg("task failed")
			return
		}
		r.log.Debug().Str("task", name).Dur("elapsed", time.Since(start)).Msg("task done")
	}()
}

// Wait blocks until all spawned tasks have finished; useful in tests and
// during shutdown
func (r *Runner) Wait() { r.wg.Wait() }
