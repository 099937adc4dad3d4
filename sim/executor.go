package sim

import (
	"context"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// Executor is a bounded worker-pool cluster.Executor. Submitted tasks queue
// on an internal channel and run on one of a fixed number of workers
// started by Run.
type Executor struct {
	tasks  chan func()
	closed *atomic.Bool
}

// NewExecutor creates an Executor with the given queue depth. Call Run to
// start its workers.
func NewExecutor(queueDepth int) *Executor {
	return &Executor{
		tasks:  make(chan func(), queueDepth),
		closed: atomic.NewBool(false),
	}
}

// Submit queues task to run on a worker. It is a no-op once Close has been
// called.
func (e *Executor) Submit(task func()) {
	if e.closed.Load() {
		return
	}
	e.tasks <- task
}

// Run starts workers workers, each pulling from the task queue until ctx is
// cancelled. Run blocks until every worker has exited.
func (e *Executor) Run(ctx context.Context, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case task := <-e.tasks:
					task()
				}
			}
		})
	}
	return g.Wait()
}

// Close prevents further submissions. Queued tasks that are already
// in-flight are unaffected; Run's context cancellation is what stops
// workers.
func (e *Executor) Close() {
	e.closed.Store(true)
}
