package pipeline

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrRunnerClosed is returned when submitting to a closed runner.
var ErrRunnerClosed = errors.New("pipeline runner is closed")

// Task is the handle for one submitted pipeline run. Done is closed when the
// run finishes; Err() is valid only after Done.
type Task struct {
	done chan struct{}
	err  error
}

// Done returns a channel closed when the task completes.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the task's outcome. Call only after Done is closed.
func (t *Task) Err() error {
	return t.err
}

// Runner executes pipeline runs as supervised background tasks with a
// concurrency cap. Submitted runs are detached from the caller's context:
// an upload handler returning must not cancel its pipeline.
type Runner struct {
	sem    chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
	logger *zap.Logger
}

// NewRunner creates a runner allowing at most maxConcurrent simultaneous runs
func NewRunner(maxConcurrent int, logger *zap.Logger) *Runner {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Runner{
		sem:    make(chan struct{}, maxConcurrent),
		logger: logger,
	}
}

// Submit schedules fn as a background task and returns its handle. The task
// runs on a context detached from ctx's cancellation but keeps its values.
func (r *Runner) Submit(ctx context.Context, fn func(ctx context.Context) error) (*Task, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRunnerClosed
	}
	r.wg.Add(1)
	r.mu.Unlock()

	task := &Task{done: make(chan struct{})}
	runCtx := context.WithoutCancel(ctx)

	go func() {
		defer r.wg.Done()
		defer close(task.done)

		r.sem <- struct{}{}
		defer func() { <-r.sem }()

		task.err = fn(runCtx)
	}()

	return task, nil
}

// Close stops accepting new tasks and waits for in-flight runs to drain.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Info("🛑 Pipeline runner draining")
	}
	r.wg.Wait()
}
