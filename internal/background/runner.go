package background

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// taskTimeout bounds a single detached task. It is generous: a bulk mail
// fan-out at the configured rate cap can take a while.
const taskTimeout = 5 * time.Minute

// Runner executes detached tasks: secondary effects of a request (mail
// fan-out, welcome mail) that run after the response is sent. Each task
// gets its own context and error boundary — a panic or failure inside a
// task is logged and never resurfaces into the request/response cycle.
type Runner struct {
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{logger: logger}
}

// Go runs fn on its own goroutine with a fresh, deadline-bounded context.
// The task is deliberately not tied to the triggering request's context:
// the response has already been (or is about to be) written, and cancelling
// the fan-out with it would silently drop mail.
func (r *Runner) Go(name string, fn func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("detached task panicked",
					zap.String("task", name), zap.Any("panic", rec))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()
		fn(ctx)
	}()
}

// Wait blocks until every detached task has settled. Called on shutdown so
// in-flight fan-outs finish before the process exits.
func (r *Runner) Wait() {
	r.wg.Wait()
}
