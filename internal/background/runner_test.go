package background_test

import (
	"context"
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/inkpress/blog-engine/internal/background"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunner_RunsTaskAndWaits(t *testing.T) {
	r := background.NewRunner(zap.NewNop())

	var ran atomic.Bool
	r.Go("task", func(ctx context.Context) {
		ran.Store(true)
	})
	r.Wait()

	if !ran.Load() {
		t.Fatal("task never ran")
	}
}

func TestRunner_TaskContextIsDetached(t *testing.T) {
	r := background.NewRunner(zap.NewNop())

	var alive atomic.Bool
	r.Go("task", func(ctx context.Context) {
		// The task's context must not already be cancelled: it is
		// independent of whatever request triggered it.
		alive.Store(ctx.Err() == nil)
	})
	r.Wait()

	if !alive.Load() {
		t.Fatal("task context was cancelled at start")
	}
}

func TestRunner_RecoversPanic(t *testing.T) {
	r := background.NewRunner(zap.NewNop())

	r.Go("panics", func(ctx context.Context) {
		panic("boom")
	})
	// Wait returning at all proves the panic did not escape the task.
	r.Wait()

	var after atomic.Bool
	r.Go("survivor", func(ctx context.Context) { after.Store(true) })
	r.Wait()
	if !after.Load() {
		t.Fatal("runner unusable after a panicking task")
	}
}
