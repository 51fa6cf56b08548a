package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/inkpress/blog-engine/internal/domain"
	"github.com/inkpress/blog-engine/internal/events"
)

// PublishHooks carries the metric callbacks for event publishing,
// injected by main. Nil callbacks are replaced with no-ops.
type PublishHooks struct {
	OnPublished func(domain.EventKind)
	OnFailed    func(domain.EventKind)
}

func (h PublishHooks) normalized() PublishHooks {
	if h.OnPublished == nil {
		h.OnPublished = func(domain.EventKind) {}
	}
	if h.OnFailed == nil {
		h.OnFailed = func(domain.EventKind) {}
	}
	return h
}

// publishEvent hands the event to the transport, logging and swallowing any
// failure. Events are secondary effects: an unreachable transport must
// never fail the user-facing request that triggered it, it just loses the
// notification (at-most-once, best-effort).
func publishEvent(ctx context.Context, pub events.Publisher, logger *zap.Logger, hooks PublishHooks, evt domain.Event) {
	if err := pub.Publish(ctx, evt); err != nil {
		hooks.OnFailed(evt.Kind)
		logger.Warn("event publish failed, notification lost",
			zap.String("kind", string(evt.Kind)), zap.Error(err))
		return
	}
	hooks.OnPublished(evt.Kind)
}
