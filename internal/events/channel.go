package events

import (
	"context"
	"fmt"

	"github.com/inkpress/blog-engine/internal/domain"
)

// Handler is invoked once per delivered event, sequentially per topic.
// Handlers must never panic the subscriber loop; they log and drop instead.
type Handler func(ctx context.Context, evt domain.Event)

// Publisher is the write side of the event channel. Publish hands the
// serialized payload to the transport and returns; it never waits for a
// subscriber. Delivery is at-most-once: events published while no
// subscriber is connected are lost, by design.
type Publisher interface {
	Publish(ctx context.Context, evt domain.Event) error
}

// Channel is a named publish/subscribe transport with one topic per event
// kind. Subscribe blocks, delivering events in arrival order, until ctx is
// cancelled. No ordering is guaranteed across topics.
type Channel interface {
	Publisher
	Subscribe(ctx context.Context, kind domain.EventKind, h Handler) error
}

// Topic derives the transport topic for an event kind.
func Topic(kind domain.EventKind) string {
	return fmt.Sprintf("events:%s", kind)
}
