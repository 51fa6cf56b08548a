package events

import (
	"context"
	"sync"

	"github.com/inkpress/blog-engine/internal/domain"
)

// MockChannel is a hand-written, in-memory Channel used in unit tests.
// Publish delivers synchronously to any handlers registered via Handle,
// records every event, and mimics at-most-once semantics: events with no
// registered handler are simply lost.
type MockChannel struct {
	mu        sync.Mutex
	handlers  map[domain.EventKind][]Handler
	published []domain.Event

	// Optional error override — set in tests to simulate transport failure.
	PublishErr error
}

func NewMockChannel() *MockChannel {
	return &MockChannel{handlers: make(map[domain.EventKind][]Handler)}
}

// Handle registers a handler without the blocking Subscribe loop.
func (m *MockChannel) Handle(kind domain.EventKind, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[kind] = append(m.handlers[kind], h)
}

func (m *MockChannel) Publish(ctx context.Context, evt domain.Event) error {
	if m.PublishErr != nil {
		return m.PublishErr
	}
	m.mu.Lock()
	m.published = append(m.published, evt)
	handlers := append([]Handler(nil), m.handlers[evt.Kind]...)
	m.mu.Unlock()

	for _, h := range handlers {
		h(ctx, evt)
	}
	return nil
}

// Subscribe registers the handler and blocks until ctx is cancelled,
// matching the real transport's contract.
func (m *MockChannel) Subscribe(ctx context.Context, kind domain.EventKind, h Handler) error {
	m.Handle(kind, h)
	<-ctx.Done()
	return nil
}

// Published returns a copy of every event published so far.
func (m *MockChannel) Published() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Event(nil), m.published...)
}

var _ Channel = (*MockChannel)(nil)
