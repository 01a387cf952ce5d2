package mocks

import (
	"context"
	"sync"

	"github.com/fieldcrew/maintenance-api/internal/events"
)

// MockEventEmitter implements events.EventEmitter and keeps emitted events.
type MockEventEmitter struct {
	EmitEventFn func(ctx context.Context, event *events.Event) error

	mu     sync.Mutex
	events []*events.Event
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

// EmitEvent implements events.EventEmitter
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	if m.EmitEventFn != nil {
		if err := m.EmitEventFn(ctx, event); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns the successfully emitted events.
func (m *MockEventEmitter) Events() []*events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.Event, len(m.events))
	copy(out, m.events)
	return out
}
