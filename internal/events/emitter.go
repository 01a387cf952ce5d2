package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter calls every registered handler synchronously.
// Used when the notification driver is "memory".
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{logger: logger.With("component", "in_memory_event_emitter")}
}

func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	e.handlers = append(e.handlers, handler)
	e.mu.Unlock()
}

// EmitEvent delivers event to all handlers and returns the first failure.
// A failing handler does not stop later ones.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	e.mu.RLock()
	handlers := append([]EventHandler(nil), e.handlers...)
	e.mu.RUnlock()

	log := e.logger.With("event_id", event.ID, "event_type", event.Type)
	if len(handlers) == 0 {
		log.Warn("event dropped: no handlers")
		return nil
	}

	var firstErr error
	for i, h := range handlers {
		if err := h.HandleEvent(ctx, event); err != nil {
			log.Error("event handler failed", "error", err, "handler_index", i)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
