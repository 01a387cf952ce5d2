package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu     sync.Mutex
	err    error
	events []*Event
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		event, err := NewEvent(TypeTaskPerformed, map[string]string{"key": "value"})
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("every handler receives the event", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		h1, h2 := &recordingHandler{}, &recordingHandler{}
		emitter.RegisterHandler(h1)
		emitter.RegisterHandler(h2)

		event, err := NewEvent(TypeTaskPerformed, map[string]string{"key": "value"})
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		require.Equal(t, 1, h1.count())
		require.Equal(t, 1, h2.count())
		assert.Same(t, event, h1.events[0])
		assert.Same(t, event, h2.events[0])
	})

	t.Run("failing handler does not stop the others", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		boom := errors.New("handler error")
		failing := &recordingHandler{err: boom}
		after := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(after)

		event, err := NewEvent(TypeTaskPerformed, nil)
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, after.count())
	})

	t.Run("handler func adapter", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(nil)
		var got string
		emitter.RegisterHandler(EventHandlerFunc(func(ctx context.Context, e *Event) error {
			got = e.Type
			return nil
		}))

		event, err := NewEvent("custom", struct{}{})
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Equal(t, "custom", got)
	})

	t.Run("concurrent registration and emission", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		h := &recordingHandler{}
		emitter.RegisterHandler(h)

		event, err := NewEvent(TypeTaskPerformed, nil)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = emitter.EmitEvent(context.Background(), event)
			}()
			go func() {
				defer wg.Done()
				emitter.RegisterHandler(&recordingHandler{})
			}()
		}
		wg.Wait()
		assert.Equal(t, 20, h.count())
	})
}
