package redisstream

import (
	"context"
	"testing"

	"github.com/fieldcrew/maintenance-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHandler() events.EventHandler {
	return events.EventHandlerFunc(func(ctx context.Context, e *events.Event) error { return nil })
}

func TestNewConsumer_Validation(t *testing.T) {
	valid := ConsumerConfig{Stream: "performs", Group: "notifier", Consumer: "n1"}

	tests := []struct {
		name    string
		cfg     ConsumerConfig
		handler events.EventHandler
	}{
		{"missing stream", ConsumerConfig{Group: "g", Consumer: "c"}, noopHandler()},
		{"missing group", ConsumerConfig{Stream: "s", Consumer: "c"}, noopHandler()},
		{"missing consumer", ConsumerConfig{Stream: "s", Group: "g"}, noopHandler()},
		{"missing handler", valid, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConsumer(nil, tc.cfg, tc.handler, nil)
			assert.Error(t, err)
		})
	}
}

func TestNewConsumer_Defaults(t *testing.T) {
	c, err := NewConsumer(nil, ConsumerConfig{Stream: "performs", Group: "notifier", Consumer: "n1"}, noopHandler(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(defaultBatchSize), c.cfg.BatchSize)
	assert.Equal(t, defaultBlock, c.cfg.Block)
}

func TestNextCursor(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
		read   int
		acked  int
		want   string
	}{
		{"replay made progress", cursorPending, 3, 2, cursorPending},
		{"replay stuck", cursorPending, 3, 0, cursorNew},
		{"nothing pending", cursorPending, 0, 0, cursorNew},
		{"new entries", cursorNew, 2, 1, cursorNew},
		{"idle stream retries pending", cursorNew, 0, 0, cursorPending},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nextCursor(tc.cursor, tc.read, tc.acked))
		})
	}
}
