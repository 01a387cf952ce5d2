package redisstream

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fieldcrew/maintenance-api/internal/events"
	"github.com/redis/rueidis"
)

// Emitter implements events.EventEmitter with XADD.
type Emitter struct {
	client rueidis.Client
	stream string
	logger *slog.Logger
}

var _ events.EventEmitter = (*Emitter)(nil)

// NewEmitter creates an Emitter appending to stream.
func NewEmitter(client rueidis.Client, stream string, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{
		client: client,
		stream: stream,
		logger: logger.With("component", "redis_stream_emitter", "stream", stream),
	}
}

// EmitEvent appends event to the stream. It returns once Redis has stored
// the entry; consumers are not awaited.
func (e *Emitter) EmitEvent(ctx context.Context, event *events.Event) error {
	data, err := event.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.ID, err)
	}

	cmd := e.client.B().Xadd().Key(e.stream).Id("*").FieldValue().FieldValue(EventField, string(data)).Build()
	entryID, err := e.client.Do(ctx, cmd).ToString()
	if err != nil {
		e.logger.Error("failed to append event",
			"error", err,
			"event_id", event.ID,
			"event_type", event.Type)
		return fmt.Errorf("failed to append event to stream %s: %w", e.stream, err)
	}

	e.logger.Debug("event appended",
		"event_id", event.ID,
		"event_type", event.Type,
		"entry_id", entryID)
	return nil
}
