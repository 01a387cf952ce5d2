package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fieldcrew/maintenance-api/internal/events"
)

// LogHandler writes one notification line per manager for every
// TypeTaskPerformed event. Other event types are ignored.
type LogHandler struct {
	logger *slog.Logger
}

var _ events.EventHandler = (*LogHandler)(nil)

// NewLogHandler creates a LogHandler writing to logger.
func NewLogHandler(logger *slog.Logger) *LogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogHandler{logger: logger.With(slog.String("component", "notify_log_handler"))}
}

// HandleEvent implements events.EventHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeTaskPerformed {
		h.logger.DebugContext(ctx, "ignoring event", slog.String("event_type", event.Type))
		return nil
	}

	var payload PerformedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
	}
	if payload.Task.PerformedAt == nil {
		return fmt.Errorf("event %s: task %s has no performed time", event.ID, payload.Task.ID)
	}

	line := Message(&payload)
	for _, manager := range payload.Managers {
		h.logger.InfoContext(ctx, line,
			slog.String("manager", manager),
			slog.String("task_id", payload.Task.ID.String()),
			slog.String("event_id", event.ID.String()))
	}
	return nil
}

// Message renders the text sent to each manager.
func Message(p *PerformedPayload) string {
	performedAt := "unknown time"
	if p.Task.PerformedAt != nil {
		performedAt = p.Task.PerformedAt.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("%s performed %s on %s", p.Task.UserID, p.Task.ID, performedAt)
}
