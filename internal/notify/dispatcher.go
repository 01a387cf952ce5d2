package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/events"
	"github.com/fieldcrew/maintenance-api/internal/platform/logger"
	"github.com/fieldcrew/maintenance-api/internal/service"
	"github.com/fieldcrew/maintenance-api/internal/store"
)

// PerformedPayload is the payload of a TypeTaskPerformed event.
type PerformedPayload struct {
	Task     domain.Task `json:"task"`
	Managers []string    `json:"managers"`
}

// Dispatcher implements service.Notifier by emitting a TypeTaskPerformed
// event addressed to all managers.
type Dispatcher struct {
	users   store.UserStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

var _ service.Notifier = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher.
func NewDispatcher(users store.UserStore, emitter events.EventEmitter, logger *slog.Logger) (*Dispatcher, error) {
	if users == nil {
		return nil, fmt.Errorf("users cannot be nil")
	}
	if emitter == nil {
		return nil, fmt.Errorf("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		users:   users,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "notify_dispatcher")),
	}, nil
}

// Notify emits the event. Every failure is returned so the caller can abort.
func (d *Dispatcher) Notify(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, d.logger)

	managers, err := d.users.ListByRole(ctx, domain.RoleManager)
	if err != nil {
		return fmt.Errorf("failed to list managers: %w", err)
	}

	payload := PerformedPayload{Task: *task, Managers: make([]string, 0, len(managers))}
	for _, m := range managers {
		payload.Managers = append(payload.Managers, m.Email)
	}

	event, err := events.NewEvent(events.TypeTaskPerformed, payload)
	if err != nil {
		return err
	}
	if err := d.emitter.EmitEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to emit %s event: %w", event.Type, err)
	}

	log.Debug("performed task announced",
		slog.String("task_id", task.ID.String()),
		slog.String("event_id", event.ID.String()),
		slog.Int("manager_count", len(payload.Managers)))
	return nil
}
