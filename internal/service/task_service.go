package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/platform/logger"
	"github.com/fieldcrew/maintenance-api/internal/store"
	"github.com/google/uuid"
)

// Notifier announces that a task has been performed.
// A returned error aborts the perform operation.
type Notifier interface {
	Notify(ctx context.Context, task *domain.Task) error
}

// TaskService provides the task lifecycle operations.
// Role checks are the caller's job; the service enforces ownership and state.
type TaskService interface {
	// List returns every task for a manager and the actor's own tasks otherwise,
	// oldest first. The result is never nil.
	List(ctx context.Context, actor domain.Actor) ([]*domain.Task, error)

	// Get returns a single task. Technicians only see their own tasks.
	Get(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Task, error)

	// Create adds a pending task owned by actor.
	Create(ctx context.Context, actor domain.Actor, title, summary string) (*domain.Task, error)

	// Update changes title and/or summary of a pending task owned by actor.
	Update(ctx context.Context, id uuid.UUID, actor domain.Actor, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes a task regardless of owner or state.
	Delete(ctx context.Context, id uuid.UUID) error

	// Perform marks a pending task performed and notifies the managers.
	// If the notification fails the task is reverted to pending.
	Perform(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

// TaskServiceOption customizes a TaskService.
type TaskServiceOption func(*taskServiceImpl)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

type taskServiceImpl struct {
	tasks    store.TaskStore
	tx       store.TxManager
	notifier Notifier
	now      func() time.Time
	logger   *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	tx store.TxManager,
	notifier Notifier,
	logger *slog.Logger,
	opts ...TaskServiceOption,
) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if notifier == nil {
		return nil, domain.NewValidationError("notifier", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		tasks:    tasks,
		tx:       tx,
		notifier: notifier,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "task_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// timestamp returns the current time at the precision PostgreSQL stores.
func (s *taskServiceImpl) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// List implements TaskService.List
func (s *taskServiceImpl) List(ctx context.Context, actor domain.Actor) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		tasks []*domain.Task
		err   error
	)
	if actor.Role == domain.RoleManager {
		tasks, err = s.tasks.List(ctx)
	} else {
		tasks, err = s.tasks.ListByUser(ctx, actor.ID)
	}
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", actor.ID.String()))
		return nil, NewTaskServiceError("list", "failed to list tasks", err)
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreError(ctx, "get", id, err)
	}

	// Technicians must not learn that someone else's task exists.
	if actor.Role != domain.RoleManager && !task.OwnedBy(actor.ID) {
		return nil, taskNotFound(id)
	}
	return task, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(
	ctx context.Context,
	actor domain.Actor,
	title, summary string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(actor.ID, title, summary)
	if err != nil {
		log.Debug("rejected invalid task", slog.String("error", err.Error()))
		return nil, err
	}
	now := s.timestamp()
	task.CreatedAt = now
	task.UpdatedAt = now

	if err := s.tasks.Create(ctx, task); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", actor.ID.String()))
		return nil, NewTaskServiceError("create", "failed to save task", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", actor.ID.String()))
	return task, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	actor domain.Actor,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Task
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		task, err := txTasks.GetByIDForUpdate(ctx, id)
		if err != nil {
			return s.mapStoreError(ctx, "update", id, err)
		}
		if !task.OwnedBy(actor.ID) {
			log.Debug("update rejected: task owned by another user",
				slog.String("task_id", id.String()),
				slog.String("user_id", actor.ID.String()))
			return taskNotFound(id)
		}
		if task.IsPerformed() {
			return taskAlreadyPerformed(id)
		}

		if patch.IsEmpty() {
			updated = task
			return nil
		}
		if err := patch.Apply(task, s.timestamp()); err != nil {
			return err
		}
		if err := txTasks.Update(ctx, task); err != nil {
			return s.mapStoreError(ctx, "update", id, err)
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("task updated", slog.String("task_id", id.String()))
	return updated, nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return s.mapStoreError(ctx, "delete", id, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// Perform implements TaskService.Perform
// The guarded write commits before Notify runs; no connection or row lock is
// held while managers are looked up and the event is published. A failed
// notification is compensated by RevertPerformed.
func (s *taskServiceImpl) Perform(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		performed   *domain.Task
		prevUpdated time.Time
	)
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		task, err := txTasks.GetByIDForUpdate(ctx, id)
		if err != nil {
			return s.mapStoreError(ctx, "perform", id, err)
		}
		if task.IsPerformed() {
			return taskAlreadyPerformed(id)
		}

		at := s.timestamp()
		if err := txTasks.MarkPerformed(ctx, id, at); err != nil {
			return s.mapStoreError(ctx, "perform", id, err)
		}
		prevUpdated = task.UpdatedAt
		task.PerformedAt = &at
		task.UpdatedAt = at

		performed = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.Notify(ctx, performed); err != nil {
		log.Error("failed to notify managers, reverting perform",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		s.revertPerform(ctx, performed, prevUpdated)
		return nil, NewTaskServiceError("perform", "failed to notify managers", err)
	}

	log.Info("task performed",
		slog.String("task_id", id.String()),
		slog.String("user_id", performed.UserID.String()))
	return performed, nil
}

// revertPerform undoes a committed perform whose notification failed.
// It runs even if the request was cancelled.
func (s *taskServiceImpl) revertPerform(ctx context.Context, task *domain.Task, prevUpdated time.Time) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.tasks.RevertPerformed(context.WithoutCancel(ctx), task.ID, *task.PerformedAt, prevUpdated)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrTaskNotFound):
		// Deleted in the meantime.
		log.Debug("nothing to revert", slog.String("task_id", task.ID.String()))
	default:
		log.Error("failed to revert perform; task stays performed without notification",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
	}
}

// mapStoreError converts store errors into service errors for task id.
func (s *taskServiceImpl) mapStoreError(ctx context.Context, op string, id uuid.UUID, err error) error {
	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		return taskNotFound(id)
	case errors.Is(err, store.ErrTaskAlreadyPerformed):
		return taskAlreadyPerformed(id)
	case errors.Is(err, domain.ErrValidation):
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Error("task store operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()),
		slog.String("task_id", id.String()))
	return NewTaskServiceError(op, "task store operation failed", err)
}
