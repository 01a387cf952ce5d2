package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/platform/logger"
	"github.com/fieldcrew/maintenance-api/internal/store"
	"github.com/google/uuid"
)

const taskColumns = `id, title, summary, user_id, performed_at, created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.Create
// Returns store.ErrInvalidEntity if the owner doesn't exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, title, summary, user_id, performed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Summary,
		task.UserID,
		task.PerformedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, task.UserID)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.getOne(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
}

// GetByIDForUpdate implements store.TaskStore.GetByIDForUpdate
func (s *PostgresTaskStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.getOne(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id)
}

func (s *PostgresTaskStore) getOne(ctx context.Context, query string, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, store.NewStoreError("task", "get", "failed to query task", err)
	}
	return task, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	return s.list(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at, id`)
}

// ListByUser implements store.TaskStore.ListByUser
func (s *PostgresTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	return s.list(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at, id`,
		userID)
}

func (s *PostgresTaskStore) list(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "failed to query tasks", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("task", "list", "failed to scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "failed to iterate tasks", err)
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

// Update implements store.TaskStore.Update
// Only title, summary and updated_at are written; the owner and
// performed_at are never changed here.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, summary = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, task.Title, task.Summary, task.UpdatedAt, task.ID)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}
	if err := expectRows(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task updated", slog.String("task_id", task.ID.String()))
	return nil
}

// MarkPerformed implements store.TaskStore.MarkPerformed
func (s *PostgresTaskStore) MarkPerformed(ctx context.Context, id uuid.UUID, at time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET performed_at = $1, updated_at = $1
		WHERE id = $2 AND performed_at IS NULL
	`
	result, err := s.db.ExecContext(ctx, query, at, id)
	if err != nil {
		log.Error("failed to mark task performed",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return store.NewStoreError("task", "perform", "failed to update task", err)
	}

	if err := expectRows(result, store.ErrTaskAlreadyPerformed); err != nil {
		if !errors.Is(err, store.ErrTaskAlreadyPerformed) {
			return err
		}
		// Zero rows: either the task is gone or someone else performed it first.
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return store.ErrTaskAlreadyPerformed
	}

	log.Info("task marked performed",
		slog.String("task_id", id.String()),
		slog.Time("performed_at", at))
	return nil
}

// RevertPerformed implements store.TaskStore.RevertPerformed
func (s *PostgresTaskStore) RevertPerformed(ctx context.Context, id uuid.UUID, at, updatedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET performed_at = NULL, updated_at = $3
		WHERE id = $1 AND performed_at = $2
	`
	result, err := s.db.ExecContext(ctx, query, id, at, updatedAt)
	if err != nil {
		log.Error("failed to revert performed task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return store.NewStoreError("task", "revert_perform", "failed to update task", err)
	}
	if err := expectRows(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Warn("task perform reverted", slog.String("task_id", id.String()))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return store.NewStoreError("task", "delete", "failed to delete task", err)
	}
	if err := expectRows(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var performedAt sql.NullTime
	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Summary,
		&task.UserID,
		&performedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if performedAt.Valid {
		t := performedAt.Time.UTC()
		task.PerformedAt = &t
	}
	return &task, nil
}
