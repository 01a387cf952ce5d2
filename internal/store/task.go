package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/google/uuid"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task. Returns ErrInvalidEntity when validation fails
	// or the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetByIDForUpdate retrieves a task and locks its row until the
	// surrounding transaction ends. Only meaningful on a store from WithTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns all tasks ordered by creation time, oldest first.
	List(ctx context.Context) ([]*domain.Task, error)

	// ListByUser returns the tasks owned by userID ordered by creation time.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Update persists title, summary and updated_at of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// MarkPerformed sets performed_at only if it is still null.
	// Returns ErrTaskNotFound if the task does not exist and
	// ErrTaskAlreadyPerformed if it was performed before.
	MarkPerformed(ctx context.Context, id uuid.UUID, at time.Time) error

	// RevertPerformed clears performed_at and restores updatedAt, but only
	// while performed_at still equals at. Returns ErrTaskNotFound when no
	// such row exists.
	RevertPerformed(ctx context.Context, id uuid.UUID, at, updatedAt time.Time) error

	// Delete removes a task. Returns ErrTaskNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
