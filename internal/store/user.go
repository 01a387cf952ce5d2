package store

import (
	"context"
	"database/sql"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/google/uuid"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The user must already carry a hashed password.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address (case-insensitive).
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// ListByRole returns every user holding role, ordered by email.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
