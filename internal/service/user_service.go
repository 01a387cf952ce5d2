package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/platform/logger"
	"github.com/fieldcrew/maintenance-api/internal/store"
)

// PasswordHasher turns a plaintext password into a storable hash.
type PasswordHasher func(password string) (string, error)

// UserService provides user provisioning. Accounts are only created by
// operators (the seed command); there is no public sign-up.
type UserService interface {
	// EnsureUser returns the user with email, creating it if absent.
	// created reports whether a new account was stored.
	EnsureUser(ctx context.Context, email, name string, role domain.Role, password string) (user *domain.User, created bool, err error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	hash      PasswordHasher
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userStore store.UserStore, hash PasswordHasher, logger *slog.Logger) (*UserServiceImpl, error) {
	if userStore == nil {
		return nil, domain.NewValidationError("userStore", "cannot be nil", domain.ErrValidation)
	}
	if hash == nil {
		return nil, domain.NewValidationError("hash", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		userStore: userStore,
		hash:      hash,
		logger:    logger.With("component", "user_service"),
	}, nil
}

// EnsureUser implements UserService.EnsureUser
func (s *UserServiceImpl) EnsureUser(
	ctx context.Context,
	email, name string,
	role domain.Role,
	password string,
) (*domain.User, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.userStore.GetByEmail(ctx, email)
	if err == nil {
		log.Debug("user already exists", "user_id", existing.ID)
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	hashed, err := s.hash(password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := domain.NewUser(email, name, role, hashed)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		// Lost a race with another seeder; the account exists now.
		if errors.Is(err, store.ErrEmailExists) {
			existing, getErr := s.userStore.GetByEmail(ctx, email)
			if getErr != nil {
				return nil, false, fmt.Errorf("failed to look up user: %w", getErr)
			}
			return existing, false, nil
		}
		log.Error("failed to save user", "error", err)
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user created",
		"user_id", user.ID,
		"role", string(user.Role))
	return user, true, nil
}
