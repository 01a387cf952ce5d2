package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fieldcrew/maintenance-api/internal/platform/logger"
	"github.com/fieldcrew/maintenance-api/internal/store"
)

// AuthService exchanges credentials for access tokens.
type AuthService interface {
	// Login verifies email and password and returns a signed access token.
	// Returns ErrInvalidCredentials for an unknown email or a wrong password.
	Login(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	users    store.UserStore
	verifier PasswordVerifier
	tokens   JWTService
	logger   *slog.Logger
}

var _ AuthService = (*authService)(nil)

// NewAuthService creates an AuthService.
// It returns an error if any of the required dependencies are nil.
func NewAuthService(
	users store.UserStore,
	verifier PasswordVerifier,
	tokens JWTService,
	logger *slog.Logger,
) (AuthService, error) {
	if users == nil {
		return nil, errors.New("users cannot be nil")
	}
	if verifier == nil {
		return nil, errors.New("verifier cannot be nil")
	}
	if tokens == nil {
		return nil, errors.New("tokens cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &authService{
		users:    users,
		verifier: verifier,
		tokens:   tokens,
		logger:   logger.With(slog.String("component", "auth_service")),
	}, nil
}

// Login implements AuthService.Login
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown email")
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login attempt with wrong password", slog.String("user_id", user.ID.String()))
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(ctx, user)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info("user logged in",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return token, nil
}
