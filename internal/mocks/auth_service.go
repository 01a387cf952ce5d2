package mocks

import (
	"context"

	"github.com/fieldcrew/maintenance-api/internal/service/auth"
)

// MockAuthService implements auth.AuthService for testing
type MockAuthService struct {
	LoginFn func(ctx context.Context, email, password string) (string, error)
}

var _ auth.AuthService = (*MockAuthService)(nil)

// Login implements auth.AuthService
func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return "", auth.ErrInvalidCredentials
}
