package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/mocks"
	"github.com/fieldcrew/maintenance-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthService_RequiresDependencies(t *testing.T) {
	users := mocks.NewMockUserStore()
	verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
	tokens := &mocks.MockJWTService{}

	_, err := auth.NewAuthService(nil, verifier, tokens, nil)
	assert.Error(t, err)
	_, err = auth.NewAuthService(users, nil, tokens, nil)
	assert.Error(t, err)
	_, err = auth.NewAuthService(users, verifier, nil, nil)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	user := newTestUser(t, domain.RoleTechnician)

	t.Run("success", func(t *testing.T) {
		tokens := &mocks.MockJWTService{Token: "signed-token"}
		svc, err := auth.NewAuthService(mocks.NewMockUserStore(user), &mocks.MockPasswordVerifier{ShouldSucceed: true}, tokens, nil)
		require.NoError(t, err)

		token, err := svc.Login(ctx, "Technician@Example.com", "super-secret-password")
		require.NoError(t, err)
		assert.Equal(t, "signed-token", token)
	})

	t.Run("unknown email", func(t *testing.T) {
		verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
		svc, err := auth.NewAuthService(mocks.NewMockUserStore(), verifier, &mocks.MockJWTService{Token: "x"}, nil)
		require.NoError(t, err)

		_, err = svc.Login(ctx, "nobody@example.com", "super-secret-password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		assert.Equal(t, 0, verifier.CompareCallCount)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, err := auth.NewAuthService(mocks.NewMockUserStore(user), &mocks.MockPasswordVerifier{ShouldSucceed: false}, &mocks.MockJWTService{Token: "x"}, nil)
		require.NoError(t, err)

		_, err = svc.Login(ctx, user.Email, "wrong-password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("store failure is not a credential error", func(t *testing.T) {
		users := mocks.NewMockUserStore()
		users.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
			return nil, errors.New("db down")
		}
		svc, err := auth.NewAuthService(users, &mocks.MockPasswordVerifier{ShouldSucceed: true}, &mocks.MockJWTService{Token: "x"}, nil)
		require.NoError(t, err)

		_, err = svc.Login(ctx, user.Email, "whatever1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("token failure", func(t *testing.T) {
		tokens := &mocks.MockJWTService{Err: errors.New("sign failed")}
		svc, err := auth.NewAuthService(mocks.NewMockUserStore(user), &mocks.MockPasswordVerifier{ShouldSucceed: true}, tokens, nil)
		require.NoError(t, err)

		_, err = svc.Login(ctx, user.Email, "super-secret-password")
		assert.Error(t, err)
	})
}
