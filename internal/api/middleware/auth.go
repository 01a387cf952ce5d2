package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fieldcrew/maintenance-api/internal/api/shared"
	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/platform/logger"
	"github.com/fieldcrew/maintenance-api/internal/service/auth"
	"github.com/fieldcrew/maintenance-api/internal/service/authz"
	"github.com/fieldcrew/maintenance-api/internal/store"
)

// AuthMiddleware authenticates requests with JWT access tokens.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      store.UserStore
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, users store.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// Authenticate validates the Bearer token, loads the user named by its email
// claim and stores the resulting domain.Actor in the request context.
// The role always comes from the stored user, never from the token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), strings.TrimSpace(token))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			default:
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		user, err := m.users.GetByEmail(r.Context(), claims.Email)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				log.Debug("token refers to unknown user", slog.String("user_id", claims.UserID.String()))
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}

		ctx := shared.WithActor(r.Context(), domain.ActorFromUser(user))
		ctx = logger.WithLogger(ctx, log.With(slog.String("user_id", user.ID.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize rejects requests whose actor may not run op.
// It must run after Authenticate.
func Authorize(op authz.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, _ := shared.ActorFromContext(r.Context())
			if err := authz.Authorize(actor, op); err != nil {
				if errors.Is(err, authz.ErrUnauthenticated) {
					shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
					return
				}
				err = fmt.Errorf("%w: %s requires one of %v, actor is %s",
					err, op, authz.AllowedRoles(op), actor.Role)
				shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Forbidden resource", err,
					shared.WithElevatedLogLevel())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
