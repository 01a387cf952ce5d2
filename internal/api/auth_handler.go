package api

import (
	"errors"
	"net/http"

	"github.com/fieldcrew/maintenance-api/internal/api/shared"
	"github.com/fieldcrew/maintenance-api/internal/service/auth"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authService auth.AuthService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService auth.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials", err,
				shared.WithElevatedLogLevel())
			return
		}
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{AccessToken: token})
}
