package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fieldcrew/maintenance-api/internal/api/shared"
	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/service"
	"github.com/fieldcrew/maintenance-api/internal/service/auth"
	"github.com/fieldcrew/maintenance-api/internal/service/authz"
	"github.com/go-playground/validator/v10"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, authz.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, authz.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound

	// Invalid state and bad input
	case errors.Is(err, service.ErrTaskAlreadyPerformed),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		taskErr        *service.TaskError
		validationErr  *domain.ValidationError
		validationErrs validator.ValidationErrors
	)

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, authz.ErrUnauthenticated):
		return "Authentication required"
	case errors.Is(err, authz.ErrForbidden):
		return "Forbidden resource"

	// Task errors carry only the task id.
	case errors.As(err, &taskErr):
		return taskErr.Error()

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)
	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	case errors.Is(err, domain.ErrValidation):
		// Domain validation sentinels are fixed strings like
		// "validation failed: title cannot be empty".
		return strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for err. fallback replaces the safe
// message for unexpected errors when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		msg = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}
