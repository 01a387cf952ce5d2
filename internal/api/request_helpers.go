package api

import (
	"log/slog"
	"net/http"

	"github.com/fieldcrew/maintenance-api/internal/api/shared"
	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "must be a UUID", domain.ErrInvalidID)
	}

	return id, nil
}

// actorFromRequest returns the authenticated actor, writing a 401 when the
// request carries none.
func actorFromRequest(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		logger.FromContext(r.Context()).Warn("actor missing from request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return domain.Actor{}, false
	}
	return *actor, true
}

// handleActorAndPathUUID combines actorFromRequest and getPathUUID, writing
// the error response when either fails.
func handleActorAndPathUUID(w http.ResponseWriter, r *http.Request, paramName string) (domain.Actor, uuid.UUID, bool) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return domain.Actor{}, uuid.Nil, false
	}

	id, err := getPathUUID(r, paramName)
	if err != nil {
		logger.FromContext(r.Context()).Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return domain.Actor{}, uuid.Nil, false
	}

	return actor, id, true
}

// decodeAndValidate decodes the JSON body into v and validates it, writing a
// 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
