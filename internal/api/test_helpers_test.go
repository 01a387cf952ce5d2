package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldcrew/maintenance-api/internal/api/shared"
	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func technicianActor() domain.Actor {
	return domain.Actor{ID: uuid.New(), Email: "technician@example.com", Role: domain.RoleTechnician}
}

func managerActor() domain.Actor {
	return domain.Actor{ID: uuid.New(), Email: "manager@example.com", Role: domain.RoleManager}
}

// newTaskRouter mounts h without auth middleware; tests inject the actor directly.
func newTaskRouter(h *TaskHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/tasks", h.List)
	r.Post("/tasks", h.Create)
	r.Get("/tasks/{id}", h.Get)
	r.Put("/tasks/{id}", h.Update)
	r.Delete("/tasks/{id}", h.Delete)
	r.Patch("/tasks/{id}/perform", h.Perform)
	return r
}

// do sends a request as actor (nil for none) and returns the recorder.
func do(t *testing.T, h http.Handler, method, path string, body any, actor *domain.Actor) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req = req.WithContext(shared.WithActor(req.Context(), *actor))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}
