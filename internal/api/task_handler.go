package api

import (
	"net/http"

	"github.com/fieldcrew/maintenance-api/internal/api/shared"
	"github.com/fieldcrew/maintenance-api/internal/service"
)

// TaskHandler serves the /tasks endpoints. Role checks happen in the
// Authorize middleware; ownership and state checks in the service.
type TaskHandler struct {
	tasks service.TaskService
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.List(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), id, actor)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.Create(r.Context(), actor, req.Title, req.Summary)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// Update handles PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, id, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.Update(r.Context(), id, actor, req.Patch())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, id, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Perform handles PATCH /tasks/{id}/perform.
func (h *TaskHandler) Perform(w http.ResponseWriter, r *http.Request) {
	_, id, ok := handleActorAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.Perform(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to perform task")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}
