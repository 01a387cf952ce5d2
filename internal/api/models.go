package api

import (
	"time"

	"github.com/fieldcrew/maintenance-api/internal/domain"
)

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title   string `json:"title"   validate:"required"`
	Summary string `json:"summary" validate:"max=2500"`
}

// UpdateTaskRequest defines the payload for updating a task.
// Omitted fields are left unchanged.
type UpdateTaskRequest struct {
	Title   *string `json:"title"   validate:"omitnil,min=1"`
	Summary *string `json:"summary" validate:"omitnil,max=2500"`
}

// Patch converts the request to a domain.TaskPatch.
func (r UpdateTaskRequest) Patch() domain.TaskPatch {
	return domain.TaskPatch{Title: r.Title, Summary: r.Summary}
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	UserID      string     `json:"userId"`
	PerformedAt *time.Time `json:"performedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Summary:     t.Summary,
		UserID:      t.UserID.String(),
		PerformedAt: t.PerformedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}
