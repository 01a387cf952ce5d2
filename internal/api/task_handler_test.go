package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/mocks"
	"github.com/fieldcrew/maintenance-api/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTask(owner uuid.UUID) *domain.Task {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Task{
		ID:        uuid.New(),
		Title:     "Fix pump",
		Summary:   "leak in bay 3",
		UserID:    owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTaskHandler_List(t *testing.T) {
	tech := technicianActor()
	task := sampleTask(tech.ID)
	svc := &mocks.MockTaskService{ListFn: func(ctx context.Context, actor domain.Actor) ([]*domain.Task, error) {
		assert.Equal(t, tech.ID, actor.ID)
		return []*domain.Task{task}, nil
	}}
	router := newTaskRouter(NewTaskHandler(svc))

	rec := do(t, router, http.MethodGet, "/tasks", nil, &tech)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, task.ID.String(), got[0]["id"])
	assert.Equal(t, "Fix pump", got[0]["title"])
	assert.Equal(t, "leak in bay 3", got[0]["summary"])
	assert.Equal(t, tech.ID.String(), got[0]["userId"])
	assert.Nil(t, got[0]["performedAt"])
}

func TestTaskHandler_ListEmptyIsArray(t *testing.T) {
	router := newTaskRouter(NewTaskHandler(&mocks.MockTaskService{}))
	mgr := managerActor()

	rec := do(t, router, http.MethodGet, "/tasks", nil, &mgr)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestTaskHandler_Create(t *testing.T) {
	tech := technicianActor()

	t.Run("created", func(t *testing.T) {
		svc := &mocks.MockTaskService{CreateFn: func(ctx context.Context, actor domain.Actor, title, summary string) (*domain.Task, error) {
			task := sampleTask(actor.ID)
			task.Title, task.Summary = title, summary
			return task, nil
		}}
		rec := do(t, newTaskRouter(NewTaskHandler(svc)), http.MethodPost, "/tasks",
			CreateTaskRequest{Title: "Fix pump", Summary: "leak in bay 3"}, &tech)

		require.Equal(t, http.StatusCreated, rec.Code)
		var got TaskResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "Fix pump", got.Title)
		assert.Equal(t, tech.ID.String(), got.UserID)
	})

	tests := []struct {
		name string
		body any
	}{
		{"malformed json", `{"title":`},
		{"missing title", map[string]string{"summary": "x"}},
		{"summary too long", CreateTaskRequest{Title: "t", Summary: strings.Repeat("a", 2501)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.MockTaskService{CreateFn: func(ctx context.Context, actor domain.Actor, title, summary string) (*domain.Task, error) {
				t.Fatal("service must not be called")
				return nil, nil
			}}
			rec := do(t, newTaskRouter(NewTaskHandler(svc)), http.MethodPost, "/tasks", tc.body, &tech)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	t.Run("blank title rejected by domain", func(t *testing.T) {
		svc := &mocks.MockTaskService{CreateFn: func(ctx context.Context, actor domain.Actor, title, summary string) (*domain.Task, error) {
			return nil, domain.ErrTaskTitleEmpty
		}}
		rec := do(t, newTaskRouter(NewTaskHandler(svc)), http.MethodPost, "/tasks", CreateTaskRequest{Title: "   "}, &tech)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "title cannot be empty", decodeError(t, rec).Error)
	})
}

func TestTaskHandler_Get(t *testing.T) {
	tech := technicianActor()
	id := uuid.New()

	svc := &mocks.MockTaskService{GetFn: func(ctx context.Context, got uuid.UUID, actor domain.Actor) (*domain.Task, error) {
		return nil, &service.TaskError{TaskID: got, Err: service.ErrTaskNotFound}
	}}
	router := newTaskRouter(NewTaskHandler(svc))

	rec := do(t, router, http.MethodGet, "/tasks/"+id.String(), nil, &tech)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task '"+id.String()+"' not found", decodeError(t, rec).Error)

	rec = do(t, router, http.MethodGet, "/tasks/not-a-uuid", nil, &tech)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskHandler_Update(t *testing.T) {
	tech := technicianActor()
	id := uuid.New()

	t.Run("partial patch", func(t *testing.T) {
		svc := &mocks.MockTaskService{UpdateFn: func(ctx context.Context, got uuid.UUID, actor domain.Actor, patch domain.TaskPatch) (*domain.Task, error) {
			assert.Equal(t, id, got)
			require.NotNil(t, patch.Title)
			assert.Equal(t, "Fix pump 2", *patch.Title)
			assert.Nil(t, patch.Summary)
			task := sampleTask(actor.ID)
			task.ID, task.Title = got, *patch.Title
			return task, nil
		}}
		rec := do(t, newTaskRouter(NewTaskHandler(svc)), http.MethodPut, "/tasks/"+id.String(),
			`{"title":"Fix pump 2"}`, &tech)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not owner", func(t *testing.T) {
		svc := &mocks.MockTaskService{UpdateFn: func(ctx context.Context, got uuid.UUID, actor domain.Actor, patch domain.TaskPatch) (*domain.Task, error) {
			return nil, &service.TaskError{TaskID: got, Err: service.ErrTaskNotFound}
		}}
		rec := do(t, newTaskRouter(NewTaskHandler(svc)), http.MethodPut, "/tasks/"+id.String(), `{"summary":"x"}`, &tech)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty title", func(t *testing.T) {
		rec := do(t, newTaskRouter(NewTaskHandler(&mocks.MockTaskService{})), http.MethodPut, "/tasks/"+id.String(), `{"title":""}`, &tech)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	mgr := managerActor()
	id := uuid.New()

	var deleted uuid.UUID
	svc := &mocks.MockTaskService{DeleteFn: func(ctx context.Context, got uuid.UUID) error {
		if got != id {
			return &service.TaskError{TaskID: got, Err: service.ErrTaskNotFound}
		}
		deleted = got
		return nil
	}}
	router := newTaskRouter(NewTaskHandler(svc))

	rec := do(t, router, http.MethodDelete, "/tasks/"+id.String(), nil, &mgr)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, id, deleted)

	rec = do(t, router, http.MethodDelete, "/tasks/"+uuid.NewString(), nil, &mgr)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskHandler_Perform(t *testing.T) {
	tech := technicianActor()
	id := uuid.New()

	t.Run("performed", func(t *testing.T) {
		svc := &mocks.MockTaskService{PerformFn: func(ctx context.Context, got uuid.UUID) (*domain.Task, error) {
			task := sampleTask(tech.ID)
			task.ID = got
			at := task.CreatedAt.Add(time.Hour)
			task.PerformedAt = &at
			return task, nil
		}}
		rec := do(t, newTaskRouter(NewTaskHandler(svc)), http.MethodPatch, "/tasks/"+id.String()+"/perform", nil, &tech)
		require.Equal(t, http.StatusOK, rec.Code)

		var got TaskResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		require.NotNil(t, got.PerformedAt)
	})

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"already performed", &service.TaskError{TaskID: id, Err: service.ErrTaskAlreadyPerformed}, http.StatusBadRequest, "Task '" + id.String() + "' already performed"},
		{"missing", &service.TaskError{TaskID: id, Err: service.ErrTaskNotFound}, http.StatusNotFound, "Task '" + id.String() + "' not found"},
		{"notification failed", service.NewTaskServiceError("perform", "failed to notify managers", errors.New("dial tcp 10.0.0.5:6379: connection refused")), http.StatusInternalServerError, "Failed to perform task"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mocks.MockTaskService{PerformFn: func(ctx context.Context, got uuid.UUID) (*domain.Task, error) {
				return nil, tc.err
			}}
			rec := do(t, newTaskRouter(NewTaskHandler(svc)), http.MethodPatch, "/tasks/"+id.String()+"/perform", nil, &tech)
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantMsg, decodeError(t, rec).Error)
		})
	}
}

func TestTaskHandler_NoActor(t *testing.T) {
	router := newTaskRouter(NewTaskHandler(&mocks.MockTaskService{}))

	rec := do(t, router, http.MethodGet, "/tasks", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
