package mocks

import (
	"context"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/service"
	"github.com/google/uuid"
)

// MockTaskService implements service.TaskService for handler tests.
// Unset functions return nil values.
type MockTaskService struct {
	ListFn    func(ctx context.Context, actor domain.Actor) ([]*domain.Task, error)
	GetFn     func(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Task, error)
	CreateFn  func(ctx context.Context, actor domain.Actor, title, summary string) (*domain.Task, error)
	UpdateFn  func(ctx context.Context, id uuid.UUID, actor domain.Actor, patch domain.TaskPatch) (*domain.Task, error)
	DeleteFn  func(ctx context.Context, id uuid.UUID) error
	PerformFn func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

var _ service.TaskService = (*MockTaskService)(nil)

// List implements service.TaskService
func (m *MockTaskService) List(ctx context.Context, actor domain.Actor) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, actor)
	}
	return []*domain.Task{}, nil
}

// Get implements service.TaskService
func (m *MockTaskService) Get(ctx context.Context, id uuid.UUID, actor domain.Actor) (*domain.Task, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id, actor)
	}
	return nil, nil
}

// Create implements service.TaskService
func (m *MockTaskService) Create(
	ctx context.Context,
	actor domain.Actor,
	title, summary string,
) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, actor, title, summary)
	}
	return nil, nil
}

// Update implements service.TaskService
func (m *MockTaskService) Update(
	ctx context.Context,
	id uuid.UUID,
	actor domain.Actor,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, actor, patch)
	}
	return nil, nil
}

// Delete implements service.TaskService
func (m *MockTaskService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// Perform implements service.TaskService
func (m *MockTaskService) Perform(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.PerformFn != nil {
		return m.PerformFn(ctx, id)
	}
	return nil, nil
}
