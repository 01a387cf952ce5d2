package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/store"
	"github.com/google/uuid"
)

// MockTaskStore implements store.TaskStore with an in-memory map.
// Returned tasks are copies, so callers cannot mutate stored state.
type MockTaskStore struct {
	CreateFn        func(ctx context.Context, task *domain.Task) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListFn          func(ctx context.Context) ([]*domain.Task, error)
	UpdateFn        func(ctx context.Context, task *domain.Task) error
	MarkPerformedFn func(ctx context.Context, id uuid.UUID, at time.Time) error
	RevertFn        func(ctx context.Context, id uuid.UUID, at, updatedAt time.Time) error
	DeleteFn        func(ctx context.Context, id uuid.UUID) error

	mu    sync.Mutex
	tasks map[uuid.UUID]domain.Task
	seq   map[uuid.UUID]int // insertion order breaks CreatedAt ties
	next  int
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates an empty MockTaskStore.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		tasks: make(map[uuid.UUID]domain.Task),
		seq:   make(map[uuid.UUID]int),
	}
}

// AddTask stores a copy of task without any checks.
func (m *MockTaskStore) AddTask(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(*task)
}

func (m *MockTaskStore) put(t domain.Task) {
	if _, ok := m.seq[t.ID]; !ok {
		m.seq[t.ID] = m.next
		m.next++
	}
	m.tasks[t.ID] = t
}

func clone(t domain.Task) *domain.Task {
	if t.PerformedAt != nil {
		at := *t.PerformedAt
		t.PerformedAt = &at
	}
	return &t
}

// Checkpoint captures the current contents and returns a function that
// restores them. MockTxManager uses it to emulate rollback.
func (m *MockTaskStore) Checkpoint() func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make(map[uuid.UUID]domain.Task, len(m.tasks))
	for id, t := range m.tasks {
		saved[id] = *clone(t)
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.tasks = saved
	}
}

// Create implements store.TaskStore
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tasks[task.ID]; exists {
		return store.ErrDuplicate
	}
	m.put(*task)
	return nil
}

// GetByID implements store.TaskStore
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return clone(t), nil
}

// GetByIDForUpdate implements store.TaskStore. Locking is provided by MockTxManager.
func (m *MockTaskStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return m.GetByID(ctx, id)
}

// List implements store.TaskStore
func (m *MockTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return m.filter(func(domain.Task) bool { return true }), nil
}

// ListByUser implements store.TaskStore
func (m *MockTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	if m.ListFn != nil {
		all, err := m.ListFn(ctx)
		if err != nil {
			return nil, err
		}
		owned := make([]*domain.Task, 0, len(all))
		for _, t := range all {
			if t.UserID == userID {
				owned = append(owned, t)
			}
		}
		return owned, nil
	}
	return m.filter(func(t domain.Task) bool { return t.UserID == userID }), nil
}

func (m *MockTaskStore) filter(keep func(domain.Task) bool) []*domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*domain.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if keep(t) {
			out = append(out, clone(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return m.seq[out[i].ID] < m.seq[out[j].ID]
	})
	return out
}

// Update implements store.TaskStore
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	existing.Title = task.Title
	existing.Summary = task.Summary
	existing.UpdatedAt = task.UpdatedAt
	m.tasks[task.ID] = existing
	return nil
}

// MarkPerformed implements store.TaskStore
func (m *MockTaskStore) MarkPerformed(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.MarkPerformedFn != nil {
		return m.MarkPerformedFn(ctx, id, at)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	if t.PerformedAt != nil {
		return store.ErrTaskAlreadyPerformed
	}
	t.PerformedAt = &at
	t.UpdatedAt = at
	m.tasks[id] = t
	return nil
}

// RevertPerformed implements store.TaskStore
func (m *MockTaskStore) RevertPerformed(ctx context.Context, id uuid.UUID, at, updatedAt time.Time) error {
	if m.RevertFn != nil {
		return m.RevertFn(ctx, id, at, updatedAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.PerformedAt == nil || !t.PerformedAt.Equal(at) {
		return store.ErrTaskNotFound
	}
	t.PerformedAt = nil
	t.UpdatedAt = updatedAt
	m.tasks[id] = t
	return nil
}

// Delete implements store.TaskStore
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// WithTx implements store.TaskStore; the mock ignores transactions.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
