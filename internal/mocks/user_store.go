package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/store"
	"github.com/google/uuid"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListByRoleFn func(ctx context.Context, role domain.Role) ([]*domain.User, error)

	mu    sync.RWMutex
	users map[string]*domain.User // keyed by lower-cased email
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{users: make(map[string]*domain.User)}
	for _, u := range users {
		m.AddUser(u)
	}
	return m
}

// AddUser stores u without any checks.
func (m *MockUserStore) AddUser(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[strings.ToLower(u.Email)] = u
}

// RemoveUser deletes the user with the given email.
func (m *MockUserStore) RemoveUser(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, strings.ToLower(email))
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, exists := m.users[key]; exists {
		return store.ErrEmailExists
	}
	m.users[key] = user
	return nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	user, exists := m.users[strings.ToLower(strings.TrimSpace(email))]
	if !exists {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// ListByRole implements the UserStore interface
func (m *MockUserStore) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	if m.ListByRoleFn != nil {
		return m.ListByRoleFn(ctx, role)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]*domain.User, 0)
	for _, user := range m.users {
		if user.Role == role {
			users = append(users, user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

// WithTx implements the UserStore interface; the mock ignores transactions.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
