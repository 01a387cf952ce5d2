package mocks

import (
	"context"
	"sync"

	"github.com/fieldcrew/maintenance-api/internal/domain"
)

// MockNotifier records every task it is asked to announce.
type MockNotifier struct {
	NotifyFn func(ctx context.Context, task *domain.Task) error

	mu    sync.Mutex
	calls []domain.Task
}

// Notify implements service.Notifier
func (m *MockNotifier) Notify(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	m.calls = append(m.calls, *task)
	m.mu.Unlock()

	if m.NotifyFn != nil {
		return m.NotifyFn(ctx, task)
	}
	return nil
}

// Calls returns the tasks passed to Notify, in call order.
func (m *MockNotifier) Calls() []domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Task, len(m.calls))
	copy(out, m.calls)
	return out
}
