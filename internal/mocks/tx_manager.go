package mocks

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fieldcrew/maintenance-api/internal/store"
)

// Checkpointer is implemented by mocks that can undo their writes.
type Checkpointer interface {
	Checkpoint() func()
}

// MockTxManager implements store.TxManager without a database.
// Transactions run one at a time, and when fn fails every registered
// Checkpointer is restored to its state before the transaction began.
type MockTxManager struct {
	// RunInTransactionFn replaces the default behaviour entirely when set.
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error

	Participants []Checkpointer

	mu        sync.Mutex
	callCount int
	rollbacks int
	active    atomic.Bool
}

var _ store.TxManager = (*MockTxManager)(nil)

// NewMockTxManager creates a MockTxManager that rolls back participants on error.
func NewMockTxManager(participants ...Checkpointer) *MockTxManager {
	return &MockTxManager{Participants: participants}
}

// RunInTransaction implements store.TxManager. fn receives a nil *sql.Tx,
// which the store mocks ignore in WithTx.
func (m *MockTxManager) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++

	restores := make([]func(), 0, len(m.Participants))
	for _, p := range m.Participants {
		restores = append(restores, p.Checkpoint())
	}

	m.active.Store(true)
	defer m.active.Store(false)

	if err := fn(ctx, nil); err != nil {
		for _, restore := range restores {
			restore()
		}
		m.rollbacks++
		return err
	}
	return nil
}

// Active reports whether a transaction is running right now.
func (m *MockTxManager) Active() bool {
	return m.active.Load()
}

// CallCount returns how many transactions were started.
func (m *MockTxManager) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Rollbacks returns how many transactions were rolled back.
func (m *MockTxManager) Rollbacks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rollbacks
}
