package store

import (
	"context"
	"database/sql"
)

// DBTX is an interface that abstracts the database access layer.
// It is implemented by both *sql.DB and *sql.Tx, so store implementations
// work the same way inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxManager runs a function inside a database transaction.
// Services depend on this interface rather than on *sql.DB directly.
type TxManager interface {
	RunInTransaction(ctx context.Context, fn TxFn) error
}

// SQLTxManager is the TxManager backed by a *sql.DB connection pool.
type SQLTxManager struct {
	db *sql.DB
}

// NewTxManager returns a TxManager that opens transactions on db.
func NewTxManager(db *sql.DB) *SQLTxManager {
	return &SQLTxManager{db: db}
}

// RunInTransaction implements TxManager.
func (m *SQLTxManager) RunInTransaction(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, m.db, fn)
}
