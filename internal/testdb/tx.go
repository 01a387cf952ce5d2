//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

// WithTx runs fn inside a transaction that is always rolled back, so each
// test sees only its own rows.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Logf("warning: failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
