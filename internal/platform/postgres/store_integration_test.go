//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/fieldcrew/maintenance-api/internal/platform/postgres"
	"github.com/fieldcrew/maintenance-api/internal/store"
	"github.com/fieldcrew/maintenance-api/internal/testdb"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, s store.UserStore, email string, role domain.Role) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "Test "+string(role), role, "$2a$10$integrationhash")
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), user))
	return user
}

func TestStoresAgainstPostgres(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	users := postgres.NewPostgresUserStore(db, nil)
	tasks := postgres.NewPostgresTaskStore(db, nil)

	t.Run("user lookups", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			u := users.WithTx(tx)
			tech := createUser(t, u, "Tech@Example.com", domain.RoleTechnician)
			createUser(t, u, "boss@example.com", domain.RoleManager)

			got, err := u.GetByEmail(ctx, "tech@example.com")
			require.NoError(t, err)
			assert.Equal(t, tech.ID, got.ID)

			dup, err := domain.NewUser("TECH@example.com", "Dup", domain.RoleTechnician, "hash")
			require.NoError(t, err)
			assert.ErrorIs(t, u.Create(ctx, dup), store.ErrEmailExists)
		})
	})

	t.Run("task lifecycle", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			u := users.WithTx(tx)
			ts := tasks.WithTx(tx)
			tech := createUser(t, u, "life@example.com", domain.RoleTechnician)

			task, err := domain.NewTask(tech.ID, "Fix pump", "leak in bay 3")
			require.NoError(t, err)
			require.NoError(t, ts.Create(ctx, task))

			listed, err := ts.ListByUser(ctx, tech.ID)
			require.NoError(t, err)
			require.Len(t, listed, 1)
			assert.Equal(t, "Fix pump", listed[0].Title)
			assert.Equal(t, "leak in bay 3", listed[0].Summary)
			assert.Nil(t, listed[0].PerformedAt)

			at := time.Now().UTC().Truncate(time.Microsecond)
			require.NoError(t, ts.MarkPerformed(ctx, task.ID, at))
			assert.ErrorIs(t, ts.MarkPerformed(ctx, task.ID, at.Add(time.Minute)), store.ErrTaskAlreadyPerformed)

			got, err := ts.GetByID(ctx, task.ID)
			require.NoError(t, err)
			require.NotNil(t, got.PerformedAt)
			assert.True(t, at.Equal(*got.PerformedAt))

			require.NoError(t, ts.Delete(ctx, task.ID))
			assert.ErrorIs(t, ts.Delete(ctx, task.ID), store.ErrTaskNotFound)
			assert.ErrorIs(t, ts.MarkPerformed(ctx, task.ID, at), store.ErrTaskNotFound)
		})
	})

	t.Run("summary length is enforced by the schema", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			tech := createUser(t, users.WithTx(tx), "schema@example.com", domain.RoleTechnician)
			long := make([]rune, domain.MaxSummaryLength+1)
			for i := range long {
				long[i] = 'x'
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO tasks (id, title, summary, user_id) VALUES ($1, 'x', $2, $3)`,
				uuid.New(), string(long), tech.ID)
			assert.ErrorIs(t, postgres.MapError(err), store.ErrInvalidEntity)
		})
	})

	t.Run("concurrent performs mark a task once", func(t *testing.T) {
		tech := createUser(t, users, "race-"+uuid.NewString()+"@example.com", domain.RoleTechnician)
		task, err := domain.NewTask(tech.ID, "Race", "")
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, task))

		const workers = 8
		var wg sync.WaitGroup
		results := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
					ts := tasks.WithTx(tx)
					locked, err := ts.GetByIDForUpdate(ctx, task.ID)
					if err != nil {
						return err
					}
					if locked.IsPerformed() {
						return store.ErrTaskAlreadyPerformed
					}
					return ts.MarkPerformed(ctx, task.ID, time.Now().UTC())
				})
			}()
		}
		wg.Wait()
		close(results)

		var ok, conflicts int
		for err := range results {
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, store.ErrTaskAlreadyPerformed):
				conflicts++
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, workers-1, conflicts)
	})
}
