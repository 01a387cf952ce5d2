package main

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fieldcrew/maintenance-api/internal/config"
	"github.com/fieldcrew/maintenance-api/internal/events"
	"github.com/fieldcrew/maintenance-api/internal/mocks"
	"github.com/fieldcrew/maintenance-api/internal/platform/logger"
	"github.com/fieldcrew/maintenance-api/internal/platform/postgres"
	"github.com/fieldcrew/maintenance-api/internal/service"
	"github.com/fieldcrew/maintenance-api/internal/service/auth"
	"github.com/fieldcrew/maintenance-api/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newWiredApp builds the application on db the way newApplication does,
// with emitter standing in for the broker.
func newWiredApp(t *testing.T, db *sql.DB, emitter events.EventEmitter) *application {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:            "thisisasecretkeythatis32charslong!!",
			TokenLifetimeMinutes: 60,
		},
	}
	jwtService, err := auth.NewJWTService(cfg.Auth)
	require.NoError(t, err)

	app := &application{
		config:           cfg,
		logger:           log,
		db:               db,
		userStore:        postgres.NewPostgresUserStore(db, log),
		taskStore:        postgres.NewPostgresTaskStore(db, log),
		txManager:        store.NewTxManager(db),
		passwordVerifier: auth.NewBcryptVerifier(),
		jwtService:       jwtService,
		eventEmitter:     emitter,
	}
	require.NoError(t, app.initServices())
	return app
}

var (
	taskColumns = []string{"id", "title", "summary", "user_id", "performed_at", "created_at", "updated_at"}
	userColumns = []string{"id", "email", "name", "role", "hashed_password", "created_at", "updated_at"}
)

// A single-connection pool must be enough for perform: the transaction has to
// give its connection back before managers are looked up.
func TestPerformOnSingleConnectionPool(t *testing.T) {
	taskID := uuid.New()
	ownerID := uuid.New()
	created := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		db.SetMaxOpenConns(1)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM tasks WHERE id = \\$1 FOR UPDATE").
			WithArgs(taskID).
			WillReturnRows(sqlmock.NewRows(taskColumns).
				AddRow(taskID.String(), "Fix pump", "", ownerID.String(), nil, created, created))
		mock.ExpectExec("performed_at IS NULL").
			WithArgs(sqlmock.AnyArg(), taskID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectQuery("FROM users WHERE role = \\$1").
			WithArgs("MANAGER").
			WillReturnRows(sqlmock.NewRows(userColumns).
				AddRow(uuid.NewString(), "manager@example.com", "Manager", "MANAGER", "hash", created, created))
		return db, mock
	}

	t.Run("notifies after commit", func(t *testing.T) {
		db, mock := setup(t)
		emitter := &mocks.MockEventEmitter{}
		app := newWiredApp(t, db, emitter)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		task, err := app.taskService.Perform(ctx, taskID)
		require.NoError(t, err)
		require.NoError(t, ctx.Err(), "perform must not wait for a second connection")
		require.NotNil(t, task.PerformedAt)
		assert.Len(t, emitter.Events(), 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed notification is reverted", func(t *testing.T) {
		db, mock := setup(t)
		mock.ExpectExec("SET performed_at = NULL").
			WithArgs(taskID, sqlmock.AnyArg(), created).
			WillReturnResult(sqlmock.NewResult(0, 1))

		emitter := &mocks.MockEventEmitter{
			EmitEventFn: func(context.Context, *events.Event) error { return errors.New("broker down") },
		}
		app := newWiredApp(t, db, emitter)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_, err := app.taskService.Perform(ctx, taskID)
		var svcErr *service.TaskServiceError
		require.ErrorAs(t, err, &svcErr)
		require.NoError(t, ctx.Err())
		assert.Empty(t, emitter.Events())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
