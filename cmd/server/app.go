package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fieldcrew/maintenance-api/internal/config"
	"github.com/fieldcrew/maintenance-api/internal/events"
	"github.com/fieldcrew/maintenance-api/internal/notify"
	"github.com/fieldcrew/maintenance-api/internal/platform/postgres"
	"github.com/fieldcrew/maintenance-api/internal/platform/redisstream"
	"github.com/fieldcrew/maintenance-api/internal/service"
	"github.com/fieldcrew/maintenance-api/internal/service/auth"
	"github.com/fieldcrew/maintenance-api/internal/store"
	"github.com/redis/rueidis"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  rueidis.Client

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	taskStore store.TaskStore
	txManager store.TxManager

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	authService      auth.AuthService
	taskService      service.TaskService

	eventEmitter events.EventEmitter
}

// newApplication wires every dependency of the HTTP API on top of an open
// database connection.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		userStore:        postgres.NewPostgresUserStore(db, logger),
		taskStore:        postgres.NewPostgresTaskStore(db, logger),
		txManager:        store.NewTxManager(db),
		passwordVerifier: auth.NewBcryptVerifier(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	if err := app.setupEmitter(ctx); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		app.cleanup()
		return nil, err
	}
	return app, nil
}

// setupEmitter selects the channel that carries "performed" events.
// The memory driver delivers them to an in-process LogHandler, which suits
// single-process development.
func (app *application) setupEmitter(ctx context.Context) error {
	switch app.config.Notification.Driver {
	case config.NotificationDriverRedis:
		client, err := redisstream.NewClient(ctx, app.config.Notification.RedisAddr)
		if err != nil {
			return fmt.Errorf("failed to connect notification broker: %w", err)
		}
		app.redis = client
		app.eventEmitter = redisstream.NewEmitter(client, app.config.Notification.Stream, app.logger)
	case config.NotificationDriverMemory:
		emitter := events.NewInMemoryEventEmitter(app.logger)
		emitter.RegisterHandler(notify.NewLogHandler(app.logger))
		app.eventEmitter = emitter
	default:
		return fmt.Errorf("unknown notification driver %q", app.config.Notification.Driver)
	}

	app.logger.Info("notification channel ready", "driver", app.config.Notification.Driver)
	return nil
}

// initServices builds the services from the stores and emitter already set on app.
func (app *application) initServices() error {
	var err error

	app.authService, err = auth.NewAuthService(app.userStore, app.passwordVerifier, app.jwtService, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}

	dispatcher, err := notify.NewDispatcher(app.userStore, app.eventEmitter, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create notification dispatcher: %w", err)
	}

	app.taskService, err = service.NewTaskService(app.taskStore, app.txManager, dispatcher, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}
	return nil
}

// cleanup releases connections opened by the application. The database is
// owned by the caller of newApplication.
func (app *application) cleanup() {
	if app.redis != nil {
		app.redis.Close()
		app.redis = nil
	}
}
