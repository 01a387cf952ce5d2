package main

import (
	"net/http"

	"github.com/fieldcrew/maintenance-api/internal/api"
	apiMiddleware "github.com/fieldcrew/maintenance-api/internal/api/middleware"
	"github.com/fieldcrew/maintenance-api/internal/service/authz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.authService)
	taskHandler := api.NewTaskHandler(app.taskService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.userStore)
	allow := apiMiddleware.Authorize

	r.Post("/auth/login", authHandler.Login)

	r.Route("/tasks", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.With(allow(authz.OpListTasks)).Get("/", taskHandler.List)
		r.With(allow(authz.OpCreateTask)).Post("/", taskHandler.Create)
		r.With(allow(authz.OpGetTask)).Get("/{id}", taskHandler.Get)
		r.With(allow(authz.OpUpdateTask)).Put("/{id}", taskHandler.Update)
		r.With(allow(authz.OpDeleteTask)).Delete("/{id}", taskHandler.Delete)
		r.With(allow(authz.OpPerformTask)).Patch("/{id}/perform", taskHandler.Perform)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
