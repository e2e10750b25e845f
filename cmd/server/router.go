package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/inkforge/inkforge-api/internal/api/shared"
	apiMiddleware "github.com/inkforge/inkforge-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.CORSMiddleware)
	r.Use(apiMiddleware.TraceMiddleware)

	r.Route("/api", func(r chi.Router) {
		// Account registry
		r.Get("/accounts", app.accountHandler.List)
		r.Post("/accounts", app.accountHandler.Create)
		r.Put("/accounts/{id}", app.accountHandler.Update)
		r.Delete("/accounts/{id}", app.accountHandler.Delete)
		r.Put("/accounts/{id}/default", app.accountHandler.SetDefault)

		// Task repository and submission
		r.Get("/tasks", app.taskHandler.List)
		r.Post("/tasks", app.taskHandler.Create)
		r.Get("/tasks/{id}", app.taskHandler.Get)
		r.Post("/tasks/{id}/resubmit", app.taskHandler.Resubmit)
		r.Delete("/tasks/{id}", app.taskHandler.Delete)

		// Derived statistics
		r.Get("/stats", app.statsHandler.Overview)

		// Upload-to-data-URI conversion
		r.Post("/upload", app.uploadHandler.Upload)

		// Health check endpoint
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{
				"success":   true,
				"status":    "ok",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
		})
	})

	return r
}
