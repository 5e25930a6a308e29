package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	apimiddleware "github.com/phrazzld/taskdeck-api/internal/api/middleware"
	"github.com/phrazzld/taskdeck-api/internal/api/shared"
)

// buildRouter assembles the chi router with middleware and all API routes.
func (app *application) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public auth routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", app.authHandler.Register)
		r.Post("/login", app.authHandler.Login)
		r.Get("/logout", app.authHandler.Logout)
	})

	// Task routes require a valid token
	r.Route("/tasks", func(r chi.Router) {
		r.Use(app.authMiddleware.Authenticate)

		r.Get("/", app.taskHandler.ListTasks)
		r.Post("/", app.taskHandler.CreateTask)
		r.Put("/{taskId}", app.taskHandler.UpdateTask)
		r.Delete("/{taskId}", app.taskHandler.DeleteTask)
		r.Get("/{taskId}/subtasks", app.taskHandler.ListSubtasks)
		r.Put("/{taskId}/subtasks", app.taskHandler.ReplaceSubtasks)
	})

	return r
}
