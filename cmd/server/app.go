package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	// Register the pgx stdlib driver for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/taskdeck-api/internal/api"
	authmiddleware "github.com/phrazzld/taskdeck-api/internal/api/middleware"
	"github.com/phrazzld/taskdeck-api/internal/config"
	"github.com/phrazzld/taskdeck-api/internal/platform/postgres"
	"github.com/phrazzld/taskdeck-api/internal/service/auth"
	"github.com/phrazzld/taskdeck-api/internal/service/task"
)

// application holds the wired dependencies for the server. Handlers and
// middleware hang off it so the router and HTTP server can be built from a
// single place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	authHandler    *api.AuthHandler
	taskHandler    *api.TaskHandler
	authMiddleware *authmiddleware.AuthMiddleware
}

// newApplication opens the database connection and wires stores, services,
// and handlers together.
func newApplication(cfg *config.Config, appLogger *slog.Logger) (*application, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, appLogger)
	taskStore := postgres.NewPostgresTaskStore(db, appLogger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	authService := auth.NewService(userStore, jwtService, auth.NewBcryptVerifier(), appLogger)
	taskService := task.NewService(taskStore, userStore, appLogger)

	return &application{
		config:         cfg,
		logger:         appLogger,
		db:             db,
		authHandler:    api.NewAuthHandler(authService, appLogger),
		taskHandler:    api.NewTaskHandler(taskService, appLogger),
		authMiddleware: authmiddleware.NewAuthMiddleware(jwtService),
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
