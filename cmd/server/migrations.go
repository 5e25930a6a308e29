package main

import (
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/phrazzld/taskdeck-api/migrations"
)

// runMigrations applies any pending goose migrations from the embedded
// migration files.
func (app *application) runMigrations() error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	app.logger.Info("Applying database migrations")
	if err := goose.Up(app.db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	app.logger.Info("Database migrations applied")
	return nil
}
