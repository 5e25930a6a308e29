package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdeck-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// A task row carries its embedded subtask collection, so every write through
// this interface is a single-row (single-document) atomic operation. There is
// deliberately no physical delete: tasks are retired by updating their
// Deleted flag.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, including its full subtask
	// collection (tombstones included).
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetForUser retrieves a task by ID scoped to the given owner.
	// Returns ErrTaskNotFound if no task with that ID is owned by the user.
	GetForUser(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// ListForUser returns every non-deleted task owned by the user in
	// insertion order. Subtask collections are returned unfiltered; callers
	// apply the tombstone filter.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Update persists the full task row, including the subtask collection
	// and the Deleted flag. The owner reference is never changed.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error
}
