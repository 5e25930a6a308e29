// Package task implements the task service: owner-scoped CRUD over tasks and
// their embedded subtasks, soft deletion, and the tombstone-preserving
// subtask replacement that keeps full-list client updates from resurrecting
// or erasing previously deleted subtasks.
package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/platform/logger"
	"github.com/phrazzld/taskdeck-api/internal/redact"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

// UpdateParams is the full replacement field set for a task update.
// The owner reference is not part of it; owners are never reassigned.
type UpdateParams struct {
	Subject  string
	Deadline domain.Date
	Status   domain.TaskStatus
}

// DeleteResult acknowledges a successful soft delete.
type DeleteResult struct {
	ID uuid.UUID `json:"id"`
}

// Service enforces ownership and the soft-delete invariants over a TaskStore.
// It consults the UserStore only to verify the owning user exists at task
// creation time.
type Service struct {
	taskStore store.TaskStore
	userStore store.UserStore
	logger    *slog.Logger
}

// NewService creates a task Service with the given stores.
// If logger is nil, the default logger is used.
func NewService(taskStore store.TaskStore, userStore store.UserStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		taskStore: taskStore,
		userStore: userStore,
		logger:    log.With(slog.String("component", "task_service")),
	}
}

// List returns every non-deleted task owned by userID in insertion order,
// with each task's subtask collection filtered to exclude tombstones.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.taskStore.ListForUser(ctx, userID)
	if err != nil {
		log.Error("failed to list tasks", "error", redact.Error(err), "user_id", userID)
		return nil, err
	}

	for _, t := range tasks {
		t.Subtasks = t.ActiveSubtasks()
	}

	return tasks, nil
}

// Create creates a task owned by userID with deleted=false and an empty
// subtask collection. Returns store.ErrUserNotFound if the user does not
// exist.
func (s *Service) Create(
	ctx context.Context,
	userID uuid.UUID,
	subject string,
	deadline domain.Date,
	status domain.TaskStatus,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// The task row carries a foreign key, but resolve the user up front so
	// a missing owner surfaces as a clean not-found instead of a constraint
	// violation.
	if _, err := s.userStore.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	task, err := domain.NewTask(userID, subject, deadline, status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task", "error", redact.Error(err), "user_id", userID)
		return nil, err
	}

	log.Info("task created", "task_id", task.ID, "user_id", userID)
	return task, nil
}

// Update applies the full field set to a task owned by userID and returns the
// updated task with its subtask collection filtered to the active view.
// Returns store.ErrTaskNotFound if userID owns no such task.
func (s *Service) Update(
	ctx context.Context,
	userID, taskID uuid.UUID,
	params UpdateParams,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.getOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Subject = params.Subject
	task.Deadline = params.Deadline
	task.Status = params.Status
	// Re-stamp the owner to the caller. The fetch was owner-scoped so this
	// is a no-op, but it guarantees an update can never reassign ownership
	// even if the scoping is ever loosened.
	task.UserID = userID
	task.UpdatedAt = time.Now().UTC()

	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		log.Error("failed to update task", "error", redact.Error(err), "task_id", taskID)
		return nil, err
	}

	log.Info("task updated", "task_id", taskID, "user_id", userID)

	task.Subtasks = task.ActiveSubtasks()
	return task, nil
}

// Delete soft-deletes a task owned by userID: the row is retained with
// deleted=true and drops out of list results. Subtasks keep their own
// deleted flags; there is no cascade.
// Returns store.ErrTaskNotFound if userID owns no such task.
func (s *Service) Delete(ctx context.Context, userID, taskID uuid.UUID) (*DeleteResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.getOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Deleted = true
	task.UpdatedAt = time.Now().UTC()

	if err := s.taskStore.Update(ctx, task); err != nil {
		log.Error("failed to soft-delete task", "error", redact.Error(err), "task_id", taskID)
		return nil, err
	}

	log.Info("task soft-deleted", "task_id", taskID, "user_id", userID)
	return &DeleteResult{ID: task.ID}, nil
}

// ListSubtasks returns the task's subtask collection with tombstones
// filtered out. Returns store.ErrTaskNotFound if userID owns no such task.
func (s *Service) ListSubtasks(ctx context.Context, userID, taskID uuid.UUID) ([]domain.Subtask, error) {
	task, err := s.getOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	return task.ActiveSubtasks(), nil
}

// ReplaceSubtasks replaces the task's subtask collection with the incoming
// list while preserving previously deleted subtasks in storage.
//
// The merge is a deliberate two-step algorithm: partition the current
// collection by tombstone flag, discard the active subset, and store the
// incoming list with the old tombstones appended. Clients only ever submit
// active subtasks, so this is what keeps a full-list replacement from
// silently resurrecting or permanently erasing soft-deleted entries.
//
// Returns the active (filtered) view of the new collection.
// Returns store.ErrTaskNotFound if userID owns no such task.
func (s *Service) ReplaceSubtasks(
	ctx context.Context,
	userID, taskID uuid.UUID,
	incoming []domain.Subtask,
) ([]domain.Subtask, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.getOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	for i := range incoming {
		incoming[i].Normalize()
		if err := incoming[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: subtask %d: %w", domain.ErrValidation, i, err)
		}
	}

	tombstones := task.DeletedSubtasks()

	merged := make([]domain.Subtask, 0, len(incoming)+len(tombstones))
	merged = append(merged, incoming...)
	merged = append(merged, tombstones...)

	task.Subtasks = merged
	task.UpdatedAt = time.Now().UTC()

	if err := s.taskStore.Update(ctx, task); err != nil {
		log.Error("failed to replace subtasks", "error", redact.Error(err), "task_id", taskID)
		return nil, err
	}

	log.Info("subtasks replaced",
		"task_id", taskID,
		"user_id", userID,
		"active", len(incoming),
		"tombstones", len(tombstones))

	return task.ActiveSubtasks(), nil
}

// getOwnedTask resolves a task within the caller's own collection and then
// re-checks the owner field on the fetched record. The scoped query already
// guarantees ownership; the explicit comparison stays as a guard against a
// future store implementation loosening that scoping.
func (s *Service) getOwnedTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetForUser(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if task.UserID != userID {
		return nil, ErrTaskNotOwned
	}

	return task, nil
}
