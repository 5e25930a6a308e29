package api

import (
	"time"

	"github.com/phrazzld/taskdeck-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// RegisterResponse defines the successful response for registration.
// Deliberately token-free: registering does not log the user in.
type RegisterResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// TaskRequest defines the payload for task create and update endpoints.
// Update is a full replacement, so the two share a shape.
type TaskRequest struct {
	Subject  string `json:"subject"  validate:"required,min=1,max=500"`
	Deadline string `json:"deadline" validate:"required,datetime=2006-01-02"`
	Status   string `json:"status"   validate:"required,oneof=pending in-progress done"`
}

// SubtaskRequest defines one element of the subtask replacement payload.
// Status may be omitted; it defaults to in-progress. Clients never submit
// deleted subtasks, so there is no deleted field here.
type SubtaskRequest struct {
	Subject  string `json:"subject"  validate:"required,min=1,max=500"`
	Deadline string `json:"deadline" validate:"required,datetime=2006-01-02"`
	Status   string `json:"status"   validate:"omitempty,oneof=pending in-progress done"`
}

// SubtaskResponse represents one subtask in a response body.
type SubtaskResponse struct {
	Subject  string `json:"subject"`
	Deadline string `json:"deadline"`
	Status   string `json:"status"`
}

// TaskResponse represents the response data for a task.
type TaskResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Subject   string            `json:"subject"`
	Deadline  string            `json:"deadline"`
	Status    string            `json:"status"`
	Deleted   bool              `json:"deleted"`
	Subtasks  []SubtaskResponse `json:"subtasks"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// taskToResponse maps a domain task to its response shape.
func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID.String(),
		UserID:    t.UserID.String(),
		Subject:   t.Subject,
		Deadline:  t.Deadline.String(),
		Status:    string(t.Status),
		Deleted:   t.Deleted,
		Subtasks:  subtasksToResponse(t.Subtasks),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// subtasksToResponse maps a subtask collection to its response shape.
// Always returns a non-nil slice so empty collections serialize as [].
func subtasksToResponse(subtasks []domain.Subtask) []SubtaskResponse {
	out := make([]SubtaskResponse, 0, len(subtasks))
	for _, s := range subtasks {
		out = append(out, SubtaskResponse{
			Subject:  s.Subject,
			Deadline: s.Deadline.String(),
			Status:   string(s.Status),
		})
	}
	return out
}
