package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors
var (
	ErrEmptyTaskID   = errors.New("task ID cannot be empty")
	ErrEmptyOwnerID  = errors.New("task owner ID cannot be empty")
	ErrEmptySubject  = errors.New("subject cannot be empty")
	ErrEmptyDeadline = errors.New("deadline cannot be empty")
)

// TaskStatus enumerates the allowed states of a task or subtask.
// No other value is ever persisted.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
)

// DefaultStatus is applied when a subtask is submitted without a status.
const DefaultStatus = StatusInProgress

// IsValid reports whether the status is one of the three enumerated values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// dateLayout is the wire and storage format for deadlines.
const dateLayout = "2006-01-02"

// Date is a calendar date without a time component. It marshals to and from
// JSON as a YYYY-MM-DD string, matching the DATE column it is stored in.
type Date struct {
	time.Time
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Subtask is embedded within a Task and has no identity outside its parent.
// Deleted subtasks are retained as tombstones and filtered from read paths.
type Subtask struct {
	Subject  string     `json:"subject"`
	Deadline Date       `json:"deadline"`
	Status   TaskStatus `json:"status"`
	Deleted  bool       `json:"deleted"`
}

// Validate checks the subtask fields. An empty status is allowed and is
// normalized to DefaultStatus by Normalize.
func (s *Subtask) Validate() error {
	if strings.TrimSpace(s.Subject) == "" {
		return ErrEmptySubject
	}
	if s.Deadline.IsZero() {
		return ErrEmptyDeadline
	}
	if s.Status != "" && !s.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, s.Status)
	}
	return nil
}

// Normalize fills in the default status for subtasks submitted without one.
func (s *Subtask) Normalize() {
	if s.Status == "" {
		s.Status = DefaultStatus
	}
}

// Task belongs to exactly one user. The owner reference is set at creation
// and never reassigned. Tasks are soft-deleted only.
type Task struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Subject   string     `json:"subject"`
	Deadline  Date       `json:"deadline"`
	Status    TaskStatus `json:"status"`
	Deleted   bool       `json:"deleted"`
	Subtasks  []Subtask  `json:"subtasks"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewTask creates a task owned by the given user with deleted=false and an
// empty subtask collection. Returns an error if validation fails.
func NewTask(userID uuid.UUID, subject string, deadline Date, status TaskStatus) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Subject:   subject,
		Deadline:  deadline,
		Status:    status,
		Deleted:   false,
		Subtasks:  []Subtask{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyOwnerID
	}
	if strings.TrimSpace(t.Subject) == "" {
		return ErrEmptySubject
	}
	if t.Deadline.IsZero() {
		return ErrEmptyDeadline
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}

	for i := range t.Subtasks {
		if err := t.Subtasks[i].Validate(); err != nil {
			return fmt.Errorf("subtask %d: %w", i, err)
		}
	}

	return nil
}

// ActiveSubtasks returns the subtask collection with tombstones filtered out,
// preserving stored order. The result is a copy; mutating it does not affect
// the task.
func (t *Task) ActiveSubtasks() []Subtask {
	active := make([]Subtask, 0, len(t.Subtasks))
	for _, s := range t.Subtasks {
		if !s.Deleted {
			active = append(active, s)
		}
	}
	return active
}

// DeletedSubtasks returns the tombstoned subset of the subtask collection,
// preserving stored order.
func (t *Task) DeletedSubtasks() []Subtask {
	tombstones := make([]Subtask, 0)
	for _, s := range t.Subtasks {
		if s.Deleted {
			tombstones = append(tombstones, s)
		}
	}
	return tombstones
}
