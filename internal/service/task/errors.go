package task

import "errors"

// Service errors
var (
	// ErrTaskNotOwned indicates the task exists but belongs to another user.
	// The lookup paths are owner-scoped, so under normal operation a foreign
	// task surfaces as store.ErrTaskNotFound; this error exists as the
	// explicit post-fetch authorization check behind that scoping.
	ErrTaskNotOwned = errors.New("task not owned by caller")
)
