package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/platform/logger"
	"github.com/phrazzld/taskdeck-api/internal/service/task"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService *task.Service
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *task.Service, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
		logger:      log.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /tasks requests.
// Returns the caller's non-deleted tasks in insertion order; subtask
// collections carry only non-deleted entries.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	tasks, err := h.taskService.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		response = append(response, taskToResponse(t))
	}

	RespondWithJSON(w, r, http.StatusOK, response)
}

// CreateTask handles POST /tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req TaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	deadline, err := domain.ParseDate(req.Deadline)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid deadline")
		return
	}

	created, err := h.taskService.Create(r.Context(), userID, req.Subject, deadline, domain.TaskStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, taskToResponse(created))
}

// UpdateTask handles PUT /tasks/{taskId} requests.
// The body is the full replacement field set; the owner is never changed.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskId", log)
	if !ok {
		return
	}

	var req TaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	deadline, err := domain.ParseDate(req.Deadline)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid deadline")
		return
	}

	updated, err := h.taskService.Update(r.Context(), userID, taskID, task.UpdateParams{
		Subject:  req.Subject,
		Deadline: deadline,
		Status:   domain.TaskStatus(req.Status),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, taskToResponse(updated))
}

// DeleteTask handles DELETE /tasks/{taskId} requests.
// The delete is soft; the task drops out of list results but its row and
// its subtasks' flags are retained.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskId", log)
	if !ok {
		return
	}

	if _, err := h.taskService.Delete(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSubtasks handles GET /tasks/{taskId}/subtasks requests.
func (h *TaskHandler) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskId", log)
	if !ok {
		return
	}

	subtasks, err := h.taskService.ListSubtasks(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, subtasksToResponse(subtasks))
}

// ReplaceSubtasks handles PUT /tasks/{taskId}/subtasks requests.
// The body is the full list of active subtasks; previously deleted subtasks
// are preserved in storage and excluded from the response.
func (h *TaskHandler) ReplaceSubtasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskId", log)
	if !ok {
		return
	}

	var req []SubtaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	incoming := make([]domain.Subtask, 0, len(req))
	for i, sub := range req {
		if err := h.validator.Struct(sub); err != nil {
			RespondWithError(w, r, http.StatusBadRequest,
				fmt.Sprintf("Validation error in subtask %d: %s", i, err.Error()))
			return
		}

		deadline, err := domain.ParseDate(sub.Deadline)
		if err != nil {
			RespondWithError(w, r, http.StatusBadRequest,
				fmt.Sprintf("Invalid deadline in subtask %d", i))
			return
		}

		incoming = append(incoming, domain.Subtask{
			Subject:  sub.Subject,
			Deadline: deadline,
			Status:   domain.TaskStatus(sub.Status),
		})
	}

	subtasks, err := h.taskService.ReplaceSubtasks(r.Context(), userID, taskID, incoming)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, subtasksToResponse(subtasks))
}
