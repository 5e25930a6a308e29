package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskdeck-api/internal/api/shared"
	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/mocks"
	"github.com/phrazzld/taskdeck-api/internal/service/task"
)

func newTaskHandlerFixture(t *testing.T) (*TaskHandler, *mocks.MockTaskStore, uuid.UUID) {
	t.Helper()

	userStore := mocks.NewMockUserStore()
	user, err := domain.NewUser("owner@example.com", "Owner", "password123")
	require.NoError(t, err)
	require.NoError(t, userStore.Create(context.Background(), user))

	taskStore := mocks.NewMockTaskStore()
	svc := task.NewService(taskStore, userStore, nil)

	return NewTaskHandler(svc, nil), taskStore, user.ID
}

// authedRequest builds a request carrying the authenticated user ID and,
// when taskID is non-empty, a chi route context with the taskId parameter.
func authedRequest(method, target string, body io.Reader, userID uuid.UUID, taskID string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	ctx := req.Context()
	if userID != uuid.Nil {
		ctx = context.WithValue(ctx, shared.UserIDContextKey, userID)
	}
	if taskID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("taskId", taskID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx)
}

func jsonBody(t *testing.T, payload any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func seedStoredTask(t *testing.T, taskStore *mocks.MockTaskStore, userID uuid.UUID, subject string) *domain.Task {
	t.Helper()
	deadline, err := domain.ParseDate("2026-06-01")
	require.NoError(t, err)
	created, err := domain.NewTask(userID, subject, deadline, domain.StatusPending)
	require.NoError(t, err)
	require.NoError(t, taskStore.Create(context.Background(), created))
	return created
}

func TestListTasksHandler(t *testing.T) {
	t.Run("empty list serializes as an array", func(t *testing.T) {
		handler, _, userID := newTaskHandlerFixture(t)

		w := httptest.NewRecorder()
		handler.ListTasks(w, authedRequest(http.MethodGet, "/tasks", nil, userID, ""))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("returns the caller's tasks", func(t *testing.T) {
		handler, taskStore, userID := newTaskHandlerFixture(t)
		seedStoredTask(t, taskStore, userID, "mine")
		seedStoredTask(t, taskStore, uuid.New(), "not mine")

		w := httptest.NewRecorder()
		handler.ListTasks(w, authedRequest(http.MethodGet, "/tasks", nil, userID, ""))

		require.Equal(t, http.StatusOK, w.Code)

		var resp []TaskResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "mine", resp[0].Subject)
		assert.Equal(t, userID.String(), resp[0].UserID)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		handler, _, _ := newTaskHandlerFixture(t)

		w := httptest.NewRecorder()
		handler.ListTasks(w, authedRequest(http.MethodGet, "/tasks", nil, uuid.Nil, ""))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestCreateTaskHandler(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		handler, _, userID := newTaskHandlerFixture(t)

		body := jsonBody(t, TaskRequest{Subject: "Write report", Deadline: "2026-06-01", Status: "pending"})
		w := httptest.NewRecorder()
		handler.CreateTask(w, authedRequest(http.MethodPost, "/tasks", body, userID, ""))

		require.Equal(t, http.StatusCreated, w.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Write report", resp.Subject)
		assert.Equal(t, "2026-06-01", resp.Deadline)
		assert.Equal(t, "pending", resp.Status)
		assert.False(t, resp.Deleted)
		assert.NotNil(t, resp.Subtasks)
		assert.Empty(t, resp.Subtasks)
	})

	t.Run("invalid payloads", func(t *testing.T) {
		handler, _, userID := newTaskHandlerFixture(t)

		cases := []TaskRequest{
			{Subject: "", Deadline: "2026-06-01", Status: "pending"},
			{Subject: "ok", Deadline: "June 1st", Status: "pending"},
			{Subject: "ok", Deadline: "2026-06-01", Status: "archived"},
		}
		for _, c := range cases {
			w := httptest.NewRecorder()
			handler.CreateTask(w, authedRequest(http.MethodPost, "/tasks", jsonBody(t, c), userID, ""))
			assert.Equal(t, http.StatusBadRequest, w.Code, "payload %+v", c)
		}
	})
}

func TestUpdateTaskHandler(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		handler, taskStore, userID := newTaskHandlerFixture(t)
		stored := seedStoredTask(t, taskStore, userID, "before")

		body := jsonBody(t, TaskRequest{Subject: "after", Deadline: "2026-07-01", Status: "done"})
		w := httptest.NewRecorder()
		handler.UpdateTask(w, authedRequest(http.MethodPut, "/tasks/"+stored.ID.String(), body, userID, stored.ID.String()))

		require.Equal(t, http.StatusOK, w.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "after", resp.Subject)
		assert.Equal(t, "done", resp.Status)
		assert.Equal(t, userID.String(), resp.UserID)
	})

	t.Run("another user's task is not found", func(t *testing.T) {
		handler, taskStore, userID := newTaskHandlerFixture(t)
		foreign := seedStoredTask(t, taskStore, uuid.New(), "not mine")

		body := jsonBody(t, TaskRequest{Subject: "hijack", Deadline: "2026-07-01", Status: "done"})
		w := httptest.NewRecorder()
		handler.UpdateTask(w, authedRequest(http.MethodPut, "/tasks/"+foreign.ID.String(), body, userID, foreign.ID.String()))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed task id", func(t *testing.T) {
		handler, _, userID := newTaskHandlerFixture(t)

		body := jsonBody(t, TaskRequest{Subject: "x", Deadline: "2026-07-01", Status: "done"})
		w := httptest.NewRecorder()
		handler.UpdateTask(w, authedRequest(http.MethodPut, "/tasks/not-a-uuid", body, userID, "not-a-uuid"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteTaskHandler(t *testing.T) {
	t.Run("no content, then absent from the list", func(t *testing.T) {
		handler, taskStore, userID := newTaskHandlerFixture(t)
		stored := seedStoredTask(t, taskStore, userID, "to delete")

		w := httptest.NewRecorder()
		handler.DeleteTask(w, authedRequest(http.MethodDelete, "/tasks/"+stored.ID.String(), nil, userID, stored.ID.String()))
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())

		// The row is retained.
		kept, err := taskStore.GetByID(context.Background(), stored.ID)
		require.NoError(t, err)
		assert.True(t, kept.Deleted)

		w = httptest.NewRecorder()
		handler.ListTasks(w, authedRequest(http.MethodGet, "/tasks", nil, userID, ""))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("unknown task", func(t *testing.T) {
		handler, _, userID := newTaskHandlerFixture(t)
		id := uuid.New().String()

		w := httptest.NewRecorder()
		handler.DeleteTask(w, authedRequest(http.MethodDelete, "/tasks/"+id, nil, userID, id))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListSubtasksHandler(t *testing.T) {
	handler, taskStore, userID := newTaskHandlerFixture(t)
	stored := seedStoredTask(t, taskStore, userID, "parent")

	deadline, err := domain.ParseDate("2026-06-02")
	require.NoError(t, err)
	stored.Subtasks = []domain.Subtask{
		{Subject: "visible", Deadline: deadline, Status: domain.StatusPending},
		{Subject: "hidden", Deadline: deadline, Status: domain.StatusDone, Deleted: true},
	}
	require.NoError(t, taskStore.Update(context.Background(), stored))

	w := httptest.NewRecorder()
	handler.ListSubtasks(w, authedRequest(http.MethodGet, "/tasks/"+stored.ID.String()+"/subtasks", nil, userID, stored.ID.String()))

	require.Equal(t, http.StatusOK, w.Code)

	var resp []SubtaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "visible", resp[0].Subject)
}

func TestReplaceSubtasksHandler(t *testing.T) {
	t.Run("replaces actives and hides tombstones", func(t *testing.T) {
		handler, taskStore, userID := newTaskHandlerFixture(t)
		stored := seedStoredTask(t, taskStore, userID, "parent")

		deadline, err := domain.ParseDate("2026-06-02")
		require.NoError(t, err)
		stored.Subtasks = []domain.Subtask{
			{Subject: "old", Deadline: deadline, Status: domain.StatusPending},
			{Subject: "tombstone", Deadline: deadline, Status: domain.StatusDone, Deleted: true},
		}
		require.NoError(t, taskStore.Update(context.Background(), stored))

		body := jsonBody(t, []SubtaskRequest{
			{Subject: "new one", Deadline: "2026-06-03", Status: "pending"},
			{Subject: "defaulted", Deadline: "2026-06-04"},
		})
		w := httptest.NewRecorder()
		handler.ReplaceSubtasks(w, authedRequest(http.MethodPut, "/tasks/"+stored.ID.String()+"/subtasks", body, userID, stored.ID.String()))

		require.Equal(t, http.StatusOK, w.Code)

		var resp []SubtaskResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 2)
		assert.Equal(t, "new one", resp[0].Subject)
		assert.Equal(t, "defaulted", resp[1].Subject)
		assert.Equal(t, "in-progress", resp[1].Status)

		// The tombstone is preserved in storage but never surfaced.
		kept, err := taskStore.GetByID(context.Background(), stored.ID)
		require.NoError(t, err)
		require.Len(t, kept.Subtasks, 3)
		assert.Equal(t, "tombstone", kept.Subtasks[2].Subject)
		assert.True(t, kept.Subtasks[2].Deleted)
	})

	t.Run("invalid subtask", func(t *testing.T) {
		handler, taskStore, userID := newTaskHandlerFixture(t)
		stored := seedStoredTask(t, taskStore, userID, "parent")

		body := jsonBody(t, []SubtaskRequest{
			{Subject: "", Deadline: "2026-06-03", Status: "pending"},
		})
		w := httptest.NewRecorder()
		handler.ReplaceSubtasks(w, authedRequest(http.MethodPut, "/tasks/"+stored.ID.String()+"/subtasks", body, userID, stored.ID.String()))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-array body", func(t *testing.T) {
		handler, taskStore, userID := newTaskHandlerFixture(t)
		stored := seedStoredTask(t, taskStore, userID, "parent")

		w := httptest.NewRecorder()
		handler.ReplaceSubtasks(w, authedRequest(
			http.MethodPut,
			"/tasks/"+stored.ID.String()+"/subtasks",
			bytes.NewBufferString(`{"subject":"x"}`),
			userID, stored.ID.String()))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
