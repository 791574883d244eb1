package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskdeck/internal/api"
	"github.com/idilsaglam/taskdeck/internal/model"
)

func newClient(t *testing.T, h http.HandlerFunc) *api.Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return api.New(server.URL, 5*time.Second)
}

func TestLoginSuccess(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"), "login is unauthenticated")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body["email"])
		assert.Equal(t, "hunter2", body["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-1",
			"user":  map[string]string{"name": "Ada"},
		})
	})

	token, user, err := c.Login(context.Background(), "ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, "Ada", user.Name)
}

func TestLoginFailureCarriesServerMessage(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	})

	_, _, err := c.Login(context.Background(), "ada@example.com", "wrong")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Error())
}

func TestSignupSendsName(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/signup", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ada", body["name"])
		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-2",
			"user":  map[string]string{"name": "Ada"},
		})
	})

	token, _, err := c.Signup(context.Background(), "Ada", "ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
}

func TestListProjectsSendsBearer(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/projects/projects", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"projects": []map[string]any{
				{"_id": "p1", "title": "Home", "status": "active", "taskCount": 3},
				{"_id": "p2", "title": "Work", "status": "completed", "taskCount": 0},
			},
		})
	})

	projects, err := c.ListProjects(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "p1", projects[0].ID, "server order preserved")
	assert.Equal(t, 3, projects[0].TaskCount)
	assert.Equal(t, model.ProjectCompleted, projects[1].Status)
}

func TestUpdateProjectSendsOnlyMutableFields(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/projects/project/p1", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "taskCount")
		assert.NotContains(t, body, "createdAt")
		assert.Equal(t, "Home v2", body["title"])
		json.NewEncoder(w).Encode(map[string]any{"_id": "p1", "title": "Home v2", "status": "active"})
	})

	p, err := c.UpdateProject(context.Background(), "tok-1", "p1", api.ProjectDraft{
		Title: "Home v2", Description: "d", Status: model.ProjectActive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Home v2", p.Title)
}

func TestCreateTaskPayload(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tasks/tasks", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Buy milk", body["title"])
		assert.Equal(t, "todo", body["status"])
		assert.Equal(t, "2026-09-01", body["dueDate"])
		assert.Equal(t, "p1", body["projectId"])
		json.NewEncoder(w).Encode(map[string]any{"_id": "t1", "title": "Buy milk", "projectId": "p1", "status": "todo"})
	})

	task, err := c.CreateTask(context.Background(), "tok-1", api.TaskDraft{
		Title: "Buy milk", Description: "2L", Status: model.TaskTodo,
		DueDate: "2026-09-01", ProjectID: "p1",
	})
	require.NoError(t, err)
	assert.Equal(t, "t1", task.ID)
}

func TestDeleteTask(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/tasks/task/t1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteTask(context.Background(), "tok-1", "t1"))
}

func TestErrorWithoutMessageFallsBackToStatusText(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.DeleteTask(context.Background(), "tok-1", "t1")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Error(), "Bad Gateway")
}
