// Package api is the typed client for the tracker REST service. It owns
// the wire contract only; callers hold the bearer token (via the session
// gate) and pass it per call, so an unauthenticated caller cannot build
// a request at all.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/taskdeck/internal/model"
)

// maxResponseSize bounds how much of a response body we will read.
const maxResponseSize = 4 * 1024 * 1024 // 4MB

// Client talks to one tracker service. No retries, no per-call
// timeouts; the http.Client timeout set at construction is the only
// deadline, and every failed call is reported once to the caller.
type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

// Error is a non-2xx response decoded into its status and the server's
// message field (when present).
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned %s", http.StatusText(e.Status))
}

type credentialsRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login exchanges email/password for a bearer token and the user record.
func (c *Client) Login(ctx context.Context, email, password string) (string, model.User, error) {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/api/users/login", "", credentialsRequest{Email: email, Password: password}, &out)
	if err != nil {
		return "", model.User{}, err
	}
	return out.Token, out.User, nil
}

// Signup registers a new account; the response shape matches Login.
func (c *Client) Signup(ctx context.Context, name, email, password string) (string, model.User, error) {
	var out authResponse
	err := c.do(ctx, http.MethodPost, "/api/users/signup", "", credentialsRequest{Name: name, Email: email, Password: password}, &out)
	if err != nil {
		return "", model.User{}, err
	}
	return out.Token, out.User, nil
}

// ProjectDraft carries the client-writable project fields. TaskCount and
// CreatedAt are server-owned and deliberately absent.
type ProjectDraft struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      model.ProjectStatus `json:"status"`
}

// TaskDraft carries the client-writable task fields. DueDate is a plain
// calendar date (YYYY-MM-DD).
type TaskDraft struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      model.TaskStatus `json:"status"`
	DueDate     string           `json:"dueDate"`
	ProjectID   string           `json:"projectId"`
}

func (c *Client) ListProjects(ctx context.Context, token string) ([]model.Project, error) {
	var out struct {
		Projects []model.Project `json:"projects"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/projects/projects", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

func (c *Client) CreateProject(ctx context.Context, token string, d ProjectDraft) (*model.Project, error) {
	var out model.Project
	if err := c.do(ctx, http.MethodPost, "/api/projects/projects", token, d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, token, id string, d ProjectDraft) (*model.Project, error) {
	var out model.Project
	if err := c.do(ctx, http.MethodPut, "/api/projects/project/"+id, token, d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListTasks(ctx context.Context, token string) ([]model.Task, error) {
	var out struct {
		Tasks []model.Task `json:"tasks"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/tasks/tasks", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, token string, d TaskDraft) (*model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks/tasks", token, d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, token, id string, d TaskDraft) (*model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/task/"+id, token, d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/task/"+id, token, nil, nil)
}

// do sends one JSON request and decodes the response into out (when out
// is non-nil). Non-2xx responses become *Error.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
