package tui

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/taskdeck/internal/api"
	"github.com/idilsaglam/taskdeck/internal/filter"
	"github.com/idilsaglam/taskdeck/internal/model"
	"github.com/idilsaglam/taskdeck/internal/session"
)

// memStore is the in-memory session.Store for app tests.
type memStore struct{ creds *session.Credentials }

func (m *memStore) Load() (*session.Credentials, error) { return m.creds, nil }
func (m *memStore) Save(c session.Credentials) error    { m.creds = &c; return nil }
func (m *memStore) Delete() error                       { m.creds = nil; return nil }

// testServer counts every authenticated request it sees.
func testServer(t *testing.T) (*api.Client, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			hits.Add(1)
		}
		json.NewEncoder(w).Encode(map[string]any{"projects": []any{}, "tasks": []any{}})
	}))
	t.Cleanup(server.Close)
	return api.New(server.URL, time.Second), &hits
}

func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestNoSessionRedirectsBeforeAnyRequest(t *testing.T) {
	client, hits := testServer(t)
	gate := session.NewGate(&memStore{})

	a := New(gate, client)
	assert.Equal(t, screenLogin, a.screen, "protected entry without a session lands on login")

	// drain the init command; it must not reach the server
	run(a.Init())
	assert.Equal(t, int64(0), hits.Load(), "zero authenticated requests fired")
}

func TestSessionGoesStraightToDashboard(t *testing.T) {
	client, _ := testServer(t)
	gate := session.NewGate(&memStore{creds: &session.Credentials{Token: "tok", Identity: "Ada"}})

	a := New(gate, client)
	assert.Equal(t, screenDashboard, a.screen, "login screen redirects away when a session exists")
}

func TestLogoutThenProtectedEntryRedirects(t *testing.T) {
	client, hits := testServer(t)
	gate := session.NewGate(&memStore{creds: &session.Credentials{Token: "tok", Identity: "Ada"}})

	a := New(gate, client)
	// seed the cache so redirect cannot depend on it being empty
	a.tasks.Replace([]model.Task{{ID: "t1", ProjectID: "p1"}})

	m, _ := a.logout()
	a = m.(App)
	assert.Equal(t, screenLogin, a.screen)
	assert.False(t, gate.HasSession())

	cmd := a.gotoProtected(screenTasks)
	assert.Equal(t, screenLogin, a.screen, "redirects regardless of prior cache contents")
	run(cmd)
	assert.Equal(t, int64(0), hits.Load())
}

func TestLoginSuccessEstablishesAndRefreshes(t *testing.T) {
	client, _ := testServer(t)
	gate := session.NewGate(&memStore{})
	a := New(gate, client)

	m, cmd := a.Update(authResultMsg{token: "tok-9", user: model.User{Name: "Ada"}})
	a = m.(App)
	assert.Equal(t, screenDashboard, a.screen)
	assert.True(t, gate.HasSession())
	assert.Equal(t, "Ada", gate.Identity())
	assert.NotNil(t, cmd, "entering the dashboard triggers a refresh")
}

func TestAuthFailureKeepsEmailClearsPassword(t *testing.T) {
	client, _ := testServer(t)
	a := New(session.NewGate(&memStore{}), client)
	a.login.email.SetValue("ada@example.com")
	a.login.password.SetValue("wrong")

	m, _ := a.Update(authResultMsg{err: errors.New("invalid credentials")})
	a = m.(App)
	assert.Equal(t, screenLogin, a.screen)
	assert.Equal(t, "ada@example.com", a.login.email.Value())
	assert.Empty(t, a.login.password.Value())
	assert.Equal(t, "invalid credentials", a.login.errMsg)
	assert.False(t, a.gate.HasSession(), "a failed login never touches the session")
}

func TestFetchFailureKeepsCacheAndShowsBanner(t *testing.T) {
	client, _ := testServer(t)
	gate := session.NewGate(&memStore{creds: &session.Credentials{Token: "tok", Identity: "Ada"}})
	a := New(gate, client)
	a.tasks.Replace([]model.Task{{ID: "t1", ProjectID: "p1", Title: "keep me"}})

	m, _ := a.Update(tasksFetchedMsg{err: errors.New("gateway timeout")})
	a = m.(App)
	require.Len(t, a.tasks.List(), 1, "previous contents retained")
	assert.Error(t, a.tasks.Err())
	assert.Contains(t, bannerText(a.tasks), "gateway timeout")
}

func TestTaskSaveFailureKeepsFormOpenWithInput(t *testing.T) {
	client, _ := testServer(t)
	gate := session.NewGate(&memStore{creds: &session.Credentials{Token: "tok", Identity: "Ada"}})
	a := New(gate, client)

	task := model.Task{ID: "t1", ProjectID: "p1", Title: "old title"}
	projects := []model.Project{{ID: "p1", Title: "Home"}}
	a.taskv.form.openEdit(task, projects)
	a.taskv.form.title.SetValue("new title")

	m, _ := a.Update(taskSavedMsg{err: errors.New("validation failed")})
	a = m.(App)
	require.True(t, a.taskv.form.open(), "form stays open on a failed submit")
	assert.IsType(t, taskEdit{}, a.taskv.form.mode)
	assert.Equal(t, "new title", a.taskv.form.title.Value(), "entered values survive")
	assert.Equal(t, "validation failed", a.taskv.form.errMsg)
}

func TestTaskSaveSuccessClosesFormAndRefreshes(t *testing.T) {
	client, _ := testServer(t)
	gate := session.NewGate(&memStore{creds: &session.Credentials{Token: "tok", Identity: "Ada"}})
	a := New(gate, client)
	a.taskv.form.openCreate([]model.Project{{ID: "p1", Title: "Home"}}, "p1")

	m, cmd := a.Update(taskSavedMsg{})
	a = m.(App)
	assert.False(t, a.taskv.form.open(), "successful submit closes the form")
	assert.NotNil(t, cmd, "and refreshes the owning collections")
}

func TestDeleteNeedsConfirmationAndRefreshOnSuccess(t *testing.T) {
	client, _ := testServer(t)
	gate := session.NewGate(&memStore{creds: &session.Credentials{Token: "tok", Identity: "Ada"}})
	a := New(gate, client)
	a.screen = screenTasks
	task := model.Task{ID: "t1", ProjectID: "p1", Title: "doomed"}
	a.taskv.confirm = &task

	// "n" keeps the task
	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	a = m.(App)
	assert.Nil(t, a.taskv.confirm)
	assert.Nil(t, cmd, "declining issues nothing")

	// "y" issues the delete
	a.taskv.confirm = &task
	m, cmd = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	a = m.(App)
	assert.Nil(t, a.taskv.confirm)
	require.NotNil(t, cmd)

	// success refreshes; the row only disappears with the new snapshot
	m, cmd = a.Update(taskDeletedMsg{})
	a = m.(App)
	assert.Empty(t, a.taskv.deleteErr)
	assert.NotNil(t, cmd)
}

func TestStatusFilterCycle(t *testing.T) {
	m := newTasksModel()
	assert.Equal(t, filter.All, m.statusFilter)
	m.cycleStatusFilter()
	assert.Equal(t, "todo", m.statusFilter)
	m.cycleStatusFilter()
	assert.Equal(t, "in-progress", m.statusFilter)
	m.cycleStatusFilter()
	assert.Equal(t, "done", m.statusFilter)
	m.cycleStatusFilter()
	assert.Equal(t, filter.All, m.statusFilter)
}

func TestProjectFilterCycleFallsBackWhenProjectVanished(t *testing.T) {
	m := newTasksModel()
	m.projectFilter = "deleted-project"
	m.cycleProjectFilter([]model.Project{{ID: "p1"}})
	assert.Equal(t, filter.All, m.projectFilter)
}
