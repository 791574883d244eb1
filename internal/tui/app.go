// Package tui is the interactive client. One bubbletea program hosts
// every screen; the session gate decides which screens are reachable,
// the collection caches hold the server snapshots, and every mutation
// is followed by a full refresh of the collections it touched.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskdeck/internal/api"
	"github.com/idilsaglam/taskdeck/internal/cache"
	"github.com/idilsaglam/taskdeck/internal/filter"
	"github.com/idilsaglam/taskdeck/internal/model"
	"github.com/idilsaglam/taskdeck/internal/session"
	"github.com/idilsaglam/taskdeck/internal/ui"
)

type screen int

const (
	screenLogin screen = iota
	screenSignup
	screenDashboard
	screenTasks
)

// App is the root model. Caches are written only from Update, so the
// whole program stays single-writer without locks; in-flight responses
// land whenever they land and the last one wins.
type App struct {
	gate   *session.Gate
	client *api.Client

	projects *cache.Collection[model.Project]
	tasks    *cache.Collection[model.Task]

	screen screen
	login  loginModel
	signup signupModel
	dash   dashModel
	taskv  tasksModel

	width, height int
}

func New(gate *session.Gate, client *api.Client) App {
	a := App{
		gate:     gate,
		client:   client,
		projects: cache.New[model.Project]("projects", nil),
		tasks:    cache.New[model.Task]("tasks", nil),
		login:    newLoginModel(),
		signup:   newSignupModel(),
		dash:     newDashModel(),
		taskv:    newTasksModel(),
	}
	// entry redirect runs before any command is built: without a
	// session the protected screens are unreachable and nothing
	// networked is ever issued
	if a.gate.HasSession() {
		a.screen = screenDashboard
	} else {
		a.screen = screenLogin
		a.login.reset("")
	}
	return a
}

// Run starts the program in the alternate screen.
func Run(gate *session.Gate, client *api.Client) error {
	p := tea.NewProgram(New(gate, client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (a App) Init() tea.Cmd {
	if a.screen == screenDashboard {
		return tea.Batch(a.refreshProjectsCmd(), textinput.Blink)
	}
	return textinput.Blink
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.dash.list.SetSize(msg.Width-4, msg.Height-9)
		a.taskv.list.SetSize(msg.Width-4, msg.Height-11)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case projectsFetchedMsg:
		if msg.err != nil {
			a.projects.Fail(msg.err)
			return a, nil
		}
		a.projects.Replace(msg.items)
		cmd := a.syncLists()
		return a, cmd

	case tasksFetchedMsg:
		if msg.err != nil {
			a.tasks.Fail(msg.err)
			return a, nil
		}
		a.tasks.Replace(msg.items)
		cmd := a.syncLists()
		return a, cmd

	case authResultMsg:
		if msg.err != nil {
			if a.screen == screenSignup {
				a.signup.rejected(msg.err)
			} else {
				a.login.rejected(msg.err)
			}
			return a, nil
		}
		if err := a.gate.Establish(msg.token, msg.user.Name); err != nil {
			a.login.rejected(err)
			a.screen = screenLogin
			return a, nil
		}
		cmd := a.gotoProtected(screenDashboard)
		return a, cmd

	case projectSavedMsg:
		if msg.err != nil {
			a.dash.form.fail(msg.err.Error())
			return a, nil
		}
		a.dash.form.close()
		return a, a.refreshProjectsCmd()

	case taskSavedMsg:
		if msg.err != nil {
			a.taskv.form.fail(msg.err.Error())
			return a, nil
		}
		a.taskv.form.close()
		// project taskCounts are server-derived; refresh both
		return a, tea.Batch(a.refreshTasksCmd(), a.refreshProjectsCmd())

	case taskDeletedMsg:
		if msg.err != nil {
			a.taskv.deleteErr = "delete failed: " + msg.err.Error()
			return a, nil
		}
		a.taskv.deleteErr = ""
		return a, tea.Batch(a.refreshTasksCmd(), a.refreshProjectsCmd())
	}

	switch a.screen {
	case screenLogin:
		return a.updateLogin(msg)
	case screenSignup:
		return a.updateSignup(msg)
	case screenDashboard:
		return a.updateDashboard(msg)
	case screenTasks:
		return a.updateTasks(msg)
	}
	return a, nil
}

func (a App) View() string {
	var content string
	switch a.screen {
	case screenLogin:
		content = a.login.view()
	case screenSignup:
		content = a.signup.view()
	case screenDashboard:
		content = a.dash.view(a.gate.Identity(), bannerText(a.projects), a.projects.Loaded())
	case screenTasks:
		content = a.taskv.view(a.gate.Identity(), bannerText(a.tasks), a.tasks.Loaded(), a.projects.List())
	}
	return ui.PanelString(content)
}

// ---- screen updates ----

func (a App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "ctrl+s" {
		a.screen = screenSignup
		cmd := a.signup.reset()
		return a, cmd
	}
	cmd, submit := a.login.update(msg)
	if submit {
		return a, a.loginCmd(a.login.email.Value(), a.login.password.Value())
	}
	return a, cmd
}

func (a App) updateSignup(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.screen = screenLogin
		cmd := a.login.reset("")
		return a, cmd
	}
	cmd, submit := a.signup.update(msg)
	if submit {
		return a, a.signupCmd(a.signup.name.Value(), a.signup.email.Value(), a.signup.password.Value())
	}
	return a, cmd
}

func (a App) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.dash.form.open() {
		cmd, submit, canceled := a.dash.form.update(msg)
		if canceled {
			a.dash.form.close()
			return a, nil
		}
		if submit {
			d, _ := a.dash.form.draft()
			return a, a.saveProjectCmd(a.dash.form.mode, d)
		}
		return a, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q":
			return a, tea.Quit
		case "x":
			a.projects.ClearErr()
			return a, nil
		case "r":
			return a, a.refreshProjectsCmd()
		case "n":
			cmd := a.dash.form.openCreate()
			return a, cmd
		case "e":
			if p, ok := a.dash.selected(); ok {
				cmd := a.dash.form.openEdit(p)
				return a, cmd
			}
			return a, nil
		case "enter":
			if p, ok := a.dash.selected(); ok {
				a.taskv.projectFilter = p.ID
				cmd := a.gotoProtected(screenTasks)
				return a, cmd
			}
			return a, nil
		case "t":
			a.taskv.projectFilter = filter.All
			cmd := a.gotoProtected(screenTasks)
			return a, cmd
		case "L":
			return a.logout()
		}
	}

	var cmd tea.Cmd
	a.dash.list, cmd = a.dash.list.Update(msg)
	return a, cmd
}

func (a App) updateTasks(msg tea.Msg) (tea.Model, tea.Cmd) {
	// delete confirmation swallows everything until answered
	if a.taskv.confirm != nil {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "y":
				id := a.taskv.confirm.ID
				a.taskv.confirm = nil
				return a, a.deleteTaskCmd(id)
			case "n", "esc":
				a.taskv.confirm = nil
			}
		}
		return a, nil
	}

	if a.taskv.form.open() {
		cmd, submit, canceled := a.taskv.form.update(msg)
		if canceled {
			a.taskv.form.close()
			return a, nil
		}
		if submit {
			d, _ := a.taskv.form.draft()
			return a, a.saveTaskCmd(a.taskv.form.mode, d)
		}
		return a, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q":
			return a, tea.Quit
		case "x":
			a.tasks.ClearErr()
			return a, nil
		case "r":
			return a, tea.Batch(a.refreshTasksCmd(), a.refreshProjectsCmd())
		case "n":
			preselect := ""
			if a.taskv.projectFilter != filter.All {
				preselect = a.taskv.projectFilter
			}
			cmd := a.taskv.form.openCreate(a.projects.List(), preselect)
			return a, cmd
		case "e":
			if t, ok := a.taskv.selected(); ok {
				cmd := a.taskv.form.openEdit(t, a.projects.List())
				return a, cmd
			}
			return a, nil
		case "d":
			if t, ok := a.taskv.selected(); ok {
				a.taskv.deleteErr = ""
				a.taskv.confirm = &t
			}
			return a, nil
		case "p":
			a.taskv.cycleProjectFilter(a.projects.List())
			cmd := a.syncLists()
			return a, cmd
		case "s":
			a.taskv.cycleStatusFilter()
			cmd := a.syncLists()
			return a, cmd
		case "L":
			return a.logout()
		case "esc":
			cmd := a.gotoProtected(screenDashboard)
			return a, cmd
		}
	}

	var cmd tea.Cmd
	a.taskv.list, cmd = a.taskv.list.Update(msg)
	return a, cmd
}

// ---- navigation ----

// gotoProtected is the session gate in front of every protected screen:
// no session means the login screen, synchronously, before any command
// (and so any network call) is issued.
func (a *App) gotoProtected(s screen) tea.Cmd {
	if !a.gate.HasSession() {
		a.screen = screenLogin
		return a.login.reset("")
	}
	a.screen = s
	switch s {
	case screenDashboard:
		return tea.Batch(a.refreshProjectsCmd(), a.syncLists())
	case screenTasks:
		return tea.Batch(a.refreshProjectsCmd(), a.refreshTasksCmd(), a.syncLists())
	}
	return nil
}

func (a App) logout() (tea.Model, tea.Cmd) {
	err := a.gate.Clear()
	a.screen = screenLogin
	cmd := a.login.reset("logged out")
	if err != nil {
		a.login.info = ""
		a.login.errMsg = err.Error()
	}
	return a, cmd
}

// syncLists rebuilds both list views from the caches and the current
// selectors; the visible subset is always recomputed, never patched.
func (a *App) syncLists() tea.Cmd {
	projects := a.projects.List()

	projItems := make([]list.Item, 0, len(projects))
	titleByID := make(map[string]string, len(projects))
	for _, p := range projects {
		projItems = append(projItems, projectItem{p: p})
		titleByID[p.ID] = p.Title
	}

	visible := filter.Visible(a.tasks.List(), a.taskv.projectFilter, a.taskv.statusFilter)
	taskItems := make([]list.Item, 0, len(visible))
	for _, t := range visible {
		title, ok := titleByID[t.ProjectID]
		if !ok {
			title = "(no project)"
		}
		taskItems = append(taskItems, taskItem{t: t, projectTitle: title})
	}

	return tea.Batch(
		a.dash.list.SetItems(projItems),
		a.taskv.list.SetItems(taskItems),
	)
}

// ---- commands ----

func (a App) refreshProjectsCmd() tea.Cmd {
	token := a.gate.Token()
	client := a.client
	return func() tea.Msg {
		items, err := client.ListProjects(context.Background(), token)
		return projectsFetchedMsg{items: items, err: err}
	}
}

func (a App) refreshTasksCmd() tea.Cmd {
	token := a.gate.Token()
	client := a.client
	return func() tea.Msg {
		items, err := client.ListTasks(context.Background(), token)
		return tasksFetchedMsg{items: items, err: err}
	}
}

func (a App) loginCmd(email, password string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		token, user, err := client.Login(context.Background(), email, password)
		return authResultMsg{token: token, user: user, err: err}
	}
}

func (a App) signupCmd(name, email, password string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		token, user, err := client.Signup(context.Background(), name, email, password)
		return authResultMsg{token: token, user: user, err: err}
	}
}

func (a App) saveProjectCmd(mode projectFormMode, d api.ProjectDraft) tea.Cmd {
	token := a.gate.Token()
	client := a.client
	return func() tea.Msg {
		var err error
		switch m := mode.(type) {
		case projectEdit:
			_, err = client.UpdateProject(context.Background(), token, m.project.ID, d)
		default:
			_, err = client.CreateProject(context.Background(), token, d)
		}
		return projectSavedMsg{err: err}
	}
}

func (a App) saveTaskCmd(mode taskFormMode, d api.TaskDraft) tea.Cmd {
	token := a.gate.Token()
	client := a.client
	return func() tea.Msg {
		var err error
		switch m := mode.(type) {
		case taskEdit:
			_, err = client.UpdateTask(context.Background(), token, m.task.ID, d)
		default:
			_, err = client.CreateTask(context.Background(), token, d)
		}
		return taskSavedMsg{err: err}
	}
}

func (a App) deleteTaskCmd(id string) tea.Cmd {
	token := a.gate.Token()
	client := a.client
	return func() tea.Msg {
		return taskDeletedMsg{err: client.DeleteTask(context.Background(), token, id)}
	}
}

func bannerText[T any](c *cache.Collection[T]) string {
	if err := c.Err(); err != nil {
		return fmt.Sprintf("failed to load %s: %s", c.Name(), err)
	}
	return ""
}
