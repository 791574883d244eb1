package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/taskdeck/internal/api"
	"github.com/idilsaglam/taskdeck/internal/model"
	"github.com/idilsaglam/taskdeck/internal/ui"
)

// taskFormMode mirrors projectFormMode for tasks.
type taskFormMode interface{ isTaskFormMode() }

type taskCreate struct{}

type taskEdit struct{ task model.Task }

func (taskCreate) isTaskFormMode() {}
func (taskEdit) isTaskFormMode()   {}

const (
	taskFieldProject = iota
	taskFieldTitle
	taskFieldDesc
	taskFieldStatus
	taskFieldDue
	taskFieldCount
)

// taskForm is the create/edit controller for tasks. The project
// selector cycles the cached projects; projIdx == -1 means nothing
// selected yet, which blocks submit (a task must be born into an
// existing project).
type taskForm struct {
	mode      taskFormMode
	projects  []model.Project
	projIdx   int
	title     textinput.Model
	desc      textinput.Model
	due       textinput.Model
	statusIdx int
	focus     int
	errMsg    string
}

func newTaskForm() taskForm {
	title := textinput.New()
	title.Prompt = "> "
	title.Placeholder = "Task title"
	title.CharLimit = 200

	desc := textinput.New()
	desc.Prompt = "> "
	desc.Placeholder = "Describe the task"
	desc.CharLimit = 500

	due := textinput.New()
	due.Prompt = "> "
	due.Placeholder = "YYYY-MM-DD"
	due.CharLimit = 10

	return taskForm{title: title, desc: desc, due: due, projIdx: -1}
}

func (f *taskForm) open() bool { return f.mode != nil }

// openCreate resets the form to its defaults: status todo, no title, a
// preselected project when the surrounding view is already scoped.
func (f *taskForm) openCreate(projects []model.Project, preselect string) tea.Cmd {
	f.mode = taskCreate{}
	f.projects = projects
	f.projIdx = indexOfProject(projects, preselect)
	f.title.SetValue("")
	f.desc.SetValue("")
	f.due.SetValue("")
	f.statusIdx = 0 // todo
	f.errMsg = ""
	return f.setFocus(taskFieldProject)
}

// openEdit prefills from the entity; the due date drops its time-of-day
// component on the way in.
func (f *taskForm) openEdit(t model.Task, projects []model.Project) tea.Cmd {
	f.mode = taskEdit{task: t}
	f.projects = projects
	f.projIdx = indexOfProject(projects, t.ProjectID)
	f.title.SetValue(t.Title)
	f.title.CursorEnd()
	f.desc.SetValue(t.Description)
	f.desc.CursorEnd()
	f.due.SetValue(t.DueDay())
	f.due.CursorEnd()
	f.statusIdx = 0
	for i, s := range model.TaskStatuses {
		if s == t.Status {
			f.statusIdx = i
		}
	}
	f.errMsg = ""
	return f.setFocus(taskFieldProject)
}

func (f *taskForm) close() {
	f.mode = nil
	f.title.Blur()
	f.desc.Blur()
	f.due.Blur()
}

func (f *taskForm) fail(msg string) {
	f.errMsg = msg
}

func (f *taskForm) setFocus(field int) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.desc.Blur()
	f.due.Blur()
	switch field {
	case taskFieldTitle:
		return f.title.Focus()
	case taskFieldDesc:
		return f.desc.Focus()
	case taskFieldDue:
		return f.due.Focus()
	}
	return nil
}

// draft validates the required fields (project, title, description,
// due date) and builds the payload. The update/create split happens at
// submit time from the mode variant.
func (f *taskForm) draft() (api.TaskDraft, bool) {
	title := strings.TrimSpace(f.title.Value())
	desc := strings.TrimSpace(f.desc.Value())
	due := strings.TrimSpace(f.due.Value())
	if f.projIdx < 0 || f.projIdx >= len(f.projects) {
		f.errMsg = "pick a project"
		return api.TaskDraft{}, false
	}
	if title == "" || desc == "" || due == "" {
		f.errMsg = "all fields are required"
		return api.TaskDraft{}, false
	}
	if _, err := time.Parse("2006-01-02", due); err != nil {
		f.errMsg = "due date must be YYYY-MM-DD"
		return api.TaskDraft{}, false
	}
	return api.TaskDraft{
		Title:       title,
		Description: desc,
		Status:      model.TaskStatuses[f.statusIdx],
		DueDate:     due,
		ProjectID:   f.projects[f.projIdx].ID,
	}, true
}

func (f *taskForm) update(msg tea.Msg) (cmd tea.Cmd, submit bool, canceled bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return nil, false, true
		case "tab", "down":
			return f.setFocus((f.focus + 1) % taskFieldCount), false, false
		case "shift+tab", "up":
			return f.setFocus((f.focus + taskFieldCount - 1) % taskFieldCount), false, false
		case "left", "right":
			switch f.focus {
			case taskFieldProject:
				f.cycleProject(k.String() == "right")
				return nil, false, false
			case taskFieldStatus:
				f.statusIdx = (f.statusIdx + 1) % len(model.TaskStatuses)
				return nil, false, false
			}
		case "enter":
			if _, ok := f.draft(); ok {
				return nil, true, false
			}
			return nil, false, false
		}
	}
	switch f.focus {
	case taskFieldTitle:
		f.title, cmd = f.title.Update(msg)
	case taskFieldDesc:
		f.desc, cmd = f.desc.Update(msg)
	case taskFieldDue:
		f.due, cmd = f.due.Update(msg)
	}
	return cmd, false, false
}

func (f *taskForm) cycleProject(forward bool) {
	n := len(f.projects)
	if n == 0 {
		f.projIdx = -1
		return
	}
	switch {
	case f.projIdx < 0:
		f.projIdx = 0
	case forward:
		f.projIdx = (f.projIdx + 1) % n
	default:
		f.projIdx = (f.projIdx + n - 1) % n
	}
}

func (f *taskForm) view() string {
	heading := "New task"
	if _, ok := f.mode.(taskEdit); ok {
		heading = "Edit task"
	}

	proj := "(pick a project)"
	if f.projIdx >= 0 && f.projIdx < len(f.projects) {
		proj = f.projects[f.projIdx].Title
	}

	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(heading))
	if f.errMsg != "" {
		b.WriteString("  " + ui.ErrorStyle.Render(f.errMsg))
	}
	b.WriteString("\n")
	b.WriteString(formField("Project", selector(proj), f.focus == taskFieldProject))
	b.WriteString(formField("Title", f.title.View(), f.focus == taskFieldTitle))
	b.WriteString(formField("Description", f.desc.View(), f.focus == taskFieldDesc))
	b.WriteString(formField("Status", selector(model.TaskStatuses[f.statusIdx].Display()), f.focus == taskFieldStatus))
	b.WriteString(formField("Due date", f.due.View(), f.focus == taskFieldDue))
	b.WriteString(ui.HelpStyle.Render("tab next · ←/→ change · enter save · esc cancel"))
	return modalBox(b.String())
}

func indexOfProject(projects []model.Project, id string) int {
	for i, p := range projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ---- shared form rendering ----

func formField(label, control string, focused bool) string {
	l := ui.MutedStyle.Render(label)
	if focused {
		l = ui.AccentStyle.Render(label)
	}
	return fmt.Sprintf("%s\n%s\n", l, control)
}

func selector(value string) string {
	return fmt.Sprintf("‹ %s ›", value)
}

func modalBox(inner string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return box.Render(inner)
}
