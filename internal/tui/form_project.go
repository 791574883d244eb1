package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskdeck/internal/api"
	"github.com/idilsaglam/taskdeck/internal/model"
	"github.com/idilsaglam/taskdeck/internal/ui"
)

// projectFormMode distinguishes the two ways a form opens. Create and
// edit are separate variants so initialization is exhaustive: there is
// no "edit with no entity" state to mishandle.
type projectFormMode interface{ isProjectFormMode() }

type projectCreate struct{}

type projectEdit struct{ project model.Project }

func (projectCreate) isProjectFormMode() {}
func (projectEdit) isProjectFormMode()   {}

const (
	projectFieldTitle = iota
	projectFieldDesc
	projectFieldStatus
	projectFieldCount
)

// projectForm is the create/edit controller for projects. mode == nil
// means closed. Only title, description and status ever leave this
// form; the server-owned fields are not even represented here.
type projectForm struct {
	mode      projectFormMode
	title     textinput.Model
	desc      textinput.Model
	statusIdx int
	focus     int
	errMsg    string
}

func newProjectForm() projectForm {
	title := textinput.New()
	title.Prompt = "> "
	title.Placeholder = "Project title"
	title.CharLimit = 120

	desc := textinput.New()
	desc.Prompt = "> "
	desc.Placeholder = "Describe the project"
	desc.CharLimit = 500

	return projectForm{title: title, desc: desc}
}

func (f *projectForm) open() bool { return f.mode != nil }

func (f *projectForm) openCreate() tea.Cmd {
	f.mode = projectCreate{}
	f.title.SetValue("")
	f.desc.SetValue("")
	f.statusIdx = 0 // active
	f.errMsg = ""
	return f.setFocus(projectFieldTitle)
}

func (f *projectForm) openEdit(p model.Project) tea.Cmd {
	f.mode = projectEdit{project: p}
	f.title.SetValue(p.Title)
	f.title.CursorEnd()
	f.desc.SetValue(p.Description)
	f.desc.CursorEnd()
	f.statusIdx = 0
	for i, s := range model.ProjectStatuses {
		if s == p.Status {
			f.statusIdx = i
		}
	}
	f.errMsg = ""
	return f.setFocus(projectFieldTitle)
}

func (f *projectForm) close() {
	f.mode = nil
	f.title.Blur()
	f.desc.Blur()
}

// fail keeps the form open with whatever the user typed; a rejected
// submit must not cost them their input.
func (f *projectForm) fail(msg string) {
	f.errMsg = msg
}

func (f *projectForm) setFocus(field int) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.desc.Blur()
	switch field {
	case projectFieldTitle:
		return f.title.Focus()
	case projectFieldDesc:
		return f.desc.Focus()
	}
	return nil
}

// draft validates the required fields and builds the request payload.
// It never submits with an empty title or description.
func (f *projectForm) draft() (api.ProjectDraft, bool) {
	title := strings.TrimSpace(f.title.Value())
	desc := strings.TrimSpace(f.desc.Value())
	if title == "" || desc == "" {
		f.errMsg = "title and description are required"
		return api.ProjectDraft{}, false
	}
	return api.ProjectDraft{
		Title:       title,
		Description: desc,
		Status:      model.ProjectStatuses[f.statusIdx],
	}, true
}

// update handles one message while the form is open. submit is true
// when the user asked to save and the draft validated.
func (f *projectForm) update(msg tea.Msg) (cmd tea.Cmd, submit bool, canceled bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return nil, false, true
		case "tab", "down":
			return f.setFocus((f.focus + 1) % projectFieldCount), false, false
		case "shift+tab", "up":
			return f.setFocus((f.focus + projectFieldCount - 1) % projectFieldCount), false, false
		case "left", "right":
			if f.focus == projectFieldStatus {
				f.statusIdx = (f.statusIdx + 1) % len(model.ProjectStatuses)
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
	case projectFieldTitle:
		f.title, cmd = f.title.Update(msg)
	case projectFieldDesc:
		f.desc, cmd = f.desc.Update(msg)
	}
	return cmd, false, false
}

func (f *projectForm) view() string {
	heading := "New project"
	if _, ok := f.mode.(projectEdit); ok {
		heading = "Edit project"
	}

	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(heading))
	if f.errMsg != "" {
		b.WriteString("  " + ui.ErrorStyle.Render(f.errMsg))
	}
	b.WriteString("\n")
	b.WriteString(formField("Title", f.title.View(), f.focus == projectFieldTitle))
	b.WriteString(formField("Description", f.desc.View(), f.focus == projectFieldDesc))
	b.WriteString(formField("Status", selector(model.ProjectStatuses[f.statusIdx].Display()), f.focus == projectFieldStatus))
	b.WriteString(ui.HelpStyle.Render("tab next · ←/→ change · enter save · esc cancel"))
	return modalBox(b.String())
}
