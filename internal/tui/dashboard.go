package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskdeck/internal/model"
	"github.com/idilsaglam/taskdeck/internal/ui"
)

// projectItem adapts a Project to bubbles/list.Item.
type projectItem struct{ p model.Project }

func (i projectItem) FilterValue() string { return i.p.Title }

// projectDelegate renders a project as a two-line card.
type projectDelegate struct{}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(projectItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}

	desc := it.p.Description
	if desc == "" {
		desc = "no description"
	}
	if len(desc) > 60 {
		desc = desc[:57] + "..."
	}
	noun := "tasks"
	if it.p.TaskCount == 1 {
		noun = "task"
	}

	fmt.Fprintf(w, "%s%s %s\n    %s",
		prefix,
		ui.TitleStyle.Render(it.p.Title),
		ui.Badge(string(it.p.Status), it.p.Status.Display()),
		ui.MutedStyle.Render(fmt.Sprintf("%s · %d %s · created %s",
			desc, it.p.TaskCount, noun, model.ShortDate(it.p.CreatedAt))),
	)
}

// dashModel is the project dashboard: the project list plus its
// create/edit form.
type dashModel struct {
	list list.Model
	form projectForm
}

func newDashModel() dashModel {
	l := list.New(nil, projectDelegate{}, 0, 0)
	l.Title = "Projects"
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)

	newBind := key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	openBind := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "tasks"))
	allBind := key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "all tasks"))
	refreshBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	logoutBind := key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout"))
	extra := func() []key.Binding {
		return []key.Binding{newBind, editBind, openBind, allBind, refreshBind, logoutBind}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	return dashModel{list: l, form: newProjectForm()}
}

// selected returns the project under the cursor.
func (m dashModel) selected() (model.Project, bool) {
	if it, ok := m.list.SelectedItem().(projectItem); ok {
		return it.p, true
	}
	return model.Project{}, false
}

func (m dashModel) view(identity string, banner string, loaded bool) string {
	var b strings.Builder
	b.WriteString(ui.MutedStyle.Render("taskdeck · "+identity) + "\n\n")
	if banner != "" {
		b.WriteString(ui.BannerStyle.Render(banner+"  (x to dismiss)") + "\n\n")
	}
	switch {
	case !loaded:
		b.WriteString(ui.MutedStyle.Render("loading projects..."))
	case len(m.list.Items()) == 0:
		b.WriteString(ui.TitleStyle.Render("No projects yet") + "\n")
		b.WriteString(ui.MutedStyle.Render("Press n to create your first project"))
	default:
		b.WriteString(m.list.View())
	}
	if m.form.open() {
		b.WriteString("\n" + m.form.view())
	}
	return b.String()
}
