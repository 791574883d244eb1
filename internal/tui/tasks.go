package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskdeck/internal/filter"
	"github.com/idilsaglam/taskdeck/internal/model"
	"github.com/idilsaglam/taskdeck/internal/ui"
)

// taskItem adapts a Task to bubbles/list.Item. projectTitle is resolved
// against the project cache at sync time; a task whose project has
// vanished shows "(no project)".
type taskItem struct {
	t            model.Task
	projectTitle string
}

func (i taskItem) FilterValue() string { return i.t.Title }

type taskDelegate struct{}

func (d taskDelegate) Height() int                               { return 2 }
func (d taskDelegate) Spacing() int                              { return 1 }
func (d taskDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}

	title := ui.TitleStyle.Render(it.t.Title)
	if it.t.Status == model.TaskDone {
		title = ui.DoneStyle.Render(it.t.Title)
	}

	meta := fmt.Sprintf("%s · due %s · created %s",
		it.projectTitle, model.ShortDate(it.t.DueDate), model.ShortDate(it.t.CreatedAt))
	if !it.t.UpdatedAt.IsZero() && !it.t.UpdatedAt.Equal(it.t.CreatedAt) {
		meta += " · updated " + model.ShortDate(it.t.UpdatedAt)
	}

	fmt.Fprintf(w, "%s%s %s\n    %s",
		prefix, title,
		ui.Badge(string(it.t.Status), it.t.Status.Display()),
		ui.MutedStyle.Render(meta),
	)
}

// tasksModel is the task view: the filtered list, the two selectors,
// the task form and the delete confirmation.
type tasksModel struct {
	list          list.Model
	form          taskForm
	projectFilter string // project id or filter.All
	statusFilter  string // task status or filter.All
	confirm       *model.Task
	deleteErr     string
}

func newTasksModel() tasksModel {
	l := list.New(nil, taskDelegate{}, 0, 0)
	l.Title = "Tasks"
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)

	newBind := key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	projBind := key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "project filter"))
	statusBind := key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter"))
	backBind := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dashboard"))
	extra := func() []key.Binding {
		return []key.Binding{newBind, editBind, delBind, projBind, statusBind, backBind}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	return tasksModel{
		list:          l,
		form:          newTaskForm(),
		projectFilter: filter.All,
		statusFilter:  filter.All,
	}
}

func (m tasksModel) selected() (model.Task, bool) {
	if it, ok := m.list.SelectedItem().(taskItem); ok {
		return it.t, true
	}
	return model.Task{}, false
}

// cycleStatusFilter walks all -> todo -> in-progress -> done -> all.
func (m *tasksModel) cycleStatusFilter() {
	ring := []string{filter.All}
	for _, s := range model.TaskStatuses {
		ring = append(ring, string(s))
	}
	for i, s := range ring {
		if s == m.statusFilter {
			m.statusFilter = ring[(i+1)%len(ring)]
			return
		}
	}
	m.statusFilter = filter.All
}

// cycleProjectFilter walks all -> each cached project -> all.
func (m *tasksModel) cycleProjectFilter(projects []model.Project) {
	ring := []string{filter.All}
	for _, p := range projects {
		ring = append(ring, p.ID)
	}
	for i, id := range ring {
		if id == m.projectFilter {
			m.projectFilter = ring[(i+1)%len(ring)]
			return
		}
	}
	// the filtered project is gone from the cache; fall back to all
	m.projectFilter = filter.All
}

func (m tasksModel) filterLine(projects []model.Project) string {
	proj := "All projects"
	if m.projectFilter != filter.All {
		proj = "(gone project)"
		for _, p := range projects {
			if p.ID == m.projectFilter {
				proj = p.Title
			}
		}
	}
	status := "All statuses"
	if m.statusFilter != filter.All {
		status = model.TaskStatus(m.statusFilter).Display()
	}
	return ui.AccentStyle.Render("p ") + proj + ui.AccentStyle.Render("  ·  s ") + status
}

func (m tasksModel) view(identity, banner string, loaded bool, projects []model.Project) string {
	var b strings.Builder
	b.WriteString(ui.MutedStyle.Render("taskdeck · "+identity) + "\n\n")
	if banner != "" {
		b.WriteString(ui.BannerStyle.Render(banner+"  (x to dismiss)") + "\n\n")
	}
	b.WriteString(m.filterLine(projects) + "\n\n")
	switch {
	case !loaded:
		b.WriteString(ui.MutedStyle.Render("loading tasks..."))
	case len(m.list.Items()) == 0:
		b.WriteString(ui.MutedStyle.Render("no tasks match"))
	default:
		b.WriteString(m.list.View())
	}
	if m.deleteErr != "" {
		b.WriteString("\n" + ui.ErrorStyle.Render(m.deleteErr))
	}
	if m.confirm != nil {
		b.WriteString("\n" + modalBox(fmt.Sprintf("Delete %q? %s",
			m.confirm.Title, ui.MutedStyle.Render("y to confirm · n to keep"))))
	}
	if m.form.open() {
		b.WriteString("\n" + m.form.view())
	}
	return b.String()
}
