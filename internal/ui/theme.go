package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ------- minimal styling helpers (Lip Gloss) -------
var (
	TitleStyle   = lipgloss.NewStyle().Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	AccentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	MutedStyle   = lipgloss.NewStyle().Faint(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	SelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	DoneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	HelpStyle     = lipgloss.NewStyle().Faint(true)

	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("9")).
			PaddingLeft(1)

	// status badges
	badgeTodo       = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	badgeInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	badgeDone       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// Badge colors a status label: done-ish green, in-flight blue, the rest
// neutral.
func Badge(status, label string) string {
	switch status {
	case "done", "completed":
		return badgeDone.Render("[" + label + "]")
	case "in-progress":
		return badgeInProgress.Render("[" + label + "]")
	default:
		return badgeTodo.Render("[" + label + "]")
	}
}

func OK(msg string) {
	fmt.Println(SuccessStyle.Render("✔ " + msg))
}

func Fail(msg string) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✖ "+msg))
}

// Panel prints a framed box around the given lines.
func Panel(lines []string) {
	fmt.Println(PanelString(strings.Join(lines, "\n")))
}

// PanelString frames content the way every screen is framed.
func PanelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}
