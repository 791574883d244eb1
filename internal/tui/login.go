package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskdeck/internal/ui"
)

const (
	loginFieldEmail = iota
	loginFieldPassword
	loginFieldCount
)

// loginModel is the unauthenticated entry form. A rejected login keeps
// the email and clears only the password; the session, if one somehow
// exists, is never touched from here.
type loginModel struct {
	email    textinput.Model
	password textinput.Model
	focus    int
	errMsg   string
	info     string
	busy     bool
}

func newLoginModel() loginModel {
	email := textinput.New()
	email.Prompt = "> "
	email.Placeholder = "you@example.com"
	email.CharLimit = 120

	password := textinput.New()
	password.Prompt = "> "
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginModel{email: email, password: password}
}

func (m *loginModel) reset(info string) tea.Cmd {
	m.errMsg = ""
	m.info = info
	m.busy = false
	m.password.SetValue("")
	return m.setFocus(loginFieldEmail)
}

func (m *loginModel) setFocus(field int) tea.Cmd {
	m.focus = field
	m.email.Blur()
	m.password.Blur()
	if field == loginFieldEmail {
		return m.email.Focus()
	}
	return m.password.Focus()
}

// update returns submit=true when both fields are filled and the user
// pressed enter; empty required fields never submit.
func (m *loginModel) update(msg tea.Msg) (cmd tea.Cmd, submit bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			return m.setFocus((m.focus + 1) % loginFieldCount), false
		case "shift+tab", "up":
			return m.setFocus((m.focus + loginFieldCount - 1) % loginFieldCount), false
		case "enter":
			if m.busy {
				return nil, false
			}
			if strings.TrimSpace(m.email.Value()) == "" || m.password.Value() == "" {
				m.errMsg = "email and password are required"
				return nil, false
			}
			m.errMsg = ""
			m.busy = true
			return nil, true
		}
	}
	if m.focus == loginFieldEmail {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return cmd, false
}

// rejected handles an AuthFailure: inline message, password cleared for
// correction, email kept.
func (m *loginModel) rejected(err error) {
	m.busy = false
	m.errMsg = err.Error()
	m.password.SetValue("")
}

func (m loginModel) view() string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("Sign in") + "\n")
	if m.info != "" {
		b.WriteString(ui.SuccessStyle.Render(m.info) + "\n")
	}
	if m.errMsg != "" {
		b.WriteString(ui.ErrorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(formField("Email", m.email.View(), m.focus == loginFieldEmail))
	b.WriteString(formField("Password", m.password.View(), m.focus == loginFieldPassword))
	if m.busy {
		b.WriteString(ui.MutedStyle.Render("signing in...") + "\n")
	}
	b.WriteString(ui.HelpStyle.Render("enter sign in · ctrl+s sign up · ctrl+c quit"))
	return modalBox(b.String())
}
