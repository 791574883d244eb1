package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskdeck/internal/ui"
)

const (
	signupFieldName = iota
	signupFieldEmail
	signupFieldPassword
	signupFieldCount
)

// signupModel mirrors loginModel with a name field on top.
type signupModel struct {
	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	focus    int
	errMsg   string
	busy     bool
}

func newSignupModel() signupModel {
	name := textinput.New()
	name.Prompt = "> "
	name.Placeholder = "Your name"
	name.CharLimit = 120

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

	return signupModel{name: name, email: email, password: password}
}

func (m *signupModel) reset() tea.Cmd {
	m.errMsg = ""
	m.busy = false
	m.password.SetValue("")
	return m.setFocus(signupFieldName)
}

func (m *signupModel) setFocus(field int) tea.Cmd {
	m.focus = field
	m.name.Blur()
	m.email.Blur()
	m.password.Blur()
	switch field {
	case signupFieldName:
		return m.name.Focus()
	case signupFieldEmail:
		return m.email.Focus()
	}
	return m.password.Focus()
}

func (m *signupModel) update(msg tea.Msg) (cmd tea.Cmd, submit bool) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			return m.setFocus((m.focus + 1) % signupFieldCount), false
		case "shift+tab", "up":
			return m.setFocus((m.focus + signupFieldCount - 1) % signupFieldCount), false
		case "enter":
			if m.busy {
				return nil, false
			}
			if strings.TrimSpace(m.name.Value()) == "" ||
				strings.TrimSpace(m.email.Value()) == "" ||
				m.password.Value() == "" {
				m.errMsg = "name, email and password are required"
				return nil, false
			}
			m.errMsg = ""
			m.busy = true
			return nil, true
		}
	}
	switch m.focus {
	case signupFieldName:
		m.name, cmd = m.name.Update(msg)
	case signupFieldEmail:
		m.email, cmd = m.email.Update(msg)
	default:
		m.password, cmd = m.password.Update(msg)
	}
	return cmd, false
}

func (m *signupModel) rejected(err error) {
	m.busy = false
	m.errMsg = err.Error()
	m.password.SetValue("")
}

func (m signupModel) view() string {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("Create account") + "\n")
	if m.errMsg != "" {
		b.WriteString(ui.ErrorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(formField("Name", m.name.View(), m.focus == signupFieldName))
	b.WriteString(formField("Email", m.email.View(), m.focus == signupFieldEmail))
	b.WriteString(formField("Password", m.password.View(), m.focus == signupFieldPassword))
	if m.busy {
		b.WriteString(ui.MutedStyle.Render("creating account...") + "\n")
	}
	b.WriteString(ui.HelpStyle.Render("enter sign up · esc back to sign in · ctrl+c quit"))
	return modalBox(b.String())
}
