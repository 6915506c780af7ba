package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/wellnessd/internal/account"
	"github.com/sandeepkv93/wellnessd/internal/views"
)

func textinputBlink() tea.Cmd {
	return textinput.Blink
}

func accountMessage(err error) string {
	return account.Message(err)
}

func (m Model) handleSignInKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.SignIn.Busy {
		return m, nil
	}
	fieldCount := 2
	if m.SignIn.Register {
		fieldCount = 3
	}
	switch msg.String() {
	case "tab", "down":
		m.SignIn.Focus = (m.SignIn.Focus + 1) % fieldCount
		return m, nil
	case "shift+tab", "up":
		m.SignIn.Focus = (m.SignIn.Focus - 1 + fieldCount) % fieldCount
		return m, nil
	case "ctrl+r":
		m.SignIn.Register = !m.SignIn.Register
		m.SignIn.Err = ""
		if !m.SignIn.Register && m.SignIn.Focus == fieldName {
			m.SignIn.Focus = fieldEmail
		}
		return m, nil
	case "enter":
		return m.submitSignIn()
	}

	var cmd tea.Cmd
	switch m.SignIn.Focus {
	case fieldPassword:
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	case fieldName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	default:
		m.emailInput, cmd = m.emailInput.Update(msg)
	}
	return m, cmd
}

// submitSignIn runs the credential call off the update loop; the session
// arrives through the auth state listener.
func (m Model) submitSignIn() (Model, tea.Cmd) {
	email := strings.TrimSpace(m.emailInput.Value())
	password := m.passwordInput.Value()
	name := strings.TrimSpace(m.nameInput.Value())
	if email == "" || password == "" {
		m.SignIn.Err = "Email and password are required."
		return m, nil
	}
	m.SignIn.Busy = true
	m.SignIn.Err = ""

	ctx, svc, register, cfg := m.ctx, m.accounts, m.SignIn.Register, m.currentSettings()
	submit := func() tea.Msg {
		var err error
		if register {
			_, err = svc.Register(ctx, email, password, name, cfg)
		} else {
			_, err = svc.Login(ctx, email, password)
		}
		return authResultMsg{err: err}
	}
	return m, tea.Batch(submit, m.authSpinner.Tick)
}

func (m Model) onAuthState(msg AuthStateMsg) Model {
	m.Session = msg.Session
	if msg.Session == nil {
		if m.accounts != nil {
			m.CurrentView = ViewSignIn
			m.passwordInput.SetValue("")
		}
		return m
	}
	if m.CurrentView == ViewSignIn {
		m.CurrentView = ViewDashboard
	}
	m.SignIn = SignInState{}
	m.passwordInput.SetValue("")
	m.Status = StatusBar{Text: "signed in as " + msg.Session.Email}
	return m
}

func (m Model) renderSignInView() string {
	return views.RenderSignIn(views.SignInData{
		Register:    m.SignIn.Register,
		EmailView:   m.emailInput.View(),
		PassView:    m.passwordInput.View(),
		NameView:    m.nameInput.View(),
		ErrorText:   m.SignIn.Err,
		Busy:        m.SignIn.Busy,
		SpinnerView: m.authSpinner.View(),
	})
}
