package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/wellnessd/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{windowTickCmd()}
	for _, req := range m.resume {
		cmds = append(cmds, machineTickCmd(req))
	}
	if m.scheduler != nil {
		cmds = append(cmds, waitForExpiryCmd(m.scheduler.C()))
	}
	if m.authCh != nil {
		cmds = append(cmds, waitForAuthCmd(m.authCh), textinputBlink())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.CurrentView == ViewSignIn {
			return m.handleSignInKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Dashboard:
			m.CurrentView = ViewDashboard
			return m, nil
		case m.Keys.Settings:
			m.CurrentView = ViewSettings
			return m, nil
		case m.Keys.Notifications:
			m.CurrentView = ViewNotifications
			m.History.Cursor = 0
			return m, nil
		case m.Keys.Reports:
			m.CurrentView = ViewReports
			return m, m.loadReportsCmd()
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		switch m.CurrentView {
		case ViewDashboard:
			return m.handleDashboardKey(typed)
		case ViewSettings:
			return m.handleSettingsKey(typed)
		case ViewNotifications:
			return m.handleHistoryKey(typed)
		case ViewReports:
			return m.handleReportsKey(typed)
		}
	case spinner.TickMsg:
		if m.SignIn.Busy {
			var cmd tea.Cmd
			m.authSpinner, cmd = m.authSpinner.Update(typed)
			return m, cmd
		}
	case MachineTickMsg:
		return m.onMachineTick(typed)
	case WindowTickMsg:
		return m.onWindowTick()
	case ExpiryMsg:
		return m.onExpiry(typed)
	case RemoteCommandMsg:
		return m.runAction(typed.Action)
	case AuthStateMsg:
		m = m.onAuthState(typed)
		return m, waitForAuthCmd(m.authCh)
	case authResultMsg:
		m.SignIn.Busy = false
		if typed.err != nil {
			m.SignIn.Err = accountMessage(typed.err)
		}
		return m, nil
	case reportsLoadedMsg:
		m.Reports.Rows = typed.rows
		m.Reports.Err = ""
		if typed.err != nil {
			m.Reports.Err = typed.err.Error()
		}
		return m, nil
	case SwitchViewMsg:
		if m.isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	cfg := m.currentSettings()
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := m.renderCommandPalette() + m.renderHelpIfVisible()
	switch m.CurrentView {
	case ViewSignIn:
		leftPane = m.renderSignInView()
	case ViewDashboard:
		leftPane = m.renderDashboardView()
	case ViewSettings:
		leftPane = m.renderSettingsView()
	case ViewNotifications:
		leftPane = m.renderHistoryView()
	case ViewReports:
		leftPane = m.renderReportsView()
	}

	toasts := make([]views.ToastData, 0)
	for _, n := range m.notifier.Visible() {
		toasts = append(toasts, views.ToastData{Title: n.Title, Message: n.Message, Severity: string(n.Severity)})
	}

	return views.RenderApp(views.AppData{
		Header:      m.header(),
		LeftPane:    leftPane,
		RightPane:   strings.TrimSpace(rightPane),
		StatusLine:  status,
		StatusError: m.Status.IsError,
		Banner:      m.Banner,
		Toasts:      toasts,
		Footer:      m.footer(),
		Theme:       string(cfg.Theme),
		Plain:       cfg.AccessibilityMode,
	})
}

func (m Model) header() string {
	bell := fmt.Sprintf("bell: %d", m.notifier.UnreadCount())
	who := "local"
	if m.Session != nil {
		who = m.Session.Name
	}
	return fmt.Sprintf("wellnessd | view: %s | %s | %s", m.CurrentView, who, bell)
}

func (m Model) footer() string {
	if m.CurrentView == ViewSignIn {
		return "keys: ctrl+c quit"
	}
	return fmt.Sprintf("keys: %s dashboard | %s settings | %s notifications | %s reports | / cmd | %s help | %s quit",
		m.Keys.Dashboard, m.Keys.Settings, m.Keys.Notifications, m.Keys.Reports, m.Keys.Help, m.Keys.Quit)
}

// isKnownView also keeps signed-out users on the sign-in view.
func (m Model) isKnownView(v View) bool {
	switch v {
	case ViewDashboard, ViewSettings, ViewNotifications, ViewReports:
		return m.accounts == nil || m.Session != nil
	case ViewSignIn:
		return m.accounts != nil
	default:
		return false
	}
}
