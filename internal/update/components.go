package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/wellnessd/internal/views"
)

const (
	fieldEmail = iota
	fieldPassword
	fieldName
)

func (m *Model) initBubbleComponents() {
	m.screenProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(36))
	m.breakProgress = progress.New(progress.WithGradient("#5A56E0", "#EE6FF8"), progress.WithWidth(36))
	m.waterProgress = progress.New(progress.WithGradient("#4FC3F7", "#0277BD"), progress.WithWidth(36))

	cols := []table.Column{
		{Title: "Day", Width: 11},
		{Title: "Screen", Width: 8},
		{Title: "Breaks", Width: 7},
		{Title: "Water", Width: 6},
	}
	m.reportsTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(9))

	m.emailInput = textinput.New()
	m.emailInput.Prompt = "email> "
	m.emailInput.CharLimit = 254
	m.emailInput.Width = 40
	m.emailInput.Focus()

	m.passwordInput = textinput.New()
	m.passwordInput.Prompt = "password> "
	m.passwordInput.CharLimit = 128
	m.passwordInput.Width = 40
	m.passwordInput.EchoMode = textinput.EchoPassword
	m.passwordInput.EchoCharacter = '*'

	m.nameInput = textinput.New()
	m.nameInput.Prompt = "name> "
	m.nameInput.CharLimit = 80
	m.nameInput.Width = 40

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.authSpinner = spinner.New()
	m.authSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.historyViewport = viewport.New(44, 14)
}

func (m *Model) syncBubbleData() {
	rows := make([]table.Row, 0, len(m.Reports.Rows)+1)
	for _, stat := range m.reportRows() {
		rows = append(rows, table.Row{
			stat.Day,
			formatClock(stat.ScreenSeconds),
			fmt.Sprintf("%d", stat.BreaksTaken),
			fmt.Sprintf("%d", stat.Glasses),
		})
	}
	m.reportsTable.SetRows(rows)

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	} else {
		m.commandInput.Blur()
	}

	m.emailInput.Blur()
	m.passwordInput.Blur()
	m.nameInput.Blur()
	switch m.SignIn.Focus {
	case fieldPassword:
		m.passwordInput.Focus()
	case fieldName:
		m.nameInput.Focus()
	default:
		m.emailInput.Focus()
	}

	history := m.historyRows()
	m.historyViewport.SetContent(views.RenderNotificationRows(string(m.currentSettings().Theme), history))
	if m.History.Cursor > 0 {
		m.historyViewport.SetYOffset(max(0, m.History.Cursor*2-m.historyViewport.Height/2))
	} else {
		m.historyViewport.GotoTop()
	}
}

func (m Model) historyRows() []views.NotificationRowData {
	items := m.notifier.History()
	out := make([]views.NotificationRowData, 0, len(items))
	for i, n := range items {
		out = append(out, views.NotificationRowData{
			Title:    n.Title,
			Message:  strings.TrimSpace(n.Message),
			Severity: string(n.Severity),
			When:     n.CreatedAt.Local().Format("15:04"),
			Read:     n.Read,
			Selected: i == m.History.Cursor,
		})
	}
	return out
}
