package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type MeterData struct {
	Title    string
	Value    string
	Caption  string
	BarView  string
	Percent  int
	Active   bool
	Disabled bool
}

type HourBarData struct {
	Label   string
	Minutes int
	Current bool
}

type DashboardData struct {
	Greeting    string
	Screen      MeterData
	Breaks      MeterData
	Hydration   MeterData
	BreakStatus string
	WaterStatus string
	Hours       []HourBarData
	CanBreakNow bool
	OnBreak     bool
}

type SettingsRowData struct {
	Label    string
	Value    string
	Selected bool
}

type SettingsPanelData struct {
	Rows      []SettingsRowData
	ErrorText string
}

type NotificationRowData struct {
	Title    string
	Message  string
	Severity string
	When     string
	Read     bool
	Selected bool
}

type NotificationsPanelData struct {
	Unread       int
	Rows         []NotificationRowData
	ViewportView string
}

type ReportsPanelData struct {
	TableView     string
	AverageScreen string
	BreakGoalDays int
	WaterGoalDays int
	Days          int
}

type SignInData struct {
	Register    bool
	EmailView   string
	PassView    string
	NameView    string
	ErrorText   string
	Busy        bool
	SpinnerView string
}

type ToastData struct {
	Title    string
	Message  string
	Severity string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
	AboutView   string
}

func RenderDashboard(data DashboardData) string {
	var b strings.Builder
	if data.Greeting != "" {
		b.WriteString(data.Greeting + "\n\n")
	}
	renderMeter(&b, data.Screen)
	renderMeter(&b, data.Breaks)
	if data.BreakStatus != "" {
		b.WriteString("  " + data.BreakStatus + "\n")
	}
	renderMeter(&b, data.Hydration)
	if data.WaterStatus != "" {
		b.WriteString("  " + data.WaterStatus + "\n")
	}

	b.WriteString("\nscreen time by hour:\n")
	peak := 1
	for _, h := range data.Hours {
		if h.Minutes > peak {
			peak = h.Minutes
		}
	}
	for _, h := range data.Hours {
		cursor := " "
		if h.Current {
			cursor = ">"
		}
		width := h.Minutes * 20 / peak
		b.WriteString(fmt.Sprintf("%s %5s %s %dm\n", cursor, h.Label, strings.Repeat("#", width), h.Minutes))
	}

	b.WriteString("\nactions: [s]start/pause [r]reset [b]breaks on/off [w]glass")
	if data.CanBreakNow {
		b.WriteString(" [n]break now")
	}
	if data.OnBreak {
		b.WriteString(" [c]end break")
	}
	return strings.TrimSpace(b.String())
}

func renderMeter(b *strings.Builder, m MeterData) {
	state := ""
	switch {
	case m.Disabled:
		state = " (idle)"
	case m.Active:
		state = " (running)"
	}
	b.WriteString(fmt.Sprintf("%s%s: %s\n", m.Title, state, m.Value))
	b.WriteString(fmt.Sprintf("  %s %d%%\n", m.BarView, m.Percent))
	if m.Caption != "" {
		b.WriteString("  " + m.Caption + "\n")
	}
}

func RenderSettingsPanel(data SettingsPanelData) string {
	var b strings.Builder
	b.WriteString("settings:\n")
	b.WriteString("actions: [j/k]move [h/l]adjust [d]defaults\n\n")
	for _, row := range data.Rows {
		cursor := " "
		if row.Selected {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-28s %s\n", cursor, row.Label, row.Value))
	}
	if data.ErrorText != "" {
		b.WriteString("\nerror: " + data.ErrorText)
	}
	return strings.TrimSpace(b.String())
}

func RenderNotificationsPanel(theme string, data NotificationsPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("notifications: %d unread\n", data.Unread))
	b.WriteString("actions: [j/k]move [enter]mark read [x]remove [a]mark all read\n\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no notifications yet)")
		return b.String()
	}
	if data.ViewportView != "" {
		b.WriteString(data.ViewportView)
		return strings.TrimSpace(b.String())
	}
	b.WriteString(RenderNotificationRows(theme, data.Rows))
	return strings.TrimSpace(b.String())
}

// RenderNotificationRows renders history entries, newest first.
func RenderNotificationRows(theme string, rows []NotificationRowData) string {
	var b strings.Builder
	for _, row := range rows {
		cursor := " "
		if row.Selected {
			cursor = ">"
		}
		dot := "•"
		if row.Read {
			dot = " "
		}
		badge := lipgloss.NewStyle().Foreground(SeverityColor(theme, row.Severity)).Render("[" + strings.ToUpper(row.Severity) + "]")
		b.WriteString(fmt.Sprintf("%s%s %s %s %s\n", cursor, dot, row.When, badge, row.Title))
		if row.Message != "" {
			b.WriteString("    " + row.Message + "\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderReportsPanel(data ReportsPanelData) string {
	var b strings.Builder
	b.WriteString("reports: last 7 days and today\n")
	b.WriteString("actions: [j/k]move [r]refresh\n\n")
	b.WriteString(data.TableView + "\n\n")
	if data.Days == 0 {
		b.WriteString("(no history yet)")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("average screen time: %s\n", data.AverageScreen))
	b.WriteString(fmt.Sprintf("break goal met: %d/%d days\n", data.BreakGoalDays, data.Days))
	b.WriteString(fmt.Sprintf("water goal met: %d/%d days", data.WaterGoalDays, data.Days))
	return b.String()
}

func RenderSignIn(data SignInData) string {
	var b strings.Builder
	if data.Register {
		b.WriteString("create account:\n\n")
	} else {
		b.WriteString("sign in:\n\n")
	}
	b.WriteString(data.EmailView + "\n")
	b.WriteString(data.PassView + "\n")
	if data.Register {
		b.WriteString(data.NameView + "\n")
	}
	if data.Busy {
		b.WriteString("\n" + data.SpinnerView + " working...\n")
	}
	if data.ErrorText != "" {
		b.WriteString("\nerror: " + data.ErrorText + "\n")
	}
	if data.Register {
		b.WriteString("\nactions: [tab]next field [enter]register [ctrl+r]have an account? sign in")
	} else {
		b.WriteString("\nactions: [tab]next field [enter]sign in [ctrl+r]new here? register")
	}
	return strings.TrimSpace(b.String())
}

func RenderToasts(theme string, toasts []ToastData, plain bool) string {
	if len(toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		text := fmt.Sprintf("[%s] %s: %s", strings.ToUpper(t.Severity), t.Title, t.Message)
		if plain {
			lines = append(lines, text)
			continue
		}
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SeverityColor(theme, t.Severity)).
			Padding(0, 1)
		lines = append(lines, style.Render(text))
	}
	return strings.Join(lines, "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	out := fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
	if data.AboutView != "" {
		out += "\n\n" + data.AboutView
	}
	return out
}
