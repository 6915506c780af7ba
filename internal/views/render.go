package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header      string
	LeftPane    string
	RightPane   string
	StatusLine  string
	StatusError bool
	Banner      string
	Toasts      []ToastData
	Footer      string
	Theme       string
	Plain       bool
}

type palette struct {
	header  lipgloss.Color
	status  lipgloss.Color
	err     lipgloss.Color
	muted   lipgloss.Color
	border  lipgloss.Color
	success lipgloss.Color
	info    lipgloss.Color
	warning lipgloss.Color
}

var (
	darkPalette = palette{
		header: "12", status: "10", err: "9", muted: "8", border: "63",
		success: "10", info: "12", warning: "11",
	}
	lightPalette = palette{
		header: "4", status: "2", err: "1", muted: "240", border: "27",
		success: "28", info: "25", warning: "130",
	}
)

func paletteFor(theme string) palette {
	switch theme {
	case "light":
		return lightPalette
	case "dark":
		return darkPalette
	default:
		if lipgloss.HasDarkBackground() {
			return darkPalette
		}
		return lightPalette
	}
}

// SeverityColor maps a notification severity to a foreground colour.
func SeverityColor(theme, severity string) lipgloss.Color {
	p := paletteFor(theme)
	switch severity {
	case "success":
		return p.success
	case "warning":
		return p.warning
	case "error":
		return p.err
	default:
		return p.info
	}
}

func RenderApp(data AppData) string {
	p := paletteFor(data.Theme)
	panelStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Padding(0, 1)
	if data.Plain {
		panelStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	}
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(p.header)
	statusStyle := lipgloss.NewStyle().Foreground(p.status)
	footerStyle := lipgloss.NewStyle().Foreground(p.muted)
	if data.StatusError {
		statusStyle = lipgloss.NewStyle().Foreground(p.err)
	}
	if data.Plain {
		headerStyle = lipgloss.NewStyle().Bold(true)
		statusStyle = lipgloss.NewStyle()
		footerStyle = lipgloss.NewStyle()
	}

	left := panelStyle.Width(58).Render(data.LeftPane)
	row := left
	if strings.TrimSpace(data.RightPane) != "" {
		right := panelStyle.Width(46).Render(data.RightPane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	lines := []string{headerStyle.Render(data.Header)}
	if data.Banner != "" {
		lines = append(lines, renderBanner(data.Banner, p, data.Plain))
	}
	lines = append(lines, row)
	if data.StatusLine != "" {
		lines = append(lines, statusStyle.Render(data.StatusLine))
	}
	if toasts := RenderToasts(data.Theme, data.Toasts, data.Plain); toasts != "" {
		lines = append(lines, toasts)
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func renderBanner(text string, p palette, plain bool) string {
	if plain {
		return "!! " + text
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(p.info).
		Padding(0, 2).
		Render(text)
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
