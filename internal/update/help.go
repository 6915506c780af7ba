package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/wellnessd/internal/views"
)

const aboutMarkdown = `## Palette
- ` + "`set <field> <value>`" + ` change a setting
- ` + "`glass`" + ` log a glass of water
- ` + "`break start|stop|now|cancel`" + `
- ` + "`screen start|pause|reset`" + `
- ` + "`export <file>`" + ` / ` + "`import <file>`" + ` settings as YAML
- ` + "`defaults`" + `, ` + "`read`" + `, ` + "`logout`"

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	about := aboutMarkdown
	if !m.currentSettings().AccessibilityMode {
		about = views.RenderMarkdown(aboutMarkdown)
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
		AboutView: about,
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Dashboard, Action: "switch to Dashboard"},
		{Key: m.Keys.Settings, Action: "switch to Settings"},
		{Key: m.Keys.Notifications, Action: "switch to Notifications"},
		{Key: m.Keys.Reports, Action: "switch to Reports"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewDashboard:
		return []KeyBinding{
			{Key: "s", Action: "start/pause screen time"},
			{Key: "r", Action: "reset screen time"},
			{Key: "b", Action: "start/stop break cycle"},
			{Key: "n", Action: "break now"},
			{Key: "c", Action: "end break early"},
			{Key: "w", Action: "log a glass of water"},
		}
	case ViewSettings:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "h/l", Action: "decrease/increase value"},
			{Key: "d", Action: "restore defaults"},
		}
	case ViewNotifications:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "enter", Action: "mark read"},
			{Key: "x", Action: "remove"},
			{Key: "a", Action: "mark all read"},
		}
	case ViewReports:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "r", Action: "reload history"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
