package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/wellnessd/internal/commands"
	"github.com/sandeepkv93/wellnessd/internal/model"
	"github.com/sandeepkv93/wellnessd/internal/settings"
	"github.com/sandeepkv93/wellnessd/internal/views"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	if msg.Type == tea.KeyRunes {
		m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		m.Palette.Input = m.commandInput.Value()
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	action := func(name string) (commands.Result, error) {
		m, follow = m.runAction(name)
		if m.Status.IsError {
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: m.Status.Text}
		}
		return commands.Result{Message: m.Status.Text}, nil
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Set: func(a commands.SetArgs) (commands.Result, error) {
			field, ok := settings.FieldByKey(a.Field)
			if !ok {
				return commands.Result{}, &commands.CommandError{
					Code:    commands.ErrCodeInvalidArgument,
					Message: fmt.Sprintf("unknown setting %q (want %s)", a.Field, strings.Join(settings.FieldKeys(), ", ")),
				}
			}
			var setErr error
			next, err := m.settings.Update(m.ctx, func(s *model.Settings) { setErr = field.Set(s, a.Value) })
			if setErr != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: setErr.Error()}
			}
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			return commands.Result{Message: fmt.Sprintf("%s set to %s", field.Label, field.Get(next))}, nil
		},
		Water: func() (commands.Result, error) {
			return action(ActionWater)
		},
		Break: func(a commands.BreakArgs) (commands.Result, error) {
			return action("breaks." + a.Action)
		},
		Screen: func(a commands.ScreenArgs) (commands.Result, error) {
			return action("screen." + a.Action)
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			if a.Subject == "help" {
				m.HelpVisible = true
				return commands.Result{Message: "help shown"}, nil
			}
			target := map[string]View{
				"dashboard":     ViewDashboard,
				"settings":      ViewSettings,
				"notifications": ViewNotifications,
				"reports":       ViewReports,
			}[a.Subject]
			m.CurrentView = target
			if target == ViewReports {
				follow = m.loadReportsCmd()
			}
			return commands.Result{Message: fmt.Sprintf("showing %s", strings.ToLower(string(target)))}, nil
		},
		Export: func(a commands.FileArgs) (commands.Result, error) {
			if err := settings.ExportYAML(a.Path, m.currentSettings()); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("settings exported to %s", a.Path)}, nil
		},
		Import: func(a commands.FileArgs) (commands.Result, error) {
			next, skipped, err := settings.ImportYAML(a.Path, m.currentSettings())
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := m.settings.Replace(m.ctx, next); err != nil {
				return commands.Result{}, err
			}
			msg := fmt.Sprintf("settings imported from %s", a.Path)
			if len(skipped) > 0 {
				msg += fmt.Sprintf(" (kept current %s)", strings.Join(skipped, ", "))
			}
			return commands.Result{Message: msg}, nil
		},
		Defaults: func() (commands.Result, error) {
			if _, err := m.settings.RestoreDefaults(m.ctx); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "settings restored to defaults"}, nil
		},
		ReadAll: func() (commands.Result, error) {
			m.notifier.MarkAllRead()
			return commands.Result{Message: "all notifications marked read"}, nil
		},
		Logout: func() (commands.Result, error) {
			if m.accounts == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeHandlerMissing, Message: "accounts are not enabled"}
			}
			if err := m.accounts.Logout(m.ctx); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "signed out"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, follow
	}
	m.Status = StatusBar{Text: res.Message}
	return m, follow
}

func (m Model) renderCommandPalette() string {
	if !m.Palette.Active {
		return ""
	}
	return views.RenderCommandPalette(true, m.commandInput.View()) + "\n"
}
