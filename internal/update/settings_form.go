package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/wellnessd/internal/model"
	"github.com/sandeepkv93/wellnessd/internal/settings"
	"github.com/sandeepkv93/wellnessd/internal/views"
)

func (m Model) handleSettingsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	fields := settings.Fields()
	switch msg.String() {
	case "j", "down":
		if m.Form.Cursor < len(fields)-1 {
			m.Form.Cursor++
		}
	case "k", "up":
		if m.Form.Cursor > 0 {
			m.Form.Cursor--
		}
	case "l", "right", "enter":
		return m.stepSetting(fields[m.Form.Cursor], 1), nil
	case "h", "left":
		return m.stepSetting(fields[m.Form.Cursor], -1), nil
	case "d":
		if _, err := m.settings.RestoreDefaults(m.ctx); err != nil {
			m.Form.Err = err.Error()
			return m, nil
		}
		m.Form.Err = ""
		m.Status = StatusBar{Text: "settings restored to defaults"}
	}
	return m, nil
}

func (m Model) stepSetting(field settings.Field, dir int) Model {
	next, err := m.settings.Update(m.ctx, func(s *model.Settings) { field.Step(s, dir) })
	if err != nil {
		m.Form.Err = settingError(err)
		return m
	}
	m.Form.Err = ""
	m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", field.Label, field.Get(next))}
	return m
}

func settingError(err error) string {
	if errors.Is(err, model.ErrInvalidSetting) {
		return err.Error()
	}
	return fmt.Sprintf("could not save settings: %v", err)
}

func (m Model) renderSettingsView() string {
	current := m.currentSettings()
	fields := settings.Fields()
	rows := make([]views.SettingsRowData, 0, len(fields))
	for i, f := range fields {
		rows = append(rows, views.SettingsRowData{
			Label:    f.Label,
			Value:    f.Get(current),
			Selected: i == m.Form.Cursor,
		})
	}
	return views.RenderSettingsPanel(views.SettingsPanelData{Rows: rows, ErrorText: m.Form.Err})
}
