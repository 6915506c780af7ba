package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/wellnessd/internal/engine"
)

const (
	ActionScreenStart  = "screen.start"
	ActionScreenPause  = "screen.pause"
	ActionScreenToggle = "screen.toggle"
	ActionScreenReset  = "screen.reset"
	ActionBreaksStart  = "breaks.start"
	ActionBreaksStop   = "breaks.stop"
	ActionBreaksToggle = "breaks.toggle"
	ActionBreakNow     = "breaks.now"
	ActionBreakCancel  = "breaks.cancel"
	ActionWater        = "water"
)

// Actions lists every machine action accepted from keys, the palette and the API.
func Actions() []string {
	return []string{
		ActionScreenStart, ActionScreenPause, ActionScreenToggle, ActionScreenReset,
		ActionBreaksStart, ActionBreaksStop, ActionBreaksToggle, ActionBreakNow, ActionBreakCancel,
		ActionWater,
	}
}

// runAction applies one user command to the engine and reports it in the
// status bar. Refused commands leave state untouched.
func (m Model) runAction(action string) (Model, tea.Cmd) {
	var out engine.Outcome
	snap := m.engine.Snapshot()
	msg := ""
	switch action {
	case ActionScreenStart:
		out, msg = m.engine.StartScreen(m.ctx), "screen time tracking started"
	case ActionScreenPause:
		out, msg = m.engine.PauseScreen(m.ctx), "screen time tracking paused"
	case ActionScreenToggle:
		out, msg = m.engine.ToggleScreen(m.ctx), "screen time tracking started"
		if snap.Screen.Running {
			msg = "screen time tracking paused"
		}
	case ActionScreenReset:
		out, msg = m.engine.ResetScreen(m.ctx), "screen time reset"
	case ActionBreaksStart:
		out, msg = m.engine.StartBreaks(m.ctx), "break reminders started"
	case ActionBreaksStop:
		out, msg = m.engine.StopBreaks(m.ctx), "break reminders stopped"
	case ActionBreaksToggle:
		if snap.Breaks.Started {
			return m.runAction(ActionBreaksStop)
		}
		return m.runAction(ActionBreaksStart)
	case ActionBreakNow:
		out = m.engine.BreakNow(m.ctx)
		if !out.Changed {
			m.Status = StatusBar{Text: fmt.Sprintf("break now is available in the last %d minutes of a work interval", snap.Settings.BreakStartDelayMin), IsError: true}
			return m, nil
		}
		msg = "break started"
	case ActionBreakCancel:
		out = m.engine.CancelBreak(m.ctx)
		if !out.Changed {
			m.Status = StatusBar{Text: "no break in progress", IsError: true}
			return m, nil
		}
		msg = "break ended early"
	case ActionWater:
		out = m.engine.RecordGlass(m.ctx)
		if !out.Changed {
			m.Status = StatusBar{Text: "daily water goal already reached", IsError: false}
			return m, nil
		}
		after := m.engine.Snapshot().Hydration
		msg = fmt.Sprintf("glass recorded (%d/%d)", after.Glasses, after.Goal)
	default:
		m.Status = StatusBar{Text: fmt.Sprintf("unknown action: %s", action), IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: msg}
	return m, m.applyOutcome(out)
}
