package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/wellnessd/internal/model"
	"github.com/sandeepkv93/wellnessd/internal/views"
)

func (m Model) handleDashboardKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "s", " ":
		return m.runAction(ActionScreenToggle)
	case "r":
		return m.runAction(ActionScreenReset)
	case "b":
		return m.runAction(ActionBreaksToggle)
	case "n":
		return m.runAction(ActionBreakNow)
	case "c":
		return m.runAction(ActionBreakCancel)
	case "w":
		return m.runAction(ActionWater)
	}
	return m, nil
}

func (m Model) renderDashboardView() string {
	snap := m.engine.Snapshot()
	plain := snap.Settings.AccessibilityMode

	bar := func(p progress.Model, v float64) string {
		if plain {
			return progressBar(v, 30)
		}
		return p.ViewAs(v)
	}

	screen := views.MeterData{
		Title:   "Screen time",
		Value:   fmt.Sprintf("%s used, %s left", formatClock(snap.Screen.ElapsedSeconds), formatDuration(snap.Screen.RemainingSeconds)),
		BarView: bar(m.screenProgress, snap.Screen.Progress),
		Percent: percent(snap.Screen.Progress),
		Active:  snap.Screen.Running,
	}
	if snap.Screen.RemainingSeconds == 0 {
		screen.Caption = "daily limit reached"
	}

	breaks := views.MeterData{
		Title:    "Break cycle",
		BarView:  bar(m.breakProgress, snap.Breaks.Progress),
		Percent:  percent(snap.Breaks.Progress),
		Active:   snap.Breaks.Started,
		Disabled: !snap.Breaks.Started,
	}
	switch snap.Breaks.Phase {
	case model.PhaseBreak:
		breaks.Value = fmt.Sprintf("on break, %s left", formatDuration(snap.Breaks.RemainingSeconds))
	case model.PhaseWorking:
		breaks.Value = fmt.Sprintf("next break in %s", formatDuration(snap.Breaks.RemainingSeconds))
	default:
		breaks.Value = fmt.Sprintf("not started (%d min interval)", snap.Settings.BreakIntervalMin)
	}

	water := views.MeterData{
		Title:    "Hydration",
		Value:    fmt.Sprintf("%d of %d glasses", snap.Hydration.Glasses, snap.Hydration.Goal),
		BarView:  bar(m.waterProgress, snap.Hydration.Progress),
		Percent:  percent(snap.Hydration.Progress),
		Active:   snap.Hydration.CycleRunning,
		Disabled: !snap.Hydration.CycleRunning && snap.Hydration.Glasses < snap.Hydration.Goal,
	}
	waterStatus := "log your first glass to start reminders"
	switch {
	case snap.Hydration.Glasses >= snap.Hydration.Goal:
		waterStatus = "goal reached for today"
	case snap.Hydration.CycleRunning:
		waterStatus = fmt.Sprintf("next reminder in %s", formatDuration(snap.Hydration.RemainingSeconds))
	}

	hours := make([]views.HourBarData, 0, len(snap.Screen.History))
	for _, b := range snap.Screen.History {
		hours = append(hours, views.HourBarData{Label: b.Label, Minutes: b.Minutes(), Current: b.Hour == snap.At.Hour()})
	}

	greeting := ""
	if m.Session != nil {
		greeting = fmt.Sprintf("Hello, %s", m.Session.Name)
	}

	return views.RenderDashboard(views.DashboardData{
		Greeting:    greeting,
		Screen:      screen,
		Breaks:      breaks,
		Hydration:   water,
		BreakStatus: fmt.Sprintf("breaks today: %d of %d", snap.Breaks.BreaksTaken, snap.Breaks.Goal),
		WaterStatus: waterStatus,
		Hours:       hours,
		CanBreakNow: snap.Breaks.CanBreakNow,
		OnBreak:     snap.Breaks.Phase == model.PhaseBreak,
	})
}
