package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/wellnessd/internal/model"
	"github.com/sandeepkv93/wellnessd/internal/storage"
	"github.com/sandeepkv93/wellnessd/internal/views"
)

const reportDays = 7

func (m Model) loadReportsCmd() tea.Cmd {
	if m.stats == nil {
		return nil
	}
	ctx, stats := m.ctx, m.stats
	today := m.now()
	return func() tea.Msg {
		filter := storage.DailyStatFilter{
			From:  model.DayKey(today.AddDate(0, 0, -reportDays)),
			To:    model.DayKey(today.AddDate(0, 0, -1)),
			Limit: reportDays,
		}
		rows, err := stats.ListDailyStats(ctx, filter)
		return reportsLoadedMsg{rows: rows, err: err}
	}
}

func (m Model) handleReportsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.reportsTable.MoveDown(1)
	case "k", "up":
		m.reportsTable.MoveUp(1)
	case "r":
		return m, m.loadReportsCmd()
	}
	return m, nil
}

// reportRows is today's live totals followed by archived days, newest first.
func (m Model) reportRows() []storage.DailyStat {
	out := make([]storage.DailyStat, 0, len(m.Reports.Rows)+1)
	if m.engine != nil {
		out = append(out, m.engine.Today())
	}
	for _, row := range m.Reports.Rows {
		if len(out) > 0 && row.Day == out[0].Day {
			continue
		}
		out = append(out, row)
	}
	return out
}

type reportSummary struct {
	days          int
	averageScreen time.Duration
	breakGoalDays int
	waterGoalDays int
}

func summarize(rows []storage.DailyStat, cfg model.Settings) reportSummary {
	var s reportSummary
	total := 0
	for _, row := range rows {
		s.days++
		total += row.ScreenSeconds
		if row.BreaksTaken >= cfg.BreakGoalCount {
			s.breakGoalDays++
		}
		if row.Glasses >= cfg.WaterGoalGlasses {
			s.waterGoalDays++
		}
	}
	if s.days > 0 {
		s.averageScreen = time.Duration(total/s.days) * time.Second
	}
	return s
}

func (m Model) renderReportsView() string {
	summary := summarize(m.reportRows(), m.currentSettings())
	table := m.reportsTable.View()
	if m.Reports.Err != "" {
		table += "\nerror: " + m.Reports.Err
	}
	return views.RenderReportsPanel(views.ReportsPanelData{
		TableView:     table,
		AverageScreen: formatClock(int(summary.averageScreen / time.Second)),
		BreakGoalDays: summary.breakGoalDays,
		WaterGoalDays: summary.waterGoalDays,
		Days:          summary.days,
	})
}
