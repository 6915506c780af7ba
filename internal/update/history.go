package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/wellnessd/internal/scheduler"
	"github.com/sandeepkv93/wellnessd/internal/views"
)

func (m Model) handleHistoryKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	items := m.notifier.History()
	switch msg.String() {
	case "j", "down":
		if m.History.Cursor < len(items)-1 {
			m.History.Cursor++
		}
	case "k", "up":
		if m.History.Cursor > 0 {
			m.History.Cursor--
		}
	case "enter":
		if m.History.Cursor < len(items) {
			m.notifier.MarkRead(items[m.History.Cursor].ID)
		}
	case "x":
		if m.History.Cursor < len(items) {
			id := items[m.History.Cursor].ID
			m.notifier.Remove(id)
			m.cancelExpiry(scheduler.KindToastDismiss, id)
			if m.History.Cursor >= len(items)-1 && m.History.Cursor > 0 {
				m.History.Cursor--
			}
			m.Status = StatusBar{Text: "notification removed"}
		}
	case "a":
		m.notifier.MarkAllRead()
		m.Status = StatusBar{Text: "all notifications marked read"}
	}
	return m, nil
}

func (m Model) renderHistoryView() string {
	rows := m.historyRows()
	return views.RenderNotificationsPanel(string(m.currentSettings().Theme), views.NotificationsPanelData{
		Unread:       m.notifier.UnreadCount(),
		Rows:         rows,
		ViewportView: m.historyViewport.View(),
	})
}
