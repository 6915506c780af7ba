package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/wellnessd/internal/account"
	"github.com/sandeepkv93/wellnessd/internal/engine"
	"github.com/sandeepkv93/wellnessd/internal/scheduler"
	"github.com/sandeepkv93/wellnessd/internal/timer"
)

const bannerRef = "hydration"

func machineTickCmd(req engine.TickRequest) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return MachineTickMsg{Machine: req.Machine, Gen: req.Gen}
	})
}

// windowTickCmd fires at the top of the next minute.
func windowTickCmd() tea.Cmd {
	return tea.Every(time.Minute, func(time.Time) tea.Msg { return WindowTickMsg{} })
}

func waitForExpiryCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ExpiryMsg{Event: ev, FromQueue: true}
	}
}

func waitForAuthCmd(ch <-chan *account.Session) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return AuthStateMsg{Session: s}
	}
}

// after arranges an ExpiryMsg. The scheduler queue is preferred; without one
// a plain tea.Tick is used.
func (m Model) after(kind scheduler.Kind, ref string, d time.Duration) tea.Cmd {
	if m.scheduler != nil {
		if err := m.scheduler.After(kind, ref, d); err == nil {
			return nil
		}
	}
	ev := scheduler.Event{ID: scheduler.EventID(kind, ref), Kind: kind, Ref: ref}
	return tea.Tick(d, func(at time.Time) tea.Msg {
		ev.TriggerAt = at
		return ExpiryMsg{Event: ev}
	})
}

func (m Model) cancelExpiry(kind scheduler.Kind, ref string) {
	if m.scheduler != nil {
		m.scheduler.Cancel(scheduler.EventID(kind, ref))
	}
}

// applyOutcome turns an engine outcome into follow-up commands: new tick
// chains, toast expiries and the hydration banner.
func (m *Model) applyOutcome(out engine.Outcome) tea.Cmd {
	var cmds []tea.Cmd
	if out.Tick != nil {
		cmds = append(cmds, machineTickCmd(*out.Tick))
	}
	for _, n := range out.Notifications {
		cmds = append(cmds, m.after(scheduler.KindToastDismiss, n.ID, m.cfg.ToastDuration()))
	}
	if out.Banner != nil {
		m.Banner = out.Banner.Message
		cmds = append(cmds, m.after(scheduler.KindBannerHide, bannerRef, timer.BannerSeconds*time.Second))
	}
	return tea.Batch(cmds...)
}

func (m Model) onMachineTick(msg MachineTickMsg) (Model, tea.Cmd) {
	out, alive := m.engine.Tick(m.ctx, msg.Machine, msg.Gen)
	cmd := m.applyOutcome(out)
	if alive {
		cmd = tea.Batch(cmd, machineTickCmd(engine.TickRequest{Machine: msg.Machine, Gen: msg.Gen}))
	}
	return m, cmd
}

func (m Model) onWindowTick() (Model, tea.Cmd) {
	out := m.engine.RefreshWindow(m.ctx)
	cmd := m.applyOutcome(out)
	m.notifier.Expire(m.now())
	return m, tea.Batch(cmd, windowTickCmd())
}

func (m Model) onExpiry(msg ExpiryMsg) (Model, tea.Cmd) {
	switch msg.Event.Kind {
	case scheduler.KindToastDismiss:
		m.notifier.Dismiss(msg.Event.Ref)
	case scheduler.KindBannerHide:
		m.Banner = ""
	}
	if msg.FromQueue && m.scheduler != nil {
		return m, waitForExpiryCmd(m.scheduler.C())
	}
	return m, nil
}
