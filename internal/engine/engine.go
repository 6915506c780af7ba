package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/sandeepkv93/wellnessd/internal/model"
	"github.com/sandeepkv93/wellnessd/internal/notify"
	"github.com/sandeepkv93/wellnessd/internal/storage"
	"github.com/sandeepkv93/wellnessd/internal/timer"
)

const (
	KeyScreenTime = "state.screen_time"
	KeyBreakCycle = "state.break_cycle"
	KeyHydration  = "state.hydration"
)

type Machine int

const (
	MachineScreen Machine = iota
	MachineBreaks
	MachineHydration
	machineCount
)

func (m Machine) String() string {
	switch m {
	case MachineScreen:
		return "screen_time"
	case MachineBreaks:
		return "break_cycle"
	case MachineHydration:
		return "hydration"
	default:
		return "unknown"
	}
}

type SettingsProvider interface {
	Snapshot() model.Settings
}

type Notifier interface {
	Notify(notify.Event) notify.Notification
}

type Store interface {
	storage.KVStore
	storage.StatsStore
}

// TickRequest asks the caller to run a one-second tick chain for Machine.
// Ticks carrying an older generation are dropped by Tick.
type TickRequest struct {
	Machine Machine
	Gen     uint64
}

// Outcome reports what an operation produced for the presentation layer.
type Outcome struct {
	Changed       bool
	Notifications []notify.Notification
	Banner        *timer.Event
	Tick          *TickRequest
}

// Engine owns the three timer machines. It is driven from a single goroutine;
// Latest may be read from any goroutine.
type Engine struct {
	settings SettingsProvider
	store    Store
	notifier Notifier
	clock    timer.Clock
	logger   *slog.Logger

	screen model.ScreenTimeState
	breaks model.BreakCycleState
	water  model.HydrationState
	day    string
	gens   [machineCount]uint64

	latest atomic.Pointer[Snapshot]
}

type Option func(*Engine)

func WithClock(c timer.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

func New(settings SettingsProvider, store Store, opts ...Option) *Engine {
	e := &Engine{
		settings: settings,
		store:    store,
		notifier: notify.NewDispatcher(),
		clock:    timer.SystemClock{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	now := e.clock.Now()
	e.day = model.DayKey(now)
	e.screen = timer.NewScreenTime(now)
	e.breaks = timer.NewBreakCycle()
	e.water = timer.NewHydration()
	e.water.Day = e.day
	e.breaks.Day = e.day
	e.publish()
	return e
}

// Restore loads persisted machine state. Missing or malformed entries leave
// the fresh state in place. Previous days are archived and cleared.
func (e *Engine) Restore(ctx context.Context) []TickRequest {
	var screen model.ScreenTimeState
	if e.load(ctx, KeyScreenTime, &screen) {
		if screen.ElapsedSeconds < 0 {
			e.logger.Warn("stored screen time invalid, starting fresh")
		} else {
			e.screen = screen
		}
	}
	var breaks model.BreakCycleState
	if e.load(ctx, KeyBreakCycle, &breaks) {
		if err := breaks.Validate(); err != nil {
			e.logger.Warn("stored break cycle invalid, starting fresh", "error", err)
		} else {
			e.breaks = breaks
		}
	}
	var water model.HydrationState
	if e.load(ctx, KeyHydration, &water) {
		if water.Glasses < 0 || (water.Elapsed != nil && *water.Elapsed < 0) {
			e.logger.Warn("stored hydration state invalid, starting fresh")
		} else {
			e.water = timer.ReconcileHydration(water, e.settings.Snapshot())
		}
	}

	if stored := oldestDay(e.screen.Day, e.breaks.Day, e.water.Day); stored != "" {
		e.day = stored
	}
	e.rollover(ctx)
	e.screen.History = timer.SlideWindow(e.screen.History, e.clock.Now())
	e.publish()
	return e.Resume()
}

func (e *Engine) load(ctx context.Context, key string, v any) bool {
	err := storage.LoadJSON(ctx, e.store, key, v)
	switch {
	case err == nil:
		return true
	case errors.Is(err, storage.ErrNotFound):
		return false
	default:
		e.logger.Warn("failed to restore state, using defaults", "key", key, "error", err)
		return false
	}
}

func oldestDay(days ...string) string {
	out := ""
	for _, d := range days {
		if d != "" && (out == "" || d < out) {
			out = d
		}
	}
	return out
}

func (e *Engine) Generation(m Machine) uint64 {
	return e.gens[m]
}

func (e *Engine) bump(m Machine) TickRequest {
	e.gens[m]++
	return TickRequest{Machine: m, Gen: e.gens[m]}
}

func (e *Engine) running(m Machine) bool {
	switch m {
	case MachineScreen:
		return e.screen.Running
	case MachineBreaks:
		return e.breaks.Started
	case MachineHydration:
		return e.water.CycleRunning()
	default:
		return false
	}
}

// Tick advances machine m by one second. It returns false when the tick is
// stale or the machine stopped, which ends the tick chain.
func (e *Engine) Tick(ctx context.Context, m Machine, gen uint64) (Outcome, bool) {
	if m < 0 || m >= machineCount || gen != e.gens[m] {
		return Outcome{}, false
	}
	out := e.rollover(ctx)
	if !e.running(m) {
		e.publish()
		return out, false
	}

	cfg := e.settings.Snapshot()
	var events []timer.Event
	switch m {
	case MachineScreen:
		e.screen = timer.AdvanceScreen(e.screen, e.clock.Now(), 1)
	case MachineBreaks:
		e.breaks, events = timer.AdvanceBreaks(e.breaks, cfg, 1)
	case MachineHydration:
		e.water, events = timer.AdvanceHydration(e.water, cfg, 1)
	}
	e.persist(ctx, m)
	e.publish()
	out.Changed = true
	e.dispatch(&out, events)

	alive := e.running(m)
	if !alive {
		e.bump(m)
	}
	return out, alive
}

func (e *Engine) persist(ctx context.Context, m Machine) {
	var key string
	var value any
	switch m {
	case MachineScreen:
		e.screen.Day = e.day
		key, value = KeyScreenTime, e.screen
	case MachineBreaks:
		e.breaks.Day = e.day
		key, value = KeyBreakCycle, e.breaks
	case MachineHydration:
		e.water.Day = e.day
		key, value = KeyHydration, e.water
	default:
		return
	}
	if err := storage.SaveJSON(ctx, e.store, key, value); err != nil {
		e.logger.Warn("failed to persist state", "machine", m.String(), "error", err)
	}
}

func (e *Engine) dispatch(out *Outcome, events []timer.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case timer.EventBanner:
			banner := ev
			out.Banner = &banner
		default:
			n := e.notifier.Notify(notify.Event{Title: ev.Title, Message: ev.Message, Severity: ev.Severity})
			out.Notifications = append(out.Notifications, n)
		}
	}
}

// Latest returns the most recently published snapshot. Safe for concurrent use.
func (e *Engine) Latest() Snapshot {
	if s := e.latest.Load(); s != nil {
		return *s
	}
	return Snapshot{}
}

func (e *Engine) publish() {
	snap := e.Snapshot()
	e.latest.Store(&snap)
}
