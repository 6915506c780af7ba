package engine

import (
	"time"

	"github.com/sandeepkv93/wellnessd/internal/model"
	"github.com/sandeepkv93/wellnessd/internal/timer"
)

type ScreenView struct {
	ElapsedSeconds   int                `json:"elapsedSeconds"`
	Running          bool               `json:"running"`
	History          []model.HourBucket `json:"hourlyHistory"`
	LimitSeconds     int                `json:"limitSeconds"`
	RemainingSeconds int                `json:"remainingSeconds"`
	Progress         float64            `json:"progress"`
}

type BreakView struct {
	Phase             model.Phase `json:"phase"`
	Started           bool        `json:"started"`
	ElapsedInPhase    int         `json:"elapsedInPhaseSeconds"`
	PhaseLimitSeconds int         `json:"phaseLimitSeconds"`
	RemainingSeconds  int         `json:"remainingSeconds"`
	Progress          float64     `json:"progress"`
	BreaksTaken       int         `json:"breaksTakenCount"`
	Goal              int         `json:"breakGoalCount"`
	CanBreakNow       bool        `json:"canBreakNow"`
}

type HydrationView struct {
	Glasses          int     `json:"glassesConsumed"`
	Goal             int     `json:"waterGoalGlasses"`
	CycleRunning     bool    `json:"cycleRunning"`
	Elapsed          *int    `json:"elapsedSinceLastGlassSeconds"`
	RemainingSeconds int     `json:"remainingSeconds"`
	Progress         float64 `json:"progress"`
}

// Snapshot is a read-only view of every machine with derived values.
type Snapshot struct {
	At        time.Time      `json:"at"`
	Day       string         `json:"day"`
	Settings  model.Settings `json:"settings"`
	Screen    ScreenView     `json:"screenTime"`
	Breaks    BreakView      `json:"breakCycle"`
	Hydration HydrationView  `json:"hydration"`
}

func (e *Engine) Snapshot() Snapshot {
	cfg := e.settings.Snapshot()
	history := make([]model.HourBucket, len(e.screen.History))
	copy(history, e.screen.History)

	var elapsed *int
	if e.water.Elapsed != nil {
		v := *e.water.Elapsed
		elapsed = &v
	}

	return Snapshot{
		At:       e.clock.Now(),
		Day:      e.day,
		Settings: cfg,
		Screen: ScreenView{
			ElapsedSeconds:   e.screen.ElapsedSeconds,
			Running:          e.screen.Running,
			History:          history,
			LimitSeconds:     cfg.ScreenTimeLimitSeconds(),
			RemainingSeconds: timer.ScreenRemaining(e.screen, cfg),
			Progress:         timer.ScreenProgress(e.screen, cfg),
		},
		Breaks: BreakView{
			Phase:             e.breaks.Phase,
			Started:           e.breaks.Started,
			ElapsedInPhase:    e.breaks.ElapsedInPhase,
			PhaseLimitSeconds: timer.BreakPhaseLimit(e.breaks, cfg),
			RemainingSeconds:  timer.BreakRemaining(e.breaks, cfg),
			Progress:          timer.BreakProgress(e.breaks, cfg),
			BreaksTaken:       e.breaks.BreaksTaken,
			Goal:              cfg.BreakGoalCount,
			CanBreakNow:       timer.CanBreakNow(e.breaks, cfg),
		},
		Hydration: HydrationView{
			Glasses:          e.water.Glasses,
			Goal:             cfg.WaterGoalGlasses,
			CycleRunning:     e.water.CycleRunning(),
			Elapsed:          elapsed,
			RemainingSeconds: timer.HydrationRemaining(e.water, cfg),
			Progress:         timer.HydrationProgress(e.water, cfg),
		},
	}
}
