package timer

import (
	"fmt"

	"github.com/sandeepkv93/wellnessd/internal/model"
	"github.com/sandeepkv93/wellnessd/internal/notify"
)

func NewBreakCycle() model.BreakCycleState {
	return model.BreakCycleState{Phase: model.PhaseNotStarted}
}

func StartBreaks(s model.BreakCycleState) model.BreakCycleState {
	if s.Started {
		return s
	}
	s.Started = true
	s.Phase = model.PhaseWorking
	s.ElapsedInPhase = 0
	return s
}

// StopBreaks returns the cycle to not started. The day's break count is kept.
func StopBreaks(s model.BreakCycleState) model.BreakCycleState {
	s.Started = false
	s.Phase = model.PhaseNotStarted
	s.ElapsedInPhase = 0
	return s
}

// AdvanceBreaks ticks the cycle one second at a time so phase boundaries are
// crossed exactly.
func AdvanceBreaks(s model.BreakCycleState, cfg model.Settings, seconds int) (model.BreakCycleState, []Event) {
	if !s.Started {
		return s, nil
	}
	var events []Event
	for i := 0; i < seconds; i++ {
		s.ElapsedInPhase++
		switch s.Phase {
		case model.PhaseWorking:
			if s.ElapsedInPhase >= cfg.BreakIntervalSeconds() {
				s = beginBreak(s)
				if cfg.NotificationsEnabled {
					events = append(events, notice(
						"Time for a break",
						fmt.Sprintf("You have worked %d minutes. Stand up, stretch and rest your eyes.", cfg.BreakIntervalMin),
						notify.SeverityWarning,
					))
				}
			}
		case model.PhaseBreak:
			if s.ElapsedInPhase >= cfg.BreakDurationSeconds() {
				s.Phase = model.PhaseWorking
				s.ElapsedInPhase = 0
				if cfg.NotificationsEnabled {
					events = append(events, notice(
						"Break finished",
						fmt.Sprintf("Back to work. Next break in %d minutes.", cfg.BreakIntervalMin),
						notify.SeverityInfo,
					))
				}
			}
		}
	}
	return s, events
}

func CanBreakNow(s model.BreakCycleState, cfg model.Settings) bool {
	if !s.Started || s.Phase != model.PhaseWorking {
		return false
	}
	return BreakRemaining(s, cfg) <= cfg.BreakStartDelaySeconds()
}

// BreakNow starts a break early. It is a no-op outside the early-start window.
func BreakNow(s model.BreakCycleState, cfg model.Settings) (model.BreakCycleState, []Event, bool) {
	if !CanBreakNow(s, cfg) {
		return s, nil, false
	}
	s = beginBreak(s)
	var events []Event
	if cfg.NotificationsEnabled {
		events = append(events, notice(
			"Active break started",
			fmt.Sprintf("Take %d minutes to stretch and rest your eyes.", cfg.BreakDurationMin),
			notify.SeveritySuccess,
		))
	}
	return s, events, true
}

func CancelBreak(s model.BreakCycleState) (model.BreakCycleState, bool) {
	if !s.Started || s.Phase != model.PhaseBreak {
		return s, false
	}
	s.Phase = model.PhaseWorking
	s.ElapsedInPhase = 0
	return s, true
}

func beginBreak(s model.BreakCycleState) model.BreakCycleState {
	s.Phase = model.PhaseBreak
	s.ElapsedInPhase = 0
	s.BreaksTaken++
	return s
}

func BreakPhaseLimit(s model.BreakCycleState, cfg model.Settings) int {
	if s.Phase == model.PhaseBreak {
		return cfg.BreakDurationSeconds()
	}
	return cfg.BreakIntervalSeconds()
}

// BreakRemaining is derived from elapsed time so a settings change never
// restarts the current phase.
func BreakRemaining(s model.BreakCycleState, cfg model.Settings) int {
	if !s.Started {
		return cfg.BreakIntervalSeconds()
	}
	remaining := BreakPhaseLimit(s, cfg) - s.ElapsedInPhase
	if remaining < 0 {
		return 0
	}
	return remaining
}

// BreakProgress is the remaining fraction of the current phase.
func BreakProgress(s model.BreakCycleState, cfg model.Settings) float64 {
	limit := BreakPhaseLimit(s, cfg)
	if limit <= 0 {
		return 0
	}
	return clampFraction(float64(BreakRemaining(s, cfg)) / float64(limit))
}
