package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPhase = errors.New("model: invalid break phase")

// HourBucket holds screen time recorded for one wall-clock hour of today.
type HourBucket struct {
	Hour    int    `json:"hour"`
	Label   string `json:"hourLabel"`
	Seconds int    `json:"seconds"`
}

func (b HourBucket) Minutes() int {
	return b.Seconds / 60
}

// HourLabel renders an hour of the day as 12AM, 9AM, 12PM, 6PM.
func HourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12AM"
	case hour < 12:
		return fmt.Sprintf("%dAM", hour)
	case hour == 12:
		return "12PM"
	default:
		return fmt.Sprintf("%dPM", hour-12)
	}
}

type ScreenTimeState struct {
	Day            string       `json:"day"`
	ElapsedSeconds int          `json:"elapsedSeconds"`
	Running        bool         `json:"running"`
	History        []HourBucket `json:"hourlyHistory"`
}

type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseWorking    Phase = "working"
	PhaseBreak      Phase = "break"
)

func (p Phase) IsValid() bool {
	switch p {
	case PhaseNotStarted, PhaseWorking, PhaseBreak:
		return true
	default:
		return false
	}
}

type BreakCycleState struct {
	Day            string `json:"day"`
	Phase          Phase  `json:"phase"`
	ElapsedInPhase int    `json:"elapsedInPhaseSeconds"`
	BreaksTaken    int    `json:"breaksTakenCount"`
	Started        bool   `json:"started"`
}

func (s BreakCycleState) Validate() error {
	if !s.Phase.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPhase, s.Phase)
	}
	if s.Started == (s.Phase == PhaseNotStarted) {
		return fmt.Errorf("%w: started=%v with phase %q", ErrInvalidPhase, s.Started, s.Phase)
	}
	if s.ElapsedInPhase < 0 || s.BreaksTaken < 0 {
		return errors.New("model: break cycle counters must not be negative")
	}
	return nil
}

type HydrationState struct {
	Day     string `json:"day"`
	Glasses int    `json:"glassesConsumed"`
	// Elapsed is nil while the reminder cycle is dormant.
	Elapsed *int `json:"elapsedSinceLastGlassSeconds"`
}

func (s HydrationState) CycleRunning() bool {
	return s.Elapsed != nil
}

// DayKey formats the calendar day used to detect rollover.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
