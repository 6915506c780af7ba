package timer

import (
	"fmt"

	"github.com/sandeepkv93/wellnessd/internal/model"
	"github.com/sandeepkv93/wellnessd/internal/notify"
)

const BannerSeconds = 10

func NewHydration() model.HydrationState {
	return model.HydrationState{}
}

func RecordGlass(s model.HydrationState, cfg model.Settings) (model.HydrationState, []Event, bool) {
	if s.Glasses >= cfg.WaterGoalGlasses {
		return s, nil, false
	}
	s.Glasses++
	zero := 0
	s.Elapsed = &zero

	var events []Event
	if cfg.NotificationsEnabled {
		events = append(events, notice("Nice work!", "You logged another glass of water.", notify.SeveritySuccess))
	}
	if s.Glasses >= cfg.WaterGoalGlasses {
		s.Elapsed = nil
		if cfg.NotificationsEnabled {
			events = append(events, notice(
				"Hydration goal reached",
				fmt.Sprintf("You drank %d glasses of water today.", s.Glasses),
				notify.SeveritySuccess,
			))
		}
	}
	return s, events, true
}

// AdvanceHydration ticks the reminder cycle. The cycle keeps running after a
// reminder fires and stops once the goal is met.
func AdvanceHydration(s model.HydrationState, cfg model.Settings, seconds int) (model.HydrationState, []Event) {
	if s.Elapsed == nil {
		return s, nil
	}
	if s.Glasses >= cfg.WaterGoalGlasses {
		s.Elapsed = nil
		return s, nil
	}
	elapsed := *s.Elapsed
	var events []Event
	for i := 0; i < seconds; i++ {
		elapsed++
		if elapsed >= cfg.WaterReminderIntervalSeconds() {
			elapsed = 0
			if cfg.NotificationsEnabled {
				events = append(events, notice("Reminder", "Time to drink a glass of water!", notify.SeverityInfo))
			}
			events = append(events, Event{Kind: EventBanner, Title: "Hydration", Message: "Time to drink a glass of water!", Severity: notify.SeverityInfo})
		}
	}
	s.Elapsed = &elapsed
	return s, events
}

// ReconcileHydration stops the cycle when the goal was lowered to or below the
// glasses already consumed.
func ReconcileHydration(s model.HydrationState, cfg model.Settings) model.HydrationState {
	if s.Elapsed != nil && s.Glasses >= cfg.WaterGoalGlasses {
		s.Elapsed = nil
	}
	return s
}

func HydrationRemaining(s model.HydrationState, cfg model.Settings) int {
	if s.Elapsed == nil {
		return 0
	}
	remaining := cfg.WaterReminderIntervalSeconds() - *s.Elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func HydrationProgress(s model.HydrationState, cfg model.Settings) float64 {
	if cfg.WaterGoalGlasses <= 0 {
		return 0
	}
	return clampFraction(float64(s.Glasses) / float64(cfg.WaterGoalGlasses))
}
