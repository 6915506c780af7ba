package model

import (
	"errors"
	"fmt"
)

var ErrInvalidSetting = errors.New("model: invalid setting")

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	default:
		return false
	}
}

// Settings is the user-facing configuration bundle. Timer machines only read it.
type Settings struct {
	ScreenTimeLimitHours     float64 `json:"screenTimeLimitHours" yaml:"screen_time_limit_hours"`
	BreakIntervalMin         int     `json:"breakIntervalMin" yaml:"break_interval_min"`
	BreakDurationMin         int     `json:"breakDurationMin" yaml:"break_duration_min"`
	BreakGoalCount           int     `json:"breakGoalCount" yaml:"break_goal_count"`
	BreakStartDelayMin       int     `json:"breakStartDelayMin" yaml:"break_start_delay_min"`
	WaterGoalGlasses         int     `json:"waterGoalGlasses" yaml:"water_goal_glasses"`
	WaterReminderIntervalMin int     `json:"waterReminderIntervalMin" yaml:"water_reminder_interval_min"`
	NotificationsEnabled     bool    `json:"notificationsEnabled" yaml:"notifications_enabled"`
	SoundEnabled             bool    `json:"soundEnabled" yaml:"sound_enabled"`
	Theme                    Theme   `json:"theme" yaml:"theme"`
	AccessibilityMode        bool    `json:"accessibilityMode" yaml:"accessibility_mode"`
}

func DefaultSettings() Settings {
	return Settings{
		ScreenTimeLimitHours:     8,
		BreakIntervalMin:         25,
		BreakDurationMin:         5,
		BreakGoalCount:           8,
		BreakStartDelayMin:       5,
		WaterGoalGlasses:         8,
		WaterReminderIntervalMin: 45,
		NotificationsEnabled:     true,
		SoundEnabled:             true,
		Theme:                    ThemeSystem,
		AccessibilityMode:        false,
	}
}

func (s Settings) Validate() error {
	if s.ScreenTimeLimitHours <= 0 {
		return fmt.Errorf("%w: screen time limit must be positive, got %v", ErrInvalidSetting, s.ScreenTimeLimitHours)
	}
	if s.BreakIntervalMin <= 0 {
		return fmt.Errorf("%w: break interval must be positive, got %d", ErrInvalidSetting, s.BreakIntervalMin)
	}
	if s.BreakDurationMin <= 0 {
		return fmt.Errorf("%w: break duration must be positive, got %d", ErrInvalidSetting, s.BreakDurationMin)
	}
	if s.BreakGoalCount < 1 {
		return fmt.Errorf("%w: break goal must be at least 1, got %d", ErrInvalidSetting, s.BreakGoalCount)
	}
	if s.BreakStartDelayMin < 0 {
		return fmt.Errorf("%w: break start delay must not be negative, got %d", ErrInvalidSetting, s.BreakStartDelayMin)
	}
	if s.WaterGoalGlasses <= 0 {
		return fmt.Errorf("%w: water goal must be positive, got %d", ErrInvalidSetting, s.WaterGoalGlasses)
	}
	if s.WaterReminderIntervalMin <= 0 {
		return fmt.Errorf("%w: water reminder interval must be positive, got %d", ErrInvalidSetting, s.WaterReminderIntervalMin)
	}
	if !s.Theme.IsValid() {
		return fmt.Errorf("%w: theme %q", ErrInvalidSetting, s.Theme)
	}
	return nil
}

// Normalize replaces every invalid field with its default and reports which
// fields were replaced.
func (s Settings) Normalize() (Settings, []string) {
	def := DefaultSettings()
	var fixed []string
	if s.ScreenTimeLimitHours <= 0 {
		s.ScreenTimeLimitHours = def.ScreenTimeLimitHours
		fixed = append(fixed, "screenTimeLimitHours")
	}
	if s.BreakIntervalMin <= 0 {
		s.BreakIntervalMin = def.BreakIntervalMin
		fixed = append(fixed, "breakIntervalMin")
	}
	if s.BreakDurationMin <= 0 {
		s.BreakDurationMin = def.BreakDurationMin
		fixed = append(fixed, "breakDurationMin")
	}
	if s.BreakGoalCount < 1 {
		s.BreakGoalCount = def.BreakGoalCount
		fixed = append(fixed, "breakGoalCount")
	}
	if s.BreakStartDelayMin < 0 {
		s.BreakStartDelayMin = def.BreakStartDelayMin
		fixed = append(fixed, "breakStartDelayMin")
	}
	if s.WaterGoalGlasses <= 0 {
		s.WaterGoalGlasses = def.WaterGoalGlasses
		fixed = append(fixed, "waterGoalGlasses")
	}
	if s.WaterReminderIntervalMin <= 0 {
		s.WaterReminderIntervalMin = def.WaterReminderIntervalMin
		fixed = append(fixed, "waterReminderIntervalMin")
	}
	if !s.Theme.IsValid() {
		s.Theme = def.Theme
		fixed = append(fixed, "theme")
	}
	return s, fixed
}

func (s Settings) ScreenTimeLimitSeconds() int {
	return int(s.ScreenTimeLimitHours * 3600)
}

func (s Settings) BreakIntervalSeconds() int { return s.BreakIntervalMin * 60 }

func (s Settings) BreakDurationSeconds() int { return s.BreakDurationMin * 60 }

func (s Settings) BreakStartDelaySeconds() int { return s.BreakStartDelayMin * 60 }

func (s Settings) WaterReminderIntervalSeconds() int { return s.WaterReminderIntervalMin * 60 }
