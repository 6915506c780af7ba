package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sandeepkv93/wellnessd/internal/model"
	"gopkg.in/yaml.v3"
)

type yamlSettings struct {
	ScreenTimeLimitHours     *float64 `yaml:"screen_time_limit_hours,omitempty"`
	BreakIntervalMin         *int     `yaml:"break_interval_min,omitempty"`
	BreakDurationMin         *int     `yaml:"break_duration_min,omitempty"`
	BreakGoalCount           *int     `yaml:"break_goal_count,omitempty"`
	BreakStartDelayMin       *int     `yaml:"break_start_delay_min,omitempty"`
	WaterGoalGlasses         *int     `yaml:"water_goal_glasses,omitempty"`
	WaterReminderIntervalMin *int     `yaml:"water_reminder_interval_min,omitempty"`
	NotificationsEnabled     *bool    `yaml:"notifications_enabled,omitempty"`
	SoundEnabled             *bool    `yaml:"sound_enabled,omitempty"`
	Theme                    *string  `yaml:"theme,omitempty"`
	AccessibilityMode        *bool    `yaml:"accessibility_mode,omitempty"`
}

// ExportYAML writes s to path through a temp file and rename.
func ExportYAML(path string, s model.Settings) error {
	serialized, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return os.Rename(tmp, path)
}

// ImportYAML reads path and applies its fields on top of base. Fields that
// are absent or invalid keep the base value and are reported as skipped.
func ImportYAML(path string, base model.Settings) (model.Settings, []string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, nil, fmt.Errorf("settings file %s: %w", path, err)
		}
		return base, nil, fmt.Errorf("read settings file: %w", err)
	}
	var fileData yamlSettings
	if err := yaml.Unmarshal(raw, &fileData); err != nil {
		return base, nil, fmt.Errorf("parse settings yaml: %w", err)
	}
	out, skipped := applyYamlSettings(base, fileData)
	return out, skipped, nil
}

func applyYamlSettings(s model.Settings, f yamlSettings) (model.Settings, []string) {
	var skipped []string
	if f.ScreenTimeLimitHours != nil {
		if *f.ScreenTimeLimitHours > 0 {
			s.ScreenTimeLimitHours = *f.ScreenTimeLimitHours
		} else {
			skipped = append(skipped, "screen_time_limit_hours")
		}
	}
	applyPositive := func(name string, v *int, dst *int, min int) {
		if v == nil {
			return
		}
		if *v >= min {
			*dst = *v
			return
		}
		skipped = append(skipped, name)
	}
	applyPositive("break_interval_min", f.BreakIntervalMin, &s.BreakIntervalMin, 1)
	applyPositive("break_duration_min", f.BreakDurationMin, &s.BreakDurationMin, 1)
	applyPositive("break_goal_count", f.BreakGoalCount, &s.BreakGoalCount, 1)
	applyPositive("break_start_delay_min", f.BreakStartDelayMin, &s.BreakStartDelayMin, 0)
	applyPositive("water_goal_glasses", f.WaterGoalGlasses, &s.WaterGoalGlasses, 1)
	applyPositive("water_reminder_interval_min", f.WaterReminderIntervalMin, &s.WaterReminderIntervalMin, 1)

	if f.NotificationsEnabled != nil {
		s.NotificationsEnabled = *f.NotificationsEnabled
	}
	if f.SoundEnabled != nil {
		s.SoundEnabled = *f.SoundEnabled
	}
	if f.AccessibilityMode != nil {
		s.AccessibilityMode = *f.AccessibilityMode
	}
	if f.Theme != nil {
		if theme := model.Theme(*f.Theme); theme.IsValid() {
			s.Theme = theme
		} else {
			skipped = append(skipped, "theme")
		}
	}
	return s, skipped
}
