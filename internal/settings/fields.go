package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/wellnessd/internal/model"
)

// Field describes one editable setting for the settings form and the
// command palette.
type Field struct {
	Key   string
	Label string
	Get   func(model.Settings) string
	Set   func(*model.Settings, string) error
	// Step moves the value one notch up (dir > 0) or down inside the form range.
	Step func(*model.Settings, int)
}

var waterIntervalOptions = []int{30, 45, 60, 90}

func Fields() []Field {
	return []Field{
		{
			Key:   "screen-limit",
			Label: "Daily screen time limit (hours)",
			Get:   func(s model.Settings) string { return strconv.FormatFloat(s.ScreenTimeLimitHours, 'f', -1, 64) },
			Set: func(s *model.Settings, raw string) error {
				v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
				if err != nil {
					return fmt.Errorf("%w: screen-limit expects hours, got %q", model.ErrInvalidSetting, raw)
				}
				s.ScreenTimeLimitHours = v
				return nil
			},
			Step: func(s *model.Settings, dir int) {
				s.ScreenTimeLimitHours = clampFloat(s.ScreenTimeLimitHours+0.5*float64(sign(dir)), 1, 12)
			},
		},
		intField("break-interval", "Break interval (minutes)",
			func(s *model.Settings) *int { return &s.BreakIntervalMin }, 5, 15, 60),
		intField("break-duration", "Break duration (minutes)",
			func(s *model.Settings) *int { return &s.BreakDurationMin }, 1, 1, 15),
		intField("break-goal", "Breaks per day",
			func(s *model.Settings) *int { return &s.BreakGoalCount }, 1, 1, 20),
		{
			Key:   "break-delay",
			Label: "Early break window (minutes)",
			Get:   func(s model.Settings) string { return strconv.Itoa(s.BreakStartDelayMin) },
			Set:   intSetter("break-delay", func(s *model.Settings) *int { return &s.BreakStartDelayMin }),
			Step: func(s *model.Settings, dir int) {
				s.BreakStartDelayMin = clampInt(s.BreakStartDelayMin+sign(dir), 0, s.BreakIntervalMin)
			},
		},
		intField("water-goal", "Water goal (glasses)",
			func(s *model.Settings) *int { return &s.WaterGoalGlasses }, 1, 4, 12),
		{
			Key:   "water-interval",
			Label: "Water reminder (minutes)",
			Get:   func(s model.Settings) string { return strconv.Itoa(s.WaterReminderIntervalMin) },
			Set:   intSetter("water-interval", func(s *model.Settings) *int { return &s.WaterReminderIntervalMin }),
			Step: func(s *model.Settings, dir int) {
				s.WaterReminderIntervalMin = nextOption(waterIntervalOptions, s.WaterReminderIntervalMin, dir)
			},
		},
		boolField("notifications", "Notifications", func(s *model.Settings) *bool { return &s.NotificationsEnabled }),
		boolField("sound", "Sound", func(s *model.Settings) *bool { return &s.SoundEnabled }),
		{
			Key:   "theme",
			Label: "Theme",
			Get:   func(s model.Settings) string { return string(s.Theme) },
			Set: func(s *model.Settings, raw string) error {
				theme := model.Theme(strings.ToLower(strings.TrimSpace(raw)))
				if !theme.IsValid() {
					return fmt.Errorf("%w: theme must be light, dark or system", model.ErrInvalidSetting)
				}
				s.Theme = theme
				return nil
			},
			Step: func(s *model.Settings, dir int) {
				themes := []model.Theme{model.ThemeLight, model.ThemeDark, model.ThemeSystem}
				idx := 0
				for i, th := range themes {
					if th == s.Theme {
						idx = i
					}
				}
				idx = (idx + sign(dir) + len(themes)) % len(themes)
				s.Theme = themes[idx]
			},
		},
		boolField("accessibility", "Accessibility mode", func(s *model.Settings) *bool { return &s.AccessibilityMode }),
	}
}

func FieldByKey(key string) (Field, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, f := range Fields() {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

func FieldKeys() []string {
	fields := Fields()
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Key)
	}
	return out
}

func intField(key, label string, ptr func(*model.Settings) *int, step, lo, hi int) Field {
	return Field{
		Key:   key,
		Label: label,
		Get: func(s model.Settings) string {
			return strconv.Itoa(*ptr(&s))
		},
		Set: intSetter(key, ptr),
		Step: func(s *model.Settings, dir int) {
			v := ptr(s)
			*v = clampInt(*v+step*sign(dir), lo, hi)
		},
	}
}

func intSetter(key string, ptr func(*model.Settings) *int) func(*model.Settings, string) error {
	return func(s *model.Settings, raw string) error {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%w: %s expects a whole number, got %q", model.ErrInvalidSetting, key, raw)
		}
		*ptr(s) = v
		return nil
	}
}

func boolField(key, label string, ptr func(*model.Settings) *bool) Field {
	return Field{
		Key:   key,
		Label: label,
		Get: func(s model.Settings) string {
			if *ptr(&s) {
				return "on"
			}
			return "off"
		},
		Set: func(s *model.Settings, raw string) error {
			switch strings.ToLower(strings.TrimSpace(raw)) {
			case "on", "true", "yes", "1":
				*ptr(s) = true
			case "off", "false", "no", "0":
				*ptr(s) = false
			default:
				return fmt.Errorf("%w: %s expects on or off, got %q", model.ErrInvalidSetting, key, raw)
			}
			return nil
		},
		Step: func(s *model.Settings, _ int) {
			v := ptr(s)
			*v = !*v
		},
	}
}

func nextOption(options []int, current, dir int) int {
	idx := -1
	for i, v := range options {
		if v == current {
			idx = i
		}
	}
	if idx < 0 {
		for i, v := range options {
			if v > current {
				return options[i]
			}
		}
		return options[len(options)-1]
	}
	return options[clampInt(idx+sign(dir), 0, len(options)-1)]
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
