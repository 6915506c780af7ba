package settings

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/wellnessd/internal/model"
)

func TestFieldSetParsesValues(t *testing.T) {
	s := model.DefaultSettings()
	for key, raw := range map[string]string{
		"screen-limit":   "6.5",
		"break-interval": "30",
		"water-interval": "60",
		"notifications":  "off",
		"theme":          "Dark",
	} {
		f, ok := FieldByKey(key)
		if !ok {
			t.Fatalf("missing field %s", key)
		}
		if err := f.Set(&s, raw); err != nil {
			t.Fatalf("set %s=%s: %v", key, raw, err)
		}
	}
	if s.ScreenTimeLimitHours != 6.5 || s.BreakIntervalMin != 30 || s.WaterReminderIntervalMin != 60 {
		t.Fatalf("unexpected numeric values %+v", s)
	}
	if s.NotificationsEnabled || s.Theme != model.ThemeDark {
		t.Fatalf("unexpected toggles %+v", s)
	}
}

func TestFieldSetRejectsGarbage(t *testing.T) {
	s := model.DefaultSettings()
	f, _ := FieldByKey("break-duration")
	if err := f.Set(&s, "five"); !errors.Is(err, model.ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
	f, _ = FieldByKey("sound")
	if err := f.Set(&s, "maybe"); !errors.Is(err, model.ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
}

func TestFieldStepStaysInFormRange(t *testing.T) {
	s := model.DefaultSettings()
	interval, _ := FieldByKey("break-interval")
	for i := 0; i < 20; i++ {
		interval.Step(&s, 1)
	}
	if s.BreakIntervalMin != 60 {
		t.Fatalf("expected interval capped at 60, got %d", s.BreakIntervalMin)
	}

	limit, _ := FieldByKey("screen-limit")
	limit.Step(&s, -1)
	if s.ScreenTimeLimitHours != 7.5 {
		t.Fatalf("expected half hour step, got %v", s.ScreenTimeLimitHours)
	}

	water, _ := FieldByKey("water-interval")
	water.Step(&s, 1)
	if s.WaterReminderIntervalMin != 60 {
		t.Fatalf("expected next option 60, got %d", s.WaterReminderIntervalMin)
	}
	water.Step(&s, 1)
	water.Step(&s, 1)
	if s.WaterReminderIntervalMin != 90 {
		t.Fatalf("expected last option 90, got %d", s.WaterReminderIntervalMin)
	}

	delay, _ := FieldByKey("break-delay")
	s.BreakIntervalMin = 15
	s.BreakStartDelayMin = 15
	delay.Step(&s, 1)
	if s.BreakStartDelayMin != 15 {
		t.Fatalf("delay must not exceed interval, got %d", s.BreakStartDelayMin)
	}
}

func TestFieldKeysUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range FieldKeys() {
		if seen[k] {
			t.Fatalf("duplicate field key %s", k)
		}
		seen[k] = true
	}
	if len(seen) != 11 {
		t.Fatalf("expected 11 fields, got %d", len(seen))
	}
}
