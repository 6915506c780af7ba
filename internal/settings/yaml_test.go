package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/wellnessd/internal/model"
)

func TestExportImportYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	want := model.DefaultSettings()
	want.BreakIntervalMin = 50
	want.Theme = model.ThemeLight
	want.SoundEnabled = false

	if err := ExportYAML(path, want); err != nil {
		t.Fatalf("export: %v", err)
	}
	got, skipped, err := ImportYAML(path, model.DefaultSettings())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if got != want || len(skipped) != 0 {
		t.Fatalf("roundtrip mismatch got=%+v skipped=%v", got, skipped)
	}
}

func TestImportYAMLSkipsInvalidFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "break_interval_min: 0\nwater_goal_glasses: 10\ntheme: neon\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	base := model.DefaultSettings()
	got, skipped, err := ImportYAML(path, base)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if got.BreakIntervalMin != 25 || got.WaterGoalGlasses != 10 || got.Theme != model.ThemeSystem {
		t.Fatalf("unexpected import result %+v", got)
	}
	if len(skipped) != 2 {
		t.Fatalf("expected two skipped fields, got %v", skipped)
	}
}

func TestImportYAMLMissingFile(t *testing.T) {
	base := model.DefaultSettings()
	got, _, err := ImportYAML(filepath.Join(t.TempDir(), "nope.yaml"), base)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if got != base {
		t.Fatal("base must be returned on error")
	}
}
