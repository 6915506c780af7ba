package timer

import (
	"testing"

	"github.com/sandeepkv93/wellnessd/internal/model"
)

func TestRecordGlassStartsCycle(t *testing.T) {
	cfg := model.DefaultSettings()
	s, events, ok := RecordGlass(NewHydration(), cfg)
	if !ok || s.Glasses != 1 || s.Elapsed == nil || *s.Elapsed != 0 {
		t.Fatalf("unexpected state after first glass: ok=%v %+v", ok, s)
	}
	if len(events) != 1 || events[0].Title != "Nice work!" {
		t.Fatalf("expected glass notice, got %+v", events)
	}
}

func TestRecordGlassUpToGoalStopsCycle(t *testing.T) {
	cfg := model.DefaultSettings()
	s := NewHydration()
	for i := 0; i < cfg.WaterGoalGlasses; i++ {
		var ok bool
		s, _, ok = RecordGlass(s, cfg)
		if !ok {
			t.Fatalf("glass %d refused", i+1)
		}
	}
	if s.Elapsed != nil {
		t.Fatalf("expected dormant cycle at goal, got elapsed %d", *s.Elapsed)
	}
	next, events, ok := RecordGlass(s, cfg)
	if ok || len(events) != 0 || next.Glasses != cfg.WaterGoalGlasses {
		t.Fatalf("expected no-op past goal, got ok=%v %+v", ok, next)
	}
}

func TestAdvanceHydrationFiresAndKeepsRunning(t *testing.T) {
	cfg := model.DefaultSettings()
	cfg.WaterReminderIntervalMin = 1
	s, _, _ := RecordGlass(NewHydration(), cfg)

	s, events := AdvanceHydration(s, cfg, 59)
	if len(events) != 0 || *s.Elapsed != 59 {
		t.Fatalf("unexpected early reminder: %+v elapsed=%d", events, *s.Elapsed)
	}
	s, events = AdvanceHydration(s, cfg, 1)
	if *s.Elapsed != 0 {
		t.Fatalf("expected elapsed reset after reminder, got %d", *s.Elapsed)
	}
	var notices, banners int
	for _, ev := range events {
		switch ev.Kind {
		case EventNotice:
			notices++
		case EventBanner:
			banners++
		}
	}
	if notices != 1 || banners != 1 {
		t.Fatalf("expected one notice and one banner, got %+v", events)
	}

	s, _ = AdvanceHydration(s, cfg, 10)
	if s.Elapsed == nil || *s.Elapsed != 10 {
		t.Fatal("cycle must keep running after a reminder")
	}
}

func TestAdvanceHydrationBannerIgnoresNotificationToggle(t *testing.T) {
	cfg := model.DefaultSettings()
	cfg.WaterReminderIntervalMin = 1
	cfg.NotificationsEnabled = false
	s, events, _ := RecordGlass(NewHydration(), cfg)
	if len(events) != 0 {
		t.Fatalf("expected no notices when disabled, got %+v", events)
	}
	_, events = AdvanceHydration(s, cfg, 60)
	if len(events) != 1 || events[0].Kind != EventBanner {
		t.Fatalf("expected only the banner, got %+v", events)
	}
}

func TestAdvanceHydrationDormantDoesNothing(t *testing.T) {
	s, events := AdvanceHydration(NewHydration(), model.DefaultSettings(), 5000)
	if s.Elapsed != nil || len(events) != 0 {
		t.Fatalf("dormant cycle must not tick: %+v %+v", s, events)
	}
}

func TestHydrationGoalLoweredStopsCycle(t *testing.T) {
	cfg := model.DefaultSettings()
	s := NewHydration()
	for i := 0; i < 3; i++ {
		s, _, _ = RecordGlass(s, cfg)
	}
	cfg.WaterGoalGlasses = 3
	if got := ReconcileHydration(s, cfg); got.Elapsed != nil {
		t.Fatal("expected reconcile to stop the cycle")
	}
	if got, _ := AdvanceHydration(s, cfg, 1); got.Elapsed != nil {
		t.Fatal("expected tick to stop the cycle")
	}
}

func TestHydrationRemainingFollowsInterval(t *testing.T) {
	cfg := model.DefaultSettings()
	s, _, _ := RecordGlass(NewHydration(), cfg)
	s, _ = AdvanceHydration(s, cfg, 600)
	if HydrationRemaining(s, cfg) != 45*60-600 {
		t.Fatalf("unexpected remaining %d", HydrationRemaining(s, cfg))
	}
	cfg.WaterReminderIntervalMin = 30
	if HydrationRemaining(s, cfg) != 30*60-600 {
		t.Fatalf("unexpected remaining after change %d", HydrationRemaining(s, cfg))
	}
	if *s.Elapsed != 600 {
		t.Fatalf("elapsed must be preserved, got %d", *s.Elapsed)
	}
}

func TestRecordGlassDoesNotAliasPreviousState(t *testing.T) {
	cfg := model.DefaultSettings()
	first, _, _ := RecordGlass(NewHydration(), cfg)
	ticked, _ := AdvanceHydration(first, cfg, 5)
	if *first.Elapsed != 0 || *ticked.Elapsed != 5 {
		t.Fatalf("states share elapsed storage: %d %d", *first.Elapsed, *ticked.Elapsed)
	}
}
