package timer

import (
	"testing"

	"github.com/sandeepkv93/wellnessd/internal/model"
)

func tickBreaks(s model.BreakCycleState, cfg model.Settings, n int) (model.BreakCycleState, []Event) {
	var all []Event
	for i := 0; i < n; i++ {
		var events []Event
		s, events = AdvanceBreaks(s, cfg, 1)
		all = append(all, events...)
	}
	return s, all
}

func TestBreakCycleAutoTransitionAfterInterval(t *testing.T) {
	cfg := model.DefaultSettings()
	s := StartBreaks(NewBreakCycle())

	s, _ = tickBreaks(s, cfg, 1499)
	if s.Phase != model.PhaseWorking || s.ElapsedInPhase != 1499 {
		t.Fatalf("expected still working at 1499, got %+v", s)
	}
	s, events := tickBreaks(s, cfg, 1)
	if s.Phase != model.PhaseBreak || s.ElapsedInPhase != 0 {
		t.Fatalf("expected break at 1500, got %+v", s)
	}
	if len(events) != 1 || events[0].Title != "Time for a break" {
		t.Fatalf("expected break notice, got %+v", events)
	}
}

func TestBreakCycleIgnoresTicksUntilStarted(t *testing.T) {
	s, events := AdvanceBreaks(NewBreakCycle(), model.DefaultSettings(), 100)
	if s.Started || s.ElapsedInPhase != 0 || len(events) != 0 {
		t.Fatalf("expected dormant cycle, got %+v %+v", s, events)
	}
}

func TestBreakNowOutsideWindowIsNoop(t *testing.T) {
	cfg := model.DefaultSettings()
	cfg.BreakStartDelayMin = 2
	s := StartBreaks(NewBreakCycle())
	s, _ = tickBreaks(s, cfg, 60)

	next, events, ok := BreakNow(s, cfg)
	if ok || len(events) != 0 {
		t.Fatalf("expected breakNow refused, got ok=%v events=%+v", ok, events)
	}
	if next != s {
		t.Fatalf("expected unchanged state, got %+v", next)
	}
}

func TestBreakNowInsideWindowIncrementsOnce(t *testing.T) {
	cfg := model.DefaultSettings()
	cfg.BreakStartDelayMin = 2
	s := StartBreaks(NewBreakCycle())
	s, _ = tickBreaks(s, cfg, 1500-120)

	next, events, ok := BreakNow(s, cfg)
	if !ok {
		t.Fatal("expected breakNow allowed at the edge of the window")
	}
	if next.Phase != model.PhaseBreak || next.ElapsedInPhase != 0 || next.BreaksTaken != s.BreaksTaken+1 {
		t.Fatalf("unexpected state after breakNow: %+v", next)
	}
	if len(events) != 1 || events[0].Title != "Active break started" {
		t.Fatalf("expected break started notice, got %+v", events)
	}

	again, _, ok := BreakNow(next, cfg)
	if ok || again.BreaksTaken != next.BreaksTaken {
		t.Fatalf("breakNow during a break must be a no-op, got %+v", again)
	}
}

func TestBreakNowRespectsNotificationsToggle(t *testing.T) {
	cfg := model.DefaultSettings()
	cfg.NotificationsEnabled = false
	cfg.BreakStartDelayMin = cfg.BreakIntervalMin
	s := StartBreaks(NewBreakCycle())
	_, events, ok := BreakNow(s, cfg)
	if !ok || len(events) != 0 {
		t.Fatalf("expected silent break, got ok=%v events=%+v", ok, events)
	}
}

func TestCancelBreakKeepsCount(t *testing.T) {
	cfg := model.DefaultSettings()
	cfg.BreakStartDelayMin = cfg.BreakIntervalMin
	s, _, _ := BreakNow(StartBreaks(NewBreakCycle()), cfg)
	s, _ = tickBreaks(s, cfg, 30)

	next, ok := CancelBreak(s)
	if !ok || next.Phase != model.PhaseWorking || next.ElapsedInPhase != 0 || next.BreaksTaken != 1 {
		t.Fatalf("unexpected state after cancel: ok=%v %+v", ok, next)
	}
	if _, ok := CancelBreak(next); ok {
		t.Fatal("cancel while working must be refused")
	}
}

func TestBreakRemainingRecomputedOnIntervalChange(t *testing.T) {
	cfg := model.DefaultSettings()
	s := StartBreaks(NewBreakCycle())
	s, _ = tickBreaks(s, cfg, 1000)
	if BreakRemaining(s, cfg) != 500 {
		t.Fatalf("expected 500 remaining, got %d", BreakRemaining(s, cfg))
	}

	cfg.BreakIntervalMin = 30
	if got := BreakRemaining(s, cfg); got != 800 {
		t.Fatalf("expected 800 remaining after reconfiguration, got %d", got)
	}
	if s.ElapsedInPhase != 1000 {
		t.Fatalf("elapsed must be preserved, got %d", s.ElapsedInPhase)
	}
}

func TestBreakRemainingClampsWhenIntervalShrinks(t *testing.T) {
	cfg := model.DefaultSettings()
	s := StartBreaks(NewBreakCycle())
	s, _ = tickBreaks(s, cfg, 1000)
	cfg.BreakIntervalMin = 15
	if BreakRemaining(s, cfg) != 0 {
		t.Fatalf("expected clamped remaining, got %d", BreakRemaining(s, cfg))
	}
	s, _ = tickBreaks(s, cfg, 1)
	if s.Phase != model.PhaseBreak {
		t.Fatalf("expected break on next tick, got %+v", s)
	}
}

func TestBreakCycleEndToEnd(t *testing.T) {
	cfg := model.DefaultSettings()
	cfg.BreakIntervalMin = 1
	cfg.BreakDurationMin = 1
	cfg.BreakStartDelayMin = 0

	s := StartBreaks(NewBreakCycle())
	s, _ = tickBreaks(s, cfg, 60)
	if s.Phase != model.PhaseBreak || s.BreaksTaken != 1 || s.ElapsedInPhase != 0 {
		t.Fatalf("after 60 ticks: %+v", s)
	}
	s, _ = tickBreaks(s, cfg, 60)
	if s.Phase != model.PhaseWorking || s.ElapsedInPhase != 0 {
		t.Fatalf("after 120 ticks: %+v", s)
	}
}

func TestAdvanceBreaksMultiSecondMatchesSingleTicks(t *testing.T) {
	cfg := model.DefaultSettings()
	cfg.BreakIntervalMin = 1
	cfg.BreakDurationMin = 1
	start := StartBreaks(NewBreakCycle())

	bulk, bulkEvents := AdvanceBreaks(start, cfg, 150)
	single, singleEvents := tickBreaks(start, cfg, 150)
	if bulk != single || len(bulkEvents) != len(singleEvents) {
		t.Fatalf("bulk %+v/%d differs from single %+v/%d", bulk, len(bulkEvents), single, len(singleEvents))
	}
}

func TestStopBreaksKeepsCount(t *testing.T) {
	cfg := model.DefaultSettings()
	cfg.BreakStartDelayMin = cfg.BreakIntervalMin
	s, _, _ := BreakNow(StartBreaks(NewBreakCycle()), cfg)
	s = StopBreaks(s)
	if s.Started || s.Phase != model.PhaseNotStarted || s.BreaksTaken != 1 {
		t.Fatalf("unexpected stopped state %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("stopped state should validate: %v", err)
	}
}

func TestBreakProgressIsRemainingRatio(t *testing.T) {
	cfg := model.DefaultSettings()
	s := StartBreaks(NewBreakCycle())
	s, _ = tickBreaks(s, cfg, 375)
	if got := BreakProgress(s, cfg); got != 0.75 {
		t.Fatalf("expected 0.75 remaining ratio, got %v", got)
	}
}
