package scheduler

import (
	"fmt"
	"testing"
	"time"
)

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(Event{ID: "later", TriggerAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(Event{ID: "sooner", TriggerAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.ID != "sooner" || second.ID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.ID, second.ID)
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(Event{
			ID:        fmt.Sprintf("toast.dismiss:%d", i),
			Kind:      KindToastDismiss,
			TriggerAt: now,
		}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidatesTriggerTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(Event{ID: "bad"}); err != ErrInvalidTriggerTime {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
}

func TestScheduleReplacesPendingEventWithSameID(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	id := EventID(KindBannerHide, "hydration")
	if err := engine.Schedule(Event{ID: id, Kind: KindBannerHide, Ref: "hydration", TriggerAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule first: %v", err)
	}
	if err := engine.Schedule(Event{ID: id, Kind: KindBannerHide, Ref: "hydration", TriggerAt: now.Add(150 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule second: %v", err)
	}
	if got := engine.Pending(); got != 1 {
		t.Fatalf("expected one pending event, got %d", got)
	}

	select {
	case ev := <-engine.C():
		t.Fatalf("expected replaced event to wait, got %s early", ev.ID)
	case <-time.After(80 * time.Millisecond):
	}
	ev := waitEvent(t, engine.C(), time.Second)
	if ev.ID != id {
		t.Fatalf("unexpected event %s", ev.ID)
	}
}

func TestCancelRemovesPendingEvent(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	for _, ref := range []string{"a", "b", "c"} {
		if err := engine.Schedule(Event{ID: EventID(KindToastDismiss, ref), Kind: KindToastDismiss, Ref: ref, TriggerAt: now.Add(30 * time.Millisecond)}); err != nil {
			t.Fatalf("schedule %s: %v", ref, err)
		}
	}
	if !engine.Cancel(EventID(KindToastDismiss, "b")) {
		t.Fatalf("expected cancel to find the event")
	}
	if engine.Cancel(EventID(KindToastDismiss, "b")) {
		t.Fatalf("expected second cancel to miss")
	}

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		seen[waitEvent(t, engine.C(), time.Second).Ref] = true
	}
	if !seen["a"] || !seen["c"] || seen["b"] {
		t.Fatalf("unexpected delivered refs: %v", seen)
	}
}

func TestAfterSchedulesKindAndRef(t *testing.T) {
	engine := NewEngine(4)
	engine.Start()
	defer engine.Stop()

	if err := engine.After(KindBannerHide, "hydration", 10*time.Millisecond); err != nil {
		t.Fatalf("after: %v", err)
	}
	ev := waitEvent(t, engine.C(), time.Second)
	if ev.Kind != KindBannerHide || ev.Ref != "hydration" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if engine.Pending() != 0 {
		t.Fatalf("expected empty queue, got %d", engine.Pending())
	}
}

func TestScheduleAfterStopFails(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	err := engine.Schedule(Event{ID: "late", TriggerAt: time.Now().UTC()})
	if err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if _, ok := <-engine.C(); ok {
		t.Fatal("expected output channel closed after stop")
	}
}

func waitEvent(t *testing.T, ch <-chan Event, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return Event{}
	}
}
