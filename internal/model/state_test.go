package model

import "testing"

func TestHourLabel(t *testing.T) {
	cases := map[int]string{0: "12AM", 9: "9AM", 12: "12PM", 14: "2PM", 18: "6PM", 23: "11PM"}
	for hour, want := range cases {
		if got := HourLabel(hour); got != want {
			t.Fatalf("HourLabel(%d) = %q, want %q", hour, got, want)
		}
	}
}

func TestBreakCycleStateValidate(t *testing.T) {
	ok := BreakCycleState{Phase: PhaseWorking, Started: true}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid state, got %v", err)
	}
	bad := BreakCycleState{Phase: PhaseNotStarted, Started: true}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for started cycle in not_started phase")
	}
	if err := (BreakCycleState{Phase: "lunch", Started: true}).Validate(); err == nil {
		t.Fatal("expected error for unknown phase")
	}
}

func TestHourBucketMinutes(t *testing.T) {
	b := HourBucket{Hour: 10, Label: "10AM", Seconds: 119}
	if b.Minutes() != 1 {
		t.Fatalf("expected 1 minute, got %d", b.Minutes())
	}
}
