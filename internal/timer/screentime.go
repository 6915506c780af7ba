package timer

import (
	"time"

	"github.com/sandeepkv93/wellnessd/internal/model"
)

const WindowSize = 10

func NewScreenTime(now time.Time) model.ScreenTimeState {
	return model.ScreenTimeState{
		Day:     model.DayKey(now),
		History: SlideWindow(nil, now),
	}
}

func StartScreen(s model.ScreenTimeState) model.ScreenTimeState {
	s.Running = true
	return s
}

func PauseScreen(s model.ScreenTimeState) model.ScreenTimeState {
	s.Running = false
	return s
}

func ResetScreen(s model.ScreenTimeState, now time.Time) model.ScreenTimeState {
	return model.ScreenTimeState{
		Day:     model.DayKey(now),
		History: SlideWindow(nil, now),
	}
}

// AdvanceScreen applies seconds of tracked time to the bucket for now's hour.
// A paused tracker is returned unchanged.
func AdvanceScreen(s model.ScreenTimeState, now time.Time, seconds int) model.ScreenTimeState {
	if !s.Running || seconds <= 0 {
		return s
	}
	s.ElapsedSeconds += seconds

	hour := now.Hour()
	idx := bucketIndex(s.History, hour)
	if idx < 0 {
		s.History = SlideWindow(s.History, now)
		idx = bucketIndex(s.History, hour)
	}
	history := make([]model.HourBucket, len(s.History))
	copy(history, s.History)
	history[idx].Seconds += seconds
	s.History = history
	return s
}

func ScreenRemaining(s model.ScreenTimeState, cfg model.Settings) int {
	remaining := cfg.ScreenTimeLimitSeconds() - s.ElapsedSeconds
	if remaining < 0 {
		return 0
	}
	return remaining
}

func ScreenProgress(s model.ScreenTimeState, cfg model.Settings) float64 {
	limit := cfg.ScreenTimeLimitSeconds()
	if limit <= 0 {
		return 0
	}
	return clampFraction(float64(s.ElapsedSeconds) / float64(limit))
}

// SlideWindow returns the ten hour buckets centered on now's hour, kept inside
// the day. Seconds recorded for hours still in the window are carried over.
func SlideWindow(history []model.HourBucket, now time.Time) []model.HourBucket {
	start := windowStart(now.Hour())
	out := make([]model.HourBucket, WindowSize)
	for i := range out {
		hour := start + i
		out[i] = model.HourBucket{Hour: hour, Label: model.HourLabel(hour)}
		if idx := bucketIndex(history, hour); idx >= 0 {
			out[i].Seconds = history[idx].Seconds
		}
	}
	return out
}

func windowStart(hour int) int {
	start := hour - WindowSize/2
	if start < 0 {
		start = 0
	}
	if start > 24-WindowSize {
		start = 24 - WindowSize
	}
	return start
}

func bucketIndex(history []model.HourBucket, hour int) int {
	for i, b := range history {
		if b.Hour == hour {
			return i
		}
	}
	return -1
}
