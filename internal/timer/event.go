package timer

import "github.com/sandeepkv93/wellnessd/internal/notify"

type EventKind string

const (
	EventNotice EventKind = "notice"
	// EventBanner asks the presentation layer to show the hydration banner.
	EventBanner EventKind = "banner"
)

type Event struct {
	Kind     EventKind
	Title    string
	Message  string
	Severity notify.Severity
}

func notice(title, message string, severity notify.Severity) Event {
	return Event{Kind: EventNotice, Title: title, Message: message, Severity: severity}
}

func clampFraction(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
