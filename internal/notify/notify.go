package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DisplayDuration = 4 * time.Second
	HistoryLimit    = 50
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeveritySuccess, SeverityInfo, SeverityWarning, SeverityError:
		return true
	default:
		return false
	}
}

type Event struct {
	Title    string
	Message  string
	Severity Severity
}

type Notification struct {
	ID        string
	Title     string
	Message   string
	Severity  Severity
	Read      bool
	CreatedAt time.Time
	DismissAt time.Time
}

// Dispatcher keeps the in-app notification history, the visible toasts and the
// unread count. It mirrors events to the platform when permission allows.
type Dispatcher struct {
	mu       sync.Mutex
	history  []Notification
	visible  []string
	platform Platform
	now      func() time.Time
	display  time.Duration
	sound    bool
	logger   *slog.Logger
}

type Option func(*Dispatcher)

func WithPlatform(p Platform) Option {
	return func(d *Dispatcher) {
		if p != nil {
			d.platform = p
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

func WithDisplayDuration(v time.Duration) Option {
	return func(d *Dispatcher) {
		if v > 0 {
			d.display = v
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		platform: NoopPlatform{},
		now:      time.Now,
		display:  DisplayDuration,
		sound:    true,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) SetSound(enabled bool) {
	d.mu.Lock()
	d.sound = enabled
	d.mu.Unlock()
}

// Notify records ev, makes it visible for the display duration and mirrors it
// to the platform. Platform failures never fail the call.
func (d *Dispatcher) Notify(ev Event) Notification {
	if !ev.Severity.IsValid() {
		ev.Severity = SeverityInfo
	}
	now := d.now()

	d.mu.Lock()
	n := Notification{
		ID:        uuid.NewString(),
		Title:     ev.Title,
		Message:   ev.Message,
		Severity:  ev.Severity,
		CreatedAt: now,
		DismissAt: now.Add(d.display),
	}
	d.history = append([]Notification{n}, d.history...)
	if len(d.history) > HistoryLimit {
		d.history = d.history[:HistoryLimit]
	}
	d.visible = append(d.visible, n.ID)
	sound := d.sound
	d.mu.Unlock()

	d.mirror(n, sound)
	return n
}

func (d *Dispatcher) mirror(n Notification, sound bool) {
	perm := d.platform.Permission()
	if perm == PermissionDefault {
		var err error
		perm, err = d.platform.RequestPermission()
		if err != nil {
			d.logger.Warn("notification permission request failed", "error", err)
			return
		}
	}
	if perm != PermissionGranted {
		return
	}
	if err := d.platform.Show(n.Title, n.Message, sound); err != nil {
		d.logger.Warn("platform notification failed", "title", n.Title, "error", err)
	}
}

// Dismiss hides a visible notification and marks it read.
func (d *Dispatcher) Dismiss(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := -1
	for i, v := range d.visible {
		if v == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	d.visible = append(d.visible[:idx], d.visible[idx+1:]...)
	d.markReadLocked(id)
	return true
}

// Expire dismisses every visible notification whose display window ended.
func (d *Dispatcher) Expire(now time.Time) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var expired []string
	kept := d.visible[:0]
	for _, id := range d.visible {
		n, ok := d.findLocked(id)
		if !ok || !now.Before(n.DismissAt) {
			expired = append(expired, id)
			d.markReadLocked(id)
			continue
		}
		kept = append(kept, id)
	}
	d.visible = kept
	return expired
}

func (d *Dispatcher) MarkRead(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.markReadLocked(id)
}

func (d *Dispatcher) MarkAllRead() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.history {
		d.history[i].Read = true
	}
}

func (d *Dispatcher) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, n := range d.history {
		if n.ID == id {
			d.history = append(d.history[:i], d.history[i+1:]...)
			for j, v := range d.visible {
				if v == id {
					d.visible = append(d.visible[:j], d.visible[j+1:]...)
					break
				}
			}
			return true
		}
	}
	return false
}

func (d *Dispatcher) UnreadCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	count := 0
	for _, n := range d.history {
		if !n.Read {
			count++
		}
	}
	return count
}

// History returns notifications newest first.
func (d *Dispatcher) History() []Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Notification, len(d.history))
	copy(out, d.history)
	return out
}

// Visible returns the toasts currently on screen, oldest first.
func (d *Dispatcher) Visible() []Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Notification, 0, len(d.visible))
	for _, id := range d.visible {
		if n, ok := d.findLocked(id); ok {
			out = append(out, n)
		}
	}
	return out
}

func (d *Dispatcher) findLocked(id string) (Notification, bool) {
	for _, n := range d.history {
		if n.ID == id {
			return n, true
		}
	}
	return Notification{}, false
}

func (d *Dispatcher) markReadLocked(id string) bool {
	for i := range d.history {
		if d.history[i].ID == id {
			d.history[i].Read = true
			return true
		}
	}
	return false
}
