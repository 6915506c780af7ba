package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

type Kind string

const (
	KindToastDismiss Kind = "toast.dismiss"
	KindBannerHide   Kind = "banner.hide"
)

// Event is a one-shot expiry. Ref names the toast or banner it belongs to.
type Event struct {
	ID        string
	Kind      Kind
	Ref       string
	TriggerAt time.Time
}

type queueItem struct {
	event Event
	index int
}

// expiryQueue is a min-heap on TriggerAt that also tracks each event's heap
// position by ID so a pending expiry can be replaced or cancelled.
type expiryQueue struct {
	items []*queueItem
	byID  map[string]*queueItem
}

func newExpiryQueue() *expiryQueue {
	return &expiryQueue{byID: make(map[string]*queueItem)}
}

func (q *expiryQueue) Len() int { return len(q.items) }

func (q *expiryQueue) Less(i, j int) bool {
	return q.items[i].event.TriggerAt.Before(q.items[j].event.TriggerAt)
}

func (q *expiryQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}

func (q *expiryQueue) Push(x any) {
	item := x.(*queueItem)
	item.index = len(q.items)
	q.items = append(q.items, item)
	q.byID[item.event.ID] = item
}

func (q *expiryQueue) Pop() any {
	n := len(q.items)
	item := q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]
	delete(q.byID, item.event.ID)
	return item
}

func (q *expiryQueue) upsert(ev Event) {
	if item, ok := q.byID[ev.ID]; ok {
		item.event = ev
		heap.Fix(q, item.index)
		return
	}
	heap.Push(q, &queueItem{event: ev})
}

func (q *expiryQueue) remove(id string) bool {
	item, ok := q.byID[id]
	if !ok {
		return false
	}
	heap.Remove(q, item.index)
	return true
}

func (q *expiryQueue) peek() (Event, bool) {
	if len(q.items) == 0 {
		return Event{}, false
	}
	return q.items[0].event, true
}

type Engine struct {
	mu      sync.Mutex
	queue   *expiryQueue
	out     chan Event
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  newExpiryQueue(),
		out:    make(chan Event, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan Event {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule queues ev. A pending event with the same ID is replaced, so
// showing a toast or banner again pushes its expiry out instead of stacking
// a second one.
func (e *Engine) Schedule(ev Event) error {
	if ev.TriggerAt.IsZero() {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	e.queue.upsert(ev)
	e.signalWakeup()
	return nil
}

// Cancel drops a pending event. It reports whether one was queued.
func (e *Engine) Cancel(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.queue.remove(id) {
		return false
	}
	e.signalWakeup()
	return true
}

// After schedules an event d from now.
func (e *Engine) After(kind Kind, ref string, d time.Duration) error {
	return e.Schedule(Event{ID: EventID(kind, ref), Kind: kind, Ref: ref, TriggerAt: time.Now().UTC().Add(d)})
}

func EventID(kind Kind, ref string) string {
	return string(kind) + ":" + ref
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.Len()
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.TriggerAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now().UTC())
			for _, ev := range due {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queue.peek()
}

func (e *Engine) popDue(now time.Time) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Event, 0)
	for {
		next, ok := e.queue.peek()
		if !ok || next.TriggerAt.After(now) {
			break
		}
		item := heap.Pop(e.queue).(*queueItem)
		out = append(out, item.event)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
