package events

import (
	"container/ring"
	"sync"
	"sync/atomic"
	"time"
)

// Named events raised through a Dispatcher.
const (
	// AcademicStatusUpdated asks status pollers for a (debounced) refresh.
	AcademicStatusUpdated = "academic-status-updated"
	// SchoolCreated is raised after the onboarding form creates a school.
	SchoolCreated = "school-created"
	// Wildcard subscribes to every event.
	Wildcard = "*"
)

// Event is a named notification with an optional source and detail.
type Event struct {
	Name      string    `json:"name"`
	Source    string    `json:"source,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(name, source string) Event {
	return Event{Name: name, Source: source, Timestamp: time.Now().UTC()}
}

// EventHandler is a callback for dispatcher subscriptions
type EventHandler func(Event)

type handlerEntry struct {
	id      uint64
	handler EventHandler
	removed atomic.Bool
}

// Dispatcher delivers named events to subscribers synchronously, in
// subscription order. It keeps a bounded history of dispatched events.
type Dispatcher struct {
	subscribers map[string][]*handlerEntry
	nextID      atomic.Uint64
	mu          sync.RWMutex
	history     *ring.Ring
	historySize int
	historyMu   sync.RWMutex
}

// NewDispatcher creates a dispatcher keeping up to historySize events.
func NewDispatcher(historySize int) *Dispatcher {
	if historySize < 1 {
		historySize = 50
	}
	return &Dispatcher{
		subscribers: make(map[string][]*handlerEntry),
		history:     ring.New(historySize),
		historySize: historySize,
	}
}

// Subscribe registers a handler for a named event. The returned function
// unsubscribes and is safe to call repeatedly.
func (d *Dispatcher) Subscribe(name string, handler EventHandler) UnsubscribeFunc {
	entry := &handlerEntry{id: d.nextID.Add(1), handler: handler}

	d.mu.Lock()
	d.subscribers[name] = append(d.subscribers[name], entry)
	d.mu.Unlock()

	return func() {
		if entry.removed.Swap(true) {
			return
		}
		d.mu.Lock()
		defer d.mu.Unlock()
		handlers := d.subscribers[name]
		for i, h := range handlers {
			if h.id == entry.id {
				d.subscribers[name] = append(handlers[:i:i], handlers[i+1:]...)
				return
			}
		}
	}
}

// Dispatch records the event and calls matching handlers, then wildcard
// handlers.
func (d *Dispatcher) Dispatch(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	d.historyMu.Lock()
	d.history.Value = event
	d.history = d.history.Next()
	d.historyMu.Unlock()

	d.mu.RLock()
	entries := make([]*handlerEntry, 0, len(d.subscribers[event.Name])+len(d.subscribers[Wildcard]))
	entries = append(entries, d.subscribers[event.Name]...)
	if event.Name != Wildcard {
		entries = append(entries, d.subscribers[Wildcard]...)
	}
	d.mu.RUnlock()

	for _, entry := range entries {
		if entry.removed.Load() {
			continue
		}
		entry.handler(event)
	}
}

// Raise is shorthand for Dispatch(NewEvent(name, source)).
func (d *Dispatcher) Raise(name, source string) {
	d.Dispatch(NewEvent(name, source))
}

// History returns recent events, newest first.
func (d *Dispatcher) History(limit int) []Event {
	if limit <= 0 || limit > d.historySize {
		limit = d.historySize
	}

	d.historyMu.RLock()
	defer d.historyMu.RUnlock()

	events := make([]Event, 0, limit)
	r := d.history.Prev()
	for i := 0; i < limit; i++ {
		if ev, ok := r.Value.(Event); ok {
			events = append(events, ev)
		}
		r = r.Prev()
	}
	return events
}

// SubscriberCount returns the number of subscribers for an event name.
func (d *Dispatcher) SubscriberCount(name string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers[name])
}
