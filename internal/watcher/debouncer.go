// Package watcher provides debouncing and signal-file watching.
package watcher

import (
	"sync"
	"time"
)

// DefaultWindow is the quiet period used when none is given.
const DefaultWindow = 500 * time.Millisecond

// Debouncer runs one callback after a quiet period. Each Trigger restarts
// the period, so a burst of triggers yields a single call one window after
// the last of them. Once stopped, a Debouncer never fires again.
type Debouncer struct {
	window time.Duration
	fn     func()

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// NewDebouncer returns a Debouncer that calls fn. A non-positive window
// means DefaultWindow.
func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{window: window, fn: fn}
}

// Trigger (re)starts the quiet period. It is a no-op after Stop.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.window, func() { d.fire(seq) })
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	// A timer that already fired cannot be stopped, so stale ones check seq.
	if d.stopped || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	if d.fn != nil {
		d.fn()
	}
}

// Stop drops any pending call and disables the Debouncer. Safe to call
// more than once and from any goroutine.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Window returns the quiet period.
func (d *Debouncer) Window() time.Duration {
	return d.window
}
