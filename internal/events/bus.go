// Package events provides in-process pub/sub primitives used to decouple
// independent UI regions: typed command buses and a named-event dispatcher.
package events

import (
	"sync"
	"sync/atomic"
)

// Listener receives commands sent on a Bus.
type Listener[T any] func(T)

// UnsubscribeFunc removes a listener. Calling it more than once is a no-op.
type UnsubscribeFunc func()

// listenerEntry wraps a listener with a unique ID for safe unsubscription
type listenerEntry[T any] struct {
	id      uint64
	fn      Listener[T]
	removed atomic.Bool
}

// Bus is a synchronous publish/subscribe channel for a single command
// vocabulary. Send invokes every registered listener in registration order
// before returning.
type Bus[T any] struct {
	mu        sync.RWMutex
	listeners []*listenerEntry[T]
	nextID    atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus[T any]() *Bus[T] {
	return &Bus[T]{}
}

// On registers a listener and returns its unsubscribe function.
func (b *Bus[T]) On(fn Listener[T]) UnsubscribeFunc {
	entry := &listenerEntry[T]{id: b.nextID.Add(1), fn: fn}

	b.mu.Lock()
	b.listeners = append(b.listeners, entry)
	b.mu.Unlock()

	return func() {
		if entry.removed.Swap(true) {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.listeners {
			if e.id == entry.id {
				// Keep the remaining listeners in registration order
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Send delivers cmd to the listeners registered at the time of the call.
func (b *Bus[T]) Send(cmd T) {
	b.mu.RLock()
	snapshot := make([]*listenerEntry[T], len(b.listeners))
	copy(snapshot, b.listeners)
	b.mu.RUnlock()

	// Call listeners outside of lock so they may subscribe or unsubscribe
	for _, entry := range snapshot {
		if entry.removed.Load() {
			continue
		}
		entry.fn(cmd)
	}
}

// Len returns the number of registered listeners.
func (b *Bus[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
