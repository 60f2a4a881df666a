package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when operations are called on a closed SignalWatcher.
var ErrClosed = errors.New("watcher: watcher is closed")

// ErrorHandler is called when a watch error occurs.
type ErrorHandler func(err error)

// SignalWatcher calls a handler whenever a signal file is created, written
// or replaced. Other processes raise the signal by touching the file.
// Bursts of file events are coalesced by a Debouncer.
type SignalWatcher struct {
	path         string
	fsWatcher    *fsnotify.Watcher
	window       time.Duration
	debouncer    *Debouncer
	handler      func()
	errorHandler ErrorHandler

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// SignalOption configures a SignalWatcher.
type SignalOption func(*SignalWatcher)

// WithDebounceDuration sets the window used to coalesce file events.
func WithDebounceDuration(d time.Duration) SignalOption {
	return func(w *SignalWatcher) {
		if d > 0 {
			w.window = d
		}
	}
}

// WithErrorHandler sets the error handler.
func WithErrorHandler(handler ErrorHandler) SignalOption {
	return func(w *SignalWatcher) {
		w.errorHandler = handler
	}
}

// WatchSignal starts watching path. The parent directory is created if
// needed and watched instead of the file itself, so atomic replacements
// and first-time creation are both observed.
func WatchSignal(path string, handler func(), opts ...SignalOption) (*SignalWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving signal path: %w", err)
	}

	w := &SignalWatcher{
		path:    absPath,
		window:  50 * time.Millisecond,
		handler: handler,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.window, w.fire)

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating signal dir: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	w.fsWatcher = fsWatcher

	go w.run()
	return w, nil
}

// Path returns the absolute signal file path.
func (w *SignalWatcher) Path() string {
	return w.path
}

// Close stops the watcher and cancels any pending handler call.
func (w *SignalWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.debouncer.Stop()
	err := w.fsWatcher.Close()
	<-w.done
	return err
}

func (w *SignalWatcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.errorHandler != nil {
				w.errorHandler(err)
			}
		}
	}
}

func (w *SignalWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Chmod) {
		return
	}
	w.debouncer.Trigger()
}

func (w *SignalWatcher) fire() {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if !closed && w.handler != nil {
		w.handler()
	}
}

// Touch raises a signal by rewriting the file with the current time,
// creating it when absent.
func Touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating signal dir: %w", err)
	}
	stamp := time.Now().UTC().Format(time.RFC3339Nano) + "\n"
	if err := os.WriteFile(path, []byte(stamp), 0o644); err != nil {
		return fmt.Errorf("writing signal file: %w", err)
	}
	return nil
}
