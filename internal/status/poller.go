// Package status keeps the academic status of the active school fresh.
// A Poller refreshes on start, on a fixed interval, and on debounced
// change notifications, and keeps the last good snapshot when a refresh fails.
package status

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/shule/internal/api"
	"github.com/theirongolddev/shule/internal/auth"
	"github.com/theirongolddev/shule/internal/events"
	"github.com/theirongolddev/shule/internal/watcher"
)

const (
	// DefaultInterval is how often the poller refreshes on its own.
	DefaultInterval = 5 * time.Minute

	// DefaultDebounce is the quiet period after the last notification
	// before a notification-driven refresh runs.
	DefaultDebounce = 500 * time.Millisecond
)

// Trigger names what caused a refresh.
type Trigger string

const (
	TriggerStart    Trigger = "start"
	TriggerInterval Trigger = "interval"
	TriggerNotify   Trigger = "notify"
	TriggerManual   Trigger = "manual"
)

// Fetcher is the subset of the API client the poller needs.
type Fetcher interface {
	AcademicStatus(ctx context.Context) (*api.AcademicStatus, error)
	ClassCount(ctx context.Context) (int, error)
}

// Options configures a Poller.
type Options struct {
	Interval time.Duration
	Debounce time.Duration

	// OnUpdate is called with every snapshot a successful refresh produces.
	// It runs on the refreshing goroutine.
	OnUpdate func(Snapshot)

	Logger zerolog.Logger
	Now    func() time.Time
}

// Poller owns the status snapshot for one session.
type Poller struct {
	fetcher   Fetcher
	enabled   bool
	interval  time.Duration
	onUpdate  func(Snapshot)
	log       zerolog.Logger
	now       func() time.Time
	debouncer *watcher.Debouncer

	// refreshMu serializes refresh cycles so results land in trigger order.
	refreshMu sync.Mutex

	mu      sync.RWMutex
	snap    Snapshot
	started bool
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPoller creates a poller for session. Without a token the poller is
// inert: Start, Notify and Refresh do nothing.
func NewPoller(f Fetcher, session auth.Session, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	p := &Poller{
		fetcher:  f,
		enabled:  session.Authenticated(),
		interval: opts.Interval,
		onUpdate: opts.OnUpdate,
		log:      opts.Logger.With().Str("component", "status").Logger(),
		now:      opts.Now,
	}
	p.debouncer = watcher.NewDebouncer(opts.Debounce, p.notified)
	return p
}

// Enabled reports whether the poller has a token to poll with.
func (p *Poller) Enabled() bool {
	return p.enabled
}

// Interval returns the polling interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start runs an immediate refresh and then polls until ctx is done or Stop
// is called. Calling Start more than once has no effect.
func (p *Poller) Start(ctx context.Context) {
	if !p.enabled {
		p.log.Debug().Msg("no token, status poller inert")
		return
	}

	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	context.AfterFunc(p.ctx, p.debouncer.Stop)
	loopCtx := p.ctx
	p.mu.Unlock()

	go p.loop(loopCtx)
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	p.refresh(ctx, TriggerStart)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx, TriggerInterval)
		}
	}
}

// Notify requests a refresh after the debounce window. Repeated calls
// within the window push the refresh back; only one runs.
func (p *Poller) Notify() {
	p.mu.RLock()
	ctx := p.ctx
	live := p.started && !p.stopped
	p.mu.RUnlock()
	if !live || ctx.Err() != nil {
		return
	}

	p.debouncer.Trigger()
}

func (p *Poller) notified() {
	p.mu.RLock()
	ctx := p.ctx
	p.mu.RUnlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}
	p.refresh(ctx, TriggerNotify)
}

// Listen subscribes Notify to academic-status-updated events on d.
func (p *Poller) Listen(d *events.Dispatcher) events.UnsubscribeFunc {
	return d.Subscribe(events.AcademicStatusUpdated, func(events.Event) {
		p.Notify()
	})
}

// Refresh runs a refresh cycle now and waits for it. It reports whether a
// new snapshot was applied.
func (p *Poller) Refresh(ctx context.Context) bool {
	if !p.enabled {
		return false
	}
	return p.refresh(ctx, TriggerManual)
}

// Stop cancels the interval and any pending debounced refresh. A refresh
// already in flight finishes but its result is discarded. It is safe to call
// more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	cancel := p.cancel
	p.mu.Unlock()

	p.debouncer.Stop()
	if cancel != nil {
		cancel()
	}
}

// Done is closed when the polling goroutine exits. It is nil if the poller
// never started.
func (p *Poller) Done() <-chan struct{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.done
}

// Snapshot returns the current snapshot.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// refresh fetches the status and then the class count. A status failure
// abandons the cycle; a count failure keeps the previous count.
func (p *Poller) refresh(ctx context.Context, trigger Trigger) bool {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	if ctx.Err() != nil || p.isStopped() {
		return false
	}

	// In-flight requests are not canceled by Stop; their results are dropped.
	reqCtx := context.WithoutCancel(ctx)
	logger := p.log.With().Str("trigger", string(trigger)).Logger()

	st, err := p.fetcher.AcademicStatus(reqCtx)
	if err != nil {
		logger.Warn().Err(err).Msg("status refresh failed, keeping previous snapshot")
		return false
	}

	count, countErr := p.fetcher.ClassCount(reqCtx)
	if countErr != nil {
		logger.Warn().Err(countErr).Msg("class count refresh failed, keeping previous count")
	}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return false
	}
	next := p.snap
	next.Status = st
	if countErr == nil {
		next.ClassCount = count
		next.CountKnown = true
	}
	next.UpdatedAt = p.now()
	p.snap = next
	p.mu.Unlock()

	logger.Debug().
		Bool("setup_complete", st.SetupComplete).
		Int("class_count", next.ClassCount).
		Msg("status refreshed")

	if p.onUpdate != nil {
		p.onUpdate(next)
	}
	return true
}

func (p *Poller) isStopped() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stopped
}
