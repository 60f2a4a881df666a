package dashboard

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/shule/internal/auth"
	"github.com/theirongolddev/shule/internal/events"
	"github.com/theirongolddev/shule/internal/onboarding"
	"github.com/theirongolddev/shule/internal/status"
	"github.com/theirongolddev/shule/internal/tui/header"
	"github.com/theirongolddev/shule/internal/watcher"
)

// Backend is what the shell needs from the API client.
type Backend interface {
	status.Fetcher
	onboarding.Creator
}

// RunOptions configures Run.
type RunOptions struct {
	Session  auth.Session
	Backend  Backend
	Interval time.Duration
	Debounce time.Duration
	Currency string
	Screen   Screen

	// SignalFile, when set, is watched; touching it raises
	// academic-status-updated.
	SignalFile string

	Logger zerolog.Logger
}

// Run starts the interactive shell and blocks until it exits.
func Run(ctx context.Context, opts RunOptions) error {
	buses := events.NewBuses()
	dispatcher := events.NewDispatcher(50)
	log := opts.Logger

	model := New(Options{
		Session:    opts.Session,
		Creator:    opts.Backend,
		Buses:      buses,
		Dispatcher: dispatcher,
		Interval:   opts.Interval,
		Currency:   opts.Currency,
		Screen:     opts.Screen,
		Logger:     log,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	poller := status.NewPoller(opts.Backend, opts.Session, status.Options{
		Interval: opts.Interval,
		Debounce: opts.Debounce,
		Logger:   log,
		OnUpdate: func(s status.Snapshot) {
			p.Send(header.StatusMsg{Snapshot: s})
		},
	})
	defer poller.Listen(dispatcher)()

	if opts.SignalFile != "" {
		w, err := watcher.WatchSignal(opts.SignalFile, func() {
			dispatcher.Raise(events.AcademicStatusUpdated, "signal")
		}, watcher.WithErrorHandler(func(err error) {
			log.Warn().Err(err).Str("path", opts.SignalFile).Msg("signal watcher error")
		}))
		if err != nil {
			log.Warn().Err(err).Str("path", opts.SignalFile).Msg("refresh signal disabled")
		} else {
			defer w.Close()
		}
	}

	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	poller.Start(pollCtx)
	defer poller.Stop()

	log.Info().
		Bool("polling", poller.Enabled()).
		Dur("interval", poller.Interval()).
		Msg("dashboard started")

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
