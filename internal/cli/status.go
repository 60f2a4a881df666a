package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/theirongolddev/shule/internal/api"
	"github.com/theirongolddev/shule/internal/auth"
	"github.com/theirongolddev/shule/internal/output"
	"github.com/theirongolddev/shule/internal/status"
	"github.com/theirongolddev/shule/internal/tui/theme"
	"github.com/theirongolddev/shule/internal/watcher"
)

// statusReport is the serialized form of a status snapshot.
type statusReport struct {
	SchoolID   string              `json:"school_id"`
	Status     *api.AcademicStatus `json:"status"`
	ClassCount *int                `json:"class_count,omitempty"`
	Checklist  []status.CheckItem  `json:"checklist"`
	Badges     []status.Badge      `json:"badges"`
	UpdatedAt  string              `json:"updated_at"`
}

func newStatusReport(session auth.Session, snap status.Snapshot) statusReport {
	r := statusReport{
		SchoolID:  session.SchoolID(),
		Status:    snap.Status,
		Checklist: snap.Checklist(),
		Badges:    snap.Badges(),
		UpdatedAt: output.FormatTime(snap.UpdatedAt),
	}
	if snap.CountKnown {
		n := snap.ClassCount
		r.ClassCount = &n
	}
	return r
}

func newStatusCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the academic setup of the active school",
		Long: `Show the academic setup of the active school: academic year, active
term, classes and server warnings.

With --watch the status is polled (every status.poll_interval, and
whenever 'shule refresh' is run) and only changes are printed.

Examples:
  shule status
  shule status --json | jq .status.active_term
  shule status --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatter(cmd)
			if err != nil {
				return err
			}
			session, err := requireSession()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			client := newClient(session)
			if watch {
				return watchStatus(ctx, f, session, client)
			}

			snap, err := fetchSnapshot(ctx, client)
			if err != nil {
				return err
			}
			return f.OutputData(newStatusReport(session, snap), func(w io.Writer) error {
				return writeStatusText(w, snap)
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep polling and print changes")
	return cmd
}

// fetchSnapshot loads the status once. A failed class count leaves the
// count unknown instead of failing the command.
func fetchSnapshot(ctx context.Context, f status.Fetcher) (status.Snapshot, error) {
	st, err := f.AcademicStatus(ctx)
	if err != nil {
		return status.Snapshot{}, apiFailure("could not load academic status", err)
	}
	snap := status.Snapshot{Status: st, UpdatedAt: time.Now()}
	if n, err := f.ClassCount(ctx); err != nil {
		logger.Warn().Err(err).Msg("class count unavailable")
	} else {
		snap.ClassCount, snap.CountKnown = n, true
	}
	return snap, nil
}

// statusMarkdown renders a snapshot as a markdown checklist.
func statusMarkdown(snap status.Snapshot) string {
	var b strings.Builder
	b.WriteString("# Academic setup\n\n")
	for _, item := range snap.Checklist() {
		mark := " "
		if item.Done {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] **%s**", mark, item.Label)
		if item.Detail != "" {
			b.WriteString(": " + item.Detail)
		}
		b.WriteString("\n")
	}
	if warnings := snap.Warnings(); len(warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}

// writeStatusText renders the checklist with glamour on a terminal and as
// plain markdown otherwise.
func writeStatusText(w io.Writer, snap status.Snapshot) error {
	md := statusMarkdown(snap)
	if !IsInteractive(w) {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle()),
		glamour.WithWordWrap(terminalWidth(w)),
	)
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}
	rendered, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("rendering status: %w", err)
	}
	_, err = io.WriteString(w, rendered)
	return err
}

func glamourStyle() string {
	switch theme.Current().Name {
	case theme.Plain.Name:
		return "notty"
	case "light":
		return "light"
	default:
		return "dark"
	}
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return min(width, 100)
		}
	}
	return 80
}

// watchStatus prints the first snapshot in full and then only what changed.
// Serialized formats print every snapshot as its own document.
func watchStatus(ctx context.Context, f *output.Formatter, session auth.Session, client *api.Client) error {
	first, err := fetchSnapshot(ctx, client)
	if err != nil {
		return err
	}

	updates := make(chan status.Snapshot, 1)
	poller := status.NewPoller(client, session, status.Options{
		Interval: cfg.Status.Interval(),
		Debounce: cfg.Status.DebounceWindow(),
		Logger:   logger,
		OnUpdate: func(s status.Snapshot) {
			select {
			case <-updates:
			default:
			}
			updates <- s
		},
	})

	sig, err := watcher.WatchSignal(cfg.SignalFile, poller.Notify, watcher.WithErrorHandler(func(err error) {
		logger.Warn().Err(err).Msg("signal watcher error")
	}))
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.SignalFile).Msg("refresh signal disabled")
	} else {
		defer sig.Close()
	}

	poller.Start(ctx)
	defer poller.Stop()

	if f.Format() == output.FormatJSON {
		f = output.New(output.WithFormat(output.FormatJSON), output.WithWriter(f.Writer()), output.WithPretty(false))
	}
	p := &watchPrinter{f: f, session: session}
	if err := p.print(first); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-updates:
			if err := p.print(snap); err != nil {
				return err
			}
		}
	}
}

// watchPrinter writes snapshots whose rendering differs from the last one
// printed.
type watchPrinter struct {
	f       *output.Formatter
	session auth.Session
	last    string
	printed int
}

func (p *watchPrinter) print(snap status.Snapshot) error {
	text := statusMarkdown(snap)
	if p.printed > 0 && text == p.last {
		return nil
	}
	prev := p.last
	p.last = text
	p.printed++
	w := p.f.Writer()

	switch p.f.Format() {
	case output.FormatJSON:
		return p.f.JSON(newStatusReport(p.session, snap))
	case output.FormatYAML:
		if p.printed > 1 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		return p.f.YAML(newStatusReport(p.session, snap))
	}

	if p.printed == 1 {
		_, err := io.WriteString(w, text)
		return err
	}
	d := output.ComputeDiff(prev, text)
	fmt.Fprintf(w, "\n@ %s  +%d -%d\n", snap.UpdatedAt.Format("15:04:05"), d.Added, d.Removed)
	for _, line := range d.Lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
