package cli

import (
	"github.com/spf13/cobra"

	"github.com/theirongolddev/shule/internal/output"
	"github.com/theirongolddev/shule/internal/tui/dashboard"
)

func newBarCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "bar",
		Aliases: []string{"dashboard"},
		Short:   "Open the dashboard (header bar, sidebar, status overview)",
		Long: `Open the interactive dashboard.

Keys:
  u        user menu          ctrl+b   toggle sidebar
  r        refresh status     n        create a school
  q        quit

Running 'shule refresh' in another terminal refreshes every open dashboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, false)
		},
	}
}

// runDashboard starts the full-screen shell, optionally on the
// create-school screen.
func runDashboard(cmd *cobra.Command, onboard bool) error {
	if !IsInteractive(cmd.OutOrStdout()) {
		return output.NewCLIError("the dashboard needs a terminal").
			WithCode("NOT_A_TERMINAL").
			WithHint("Use 'shule status' or 'shule onboard --non-interactive' in scripts")
	}
	session, err := newSession()
	if err != nil {
		return err
	}

	screen := dashboard.ScreenOverview
	if onboard {
		screen = dashboard.ScreenOnboard
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	return dashboard.Run(ctx, dashboard.RunOptions{
		Session:    session,
		Backend:    newClient(session),
		Interval:   cfg.Status.Interval(),
		Debounce:   cfg.Status.DebounceWindow(),
		Currency:   cfg.Onboarding.DefaultCurrency,
		Screen:     screen,
		SignalFile: cfg.SignalFile,
		Logger:     logger,
	})
}
