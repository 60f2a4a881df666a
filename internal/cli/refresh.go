package cli

import (
	"github.com/spf13/cobra"

	"github.com/theirongolddev/shule/internal/output"
	"github.com/theirongolddev/shule/internal/watcher"
)

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the status in every running dashboard",
		Long: `Touch the refresh signal file. Running dashboards and 'status --watch'
treat it as an academic-status-updated event and refresh after the
debounce window.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatter(cmd)
			if err != nil {
				return err
			}
			if err := watcher.Touch(cfg.SignalFile); err != nil {
				return output.NewCLIError("could not signal a refresh").
					WithCause(err.Error()).
					WithHint("Check signal_file with 'shule config show'")
			}
			logger.Debug().Str("path", cfg.SignalFile).Msg("refresh signalled")
			return f.Success("Refresh signalled", map[string]string{"signal_file": cfg.SignalFile}, output.RefreshSuggestions()...)
		},
	}
}
