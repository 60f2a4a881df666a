package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/shule/internal/config"
	"github.com/theirongolddev/shule/internal/logging"
	"github.com/theirongolddev/shule/internal/output"
	"github.com/theirongolddev/shule/internal/tui/theme"
)

var (
	cfgFile  string
	cfg      *config.Config
	logger   = zerolog.Nop()
	closeLog func() error

	// Global output flags - inherited by all subcommands
	jsonOutput bool
	yamlOutput bool
	verbose    bool

	// Build information - set by goreleaser via ldflags
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "shule",
	Short: "Terminal client for the school management API",
	Long: `shule shows the academic setup of your school and walks you through
creating one.

Quick Start:
  shule                      # Open the dashboard
  shule onboard              # Create a school
  shule status --watch       # Follow the academic setup
  shule refresh              # Refresh every running dashboard

Authentication:
  export SHULE_TOKEN=<access token>
  export SHULE_API_URL=https://school.example.ac.ke`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd, false)
	},
}

// setup loads the config and starts logging. Commands that only print
// paths or versions still get defaults so they work with a broken file.
func setup(cmd *cobra.Command) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		if skipsConfig(cmd) {
			loaded = config.Default()
		} else {
			return output.NewCLIError("could not load configuration").
				WithCode("CONFIG_INVALID").
				WithCause(err.Error()).
				WithHint(output.HintConfigInvalid)
		}
	}
	cfg = loaded
	if verbose {
		cfg.LogLevel = "debug"
	}
	theme.SetName(cfg.Theme)

	var logErr error
	logger, closeLog, logErr = logging.New(logging.Options{
		File:    cfg.LogFile,
		Level:   cfg.LogLevel,
		Console: verbose && !isDashboard(cmd),
		Stderr:  cmd.ErrOrStderr(),
	})
	if logErr != nil {
		// Logging is best-effort.
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", logErr)
		logger, closeLog = zerolog.Nop(), nil
	}
	logger.Debug().Str("command", cmd.CommandPath()).Str("api_url", cfg.APIURL).Msg("command start")
	return nil
}

func teardown() {
	if closeLog != nil {
		_ = closeLog()
		closeLog = nil
	}
}

func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "config":
			return true
		}
	}
	return false
}

func isDashboard(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd.Name() == "bar" || (cmd.Name() == "onboard" && !onboardNonInteractive)
}

// Execute runs the root command and reports any error in the selected
// output format.
func Execute() error {
	err := rootCmd.Execute()
	teardown()
	if err == nil {
		return nil
	}
	reportError(err)
	return err
}

func reportError(err error) {
	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		cliErr = output.NewCLIError(err.Error())
	}
	format, ferr := output.DetectFormat(jsonOutput, yamlOutput)
	if ferr != nil {
		format = output.FormatText
	}
	f := output.New(output.WithFormat(format), output.WithWriter(rootCmd.OutOrStdout()))
	if werr := f.WriteError(cliErr); werr != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
}

// formatter returns the output formatter for the current flags.
func formatter(cmd *cobra.Command) (*output.Formatter, error) {
	if jsonOutput && yamlOutput {
		return nil, output.NewCLIError("--json and --yaml cannot be combined")
	}
	format, err := output.DetectFormat(jsonOutput, yamlOutput)
	if err != nil {
		return nil, output.NewCLIError("invalid output format").
			WithCause(err.Error()).
			WithHint("Set " + output.EnvFormat + " to text, json or yaml")
	}
	return output.New(output.WithFormat(format), output.WithWriter(cmd.OutOrStdout())), nil
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle (setup -> isDashboard -> rootCmd).
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/shule/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (machine-readable)")
	rootCmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "Output in YAML format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging, mirrored to stderr outside the dashboard")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(
		newBarCmd(),
		newOnboardCmd(),
		newStatusCmd(),
		newWhoamiCmd(),
		newRefreshCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
}

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuiltAt   string `json:"built_at"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatter(cmd)
			if err != nil {
				return err
			}
			info := versionInfo{
				Version:   Version,
				Commit:    Commit,
				BuiltAt:   Date,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			if short && f.IsText() {
				f.Textln("%s", Version)
				return nil
			}
			return f.OutputData(info, func(_ io.Writer) error {
				f.Textln("shule version %s", info.Version)
				f.Textln("  commit:    %s", info.Commit)
				f.Textln("  built:     %s", info.BuiltAt)
				f.Textln("  go:        %s", info.GoVersion)
				f.Textln("  platform:  %s", info.Platform)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	return cmd
}
