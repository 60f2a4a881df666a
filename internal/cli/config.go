package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/shule/internal/config"
	"github.com/theirongolddev/shule/internal/output"
)

func configPath() string {
	if cfgFile != "" {
		return config.ExpandHome(cfgFile)
	}
	return config.DefaultPath()
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatter(cmd)
			if err != nil {
				return err
			}
			path, err := config.CreateDefault(configPath())
			if err != nil {
				return output.NewCLIError("could not create config file").
					WithCause(err.Error()).
					WithHint("Edit the existing file at 'shule config path'")
			}
			return f.Success(fmt.Sprintf("Created config file: %s", path), map[string]string{"path": path})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatter(cmd)
			if err != nil {
				return err
			}
			path := configPath()
			return f.OutputData(map[string]string{"path": path}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, path)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration (token masked)",
		Long: `Show the effective configuration: the file, defaults and the
SHULE_API_URL, SHULE_TOKEN, SHULE_SCHOOL_ID and SHULE_LOG_LEVEL overrides.
Problems that would fail later are reported after the values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatter(cmd)
			if err != nil {
				return err
			}
			effective := cfg
			if effective == nil {
				effective = config.Default()
			}
			shown := effective.Redacted()
			validation := effective.Validate()

			type showResponse struct {
				Path   string         `json:"path"`
				Config *config.Config `json:"config"`
				Valid  bool           `json:"valid"`
				Error  string         `json:"error,omitempty"`
			}
			resp := showResponse{Path: configPath(), Config: shown, Valid: validation == nil}
			if validation != nil {
				resp.Error = validation.Error()
			}
			return f.OutputData(resp, func(w io.Writer) error {
				if err := config.Print(shown, w); err != nil {
					return err
				}
				if validation != nil {
					fmt.Fprintf(w, "\n# problems:\n")
					for _, line := range splitLines(validation.Error()) {
						fmt.Fprintf(w, "#   %s\n", line)
					}
				}
				return nil
			})
		},
	})

	return cmd
}
