package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/shule/internal/onboarding"
	"github.com/theirongolddev/shule/internal/output"
	"github.com/theirongolddev/shule/internal/watcher"
)

var onboardNonInteractive bool

// flagName maps a form field to its command-line flag.
func flagName(f onboarding.Field) string {
	return strings.ReplaceAll(string(f), "_", "-")
}

func newOnboardCmd() *cobra.Command {
	values := make(map[onboarding.Field]*string, len(onboarding.Fields))

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Create a school",
		Long: `Create a school. Opens the create-school screen, or with
--non-interactive creates it from flags.

The short code is derived from the school name (first letter of each word)
unless --short-code is given.

Examples:
  shule onboard
  shule onboard --non-interactive --name "Imara Primary School" \
    --academic-year-start 2026-01-05 --boarding-type DAY --gender-type MIXED`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !onboardNonInteractive {
				return runDashboard(cmd, true)
			}
			given := make(map[onboarding.Field]string)
			for _, field := range onboarding.Fields {
				if cmd.Flags().Changed(flagName(field)) {
					given[field] = *values[field]
				}
			}
			return runOnboard(cmd, given)
		},
	}

	cmd.Flags().BoolVar(&onboardNonInteractive, "non-interactive", false, "Create the school from flags without opening the form")
	for _, field := range onboarding.Fields {
		usage := field.Label()
		if opts := field.Options(); len(opts) > 0 {
			usage += " (" + strings.Join(opts, ", ") + ")"
		} else if hint := field.Placeholder(); hint != "" {
			usage += ", e.g. " + hint
		}
		if field.Required() {
			usage += " [required]"
		}
		values[field] = cmd.Flags().String(flagName(field), "", usage)
	}
	return cmd
}

// runOnboard fills a form from flag values and submits it.
func runOnboard(cmd *cobra.Command, given map[onboarding.Field]string) error {
	f, err := formatter(cmd)
	if err != nil {
		return err
	}
	session, err := requireSession()
	if err != nil {
		return err
	}

	form := onboarding.NewForm(onboarding.Defaults{Currency: cfg.Onboarding.DefaultCurrency})
	// Fields is in display order, so the name is set before an explicit
	// short code overrides the derived one.
	for _, field := range onboarding.Fields {
		value, ok := given[field]
		if !ok {
			continue
		}
		if opts := field.Options(); len(opts) > 0 {
			canonical, matched := normalizeEnum(value, opts)
			if !matched {
				return invalidEnum(field, value, opts)
			}
			value = canonical
		}
		form.Set(field, value)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	client := newClient(session)
	school, err := form.Submit(ctx, client)
	switch {
	case errors.Is(err, onboarding.ErrIncomplete), errors.Is(err, onboarding.ErrInvalid):
		return formFailure(form)
	case err != nil:
		logger.Warn().Err(err).Msg("create school failed")
		return apiFailure(form.Banner(), err)
	}

	logger.Info().Str("school_id", school.ID).Str("short_code", school.ShortCode).Msg("school created")
	if err := watcher.Touch(cfg.SignalFile); err != nil {
		logger.Debug().Err(err).Msg("could not signal running dashboards")
	}

	msg := fmt.Sprintf("Created %s", school.Name)
	if school.ShortCode != "" {
		msg += fmt.Sprintf(" (%s)", school.ShortCode)
	}
	return f.Success(msg, school, output.OnboardSuggestions(school.ID)...)
}

func invalidEnum(field onboarding.Field, value string, allowed []string) error {
	e := output.NewCLIError(fmt.Sprintf("invalid --%s %q", flagName(field), value)).
		WithCode("INVALID_FLAG").
		WithCause(field.Label() + " must be one of " + strings.Join(allowed, ", "))
	if s := suggestValue(value, allowed); s != "" {
		e.WithHint(fmt.Sprintf("Did you mean --%s %s?", flagName(field), s))
	}
	return e
}

// formFailure reports validation errors with the flags to fix, in
// display order.
func formFailure(form *onboarding.Form) error {
	errs := form.Errors()
	var causes, flags []string
	for _, field := range onboarding.Fields {
		if msg, ok := errs[field]; ok {
			causes = append(causes, msg)
			flags = append(flags, "--"+flagName(field))
		}
	}
	return output.NewCLIError("the school details are incomplete or invalid").
		WithCode("INVALID_INPUT").
		WithCause(strings.Join(causes, "; ")).
		WithHint("Check " + strings.Join(flags, ", "))
}
