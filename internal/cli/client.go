package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/shule/internal/api"
	"github.com/theirongolddev/shule/internal/auth"
	"github.com/theirongolddev/shule/internal/output"
)

// newSession builds the session from the loaded config.
func newSession() (auth.Session, error) {
	session, err := auth.NewSession(cfg.Token, cfg.SchoolID)
	if err != nil {
		return auth.Session{}, output.NewCLIError("invalid session settings").
			WithCode("CONFIG_INVALID").
			WithCause(err.Error()).
			WithHint(output.HintConfigInvalid)
	}
	return session, nil
}

// requireSession is newSession for commands that cannot run signed out.
func requireSession() (auth.Session, error) {
	session, err := newSession()
	if err != nil {
		return session, err
	}
	if !session.Authenticated() {
		return session, output.NewCLIError("not signed in").
			WithCode("NO_TOKEN").
			WithHint(output.HintNoToken)
	}
	return session, nil
}

func newClient(session auth.Session) *api.Client {
	return api.NewClient(
		api.WithBaseURL(cfg.APIURL),
		api.WithSession(session),
		api.WithTimeout(cfg.RequestTimeout()),
	)
}

// commandContext is cancelled on SIGINT or SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

// apiFailure converts an API error into a CLIError with a remediation hint.
func apiFailure(action string, err error) *output.CLIError {
	e := output.NewCLIError(action)
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		cause := fmt.Sprintf("HTTP %d", apiErr.StatusCode)
		if apiErr.Detail != "" {
			cause += ": " + apiErr.Detail
		}
		e.WithCause(cause)
	} else {
		e.WithCause(err.Error())
	}

	switch {
	case api.IsUnauthorized(err):
		e.WithCode("UNAUTHORIZED").WithHint(output.HintTokenRejected)
	case errors.Is(err, api.ErrNoSchool):
		e.WithCode("NO_SCHOOL").WithHint(output.HintNoSchool)
	case errors.Is(err, api.ErrForbidden):
		e.WithCode("FORBIDDEN").WithHint(output.HintForbidden)
	case errors.Is(err, api.ErrTimeout):
		e.WithCode("TIMEOUT").WithHint(output.HintTimeout)
	case api.IsServerUnavailable(err):
		e.WithCode("UNREACHABLE").WithHint(output.HintUnreachable)
	case api.IsConflict(err):
		e.WithCode("CONFLICT")
	}
	return e
}
