package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/theirongolddev/shule/internal/tui/theme"
)

// CLIError represents a structured CLI error with remediation hints.
type CLIError struct {
	Message string // What failed
	Cause   string // Why it failed (optional)
	Hint    string // Fastest command/action to fix it (optional)
	Code    string // Error code for programmatic handling (optional)
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// NewCLIError creates a new CLI error with just a message.
func NewCLIError(msg string) *CLIError {
	return &CLIError{Message: msg}
}

// WithCause adds a cause to the error.
func (e *CLIError) WithCause(cause string) *CLIError {
	e.Cause = cause
	return e
}

// WithHint adds a remediation hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// WithCode adds an error code to the error.
func (e *CLIError) WithCode(code string) *CLIError {
	e.Code = code
	return e
}

// ErrorResponse is the JSON/YAML error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// Response converts the error to its serialized envelope.
func (e *CLIError) Response() ErrorResponse {
	return ErrorResponse{Error: e.Message, Code: e.Code, Details: e.Cause, Hint: e.Hint}
}

// isStderrTerminal checks if stderr is a terminal (for color output).
func isStderrTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// FormatCLIError formats a CLIError for terminal output with colors.
// Returns plain text if stderr is not a terminal or NO_COLOR is set.
func FormatCLIError(e *CLIError) string {
	return formatCLIError(e, isStderrTerminal() && !theme.NoColorEnabled())
}

func formatCLIError(e *CLIError, useColor bool) string {
	label := func(s string) string { return s }
	code, cause, hint := label, label, label
	if useColor {
		t := theme.Current()
		labelStyle := lipgloss.NewStyle().Foreground(t.Error).Bold(true)
		label = func(s string) string { return labelStyle.Render(s) }
		codeStyle := lipgloss.NewStyle().Foreground(t.Muted)
		code = func(s string) string { return codeStyle.Render(s) }
		causeStyle := lipgloss.NewStyle().Foreground(t.Subtext)
		cause = func(s string) string { return causeStyle.Render(s) }
		hintStyle := lipgloss.NewStyle().Foreground(t.Info)
		hint = func(s string) string { return hintStyle.Render(s) }
	}

	var sb strings.Builder
	sb.WriteString(label("Error: "))
	sb.WriteString(e.Message)
	if e.Code != "" {
		sb.WriteString(" ")
		sb.WriteString(code("[" + e.Code + "]"))
	}
	sb.WriteString("\n")

	if e.Cause != "" {
		sb.WriteString(cause("  Cause: "))
		sb.WriteString(e.Cause)
		sb.WriteString("\n")
	}
	if e.Hint != "" {
		sb.WriteString(hint("  Hint: "))
		sb.WriteString(e.Hint)
		sb.WriteString("\n")
	}
	return sb.String()
}

// PrintCLIError prints a CLIError to stderr with formatting.
func PrintCLIError(e *CLIError) {
	fmt.Fprint(os.Stderr, FormatCLIError(e))
}

// WriteError reports e in the formatter's format. Text goes to stderr,
// JSON and YAML envelopes go to the formatter's writer so scripts can
// parse them.
func (f *Formatter) WriteError(e *CLIError) error {
	return f.writeError(e, os.Stderr, isStderrTerminal() && !theme.NoColorEnabled())
}

func (f *Formatter) writeError(e *CLIError, stderr io.Writer, useColor bool) error {
	switch f.format {
	case FormatJSON:
		return f.JSON(e.Response())
	case FormatYAML:
		return f.YAML(e.Response())
	}
	_, err := fmt.Fprint(stderr, formatCLIError(e, useColor))
	return err
}

// Common error hints for frequent scenarios
var (
	HintNoToken        = "Set SHULE_TOKEN or add token to the config file ('shule config init')"
	HintTokenRejected  = "The token was rejected; sign in again and update SHULE_TOKEN"
	HintNoSchool       = "Create a school with 'shule onboard' or set SHULE_SCHOOL_ID"
	HintForbidden      = "Check that your account belongs to the active school ('shule whoami')"
	HintUnreachable    = "Check api_url with 'shule config show' and that the API is running"
	HintTimeout        = "Retry, or raise timeout in the config file"
	HintConfigInvalid  = "Check config syntax with 'shule config show' or edit the file at 'shule config path'"
	HintConfigNotFound = "Run 'shule config init' to create a default configuration"
)
