package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/shule/internal/tui/theme"
)

// Suggestion represents a "what next" command suggestion
type Suggestion struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// SuccessResponse is the serialized form of a success message with
// suggestions.
type SuccessResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	Data        any          `json:"data,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// PrintSuccessFooter prints a "What's next?" footer to w.
// Skips output when w is a file that is not a terminal.
func PrintSuccessFooter(w io.Writer, suggestions ...Suggestion) {
	if len(suggestions) == 0 {
		return
	}
	useColor := false
	if f, ok := w.(*os.File); ok {
		if !isTTY(f) {
			return
		}
		useColor = !theme.NoColorEnabled()
	}

	fmt.Fprintln(w)
	if useColor {
		t := theme.Current()
		headerStyle := lipgloss.NewStyle().Foreground(t.Subtext).Bold(true)
		cmdStyle := lipgloss.NewStyle().Foreground(t.Info)
		descStyle := lipgloss.NewStyle().Foreground(t.Muted)

		fmt.Fprintln(w, headerStyle.Render("What's next?"))
		for _, s := range suggestions {
			fmt.Fprintf(w, "  %s  %s\n", cmdStyle.Render(s.Command), descStyle.Render("# "+s.Description))
		}
	} else {
		fmt.Fprintln(w, "What's next?")
		for _, s := range suggestions {
			fmt.Fprintf(w, "  %s  # %s\n", s.Command, s.Description)
		}
	}
	fmt.Fprintln(w)
}

// PrintSuccessCheck prints a success message with a checkmark to w.
func PrintSuccessCheck(w io.Writer, msg string) {
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isTTY(f) && !theme.NoColorEnabled()
	}
	mark := "✓"
	if useColor {
		mark = lipgloss.NewStyle().Foreground(theme.Current().Success).Render(mark)
	}
	fmt.Fprintf(w, "%s %s\n", mark, msg)
}

// Success writes msg with its suggestions: a checkmark line and footer in
// text mode, a SuccessResponse otherwise.
func (f *Formatter) Success(msg string, data any, suggestions ...Suggestion) error {
	resp := SuccessResponse{Success: true, Message: msg, Data: data, Suggestions: suggestions}
	return f.OutputData(resp, func(w io.Writer) error {
		PrintSuccessCheck(w, msg)
		PrintSuccessFooter(w, suggestions...)
		return nil
	})
}

// OnboardSuggestions returns suggestions after a school was created.
func OnboardSuggestions(schoolID string) []Suggestion {
	return []Suggestion{
		{Command: "shule status", Description: "Check academic setup"},
		{Command: "shule config init", Description: fmt.Sprintf("Save school_id = %q", schoolID)},
		{Command: "shule", Description: "Open the dashboard"},
	}
}

// RefreshSuggestions returns suggestions after a refresh was signalled.
func RefreshSuggestions() []Suggestion {
	return []Suggestion{
		{Command: "shule status --watch", Description: "Follow status changes"},
	}
}
