package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/shule/internal/tui/icons"
	"github.com/theirongolddev/shule/internal/tui/layout"
	"github.com/theirongolddev/shule/internal/tui/theme"
)

type StateKind int

const (
	StateEmpty StateKind = iota
	StateLoading
	StateError
)

type StateOptions struct {
	Kind    StateKind
	Icon    string
	Message string
	Hint    string
	Width   int
	Align   lipgloss.Position
}

// RenderState renders a one or two line placeholder for views that have
// nothing to show yet.
func RenderState(opts StateOptions) string {
	t := theme.Current()
	ic := icons.Current()

	indent := "  "
	if opts.Align == lipgloss.Center {
		indent = ""
	}

	icon := strings.TrimSpace(opts.Icon)
	message := strings.TrimSpace(opts.Message)
	hint := strings.TrimSpace(opts.Hint)

	lineStyle := lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.Muted).Italic(true)

	switch opts.Kind {
	case StateLoading:
		lineStyle = lipgloss.NewStyle().Foreground(t.Subtext).Italic(true)
		if message == "" {
			message = "Loading…"
		}
		if icon == "" {
			icon = ic.Refresh
		}
	case StateError:
		lineStyle = lipgloss.NewStyle().Foreground(t.Error).Italic(true)
		if message == "" {
			message = "Something went wrong"
		}
		if icon == "" {
			icon = ic.Warning
		}
	default:
		if message == "" {
			message = "Nothing to show"
		}
		if icon == "" {
			icon = ic.Info
		}
	}

	width := opts.Width
	if width < 0 {
		width = 0
	}

	prefix := indent + icon + " "
	if available := width - lipgloss.Width(prefix); width > 0 && available > 0 {
		message = layout.Truncate(message, available)
	}
	lines := []string{lineStyle.Render(prefix + message)}

	if hint != "" {
		if available := width - len(indent); width > 0 && available > 0 {
			hint = layout.Truncate(hint, available)
		}
		lines = append(lines, hintStyle.Render(indent+hint))
	}

	rendered := strings.Join(lines, "\n")
	if width > 0 && (opts.Align == lipgloss.Center || opts.Align == lipgloss.Right) {
		return lipgloss.NewStyle().Width(width).Align(opts.Align).Render(rendered)
	}
	return rendered
}

func EmptyState(message string, width int) string {
	return RenderState(StateOptions{Kind: StateEmpty, Message: message, Width: width})
}

func LoadingState(message string, width int) string {
	return RenderState(StateOptions{Kind: StateLoading, Message: message, Width: width})
}

func ErrorState(message, hint string, width int) string {
	return RenderState(StateOptions{Kind: StateError, Message: message, Hint: hint, Width: width})
}
