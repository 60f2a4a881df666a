package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/shule/internal/tui/icons"
	"github.com/theirongolddev/shule/internal/tui/layout"
	"github.com/theirongolddev/shule/internal/tui/theme"
)

// BannerOptions configures RenderErrorBanner.
type BannerOptions struct {
	Message     string
	Width       int
	Dismissable bool
}

// RenderErrorBanner renders a bordered error message. An empty message
// renders nothing.
func RenderErrorBanner(opts BannerOptions) string {
	msg := strings.TrimSpace(opts.Message)
	if msg == "" {
		return ""
	}

	t := theme.Current()
	ic := icons.Current()

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Error).
		Foreground(t.Error).
		Padding(0, 1)

	// border and padding take four cells
	inner := opts.Width - 4
	text := ic.Cross + " " + msg
	if inner > 0 {
		text = layout.Wrap(text, inner)
		box = box.Width(inner + 2)
	}

	if opts.Dismissable {
		hint := lipgloss.NewStyle().Foreground(t.Muted).Render("esc dismiss")
		text += "\n" + hint
	}
	return box.Render(text)
}

// RenderHeaderBar renders a full-width title bar.
func RenderHeaderBar(title string, width int) string {
	t := theme.Current()
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Text).
		Background(t.Surface).
		Padding(0, 1)
	if width > 0 {
		style = style.Width(width)
		title = layout.Truncate(title, width-2)
	}
	return style.Render(title)
}

// RenderSection renders a section heading followed by a divider.
func RenderSection(title string, width int) string {
	t := theme.Current()
	heading := lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Render(title)
	if width <= 0 {
		return heading
	}
	rest := width - lipgloss.Width(heading) - 1
	if rest <= 0 {
		return heading
	}
	line := lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", rest))
	return heading + " " + line
}
