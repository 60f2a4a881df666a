// Package styles provides badge rendering functions for consistent UI elements.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/shule/internal/tui/icons"
	"github.com/theirongolddev/shule/internal/tui/theme"
)

// BadgeStyle defines the visual style of a badge
type BadgeStyle int

const (
	// BadgeStyleDefault is a standard badge with padding
	BadgeStyleDefault BadgeStyle = iota
	// BadgeStyleCompact is a minimal badge without padding
	BadgeStyleCompact
	// BadgeStylePill is a wider pill-style badge
	BadgeStylePill
)

// BadgeOptions configures badge rendering
type BadgeOptions struct {
	Style    BadgeStyle
	Bold     bool
	ShowIcon bool
}

// DefaultBadgeOptions returns the options used by the header.
func DefaultBadgeOptions() BadgeOptions {
	return BadgeOptions{
		Style:    BadgeStyleDefault,
		Bold:     true,
		ShowIcon: true,
	}
}

// KindColor maps a badge kind ("ok", "info", "warning", "error", "muted")
// to its theme background.
func KindColor(t theme.Theme, kind string) lipgloss.Color {
	switch strings.ToLower(kind) {
	case "ok", "success":
		return t.Success
	case "info":
		return t.Info
	case "warning":
		return t.Warning
	case "error":
		return t.Error
	default:
		return t.Muted
	}
}

// KindBadge renders a status badge for the given kind.
func KindBadge(kind, label string, opts ...BadgeOptions) string {
	t := theme.Current()
	opt := DefaultBadgeOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	text := label
	if opt.ShowIcon {
		text = icons.Current().ForKind(strings.ToLower(kind)) + " " + label
	}

	// Plain themes have no colours, so keep the kind readable in brackets.
	if t.Name == theme.Plain.Name {
		return "[" + text + "]"
	}
	return renderBadge(text, KindColor(t, kind), t.Base, opt)
}

// TextBadge renders a simple text badge with custom colors
func TextBadge(text string, bgColor, fgColor lipgloss.Color, opts ...BadgeOptions) string {
	opt := DefaultBadgeOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	return renderBadge(text, bgColor, fgColor, opt)
}

// KeyHint renders a key binding hint such as "ctrl+b sidebar".
func KeyHint(key, desc string) string {
	t := theme.Current()
	k := lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Render(key)
	d := lipgloss.NewStyle().Foreground(t.Muted).Render(desc)
	return k + " " + d
}

func renderBadge(text string, bgColor, fgColor lipgloss.Color, opt BadgeOptions) string {
	style := lipgloss.NewStyle().
		Background(bgColor).
		Foreground(fgColor)

	if opt.Bold {
		style = style.Bold(true)
	}

	switch opt.Style {
	case BadgeStyleCompact:
		// No padding
	case BadgeStylePill:
		style = style.Padding(0, 2)
	default:
		style = style.Padding(0, 1)
	}

	return style.Render(text)
}

// BadgeGroup joins badges with a single space.
func BadgeGroup(badges ...string) string {
	return strings.Join(badges, " ")
}

// BadgeBar joins badges with wider spacing for a status line.
func BadgeBar(badges ...string) string {
	return strings.Join(badges, "  ")
}
