// Package layout holds width breakpoints and text fitting helpers shared by
// the header, sidebar and onboarding views.
package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
)

// Width tiers. Below CompactThreshold the header drops its badges; at
// SidebarThreshold the sidebar renders beside the content instead of above it.
const (
	CompactThreshold = 60
	SidebarThreshold = 100
	WideThreshold    = 160

	SidebarMinWidth = 22
	SidebarMaxWidth = 32
)

// Tier describes the current width bucket.
type Tier int

const (
	TierCompact Tier = iota
	TierNarrow
	TierSplit
	TierWide
)

// TierForWidth maps a terminal width to a tier.
func TierForWidth(width int) Tier {
	switch {
	case width >= WideThreshold:
		return TierWide
	case width >= SidebarThreshold:
		return TierSplit
	case width >= CompactThreshold:
		return TierNarrow
	default:
		return TierCompact
	}
}

// Truncate fits s into max terminal cells, appending "…" when cut.
// Wide glyphs count as two cells.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return runewidth.Truncate(s, max, "…")
}

// PadRight pads s with spaces to width cells.
func PadRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// Wrap word-wraps s to width cells. Non-positive widths return s unchanged.
func Wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}

// SidebarWidth returns the sidebar width for a terminal, or 0 when the
// terminal is too narrow to show it beside the content.
func SidebarWidth(total int) int {
	if total < SidebarThreshold {
		return 0
	}
	w := total / 5
	if w < SidebarMinWidth {
		w = SidebarMinWidth
	}
	if w > SidebarMaxWidth {
		w = SidebarMaxWidth
	}
	return w
}
