// Package components provides shared TUI building blocks.
package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/shule/internal/tui/theme"
	"github.com/theirongolddev/shule/internal/util"
)

// FreshnessOptions configures freshness indicator rendering.
type FreshnessOptions struct {
	LastUpdate      time.Time     // When the status was last fetched
	RefreshInterval time.Duration // Poll interval, for staleness detection
	Now             time.Time     // Reference time; zero means time.Now()
	Width           int           // Available width for the footer
}

func (o FreshnessOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

// IsStale reports whether data is older than two refresh intervals.
func IsStale(lastUpdate, now time.Time, refreshInterval time.Duration) bool {
	if lastUpdate.IsZero() || refreshInterval <= 0 {
		return false
	}
	return now.Sub(lastUpdate) > 2*refreshInterval
}

// FreshnessText returns the unstyled "Updated 5m ago" label, or "" before
// the first successful load.
func FreshnessText(opts FreshnessOptions) string {
	if opts.LastUpdate.IsZero() {
		return ""
	}
	age := util.FormatAge(opts.now().Sub(opts.LastUpdate))
	if age == "now" {
		return "Updated just now"
	}
	return fmt.Sprintf("Updated %s ago", age)
}

// RenderFreshnessIndicator renders the freshness label, in the warning
// colour once the data is stale.
func RenderFreshnessIndicator(opts FreshnessOptions) string {
	text := FreshnessText(opts)
	if text == "" {
		return ""
	}

	t := theme.Current()
	style := lipgloss.NewStyle().Foreground(t.Muted)
	if IsStale(opts.LastUpdate, opts.now(), opts.RefreshInterval) {
		style = lipgloss.NewStyle().Foreground(t.Warning)
		text += " (stale)"
	}
	return style.Render(text)
}

// RenderFreshnessFooter renders a right-aligned freshness footer.
func RenderFreshnessFooter(opts FreshnessOptions) string {
	indicator := RenderFreshnessIndicator(opts)
	if indicator == "" {
		return ""
	}

	indicatorWidth := lipgloss.Width(indicator)
	if indicatorWidth >= opts.Width {
		return indicator
	}

	return lipgloss.NewStyle().
		PaddingLeft(opts.Width - indicatorWidth).
		Render(indicator)
}
