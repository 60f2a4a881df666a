package components

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func TestIsStale(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		last     time.Time
		interval time.Duration
		want     bool
	}{
		{"never loaded", time.Time{}, 5 * time.Minute, false},
		{"no interval", now.Add(-time.Hour), 0, false},
		{"fresh", now.Add(-5 * time.Minute), 5 * time.Minute, false},
		{"just past two intervals", now.Add(-10*time.Minute - time.Second), 5 * time.Minute, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStale(tt.last, now, tt.interval); got != tt.want {
				t.Errorf("IsStale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFreshnessText(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if got := FreshnessText(FreshnessOptions{Now: now}); got != "" {
		t.Errorf("expected empty text before first load, got %q", got)
	}
	if got := FreshnessText(FreshnessOptions{LastUpdate: now, Now: now}); got != "Updated just now" {
		t.Errorf("got %q", got)
	}
	got := FreshnessText(FreshnessOptions{LastUpdate: now.Add(-3 * time.Minute), Now: now})
	if got != "Updated 3m ago" {
		t.Errorf("got %q", got)
	}
}

func TestRenderFreshnessIndicatorMarksStale(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	out := stripANSI(RenderFreshnessIndicator(FreshnessOptions{
		LastUpdate:      now.Add(-20 * time.Minute),
		RefreshInterval: 5 * time.Minute,
		Now:             now,
	}))
	if out != "Updated 20m ago (stale)" {
		t.Errorf("got %q", out)
	}
}

func TestRenderFreshnessFooterRightAligns(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	out := RenderFreshnessFooter(FreshnessOptions{LastUpdate: now, Now: now, Width: 40})
	if w := lipgloss.Width(out); w != 40 {
		t.Errorf("footer width = %d, want 40", w)
	}
	if !strings.HasSuffix(stripANSI(out), "Updated just now") {
		t.Errorf("got %q", stripANSI(out))
	}
}

func TestRenderStateDefaults(t *testing.T) {
	t.Setenv("SHULE_ICONS", "ascii")
	tests := []struct {
		kind StateKind
		want string
	}{
		{StateEmpty, "Nothing to show"},
		{StateLoading, "Loading…"},
		{StateError, "Something went wrong"},
	}
	for _, tt := range tests {
		out := stripANSI(RenderState(StateOptions{Kind: tt.kind}))
		if !strings.Contains(out, tt.want) {
			t.Errorf("kind %d: %q missing %q", tt.kind, out, tt.want)
		}
	}
}

func TestErrorStateTruncatesAndShowsHint(t *testing.T) {
	t.Setenv("SHULE_ICONS", "ascii")
	out := stripANSI(ErrorState("Could not reach the school server at all", "press r to retry", 20))
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected message and hint, got %q", out)
	}
	if lipgloss.Width(lines[0]) > 20 {
		t.Errorf("message not truncated: %q", lines[0])
	}
	if !strings.Contains(lines[1], "press r to retry") {
		t.Errorf("hint missing: %q", lines[1])
	}
}

func TestRenderErrorBanner(t *testing.T) {
	t.Setenv("SHULE_ICONS", "ascii")
	if RenderErrorBanner(BannerOptions{Message: "  "}) != "" {
		t.Error("blank message should render nothing")
	}

	out := stripANSI(RenderErrorBanner(BannerOptions{
		Message:     "School with this short code already exists",
		Width:       30,
		Dismissable: true,
	}))
	for _, line := range strings.Split(out, "\n") {
		if lipgloss.Width(line) > 30 {
			t.Errorf("line wider than 30: %q", line)
		}
	}
	if !strings.Contains(out, "esc dismiss") {
		t.Error("dismiss hint missing")
	}
	if !strings.Contains(out, "already exists") {
		t.Errorf("message missing: %q", out)
	}
}

func TestRenderSection(t *testing.T) {
	out := stripANSI(RenderSection("Status", 20))
	if !strings.HasPrefix(out, "Status ") || lipgloss.Width(out) != 20 {
		t.Errorf("got %q", out)
	}
}
