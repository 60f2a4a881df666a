package layout

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestTierForWidth(t *testing.T) {
	tests := []struct {
		width int
		want  Tier
	}{
		{0, TierCompact},
		{59, TierCompact},
		{60, TierNarrow},
		{99, TierNarrow},
		{100, TierSplit},
		{159, TierSplit},
		{160, TierWide},
		{400, TierWide},
	}
	for _, tt := range tests {
		if got := TierForWidth(tt.width); got != tt.want {
			t.Errorf("TierForWidth(%d) = %v, want %v", tt.width, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"fits", "Shule", 10, "Shule"},
		{"exact", "Shule", 5, "Shule"},
		{"cut", "Kilimani Primary", 8, "Kiliman…"},
		{"zero", "Shule", 0, ""},
		{"one", "Shule", 1, "…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if runewidth.StringWidth(got) > tt.max {
				t.Errorf("result %q wider than %d", got, tt.max)
			}
		})
	}
}

func TestTruncateWideGlyphs(t *testing.T) {
	got := Truncate("学校学校学校", 7)
	if w := runewidth.StringWidth(got); w > 7 {
		t.Errorf("width %d exceeds limit: %q", w, got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("expected ellipsis, got %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("abcdef", 4); got != "abcdef" {
		t.Errorf("PadRight should not cut, got %q", got)
	}
}

func TestWrap(t *testing.T) {
	got := Wrap("Failed to create school. Please try again.", 20)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 20 {
			t.Errorf("line too long: %q", line)
		}
	}
	if Wrap("x y", 0) != "x y" {
		t.Error("zero width should be a no-op")
	}
}

func TestSidebarWidth(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{80, 0},
		{100, SidebarMinWidth},
		{140, 28},
		{300, SidebarMaxWidth},
	}
	for _, tt := range tests {
		if got := SidebarWidth(tt.total); got != tt.want {
			t.Errorf("SidebarWidth(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}
