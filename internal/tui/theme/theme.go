// Package theme holds shule's colour palettes and the styles built on them.
package theme

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme defines a complete color palette for the TUI
type Theme struct {
	Name string

	// Backgrounds
	Base    lipgloss.Color
	Surface lipgloss.Color // header bar, inputs
	Raised  lipgloss.Color // menus, focused inputs
	Border  lipgloss.Color

	// Text
	Text    lipgloss.Color
	Subtext lipgloss.Color
	Muted   lipgloss.Color

	// Semantic
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

// Dark is the default theme for dark terminals.
var Dark = Theme{
	Name:    "dark",
	Base:    lipgloss.Color("#1e1e2e"),
	Surface: lipgloss.Color("#313244"),
	Raised:  lipgloss.Color("#45475a"),
	Border:  lipgloss.Color("#585b70"),
	Text:    lipgloss.Color("#cdd6f4"),
	Subtext: lipgloss.Color("#a6adc8"),
	Muted:   lipgloss.Color("#6c7086"),
	Primary: lipgloss.Color("#89b4fa"),
	Accent:  lipgloss.Color("#fab387"),
	Success: lipgloss.Color("#a6e3a1"),
	Warning: lipgloss.Color("#f9e2af"),
	Error:   lipgloss.Color("#f38ba8"),
	Info:    lipgloss.Color("#89dceb"),
}

// Light is used on light terminal backgrounds.
var Light = Theme{
	Name:    "light",
	Base:    lipgloss.Color("#eff1f5"),
	Surface: lipgloss.Color("#ccd0da"),
	Raised:  lipgloss.Color("#bcc0cc"),
	Border:  lipgloss.Color("#acb0be"),
	Text:    lipgloss.Color("#4c4f69"),
	Subtext: lipgloss.Color("#6c6f85"),
	Muted:   lipgloss.Color("#7c7f93"),
	Primary: lipgloss.Color("#1e66f5"),
	Accent:  lipgloss.Color("#fe640b"),
	Success: lipgloss.Color("#40a02b"),
	Warning: lipgloss.Color("#df8e1d"),
	Error:   lipgloss.Color("#d20f39"),
	Info:    lipgloss.Color("#04a5e5"),
}

// Plain is a no-color theme that uses empty/default colors.
// Used when NO_COLOR is set or for accessibility needs.
var Plain = Theme{Name: "plain"}

// NoColorEnabled returns true if color output should be disabled.
// Respects the NO_COLOR standard (https://no-color.org/):
// - If NO_COLOR exists in environment (any value), colors are disabled
// - SHULE_NO_COLOR=1 also disables colors
// - SHULE_NO_COLOR=0 forces colors ON (overrides NO_COLOR)
func NoColorEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SHULE_NO_COLOR"))) {
	case "0", "false", "no", "off":
		return false
	case "1", "true", "yes", "on":
		return true
	}
	_, noColorSet := os.LookupEnv("NO_COLOR")
	return noColorSet
}

// FromName returns a theme by name
func FromName(name string) Theme {
	if NoColorEnabled() {
		return Plain
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "plain", "none", "no-color", "nocolor":
		return Plain
	case "light":
		return Light
	case "dark":
		return Dark
	default:
		return autoTheme()
	}
}

var (
	configuredMu sync.RWMutex
	configured   string
)

// SetName records the configured theme name. SHULE_THEME still wins.
func SetName(name string) {
	configuredMu.Lock()
	defer configuredMu.Unlock()
	configured = name
}

// Current returns the active theme: SHULE_THEME, then the configured name,
// then terminal detection.
func Current() Theme {
	if env := os.Getenv("SHULE_THEME"); env != "" {
		return FromName(env)
	}
	configuredMu.RLock()
	name := configured
	configuredMu.RUnlock()
	return FromName(name)
}

// detectDarkBackground inspects the terminal to determine if a dark background is in use.
// It is defined as a variable for testability.
var detectDarkBackground = func() bool {
	return termenv.NewOutput(os.Stdout).HasDarkBackground()
}

var (
	cachedAutoTheme Theme
	autoThemeOnce   sync.Once
)

func resetAutoTheme() {
	autoThemeOnce = sync.Once{}
	cachedAutoTheme = Theme{}
}

func autoTheme() Theme {
	autoThemeOnce.Do(func() {
		cachedAutoTheme = Dark
		defer func() {
			if recover() != nil {
				cachedAutoTheme = Dark
			}
		}()
		if !detectDarkBackground() {
			cachedAutoTheme = Light
		}
	})
	return cachedAutoTheme
}

// Styles contains pre-built lipgloss styles for the theme
type Styles struct {
	Header    lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Divider   lipgloss.Style
	Normal    lipgloss.Style
	Bold      lipgloss.Style
	Dim       lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Box       lipgloss.Style
	Menu      lipgloss.Style
	MenuItem  lipgloss.Style
	Selected  lipgloss.Style
	Label     lipgloss.Style
	Button    lipgloss.Style
	ButtonOn  lipgloss.Style
	ButtonOff lipgloss.Style
	Help      lipgloss.Style
	Sidebar   lipgloss.Style
}

// NewStyles creates a Styles instance from a theme
func NewStyles(t Theme) Styles {
	s := Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Surface).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Primary),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Subtext),

		Divider: lipgloss.NewStyle().
			Foreground(t.Border),

		Normal: lipgloss.NewStyle().
			Foreground(t.Text),

		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Text),

		Dim: lipgloss.NewStyle().
			Foreground(t.Muted),

		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Success),

		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Warning),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Error),

		Info: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Info),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		Menu: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Background(t.Raised).
			Padding(0, 1),

		MenuItem: lipgloss.NewStyle().
			Foreground(t.Text),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Base).
			Background(t.Primary),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtext).
			Width(22),

		Button: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Raised).
			Padding(0, 2),

		ButtonOn: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Base).
			Background(t.Primary).
			Padding(0, 2),

		ButtonOff: lipgloss.NewStyle().
			Foreground(t.Muted).
			Background(t.Surface).
			Strikethrough(true).
			Padding(0, 2),

		Help: lipgloss.NewStyle().
			Foreground(t.Muted),

		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(t.Border).
			Padding(0, 1),
	}

	// Without color, selection and status must not depend on shading alone.
	if t.Name == Plain.Name {
		s.Selected = lipgloss.NewStyle().Bold(true).Reverse(true)
		s.Warning = s.Warning.Underline(true)
		s.Error = s.Error.Underline(true)
		s.ButtonOn = s.ButtonOn.Reverse(true)
	}

	return s
}

// DefaultStyles returns styles for the current theme
func DefaultStyles() Styles {
	return NewStyles(Current())
}
