// Package icons provides the glyphs used by the header and status views.
package icons

import (
	"os"
	"reflect"
	"strings"
)

// IconSet holds every glyph the UI draws.
type IconSet struct {
	School   string
	User     string
	Sidebar  string
	Menu     string
	Refresh  string
	Calendar string
	Term     string
	Classes  string

	// Status
	Check   string
	Cross   string
	Warning string
	Info    string
	Dot     string
	Clock   string

	// Navigation
	Pointer string
	Arrow   string
	Help    string
}

// Unicode uses glyphs that render in any UTF-8 terminal.
var Unicode = IconSet{
	School:   "⌂",
	User:     "●",
	Sidebar:  "☰",
	Menu:     "▾",
	Refresh:  "↻",
	Calendar: "▦",
	Term:     "◔",
	Classes:  "▤",

	Check:   "✓",
	Cross:   "✗",
	Warning: "⚠",
	Info:    "ℹ",
	Dot:     "•",
	Clock:   "◷",

	Pointer: "▸",
	Arrow:   "→",
	Help:    "?",
}

// ASCII is the fallback for terminals without UTF-8.
var ASCII = IconSet{
	School:   "#",
	User:     "@",
	Sidebar:  "=",
	Menu:     "v",
	Refresh:  "~",
	Calendar: "Y",
	Term:     "T",
	Classes:  "C",

	Check:   "+",
	Cross:   "x",
	Warning: "!",
	Info:    "i",
	Dot:     "*",
	Clock:   "@",

	Pointer: ">",
	Arrow:   "->",
	Help:    "?",
}

// ForKind maps a status badge kind to its glyph.
func (i IconSet) ForKind(kind string) string {
	switch kind {
	case "ok":
		return i.Check
	case "warning":
		return i.Warning
	case "error":
		return i.Cross
	case "info":
		return i.Info
	default:
		return i.Dot
	}
}

// WithFallback fills empty glyphs from fallback.
func (i IconSet) WithFallback(fallback IconSet) IconSet {
	if reflect.DeepEqual(i, fallback) {
		return i
	}

	out := i
	dst := reflect.ValueOf(&out).Elem()
	fb := reflect.ValueOf(fallback)

	for idx := 0; idx < dst.NumField(); idx++ {
		f := dst.Field(idx)
		if f.Kind() != reflect.String || f.String() != "" {
			continue
		}
		f.SetString(fb.Field(idx).String())
	}

	return out
}

// Detect picks a set from SHULE_ICONS ("unicode", "ascii" or "auto").
// Auto checks the locale for UTF-8.
func Detect() IconSet {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SHULE_ICONS"))) {
	case "ascii", "none":
		return ASCII
	case "unicode", "utf8", "utf-8":
		return Unicode
	}
	if utf8Locale() {
		return Unicode
	}
	return ASCII
}

func utf8Locale() bool {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		v = strings.ToLower(v)
		return strings.Contains(v, "utf-8") || strings.Contains(v, "utf8")
	}
	return false
}

// Current returns the detected icon set with ASCII filling any gaps.
func Current() IconSet {
	return Detect().WithFallback(ASCII)
}
