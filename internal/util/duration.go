// Package util provides small parsing helpers shared by shule packages.
package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// ParseDuration accepts everything time.ParseDuration does plus leading
// day and week components, so "1d", "2w" and "1d12h" all parse.
func ParseDuration(s string) (time.Duration, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d, err := time.ParseDuration(in); err == nil {
		return d, nil
	}

	neg := strings.HasPrefix(in, "-")
	rest := strings.TrimLeft(in, "+-")
	var total time.Duration
	for rest != "" {
		i := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' })
		if i <= 0 {
			break
		}
		var unit time.Duration
		switch rest[i] {
		case 'd':
			unit = day
		case 'w':
			unit = week
		}
		if unit == 0 {
			break
		}
		n, err := strconv.Atoi(rest[:i])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		total += time.Duration(n) * unit
		rest = rest[i+1:]
	}

	if rest == strings.TrimLeft(in, "+-") {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if rest != "" {
		d, err := time.ParseDuration(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		total += d
	}
	if neg {
		total = -total
	}
	return total, nil
}

// FormatAge renders an elapsed duration in its largest whole unit,
// e.g. "now", "42s", "5m", "3h", "2d".
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < day:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d/day))
	}
}
