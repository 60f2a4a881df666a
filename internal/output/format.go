// Package output formats command results as text, JSON or YAML.
// Every non-interactive command writes through a Formatter so the three
// formats stay consistent.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// EnvFormat selects the default format when no flag is given.
const EnvFormat = "SHULE_OUTPUT_FORMAT"

// Format represents the output format type
type Format int

const (
	// FormatText is human-readable formatted text (default)
	FormatText Format = iota
	// FormatJSON is machine-readable JSON output
	FormatJSON
	// FormatYAML is YAML output
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "text"
	}
}

// ParseFormat parses a format name. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return FormatText, fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// Formatter handles output formatting for commands
type Formatter struct {
	format Format
	writer io.Writer
	pretty bool // For JSON: whether to indent
}

// New creates a new Formatter with the given options
func New(opts ...Option) *Formatter {
	f := &Formatter{
		format: FormatText,
		writer: os.Stdout,
		pretty: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Option is a functional option for Formatter
type Option func(*Formatter)

// WithFormat sets the output format
func WithFormat(format Format) Option {
	return func(f *Formatter) {
		f.format = format
	}
}

// WithWriter sets the output writer
func WithWriter(w io.Writer) Option {
	return func(f *Formatter) {
		f.writer = w
	}
}

// WithPretty sets whether JSON should be indented
func WithPretty(pretty bool) Option {
	return func(f *Formatter) {
		f.pretty = pretty
	}
}

// Format returns the current output format
func (f *Formatter) Format() Format {
	return f.format
}

// IsText reports whether output is human-readable text.
func (f *Formatter) IsText() bool {
	return f.format == FormatText
}

// Writer returns the output writer
func (f *Formatter) Writer() io.Writer {
	return f.writer
}

// DetectFormat determines the output format.
// Priority: --json > --yaml > SHULE_OUTPUT_FORMAT > text.
// Unlike the interactive shell, piping alone does not switch to JSON; the
// text renderer drops colour when stdout is not a terminal.
func DetectFormat(jsonFlag, yamlFlag bool) (Format, error) {
	switch {
	case jsonFlag:
		return FormatJSON, nil
	case yamlFlag:
		return FormatYAML, nil
	}
	if env := os.Getenv(EnvFormat); env != "" {
		return ParseFormat(env)
	}
	return FormatText, nil
}

// IsTerminal returns true if stdout is a terminal
func IsTerminal() bool {
	return isTTY(os.Stdout)
}

func isTTY(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
