package output

import "io"

// Result represents a command result that can be output in multiple formats
type Result interface {
	// Text writes the human-readable representation
	Text(w io.Writer) error
	// Data returns the value serialized for JSON and YAML
	Data() any
}

// Output writes a Result in the appropriate format
func (f *Formatter) Output(r Result) error {
	return f.OutputData(r.Data(), r.Text)
}

// OutputData writes data as JSON/YAML, or calls textFn in text mode.
func (f *Formatter) OutputData(data any, textFn func(w io.Writer) error) error {
	switch f.format {
	case FormatJSON:
		return f.JSON(data)
	case FormatYAML:
		return f.YAML(data)
	default:
		return textFn(f.writer)
	}
}
