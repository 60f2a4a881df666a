package output

import (
	"encoding/json"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// JSON outputs data as JSON to the formatter's writer
func (f *Formatter) JSON(v any) error {
	return WriteJSON(f.writer, v, f.pretty)
}

// YAML outputs data as YAML to the formatter's writer
func (f *Formatter) YAML(v any) error {
	return WriteYAML(f.writer, v)
}

// WriteJSON writes data as JSON to the given writer
func WriteJSON(w io.Writer, v any, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// WriteYAML writes data as YAML to the given writer. Values are passed
// through JSON first so yaml keys follow the json struct tags.
func WriteYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// FormatTime formats a time for JSON output as ISO 8601
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
