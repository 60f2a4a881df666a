package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shule.log")
	logger, closeFn, err := New(Options{File: path, Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug().Str("component", "status").Msg("status refreshed")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q", data)
	}
	if entry["message"] != "status refreshed" || entry["component"] != "status" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if entry["level"] != "debug" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var console bytes.Buffer
	logger, _, err := New(Options{Level: "WARN", Console: true, Stderr: &console})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	out := console.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn missing from console output: %q", out)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "chatty"}); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestNewWithoutSinks(t *testing.T) {
	logger, closeFn, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	logger.Error().Msg("dropped")
	if err := closeFn(); err != nil {
		t.Error(err)
	}
}
