package output

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yml", FormatYAML, false},
		{" yaml ", FormatYAML, false},
		{"xml", FormatText, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestFormatString(t *testing.T) {
	for f, want := range map[Format]string{FormatText: "text", FormatJSON: "json", FormatYAML: "yaml"} {
		if got := f.String(); got != want {
			t.Errorf("Format.String() = %v, want %v", got, want)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	t.Setenv(EnvFormat, "")
	if f, _ := DetectFormat(false, false); f != FormatText {
		t.Errorf("default = %v", f)
	}
	if f, _ := DetectFormat(true, true); f != FormatJSON {
		t.Errorf("--json should win, got %v", f)
	}

	t.Setenv(EnvFormat, "yaml")
	if f, _ := DetectFormat(false, false); f != FormatYAML {
		t.Errorf("env = %v", f)
	}
	if f, _ := DetectFormat(true, false); f != FormatJSON {
		t.Errorf("flag should override env, got %v", f)
	}

	t.Setenv(EnvFormat, "csv")
	if _, err := DetectFormat(false, false); err == nil {
		t.Error("expected error for unknown env format")
	}
}

type school struct {
	Name      string `json:"name"`
	ShortCode string `json:"short_code,omitempty"`
}

func TestOutputDataFormats(t *testing.T) {
	data := school{Name: "Imara", ShortCode: "IPS"}
	text := func(w io.Writer) error {
		_, err := io.WriteString(w, "Imara (IPS)\n")
		return err
	}

	var buf bytes.Buffer
	if err := New(WithWriter(&buf)).OutputData(data, text); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Imara (IPS)\n" {
		t.Errorf("text = %q", buf.String())
	}

	buf.Reset()
	if err := New(WithFormat(FormatJSON), WithWriter(&buf)).OutputData(data, text); err != nil {
		t.Fatal(err)
	}
	var decoded school
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil || decoded != data {
		t.Errorf("json = %q (%v)", buf.String(), err)
	}

	buf.Reset()
	if err := New(WithFormat(FormatYAML), WithWriter(&buf)).OutputData(data, text); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "name: Imara\nshort_code: IPS\n" {
		t.Errorf("yaml = %q", got)
	}
}

func TestCompactJSON(t *testing.T) {
	var buf bytes.Buffer
	f := New(WithFormat(FormatJSON), WithWriter(&buf), WithPretty(false))
	if err := f.JSON(map[string]int{"total": 3}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\"total\":3}\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestFormatCLIErrorPlain(t *testing.T) {
	e := NewCLIError("could not load academic status").
		WithCode("UNAUTHORIZED").
		WithCause("HTTP 401").
		WithHint(HintTokenRejected)

	got := formatCLIError(e, false)
	want := "Error: could not load academic status [UNAUTHORIZED]\n" +
		"  Cause: HTTP 401\n" +
		"  Hint: " + HintTokenRejected + "\n"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}

	if got := formatCLIError(NewCLIError("boom"), false); got != "Error: boom\n" {
		t.Errorf("minimal = %q", got)
	}
}

func TestWriteErrorFormats(t *testing.T) {
	e := NewCLIError("no active school").WithHint(HintNoSchool)

	var out, stderr bytes.Buffer
	f := New(WithFormat(FormatJSON), WithWriter(&out))
	if err := f.writeError(e, &stderr, false); err != nil {
		t.Fatal(err)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", out.String(), err)
	}
	if resp.Error != "no active school" || resp.Hint != HintNoSchool {
		t.Errorf("resp = %+v", resp)
	}
	if stderr.Len() != 0 {
		t.Error("JSON errors should not touch stderr")
	}

	out.Reset()
	f = New(WithWriter(&out))
	if err := f.writeError(e, &stderr, false); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 || !strings.HasPrefix(stderr.String(), "Error: no active school") {
		t.Errorf("stdout=%q stderr=%q", out.String(), stderr.String())
	}
}

func TestSuccessJSON(t *testing.T) {
	var buf bytes.Buffer
	f := New(WithFormat(FormatJSON), WithWriter(&buf))
	if err := f.Success("Created Imara", school{Name: "Imara"}, OnboardSuggestions("s-1")...); err != nil {
		t.Fatal(err)
	}
	var resp struct {
		Success     bool         `json:"success"`
		Message     string       `json:"message"`
		Data        school       `json:"data"`
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Data.Name != "Imara" || len(resp.Suggestions) != 3 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestSuccessText(t *testing.T) {
	var buf bytes.Buffer
	if err := New(WithWriter(&buf)).Success("Refresh signalled", nil, RefreshSuggestions()...); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "✓ Refresh signalled\n") {
		t.Errorf("got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "What's next?") {
		t.Error("footer should render for non-file writers")
	}
}

func TestTableAlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "NAME", "ROLE")
	tbl.AddRow("Imara", "admin")
	tbl.AddRow("学校", "teacher")
	tbl.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "  NAME   ROLE" || lines[1] != "  -----  -------" {
		t.Errorf("header = %q / %q", lines[0], lines[1])
	}
	if lines[3] != "  学校   teacher" {
		t.Errorf("wide row = %q", lines[3])
	}
}

func TestCountStr(t *testing.T) {
	if got := CountStr(1, "class", "classes"); got != "1 class" {
		t.Errorf("got %q", got)
	}
	if got := CountStr(4, "class", "classes"); got != "4 classes" {
		t.Errorf("got %q", got)
	}
}

func TestComputeDiff(t *testing.T) {
	before := "Academic year: AY 2026\nTerm: none\nClasses: 0\n"
	after := "Academic year: AY 2026\nTerm: Term 1\nClasses: 0\n"

	d := ComputeDiff(before, after)
	if !d.Changed() || d.Added != 1 || d.Removed != 1 {
		t.Fatalf("diff = %+v", d)
	}
	if strings.Join(d.Lines, "|") != "- Term: none|+ Term: Term 1" {
		t.Errorf("lines = %q", d.Lines)
	}
	if d.Similarity <= 0 || d.Similarity >= 1 {
		t.Errorf("similarity = %v", d.Similarity)
	}

	same := ComputeDiff(before, before)
	if same.Changed() || same.Similarity != 1 {
		t.Errorf("identical renders = %+v", same)
	}
}
