package cli

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// IsInteractive returns true when the writer is a terminal.
// Full-screen commands and colour output rely on it; in tests or piped
// execution they should not run.
func IsInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
