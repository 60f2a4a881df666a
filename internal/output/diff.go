package output

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffResult compares two renders of the same view.
type DiffResult struct {
	Added      int      `json:"added"`
	Removed    int      `json:"removed"`
	Similarity float64  `json:"similarity"`
	Lines      []string `json:"lines,omitempty"`
}

// Changed reports whether any line differs.
func (d *DiffResult) Changed() bool {
	return d.Added > 0 || d.Removed > 0
}

// ComputeDiff compares two renders line by line. Lines holds the changed
// lines prefixed with "+ " or "- ".
func ComputeDiff(before, after string) *DiffResult {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	res := &DiffResult{}
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			res.Lines = append(res.Lines, prefix+line)
			if d.Type == diffmatchpatch.DiffInsert {
				res.Added++
			} else {
				res.Removed++
			}
		}
	}

	maxLen := max(len(before), len(after))
	res.Similarity = 1
	if maxLen > 0 {
		res.Similarity = 1 - float64(dmp.DiffLevenshtein(diffs))/float64(maxLen)
	}
	return res
}
