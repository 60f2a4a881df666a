package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/shule/internal/api"
)

// Snapshot is the last successfully fetched academic status.
type Snapshot struct {
	Status     *api.AcademicStatus `json:"status" yaml:"status"`
	ClassCount int                 `json:"class_count" yaml:"class_count"`
	CountKnown bool                `json:"count_known" yaml:"count_known"`
	UpdatedAt  time.Time           `json:"updated_at" yaml:"updated_at"`
}

// Loaded reports whether any status has been fetched yet.
func (s Snapshot) Loaded() bool {
	return s.Status != nil
}

// Age returns how long ago the snapshot was taken, or 0 if never.
func (s Snapshot) Age(now time.Time) time.Duration {
	if s.UpdatedAt.IsZero() {
		return 0
	}
	return now.Sub(s.UpdatedAt)
}

// BadgeKind classifies a badge for styling.
type BadgeKind string

const (
	BadgeOK      BadgeKind = "ok"
	BadgeInfo    BadgeKind = "info"
	BadgeWarning BadgeKind = "warning"
	BadgeMuted   BadgeKind = "muted"
)

// Badge is one header badge derived from a snapshot.
type Badge struct {
	Kind  BadgeKind `json:"kind" yaml:"kind"`
	Label string    `json:"label" yaml:"label"`
}

// Badges derives the header badges. An unloaded snapshot yields a single
// placeholder badge.
func (s Snapshot) Badges() []Badge {
	if !s.Loaded() {
		return []Badge{{Kind: BadgeMuted, Label: "Status unavailable"}}
	}
	st := s.Status

	var badges []Badge
	if !st.SetupComplete {
		badges = append(badges, Badge{Kind: BadgeWarning, Label: "Setup incomplete"})
	}

	if st.AcademicYear != nil {
		kind := BadgeInfo
		if !st.AcademicYear.Active() {
			kind = BadgeMuted
		}
		badges = append(badges, Badge{Kind: kind, Label: st.AcademicYear.Label()})
	} else {
		badges = append(badges, Badge{Kind: BadgeWarning, Label: "No academic year"})
	}

	if st.ActiveTerm != nil {
		badges = append(badges, Badge{Kind: BadgeOK, Label: st.ActiveTerm.Label()})
	} else {
		badges = append(badges, Badge{Kind: BadgeWarning, Label: "No active term"})
	}

	if s.CountKnown {
		badges = append(badges, Badge{Kind: BadgeInfo, Label: classLabel(s.ClassCount)})
	}
	return badges
}

// Warnings returns the server-provided warnings, if any.
func (s Snapshot) Warnings() []string {
	if s.Status == nil {
		return nil
	}
	return s.Status.Warnings
}

func classLabel(n int) string {
	if n == 1 {
		return "1 class"
	}
	return fmt.Sprintf("%d classes", n)
}

// CheckItem is one line of the setup checklist.
type CheckItem struct {
	Label  string `json:"label" yaml:"label"`
	Done   bool   `json:"done" yaml:"done"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Checklist lists the setup steps a school goes through and whether each
// is done. An unloaded snapshot has no checklist.
func (s Snapshot) Checklist() []CheckItem {
	if !s.Loaded() {
		return nil
	}
	st := s.Status

	year := CheckItem{Label: "Academic year created"}
	if st.AcademicYear != nil {
		year.Done = true
		year.Detail = st.AcademicYear.Label()
		if st.AcademicYear.State != "" {
			year.Detail += " (" + strings.ToLower(st.AcademicYear.State) + ")"
		}
	}

	term := CheckItem{Label: "Term active"}
	if st.ActiveTerm != nil {
		term.Done = true
		term.Detail = st.ActiveTerm.Label()
		if st.ActiveTerm.StartDate != "" && st.ActiveTerm.EndDate != "" {
			term.Detail += ", " + st.ActiveTerm.StartDate + " to " + st.ActiveTerm.EndDate
		}
	}

	classes := CheckItem{Label: "Classes added", Done: st.HasClasses}
	if s.CountKnown {
		classes.Done = st.HasClasses || s.ClassCount > 0
		classes.Detail = classLabel(s.ClassCount)
	}

	setup := CheckItem{Label: "Setup complete", Done: st.SetupComplete}
	return []CheckItem{year, term, classes, setup}
}
