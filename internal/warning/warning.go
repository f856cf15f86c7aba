// SPDX-License-Identifier: AGPL-3.0-or-later

// Package warning classifies annotations against an evaluation instant and
// orders the resulting warnings per file.
package warning

import (
	"sort"
	"time"

	"github.com/bartekus/todolint/internal/annotation"
)

// Kind is the warning variant.
type Kind int

const (
	// Format: a marker is present but the annotation is not well-formed.
	Format Kind = iota
	// Overdue: the due date is strictly before the evaluation instant.
	Overdue
	// DueSoon: the due date is at or after the evaluation instant.
	DueSoon
)

func (k Kind) String() string {
	switch k {
	case Format:
		return "Format"
	case Overdue:
		return "Overdue"
	case DueSoon:
		return "DueSoon"
	default:
		return "Unknown"
	}
}

// Warning is the outcome for one marker comment.
// Due and Owner are set for Overdue and DueSoon; DaysUntilDue only for DueSoon.
type Warning struct {
	Kind         Kind
	Line         int
	Comment      string
	Due          time.Time
	Owner        string
	DaysUntilDue int
}

// Classify assigns a warning kind to a. It is pure and never fails.
func Classify(a annotation.Annotation, now time.Time) Warning {
	if !a.WellFormed {
		return Warning{Kind: Format, Line: a.Line, Comment: a.Comment}
	}

	w := Warning{
		Kind:    DueSoon,
		Line:    a.Line,
		Comment: a.Comment,
		Due:     a.Due,
		Owner:   a.Owner,
	}
	if a.Due.Before(now) {
		w.Kind = Overdue
		return w
	}
	w.DaysUntilDue = DaysBetween(now, a.Due)
	return w
}

// DaysBetween returns the number of calendar days from a to b, each read in
// its own location. Time of day does not count.
func DaysBetween(a, b time.Time) int {
	return civilDay(b) - civilDay(a)
}

func civilDay(t time.Time) int {
	y, m, d := t.Date()
	// Unix days of the civil date; UTC avoids DST-length days.
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// Sort orders warnings by line, keeping the input order for equal lines.
func Sort(ws []Warning) {
	sort.SliceStable(ws, func(i, j int) bool {
		return ws[i].Line < ws[j].Line
	})
}
