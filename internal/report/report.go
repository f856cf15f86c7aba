// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report selects the warnings a run reports and renders them as a
// terminal table, JSON, Markdown or HTML.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bartekus/todolint/internal/analyzer"
	"github.com/bartekus/todolint/internal/projection"
	"github.com/bartekus/todolint/internal/warning"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// Format names an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported formats in help order.
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatMarkdown, FormatHTML}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == strings.ToLower(s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, s, formatList())
}

func formatList() string {
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// Filter selects which warnings are reported.
type Filter struct {
	// FormatOnly reports Format warnings only.
	FormatOnly bool
	// DueOnly reports Overdue and DueSoon warnings only.
	DueOnly bool
	// DueAfter reports DueSoon warnings due within this many days.
	// Zero hides DueSoon warnings.
	DueAfter int
}

// Allows reports whether w passes the filter.
func (f Filter) Allows(w warning.Warning) bool {
	switch w.Kind {
	case warning.Format:
		return !f.DueOnly
	case warning.Overdue:
		return !f.FormatOnly
	case warning.DueSoon:
		return !f.FormatOnly && f.DueAfter > 0 && w.DaysUntilDue <= f.DueAfter
	default:
		return false
	}
}

// FileReport is the reported warnings of one file, ordered by line.
type FileReport struct {
	Path     string
	Warnings []warning.Warning
}

// Select applies f to the results and groups the surviving warnings by
// file path. Files without reported warnings and failed files are left out.
// Reports are sorted by path.
func Select(results []analyzer.FileResult, f Filter) []FileReport {
	byPath := make(map[string][]warning.Warning)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		for _, w := range r.Warnings {
			if f.Allows(w) {
				byPath[r.Path] = append(byPath[r.Path], w)
			}
		}
	}

	reports := make([]FileReport, 0, len(byPath))
	for _, p := range projection.SortedKeys(byPath) {
		ws := byPath[p]
		warning.Sort(ws)
		reports = append(reports, FileReport{Path: p, Warnings: ws})
	}
	return reports
}

// Count returns the number of warnings across reports.
func Count(reports []FileReport) int {
	n := 0
	for _, r := range reports {
		n += len(r.Warnings)
	}
	return n
}

// Options controls rendering.
type Options struct {
	Format Format
	// MaxCommentLength caps each comment line, in terminal cells.
	// Values <= 0 disable truncation.
	MaxCommentLength int
	// TTY enables colors and hyperlinks in the table format.
	TTY bool
	// EditorURL is the hyperlink template, with %%file%% and %%line%%.
	EditorURL string
	// BaseDir resolves report paths into the absolute paths used in links.
	BaseDir string
}

// Render writes reports to w in opts.Format.
func Render(w io.Writer, reports []FileReport, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return WriteJSON(w, reports)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(reports, opts))
		return err
	case FormatHTML:
		return WriteHTML(w, reports, opts)
	case FormatTable, "":
		return WriteTable(w, reports, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

// label is the human-readable warning type used by table and Markdown output.
func label(k warning.Kind) string {
	switch k {
	case warning.Format:
		return "Format"
	case warning.Overdue:
		return "Overdue"
	case warning.DueSoon:
		return "Due Soon"
	default:
		return k.String()
	}
}

func dueDate(w warning.Warning) string {
	if w.Kind == warning.Format {
		return ""
	}
	return w.Due.Format("2006-01-02")
}
