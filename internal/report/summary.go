// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/bartekus/todolint/internal/warning"
)

// Summary writes a one-line count of the reported warnings, colored when
// color output is enabled.
func Summary(w io.Writer, reports []FileReport, analyzed int) {
	total := Count(reports)
	if total == 0 {
		color.New(color.FgGreen).Fprintf(w, "No warnings in %d %s\n", analyzed, plural(analyzed, "file"))
		return
	}

	counts := map[warning.Kind]int{}
	for _, r := range reports {
		for _, wn := range r.Warnings {
			counts[wn.Kind]++
		}
	}

	var parts []string
	for _, k := range []warning.Kind{warning.Format, warning.Overdue, warning.DueSoon} {
		if counts[k] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[k], strings.ToLower(label(k))))
		}
	}

	color.New(color.FgRed, color.Bold).Fprintf(w, "%d %s in %d of %d %s",
		total, plural(total, "warning"), len(reports), analyzed, plural(analyzed, "file"))
	fmt.Fprintf(w, " (%s)\n", strings.Join(parts, ", "))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
