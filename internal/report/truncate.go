// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// formatComment trims every line of a multi-line comment and cuts lines
// wider than limit cells, appending an ellipsis.
func formatComment(comment string, limit int) string {
	lines := strings.Split(comment, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if limit > 0 && runewidth.StringWidth(line) > limit {
			line = runewidth.Truncate(line, limit, "") + ellipsis
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// truncatePath keeps the last limit cells of p behind an ellipsis.
func truncatePath(p string, limit int) string {
	w := runewidth.StringWidth(p)
	if limit <= 0 || w <= limit {
		return p
	}
	return ellipsis + runewidth.TruncateLeft(p, w-limit, "")
}
