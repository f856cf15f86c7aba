// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/bartekus/todolint/internal/projection"
	"github.com/bartekus/todolint/internal/warning"
)

// Title heads Markdown and HTML reports.
const Title = "TODO report"

// Markdown renders the reports as a Markdown document with one table per
// file and a closing summary list.
func Markdown(reports []FileReport, opts Options) string {
	var b strings.Builder
	b.WriteString(projection.RenderHeader(1, Title))

	if len(reports) == 0 {
		b.WriteString("No warnings.\n")
		return b.String()
	}

	for _, r := range reports {
		b.WriteString(projection.RenderHeader(2, "`"+r.Path+"`"))
		rows := make([][]string, 0, len(r.Warnings))
		for _, w := range r.Warnings {
			rows = append(rows, []string{
				strconv.Itoa(w.Line),
				label(w.Kind),
				dueDate(w),
				w.Owner,
				formatComment(w.Comment, opts.MaxCommentLength),
			})
		}
		b.WriteString(projection.RenderTable([]string{"Line", "Type", "Due Date", "Owner", "Comment"}, rows))
		b.WriteString("\n")
	}

	b.WriteString(projection.RenderHeader(2, "Summary"))
	b.WriteString(projection.RenderList(summaryItems(reports)))
	return b.String()
}

func summaryItems(reports []FileReport) []string {
	counts := map[warning.Kind]int{}
	for _, r := range reports {
		for _, w := range r.Warnings {
			counts[w.Kind]++
		}
	}
	return []string{
		fmt.Sprintf("Files: %d", len(reports)),
		fmt.Sprintf("Format: %d", counts[warning.Format]),
		fmt.Sprintf("Overdue: %d", counts[warning.Overdue]),
		fmt.Sprintf("Due Soon: %d", counts[warning.DueSoon]),
	}
}

var htmlConverter = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	// Cells are escaped by projection.EscapeCell; the only raw HTML left
	// is the <br> used for multi-line comments.
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// WriteHTML renders the Markdown report as a standalone HTML page.
func WriteHTML(w io.Writer, reports []FileReport, opts Options) error {
	var body bytes.Buffer
	if err := htmlConverter.Convert([]byte(Markdown(reports, opts)), &body); err != nil {
		return fmt.Errorf("converting report to html: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	page.WriteString("<title>" + Title + "</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	_, err := w.Write(page.Bytes())
	return err
}
