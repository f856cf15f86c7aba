// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bartekus/todolint/internal/warning"
)

const (
	colorRed     = lipgloss.Color("1")
	colorGreen   = lipgloss.Color("2")
	colorYellow  = lipgloss.Color("3")
	colorMagenta = lipgloss.Color("5")
	colorCyan    = lipgloss.Color("6")
)

type tableStyles struct {
	header  lipgloss.Style
	file    lipgloss.Style
	cell    lipgloss.Style
	line    lipgloss.Style
	format  lipgloss.Style
	overdue lipgloss.Style
	dueSoon lipgloss.Style
}

func newTableStyles(w io.Writer, tty bool) tableStyles {
	r := lipgloss.NewRenderer(w)
	cell := r.NewStyle().Padding(0, 1)
	s := tableStyles{
		header:  cell.Bold(true),
		file:    cell.Bold(true),
		cell:    cell,
		line:    r.NewStyle(),
		format:  r.NewStyle(),
		overdue: r.NewStyle(),
		dueSoon: r.NewStyle(),
	}
	if !tty {
		return s
	}
	s.header = s.header.Foreground(colorGreen)
	s.file = s.file.Foreground(colorCyan)
	s.line = s.line.Foreground(colorYellow)
	s.format = s.format.Foreground(colorMagenta)
	s.overdue = s.overdue.Foreground(colorRed)
	s.dueSoon = s.dueSoon.Foreground(colorYellow)
	return s
}

func (s tableStyles) kind(k warning.Kind) lipgloss.Style {
	switch k {
	case warning.Overdue:
		return s.overdue
	case warning.DueSoon:
		return s.dueSoon
	default:
		return s.format
	}
}

// WriteTable writes one rounded table per file.
func WriteTable(w io.Writer, reports []FileReport, opts Options) error {
	styles := newTableStyles(w, opts.TTY)
	links := opts.TTY && opts.EditorURL != ""

	for _, r := range reports {
		if len(r.Warnings) == 0 {
			continue
		}

		header := r.Path
		if opts.TTY {
			header = truncatePath(r.Path, opts.MaxCommentLength)
		}
		if links {
			header = hyperlink(editorURL(opts, r.Path, 1), header)
		}

		rows := make([][]string, 0, len(r.Warnings))
		for _, wn := range r.Warnings {
			line := strconv.Itoa(wn.Line)
			if links {
				line = hyperlink(editorURL(opts, r.Path, wn.Line), line)
			}
			ks := styles.kind(wn.Kind)
			rows = append(rows, []string{
				styles.line.Render(line),
				ks.Render(label(wn.Kind)),
				ks.Render(dueDate(wn)),
				wn.Owner,
				formatComment(wn.Comment, opts.MaxCommentLength),
			})
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("Line", "Type", "Due Date", "Owner", header).
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					if col == 4 {
						return styles.file
					}
					return styles.header
				}
				return styles.cell
			})

		if _, err := fmt.Fprintln(w, t.Render()); err != nil {
			return err
		}
	}
	return nil
}

// hyperlink wraps text in an OSC 8 terminal hyperlink to url.
func hyperlink(url, text string) string {
	return "\x1b]8;;" + url + "\x1b\\" + text + "\x1b]8;;\x1b\\"
}

// editorURL fills the editor template for a file and line.
func editorURL(opts Options, path string, line int) string {
	file := filepath.FromSlash(path)
	if opts.BaseDir != "" && !filepath.IsAbs(file) {
		file = filepath.Join(opts.BaseDir, file)
	}
	return strings.NewReplacer(
		"%%file%%", filepath.ToSlash(file),
		"%%line%%", strconv.Itoa(line),
	).Replace(opts.EditorURL)
}
