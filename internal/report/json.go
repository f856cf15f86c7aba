// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bartekus/todolint/internal/warning"
)

type jsonWarning struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	Type         string `json:"type"`
	DueDate      string `json:"due_date,omitempty"`
	Owner        string `json:"owner,omitempty"`
	Comment      string `json:"comment"`
	DaysUntilDue *int   `json:"days_until_due,omitempty"`
}

func jsonType(k warning.Kind) string {
	if k == warning.Format {
		return "InvalidFormat"
	}
	return k.String()
}

// WriteJSON writes every warning as one element of a pretty-printed array.
func WriteJSON(w io.Writer, reports []FileReport) error {
	out := make([]jsonWarning, 0, Count(reports))
	for _, r := range reports {
		for _, wn := range r.Warnings {
			jw := jsonWarning{
				File:    r.Path,
				Line:    wn.Line,
				Type:    jsonType(wn.Kind),
				DueDate: dueDate(wn),
				Owner:   wn.Owner,
				Comment: wn.Comment,
			}
			if wn.Kind == warning.DueSoon {
				days := wn.DaysUntilDue
				jw.DaysUntilDue = &days
			}
			out = append(out, jw)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding json report: %w", err)
	}
	return nil
}
