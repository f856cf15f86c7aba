// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/bartekus/todolint/cmd/todolint/internal/clierr"
	"github.com/bartekus/todolint/internal/languages"
)

type languageInfo struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
	Queries    []string `json:"queries"`
}

func newLanguagesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the supported languages and their default file extensions",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := languages.Default()
			if err != nil {
				return clierr.Usage("building grammar registry", err)
			}

			infos := make([]languageInfo, 0, len(reg.Names()))
			for _, name := range reg.Names() {
				def, _ := reg.Lookup(name)
				infos = append(infos, languageInfo{
					Name:       def.Name,
					Extensions: def.Extensions,
					Queries:    def.Patterns,
				})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, []string{
					info.Name,
					strings.Join(info.Extensions, ", "),
					strconv.Itoa(len(info.Queries)),
				})
			}
			cell := lipgloss.NewStyle().Padding(0, 1)
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				Headers("Language", "Extensions", "Queries").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return cell.Bold(true)
					}
					return cell
				})
			_, err = fmt.Fprintln(out, t.Render())
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the registry as JSON")

	return cmd
}
