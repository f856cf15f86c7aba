// SPDX-License-Identifier: AGPL-3.0-or-later

/*
todolint - todolint checks TODO and FIXME comments across a codebase.
It reports annotations that do not follow the "TODO: YYYY-MM-DD @owner text" format and annotations whose due date has passed or is near.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bartekus/todolint/cmd/todolint/internal/clierr"
)

// EnvVersion overrides the reported version.
const EnvVersion = "TODOLINT_VERSION"

// NewRootCmd constructs the todolint root Cobra command. Given a config
// path, the root command behaves like `todolint check`.
func NewRootCmd() *cobra.Command {
	version := os.Getenv(EnvVersion)
	if version == "" {
		version = "0.0.0-dev"
	}

	global := &globalOptions{}
	opts := newCheckOptions(global)
	cmd := &cobra.Command{
		Use:   "todolint [config]",
		Short: "Lint TODO and FIXME comments for format and due dates",
		Long: `todolint extracts comments with tree-sitter grammars and checks every TODO
and FIXME annotation against the form "TODO: YYYY-MM-DD @owner text".
Malformed annotations and overdue ones are reported; annotations due
within --due-after days are reported as due soon.`,
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return opts.run(cmd, args[0])
		},
	}
	opts.bind(cmd)
	cmd.SetFlagErrorFunc(flagError)

	// Global flags
	global.bind(cmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of todolint",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "todolint version %s\n", version)
		},
	})
	cmd.AddCommand(newCheckCommand(global))
	cmd.AddCommand(newLanguagesCommand())

	return cmd
}

func flagError(_ *cobra.Command, err error) error {
	return clierr.Usage("invalid flags", err)
}

// usageArgs turns argument validation failures into usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return clierr.Usage("invalid arguments", err)
		}
		return nil
	}
}
