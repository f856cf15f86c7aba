// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bartekus/todolint/cmd/todolint/internal/clierr"
	"github.com/bartekus/todolint/internal/analyzer"
	"github.com/bartekus/todolint/internal/config"
	"github.com/bartekus/todolint/internal/languages"
	"github.com/bartekus/todolint/internal/logging"
	"github.com/bartekus/todolint/internal/projection"
	"github.com/bartekus/todolint/internal/projectroot"
	"github.com/bartekus/todolint/internal/report"
)

type checkOptions struct {
	formatOnly       bool
	dueOnly          bool
	dueAfter         int
	maxCommentLength int
	format           string
	noTTY            bool
	exitZero         bool
	jobs             int
	trackedOnly      bool
	output           string

	global *globalOptions
}

// globalOptions holds the persistent flags of the root command.
type globalOptions struct {
	verbose   bool
	logLevel  string
	logFormat string
}

func (g *globalOptions) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose output (same as --log-level debug)")
	f.StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	f.StringVar(&g.logFormat, "log-format", "text", "log format: text, json or logfmt")
}

func (g *globalOptions) logger(w io.Writer) *log.Logger {
	return logging.NewWithOptions(w, logging.ParseOptions(g.logLevel, g.logFormat, g.verbose))
}

func newCheckOptions(global *globalOptions) *checkOptions {
	return &checkOptions{global: global}
}

func (o *checkOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolVar(&o.formatOnly, "check-format-only", false, "report only malformed annotations")
	f.BoolVar(&o.dueOnly, "check-due-only", false, "report only overdue and due-soon annotations")
	f.IntVar(&o.dueAfter, "due-after", 0, "report annotations due within this many days")
	f.IntVar(&o.maxCommentLength, "max-comment-length", 100, "truncate comment lines wider than this (0 disables)")
	f.StringVar(&o.format, "format", string(report.FormatTable), "output format: table, json, markdown or html")
	f.BoolVar(&o.noTTY, "no-tty", false, "disable colors and hyperlinks")
	f.BoolVar(&o.exitZero, "exit-zero", false, "exit with status 0 even when warnings are reported")
	f.IntVar(&o.jobs, "jobs", runtime.GOMAXPROCS(0), "number of files analyzed concurrently")
	f.BoolVar(&o.trackedOnly, "tracked-only", false, "only analyze files tracked by git")
	f.StringVarP(&o.output, "output", "o", "", "write the report to this file instead of stdout")
}

func newCheckCommand(global *globalOptions) *cobra.Command {
	opts := newCheckOptions(global)
	cmd := &cobra.Command{
		Use:   "check [config]",
		Short: "Check the files selected by a config file",
		Long: `Check loads a TOML or YAML config file, scans the directories its rules
name and reports TODO and FIXME annotations that are malformed, overdue
or due soon. Without a config argument, the nearest todolint.toml,
todolint.yaml or todolint.yml is used, searching upwards from the working
directory to the repository root.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return opts.run(cmd, args[0])
			}
			path, err := projectroot.FindConfig(".")
			if err != nil {
				return clierr.Usage("locating config", err)
			}
			return opts.run(cmd, path)
		},
	}
	opts.bind(cmd)
	return cmd
}

func (o *checkOptions) validate() (report.Format, error) {
	if o.formatOnly && o.dueOnly {
		return "", clierr.New(clierr.ExitUsage, "--check-format-only and --check-due-only are mutually exclusive")
	}
	if o.dueAfter < 0 {
		return "", clierr.Newf(clierr.ExitUsage, "--due-after must not be negative, got %d", o.dueAfter)
	}
	if o.maxCommentLength < 0 {
		return "", clierr.Newf(clierr.ExitUsage, "--max-comment-length must not be negative, got %d", o.maxCommentLength)
	}
	format, err := report.ParseFormat(o.format)
	if err != nil {
		return "", clierr.Usage("invalid --format", err)
	}
	return format, nil
}

func (o *checkOptions) run(cmd *cobra.Command, configPath string) error {
	format, err := o.validate()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	logger := o.global.logger(cmd.ErrOrStderr())

	cfg, err := config.Load(configPath)
	if err != nil {
		return clierr.Usage("loading config", err)
	}
	reg, err := languages.Default()
	if err != nil {
		return clierr.Usage("building grammar registry", err)
	}

	targets, diags := cfg.Targets(ctx, reg, config.TargetOptions{TrackedOnly: o.trackedOnly})
	for _, d := range diags {
		logger.Warn("skipping", "err", d)
	}
	logger.Debug("config loaded", "path", configPath, "rules", len(cfg.Rules), "files", len(targets))

	results := analyzer.New(reg,
		analyzer.WithJobs(o.jobs),
		analyzer.WithLogger(logger),
	).Run(ctx, targets)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("check interrupted: %w", err)
	}

	reports := report.Select(results, report.Filter{
		FormatOnly: o.formatOnly,
		DueOnly:    o.dueOnly,
		DueAfter:   o.dueAfter,
	})

	var buf bytes.Buffer
	err = report.Render(&buf, reports, report.Options{
		Format:           format,
		MaxCommentLength: o.maxCommentLength,
		TTY:              o.tty(cmd.OutOrStdout()),
		EditorURL:        cfg.Parameters.EditorURL,
		BaseDir:          cfg.Dir,
	})
	if err != nil {
		return err
	}
	if err := o.write(cmd.OutOrStdout(), buf.Bytes(), logger); err != nil {
		return err
	}

	report.Summary(cmd.ErrOrStderr(), reports, analyzed(results))

	if n := report.Count(reports); n > 0 && !o.exitZero {
		return clierr.Newf(clierr.ExitWarnings, "%d %s reported", n, plural(n, "warning"))
	}
	return nil
}

// tty reports whether table output should carry colors and hyperlinks.
func (o *checkOptions) tty(out io.Writer) bool {
	if o.noTTY || o.output != "" {
		return false
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (o *checkOptions) write(out io.Writer, content []byte, logger *log.Logger) error {
	if o.output == "" {
		_, err := out.Write(content)
		return err
	}
	if err := projection.AtomicWrite(o.output, content); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	logger.Debug("report written", "path", o.output)
	return nil
}

func analyzed(results []analyzer.FileResult) int {
	n := 0
	for _, r := range results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
