// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analyzer runs the per-file pipeline: extract comments, decode
// annotations, classify them and order the warnings by line.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/bartekus/todolint/internal/annotation"
	"github.com/bartekus/todolint/internal/extract"
	"github.com/bartekus/todolint/internal/languages"
	"github.com/bartekus/todolint/internal/warning"
)

// ErrIO marks a file whose content could not be read as UTF-8 text.
var ErrIO = errors.New("io error")

// Target is one file to analyze.
type Target struct {
	// Path is where the file is read from.
	Path string
	// Display is the path shown in reports.
	Display  string
	Language string
}

// FileResult holds the ordered warnings for one file, or the error that
// stopped its analysis.
type FileResult struct {
	Path     string
	Language string
	Warnings []warning.Warning
	Err      error
}

// Analyzer holds the shared, read-only state of a run.
type Analyzer struct {
	reg         *languages.Registry
	parser      *annotation.Parser
	now         func() time.Time
	jobs        int
	logger      *log.Logger
	extractOpts []extract.Option
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithNow sets the clock used to pick the evaluation instant.
func WithNow(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithLocation sets the zone due dates are anchored in.
func WithLocation(loc *time.Location) Option {
	return func(a *Analyzer) { a.parser = annotation.NewParser(annotation.WithLocation(loc)) }
}

// WithJobs bounds the number of files analyzed concurrently.
// Values <= 0 mean GOMAXPROCS.
func WithJobs(n int) Option {
	return func(a *Analyzer) { a.jobs = n }
}

// WithLogger sets the logger for per-file diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithExtractOptions passes options to every extractor the analyzer creates.
func WithExtractOptions(opts ...extract.Option) Option {
	return func(a *Analyzer) { a.extractOpts = append(a.extractOpts, opts...) }
}

// New creates an Analyzer over reg.
func New(reg *languages.Registry, opts ...Option) *Analyzer {
	a := &Analyzer{
		reg:    reg,
		parser: annotation.NewParser(),
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.jobs <= 0 {
		a.jobs = runtime.GOMAXPROCS(0)
	}
	return a
}

// NewExtractor returns an extractor configured like the ones Run uses.
func (a *Analyzer) NewExtractor() *extract.Extractor {
	return extract.New(a.reg, a.extractOpts...)
}

// AnalyzeSource produces the ordered warnings for one file's content.
func (a *Analyzer) AnalyzeSource(ctx context.Context, ext *extract.Extractor, lang string, src []byte, now time.Time) ([]warning.Warning, error) {
	if !utf8.Valid(src) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8", ErrIO)
	}

	comments, err := ext.Extract(ctx, lang, src)
	if err != nil {
		return nil, err
	}
	comments = extract.Dedupe(comments)

	var ws []warning.Warning
	for _, c := range comments {
		ann, ok := a.parser.Parse(c)
		if !ok {
			continue
		}
		ws = append(ws, warning.Classify(ann, now))
	}
	warning.Sort(ws)
	return ws, nil
}

// AnalyzeFile reads and analyzes one target.
func (a *Analyzer) AnalyzeFile(ctx context.Context, ext *extract.Extractor, t Target, now time.Time) FileResult {
	res := FileResult{Path: t.Display, Language: t.Language}
	if res.Path == "" {
		res.Path = t.Path
	}

	src, err := os.ReadFile(t.Path)
	if err != nil {
		res.Err = fmt.Errorf("%w: %v", ErrIO, err)
		return res
	}

	res.Warnings, res.Err = a.AnalyzeSource(ctx, ext, t.Language, src, now)
	return res
}

// Run analyzes every target concurrently and returns results in target
// order. All files share one evaluation instant. A failing file is reported
// in its FileResult and does not stop the others.
func (a *Analyzer) Run(ctx context.Context, targets []Target) []FileResult {
	results := make([]FileResult, len(targets))
	if len(targets) == 0 {
		return results
	}

	now := a.now()
	a.logger.Debug("analyzing", "files", len(targets), "jobs", a.jobs, "now", now.Format(time.RFC3339))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(a.jobs, len(targets)))

	for i, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = FileResult{Path: t.Display, Language: t.Language, Err: err}
				return nil
			}

			ext := a.NewExtractor()
			defer ext.Close()

			results[i] = a.AnalyzeFile(gctx, ext, t, now)
			if err := results[i].Err; err != nil {
				a.logger.Warn("skipping file", "path", results[i].Path, "err", err)
				return nil
			}
			a.logger.Debug("analyzed", "path", results[i].Path, "warnings", len(results[i].Warnings))
			return nil
		})
	}
	_ = g.Wait()

	return results
}
