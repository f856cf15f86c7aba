// SPDX-License-Identifier: AGPL-3.0-or-later

package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/todolint/internal/extract"
	"github.com/bartekus/todolint/internal/languages"
	"github.com/bartekus/todolint/internal/warning"
)

var fixedNow = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

func newAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()
	reg, err := languages.Default()
	require.NoError(t, err)
	opts = append([]Option{
		WithNow(func() time.Time { return fixedNow }),
		WithLocation(time.UTC),
	}, opts...)
	return New(reg, opts...)
}

func analyze(t *testing.T, a *Analyzer, lang, src string) []warning.Warning {
	t.Helper()
	ext := a.NewExtractor()
	defer ext.Close()
	ws, err := a.AnalyzeSource(context.Background(), ext, lang, []byte(src), fixedNow)
	require.NoError(t, err)
	return ws
}

func TestScenarios(t *testing.T) {
	a := newAnalyzer(t)

	t.Run("overdue", func(t *testing.T) {
		src := "import os\n\n\n\n# TODO: 2020-01-01 @bob old task\n"
		ws := analyze(t, a, "python", src)
		require.Len(t, ws, 1)
		assert.Equal(t, warning.Overdue, ws[0].Kind)
		assert.Equal(t, 5, ws[0].Line)
		assert.Equal(t, "bob", ws[0].Owner)
	})

	t.Run("format", func(t *testing.T) {
		ws := analyze(t, a, "python", "# TODO fix later\n")
		require.Len(t, ws, 1)
		assert.Equal(t, warning.Format, ws[0].Kind)
		assert.True(t, ws[0].Due.IsZero())
		assert.Empty(t, ws[0].Owner)
		assert.Equal(t, "# TODO fix later", ws[0].Comment)
	})

	t.Run("due soon", func(t *testing.T) {
		ws := analyze(t, a, "javascript", "// FIXME: 2999-12-31 @carol future task\nlet x = 1;\n")
		require.Len(t, ws, 1)
		assert.Equal(t, warning.DueSoon, ws[0].Kind)
		assert.Equal(t, "carol", ws[0].Owner)
		assert.Greater(t, ws[0].DaysUntilDue, 300000)
	})

	t.Run("no marker", func(t *testing.T) {
		assert.Empty(t, analyze(t, a, "python", "# just a note\nx = 1\n"))
	})
}

func TestAnalyzeSource_OrderedByLine(t *testing.T) {
	a := newAnalyzer(t)
	// Docstring queries run after the comment query, so line order comes
	// from sorting.
	src := `"""TODO: module level"""
# TODO: 2020-01-01 @a first comment


def f():
    """FIXME: 2025-03-20 @b in docstring"""
    # todo plain
    return 1
`
	ws := analyze(t, a, "python", src)
	require.Len(t, ws, 4)

	lines := make([]int, len(ws))
	for i, w := range ws {
		lines[i] = w.Line
	}
	assert.Equal(t, []int{1, 2, 6, 7}, lines)

	assert.Equal(t, warning.Format, ws[0].Kind)
	assert.Equal(t, warning.Overdue, ws[1].Kind)
	assert.Equal(t, warning.DueSoon, ws[2].Kind)
	assert.Equal(t, 5, ws[2].DaysUntilDue)
	assert.Equal(t, warning.Format, ws[3].Kind)
}

func TestAnalyzeSource_OneWarningPerComment(t *testing.T) {
	a := newAnalyzer(t)
	ws := analyze(t, a, "go", "package p\n\n/* TODO one\n   FIXME two\n   @todo three */\n")
	require.Len(t, ws, 1)
	assert.Equal(t, 3, ws[0].Line)
}

func TestAnalyzeSource_Idempotent(t *testing.T) {
	a := newAnalyzer(t)
	src := "// TODO: 2020-01-01 @a x\nfn main() {}\n// TODO y\n"
	first := analyze(t, a, "rust", src)
	second := analyze(t, a, "rust", src)
	assert.Equal(t, first, second)
}

func TestAnalyzeSource_Errors(t *testing.T) {
	a := newAnalyzer(t)
	ext := a.NewExtractor()
	defer ext.Close()
	ctx := context.Background()

	_, err := a.AnalyzeSource(ctx, ext, "go", []byte{0xff, 0xfe, 0x00}, fixedNow)
	assert.ErrorIs(t, err, ErrIO)

	_, err = a.AnalyzeSource(ctx, ext, "cobol", []byte("x"), fixedNow)
	assert.ErrorIs(t, err, extract.ErrUnsupportedLanguage)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	targets := []Target{
		{Path: write("a.go", "package a\n// TODO: 2020-01-01 @bob old\n"), Display: "a.go", Language: "go"},
		{Path: filepath.Join(dir, "missing.go"), Display: "missing.go", Language: "go"},
		{Path: write("b.py", "# TODO later\n"), Display: "b.py", Language: "python"},
		{Path: write("c.xyz", "whatever"), Display: "c.xyz", Language: "cobol"},
		{Path: write("d.rb", "# FIXME: 2999-01-01 @eve later\n"), Display: "d.rb", Language: "ruby"},
	}

	a := newAnalyzer(t, WithJobs(2))
	results := a.Run(context.Background(), targets)
	require.Len(t, results, len(targets))

	assert.Equal(t, "a.go", results[0].Path)
	require.NoError(t, results[0].Err)
	require.Len(t, results[0].Warnings, 1)
	assert.Equal(t, warning.Overdue, results[0].Warnings[0].Kind)

	assert.ErrorIs(t, results[1].Err, ErrIO)

	require.NoError(t, results[2].Err)
	require.Len(t, results[2].Warnings, 1)
	assert.Equal(t, warning.Format, results[2].Warnings[0].Kind)

	assert.ErrorIs(t, results[3].Err, extract.ErrUnsupportedLanguage)

	require.NoError(t, results[4].Err)
	require.Len(t, results[4].Warnings, 1)
	assert.Equal(t, warning.DueSoon, results[4].Warnings[0].Kind)
}

func TestRun_SizeCeiling(t *testing.T) {
	p := filepath.Join(t.TempDir(), "big.go")
	require.NoError(t, os.WriteFile(p, []byte("package big\n// TODO x\n"), 0o644))

	a := newAnalyzer(t, WithExtractOptions(extract.WithMaxSourceBytes(8)))
	results := a.Run(context.Background(), []Target{{Path: p, Display: "big.go", Language: "go"}})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, extract.ErrParseFailure)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newAnalyzer(t)
	results := a.Run(ctx, []Target{{Path: "x.go", Display: "x.go", Language: "go"}})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestRun_Empty(t *testing.T) {
	assert.Empty(t, newAnalyzer(t).Run(context.Background(), nil))
}
