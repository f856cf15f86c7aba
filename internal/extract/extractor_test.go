// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/todolint/internal/languages"
)

func newExtractor(t *testing.T, opts ...Option) *Extractor {
	t.Helper()
	reg, err := languages.Default()
	require.NoError(t, err)
	e := New(reg, opts...)
	t.Cleanup(e.Close)
	return e
}

func TestExtract_Go(t *testing.T) {
	src := `package main

// TODO: 2020-01-01 @bob old task
func main() {
	/* FIXME later */
	x := "// not a comment"
	_ = x
}
`
	got, err := newExtractor(t).Extract(context.Background(), "go", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []Comment{
		{Text: "// TODO: 2020-01-01 @bob old task", Line: 3},
		{Text: "/* FIXME later */", Line: 5},
	}, got)
}

func TestExtract_MultilineBlockStartsAtFirstLine(t *testing.T) {
	src := "int main(void) {\n  return 0;\n}\n\n/*\n * TODO fix\n */\n"
	got, err := newExtractor(t).Extract(context.Background(), "c", []byte(src))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Line)
	assert.Equal(t, "/*\n * TODO fix\n */", got[0].Text)
}

func TestExtract_PythonDocstrings(t *testing.T) {
	src := `"""Module doc"""
# a comment


class A:
    """class doc"""

    def f(self):
        """func doc"""
        return 1
`
	got, err := newExtractor(t).Extract(context.Background(), "python", []byte(src))
	require.NoError(t, err)
	// Query order: plain comments, then module, class and function docstrings.
	assert.Equal(t, []Comment{
		{Text: "# a comment", Line: 2},
		{Text: `"""Module doc"""`, Line: 1},
		{Text: `"""class doc"""`, Line: 6},
		{Text: `"""func doc"""`, Line: 9},
	}, got)
}

func TestExtract_RustLineAndBlock(t *testing.T) {
	src := "// TODO: 2999-12-31 @carol future task\nfn main() {}\n/* block */\n"
	got, err := newExtractor(t).Extract(context.Background(), "rust", []byte(src))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "// TODO: 2999-12-31 @carol future task", got[0].Text)
	assert.Equal(t, 1, got[0].Line)
	assert.Equal(t, "/* block */", got[1].Text)
	assert.Equal(t, 3, got[1].Line)
}

func TestExtract_ReusesParserAcrossLanguages(t *testing.T) {
	e := newExtractor(t)
	ctx := context.Background()

	got, err := e.Extract(ctx, "bash", []byte("# one\necho hi\n"))
	require.NoError(t, err)
	assert.Equal(t, []Comment{{Text: "# one", Line: 1}}, got)

	got, err = e.Extract(ctx, "javascript", []byte("let a = 1; // two\n"))
	require.NoError(t, err)
	assert.Equal(t, []Comment{{Text: "// two", Line: 1}}, got)

	got, err = e.Extract(ctx, "bash", []byte("\n# three\n"))
	require.NoError(t, err)
	assert.Equal(t, []Comment{{Text: "# three", Line: 2}}, got)
}

func TestExtract_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := newExtractor(t).Extract(ctx, "cobol", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)

	_, err = newExtractor(t, WithMaxSourceBytes(4)).Extract(ctx, "go", []byte("package main\n"))
	assert.ErrorIs(t, err, ErrParseFailure)
}

func TestExtract_Idempotent(t *testing.T) {
	src := []byte("package p\n// a\n// b\n")
	e := newExtractor(t)
	first, err := e.Extract(context.Background(), "go", src)
	require.NoError(t, err)
	second, err := e.Extract(context.Background(), "go", src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDedupe(t *testing.T) {
	in := []Comment{
		{Text: "# a", Line: 1},
		{Text: "# b", Line: 2},
		{Text: "# a", Line: 1},
		{Text: "# a", Line: 3},
	}
	assert.Equal(t, []Comment{
		{Text: "# a", Line: 1},
		{Text: "# b", Line: 2},
		{Text: "# a", Line: 3},
	}, Dedupe(in))
	assert.Nil(t, Dedupe(nil))
}
