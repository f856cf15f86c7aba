// SPDX-License-Identifier: AGPL-3.0-or-later

package projection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicWrite(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "out", "report.json")

	require.NoError(t, AtomicWrite(target, []byte("first")))
	require.NoError(t, AtomicWrite(target, []byte("second")))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestAtomicWrite_DirectoryTarget(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "taken"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "taken", "x"), nil, 0o644))

	err := AtomicWrite(filepath.Join(dir, "taken"), []byte("x"))
	assert.Error(t, err)
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"b": 2, "a": 1, "c": 3}))
	assert.Equal(t, []int{1, 5, 9}, SortedKeys(map[int]bool{9: true, 1: false, 5: true}))
	assert.Empty(t, SortedKeys(map[string]struct{}{}))
}

func TestRenderTable(t *testing.T) {
	got := RenderTable(
		[]string{"Line", "Comment"},
		[][]string{
			{"1", "a | b"},
			{"2", "first\nsecond"},
			{"3", "<script>"},
		},
	)
	want := "| Line | Comment |\n" +
		"| --- | --- |\n" +
		"| 1 | a \\| b |\n" +
		"| 2 | first<br>second |\n" +
		"| 3 | &lt;script&gt; |\n"
	assert.Equal(t, want, got)
}

func TestRenderListAndHeader(t *testing.T) {
	assert.Equal(t, "- a\n- b\n", RenderList([]string{"a", "b"}))
	assert.Equal(t, "## title\n\n", RenderHeader(2, "title"))
}
