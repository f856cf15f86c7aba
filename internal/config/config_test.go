// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/todolint/internal/extract"
	"github.com/bartekus/todolint/internal/languages"
)

const tomlConfig = `
[[rules]]
paths = ["src"]
language = "rust"

[[rules]]
paths = ["scripts", "tools"]
language = "python"
file_extensions = ["py", "pyi"]
exclude_dirs = []

[parameters]
editor_url = "vscode://file/%%file%%:%%line%%"
`

const yamlConfig = `
rules:
  - paths: [src]
    language: rust
  - paths: [scripts, tools]
    language: python
    file_extensions: [py, pyi]
    exclude_dirs: []
parameters:
  editor_url: "vscode://file/%%file%%:%%line%%"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	for _, tt := range []struct {
		name, file, content string
	}{
		{"toml", "todolint.toml", tomlConfig},
		{"yaml", "todolint.yaml", yamlConfig},
		{"yml", "todolint.yml", yamlConfig},
	} {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfg, err := Load(writeFile(t, dir, tt.file, tt.content))
			require.NoError(t, err)

			require.Len(t, cfg.Rules, 2)
			assert.Equal(t, []string{"src"}, cfg.Rules[0].Paths)
			assert.Equal(t, "rust", cfg.Rules[0].Language)
			assert.Empty(t, cfg.Rules[0].FileExtensions)
			assert.Nil(t, cfg.Rules[0].ExcludeDirs)
			assert.Equal(t, []string{"py", "pyi"}, cfg.Rules[1].FileExtensions)
			assert.Equal(t, "vscode://file/%%file%%:%%line%%", cfg.Parameters.EditorURL)

			wantDir, err := filepath.Abs(dir)
			require.NoError(t, err)
			assert.Equal(t, wantDir, cfg.Dir)
		})
	}
}

func TestLoad_ParametersOptional(t *testing.T) {
	cfg, err := Load(writeFile(t, t.TempDir(), "c.toml", "[[rules]]\npaths=[\".\"]\nlanguage=\"go\"\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Parameters.EditorURL)
}

func TestLoad_EnvOverridesEditorURL(t *testing.T) {
	t.Setenv(EnvEditorURL, "idea://open?file=%%file%%&line=%%line%%")
	cfg, err := Load(writeFile(t, t.TempDir(), "c.toml", tomlConfig))
	require.NoError(t, err)
	assert.Equal(t, "idea://open?file=%%file%%&line=%%line%%", cfg.Parameters.EditorURL)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{"unknown extension", "c.json", "{}", ErrUnknownFormat},
		{"missing rules", "c.toml", "[parameters]\neditor_url = \"x\"\n", ErrInvalid},
		{"rule without language", "c.toml", "[[rules]]\npaths = [\"src\"]\n", ErrInvalid},
		{"empty paths", "c.yaml", "rules:\n  - paths: []\n    language: go\n", ErrInvalid},
		{"unknown key", "c.yaml", "rules:\n  - paths: [a]\n    language: go\n    langauge: go\n", ErrInvalid},
		{"wrong type", "c.toml", "[[rules]]\npaths = \"src\"\nlanguage = \"go\"\n", ErrInvalid},
		{"empty yaml", "c.yml", "", ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, tt.file, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("syntax error", func(t *testing.T) {
		_, err := Load(writeFile(t, dir, "bad.toml", "[[rules]\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.toml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestTargets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/main.rs", "fn main() {}\n")
	writeFile(t, dir, "src/lib/mod.rs", "")
	writeFile(t, dir, "src/target/gen.rs", "")
	writeFile(t, dir, "src/notes.txt", "")
	writeFile(t, dir, "scripts/run.py", "")
	writeFile(t, dir, "scripts/types.pyi", "")
	writeFile(t, dir, "scripts/target/keep.py", "")
	writeFile(t, dir, "file.txt", "")

	cfg := &Config{
		Dir: dir,
		Rules: []Rule{
			{Paths: []string{"src", "missing", "file.txt"}, Language: "rust"},
			{Paths: []string{"scripts"}, Language: "python", FileExtensions: []string{"py", "pyi"}, ExcludeDirs: []string{}},
			{Paths: []string{"src"}, Language: "cobol"},
			{Paths: []string{"src"}, Language: "rust"},
		},
	}

	reg, err := languages.Default()
	require.NoError(t, err)

	targets, diags := cfg.Targets(context.Background(), reg, TargetOptions{})

	var display []string
	for _, tg := range targets {
		display = append(display, tg.Display)
		assert.True(t, filepath.IsAbs(tg.Path))
	}
	assert.Equal(t, []string{
		"scripts/run.py",
		"scripts/target/keep.py",
		"scripts/types.pyi",
		"src/lib/mod.rs",
		"src/main.rs",
	}, display)
	assert.Equal(t, "python", targets[0].Language)
	assert.Equal(t, "rust", targets[4].Language)

	require.Len(t, diags, 3)
	assert.ErrorIs(t, diags[0], ErrNotDirectory)
	assert.ErrorIs(t, diags[1], ErrNotDirectory)
	assert.ErrorIs(t, diags[2], extract.ErrUnsupportedLanguage)
}

func TestDisplay_OutsideConfigDir(t *testing.T) {
	cfg := &Config{Dir: filepath.Join(string(filepath.Separator), "work", "repo")}
	outside := filepath.Join(string(filepath.Separator), "elsewhere", "a.go")
	assert.Equal(t, filepath.ToSlash(outside), cfg.display(outside))
	assert.Equal(t, "pkg/a.go", cfg.display(filepath.Join(cfg.Dir, "pkg", "a.go")))
}

func TestValidate_DecodedDocuments(t *testing.T) {
	valid := map[string]any{
		"rules": []any{
			map[string]any{"paths": []any{"src"}, "language": "go"},
		},
	}
	require.NoError(t, validate(valid))

	// TOML integers arrive as int64 and must still be checked against the schema types.
	badType := map[string]any{
		"rules": []any{
			map[string]any{"paths": []any{int64(1)}, "language": "go"},
		},
	}
	err := validate(badType)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "/rules/0/paths/0")

	err = validate(map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
}
