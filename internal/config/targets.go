// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bartekus/todolint/internal/analyzer"
	"github.com/bartekus/todolint/internal/extract"
	"github.com/bartekus/todolint/internal/languages"
	"github.com/bartekus/todolint/internal/scanner"
)

// ErrNotDirectory is reported for rule paths that do not exist or are not directories.
var ErrNotDirectory = errors.New("directory does not exist or not a folder")

// TargetOptions controls how rule paths are expanded into files.
type TargetOptions struct {
	// TrackedOnly lists files through git instead of walking the tree.
	TrackedOnly bool
}

// Targets expands the rules into the files to analyze, sorted by display
// path. Problems with single rules or paths are returned as diagnostics and
// the offending rule or path is skipped.
func (c *Config) Targets(ctx context.Context, reg *languages.Registry, opts TargetOptions) ([]analyzer.Target, []error) {
	var (
		targets []analyzer.Target
		diags   []error
	)
	seen := make(map[analyzer.Target]struct{})

	for i, rule := range c.Rules {
		def, ok := reg.Lookup(rule.Language)
		if !ok {
			diags = append(diags, fmt.Errorf("rule %d: %w: %s", i+1, extract.ErrUnsupportedLanguage, rule.Language))
			continue
		}

		filter := scanner.FilterOptions{
			ExcludeDirs:       rule.ExcludeDirs,
			IncludeExtensions: rule.FileExtensions,
		}
		if filter.ExcludeDirs == nil {
			filter.ExcludeDirs = scanner.DefaultExcludeDirs()
		}
		if len(filter.IncludeExtensions) == 0 {
			filter.IncludeExtensions = def.Extensions
		}

		for _, p := range rule.Paths {
			root := c.resolve(p)
			if info, err := os.Stat(root); err != nil || !info.IsDir() {
				diags = append(diags, fmt.Errorf("%w: %s", ErrNotDirectory, root))
				continue
			}

			files, skipped, err := list(ctx, root, filter, opts)
			diags = append(diags, skipped...)
			if err != nil {
				diags = append(diags, err)
				continue
			}

			for _, f := range files {
				full := filepath.Join(root, filepath.FromSlash(f))
				t := analyzer.Target{
					Path:     full,
					Display:  c.display(full),
					Language: def.Name,
				}
				if _, dup := seen[t]; dup {
					continue
				}
				seen[t] = struct{}{}
				targets = append(targets, t)
			}
		}
	}

	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].Display < targets[j].Display
	})
	return targets, diags
}

func list(ctx context.Context, root string, filter scanner.FilterOptions, opts TargetOptions) ([]string, []error, error) {
	if opts.TrackedOnly {
		files, err := scanner.New(root).TrackedFilesFiltered(ctx, filter)
		return files, nil, err
	}
	return scanner.Walk(root, filter)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Dir, p)
}

// display returns full relative to the config directory, slash-separated.
// Files outside that directory keep their absolute path.
func (c *Config) display(full string) string {
	if c.Dir == "" {
		return filepath.ToSlash(full)
	}
	rel, err := filepath.Rel(c.Dir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(full)
	}
	return filepath.ToSlash(rel)
}
