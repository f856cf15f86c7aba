// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scanner lists the files a rule applies to, either by walking a
// directory tree or by asking git for tracked files.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// Walk returns the regular files under root that pass opts, as sorted
// slash-separated paths relative to root. Excluded directories are not entered.
// Entries that cannot be read are skipped and reported in skipped; only a
// failure on root itself is returned as err.
func Walk(root string, opts FilterOptions) (files []string, skipped []error, err error) {
	w := &walker{root: root, opts: opts}
	if err := filepath.WalkDir(root, w.visit); err != nil {
		return nil, nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return FilterFiles(w.files, opts), w.skipped, nil
}

type walker struct {
	root    string
	opts    FilterOptions
	files   []string
	skipped []error
}

func (w *walker) visit(p string, d fs.DirEntry, err error) error {
	if err != nil {
		if p == w.root {
			return err
		}
		w.skipped = append(w.skipped, fmt.Errorf("skipping %s: %w", p, err))
		if d != nil && d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	if d.IsDir() {
		if p != w.root && isExcluded(d.Name(), w.opts.ExcludeDirs) {
			return filepath.SkipDir
		}
		return nil
	}
	if !d.Type().IsRegular() {
		return nil
	}
	rel, err := filepath.Rel(w.root, p)
	if err != nil {
		w.skipped = append(w.skipped, fmt.Errorf("skipping %s: %w", p, err))
		return nil
	}
	w.files = append(w.files, filepath.ToSlash(rel))
	return nil
}

// Scanner provides access to the files git tracks below a directory.
type Scanner struct {
	root string

	mu           sync.Mutex
	trackedCache []string
}

// New creates a new Scanner rooted at dir.
func New(dir string) *Scanner {
	return &Scanner{
		root: dir,
	}
}

// TrackedFiles returns all files tracked by git below the root, relative to
// it, caching the result for the instance lifetime.
// It respects .gitignore implicitly by asking git.
func (s *Scanner) TrackedFiles(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.trackedCache != nil {
		return s.trackedCache, nil
	}

	// git ls-files -z to avoid escaping issues
	cmd := exec.CommandContext(ctx, "git", "ls-files", "-z")
	cmd.Dir = s.root
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed: %w", err)
	}

	if len(out) == 0 {
		s.trackedCache = []string{}
		return s.trackedCache, nil
	}

	sOut := strings.TrimSuffix(string(out), "\x00")
	s.trackedCache = strings.Split(sOut, "\x00")
	return s.trackedCache, nil
}

// TrackedFilesFiltered returns tracked files matching the filter options.
func (s *Scanner) TrackedFilesFiltered(ctx context.Context, opts FilterOptions) ([]string, error) {
	all, err := s.TrackedFiles(ctx)
	if err != nil {
		return nil, err
	}
	return FilterFiles(all, opts), nil
}
