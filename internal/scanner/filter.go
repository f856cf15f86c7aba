// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import (
	"path"
	"sort"
	"strings"
)

// FilterOptions defines criteria for including or excluding files.
type FilterOptions struct {
	// ExcludeDirs is a list of directory names to exclude.
	// Matching is segment-aware: "vendor" excludes "vendor/foo" and "pkg/vendor/bar",
	// but not "vendor_stuff/foo".
	ExcludeDirs []string

	// IncludeExtensions is a list of bare extensions to include (e.g. "go", no dot).
	// A file matches on its final extension only. If empty, all files are included.
	IncludeExtensions []string
}

// DefaultExcludeDirs returns the directories skipped when a rule names none.
func DefaultExcludeDirs() []string {
	return []string{
		"node_modules",
		".git",
		".hg",
		".svn",
		"vendor",
		"target",
		".idea",
		".venv",
		"__pycache__",
	}
}

// FilterFiles applies the filter options to a list of slash-separated paths.
// It returns a new slice of strings, sorted deterministically.
func FilterFiles(paths []string, opts FilterOptions) []string {
	if len(paths) == 0 {
		return nil
	}

	var filtered []string
	for _, p := range paths {
		if shouldExclude(path.Dir(p), opts.ExcludeDirs) {
			continue
		}
		if !shouldIncludeExtension(p, opts.IncludeExtensions) {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.Strings(filtered)
	return filtered
}

// shouldExclude returns true if dir contains any of the excluded segments.
func shouldExclude(dir string, excludes []string) bool {
	if len(excludes) == 0 || dir == "." {
		return false
	}
	for _, part := range strings.Split(dir, "/") {
		if isExcluded(part, excludes) {
			return true
		}
	}
	return false
}

func isExcluded(name string, excludes []string) bool {
	for _, exclude := range excludes {
		if name == exclude {
			return true
		}
	}
	return false
}

// shouldIncludeExtension returns true if extensions is empty or the path's
// final extension is one of them.
func shouldIncludeExtension(p string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(path.Ext(p), ".")
	if ext == "" {
		return false
	}
	for _, want := range extensions {
		if ext == strings.TrimPrefix(want, ".") {
			return true
		}
	}
	return false
}
