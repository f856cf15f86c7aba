// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projectroot locates the config file that applies to a working
// directory.
package projectroot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no config file is found up to the repository
// or filesystem root.
var ErrNotFound = errors.New("no todolint config found")

// ConfigNames are the file names searched for, in priority order.
var ConfigNames = []string{
	"todolint.toml",
	".todolint.toml",
	"todolint.yaml",
	"todolint.yml",
	".todolint.yaml",
	".todolint.yml",
}

// FindConfig walks up from start and returns the first config file found.
// The search stops after the first directory that holds a .git entry.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	for {
		for _, name := range ConfigNames {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
				return p, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%w (looked for %v from %s)", ErrNotFound, ConfigNames, start)
}
