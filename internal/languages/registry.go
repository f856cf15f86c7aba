// SPDX-License-Identifier: AGPL-3.0-or-later

// Package languages holds the grammar registry: every supported language with
// its tree-sitter grammar, default file extensions and compiled comment queries.
package languages

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrRegistryBuild marks a registry that could not be built. It is fatal.
var ErrRegistryBuild = errors.New("registry build failed")

// Definition describes one supported language.
type Definition struct {
	Name       string
	Grammar    *sitter.Language
	Extensions []string
	// Patterns are the query sources, index-aligned with Queries.
	Patterns []string
	Queries  []*sitter.Query
}

// Registry maps language identifiers to their definitions.
// It is immutable after Build and safe to share between goroutines.
type Registry struct {
	defs  map[string]*Definition
	names []string
}

// Build compiles every registered language. A grammar that fails to load or
// a query that fails to compile aborts the build.
func Build() (*Registry, error) {
	return build(table)
}

func build(rows []row) (*Registry, error) {
	reg := &Registry{defs: make(map[string]*Definition, len(rows))}

	for _, r := range rows {
		if _, dup := reg.defs[r.name]; dup {
			return nil, fmt.Errorf("%w: duplicate language %q", ErrRegistryBuild, r.name)
		}
		grammar := r.grammar()
		if grammar == nil {
			return nil, fmt.Errorf("%w: grammar for %q did not load", ErrRegistryBuild, r.name)
		}
		if len(r.queries) == 0 {
			return nil, fmt.Errorf("%w: language %q has no comment queries", ErrRegistryBuild, r.name)
		}

		def := &Definition{
			Name:       r.name,
			Grammar:    grammar,
			Extensions: append([]string(nil), r.extensions...),
			Patterns:   append([]string(nil), r.queries...),
			Queries:    make([]*sitter.Query, 0, len(r.queries)),
		}
		for _, pattern := range r.queries {
			q, err := sitter.NewQuery([]byte(pattern), grammar)
			if err != nil {
				return nil, fmt.Errorf("%w: %s query %q: %v", ErrRegistryBuild, r.name, pattern, err)
			}
			def.Queries = append(def.Queries, q)
		}

		reg.defs[r.name] = def
		reg.names = append(reg.names, r.name)
	}

	sort.Strings(reg.names)
	return reg, nil
}

var defaultRegistry = sync.OnceValues(Build)

// Default returns the process-wide registry, building it on first use.
func Default() (*Registry, error) {
	return defaultRegistry()
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Names returns all language identifiers, sorted.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}
