// SPDX-License-Identifier: AGPL-3.0-or-later

// Package extract turns source files into the comments they contain, using the
// tree-sitter grammars and queries from the language registry.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bartekus/todolint/internal/languages"
)

var (
	// ErrUnsupportedLanguage is returned for a language missing from the registry.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrParseFailure is returned when no syntax tree could be produced.
	ErrParseFailure = errors.New("parse failure")
)

// DefaultMaxSourceBytes is the largest input Extract will hand to a parser.
const DefaultMaxSourceBytes = 8 << 20

// Comment is one comment-bearing node found in a file.
type Comment struct {
	Text string
	Line int // 1-based
}

// Extractor parses files and runs comment queries over them.
// It owns a tree-sitter parser and must not be shared between goroutines;
// create one per worker.
type Extractor struct {
	reg      *languages.Registry
	parser   *sitter.Parser
	current  string
	maxBytes int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxSourceBytes sets the input size ceiling. Values <= 0 disable it.
func WithMaxSourceBytes(n int) Option {
	return func(e *Extractor) {
		e.maxBytes = n
	}
}

// New creates an Extractor bound to reg.
func New(reg *languages.Registry, opts ...Option) *Extractor {
	e := &Extractor{
		reg:      reg,
		parser:   sitter.NewParser(),
		maxBytes: DefaultMaxSourceBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Close releases the underlying parser.
func (e *Extractor) Close() {
	if e.parser != nil {
		e.parser.Close()
		e.parser = nil
	}
}

// Extract parses src as lang and returns every node captured by the
// language's comment queries, in query registration order and then match
// order. Overlapping matches from different queries are all returned.
func (e *Extractor) Extract(ctx context.Context, lang string, src []byte) ([]Comment, error) {
	def, ok := e.reg.Lookup(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	if e.maxBytes > 0 && len(src) > e.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrParseFailure, len(src), e.maxBytes)
	}

	if e.current != lang {
		e.parser.SetLanguage(def.Grammar)
		e.current = lang
	}

	tree, err := e.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("%w: no tree produced", ErrParseFailure)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("%w: empty tree", ErrParseFailure)
	}

	var comments []Comment
	for _, q := range def.Queries {
		found, err := run(q, root, src)
		if err != nil {
			return nil, err
		}
		comments = append(comments, found...)
	}
	return comments, nil
}

func run(q *sitter.Query, root *sitter.Node, src []byte) ([]Comment, error) {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	var out []Comment
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		if len(m.Captures) == 0 {
			continue
		}
		node := m.Captures[0].Node

		row, err := safecast.Convert[int](node.StartPoint().Row)
		if err != nil {
			return nil, fmt.Errorf("%w: row out of range: %v", ErrParseFailure, err)
		}
		out = append(out, Comment{
			Text: trimNewline(node.Content(src)),
			Line: row + 1,
		})
	}
	return out, nil
}

func trimNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// Dedupe drops comments whose line and text repeat an earlier entry, keeping
// first-seen order. It collapses one physical comment matched by several
// queries into a single entry.
func Dedupe(comments []Comment) []Comment {
	if len(comments) < 2 {
		return comments
	}
	seen := make(map[Comment]struct{}, len(comments))
	out := make([]Comment, 0, len(comments))
	for _, c := range comments {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
