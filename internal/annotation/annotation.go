// SPDX-License-Identifier: AGPL-3.0-or-later

// Package annotation recognizes TODO/FIXME markers in comment text and decodes
// the strict "TODO: YYYY-MM-DD @owner text" form.
package annotation

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/bartekus/todolint/internal/extract"
)

// DateLayout is the due date format inside annotations and in reports.
const DateLayout = "2006-01-02"

// Decode failures. Each names the step of the token sequence that did not match.
var (
	ErrNoMarker     = errors.New("no TODO or FIXME marker")
	ErrMissingColon = errors.New("marker not followed by ':'")
	ErrMissingDate  = errors.New("expected YYYY-MM-DD after marker")
	ErrInvalidDate  = errors.New("not a calendar date")
	ErrMissingOwner = errors.New("expected @owner after date")
)

// Annotation is a comment carrying a marker.
// When WellFormed is false, Due is zero and Owner is empty.
type Annotation struct {
	Comment    string
	Due        time.Time
	Owner      string
	Line       int
	WellFormed bool
}

// Decoded holds the fields of a strict annotation.
type Decoded struct {
	Due   time.Time
	Owner string
	Text  string
}

// Parser decodes annotations, anchoring due dates at midnight in its location.
type Parser struct {
	loc *time.Location
}

// Option configures a Parser.
type Option func(*Parser)

// WithLocation sets the time zone due dates are anchored in.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// NewParser returns a Parser using time.Local unless configured otherwise.
func NewParser(opts ...Option) *Parser {
	p := &Parser{loc: time.Local}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var markers = []string{"todo", "fixme"}

// HasMarker reports whether text contains TODO, FIXME or @todo, ignoring case.
func HasMarker(text string) bool {
	for i := 0; i < len(text); i++ {
		if markerAt(text, i) != "" {
			return true
		}
	}
	return false
}

// Parse turns a comment into an Annotation. The second result is false when
// the comment has no marker, in which case it must be ignored.
func (p *Parser) Parse(c extract.Comment) (Annotation, bool) {
	if !HasMarker(c.Text) {
		return Annotation{}, false
	}

	text := strings.TrimSpace(c.Text)
	d, err := p.Decode(c.Text)
	if err != nil {
		return Annotation{Comment: text, Line: c.Line}, true
	}
	return Annotation{
		Comment:    text,
		Due:        d.Due,
		Owner:      d.Owner,
		Line:       c.Line,
		WellFormed: true,
	}, true
}

// Decode runs the strict decoder at each marker occurrence, left to right.
// The first occurrence whose token shape matches decides the result: its
// fields on success, or ErrInvalidDate when its date is not a calendar
// date. Otherwise the error of the first attempt is returned.
func (p *Parser) Decode(text string) (Decoded, error) {
	var first error
	for i := 0; i < len(text); i++ {
		m := markerAt(text, i)
		if m == "" {
			continue
		}
		d, err := p.decodeAt(text, i+len(m))
		if err == nil || errors.Is(err, ErrInvalidDate) {
			return d, err
		}
		if first == nil {
			first = err
		}
	}
	if first == nil {
		return Decoded{}, ErrNoMarker
	}
	return Decoded{}, first
}

// decodeAt decodes ':' ws* DATE ws+ '@' word+ ws* text, starting right after
// a marker.
func (p *Parser) decodeAt(s string, pos int) (Decoded, error) {
	if pos >= len(s) || s[pos] != ':' {
		return Decoded{}, ErrMissingColon
	}
	pos = skipSpace(s, pos+1)

	if !isDateShape(s, pos) {
		return Decoded{}, ErrMissingDate
	}
	date := s[pos : pos+len(DateLayout)]
	pos += len(DateLayout)

	afterDate := skipSpace(s, pos)
	if afterDate == pos || afterDate >= len(s) || s[afterDate] != '@' {
		return Decoded{}, ErrMissingOwner
	}
	ownerStart := afterDate + 1
	ownerEnd := skipWord(s, ownerStart)
	if ownerEnd == ownerStart {
		return Decoded{}, ErrMissingOwner
	}

	// The shape is complete; only now is the date checked against the calendar.
	due, err := time.ParseInLocation(DateLayout, date, p.loc)
	if err != nil {
		return Decoded{}, ErrInvalidDate
	}

	rest := s[skipSpace(s, ownerEnd):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}

	return Decoded{
		Due:   due,
		Owner: s[ownerStart:ownerEnd],
		Text:  strings.TrimSuffix(rest, "\r"),
	}, nil
}

// markerAt returns the marker starting at s[i], matched ASCII case-insensitively.
func markerAt(s string, i int) string {
	for _, m := range markers {
		if hasPrefixFold(s[i:], m) {
			return m
		}
	}
	return ""
}

func hasPrefixFold(s, lowerPrefix string) bool {
	if len(s) < len(lowerPrefix) {
		return false
	}
	for i := 0; i < len(lowerPrefix); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lowerPrefix[i] {
			return false
		}
	}
	return true
}

func isDateShape(s string, pos int) bool {
	if pos+len(DateLayout) > len(s) {
		return false
	}
	for i, want := range []byte(DateLayout) {
		c := s[pos+i]
		if want == '-' {
			if c != '-' {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func skipSpace(s string, pos int) int {
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}

func skipWord(s string, pos int) int {
	for pos < len(s) {
		r, size := utf8.DecodeRuneInString(s[pos:])
		if !isWordRune(r) {
			break
		}
		pos += size
	}
	return pos
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.IsMark(r) || unicode.Is(unicode.Pc, r)
}
