package search

import (
	"fmt"
	"strings"
)

// Scope selects how many matches Replace substitutes.
type Scope struct {
	all    bool
	cursor Cursor
}

// ScopeAll replaces every match.
func ScopeAll() Scope {
	return Scope{all: true}
}

// ScopeOne replaces only the match under the 1-based cursor. A cursor
// outside the match range targets the first match.
func ScopeOne(c Cursor) Scope {
	return Scope{cursor: c}
}

// All reports whether the scope covers every match.
func (s Scope) All() bool {
	return s.all
}

func (s Scope) String() string {
	if s.all {
		return "all"
	}
	return fmt.Sprintf("one(%d)", s.cursor)
}

// Replace substitutes replacement for the matches of term selected by scope
// and returns the new buffer with the number of replacements made.
//
// The spans replaced are exactly the ones FindMatches reports for the same
// inputs, so the count for ScopeAll always equals the displayed match count.
// The replacement is inserted literally. An empty term, an invalid pattern
// or no matches leaves the buffer untouched.
func Replace(buffer, term, replacement string, scope Scope, opts Options) (string, int) {
	matches := FindMatches(buffer, term, opts)
	if !matches.HasMatch() {
		return buffer, 0
	}

	if scope.all {
		return Splice(buffer, matches, replacement), matches.Len()
	}

	span, ok := matches.At(scope.cursor)
	if !ok {
		span = matches[0]
	}
	return Splice(buffer, MatchSet{span}, replacement), 1
}

// Splice writes replacement over each span of buffer. Spans must be in
// ascending, non-overlapping order and use rune offsets.
func Splice(buffer string, spans MatchSet, replacement string) string {
	if len(spans) == 0 {
		return buffer
	}

	runes := []rune(buffer)
	var b strings.Builder
	b.Grow(len(buffer) + len(spans)*len(replacement))

	prev := 0
	for _, s := range spans {
		b.WriteString(string(runes[prev:s.Start]))
		b.WriteString(replacement)
		prev = s.End
	}
	b.WriteString(string(runes[prev:]))

	return b.String()
}
