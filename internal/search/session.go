package search

import (
	"errors"
	"fmt"
)

// Session tracks one find/replace interaction over a buffer: the current
// term and options, the MatchSet they produce and the navigation cursor.
//
// Every change to the buffer, term or options recomputes the matches and
// resets the cursor. A Session is not safe for concurrent use.
type Session struct {
	buffer  string
	term    string
	opts    Options
	matches MatchSet
	cursor  Cursor
	err     error
}

// NewSession returns a session over buffer with an empty term.
func NewSession(buffer string) *Session {
	return &Session{buffer: buffer}
}

func (s *Session) Buffer() string { return s.buffer }
func (s *Session) Term() string { return s.term }
func (s *Session) Options() Options { return s.opts }
func (s *Session) Matches() MatchSet { return s.matches }
func (s *Session) Cursor() Cursor { return s.cursor }
func (s *Session) Total() int { return s.matches.Len() }

// Err returns the reason the last scan produced no matches, if it was
// something other than an empty term.
func (s *Session) Err() error { return s.err }

// Invalid reports whether the current term failed to compile.
func (s *Session) Invalid() bool {
	return errors.Is(s.err, ErrInvalidPattern)
}

// SetBuffer replaces the searched text.
func (s *Session) SetBuffer(buffer string) {
	s.buffer = buffer
	s.research()
}

// SetTerm replaces the search term.
func (s *Session) SetTerm(term string) {
	s.term = term
	s.research()
}

// SetOptions replaces the search options.
func (s *Session) SetOptions(opts Options) {
	s.opts = opts
	s.research()
}

// Next moves to the following match, wrapping after the last.
func (s *Session) Next() Cursor {
	s.cursor = Advance(s.cursor, s.Total(), Next)
	return s.cursor
}

// Prev moves to the preceding match, wrapping before the first.
func (s *Session) Prev() Cursor {
	s.cursor = Advance(s.cursor, s.Total(), Prev)
	return s.cursor
}

// Current returns the span under the cursor.
func (s *Session) Current() (Span, bool) {
	return s.matches.At(s.cursor)
}

// ReplaceCurrent replaces the match under the cursor and re-searches the
// resulting buffer.
func (s *Session) ReplaceCurrent(replacement string) int {
	return s.replace(replacement, ScopeOne(s.cursor))
}

// ReplaceAll replaces every match and re-searches the resulting buffer.
func (s *Session) ReplaceAll(replacement string) int {
	return s.replace(replacement, ScopeAll())
}

func (s *Session) replace(replacement string, scope Scope) int {
	if !s.matches.HasMatch() {
		return 0
	}

	var n int
	if scope.all {
		s.buffer, n = Splice(s.buffer, s.matches, replacement), s.matches.Len()
	} else {
		span, ok := s.matches.At(scope.cursor)
		if !ok {
			span = s.matches[0]
		}
		s.buffer, n = Splice(s.buffer, MatchSet{span}, replacement), 1
	}

	s.research()
	return n
}

// Counter renders the cursor as "i/N", or "" when there is nothing to show.
func (s *Session) Counter() string {
	if s.term == "" || s.Total() == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", s.cursor, s.Total())
}

// Status renders a one-line summary of the last scan.
func (s *Session) Status() string {
	switch {
	case s.term == "":
		return ""
	case s.Invalid():
		return "Invalid pattern"
	case errors.Is(s.err, ErrMatchTimeout):
		return "Search timed out"
	case s.Total() == 0:
		return "No matches found"
	case s.Total() == 1:
		return "1 match found"
	default:
		return fmt.Sprintf("%d matches found", s.Total())
	}
}

func (s *Session) research() {
	s.matches, s.err = Scan(s.buffer, s.term, s.opts)
	if errors.Is(s.err, ErrEmptyTerm) {
		s.err = nil
	}
	s.cursor = ResetCursor(s.matches.Len())
}
