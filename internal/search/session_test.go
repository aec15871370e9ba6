package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_EmptyTerm(t *testing.T) {
	t.Parallel()

	s := NewSession("some text")
	assert.Equal(t, Cursor(0), s.Cursor())
	assert.Equal(t, 0, s.Total())
	assert.NoError(t, s.Err())
	assert.Equal(t, "", s.Status())
	assert.Equal(t, "", s.Counter())
}

func TestSession_NavigateAndReset(t *testing.T) {
	t.Parallel()

	s := NewSession("one two one two one")
	s.SetTerm("one")
	require.Equal(t, 3, s.Total())
	assert.Equal(t, Cursor(1), s.Cursor())
	assert.Equal(t, "1/3", s.Counter())
	assert.Equal(t, "3 matches found", s.Status())

	assert.Equal(t, Cursor(2), s.Next())
	assert.Equal(t, Cursor(3), s.Next())
	assert.Equal(t, Cursor(1), s.Next())
	assert.Equal(t, Cursor(3), s.Prev())

	span, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 16, span.Start)

	s.SetOptions(Options{WholeWord: true})
	assert.Equal(t, Cursor(1), s.Cursor(), "options change resets the cursor")

	s.Next()
	s.SetBuffer("two")
	assert.Equal(t, Cursor(0), s.Cursor())
	assert.Equal(t, "No matches found", s.Status())
}

func TestSession_InvalidPattern(t *testing.T) {
	t.Parallel()

	s := NewSession("(x)")
	s.SetOptions(Options{UseRegex: true})
	s.SetTerm("(")

	assert.True(t, s.Invalid())
	assert.ErrorIs(t, s.Err(), ErrInvalidPattern)
	assert.Equal(t, "Invalid pattern", s.Status())
	assert.Equal(t, 0, s.ReplaceAll("y"))
	assert.Equal(t, "(x)", s.Buffer())

	s.SetTerm(`\(`)
	assert.False(t, s.Invalid())
	assert.Equal(t, "1 match found", s.Status())
}

func TestSession_ReplaceCurrent(t *testing.T) {
	t.Parallel()

	s := NewSession("cat cat cat")
	s.SetTerm("cat")
	s.Next()

	assert.Equal(t, 1, s.ReplaceCurrent("dog"))
	assert.Equal(t, "cat dog cat", s.Buffer())
	assert.Equal(t, 2, s.Total())
	assert.Equal(t, Cursor(1), s.Cursor())

	assert.Equal(t, 2, s.ReplaceAll("cow"))
	assert.Equal(t, "cow dog cow", s.Buffer())
	assert.Equal(t, 0, s.Total())
	assert.Equal(t, Cursor(0), s.Cursor())
}
