package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a.b", `a\.b`},
		{"$5.00 (total)", `\$5\.00 \(total\)`},
		{`[x]{2}|y*+?^\`, `\[x\]\{2\}\|y\*\+\?\^\\`},
		{"héllo", "héllo"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Escape(tt.in))
		})
	}
}

func TestBuildPattern_EmptyTerm(t *testing.T) {
	t.Parallel()

	p, err := BuildPattern("", Options{UseRegex: true})
	require.ErrorIs(t, err, ErrEmptyTerm)
	assert.Nil(t, p)
}

func TestBuildPattern_InvalidRegex(t *testing.T) {
	t.Parallel()

	for _, term := range []string{"(", "[a-", "*", "a)"} {
		_, err := BuildPattern(term, Options{UseRegex: true})
		assert.ErrorIs(t, err, ErrInvalidPattern, "term %q", term)
	}
}

func TestBuildPattern_LiteralNeverFails(t *testing.T) {
	t.Parallel()

	for _, term := range []string{"(", "[a-", "a{2,1}", "*", `\`} {
		p, err := BuildPattern(term, Options{})
		require.NoError(t, err, "term %q", term)
		assert.NotNil(t, p)
	}
}

func TestBuildPattern_Expression(t *testing.T) {
	t.Parallel()

	p, err := BuildPattern("a.b", Options{WholeWord: true})
	require.NoError(t, err)
	assert.Equal(t, `\b(?:a\.b)\b`, p.String())
	assert.Equal(t, Options{WholeWord: true}, p.Options())

	p, err = BuildPattern("a.b", Options{UseRegex: true})
	require.NoError(t, err)
	assert.Equal(t, "a.b", p.String())
}

func TestBuildPattern_CompileFlags(t *testing.T) {
	t.Parallel()

	p, err := BuildPattern("QUICK", Options{})
	require.NoError(t, err)
	ms, err := p.FindAll("quick Quick QUICK")
	require.NoError(t, err)
	assert.Len(t, ms, 3, "ignore case without MatchCase")

	p, err = BuildPattern("QUICK", Options{MatchCase: true})
	require.NoError(t, err)
	ms, err = p.FindAll("quick Quick QUICK")
	require.NoError(t, err)
	assert.Equal(t, MatchSet{{Start: 12, End: 17, Text: "QUICK"}}, ms)

	// ECMAScript \w is ASCII only.
	p, err = BuildPattern(`\w+`, Options{UseRegex: true})
	require.NoError(t, err)
	ms, err = p.FindAll("café")
	require.NoError(t, err)
	assert.Equal(t, MatchSet{{Start: 0, End: 3, Text: "caf"}}, ms)
}

func TestOptions_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", Options{}.String())
	assert.Equal(t, "case,regex", Options{MatchCase: true, UseRegex: true}.String())
	assert.Equal(t, "case,word,regex", Options{true, true, true}.String())
}
