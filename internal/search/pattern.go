package search

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

var (
	// ErrEmptyTerm is returned by BuildPattern for an empty term. No
	// compilation is attempted.
	ErrEmptyTerm = errors.New("empty search term")

	// ErrInvalidPattern is returned when regex mode is on and the term does
	// not compile.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrMatchTimeout is returned when a scan exceeds the match timeout.
	ErrMatchTimeout = errors.New("pattern match timed out")
)

// matchTimeout bounds a single scan so a pathological user regex cannot
// hang the caller.
const matchTimeout = 2 * time.Second

// metaChars are escaped when regex mode is off.
const metaChars = `.*+?^${}()|[]\`

// Options controls how a term is turned into a pattern.
type Options struct {
	MatchCase bool `json:"match_case" yaml:"match_case"`
	WholeWord bool `json:"whole_word" yaml:"whole_word"`
	UseRegex  bool `json:"use_regex" yaml:"use_regex"`
}

// String renders the enabled options as a short flag list, e.g. "case,word".
func (o Options) String() string {
	var flags []string
	if o.MatchCase {
		flags = append(flags, "case")
	}
	if o.WholeWord {
		flags = append(flags, "word")
	}
	if o.UseRegex {
		flags = append(flags, "regex")
	}
	if len(flags) == 0 {
		return "none"
	}
	return strings.Join(flags, ",")
}

// Pattern is a compiled search pattern. It is safe for concurrent use.
type Pattern struct {
	re   *regexp2.Regexp
	expr string
	opts Options
}

// String returns the expression the term compiled to.
func (p *Pattern) String() string {
	return p.expr
}

// Options returns the options the pattern was built with.
func (p *Pattern) Options() Options {
	return p.opts
}

// Escape quotes every regex metacharacter in term so it matches literally.
func Escape(term string) string {
	var b strings.Builder
	b.Grow(len(term) + 8)
	for _, r := range term {
		if strings.ContainsRune(metaChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BuildPattern compiles term according to opts.
//
// Without UseRegex the term is escaped first. WholeWord wraps the expression
// in word-boundary assertions. Matching is case-insensitive unless MatchCase
// is set. The dialect is ECMAScript, matching the regular expressions users
// of the browser editor were used to.
func BuildPattern(term string, opts Options) (*Pattern, error) {
	if term == "" {
		return nil, ErrEmptyTerm
	}

	expr := term
	if !opts.UseRegex {
		expr = Escape(term)
	}
	if opts.WholeWord {
		expr = `\b(?:` + expr + `)\b`
	}

	flags := regexp2.RegexOptions(regexp2.ECMAScript)
	if !opts.MatchCase {
		flags |= regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(expr, flags)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	re.MatchTimeout = matchTimeout

	return &Pattern{re: re, expr: expr, opts: opts}, nil
}

// FindAll scans buffer left to right and returns every non-empty,
// non-overlapping match.
func (p *Pattern) FindAll(buffer string) (MatchSet, error) {
	var set MatchSet

	m, err := p.re.FindStringMatch(buffer)
	for m != nil {
		// Zero-width matches (e.g. `a*` between letters) cannot be
		// highlighted or replaced meaningfully.
		if m.Length > 0 {
			set = append(set, Span{
				Start: m.Index,
				End:   m.Index + m.Length,
				Text:  m.String(),
			})
		}
		m, err = p.re.FindNextMatch(m)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMatchTimeout, err)
	}

	return set, nil
}
