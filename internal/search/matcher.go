package search

// Span is one located occurrence of a pattern. Start and End are half-open
// rune offsets into the scanned buffer and Text is the matched substring.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Len returns the span length in runes.
func (s Span) Len() int {
	return s.End - s.Start
}

// MatchSet is the ordered result of one scan. A nil MatchSet means no
// matches. It is always replaced wholesale, never edited.
type MatchSet []Span

// Len returns the number of matches.
func (ms MatchSet) Len() int {
	return len(ms)
}

// HasMatch reports whether the set contains at least one match.
func (ms MatchSet) HasMatch() bool {
	return len(ms) > 0
}

// At returns the span the 1-based cursor points at.
func (ms MatchSet) At(c Cursor) (Span, bool) {
	if c < 1 || int(c) > len(ms) {
		return Span{}, false
	}
	return ms[c-1], true
}

// Scan is FindMatches that also reports why a set is empty: ErrEmptyTerm,
// ErrInvalidPattern or ErrMatchTimeout. Hosts use it to show an
// "invalid pattern" hint; the returned set is nil whenever err != nil.
func Scan(buffer, term string, opts Options) (MatchSet, error) {
	p, err := BuildPattern(term, opts)
	if err != nil {
		return nil, err
	}
	return p.FindAll(buffer)
}

// FindMatches returns every match of term in buffer. An empty term or an
// invalid pattern yields an empty set rather than an error.
func FindMatches(buffer, term string, opts Options) MatchSet {
	set, err := Scan(buffer, term, opts)
	if err != nil {
		return nil
	}
	return set
}
