package search

// Cursor is a 1-based index into a MatchSet. Zero means there is nothing to
// point at.
type Cursor int

// Direction selects which way Advance moves.
type Direction int

const (
	Next Direction = iota
	Prev
)

func (d Direction) String() string {
	if d == Prev {
		return "prev"
	}
	return "next"
}

// Advance moves c one step in dir over total matches, wrapping at both ends.
// With no matches the cursor is always 0.
func Advance(c Cursor, total int, dir Direction) Cursor {
	if total <= 0 {
		return 0
	}
	last := Cursor(total)

	if dir == Prev {
		if c <= 1 || c > last {
			return last
		}
		return c - 1
	}

	if c < 1 || c >= last {
		return 1
	}
	return c + 1
}

// ResetCursor is the cursor for a freshly computed MatchSet of size total.
// Callers must apply it every time they re-search.
func ResetCursor(total int) Cursor {
	if total > 0 {
		return 1
	}
	return 0
}
