package findbar

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ansiRE matches ANSI escape sequences:
//   - CSI sequences: ESC [ ... final_byte  (covers SGR like \x1b[31m)
//   - OSC sequences: ESC ] ... (ST | BEL)
//   - Charset sequences: ESC ( B, ESC ) B, etc.
var ansiRE = regexp.MustCompile(`\x1b(?:` +
	`\[[0-9;]*[A-Za-z]` +
	`|` +
	`\].*?(?:\x1b\\|\x07)` +
	`|` +
	`[()][A-B0-2]` +
	`)`)

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// displayReplacer makes buffer text safe to print on one terminal row.
var displayReplacer = strings.NewReplacer(
	"\t", "    ",
	"\r", "",
	"\n", "↵",
)

// Printable strips escape sequences and control characters that would
// break a single-row rendering.
func Printable(s string) string {
	return displayReplacer.Replace(StripANSI(s))
}

const ellipsis = "…"

// MiddleTruncate truncates a string in the middle with an ellipsis character
// if its display width exceeds maxWidth. It is display-width-aware, correctly
// handling CJK characters and emoji that occupy two columns.
//
// If maxWidth < 3, the string is simply truncated from the right.
func MiddleTruncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return truncateLeft(s, maxWidth)
	}

	remaining := maxWidth - 1
	headWidth := (remaining + 1) / 2
	tailWidth := remaining / 2

	return truncateLeft(s, headWidth) + ellipsis + truncateRight(s, tailWidth)
}

// FitExcerpt trims the text around a match so before+match+after fits in
// width columns. The match keeps priority; surrounding context is cut with
// an ellipsis, the leading context from its left end.
func FitExcerpt(before, match, after string, width int) (string, string, string) {
	if width <= 0 {
		return "", "", ""
	}
	bw, mw, aw := runewidth.StringWidth(before), runewidth.StringWidth(match), runewidth.StringWidth(after)
	if bw+mw+aw <= width {
		return before, match, after
	}

	if mw >= width {
		return "", MiddleTruncate(match, width), ""
	}

	room := width - mw
	// Give the leading context at most half of the spare room, but no
	// more than it needs.
	beforeRoom := room / 2
	if bw < beforeRoom {
		beforeRoom = bw
	}
	afterRoom := room - beforeRoom
	if aw < afterRoom {
		afterRoom = aw
		beforeRoom = room - afterRoom
	}

	if bw > beforeRoom {
		if beforeRoom == 0 {
			before = ""
		} else {
			before = ellipsis + truncateRight(before, beforeRoom-1)
		}
	}
	if aw > afterRoom {
		if afterRoom == 0 {
			after = ""
		} else {
			after = truncateLeft(after, afterRoom-1) + ellipsis
		}
	}
	return before, match, after
}

// truncateLeft returns the longest prefix of s whose display width does
// not exceed maxWidth.
func truncateLeft(s string, maxWidth int) string {
	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > maxWidth {
			return s[:i]
		}
		w += rw
	}
	return s
}

// truncateRight returns the longest suffix of s whose display width does
// not exceed maxWidth.
func truncateRight(s string, maxWidth int) string {
	runes := []rune(s)
	w := 0
	start := len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		rw := runewidth.RuneWidth(runes[i])
		if w+rw > maxWidth {
			break
		}
		w += rw
		start = i
	}
	return string(runes[start:])
}
