package document

import (
	"strings"
	"unicode/utf8"
)

// Stats summarizes a buffer the way the status bar shows it.
type Stats struct {
	Words      int `json:"words"`
	Characters int `json:"characters"`
	Lines      int `json:"lines"`
}

// StatsFor counts whitespace-separated words, runes and newline-separated
// lines. An empty buffer has one line.
func StatsFor(content string) Stats {
	return Stats{
		Words:      len(strings.Fields(content)),
		Characters: utf8.RuneCountInString(content),
		Lines:      strings.Count(content, "\n") + 1,
	}
}

// OffsetForLine returns the rune offset at which 1-based line starts.
// Lines past the end clamp to the last line and lines below 1 to the first.
func OffsetForLine(content string, line int) int {
	if line <= 1 {
		return 0
	}
	offset := 0
	current := 1
	for _, r := range content {
		if current == line {
			break
		}
		offset++
		if r == '\n' {
			current++
		}
	}
	if current < line {
		// Past the end: back up to the start of the last line.
		return lastLineStart(content)
	}
	return offset
}

func lastLineStart(content string) int {
	idx := strings.LastIndexByte(content, '\n')
	if idx < 0 {
		return 0
	}
	return utf8.RuneCountInString(content[:idx+1])
}

// PositionAt converts a rune offset into a 1-based line and column.
// Offsets outside the buffer are clamped.
func PositionAt(content string, offset int) Position {
	pos := Position{Line: 1, Column: 1}
	if offset <= 0 {
		return pos
	}
	i := 0
	for _, r := range content {
		if i == offset {
			break
		}
		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
		i++
	}
	return pos
}

// LineAt returns the text of the 1-based line, without its newline.
func LineAt(content string, line int) string {
	lines := strings.Split(content, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
