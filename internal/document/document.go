// Package document holds the in-memory documents of an editing session:
// their text, undo/redo history and the tabbed workspace that owns them.
package document

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/runger/notepadcc/internal/search"
)

// UntitledName is the name of the document a fresh workspace starts with.
const UntitledName = "Untitled Document.txt"

// DefaultUndoLimit is the number of snapshots kept on the undo stack.
const DefaultUndoLimit = 50

// dateTimeLayout mirrors the en-US locale string the editor inserts.
const dateTimeLayout = "1/2/2006, 3:04:05 PM"

// Position is a 1-based line and column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Document is one open text buffer.
type Document struct {
	ID       string
	FileName string
	Content  string
	Modified bool
	Cursor   Position

	// HubID links the document to a file in the hub, if it came from one.
	HubID string

	// opened marks documents loaded from a file, hub entry or autosave.
	// Only documents without a source are replaced by Workspace.Open.
	opened bool

	undo  []string
	redo  []string
	limit int
}

// New returns an unmodified document.
func New(name, content string) *Document {
	return &Document{
		ID:       uuid.NewString(),
		FileName: name,
		Content:  content,
		Cursor:   Position{Line: 1, Column: 1},
		limit:    DefaultUndoLimit,
	}
}

// SetUndoLimit changes how many snapshots are kept. Values below 1 are
// ignored.
func (d *Document) SetUndoLimit(n int) {
	if n < 1 {
		return
	}
	d.limit = n
	d.trimUndo()
}

// SetContent replaces the text. The previous text is pushed onto the undo
// stack and the redo stack is cleared. It returns false, and records
// nothing, when the text is unchanged.
func (d *Document) SetContent(content string) bool {
	if content == d.Content {
		return false
	}
	d.undo = append(d.undo, d.Content)
	d.trimUndo()
	d.redo = nil
	d.Content = content
	d.Modified = true
	return true
}

func (d *Document) trimUndo() {
	if over := len(d.undo) - d.limit; over > 0 {
		d.undo = append([]string(nil), d.undo[over:]...)
	}
}

// Undo restores the previous snapshot.
func (d *Document) Undo() bool {
	if len(d.undo) == 0 {
		return false
	}
	last := len(d.undo) - 1
	d.redo = append([]string{d.Content}, d.redo...)
	d.Content = d.undo[last]
	d.undo = d.undo[:last]
	d.Modified = true
	return true
}

// Redo reapplies the most recently undone snapshot.
func (d *Document) Redo() bool {
	if len(d.redo) == 0 {
		return false
	}
	d.undo = append(d.undo, d.Content)
	d.trimUndo()
	d.Content = d.redo[0]
	d.redo = d.redo[1:]
	d.Modified = true
	return true
}

func (d *Document) CanUndo() bool { return len(d.undo) > 0 }
func (d *Document) CanRedo() bool { return len(d.redo) > 0 }

// MarkSaved clears the modified flag.
func (d *Document) MarkSaved() {
	d.Modified = false
}

// IsEmpty reports whether the document is blank and untouched, which is
// the only state in which opening a file may reuse its tab.
func (d *Document) IsEmpty() bool {
	return d.Content == "" && !d.Modified
}

// Extension returns the file extension without the dot, lower-cased.
func (d *Document) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(d.FileName), "."))
}

// InsertAt inserts text at a rune offset, clamped to the buffer.
func (d *Document) InsertAt(offset int, text string) bool {
	runes := []rune(d.Content)
	offset = clamp(offset, 0, len(runes))
	return d.SetContent(string(runes[:offset]) + text + string(runes[offset:]))
}

// DeleteRange removes the runes in [start, end), clamped to the buffer.
func (d *Document) DeleteRange(start, end int) bool {
	runes := []rune(d.Content)
	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))
	return d.SetContent(string(runes[:start]) + string(runes[end:]))
}

// InsertDateTime inserts the local date and time at offset.
func (d *Document) InsertDateTime(offset int, now time.Time) bool {
	return d.InsertAt(offset, now.Format(dateTimeLayout))
}

// Replace runs the shared replace engine over the document text.
func (d *Document) Replace(term, replacement string, scope search.Scope, opts search.Options) int {
	out, n := search.Replace(d.Content, term, replacement, scope, opts)
	if n > 0 {
		d.SetContent(out)
	}
	return n
}

// GoToLine moves the cursor to the start of line, clamped to the document,
// and returns the rune offset of that line.
func (d *Document) GoToLine(line int) int {
	offset := OffsetForLine(d.Content, line)
	d.Cursor = PositionAt(d.Content, offset)
	return offset
}

// Stats counts the words, characters and lines of the document.
func (d *Document) Stats() Stats {
	return StatsFor(d.Content)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
