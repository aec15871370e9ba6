package document

import (
	"errors"
	"fmt"
)

// ErrNoSuchTab is returned for a tab index outside the workspace.
var ErrNoSuchTab = errors.New("no such tab")

// Workspace is an ordered set of open documents with one active tab.
// It always holds at least one document.
type Workspace struct {
	docs      []*Document
	active    int
	undoLimit int
}

// NewWorkspace returns a workspace with a single untitled document.
func NewWorkspace() *Workspace {
	w := &Workspace{undoLimit: DefaultUndoLimit}
	w.docs = []*Document{w.newDocument(UntitledName, "")}
	return w
}

// SetUndoLimit applies n to every open and future document.
func (w *Workspace) SetUndoLimit(n int) {
	if n < 1 {
		return
	}
	w.undoLimit = n
	for _, d := range w.docs {
		d.SetUndoLimit(n)
	}
}

func (w *Workspace) newDocument(name, content string) *Document {
	d := New(name, content)
	d.SetUndoLimit(w.undoLimit)
	return d
}

// Documents returns the open documents in tab order.
func (w *Workspace) Documents() []*Document {
	return w.docs
}

func (w *Workspace) Len() int { return len(w.docs) }
func (w *Workspace) ActiveIndex() int { return w.active }
func (w *Workspace) Active() *Document { return w.docs[w.active] }

// NewTab opens an empty "Untitled-N.txt" document and activates it.
func (w *Workspace) NewTab() *Document {
	d := w.newDocument(fmt.Sprintf("Untitled-%d.txt", len(w.docs)+1), "")
	w.docs = append(w.docs, d)
	w.active = len(w.docs) - 1
	return d
}

// Open loads content under name. An empty, unmodified untitled tab that
// was never opened from a source is replaced in place; otherwise a new tab
// is appended. The returned document is active, unmodified and has a fresh
// ID either way.
func (w *Workspace) Open(name, content string) *Document {
	d := w.newDocument(name, content)
	d.opened = true

	if cur := w.Active(); cur.IsEmpty() && !cur.opened && cur.HubID == "" {
		w.docs[w.active] = d
		return d
	}

	w.docs = append(w.docs, d)
	w.active = len(w.docs) - 1
	return d
}

// Close removes tab i. Closing the only tab leaves a fresh untitled document.
func (w *Workspace) Close(i int) error {
	if i < 0 || i >= len(w.docs) {
		return fmt.Errorf("%w: %d", ErrNoSuchTab, i)
	}

	if len(w.docs) == 1 {
		w.docs = []*Document{w.newDocument(UntitledName, "")}
		w.active = 0
		return nil
	}

	w.docs = append(w.docs[:i], w.docs[i+1:]...)
	w.active = min(w.active, len(w.docs)-1)
	return nil
}

// Activate makes tab i the active one.
func (w *Workspace) Activate(i int) error {
	if i < 0 || i >= len(w.docs) {
		return fmt.Errorf("%w: %d", ErrNoSuchTab, i)
	}
	w.active = i
	return nil
}

// Cycle moves the active tab by delta, wrapping around.
func (w *Workspace) Cycle(delta int) *Document {
	n := len(w.docs)
	w.active = ((w.active+delta)%n + n) % n
	return w.Active()
}

// ModifiedDocuments returns the documents with unsaved changes.
func (w *Workspace) ModifiedDocuments() []*Document {
	var out []*Document
	for _, d := range w.docs {
		if d.Modified {
			out = append(out, d)
		}
	}
	return out
}
