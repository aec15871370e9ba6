// Package findbar is the interactive find/replace view: a Bubble Tea model
// over a document workspace and a search session.
package findbar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/runger/notepadcc/internal/config"
	"github.com/runger/notepadcc/internal/document"
	"github.com/runger/notepadcc/internal/logging"
	"github.com/runger/notepadcc/internal/search"
)

// History remembers recent search terms.
type History interface {
	Add(ctx context.Context, term string) error
	List(ctx context.Context) ([]string, error)
}

// SaveFunc persists a document. It is responsible for clearing Modified.
type SaveFunc func(ctx context.Context, doc *document.Document) error

// Options configures a Model.
type Options struct {
	History       History  // optional
	Save          SaveFunc // optional; ctrl+s is a no-op without it
	SearchOptions search.Options
	Logger        *slog.Logger
	Plain         bool // Screen reader mode

	// Autosave, when set, receives a snapshot of the active document every
	// AutosaveEvery while it has changes not yet autosaved.
	Autosave      SaveFunc
	AutosaveEvery time.Duration
}

// field identifies the focused input.
type field int

const (
	fieldFind field = iota
	fieldReplace
)

// historyMsg carries the recent-search list after a load or an add.
type historyMsg struct {
	items []string
	err   error
}

// savedMsg is sent when an async save completes. It carries the state of
// the snapshot that was written.
type savedMsg struct {
	docID   string
	name    string
	content string
	hubID   string
	err     error
}

// autosaveTickMsg fires every autosave interval.
type autosaveTickMsg struct{}

// autosavedMsg is sent when an autosave snapshot was written.
type autosavedMsg struct {
	name    string
	content string
	err     error
}

// ConfigReloadedMsg delivers settings reloaded from disk.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// Model is the Bubble Tea model for the find/replace view.
type Model struct {
	ws      *document.Workspace
	session *search.Session

	find    textinput.Model
	replace textinput.Model
	focus   field

	history      History
	recent       []string
	recentSel    int    // Index into recent; -1 when nothing is highlighted
	lastRecorded string // Last term written to history

	save   SaveFunc
	logger *slog.Logger

	autosave      SaveFunc
	autosaveEvery time.Duration
	autosaved     string // Content of the last autosave snapshot

	// plain drops colors and glyph toggles for screen readers.
	plain bool

	message  string // One-shot status, cleared on the next key
	quitting bool

	width  int // Terminal width
	height int // Terminal height
}

// NewModel creates a find/replace view over ws, searching the active
// document.
func NewModel(ws *document.Workspace, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	find := textinput.New()
	find.Prompt = ""
	find.Placeholder = "Find"
	find.Focus()

	replace := textinput.New()
	replace.Prompt = ""
	replace.Placeholder = "Replace with"

	session := search.NewSession(ws.Active().Content)
	session.SetOptions(opts.SearchOptions)

	return Model{
		ws:        ws,
		session:   session,
		find:      find,
		replace:   replace,
		history:   opts.History,
		recentSel: -1,
		save:      opts.Save,
		logger:    logger,
		plain:     opts.Plain,

		autosave:      opts.Autosave,
		autosaveEvery: opts.AutosaveEvery,
		autosaved:     ws.Active().Content,
	}
}

// Workspace returns the documents being edited.
func (m Model) Workspace() *document.Workspace {
	return m.ws
}

// Session returns the search state of the active document.
func (m Model) Session() *search.Session {
	return m.session
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadHistory(), m.scheduleAutosave())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.message = ""
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inputWidth := msg.Width - 30
		if inputWidth < 10 {
			inputWidth = 10
		}
		m.find.Width = inputWidth
		m.replace.Width = inputWidth
		return m, nil

	case historyMsg:
		if msg.err != nil {
			m.logger.Warn("search history unavailable", "error", msg.err)
			return m, nil
		}
		m.recent = msg.items
		m.clampRecent()
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Save failed: %v", msg.err)
			return m, nil
		}
		m.applySaved(msg)
		m.message = "Saved " + msg.name
		return m, nil

	case autosaveTickMsg:
		return m, tea.Batch(m.autosaveActive(), m.scheduleAutosave())

	case autosavedMsg:
		if msg.err != nil {
			m.logger.Warn("autosave failed", "error", msg.err)
			return m, nil
		}
		m.autosaved = msg.content
		logging.LogAutosave(m.logger, msg.name, len(msg.content))
		return m, nil

	case ConfigReloadedMsg:
		m.applyConfig(msg)
		return m, nil
	}

	return m.updateFocused(msg)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "tab", "shift+tab":
		m.toggleFocus()
		return m, nil

	case "enter":
		if m.focus == fieldReplace {
			m.replaceCurrent()
			return m, nil
		}
		if m.showingRecent() && m.recentSel >= 0 {
			m.find.SetValue(m.recent[m.recentSel])
			m.find.CursorEnd()
			m.setTerm(m.find.Value())
			return m, nil
		}
		return m, m.step(search.Next)

	case "f3", "ctrl+n":
		return m, m.step(search.Next)

	case "ctrl+p":
		return m, m.step(search.Prev)

	case "down":
		if m.showingRecent() {
			if m.recentSel < len(m.recent)-1 {
				m.recentSel++
			}
			return m, nil
		}
		return m, m.step(search.Next)

	case "up":
		if m.showingRecent() {
			if m.recentSel > 0 {
				m.recentSel--
			}
			return m, nil
		}
		return m, m.step(search.Prev)

	case "alt+c":
		opts := m.session.Options()
		opts.MatchCase = !opts.MatchCase
		m.session.SetOptions(opts)
		m.moveDocCursor()
		return m, nil

	case "alt+w":
		opts := m.session.Options()
		opts.WholeWord = !opts.WholeWord
		m.session.SetOptions(opts)
		m.moveDocCursor()
		return m, nil

	case "alt+r":
		opts := m.session.Options()
		opts.UseRegex = !opts.UseRegex
		m.session.SetOptions(opts)
		m.moveDocCursor()
		return m, nil

	case "ctrl+r":
		m.replaceCurrent()
		return m, nil

	case "alt+a":
		m.replaceAll()
		return m, nil

	case "ctrl+z":
		if m.ws.Active().Undo() {
			m.syncBuffer()
		}
		return m, nil

	case "ctrl+y":
		if m.ws.Active().Redo() {
			m.syncBuffer()
		}
		return m, nil

	case "ctrl+s":
		return m, m.saveActive()

	case "ctrl+t":
		m.ws.NewTab()
		m.syncBuffer()
		return m, nil

	case "ctrl+w":
		if err := m.ws.Close(m.ws.ActiveIndex()); err != nil {
			m.message = err.Error()
		}
		m.syncBuffer()
		return m, nil

	case "alt+right", "ctrl+pgdown":
		m.ws.Cycle(1)
		m.syncBuffer()
		return m, nil

	case "alt+left", "ctrl+pgup":
		m.ws.Cycle(-1)
		m.syncBuffer()
		return m, nil
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused input and re-searches when the
// find text changed.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == fieldReplace {
		m.replace, cmd = m.replace.Update(msg)
		return m, cmd
	}

	before := m.find.Value()
	m.find, cmd = m.find.Update(msg)
	if m.find.Value() != before {
		m.setTerm(m.find.Value())
	}
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == fieldFind {
		m.focus = fieldReplace
		m.find.Blur()
		m.replace.Focus()
		return
	}
	m.focus = fieldFind
	m.replace.Blur()
	m.find.Focus()
}

func (m *Model) setTerm(term string) {
	m.session.SetTerm(term)
	if errors.Is(m.session.Err(), search.ErrMatchTimeout) {
		logging.LogSearchTimeout(m.logger, term)
	}
	m.recentSel = -1
	if term == "" {
		m.clampRecent()
	}
	m.moveDocCursor()
}

// step moves the match cursor and records the term in history.
func (m *Model) step(dir search.Direction) tea.Cmd {
	if dir == search.Prev {
		m.session.Prev()
	} else {
		m.session.Next()
	}
	m.moveDocCursor()
	return m.record()
}

func (m *Model) replaceCurrent() {
	n := m.session.ReplaceCurrent(m.replace.Value())
	m.commitReplace(n)
}

func (m *Model) replaceAll() {
	n := m.session.ReplaceAll(m.replace.Value())
	m.commitReplace(n)
}

func (m *Model) commitReplace(n int) {
	if n == 0 {
		m.message = "Nothing to replace"
		return
	}
	m.ws.Active().SetContent(m.session.Buffer())
	m.moveDocCursor()
	if n == 1 {
		m.message = "Replaced 1 occurrence"
	} else {
		m.message = fmt.Sprintf("Replaced %d occurrences", n)
	}
}

// syncBuffer points the session at the active document after its text or
// the active tab changed.
func (m *Model) syncBuffer() {
	m.session.SetBuffer(m.ws.Active().Content)
	m.moveDocCursor()
}

// moveDocCursor places the document cursor at the start of the current
// match.
func (m *Model) moveDocCursor() {
	span, ok := m.session.Current()
	if !ok {
		return
	}
	doc := m.ws.Active()
	doc.Cursor = document.PositionAt(doc.Content, span.Start)
}

func (m *Model) record() tea.Cmd {
	term := m.session.Term()
	if m.history == nil || term == "" || term == m.lastRecorded {
		return nil
	}
	m.lastRecorded = term

	h := m.history
	return func() tea.Msg {
		ctx := context.Background()
		if err := h.Add(ctx, term); err != nil {
			return historyMsg{err: err}
		}
		items, err := h.List(ctx)
		return historyMsg{items: items, err: err}
	}
}

func (m Model) loadHistory() tea.Cmd {
	if m.history == nil {
		return nil
	}
	h := m.history
	return func() tea.Msg {
		items, err := h.List(context.Background())
		return historyMsg{items: items, err: err}
	}
}

// saveActive writes a copy of the active document off the event loop.
// The result is applied to the live document by applySaved.
func (m Model) saveActive() tea.Cmd {
	if m.save == nil {
		return nil
	}
	doc := m.ws.Active()
	snapshot := &document.Document{ID: doc.ID, FileName: doc.FileName, Content: doc.Content, HubID: doc.HubID}
	save := m.save
	return func() tea.Msg {
		err := save(context.Background(), snapshot)
		return savedMsg{
			docID:   snapshot.ID,
			name:    snapshot.FileName,
			content: snapshot.Content,
			hubID:   snapshot.HubID,
			err:     err,
		}
	}
}

// applySaved links the saved document to its stored copy. It is only
// marked saved when its text still equals what was written.
func (m *Model) applySaved(msg savedMsg) {
	for _, doc := range m.ws.Documents() {
		if doc.ID != msg.docID {
			continue
		}
		doc.FileName = msg.name
		doc.HubID = msg.hubID
		if doc.Content == msg.content {
			doc.MarkSaved()
		}
		return
	}
}

func (m Model) scheduleAutosave() tea.Cmd {
	if m.autosave == nil || m.autosaveEvery <= 0 {
		return nil
	}
	return tea.Tick(m.autosaveEvery, func(time.Time) tea.Msg {
		return autosaveTickMsg{}
	})
}

// autosaveActive snapshots the active document when its text differs from
// the last snapshot. The save runs off the event loop on a copy.
func (m Model) autosaveActive() tea.Cmd {
	doc := m.ws.Active()
	if m.autosave == nil || doc.Content == m.autosaved {
		return nil
	}
	snapshot := &document.Document{ID: doc.ID, FileName: doc.FileName, Content: doc.Content}
	autosave := m.autosave
	return func() tea.Msg {
		err := autosave(context.Background(), snapshot)
		return autosavedMsg{name: snapshot.FileName, content: snapshot.Content, err: err}
	}
}

func (m *Model) applyConfig(msg ConfigReloadedMsg) {
	if msg.Err != nil {
		m.message = fmt.Sprintf("Settings not applied: %v", msg.Err)
		return
	}
	cfg := msg.Config
	m.session.SetOptions(cfg.SearchOptions())
	m.ws.SetUndoLimit(cfg.Files.UndoLimit)
	m.plain = cfg.Advanced.ScreenReaderOptimization
	m.moveDocCursor()
	m.message = "Settings reloaded"
}

// showingRecent reports whether the recent-search list replaces the
// match list.
func (m Model) showingRecent() bool {
	return m.focus == fieldFind && m.find.Value() == "" && len(m.recent) > 0
}

func (m *Model) clampRecent() {
	if len(m.recent) == 0 {
		m.recentSel = -1
		return
	}
	if m.recentSel < 0 {
		m.recentSel = 0
	}
	if m.recentSel >= len(m.recent) {
		m.recentSel = len(m.recent) - 1
	}
}

// listHeight returns the number of visible list rows.
func (m Model) listHeight() int {
	// tab bar, find line, replace line, status line
	const chrome = 4
	h := m.height - chrome
	if h < 1 {
		h = 10 // Sensible default before first WindowSizeMsg
	}
	return h
}

// --- View rendering ---

var (
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	matchStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	onStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// render applies style unless the view is in plain mode.
func (m Model) render(style lipgloss.Style, s string) string {
	if m.plain {
		return s
	}
	return style.Render(s)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.viewTabBar())
	b.WriteRune('\n')

	b.WriteString(m.viewContent())
	b.WriteRune('\n')

	b.WriteString(m.viewFindLine())
	b.WriteRune('\n')
	b.WriteString(m.viewReplaceLine())
	b.WriteRune('\n')
	b.WriteString(m.viewStatus())
	return b.String()
}

func (m Model) viewTabBar() string {
	var parts []string
	for i, doc := range m.ws.Documents() {
		label := " " + doc.FileName
		if doc.Modified {
			label += " *"
		}
		label += " "
		if i == m.ws.ActiveIndex() {
			if m.plain {
				label = "[" + strings.TrimSpace(label) + "]"
			}
			parts = append(parts, m.render(activeTabStyle, label))
		} else {
			parts = append(parts, m.render(inactiveTabStyle, label))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) viewContent() string {
	if m.showingRecent() {
		return m.viewRecent()
	}
	if m.session.Term() == "" {
		return m.render(dimStyle, "Type to search "+m.ws.Active().FileName)
	}
	if !m.session.Matches().HasMatch() {
		return m.render(dimStyle, "No matches")
	}
	return m.viewMatches()
}

func (m Model) viewRecent() string {
	var b strings.Builder
	b.WriteString(m.render(dimStyle, "Recent searches"))
	for i, term := range m.recent {
		if i >= m.listHeight()-1 {
			break
		}
		b.WriteRune('\n')
		display := term
		if m.width > 4 {
			display = MiddleTruncate(Printable(term), m.width-4)
		}
		if i == m.recentSel {
			b.WriteString(m.render(selectedStyle, "> "+display))
		} else {
			b.WriteString(m.render(normalStyle, "  "+display))
		}
	}
	return b.String()
}

// viewMatches renders one row per match, scrolled so the current match is
// visible.
func (m Model) viewMatches() string {
	content := []rune(m.ws.Active().Content)
	matches := m.session.Matches()
	current := int(m.session.Cursor()) - 1

	rows := m.listHeight()
	first := 0
	if current >= rows {
		first = current - rows + 1
	}

	width := m.width
	if width <= 0 {
		width = 80
	}

	var lines []string
	for i := first; i < len(matches) && i < first+rows; i++ {
		span := matches[i]
		pos := document.PositionAt(string(content), span.Start)
		prefix := fmt.Sprintf("%4d:%-3d ", pos.Line, pos.Column)

		before, text, after := Excerpt(content, span)
		before, text, after = FitExcerpt(Printable(before), Printable(text), Printable(after), width-len(prefix)-2)

		marker := "  "
		style := normalStyle
		if i == current {
			marker = "> "
			style = selectedStyle
		}
		row := m.render(style, marker+prefix+before) + m.render(matchStyle, text) + m.render(style, after)
		if m.plain && i == current {
			row = marker + prefix + before + "[" + text + "]" + after
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

// Excerpt splits the line(s) holding span into the text before the match,
// the match, and the rest of the last matched line.
func Excerpt(content []rune, span search.Span) (string, string, string) {
	start := span.Start
	for start > 0 && content[start-1] != '\n' {
		start--
	}
	end := span.End
	for end < len(content) && content[end] != '\n' {
		end++
	}
	return string(content[start:span.Start]), string(content[span.Start:span.End]), string(content[span.End:end])
}

func (m Model) viewFindLine() string {
	line := m.render(labelStyle, "Find:    ") + m.find.View()
	if c := m.session.Counter(); c != "" {
		line += "  " + c
	}
	return line + "  " + m.viewToggles()
}

func (m Model) viewReplaceLine() string {
	return m.render(labelStyle, "Replace: ") + m.replace.View()
}

func (m Model) viewToggles() string {
	opts := m.session.Options()
	if m.plain {
		return "case:" + onOff(opts.MatchCase) + " word:" + onOff(opts.WholeWord) + " regex:" + onOff(opts.UseRegex)
	}
	toggle := func(label string, on bool) string {
		if on {
			return onStyle.Render(label)
		}
		return dimStyle.Render(label)
	}
	return toggle("Aa", opts.MatchCase) + " " + toggle("W", opts.WholeWord) + " " + toggle(".*", opts.UseRegex)
}

func (m Model) viewStatus() string {
	if m.message != "" {
		return m.render(dimStyle, m.message)
	}
	status := m.session.Status()
	if m.session.Err() != nil {
		return m.render(errorStyle, status)
	}
	return m.render(dimStyle, status)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
