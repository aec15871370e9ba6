// Package history remembers recent find/replace search terms
package history

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/runger/notepadcc/internal/storage"
)

// DefaultLimit is how many terms are kept when no limit is configured.
const DefaultLimit = 10

// Store is the subset of storage.Store the history service needs.
type Store interface {
	AddSearchTerm(ctx context.Context, term string, usedAt int64) (bool, error)
	ListSearchTerms(ctx context.Context, limit int) ([]storage.SearchEntry, error)
	TrimSearchHistory(ctx context.Context, keep int) (int64, error)
	ClearSearchHistory(ctx context.Context) error
}

// Service keeps a bounded, de-duplicated, newest-first list of terms.
type Service struct {
	store  Store
	limit  int
	now    func() time.Time
	logger *slog.Logger
}

// NewService returns a Service over store keeping at most limit terms.
// A limit below 1 uses DefaultLimit and a nil logger uses slog.Default().
func NewService(store Store, limit int, logger *slog.Logger) *Service {
	if limit < 1 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, limit: limit, now: time.Now, logger: logger}
}

// Add records term. Empty terms and terms already in the list are ignored;
// a known term keeps its position rather than moving to the front.
func (s *Service) Add(ctx context.Context, term string) error {
	if strings.TrimSpace(term) == "" {
		return nil
	}

	added, err := s.store.AddSearchTerm(ctx, term, s.now().UnixMilli())
	if err != nil {
		return err
	}
	if !added {
		return nil
	}

	trimmed, err := s.store.TrimSearchHistory(ctx, s.limit)
	if err != nil {
		return err
	}
	if trimmed > 0 {
		s.logger.Debug("search history trimmed", "removed", trimmed, "limit", s.limit)
	}
	return nil
}

// List returns the remembered terms, newest first.
func (s *Service) List(ctx context.Context) ([]string, error) {
	entries, err := s.store.ListSearchTerms(ctx, s.limit)
	if err != nil {
		return nil, err
	}
	terms := make([]string, 0, len(entries))
	for _, e := range entries {
		terms = append(terms, e.Term)
	}
	return terms, nil
}

// Clear forgets every term.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.ClearSearchHistory(ctx)
}

// Suggestion finds the most recent term starting with prefix.
// Returns empty string if no match found.
func (s *Service) Suggestion(ctx context.Context, prefix string) string {
	suggestions := s.Suggestions(ctx, prefix, 1)
	if len(suggestions) > 0 {
		return suggestions[0]
	}
	return ""
}

// Suggestions finds up to limit terms starting with prefix, newest first.
// The prefix match ignores case and never returns prefix itself.
func (s *Service) Suggestions(ctx context.Context, prefix string, limit int) []string {
	if prefix == "" || limit <= 0 {
		return nil
	}

	terms, err := s.List(ctx)
	if err != nil {
		s.logger.Warn("failed to list search history", "error", err)
		return nil
	}

	lower := strings.ToLower(prefix)
	var results []string
	for _, term := range terms {
		if len(results) == limit {
			break
		}
		if term != prefix && strings.HasPrefix(strings.ToLower(term), lower) {
			results = append(results, term)
		}
	}
	return results
}

// MemoryStore is an in-memory Store for callers that do not persist history.
type MemoryStore struct {
	mu      sync.Mutex
	entries []storage.SearchEntry // newest first
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) AddSearchTerm(_ context.Context, term string, usedAt int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.Term == term {
			return false, nil
		}
	}
	m.entries = append([]storage.SearchEntry{{Term: term, UsedAtUnixMs: usedAt}}, m.entries...)
	return true, nil
}

func (m *MemoryStore) ListSearchTerms(_ context.Context, limit int) ([]storage.SearchEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := min(limit, len(m.entries))
	if limit <= 0 {
		n = len(m.entries)
	}
	return append([]storage.SearchEntry(nil), m.entries[:n]...), nil
}

func (m *MemoryStore) TrimSearchHistory(_ context.Context, keep int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	if len(m.entries) <= keep {
		return 0, nil
	}
	removed := len(m.entries) - keep
	m.entries = m.entries[:keep]
	return int64(removed), nil
}

func (m *MemoryStore) ClearSearchHistory(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = nil
	return nil
}
