package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AddSearchTerm remembers term. A term that is already stored keeps its
// position; the returned bool reports whether a row was added.
func (s *SQLiteStore) AddSearchTerm(ctx context.Context, term string, usedAt int64) (bool, error) {
	if term == "" {
		return false, errors.New("term is required")
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO search_history (term, used_at_unix_ms)
		VALUES (?, ?)
	`, term, usedAt)
	if err != nil {
		return false, fmt.Errorf("failed to add search term: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// ListSearchTerms returns up to limit terms, newest first.
func (s *SQLiteStore) ListSearchTerms(ctx context.Context, limit int) ([]SearchEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT term, used_at_unix_ms
		FROM search_history
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	var entries []SearchEntry
	for rows.Next() {
		var e SearchEntry
		if err := rows.Scan(&e.Term, &e.UsedAtUnixMs); err != nil {
			return nil, fmt.Errorf("failed to scan search term: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search history: %w", err)
	}
	return entries, nil
}

// TrimSearchHistory deletes all but the keep newest terms.
func (s *SQLiteStore) TrimSearchHistory(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM search_history
		WHERE seq NOT IN (
			SELECT seq FROM search_history ORDER BY seq DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to trim search history: %w", err)
	}
	return result.RowsAffected()
}

// ClearSearchHistory deletes every stored term.
func (s *SQLiteStore) ClearSearchHistory(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM search_history`); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}
	return nil
}

// SaveAutosave overwrites the autosave slot.
func (s *SQLiteStore) SaveAutosave(ctx context.Context, a *Autosave) error {
	if a == nil {
		return errors.New("autosave cannot be nil")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO autosave (slot, file_name, content, saved_at_unix_ms)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			file_name = excluded.file_name,
			content = excluded.content,
			saved_at_unix_ms = excluded.saved_at_unix_ms
	`, a.FileName, a.Content, a.SavedAtUnixMs)
	if err != nil {
		return fmt.Errorf("failed to save autosave: %w", err)
	}
	return nil
}

// LoadAutosave returns the autosave slot, or ErrNoAutosave.
func (s *SQLiteStore) LoadAutosave(ctx context.Context) (*Autosave, error) {
	var a Autosave
	err := s.db.QueryRowContext(ctx, `
		SELECT file_name, content, saved_at_unix_ms FROM autosave WHERE slot = 1
	`).Scan(&a.FileName, &a.Content, &a.SavedAtUnixMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoAutosave
		}
		return nil, fmt.Errorf("failed to load autosave: %w", err)
	}
	return &a, nil
}

// ClearAutosave empties the autosave slot.
func (s *SQLiteStore) ClearAutosave(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM autosave`); err != nil {
		return fmt.Errorf("failed to clear autosave: %w", err)
	}
	return nil
}
