package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const defaultFileQueryLimit = 500

// CreateFile creates a new file record. SizeBytes is derived from Content.
func (s *SQLiteStore) CreateFile(ctx context.Context, f *File) error {
	if f == nil {
		return errors.New("file cannot be nil")
	}
	if f.FileID == "" {
		return errors.New("file_id is required")
	}
	if f.Name == "" {
		return errors.New("name is required")
	}
	if f.FolderID == "" {
		return errors.New("folder_id is required")
	}
	if f.CreatedAtUnixMs == 0 {
		f.CreatedAtUnixMs = f.ModifiedAtUnixMs
	}
	if f.MimeType == "" {
		f.MimeType = "text/plain"
	}
	f.SizeBytes = int64(len(f.Content))

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (
			file_id, name, folder_id, size_bytes, mime_type, format,
			content, created_at_unix_ms, modified_at_unix_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		f.FileID,
		f.Name,
		f.FolderID,
		f.SizeBytes,
		f.MimeType,
		f.Format,
		f.Content,
		f.CreatedAtUnixMs,
		f.ModifiedAtUnixMs,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: %s", ErrFolderNotFound, f.FolderID)
		}
		if isDuplicateKeyError(err) {
			return fmt.Errorf("file with id %s already exists", f.FileID)
		}
		return fmt.Errorf("failed to create file: %w", err)
	}

	return nil
}

// GetFile retrieves a file, including its content, by ID.
func (s *SQLiteStore) GetFile(ctx context.Context, fileID string) (*File, error) {
	if fileID == "" {
		return nil, errors.New("file_id is required")
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+fileColumns+`
		FROM files
		WHERE file_id = ?
	`, fileID)

	f, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	return f, err
}

// UpdateFile overwrites a file's name, folder, content and modification
// time.
func (s *SQLiteStore) UpdateFile(ctx context.Context, f *File) error {
	if f == nil {
		return errors.New("file cannot be nil")
	}
	if f.FileID == "" {
		return errors.New("file_id is required")
	}
	f.SizeBytes = int64(len(f.Content))

	result, err := s.db.ExecContext(ctx, `
		UPDATE files
		SET name = ?, folder_id = ?, size_bytes = ?, format = ?,
			content = ?, modified_at_unix_ms = ?
		WHERE file_id = ?
	`, f.Name, f.FolderID, f.SizeBytes, f.Format, f.Content, f.ModifiedAtUnixMs, f.FileID)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: %s", ErrFolderNotFound, f.FolderID)
		}
		return fmt.Errorf("failed to update file: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrFileNotFound
	}
	return nil
}

// DeleteFiles removes the given files in one transaction and returns how
// many existed.
func (s *SQLiteStore) DeleteFiles(ctx context.Context, fileIDs []string) (int64, error) {
	if len(fileIDs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM files WHERE file_id = ?`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare delete: %w", err)
	}
	defer stmt.Close()

	var deleted int64
	for _, id := range fileIDs {
		result, err := stmt.ExecContext(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("failed to delete file %s: %w", id, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		deleted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit delete: %w", err)
	}
	return deleted, nil
}

// QueryFiles lists files matching q. Content is included.
func (s *SQLiteStore) QueryFiles(ctx context.Context, q FileQuery) ([]File, error) {
	var conditions []string
	var args []any

	if q.FolderID != "" {
		conditions = append(conditions, "folder_id = ?")
		args = append(args, q.FolderID)
	}
	if q.NameContains != "" {
		conditions = append(conditions, "instr(lower(name), lower(?)) > 0")
		args = append(args, q.NameContains)
	}

	query := "SELECT " + fileColumns + " FROM files"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy, err := orderClause(q.SortBy, q.Descending)
	if err != nil {
		return nil, err
	}
	query += " ORDER BY " + orderBy

	limit := q.Limit
	if limit <= 0 {
		limit = defaultFileQueryLimit
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate files: %w", err)
	}

	return files, nil
}

// CountFiles returns the number of stored files.
func (s *SQLiteStore) CountFiles(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}
	return n, nil
}

const fileColumns = `file_id, name, folder_id, size_bytes, mime_type, format,
	content, created_at_unix_ms, modified_at_unix_ms`

func orderClause(key SortKey, desc bool) (string, error) {
	var col string
	switch key {
	case SortByName, "":
		col = "name COLLATE NOCASE"
	case SortByModified:
		col = "modified_at_unix_ms"
	case SortBySize:
		col = "size_bytes"
	default:
		return "", fmt.Errorf("invalid sort key: %s", key)
	}

	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	// file_id breaks ties so paging is stable.
	return col + " " + dir + ", file_id ASC", nil
}

func scanFile(row rowScanner) (*File, error) {
	var f File
	err := row.Scan(
		&f.FileID,
		&f.Name,
		&f.FolderID,
		&f.SizeBytes,
		&f.MimeType,
		&f.Format,
		&f.Content,
		&f.CreatedAtUnixMs,
		&f.ModifiedAtUnixMs,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan file: %w", err)
	}
	return &f, nil
}

// TouchRecentFile records that a file was opened.
func (s *SQLiteStore) TouchRecentFile(ctx context.Context, fileID string, openedAt int64) error {
	if fileID == "" {
		return errors.New("file_id is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recent_files (file_id, opened_at_unix_ms)
		VALUES (?, ?)
		ON CONFLICT(file_id) DO UPDATE SET opened_at_unix_ms = excluded.opened_at_unix_ms
	`, fileID, openedAt)
	if err != nil {
		if isForeignKeyError(err) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to record recent file: %w", err)
	}
	return nil
}

// ListRecentFiles returns the most recently opened files, newest first.
func (s *SQLiteStore) ListRecentFiles(ctx context.Context, limit int) ([]File, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT f.file_id, f.name, f.folder_id, f.size_bytes, f.mime_type, f.format,
			f.content, f.created_at_unix_ms, f.modified_at_unix_ms
		FROM recent_files r
		JOIN files f ON f.file_id = r.file_id
		ORDER BY r.opened_at_unix_ms DESC, f.file_id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent files: %w", err)
	}
	return files, nil
}
