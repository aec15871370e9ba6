package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ListFolders returns every folder ordered by path.
func (s *SQLiteStore) ListFolders(ctx context.Context) ([]Folder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT folder_id, name, parent_id, path
		FROM folders
		ORDER BY path
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query folders: %w", err)
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate folders: %w", err)
	}

	return folders, nil
}

// GetFolder retrieves a folder by ID.
func (s *SQLiteStore) GetFolder(ctx context.Context, folderID string) (*Folder, error) {
	if folderID == "" {
		return nil, errors.New("folder_id is required")
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT folder_id, name, parent_id, path
		FROM folders
		WHERE folder_id = ?
	`, folderID)

	f, err := scanFolder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFolderNotFound
	}
	return f, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFolder(row rowScanner) (*Folder, error) {
	var f Folder
	var parentID sql.NullString
	if err := row.Scan(&f.FolderID, &f.Name, &parentID, &f.Path); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan folder: %w", err)
	}
	f.ParentID = parentID.String
	return &f, nil
}
