// Package storage provides SQLite-based persistent storage for notepadcc.
// It holds the file hub (folders and files), recently opened files, the
// find/replace search history and the autosave slot.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrFileNotFound is returned when a file is not found.
	ErrFileNotFound = errors.New("file not found")

	// ErrFolderNotFound is returned when a folder is not found.
	ErrFolderNotFound = errors.New("folder not found")

	// ErrNoAutosave is returned when the autosave slot is empty.
	ErrNoAutosave = errors.New("no autosave")
)

// RootFolderID is the id of the seeded root folder.
const RootFolderID = "root"

// Store defines the interface for all storage operations.
type Store interface {
	// Folders
	ListFolders(ctx context.Context) ([]Folder, error)
	GetFolder(ctx context.Context, folderID string) (*Folder, error)

	// Files
	CreateFile(ctx context.Context, f *File) error
	GetFile(ctx context.Context, fileID string) (*File, error)
	UpdateFile(ctx context.Context, f *File) error
	DeleteFiles(ctx context.Context, fileIDs []string) (int64, error)
	QueryFiles(ctx context.Context, q FileQuery) ([]File, error)
	CountFiles(ctx context.Context) (int, error)

	// Recent files
	TouchRecentFile(ctx context.Context, fileID string, openedAt int64) error
	ListRecentFiles(ctx context.Context, limit int) ([]File, error)

	// Search history
	AddSearchTerm(ctx context.Context, term string, usedAt int64) (bool, error)
	ListSearchTerms(ctx context.Context, limit int) ([]SearchEntry, error)
	TrimSearchHistory(ctx context.Context, keep int) (int64, error)
	ClearSearchHistory(ctx context.Context) error

	// Autosave
	SaveAutosave(ctx context.Context, a *Autosave) error
	LoadAutosave(ctx context.Context) (*Autosave, error)
	ClearAutosave(ctx context.Context) error

	// Lifecycle
	Close() error
}

// Folder is a node of the hub's folder tree.
type Folder struct {
	FolderID string
	Name     string
	ParentID string // empty for the root
	Path     string
}

// File is a stored document.
type File struct {
	FileID           string
	Name             string
	FolderID         string
	SizeBytes        int64 // derived from Content on write
	MimeType         string
	Format           string // upper-cased extension, e.g. "TXT"
	Content          string
	CreatedAtUnixMs  int64
	ModifiedAtUnixMs int64
}

// SortKey selects the column files are ordered by.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByModified SortKey = "modified"
	SortBySize     SortKey = "size"
)

// FileQuery defines parameters for querying files.
type FileQuery struct {
	FolderID     string // Include only this folder; empty means all folders
	NameContains string // Case-insensitive substring of the file name
	SortBy       SortKey
	Descending   bool
	Limit        int
}

// SearchEntry is one remembered search term.
type SearchEntry struct {
	Term         string
	UsedAtUnixMs int64
}

// Autosave is the periodically saved snapshot of the active document.
type Autosave struct {
	FileName      string
	Content       string
	SavedAtUnixMs int64
}
