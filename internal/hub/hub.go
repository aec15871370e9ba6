// Package hub is the file-management hub: a folder tree of stored
// documents with listing, sorting, upload, download and bulk deletion on
// top of a storage.Store.
package hub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/runger/notepadcc/internal/document"
	"github.com/runger/notepadcc/internal/storage"
)

// DefaultRecentLimit is how many recently opened files Recent returns
// when no limit is given.
const DefaultRecentLimit = 10

// Service implements hub operations over a store.
type Service struct {
	store  storage.Store
	logger *slog.Logger

	// nowFn returns current time in ms; overridable for testing.
	nowFn func() int64
}

// NewService creates a hub service.
func NewService(store storage.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		logger: logger,
		nowFn:  func() int64 { return time.Now().UnixMilli() },
	}
}

// Node is a folder with its subfolders.
type Node struct {
	storage.Folder
	Children []*Node
}

// Tree returns the folder hierarchy rooted at the root folder.
func (s *Service) Tree(ctx context.Context) (*Node, error) {
	folders, err := s.store.ListFolders(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*Node, len(folders))
	for _, f := range folders {
		nodes[f.FolderID] = &Node{Folder: f}
	}

	var root *Node
	for _, f := range folders {
		n := nodes[f.FolderID]
		if f.ParentID == "" {
			root = n
			continue
		}
		if parent, ok := nodes[f.ParentID]; ok {
			parent.Children = append(parent.Children, n)
		}
	}
	if root == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrFolderNotFound, storage.RootFolderID)
	}
	return root, nil
}

// ListOptions selects and orders files for List.
type ListOptions struct {
	FolderID   string // empty lists every folder
	NameFilter string // case-insensitive substring
	SortBy     storage.SortKey
	Descending bool
}

// List returns the files matching opts. Sorting defaults to name.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]storage.File, error) {
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = storage.SortByName
	}
	return s.store.QueryFiles(ctx, storage.FileQuery{
		FolderID:     opts.FolderID,
		NameContains: strings.TrimSpace(opts.NameFilter),
		SortBy:       sortBy,
		Descending:   opts.Descending,
	})
}

// Create adds an empty "New Document N.txt" to folderID, where N is one
// more than the number of stored files.
func (s *Service) Create(ctx context.Context, folderID string) (*storage.File, error) {
	n, err := s.store.CountFiles(ctx)
	if err != nil {
		return nil, err
	}
	return s.put(ctx, folderID, fmt.Sprintf("New Document %d.txt", n+1), "")
}

// Upload copies a local text file into folderID.
func (s *Service) Upload(ctx context.Context, folderID, path string) (*storage.File, error) {
	doc, err := document.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return s.put(ctx, folderID, doc.FileName, doc.Content)
}

func (s *Service) put(ctx context.Context, folderID, name, content string) (*storage.File, error) {
	if folderID == "" {
		folderID = storage.RootFolderID
	}
	now := s.nowFn()
	f := &storage.File{
		FileID:           uuid.NewString(),
		Name:             name,
		FolderID:         folderID,
		MimeType:         MimeType(name),
		Format:           Format(name),
		Content:          content,
		CreatedAtUnixMs:  now,
		ModifiedAtUnixMs: now,
	}
	if err := s.store.CreateFile(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Debug("hub file created", "file_id", f.FileID, "name", f.Name, "folder_id", folderID)
	return f, nil
}

// Download writes the given files into dir and returns the paths written.
// Files that no longer exist are skipped.
func (s *Service) Download(ctx context.Context, fileIDs []string, dir string) ([]string, error) {
	var paths []string
	for _, id := range fileIDs {
		f, err := s.store.GetFile(ctx, id)
		if errors.Is(err, storage.ErrFileNotFound) {
			s.logger.Warn("skipping missing file", "file_id", id)
			continue
		}
		if err != nil {
			return paths, err
		}

		path, err := document.WriteFile(document.New(f.Name, f.Content), dir)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// BulkDelete removes the given files and returns how many were deleted.
func (s *Service) BulkDelete(ctx context.Context, fileIDs []string) (int64, error) {
	n, err := s.store.DeleteFiles(ctx, fileIDs)
	if err != nil {
		return 0, err
	}
	s.logger.Info("hub files deleted", "requested", len(fileIDs), "deleted", n)
	return n, nil
}

// Open loads a stored file as a document and records it as recently
// opened.
func (s *Service) Open(ctx context.Context, fileID string) (*document.Document, error) {
	f, err := s.store.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if err := s.store.TouchRecentFile(ctx, fileID, s.nowFn()); err != nil {
		return nil, err
	}

	doc := document.New(f.Name, f.Content)
	doc.HubID = f.FileID
	return doc, nil
}

// Save stores doc. Documents already linked to a hub file overwrite it;
// others are created in folderID and linked. Saving clears Modified.
func (s *Service) Save(ctx context.Context, doc *document.Document, folderID string) (*storage.File, error) {
	if doc.HubID == "" {
		f, err := s.put(ctx, folderID, doc.FileName, doc.Content)
		if err != nil {
			return nil, err
		}
		doc.HubID = f.FileID
		doc.MarkSaved()
		return f, nil
	}

	f, err := s.store.GetFile(ctx, doc.HubID)
	if err != nil {
		return nil, err
	}
	f.Name = doc.FileName
	f.Format = Format(doc.FileName)
	f.Content = doc.Content
	f.ModifiedAtUnixMs = s.nowFn()
	if err := s.store.UpdateFile(ctx, f); err != nil {
		return nil, err
	}
	doc.MarkSaved()
	return f, nil
}

// Recent returns the most recently opened files, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]storage.File, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.store.ListRecentFiles(ctx, limit)
}

// FolderPath returns the display path of a folder, or "/" when the folder
// is unknown.
func (s *Service) FolderPath(ctx context.Context, folderID string) string {
	f, err := s.store.GetFolder(ctx, folderID)
	if err != nil {
		return "/"
	}
	return f.Path
}

// Format returns the upper-cased extension of name, e.g. "TXT".
func Format(name string) string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(name), "."))
}

// MimeType guesses a MIME type from the file extension, defaulting to
// text/plain.
func MimeType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return "text/plain"
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders a byte count with binary units and at most two
// decimals: 0 → "0 Bytes", 1536 → "1.5 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
