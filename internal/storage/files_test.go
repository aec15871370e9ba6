package storage

import (
	"context"
	"errors"
	"testing"
)

func TestSQLiteStore_CreateFile_Success(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()

	f := createTestFile(t, store, "f1", "Meeting Notes.txt", "notes", "hello", 1700000000000)
	if f.SizeBytes != 5 {
		t.Errorf("SizeBytes = %d, want 5", f.SizeBytes)
	}
	if f.CreatedAtUnixMs != f.ModifiedAtUnixMs {
		t.Errorf("CreatedAtUnixMs = %d, want %d", f.CreatedAtUnixMs, f.ModifiedAtUnixMs)
	}

	got, err := store.GetFile(context.Background(), "f1")
	if err != nil {
		t.Fatalf("GetFile() error = %v", err)
	}
	if got.Name != "Meeting Notes.txt" || got.Content != "hello" || got.MimeType != "text/plain" {
		t.Errorf("GetFile() = %+v", got)
	}
}

func TestSQLiteStore_CreateFile_Validation(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()

	tests := []struct {
		name string
		file *File
	}{
		{"nil", nil},
		{"missing id", &File{Name: "a", FolderID: "root"}},
		{"missing name", &File{FileID: "a", FolderID: "root"}},
		{"missing folder", &File{FileID: "a", Name: "a"}},
	}
	for _, tt := range tests {
		if err := store.CreateFile(ctx, tt.file); err == nil {
			t.Errorf("CreateFile(%s) expected error", tt.name)
		}
	}

	err := store.CreateFile(ctx, &File{FileID: "a", Name: "a", FolderID: "ghost"})
	if !errors.Is(err, ErrFolderNotFound) {
		t.Errorf("CreateFile(unknown folder) error = %v, want ErrFolderNotFound", err)
	}

	createTestFile(t, store, "dup", "a.txt", "root", "", 1)
	if err := store.CreateFile(ctx, &File{FileID: "dup", Name: "b", FolderID: "root"}); err == nil {
		t.Error("CreateFile(duplicate id) expected error")
	}
}

func TestSQLiteStore_GetFile_NotFound(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()

	if _, err := store.GetFile(context.Background(), "missing"); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("GetFile() error = %v, want ErrFileNotFound", err)
	}
}

func TestSQLiteStore_UpdateFile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	f := createTestFile(t, store, "u1", "draft.txt", "drafts", "one", 100)

	f.Content = "one two"
	f.Name = "final.md"
	f.Format = "MD"
	f.ModifiedAtUnixMs = 200
	if err := store.UpdateFile(ctx, f); err != nil {
		t.Fatalf("UpdateFile() error = %v", err)
	}

	got, err := store.GetFile(ctx, "u1")
	if err != nil {
		t.Fatalf("GetFile() error = %v", err)
	}
	if got.Name != "final.md" || got.SizeBytes != 7 || got.ModifiedAtUnixMs != 200 || got.CreatedAtUnixMs != 100 {
		t.Errorf("after update = %+v", got)
	}

	err = store.UpdateFile(ctx, &File{FileID: "ghost", Name: "x", FolderID: "root"})
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("UpdateFile(ghost) error = %v, want ErrFileNotFound", err)
	}
}

func TestSQLiteStore_DeleteFiles(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	createTestFile(t, store, "d1", "a.txt", "root", "", 1)
	createTestFile(t, store, "d2", "b.txt", "root", "", 2)
	createTestFile(t, store, "d3", "c.txt", "root", "", 3)
	if err := store.TouchRecentFile(ctx, "d1", 10); err != nil {
		t.Fatalf("TouchRecentFile() error = %v", err)
	}

	n, err := store.DeleteFiles(ctx, []string{"d1", "d3", "missing"})
	if err != nil {
		t.Fatalf("DeleteFiles() error = %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteFiles() = %d, want 2", n)
	}

	count, _ := store.CountFiles(ctx)
	if count != 1 {
		t.Errorf("CountFiles() = %d, want 1", count)
	}

	recent, err := store.ListRecentFiles(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentFiles() error = %v", err)
	}
	if len(recent) != 0 {
		t.Errorf("deleted file still listed as recent: %+v", recent)
	}

	if n, err := store.DeleteFiles(ctx, nil); n != 0 || err != nil {
		t.Errorf("DeleteFiles(nil) = %d, %v", n, err)
	}
}

func TestSQLiteStore_QueryFiles(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	createTestFile(t, store, "q1", "beta.txt", "notes", "12345", 300)
	createTestFile(t, store, "q2", "Alpha Notes.txt", "notes", "1", 100)
	createTestFile(t, store, "q3", "gamma.md", "notes", "123", 200)
	createTestFile(t, store, "q4", "alpha-other.txt", "drafts", "", 400)

	tests := []struct {
		name  string
		query FileQuery
		want  []string
	}{
		{"folder by name", FileQuery{FolderID: "notes"}, []string{"q2", "q1", "q3"}},
		{"folder by name desc", FileQuery{FolderID: "notes", Descending: true}, []string{"q3", "q1", "q2"}},
		{"by modified", FileQuery{FolderID: "notes", SortBy: SortByModified}, []string{"q2", "q3", "q1"}},
		{"by size desc", FileQuery{FolderID: "notes", SortBy: SortBySize, Descending: true}, []string{"q1", "q3", "q2"}},
		{"name filter is case-insensitive", FileQuery{NameContains: "ALPHA"}, []string{"q2", "q4"}},
		{"folder and filter", FileQuery{FolderID: "notes", NameContains: "alpha"}, []string{"q2"}},
		{"limit", FileQuery{SortBy: SortByModified, Descending: true, Limit: 2}, []string{"q4", "q1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := store.QueryFiles(ctx, tt.query)
			if err != nil {
				t.Fatalf("QueryFiles() error = %v", err)
			}
			var got []string
			for _, f := range files {
				got = append(got, f.FileID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("QueryFiles() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("QueryFiles()[%d] = %s, want %s (all: %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}

	if _, err := store.QueryFiles(ctx, FileQuery{SortBy: "color"}); err == nil {
		t.Error("QueryFiles(invalid sort) expected error")
	}
}

func TestSQLiteStore_RecentFiles(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	defer store.Close()

	ctx := context.Background()
	createTestFile(t, store, "r1", "a.txt", "root", "", 1)
	createTestFile(t, store, "r2", "b.txt", "root", "", 1)

	for _, step := range []struct {
		id string
		at int64
	}{{"r1", 10}, {"r2", 20}, {"r1", 30}} {
		if err := store.TouchRecentFile(ctx, step.id, step.at); err != nil {
			t.Fatalf("TouchRecentFile(%s) error = %v", step.id, err)
		}
	}

	recent, err := store.ListRecentFiles(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentFiles() error = %v", err)
	}
	if len(recent) != 2 || recent[0].FileID != "r1" || recent[1].FileID != "r2" {
		t.Errorf("ListRecentFiles() = %+v, want [r1 r2]", recent)
	}

	if err := store.TouchRecentFile(ctx, "ghost", 1); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("TouchRecentFile(ghost) error = %v, want ErrFileNotFound", err)
	}
}
