package hub

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/notepadcc/internal/logging"
	"github.com/runger/notepadcc/internal/storage"
)

func newTestService(t *testing.T) (*Service, *storage.SQLiteStore) {
	t.Helper()

	store, err := storage.NewSQLiteStoreWithLogger(filepath.Join(t.TempDir(), "hub.db"), logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := NewService(store, logging.Discard())
	var clock int64 = 1_700_000_000_000
	svc.nowFn = func() int64 {
		clock += 1000
		return clock
	}
	return svc, store
}

func TestTree(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	root, err := svc.Tree(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.RootFolderID, root.FolderID)
	assert.Equal(t, "/", root.Path)

	names := func(nodes []*Node) []string {
		var out []string
		for _, n := range nodes {
			out = append(out, n.Name)
		}
		return out
	}
	assert.ElementsMatch(t, []string{"Documents", "Projects"}, names(root.Children))

	for _, child := range root.Children {
		switch child.Name {
		case "Documents":
			assert.ElementsMatch(t, []string{"Notes", "Drafts"}, names(child.Children))
		case "Projects":
			assert.ElementsMatch(t, []string{"Web Development", "Mobile Development"}, names(child.Children))
		}
	}
}

func TestCreate_NamesSequentially(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "documents")
	require.NoError(t, err)
	assert.Equal(t, "New Document 1.txt", first.Name)
	assert.Equal(t, "TXT", first.Format)
	assert.Equal(t, "text/plain", first.MimeType)
	assert.Equal(t, "documents", first.FolderID)
	assert.NotEmpty(t, first.FileID)

	second, err := svc.Create(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "New Document 2.txt", second.Name)
	assert.Equal(t, storage.RootFolderID, second.FolderID)
}

func TestCreate_UnknownFolder(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrFolderNotFound)
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(src, []byte("# Notes\nhello"), 0644))

	f, err := svc.Upload(ctx, "notes", src)
	require.NoError(t, err)
	assert.Equal(t, "notes.md", f.Name)
	assert.Equal(t, "MD", f.Format)
	assert.Equal(t, int64(13), f.SizeBytes)

	out := t.TempDir()
	paths, err := svc.Download(ctx, []string{f.FileID, "missing"}, out)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(out, "notes.md")}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "# Notes\nhello", string(data))
}

func TestUpload_MissingFile(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.Upload(context.Background(), "root", filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestList_FilterAndSort(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, "drafts")
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "notes")
	require.NoError(t, err)

	all, err := svc.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	drafts, err := svc.List(ctx, ListOptions{FolderID: "drafts", SortBy: storage.SortByModified, Descending: true})
	require.NoError(t, err)
	require.Len(t, drafts, 3)
	assert.Equal(t, "New Document 3.txt", drafts[0].Name)
	assert.Equal(t, "New Document 1.txt", drafts[2].Name)

	filtered, err := svc.List(ctx, ListOptions{NameFilter: " document 4 "})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "notes", filtered[0].FolderID)
}

func TestBulkDelete(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "root")
	require.NoError(t, err)
	b, err := svc.Create(ctx, "root")
	require.NoError(t, err)

	n, err := svc.BulkDelete(ctx, []string{a.FileID, b.FileID, "ghost"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	files, err := svc.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestOpenRecordsRecent(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "root")
	require.NoError(t, err)
	b, err := svc.Create(ctx, "root")
	require.NoError(t, err)

	doc, err := svc.Open(ctx, a.FileID)
	require.NoError(t, err)
	assert.Equal(t, a.FileID, doc.HubID)
	assert.Equal(t, a.Name, doc.FileName)
	assert.False(t, doc.Modified)

	_, err = svc.Open(ctx, b.FileID)
	require.NoError(t, err)

	recent, err := svc.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, b.FileID, recent[0].FileID)
	assert.Equal(t, a.FileID, recent[1].FileID)

	_, err = svc.Open(ctx, "ghost")
	assert.ErrorIs(t, err, storage.ErrFileNotFound)
}

func TestSave(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()

	f, err := svc.Create(ctx, "notes")
	require.NoError(t, err)

	doc, err := svc.Open(ctx, f.FileID)
	require.NoError(t, err)
	doc.SetContent("edited")
	doc.FileName = "renamed.json"
	require.True(t, doc.Modified)

	saved, err := svc.Save(ctx, doc, "")
	require.NoError(t, err)
	assert.False(t, doc.Modified)
	assert.Equal(t, "JSON", saved.Format)

	got, err := store.GetFile(ctx, f.FileID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)
	assert.Equal(t, "renamed.json", got.Name)
	assert.Equal(t, "notes", got.FolderID)
	assert.Greater(t, got.ModifiedAtUnixMs, f.ModifiedAtUnixMs)
}

func TestSave_NewDocumentLinks(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Open(ctx, mustCreate(t, svc).FileID)
	require.NoError(t, err)
	doc.HubID = ""
	doc.FileName = "fresh.txt"

	f, err := svc.Save(ctx, doc, "projects")
	require.NoError(t, err)
	assert.Equal(t, f.FileID, doc.HubID)

	n, err := store.CountFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func mustCreate(t *testing.T, svc *Service) *storage.File {
	t.Helper()
	f, err := svc.Create(context.Background(), "root")
	require.NoError(t, err)
	return f
}

func TestFolderPath(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.Equal(t, "/Projects/Web Development", svc.FolderPath(ctx, "web-dev"))
	assert.Equal(t, "/", svc.FolderPath(ctx, "nope"))
}

func TestFormatSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 Bytes"},
		{1, "1 Bytes"},
		{1023, "1023 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1234567, "1.18 MB"},
		{5 << 30, "5 GB"},
		{3 << 40, "3072 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.bytes), "FormatSize(%d)", tt.bytes)
	}
}

func TestFormatAndMimeType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "TXT", Format("a.txt"))
	assert.Equal(t, "", Format("README"))
	assert.Equal(t, "text/plain", MimeType("a.txt"))
	assert.Equal(t, "text/plain", MimeType("README"))
	assert.Equal(t, "application/json", MimeType("data.json"))
}
