package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissingReturnsDefaults(t *testing.T) {
	t.Setenv("NOTEPADCC_THEME", "")
	t.Setenv("NOTEPADCC_LOG_LEVEL", "")
	t.Setenv("NOTEPADCC_DEBUG", "")

	store := NewFileStore(filepath.Join(t.TempDir(), "config.yaml"))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	t.Setenv("NOTEPADCC_THEME", "")
	t.Setenv("NOTEPADCC_LOG_LEVEL", "")
	t.Setenv("NOTEPADCC_DEBUG", "")

	store := NewFileStore(filepath.Join(t.TempDir(), "config.yaml"))

	cfg := DefaultConfig()
	cfg.Display.ColorTheme = "dark"
	cfg.Search.MatchCase = true
	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "dark", loaded.Display.ColorTheme)
	assert.True(t, loaded.Search.MatchCase)
}

func TestFileStore_SaveRejectsInvalid(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "config.yaml"))

	cfg := DefaultConfig()
	cfg.Behavior.TabSize = 0
	assert.Error(t, store.Save(cfg))
}

func TestNewFileStore_DefaultPath(t *testing.T) {
	store := NewFileStore("")
	assert.Equal(t, DefaultPaths().ConfigFile(), store.Path)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(nil)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	// Loaded values are copies.
	cfg.Display.FontSize = 30
	again, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 14, again.Display.FontSize)

	require.NoError(t, store.Save(cfg))
	again, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, 30, again.Display.FontSize)

	cfg.Display.FontSize = 100
	assert.Error(t, store.Save(cfg))
}

func TestStoreInterface(t *testing.T) {
	var _ Store = (*FileStore)(nil)
	var _ Store = (*MemoryStore)(nil)
}
