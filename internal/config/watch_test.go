package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reload struct {
	cfg *Config
	err error
}

func startWatch(t *testing.T, path string) <-chan reload {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	reloads := make(chan reload, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := Watch(ctx, path, func(cfg *Config, err error) {
			reloads <- reload{cfg, err}
		})
		assert.NoError(t, err)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	return reloads
}

func waitReload(t *testing.T, reloads <-chan reload) reload {
	t.Helper()
	select {
	case r := <-reloads:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
		return reload{}
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	t.Setenv("NOTEPADCC_THEME", "")
	t.Setenv("NOTEPADCC_LOG_LEVEL", "")
	t.Setenv("NOTEPADCC_DEBUG", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	reloads := startWatch(t, path)

	cfg := DefaultConfig()
	cfg.Display.ColorTheme = "dark"
	require.NoError(t, cfg.SaveToFile(path))

	r := waitReload(t, reloads)
	require.NoError(t, r.err)
	assert.Equal(t, "dark", r.cfg.Display.ColorTheme)
}

func TestWatch_ReportsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	reloads := startWatch(t, path)

	require.NoError(t, os.WriteFile(path, []byte("display:\n  font_size: 2\n"), 0644))

	r := waitReload(t, reloads)
	assert.Error(t, r.err)
	assert.Nil(t, r.cfg)
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	reloads := startWatch(t, filepath.Join(dir, "config.yaml"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0644))

	select {
	case r := <-reloads:
		t.Fatalf("unexpected reload: %+v", r)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatch_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Watch(ctx, filepath.Join(t.TempDir(), "config.yaml"), func(*Config, error) {})
	assert.NoError(t, err)
}
