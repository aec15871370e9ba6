// Package session guards the editor's autosave slot so that only one
// interactive editor writes it at a time.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Lock is an exclusive, process-wide claim on the autosave slot.
type Lock struct {
	file *os.File
	path string
}

// HeldError reports that another live process owns the lock.
type HeldError struct {
	PID  int
	Path string
}

func (e *HeldError) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("editor already running (PID %d), lock file: %s", e.PID, e.Path)
	}
	return fmt.Sprintf("editor lock held: %s", e.Path)
}

// LockPath returns the editor lock path inside dataDir.
func LockPath(dataDir string) string {
	return filepath.Join(dataDir, "editor.lock")
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

func writePID(f *os.File) error {
	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate lock file: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to seek lock file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		return fmt.Errorf("failed to write PID to lock file: %w", err)
	}
	return f.Sync()
}

// readPID returns the PID recorded in f, or 0 when it has none.
func readPID(f *os.File) int {
	if _, err := f.Seek(0, 0); err != nil {
		return 0
	}
	buf := make([]byte, 32)
	n, err := f.Read(buf)
	if err != nil || n == 0 {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(buf[:n])))
	if err != nil {
		return 0
	}
	return pid
}
