//go:build windows

package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/windows"
)

const stillActive = 259

// Acquire takes the lock at path by creating it exclusively. A lock left
// behind by a dead process is reclaimed. When a live process holds it the
// error is a *HeldError.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	return acquire(path, true)
}

func acquire(path string, reclaim bool) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0600)
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock on %s: %w", path, err)
		}
		pid, _, _ := Holder(path)
		if reclaim && pid > 0 && !processAlive(pid) {
			if os.Remove(path) == nil {
				return acquire(path, false)
			}
		}
		return nil, &HeldError{PID: pid, Path: path}
	}

	if err := writePID(f); err != nil {
		f.Close()
		_ = os.Remove(path)
		return nil, err
	}
	return &Lock{file: f, path: path}, nil
}

// Holder returns the PID recorded at path. Ownership is inferred from the
// lock file being present.
func Holder(path string) (pid int, held bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("open lock file: %w", err)
	}
	pid, _ = strconv.Atoi(strings.TrimSpace(string(data)))
	return pid, true, nil
}

// Release closes and removes the lock file. It is safe to call twice.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close lock file: %w", err)
	}
	l.file = nil
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

func processAlive(pid int) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid)) //nolint:gosec // G115: pid is positive
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return false
	}
	return code == stillActive
}
