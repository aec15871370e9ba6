package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxFileSize caps files read from disk into a document.
const MaxFileSize = 10 << 20

// ReadFile loads a local text file into a new, unmodified document named
// after the file's base name.
func ReadFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%s is too large (%d bytes, max %d)", path, info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s is not valid UTF-8 text", path)
	}

	return New(filepath.Base(path), string(data)), nil
}

// WriteFile saves doc as dir/<FileName> and clears its modified flag.
// It returns the path written.
func WriteFile(doc *Document, dir string) (string, error) {
	name := filepath.Base(doc.FileName)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", doc.FileName)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(doc.Content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	doc.MarkSaved()
	return path, nil
}

// EnsureExtension appends "."+format to name when name has no extension.
func EnsureExtension(name, format string) string {
	if filepath.Ext(name) != "" || format == "" {
		return name
	}
	return name + "." + strings.TrimPrefix(format, ".")
}
