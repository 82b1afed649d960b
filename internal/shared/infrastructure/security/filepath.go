// Package security validates user-supplied file paths before the CLI reads
// calendar files from disk.
package security

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnsafePath   = errors.New("unsafe file path")
	ErrFileTooLarge = errors.New("file exceeds size limit")
	ErrNotRegular   = errors.New("not a regular file")
	ErrExtension    = errors.New("unsupported file extension")
)

// shell metacharacters are never part of a legitimate calendar path
var forbidden = []string{";", "&", "|", "$", "`", "<", ">", "\n", "\r", "\x00"}

// CleanPath makes path absolute, removes dot segments and resolves symlinks
// when the target exists.
func CleanPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsafePath)
	}
	for _, c := range forbidden {
		if strings.Contains(path, c) {
			return "", fmt.Errorf("%w: contains %q", ErrUnsafePath, c)
		}
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, nil
		}
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return resolved, nil
}

// ImportFile describes which files an import accepts.
type ImportFile struct {
	// Extensions lists accepted lower-case suffixes such as ".ics". Empty
	// accepts any.
	Extensions []string
	// MaxBytes caps the file size. Zero means no cap.
	MaxBytes int64
}

// Open validates path and opens it for reading. The returned reader stops
// at MaxBytes.
func (f ImportFile) Open(path string) (io.ReadCloser, error) {
	clean, err := CleanPath(path)
	if err != nil {
		return nil, err
	}
	if len(f.Extensions) > 0 && !hasExtension(clean, f.Extensions) {
		return nil, fmt.Errorf("%w: %s", ErrExtension, filepath.Ext(clean))
	}

	info, err := os.Stat(clean)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, clean)
	}
	if f.MaxBytes > 0 && info.Size() > f.MaxBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, info.Size(), f.MaxBytes)
	}

	// #nosec G304 - path is validated above
	file, err := os.Open(clean)
	if err != nil {
		return nil, err
	}
	if f.MaxBytes <= 0 {
		return file, nil
	}
	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(file, f.MaxBytes), file}, nil
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
