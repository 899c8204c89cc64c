// Package fs implements synccheck file access on the local filesystem.
package fs

import (
	"errors"
	"io/fs"
	"os"

	"github.com/fwojciec/synccheck"
)

// Compile-time interface verification.
var _ synccheck.FileSystem = (*OS)(nil)

// OS reads and writes files on the local disk.
type OS struct{}

// NewOS creates a new OS filesystem.
func NewOS() *OS {
	return &OS{}
}

// ReadFile returns the content of path.
func (o *OS) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile replaces the content of path, keeping its permission bits when it exists.
func (o *OS) WriteFile(path, content string) error {
	mode := fs.FileMode(0o644)
	info, err := os.Stat(path)
	switch {
	case err == nil:
		mode = info.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	return os.WriteFile(path, []byte(content), mode)
}
