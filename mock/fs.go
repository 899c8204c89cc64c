package mock

import (
	"io/fs"

	"github.com/fwojciec/synccheck"
)

// Compile-time interface verification.
var _ synccheck.FileSystem = (*FileSystem)(nil)

// FileSystem is an in-memory synccheck.FileSystem that counts reads and writes per path.
type FileSystem struct {
	Files  map[string]string
	Reads  map[string]int
	Writes map[string]int
}

// NewFileSystem returns a FileSystem seeded with files.
func NewFileSystem(files map[string]string) *FileSystem {
	if files == nil {
		files = map[string]string{}
	}
	return &FileSystem{
		Files:  files,
		Reads:  map[string]int{},
		Writes: map[string]int{},
	}
}

func (f *FileSystem) ReadFile(path string) (string, error) {
	f.Reads[path]++
	content, ok := f.Files[path]
	if !ok {
		return "", &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return content, nil
}

func (f *FileSystem) WriteFile(path, content string) error {
	f.Writes[path]++
	f.Files[path] = content
	return nil
}

// TotalWrites returns the number of writes across all paths.
func (f *FileSystem) TotalWrites() int {
	total := 0
	for _, n := range f.Writes {
		total += n
	}
	return total
}
