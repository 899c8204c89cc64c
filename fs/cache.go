package fs

import (
	"fmt"

	"github.com/fwojciec/synccheck"
)

// Cache holds file contents for one apply phase. Each file is read from the
// underlying filesystem at most once and written back at most once, by Flush.
type Cache struct {
	files   synccheck.FileSystem
	content map[string]string
	errs    map[string]error // Failed reads are not retried
	dirty   map[string]bool
	order   []string // First-reference order, for deterministic writes
}

// NewCache creates an empty Cache over files.
func NewCache(files synccheck.FileSystem) *Cache {
	return &Cache{
		files:   files,
		content: make(map[string]string),
		errs:    make(map[string]error),
		dirty:   make(map[string]bool),
	}
}

// Load returns the current content of path, reading it on first reference.
func (c *Cache) Load(path string) (string, error) {
	if content, ok := c.content[path]; ok {
		return content, nil
	}
	if err, ok := c.errs[path]; ok {
		return "", err
	}
	content, err := c.files.ReadFile(path)
	if err != nil {
		c.errs[path] = err
		return "", err
	}
	c.content[path] = content
	c.order = append(c.order, path)
	return content, nil
}

// Store replaces the cached content of a loaded path and marks it modified.
func (c *Cache) Store(path, content string) {
	if _, ok := c.content[path]; !ok {
		c.order = append(c.order, path)
	}
	c.content[path] = content
	c.dirty[path] = true
}

// Modified returns the number of files with unwritten changes.
func (c *Cache) Modified() int {
	return len(c.dirty)
}

// Flush writes every modified file once and empties the cache. It returns
// the written paths in first-reference order; on error, files after the
// failing one are left unwritten.
func (c *Cache) Flush() ([]string, error) {
	var written []string
	for _, path := range c.order {
		if !c.dirty[path] {
			continue
		}
		if err := c.files.WriteFile(path, c.content[path]); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	c.content = make(map[string]string)
	c.errs = make(map[string]error)
	c.dirty = make(map[string]bool)
	c.order = nil
	return written, nil
}
