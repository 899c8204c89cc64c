// Package gitdiff extracts changed files and line statistics from unified diffs.
package gitdiff

import (
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/fwojciec/synccheck"
)

// Compile-time interface verification.
var _ synccheck.DiffParser = (*Parser)(nil)

// Parser builds ChangeSets from diff text.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the change set for text. File paths come from the header
// scanner; line statistics are best-effort and omitted when go-gitdiff
// cannot parse the input.
func (p *Parser) Parse(text string) *synccheck.ChangeSet {
	return &synccheck.ChangeSet{
		Text:  text,
		Files: ChangedFiles(text),
		Stats: Stats(text),
	}
}

// Stats counts added and deleted lines per file using go-gitdiff.
func Stats(text string) []synccheck.FileStat {
	files, _, err := gitdiff.Parse(strings.NewReader(text))
	if err != nil {
		return nil
	}

	stats := make([]synccheck.FileStat, 0, len(files))
	for _, f := range files {
		stat := synccheck.FileStat{Path: f.NewName}
		if f.IsDelete {
			stat.Path = f.OldName
		}
		for _, frag := range f.TextFragments {
			stat.Added += int(frag.LinesAdded)
			stat.Deleted += int(frag.LinesDeleted)
		}
		stats = append(stats, stat)
	}
	return stats
}
