package gitdiff

import (
	"bufio"
	"strings"
)

// headerMarker starts every file section of a git diff.
const headerMarker = "diff --git "


type scanState int

const (
	outsideFile scanState = iota
	insideFile
)

// Scanner walks a diff line by line and yields the new-side path of every
// file section, in the order the sections appear.
type Scanner struct {
	lines *bufio.Scanner
	state scanState
	path  string
}

// NewScanner creates a Scanner over diff text.
func NewScanner(text string) *Scanner {
	lines := bufio.NewScanner(strings.NewReader(text))
	lines.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Scanner{lines: lines}
}

// Next advances to the next file section header. It returns false at the end of input.
func (s *Scanner) Next() bool {
	for s.lines.Scan() {
		line := strings.TrimSuffix(s.lines.Text(), "\r")
		if !strings.HasPrefix(line, headerMarker) {
			// Body lines never open a section; hunk lines start with ' ', '+' or '-'.
			continue
		}
		path, ok := newPath(strings.TrimPrefix(line, headerMarker))
		if !ok {
			s.state = outsideFile
			continue
		}
		s.state = insideFile
		s.path = path
		return true
	}
	s.state = outsideFile
	return false
}

// newPath returns Y from "a/X b/Y", splitting at the first " b/" that
// leaves X non-empty.
func newPath(names string) (string, bool) {
	old, ok := strings.CutPrefix(names, "a/")
	if !ok || old == "" {
		return "", false
	}
	i := strings.Index(old[1:], " b/")
	if i < 0 {
		return "", false
	}
	path := old[1+i+len(" b/"):]
	return path, path != ""
}

// Path returns the path of the current file section.
func (s *Scanner) Path() string {
	if s.state != insideFile {
		return ""
	}
	return s.path
}

// Err returns the first read error, such as a line longer than the buffer.
func (s *Scanner) Err() error {
	return s.lines.Err()
}

// ChangedFiles returns the new-side path of each file section in header
// order. Duplicate sections yield duplicate paths.
func ChangedFiles(text string) []string {
	var files []string
	s := NewScanner(text)
	for s.Next() {
		files = append(files, s.Path())
	}
	return files
}
