package synccheck

import (
	"context"
	"strings"
)

// ChangeSet is the diff under inspection plus the files it touches.
type ChangeSet struct {
	Text  string     // Raw unified diff
	Files []string   // Changed paths in header order, duplicates kept
	Stats []FileStat // Best-effort line counts, may be empty
}

// Empty reports whether the diff contains anything to check.
func (c *ChangeSet) Empty() bool {
	return c == nil || strings.TrimSpace(c.Text) == ""
}

// Stat returns the line counts recorded for path.
func (c *ChangeSet) Stat(path string) (FileStat, bool) {
	for _, s := range c.Stats {
		if s.Path == path {
			return s, true
		}
	}
	return FileStat{}, false
}

// FileStat counts added and deleted lines for one file.
type FileStat struct {
	Path    string
	Added   int
	Deleted int
}

// GetDiff returns the first non-empty diff from the cascade:
// staged changes, unstaged changes, target..HEAD when target is not
// DefaultDiffTarget, and finally the last commit (returned even if empty).
func GetDiff(ctx context.Context, git GitRunner, repoPath, target string) (string, error) {
	staged, err := git.DiffStaged(ctx, repoPath)
	if err != nil {
		return "", err
	}
	if hasChanges(staged) {
		return staged, nil
	}

	unstaged, err := git.DiffUnstaged(ctx, repoPath)
	if err != nil {
		return "", err
	}
	if hasChanges(unstaged) {
		return unstaged, nil
	}

	if target != "" && target != DefaultDiffTarget {
		targeted, err := git.DiffRefs(ctx, repoPath, target, DefaultDiffTarget)
		if err != nil {
			return "", err
		}
		if hasChanges(targeted) {
			return targeted, nil
		}
	}

	return git.ShowLastCommit(ctx, repoPath)
}

func hasChanges(diff string) bool {
	return strings.TrimSpace(diff) != ""
}
