// Package git provides access to git operations via shell commands.
package git

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/fwojciec/synccheck"
)

// Compile-time interface verification.
var _ synccheck.GitRunner = (*Runner)(nil)

// plainDiff keeps diff output uncolored with a/ b/ prefixes whatever the
// user's git config says.
var plainDiff = []string{"--no-color", "--no-ext-diff", "--src-prefix=a/", "--dst-prefix=b/"}

// Runner executes git commands via shell.
type Runner struct {
	// Binary is the git executable, "git" when empty.
	Binary string
}

// NewRunner creates a new git runner.
func NewRunner() *Runner {
	return &Runner{Binary: "git"}
}

// DiffStaged returns staged changes relative to the index.
func (r *Runner) DiffStaged(ctx context.Context, repoPath string) (string, error) {
	return r.diff(ctx, repoPath, "diff", "--cached")
}

// DiffUnstaged returns working tree changes that are not staged. Called after
// an empty staged diff, this equals the working tree against HEAD.
func (r *Runner) DiffUnstaged(ctx context.Context, repoPath string) (string, error) {
	return r.diff(ctx, repoPath, "diff")
}

// DiffRefs returns the diff between two refs.
func (r *Runner) DiffRefs(ctx context.Context, repoPath, base, head string) (string, error) {
	return r.diff(ctx, repoPath, "diff", base, head)
}

// ShowLastCommit returns the diff of HEAD against its parent. A root commit
// is diffed against the empty tree.
func (r *Runner) ShowLastCommit(ctx context.Context, repoPath string) (string, error) {
	return r.diff(ctx, repoPath, "show", "--format=", "HEAD")
}

// diff runs a diff-producing subcommand with plainDiff ahead of args.
func (r *Runner) diff(ctx context.Context, repoPath, sub string, args ...string) (string, error) {
	full := append([]string{sub}, plainDiff...)
	return r.run(ctx, repoPath, append(full, args...)...)
}

func (r *Runner) run(ctx context.Context, repoPath string, args ...string) (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = "git"
	}
	cmd := exec.CommandContext(ctx, binary, append([]string{"-C", repoPath}, args...)...)
	output, err := cmd.Output()
	if err != nil {
		return "", unavailable(args[0], err)
	}
	return string(output), nil
}

// unavailable converts a failed git invocation into a DiffUnavailableError
// with a hint matched to the cause.
func unavailable(op string, err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return &synccheck.DiffUnavailableError{
			Op:   op,
			Hint: "install git and make sure it is on PATH",
			Err:  err,
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		hint := ""
		switch {
		case strings.Contains(stderr, "not a git repository"):
			hint = "run synccheck from inside a git repository or pass --root"
		case strings.Contains(stderr, "'HEAD'"):
			hint = "the repository has no commits yet; stage changes or make a first commit"
		case strings.Contains(stderr, "unknown revision"), strings.Contains(stderr, "bad revision"),
			strings.Contains(stderr, "ambiguous argument"):
			hint = "check that diffTarget names an existing commit, branch or tag"
		}
		if stderr == "" {
			stderr = exitErr.Error()
		}
		return &synccheck.DiffUnavailableError{Op: op, Hint: hint, Err: errors.New(stderr)}
	}

	return &synccheck.DiffUnavailableError{Op: op, Err: err}
}
