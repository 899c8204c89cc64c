// Package mock provides test doubles for synccheck interfaces.
package mock

import (
	"context"

	"github.com/fwojciec/synccheck"
)

// Compile-time interface verification.
var _ synccheck.GitRunner = (*GitRunner)(nil)

// GitRunner is a mock implementation of synccheck.GitRunner.
type GitRunner struct {
	DiffStagedFn     func(ctx context.Context, repoPath string) (string, error)
	DiffUnstagedFn   func(ctx context.Context, repoPath string) (string, error)
	DiffRefsFn       func(ctx context.Context, repoPath, base, head string) (string, error)
	ShowLastCommitFn func(ctx context.Context, repoPath string) (string, error)
}

func (g *GitRunner) DiffStaged(ctx context.Context, repoPath string) (string, error) {
	return g.DiffStagedFn(ctx, repoPath)
}

func (g *GitRunner) DiffUnstaged(ctx context.Context, repoPath string) (string, error) {
	return g.DiffUnstagedFn(ctx, repoPath)
}

func (g *GitRunner) DiffRefs(ctx context.Context, repoPath, base, head string) (string, error) {
	return g.DiffRefsFn(ctx, repoPath, base, head)
}

func (g *GitRunner) ShowLastCommit(ctx context.Context, repoPath string) (string, error) {
	return g.ShowLastCommitFn(ctx, repoPath)
}
