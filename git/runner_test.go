package git_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/fwojciec/synccheck"
	"github.com/fwojciec/synccheck/git"
	"github.com/fwojciec/synccheck/gitdiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRepo creates a temporary git repository with one commit.
func setupTestRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	writeFile(t, dir, "quote.js", "const x = quote.wellSystem;\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	return dir
}

// runGit executes a git command in the given directory.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "command git %v failed: %s", args, string(output))
	return string(output)
}

// writeFile creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunner_DiffStaged(t *testing.T) {
	t.Parallel()

	t.Run("returns staged changes only", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		writeFile(t, dir, "staged.js", "staged\n")
		runGit(t, dir, "add", "staged.js")
		writeFile(t, dir, "quote.js", "const x = quote.wellDepth;\n")

		diff, err := git.NewRunner().DiffStaged(context.Background(), dir)

		require.NoError(t, err)
		assert.Contains(t, diff, "staged.js")
		assert.NotContains(t, diff, "wellDepth")
	})

	t.Run("returns empty when nothing is staged", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		diff, err := git.NewRunner().DiffStaged(context.Background(), dir)

		require.NoError(t, err)
		assert.Empty(t, diff)
	})
}

func TestRunner_IgnoresUserDiffConfig(t *testing.T) {
	t.Parallel()

	for _, setting := range [][2]string{
		{"diff.mnemonicPrefix", "true"},
		{"diff.noprefix", "true"},
		{"color.diff", "always"},
		{"color.ui", "always"},
	} {
		t.Run(setting[0], func(t *testing.T) {
			t.Parallel()
			dir := setupTestRepo(t)
			runGit(t, dir, "config", setting[0], setting[1])

			writeFile(t, dir, "src/utils/calculations.js", "export const rate = 1;\n")
			runGit(t, dir, "add", ".")

			diff, err := git.NewRunner().DiffStaged(context.Background(), dir)

			require.NoError(t, err)
			assert.NotContains(t, diff, "\x1b[")
			assert.Equal(t, []string{"src/utils/calculations.js"}, gitdiff.ChangedFiles(diff))
		})
	}
}

func TestRunner_ShowLastCommitIgnoresUserDiffConfig(t *testing.T) {
	t.Parallel()
	dir := setupTestRepo(t)
	runGit(t, dir, "config", "diff.mnemonicPrefix", "true")
	runGit(t, dir, "config", "color.diff", "always")

	writeFile(t, dir, "second.js", "second\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Second")

	diff, err := git.NewRunner().ShowLastCommit(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, []string{"second.js"}, gitdiff.ChangedFiles(diff))
}

func TestRunner_DiffUnstaged(t *testing.T) {
	t.Parallel()
	dir := setupTestRepo(t)

	writeFile(t, dir, "quote.js", "const x = quote.wellDepth;\n")

	diff, err := git.NewRunner().DiffUnstaged(context.Background(), dir)

	require.NoError(t, err)
	assert.Contains(t, diff, "-const x = quote.wellSystem;")
	assert.Contains(t, diff, "+const x = quote.wellDepth;")
}

func TestRunner_DiffRefs(t *testing.T) {
	t.Parallel()
	dir := setupTestRepo(t)

	runGit(t, dir, "tag", "v1")
	writeFile(t, dir, "newfile.js", "new content\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Add newfile")

	diff, err := git.NewRunner().DiffRefs(context.Background(), dir, "v1", "HEAD")

	require.NoError(t, err)
	assert.Contains(t, diff, "newfile.js")
	assert.Contains(t, diff, "+new content")
}

func TestRunner_ShowLastCommit(t *testing.T) {
	t.Parallel()

	t.Run("returns the diff of the latest commit", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		writeFile(t, dir, "second.js", "second\n")
		runGit(t, dir, "add", ".")
		runGit(t, dir, "commit", "-m", "Second")

		diff, err := git.NewRunner().ShowLastCommit(context.Background(), dir)

		require.NoError(t, err)
		assert.Contains(t, diff, "diff --git a/second.js b/second.js")
		assert.NotContains(t, diff, "quote.js")
		assert.NotContains(t, diff, "Second", "commit message should be omitted")
	})

	t.Run("works on the root commit", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		diff, err := git.NewRunner().ShowLastCommit(context.Background(), dir)

		require.NoError(t, err)
		assert.Contains(t, diff, "quote.js")
	})
}

func TestRunner_Errors(t *testing.T) {
	t.Parallel()

	t.Run("outside a repository", func(t *testing.T) {
		t.Parallel()

		_, err := git.NewRunner().DiffStaged(context.Background(), t.TempDir())

		var unavailable *synccheck.DiffUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Contains(t, unavailable.Remediation(), "git repository")
	})

	t.Run("missing git binary", func(t *testing.T) {
		t.Parallel()

		runner := &git.Runner{Binary: "git-does-not-exist-synccheck"}

		_, err := runner.DiffStaged(context.Background(), t.TempDir())

		var unavailable *synccheck.DiffUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Contains(t, unavailable.Remediation(), "install git")
	})

	t.Run("repository without commits", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		runGit(t, dir, "init", "-b", "main")

		_, err := git.NewRunner().ShowLastCommit(context.Background(), dir)

		var unavailable *synccheck.DiffUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Contains(t, unavailable.Remediation(), "no commits yet")
		assert.NotContains(t, unavailable.Remediation(), "diffTarget")
	})

	t.Run("unknown target ref", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		_, err := git.NewRunner().DiffRefs(context.Background(), dir, "no-such-branch", "HEAD")

		var unavailable *synccheck.DiffUnavailableError
		require.ErrorAs(t, err, &unavailable)
		assert.Contains(t, unavailable.Remediation(), "diffTarget")
	})
}

func TestGetDiff_AgainstRealRepository(t *testing.T) {
	t.Parallel()
	dir := setupTestRepo(t)

	writeFile(t, dir, "quote.js", "const x = quote.wellDepth;\n")

	diff, err := synccheck.GetDiff(context.Background(), git.NewRunner(), dir, synccheck.DefaultDiffTarget)

	require.NoError(t, err)
	assert.Contains(t, diff, "+const x = quote.wellDepth;")
}
