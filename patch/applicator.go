// Package patch applies model-proposed search/replace fixes to source files.
package patch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fwojciec/synccheck"
	"github.com/fwojciec/synccheck/fs"
	"github.com/fwojciec/synccheck/worddiff"
	"go.uber.org/zap"
)

// Compile-time interface verification.
var _ synccheck.Applicator = (*Applicator)(nil)

// Answers accepted at the apply prompt.
var (
	batchChoices = []synccheck.Choice{
		{Key: "y", Label: "apply all"},
		{Key: "n", Label: "skip all"},
		{Key: "r", Label: "review each"},
	}
	reviewChoices = []synccheck.Choice{
		{Key: "y", Label: "apply"},
		{Key: "n", Label: "skip"},
	}
)

// Applicator implements synccheck.Applicator. Each run loads a target file at
// most once and writes it at most once.
type Applicator struct {
	prompter synccheck.Prompter
	files    synccheck.FileSystem
	out      io.Writer
	marks    synccheck.Marker
	differ   synccheck.WordDiffer
	logger   *zap.Logger
}

// Option configures an Applicator.
type Option func(*Applicator)

// WithMarker sets the styling of applicator output.
func WithMarker(m synccheck.Marker) Option {
	return func(a *Applicator) {
		a.marks = m
	}
}

// WithDiffer sets the differ used to highlight changes in review mode.
func WithDiffer(d synccheck.WordDiffer) Option {
	return func(a *Applicator) {
		a.differ = d
	}
}

// WithLogger sets the logger for file operations.
func WithLogger(l *zap.Logger) Option {
	return func(a *Applicator) {
		a.logger = l
	}
}

// NewApplicator creates an Applicator that asks prompter, edits files and
// reports progress to out.
func NewApplicator(prompter synccheck.Prompter, files synccheck.FileSystem, out io.Writer, opts ...Option) *Applicator {
	a := &Applicator{
		prompter: prompter,
		files:    files,
		out:      out,
		marks:    plain{},
		differ:   worddiff.NewDiffer(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PromptAutoApply applies fixes according to policy. With no fixes or the
// never policy it does nothing. Fix paths are resolved against root.
func (a *Applicator) PromptAutoApply(ctx context.Context, fixes []synccheck.Fix, root string, policy synccheck.AutoApplyPolicy) (synccheck.ApplyResult, error) {
	if len(fixes) == 0 || policy == synccheck.AutoApplyNever {
		return synccheck.ApplyResult{}, nil
	}

	switch policy {
	case synccheck.AutoApplyAlways:
		return a.applyAll(fixes, root)
	case synccheck.AutoApplyPrompt, "":
	default:
		return synccheck.ApplyResult{}, fmt.Errorf("unknown auto-apply policy %q", policy)
	}

	question := fmt.Sprintf("Apply %d %s to %s?", len(fixes), plural(len(fixes), "fix", "fixes"), strings.Join(targets(fixes), ", "))
	answer, err := a.prompter.Ask(ctx, question, batchChoices)
	if err != nil {
		return synccheck.ApplyResult{Skipped: len(fixes)}, err
	}

	switch normalize(answer) {
	case "y", "yes":
		return a.applyAll(fixes, root)
	case "r", "review":
		return a.reviewEach(ctx, fixes, root)
	}
	a.printf("%s\n", a.marks.MarkMuted(fmt.Sprintf("Skipped %d %s.", len(fixes), plural(len(fixes), "fix", "fixes"))))
	return synccheck.ApplyResult{Skipped: len(fixes)}, nil
}

func (a *Applicator) applyAll(fixes []synccheck.Fix, root string) (synccheck.ApplyResult, error) {
	var result synccheck.ApplyResult
	var manual []synccheck.Fix
	cache := fs.NewCache(a.files)

	for _, fix := range fixes {
		if err := a.apply(cache, fix, root); err != nil {
			a.logger.Debug("fix not applied", zap.String("document", fix.Document), zap.Error(err))
			result.Failed++
			manual = append(manual, fix)
			continue
		}
		result.Applied++
	}

	written, err := a.flush(cache, root)
	result.Written = len(written)
	a.printf("\n%s\n", a.counts(fmt.Sprintf("Applied %d of %d, %d failed, %d %s written.",
		result.Applied, len(fixes), result.Failed, result.Written, plural(result.Written, "file", "files")), result))
	a.manualActions(manual)
	a.revertHint(written, root)
	return result, err
}

func (a *Applicator) reviewEach(ctx context.Context, fixes []synccheck.Fix, root string) (synccheck.ApplyResult, error) {
	var result synccheck.ApplyResult
	var promptErr error
	cache := fs.NewCache(a.files)

	for i, fix := range fixes {
		a.show(i, len(fixes), fix)
		answer, err := a.prompter.Ask(ctx, "Apply this fix?", reviewChoices)
		if err != nil {
			result.Skipped += len(fixes) - i
			promptErr = err
			break
		}
		if !isYes(answer) {
			result.Skipped++
			a.printf("  %s\n", a.marks.MarkMuted("skipped"))
			continue
		}
		if err := a.apply(cache, fix, root); err != nil {
			result.Failed++
			a.printf("  %s %v; apply manually\n", a.marks.MarkFailure("✗"), err)
			continue
		}
		result.Applied++
		a.printf("  %s\n", a.marks.MarkSuccess("✓ applied"))
	}

	written, err := a.flush(cache, root)
	result.Written = len(written)
	a.printf("\n%s\n", a.counts(fmt.Sprintf("Applied %d, skipped %d, failed %d, %d %s written.",
		result.Applied, result.Skipped, result.Failed, result.Written, plural(result.Written, "file", "files")), result))
	a.revertHint(written, root)
	if err != nil {
		return result, err
	}
	return result, promptErr
}

// apply performs one replacement against the cached file content.
func (a *Applicator) apply(cache *fs.Cache, fix synccheck.Fix, root string) error {
	path := resolve(root, fix.File)
	content, err := cache.Load(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", fix.File, err)
	}
	updated, ok := Replace(content, fix.SearchFor, fix.ReplaceWith)
	if !ok {
		return fmt.Errorf("pattern not found in %s", fix.File)
	}
	cache.Store(path, updated)
	return nil
}

func (a *Applicator) flush(cache *fs.Cache, root string) ([]string, error) {
	written, err := cache.Flush()
	for _, path := range written {
		a.logger.Debug("wrote file", zap.String("path", relative(root, path)))
	}
	return written, err
}

// show prints one fix for review with changed tokens highlighted.
func (a *Applicator) show(i, n int, fix synccheck.Fix) {
	a.printf("\n%s %s\n", a.marks.MarkHeading(fmt.Sprintf("Fix %d/%d", i+1, n)), a.marks.MarkInfo("["+fix.Document+"]"))
	a.printf("  %s\n", fix.Description)
	if fix.Location != "" {
		a.printf("  %s %s\n", a.marks.MarkMuted("at"), fix.Location)
	}
	oldSegs, newSegs := a.differ.Diff(fix.SearchFor, fix.ReplaceWith)
	a.printf("  %s\n%s\n", a.marks.MarkMuted("search for:"), gutter(a.highlight(oldSegs, a.marks.MarkRemoved)))
	a.printf("  %s\n%s\n", a.marks.MarkMuted("replace with:"), gutter(a.highlight(newSegs, a.marks.MarkAdded)))
}

func (a *Applicator) highlight(segs []synccheck.Segment, mark func(string) string) string {
	var b strings.Builder
	for _, s := range segs {
		if s.Changed {
			b.WriteString(mark(s.Text))
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

func (a *Applicator) manualActions(fixes []synccheck.Fix) {
	if len(fixes) == 0 {
		return
	}
	a.printf("%s\n", a.marks.MarkWarning("Apply manually:"))
	for _, fix := range fixes {
		a.printf("  • [%s] %s\n", fix.Document, fix.Description)
		a.printf("    %s %s\n", a.marks.MarkMuted("search for:"), synccheck.Preview(fix.SearchFor, synccheck.PreviewLimit))
	}
}

func (a *Applicator) revertHint(written []string, root string) {
	if len(written) == 0 {
		return
	}
	rel := make([]string, len(written))
	for i, p := range written {
		rel[i] = relative(root, p)
	}
	a.printf("%s\n", a.marks.MarkMuted("To undo: git checkout -- "+strings.Join(rel, " ")))
}

func (a *Applicator) counts(line string, r synccheck.ApplyResult) string {
	switch {
	case r.Failed > 0:
		return a.marks.MarkWarning(line)
	case r.Applied > 0:
		return a.marks.MarkSuccess(line)
	}
	return a.marks.MarkMuted(line)
}

func (a *Applicator) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

// Replace substitutes the first literal occurrence of search in content.
// It reports false, leaving content unchanged, when search is empty or absent.
func Replace(content, search, replace string) (string, bool) {
	if search == "" || !strings.Contains(content, search) {
		return content, false
	}
	return strings.Replace(content, search, replace, 1), true
}

func resolve(root, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(root, file)
}

func relative(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

// targets lists the distinct files fixes apply to, in first-seen order.
func targets(fixes []synccheck.Fix) []string {
	var files []string
	seen := map[string]bool{}
	for _, f := range fixes {
		if !seen[f.File] {
			seen[f.File] = true
			files = append(files, f.File)
		}
	}
	return files
}

func gutter(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = "    │ " + l
	}
	return strings.Join(lines, "\n")
}

func normalize(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

func isYes(answer string) bool {
	a := normalize(answer)
	return a == "y" || a == "yes"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// plain is the Marker used when none is configured.
type plain struct{}

func (plain) MarkSuccess(s string) string { return s }
func (plain) MarkFailure(s string) string { return s }
func (plain) MarkWarning(s string) string { return s }
func (plain) MarkInfo(s string) string    { return s }
func (plain) MarkHeading(s string) string { return s }
func (plain) MarkMuted(s string) string   { return s }
func (plain) MarkRemoved(s string) string { return s }
func (plain) MarkAdded(s string) string   { return s }
