package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/synccheck"
	"go.uber.org/zap"
)

// App runs one sync check with injected collaborators.
type App struct {
	Root       string
	Config     synccheck.Config
	Git        synccheck.GitRunner
	Parser     synccheck.DiffParser
	Assembler  synccheck.ContextAssembler
	Auditor    synccheck.Auditor
	Reporter   synccheck.Reporter
	Applicator synccheck.Applicator
	Marks      synccheck.Marker
	Out        io.Writer
	Logger     *zap.Logger
}

// Run executes the pipeline. An empty diff, an up-to-date analysis and a
// cancelled apply prompt all end the run without error.
func (a *App) Run(ctx context.Context) error {
	log := a.Logger
	if log == nil {
		log = zap.NewNop()
	}

	start := time.Now()
	text, err := synccheck.GetDiff(ctx, a.Git, a.Root, a.Config.DiffTarget)
	if err != nil {
		return err
	}
	changes := a.Parser.Parse(text)
	log.Debug("diff obtained",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(text)),
		zap.Int("files", len(changes.Files)))

	if changes.Empty() {
		a.printf("%s\n", a.Marks.MarkSuccess("No changes to check."))
		return nil
	}
	a.printf("%s\n", a.Marks.MarkMuted(fmt.Sprintf("Checking %d changed %s against %s",
		len(changes.Files), plural(len(changes.Files), "file", "files"), a.Config.OutputDocumentFile)))

	start = time.Now()
	bundle, err := a.Assembler.Assemble(a.Root, changes, a.Config)
	if err != nil {
		return err
	}
	log.Debug("context assembled",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("estimated_tokens", bundle.EstimatedTokens),
		zap.Bool("calculations", bundle.Calculations != nil))
	a.printf("%s\n\n", a.Marks.MarkMuted(fmt.Sprintf("Context: ~%d tokens", bundle.EstimatedTokens)))

	start = time.Now()
	raw, err := a.Auditor.Audit(ctx, bundle)
	if err != nil {
		return err
	}
	log.Debug("model responded", zap.Duration("elapsed", time.Since(start)), zap.Int("bytes", len(raw)))

	analysis, err := synccheck.ParseAnalysis(raw, a.Config.OutputDocumentFile)
	if err != nil {
		return err
	}
	log.Debug("response parsed", zap.Int("documents", len(analysis.Documents)), zap.Int("fixes", len(analysis.Fixes)))

	a.Reporter.Render(analysis, changes)

	if analysis.UpToDate() {
		a.printf("%s\n", a.Marks.MarkSuccess("All documents are up to date; no fixes needed."))
		return nil
	}

	result, err := a.Applicator.PromptAutoApply(ctx, analysis.Fixes, a.Root, a.Config.AutoApply)
	log.Debug("apply finished",
		zap.Int("applied", result.Applied),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
		zap.Int("written", result.Written))
	if errors.Is(err, synccheck.ErrPromptCancelled) {
		a.printf("%s\n", a.Marks.MarkMuted("Prompt cancelled."))
		return nil
	}
	return err
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.Out, format, args...)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
