package mock

import (
	"context"

	"github.com/fwojciec/synccheck"
)

// Compile-time interface verification.
var (
	_ synccheck.DiffParser       = (*DiffParser)(nil)
	_ synccheck.ContextAssembler = (*ContextAssembler)(nil)
	_ synccheck.Auditor          = (*Auditor)(nil)
	_ synccheck.Reporter         = (*Reporter)(nil)
	_ synccheck.Applicator       = (*Applicator)(nil)
)

// DiffParser is a mock implementation of synccheck.DiffParser.
type DiffParser struct {
	ParseFn func(text string) *synccheck.ChangeSet
}

func (p *DiffParser) Parse(text string) *synccheck.ChangeSet {
	return p.ParseFn(text)
}

// ContextAssembler is a mock implementation of synccheck.ContextAssembler.
type ContextAssembler struct {
	AssembleFn func(root string, changes *synccheck.ChangeSet, cfg synccheck.Config) (*synccheck.ContextBundle, error)
}

func (a *ContextAssembler) Assemble(root string, changes *synccheck.ChangeSet, cfg synccheck.Config) (*synccheck.ContextBundle, error) {
	return a.AssembleFn(root, changes, cfg)
}

// Auditor is a mock implementation of synccheck.Auditor.
type Auditor struct {
	AuditFn func(ctx context.Context, bundle *synccheck.ContextBundle) (string, error)
}

func (a *Auditor) Audit(ctx context.Context, bundle *synccheck.ContextBundle) (string, error) {
	return a.AuditFn(ctx, bundle)
}

// Reporter is a mock implementation of synccheck.Reporter.
type Reporter struct {
	RenderFn func(analysis *synccheck.Analysis, changes *synccheck.ChangeSet)
}

func (r *Reporter) Render(analysis *synccheck.Analysis, changes *synccheck.ChangeSet) {
	r.RenderFn(analysis, changes)
}

// Applicator is a mock implementation of synccheck.Applicator.
type Applicator struct {
	PromptAutoApplyFn func(ctx context.Context, fixes []synccheck.Fix, root string, policy synccheck.AutoApplyPolicy) (synccheck.ApplyResult, error)
}

func (a *Applicator) PromptAutoApply(ctx context.Context, fixes []synccheck.Fix, root string, policy synccheck.AutoApplyPolicy) (synccheck.ApplyResult, error) {
	return a.PromptAutoApplyFn(ctx, fixes, root, policy)
}
