// Package synccheck provides domain types for auditing document generators
// against source changes and applying model-proposed search/replace fixes.
package synccheck

import "context"

// GitRunner provides the primitive git diff commands the diff cascade is built from.
type GitRunner interface {
	// DiffStaged returns staged changes relative to the index.
	DiffStaged(ctx context.Context, repoPath string) (string, error)
	// DiffUnstaged returns working tree changes that are not staged.
	DiffUnstaged(ctx context.Context, repoPath string) (string, error)
	// DiffRefs returns the diff between two refs.
	DiffRefs(ctx context.Context, repoPath, base, head string) (string, error)
	// ShowLastCommit returns the diff of HEAD against its parent.
	ShowLastCommit(ctx context.Context, repoPath string) (string, error)
}

// DiffParser derives a ChangeSet from raw diff text.
type DiffParser interface {
	Parse(text string) *ChangeSet
}

// ContextAssembler gathers the source artifacts sent to the model.
type ContextAssembler interface {
	Assemble(root string, changes *ChangeSet, cfg Config) (*ContextBundle, error)
}

// Auditor sends a context bundle to the language model and returns its raw reply.
type Auditor interface {
	Audit(ctx context.Context, bundle *ContextBundle) (string, error)
}

// Reporter renders an analysis for the operator.
type Reporter interface {
	Render(analysis *Analysis, changes *ChangeSet)
}

// Applicator applies proposed fixes according to an auto-apply policy.
type Applicator interface {
	PromptAutoApply(ctx context.Context, fixes []Fix, root string, policy AutoApplyPolicy) (ApplyResult, error)
}

// ApplyResult counts the outcome of one apply phase.
type ApplyResult struct {
	Applied int
	Failed  int
	Skipped int
	Written int
}

// Choice is one selectable answer to a prompt.
type Choice struct {
	Key   string // Returned by the prompter when selected, e.g. "y"
	Label string // Human-readable description
}

// Prompter asks the operator a question and blocks until an answer arrives.
type Prompter interface {
	// Ask returns the key of the selected choice, or the raw line typed by
	// the operator for line-based implementations.
	Ask(ctx context.Context, question string, choices []Choice) (string, error)
}

// FileSystem reads and writes whole text files.
type FileSystem interface {
	ReadFile(path string) (string, error)
	WriteFile(path, content string) error
}

// ConfigLoader overlays a configuration file onto a base configuration.
type ConfigLoader interface {
	Load(path string, base Config) (Config, error)
}

// LanguageDetector determines the programming language from a file path.
type LanguageDetector interface {
	// DetectFromPath returns the language name for the given path,
	// or an empty string if the language cannot be determined.
	DetectFromPath(path string) string
}

// Segment represents a portion of text for token-level diffing.
type Segment struct {
	Text    string // The text content of this segment
	Changed bool   // True if this segment differs between old/new versions
}

// WordDiffer computes token-level differences between two strings.
type WordDiffer interface {
	Diff(old, new string) (oldSegs, newSegs []Segment)
}
