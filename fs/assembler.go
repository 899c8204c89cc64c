package fs

import (
	"fmt"
	"path/filepath"

	"github.com/fwojciec/synccheck"
)

// Compile-time interface verification.
var _ synccheck.ContextAssembler = (*Assembler)(nil)

// Assembler reads the source artifacts for a run into a ContextBundle.
type Assembler struct {
	files     synccheck.FileSystem
	extractor synccheck.FunctionExtractor
	detector  synccheck.LanguageDetector
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithExtractor replaces the factory function extractor.
func WithExtractor(e synccheck.FunctionExtractor) AssemblerOption {
	return func(a *Assembler) {
		a.extractor = e
	}
}

// WithDetector sets the language detector used to label blocks.
func WithDetector(d synccheck.LanguageDetector) AssemblerOption {
	return func(a *Assembler) {
		a.detector = d
	}
}

// NewAssembler creates an Assembler reading through files.
func NewAssembler(files synccheck.FileSystem, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		files:     files,
		extractor: synccheck.DefaultExtractor(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds the bundle. The application source and the patch target are
// required; the constants and calculations files degrade to placeholders.
func (a *Assembler) Assemble(root string, changes *synccheck.ChangeSet, cfg synccheck.Config) (*synccheck.ContextBundle, error) {
	appSource, err := a.files.ReadFile(filepath.Join(root, cfg.AppSourceFile))
	if err != nil {
		return nil, &synccheck.ContextAssemblyError{Path: cfg.AppSourceFile, Err: err}
	}
	target, err := a.files.ReadFile(filepath.Join(root, cfg.OutputDocumentFile))
	if err != nil {
		return nil, &synccheck.ContextAssemblyError{Path: cfg.OutputDocumentFile, Err: err}
	}

	factory, ok := a.extractor.Extract(appSource, cfg.FactoryFunction)
	if !ok {
		factory = fmt.Sprintf("// %s was not found in %s", cfg.FactoryFunction, cfg.AppSourceFile)
	}

	bundle := &synccheck.ContextBundle{
		Diff:              changes.Text,
		ChangedFiles:      changes.Files,
		FactoryFunction:   a.block(cfg.AppSourceFile, factory),
		DocumentGenerator: a.block(cfg.OutputDocumentFile, target),
		Constants:         a.optional(root, cfg.ConstantsFile),
	}

	if cfg.CalculationsFile != "" &&
		synccheck.NeedsCalculations(changes.Files, cfg.CalculationTriggers(), cfg.MonitoredFiles) {
		calc := a.optional(root, cfg.CalculationsFile)
		bundle.Calculations = &calc
	}

	bundle.Estimate()
	return bundle, nil
}

// optional reads path, substituting an explanatory placeholder on failure.
func (a *Assembler) optional(root, path string) synccheck.Block {
	if path == "" {
		return synccheck.Block{Content: "// not configured"}
	}
	content, err := a.files.ReadFile(filepath.Join(root, path))
	if err != nil {
		content = fmt.Sprintf("// %s is not available (%v); assume no shared constants beyond those in the other files", path, err)
	}
	return a.block(path, content)
}

func (a *Assembler) block(path, content string) synccheck.Block {
	b := synccheck.Block{Path: path, Content: content}
	if a.detector != nil {
		b.Language = a.detector.DetectFromPath(path)
	}
	return b
}
