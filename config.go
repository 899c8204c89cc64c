package synccheck

import (
	"fmt"
	"path"
	"slices"
)

// DefaultDiffTarget is the diff target that disables the targeted-diff step of the cascade.
const DefaultDiffTarget = "HEAD"

// AutoApplyPolicy controls whether proposed fixes are written back.
type AutoApplyPolicy string

// Auto-apply policies.
const (
	AutoApplyNever  AutoApplyPolicy = "never"
	AutoApplyPrompt AutoApplyPolicy = "prompt"
	AutoApplyAlways AutoApplyPolicy = "always"
)

// Valid reports whether p is a known policy.
func (p AutoApplyPolicy) Valid() bool {
	switch p {
	case AutoApplyNever, AutoApplyPrompt, AutoApplyAlways:
		return true
	}
	return false
}

// Config is the run configuration. It is built once at startup by overlaying
// a user file onto DefaultConfig and is not modified afterwards.
type Config struct {
	DiffTarget         string          `json:"diffTarget" yaml:"diffTarget"`
	AutoApply          AutoApplyPolicy `json:"autoApply" yaml:"autoApply"`
	CriticalDocuments  []string        `json:"criticalDocuments" yaml:"criticalDocuments"`
	OptionalDocuments  []string        `json:"optionalDocuments" yaml:"optionalDocuments"`
	MonitoredFiles     []string        `json:"monitoredFiles" yaml:"monitoredFiles"`
	OutputDocumentFile string          `json:"outputDocumentFile" yaml:"outputDocumentFile"`
	IgnoreFields       []string        `json:"ignoreFields" yaml:"ignoreFields"`

	// Layout of the inspected application.
	AppSourceFile    string `json:"appSourceFile" yaml:"appSourceFile"`
	FactoryFunction  string `json:"factoryFunction" yaml:"factoryFunction"`
	ConstantsFile    string `json:"constantsFile" yaml:"constantsFile"`
	CalculationsFile string `json:"calculationsFile" yaml:"calculationsFile"`
}

// Document generator names in display priority order.
var (
	DefaultCriticalDocuments = []string{
		"generateQuoteHTML",
		"generateContractHTML",
		"generateChangeOrderHTML",
		"generateCostSummaryHTML",
	}
	DefaultOptionalDocuments = []string{
		"generateScopeOfWorkHTML",
		"generateMaterialListHTML",
		"generateAllowanceSummaryHTML",
		"generatePaymentScheduleHTML",
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		DiffTarget:        DefaultDiffTarget,
		AutoApply:         AutoApplyPrompt,
		CriticalDocuments: append([]string(nil), DefaultCriticalDocuments...),
		OptionalDocuments: append([]string(nil), DefaultOptionalDocuments...),
		MonitoredFiles: []string{
			"src/App.jsx",
			"src/utils/calculations.js",
			"src/utils/calculationHelpers.js",
			"src/constants/index.js",
		},
		OutputDocumentFile: "src/utils/documentGenerator.js",
		IgnoreFields:       []string{"id", "createdAt", "updatedAt", "notes"},
		AppSourceFile:      "src/App.jsx",
		FactoryFunction:    "createEmptyQuote",
		ConstantsFile:      "src/constants/index.js",
		CalculationsFile:   "src/utils/calculations.js",
	}
}

// Clone returns a copy of c that shares no slices with it.
func (c Config) Clone() Config {
	c.CriticalDocuments = slices.Clone(c.CriticalDocuments)
	c.OptionalDocuments = slices.Clone(c.OptionalDocuments)
	c.MonitoredFiles = slices.Clone(c.MonitoredFiles)
	c.IgnoreFields = slices.Clone(c.IgnoreFields)
	return c
}

// Validate checks the merged configuration.
func (c Config) Validate() error {
	if !c.AutoApply.Valid() {
		return fmt.Errorf("invalid autoApply %q: must be one of never, prompt, always", c.AutoApply)
	}
	if c.OutputDocumentFile == "" {
		return fmt.Errorf("outputDocumentFile must not be empty")
	}
	if c.AppSourceFile == "" {
		return fmt.Errorf("appSourceFile must not be empty")
	}
	if c.DiffTarget == "" {
		return fmt.Errorf("diffTarget must not be empty")
	}
	return nil
}

// Documents returns critical then optional document names.
func (c Config) Documents() []string {
	names := make([]string, 0, len(c.CriticalDocuments)+len(c.OptionalDocuments))
	names = append(names, c.CriticalDocuments...)
	return append(names, c.OptionalDocuments...)
}

// CalculationTriggers returns the filename substrings that make the
// calculations file relevant when they appear in a changed path.
func (c Config) CalculationTriggers() []string {
	triggers := []string{"calculationHelpers.js"}
	if c.CalculationsFile != "" {
		triggers = append(triggers, path.Base(c.CalculationsFile))
	}
	if c.AppSourceFile != "" {
		triggers = append(triggers, path.Base(c.AppSourceFile))
	}
	return triggers
}
