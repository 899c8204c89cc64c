package synccheck

// DocumentStatus is the model's verdict on one document generator.
type DocumentStatus string

// Document statuses.
const (
	StatusComplete      DocumentStatus = "COMPLETE"
	StatusNeedsUpdate   DocumentStatus = "NEEDS_UPDATE"
	StatusNotApplicable DocumentStatus = "NOT_APPLICABLE"
	StatusBroken        DocumentStatus = "BROKEN"
)

// Severity ranks a cross-cutting issue.
type Severity string

// Severities.
const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

// TriggerType classifies what kind of change prompted the analysis.
type TriggerType string

// Trigger types.
const (
	TriggerFieldAdded        TriggerType = "field_added"
	TriggerFieldRemoved      TriggerType = "field_removed"
	TriggerFieldRenamed      TriggerType = "field_renamed"
	TriggerCalculationChange TriggerType = "calculation_change"
	TriggerStructureChange   TriggerType = "structure_change"
	TriggerDocumentChange    TriggerType = "document_change"
	TriggerUnknown           TriggerType = "unknown"
)

// Label returns a display label, or empty for unknown trigger types.
func (t TriggerType) Label() string {
	switch t {
	case TriggerFieldAdded:
		return "Field added"
	case TriggerFieldRemoved:
		return "Field removed"
	case TriggerFieldRenamed:
		return "Field renamed"
	case TriggerCalculationChange:
		return "Calculation change"
	case TriggerStructureChange:
		return "Data structure change"
	case TriggerDocumentChange:
		return "Document generator change"
	}
	return ""
}

// Analysis is the validated, defaulted result of one model response.
type Analysis struct {
	Summary            Summary
	Documents          []DocumentReport // In response order
	CrossCuttingIssues []CrossCuttingIssue
	CalculationsImpact CalculationsImpact
	ConsistencyChecks  ConsistencyChecks
	Fixes              []Fix // Actionable fixes flattened across documents
}

// Document returns the report for name.
func (a *Analysis) Document(name string) (DocumentReport, bool) {
	for _, d := range a.Documents {
		if d.Name == name {
			return d, true
		}
	}
	return DocumentReport{}, false
}

// UpToDate reports whether every document is COMPLETE or NOT_APPLICABLE
// and no fixes were proposed.
func (a *Analysis) UpToDate() bool {
	if len(a.Fixes) > 0 {
		return false
	}
	for _, d := range a.Documents {
		if d.Status != StatusComplete && d.Status != StatusNotApplicable {
			return false
		}
	}
	return true
}

// Summary describes the detected changes.
type Summary struct {
	Changes      []string    `json:"changes"`
	TotalGaps    int         `json:"totalGaps"`
	CriticalGaps int         `json:"criticalGaps"`
	TriggerType  TriggerType `json:"triggerType"`
}

// DocumentReport is the verdict for one document generator.
type DocumentReport struct {
	Name   string         `json:"-"`
	Status DocumentStatus `json:"status"`
	Reason string         `json:"reason"`
	Gaps   []string       `json:"gaps"`
	Fixes  []Fix          `json:"fixes"`
}

// Fix is a proposed exact-substring edit. SearchFor is not guaranteed to
// exist in File; it is checked when the fix is applied.
type Fix struct {
	Description string `json:"description"`
	SearchFor   string `json:"searchFor"`
	ReplaceWith string `json:"replaceWith"`
	Location    string `json:"location,omitempty"`
	Document    string `json:"-"`
	File        string `json:"-"`
}

// Actionable reports whether the fix has both a search and a replacement.
func (f Fix) Actionable() bool {
	return f.SearchFor != "" && f.ReplaceWith != ""
}

// CrossCuttingIssue affects more than one document.
type CrossCuttingIssue struct {
	Severity          Severity `json:"severity"`
	Description       string   `json:"description"`
	AffectedDocuments []string `json:"affectedDocuments"`
	Recommendation    string   `json:"recommendation"`
}

// CalculationsImpact describes whether pricing calculations need updates.
type CalculationsImpact struct {
	AffectsCalculations bool     `json:"affectsCalculations"`
	Explanation         string   `json:"explanation"`
	FilesToUpdate       []string `json:"filesToUpdate"`
}

// ConsistencyChecks are the model's cross-document sanity checks.
type ConsistencyChecks struct {
	FieldNamesMatch      bool
	AllFieldsRendered    bool
	CalculationsAligned  bool
	FormattingConsistent bool
	Notes                string
}

// Passed reports whether all four checks hold.
func (c ConsistencyChecks) Passed() bool {
	return c.FieldNamesMatch && c.AllFieldsRendered && c.CalculationsAligned && c.FormattingConsistent
}
