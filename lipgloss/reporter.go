package lipgloss

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fwojciec/synccheck"
)

// Compile-time interface verification.
var _ synccheck.Reporter = (*Reporter)(nil)

// Reporter writes an analysis report as styled text.
type Reporter struct {
	out   io.Writer
	marks synccheck.Marker
	order []string
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithDocumentOrder sets the display order of known documents. Documents not
// listed are shown afterwards in response order.
func WithDocumentOrder(names []string) ReporterOption {
	return func(r *Reporter) {
		r.order = names
	}
}

// NewReporter creates a Reporter writing to out.
func NewReporter(out io.Writer, marks synccheck.Marker, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		out:   out,
		marks: marks,
		order: synccheck.DefaultConfig().Documents(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the report sections in fixed order. Write errors are ignored.
func (r *Reporter) Render(a *synccheck.Analysis, changes *synccheck.ChangeSet) {
	m := r.marks
	r.changedFiles(changes)

	if label := a.Summary.TriggerType.Label(); label != "" {
		r.printf("%s %s\n\n", m.MarkMuted("Trigger:"), m.MarkInfo(label))
	}

	r.heading("Detected changes")
	if len(a.Summary.Changes) == 0 {
		r.printf("  %s\n", m.MarkMuted("No changes detected"))
	}
	for _, c := range a.Summary.Changes {
		r.printf("  • %s\n", c)
	}
	r.printf("\n")

	gaps := fmt.Sprintf("Gaps: %d total, %d critical", a.Summary.TotalGaps, a.Summary.CriticalGaps)
	switch {
	case a.Summary.CriticalGaps > 0:
		gaps = m.MarkFailure(gaps)
	case a.Summary.TotalGaps > 0:
		gaps = m.MarkWarning(gaps)
	default:
		gaps = m.MarkSuccess(gaps)
	}
	r.printf("%s\n\n", gaps)

	r.documents(a)
	r.crossCutting(a.CrossCuttingIssues)
	r.calculations(a.CalculationsImpact)
	r.consistency(a.ConsistencyChecks)
}

func (r *Reporter) changedFiles(changes *synccheck.ChangeSet) {
	r.heading("Changed files")
	if changes == nil || len(changes.Files) == 0 {
		r.printf("  %s\n\n", r.marks.MarkMuted("none"))
		return
	}
	for _, path := range changes.Files {
		stat, ok := changes.Stat(path)
		if !ok {
			r.printf("  • %s\n", path)
			continue
		}
		r.printf("  • %s %s %s\n", path,
			r.marks.MarkSuccess(fmt.Sprintf("+%d", stat.Added)),
			r.marks.MarkFailure(fmt.Sprintf("-%d", stat.Deleted)))
	}
	r.printf("\n")
}

func (r *Reporter) documents(a *synccheck.Analysis) {
	if len(a.Documents) == 0 {
		return
	}
	r.heading("Documents")
	for _, doc := range r.displayOrder(a.Documents) {
		r.printf("  %s %s\n", r.badge(doc.Status), r.marks.MarkHeading(doc.Name))
		if doc.Reason != "" {
			r.printf("      %s\n", doc.Reason)
		}
		for _, gap := range doc.Gaps {
			r.printf("      %s %s\n", r.marks.MarkWarning("gap:"), gap)
		}
		for i, fix := range doc.Fixes {
			r.printf("      %d. %s\n", i+1, fix.Description)
			if fix.Location != "" {
				r.printf("         %s %s\n", r.marks.MarkMuted("at"), fix.Location)
			}
			if fix.ReplaceWith != "" {
				r.printf("         %s %s\n", r.marks.MarkMuted("→"), synccheck.Preview(fix.ReplaceWith, synccheck.PreviewLimit))
			}
			if !fix.Actionable() {
				r.printf("         %s\n", r.marks.MarkMuted("(manual: no exact search/replace provided)"))
			}
		}
	}
	r.printf("\n")
}

// displayOrder returns known documents in configured order followed by the
// rest in response order.
func (r *Reporter) displayOrder(docs []synccheck.DocumentReport) []synccheck.DocumentReport {
	ordered := make([]synccheck.DocumentReport, 0, len(docs))
	for _, name := range r.order {
		for _, d := range docs {
			if d.Name == name {
				ordered = append(ordered, d)
				break
			}
		}
	}
	for _, d := range docs {
		if !slices.Contains(r.order, d.Name) {
			ordered = append(ordered, d)
		}
	}
	return ordered
}

func (r *Reporter) badge(status synccheck.DocumentStatus) string {
	switch status {
	case synccheck.StatusComplete:
		return r.marks.MarkSuccess("✓ COMPLETE")
	case synccheck.StatusNeedsUpdate:
		return r.marks.MarkWarning("! NEEDS_UPDATE")
	case synccheck.StatusNotApplicable:
		return r.marks.MarkMuted("- NOT_APPLICABLE")
	case synccheck.StatusBroken:
		return r.marks.MarkFailure("✗ BROKEN")
	}
	if status == "" {
		return r.marks.MarkMuted("? UNKNOWN")
	}
	return r.marks.MarkMuted("? " + string(status))
}

func (r *Reporter) crossCutting(issues []synccheck.CrossCuttingIssue) {
	if len(issues) == 0 {
		return
	}
	r.heading("Cross-cutting issues")
	for _, issue := range issues {
		severity := "[" + string(issue.Severity) + "]"
		switch issue.Severity {
		case synccheck.SeverityCritical:
			severity = r.marks.MarkFailure(severity)
		case synccheck.SeverityWarning:
			severity = r.marks.MarkWarning(severity)
		default:
			severity = r.marks.MarkInfo(severity)
		}
		r.printf("  %s %s\n", severity, issue.Description)
		if len(issue.AffectedDocuments) > 0 {
			r.printf("      %s %s\n", r.marks.MarkMuted("affects:"), strings.Join(issue.AffectedDocuments, ", "))
		}
		if issue.Recommendation != "" {
			r.printf("      %s %s\n", r.marks.MarkMuted("recommendation:"), issue.Recommendation)
		}
	}
	r.printf("\n")
}

func (r *Reporter) calculations(impact synccheck.CalculationsImpact) {
	if !impact.AffectsCalculations {
		return
	}
	r.heading("Calculations impact")
	if impact.Explanation != "" {
		r.printf("  %s\n", impact.Explanation)
	}
	for _, f := range impact.FilesToUpdate {
		r.printf("  • %s\n", f)
	}
	r.printf("\n")
}

func (r *Reporter) consistency(c synccheck.ConsistencyChecks) {
	r.heading("Consistency checks")
	checks := []struct {
		label string
		ok    bool
	}{
		{"Field names match", c.FieldNamesMatch},
		{"All fields rendered", c.AllFieldsRendered},
		{"Calculations aligned", c.CalculationsAligned},
		{"Formatting consistent", c.FormattingConsistent},
	}
	for _, check := range checks {
		mark := r.marks.MarkSuccess("✓")
		if !check.ok {
			mark = r.marks.MarkFailure("✗")
		}
		r.printf("  %s %s\n", mark, check.label)
	}
	if c.Notes != "" {
		r.printf("  %s %s\n", r.marks.MarkMuted("notes:"), c.Notes)
	}
	if !c.Passed() {
		r.printf("\n%s\n", r.marks.MarkWarning("⚠ Consistency checks failed; review the documents before applying fixes."))
	}
	r.printf("\n")
}

func (r *Reporter) heading(title string) {
	r.printf("%s\n", r.marks.MarkHeading(title))
}

func (r *Reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}
