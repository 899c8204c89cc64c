package synccheck

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ParseAnalysis converts a raw model response into an Analysis. It tolerates
// code fences and prose around the JSON object, but requires the summary and
// documents fields. Every actionable fix is tagged with its document and
// patchTarget and collected into Analysis.Fixes.
func ParseAnalysis(raw string, patchTarget string) (*Analysis, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	for _, name := range []string{"summary", "documents"} {
		if v, ok := fields[name]; !ok || isNull(v) {
			return nil, &ResponseFormatError{
				Detail:  fmt.Sprintf("missing required field %q", name),
				Excerpt: excerpt(raw),
			}
		}
	}

	analysis := &Analysis{}

	if err := json.Unmarshal(fields["summary"], &analysis.Summary); err != nil {
		return nil, schemaError("summary", err, raw)
	}
	if analysis.Summary.Changes == nil {
		analysis.Summary.Changes = []string{}
	}
	if analysis.Summary.TriggerType == "" {
		analysis.Summary.TriggerType = TriggerUnknown
	}

	docs, err := decodeDocuments(fields["documents"], patchTarget)
	if err != nil {
		return nil, schemaError("documents", err, raw)
	}
	analysis.Documents = docs

	analysis.CrossCuttingIssues = []CrossCuttingIssue{}
	if v, ok := fields["crossCuttingIssues"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &analysis.CrossCuttingIssues); err != nil {
			return nil, schemaError("crossCuttingIssues", err, raw)
		}
		for i := range analysis.CrossCuttingIssues {
			if analysis.CrossCuttingIssues[i].AffectedDocuments == nil {
				analysis.CrossCuttingIssues[i].AffectedDocuments = []string{}
			}
		}
	}

	analysis.CalculationsImpact = CalculationsImpact{FilesToUpdate: []string{}}
	if v, ok := fields["calculationsImpact"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &analysis.CalculationsImpact); err != nil {
			return nil, schemaError("calculationsImpact", err, raw)
		}
		if analysis.CalculationsImpact.FilesToUpdate == nil {
			analysis.CalculationsImpact.FilesToUpdate = []string{}
		}
	}

	checks := wireConsistency{}
	if v, ok := fields["consistencyChecks"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &checks); err != nil {
			return nil, schemaError("consistencyChecks", err, raw)
		}
	}
	analysis.ConsistencyChecks = checks.normalize()

	analysis.Fixes = []Fix{}
	for _, doc := range analysis.Documents {
		for _, fix := range doc.Fixes {
			if fix.Actionable() {
				analysis.Fixes = append(analysis.Fixes, fix)
			}
		}
	}

	return analysis, nil
}

// decodeObject parses the top-level object, retrying on the span between the
// first '{' and the last '}' when the trimmed text is not valid JSON.
func decodeObject(raw string) (map[string]json.RawMessage, error) {
	text := stripCodeFence(strings.TrimSpace(raw))

	var fields map[string]json.RawMessage
	primary := json.Unmarshal([]byte(text), &fields)
	if primary == nil && fields != nil {
		return fields, nil
	}
	if primary == nil {
		primary = errors.New("top-level value is not an object")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, &ResponseFormatError{
			Detail:   "response is not JSON",
			Err:      primary,
			Fallback: errors.New("no JSON object found"),
			Excerpt:  excerpt(raw),
		}
	}

	fields = nil
	if fallback := json.Unmarshal([]byte(text[start:end+1]), &fields); fallback != nil {
		return nil, &ResponseFormatError{
			Detail:   "response is not JSON",
			Err:      primary,
			Fallback: fallback,
			Excerpt:  excerpt(raw),
		}
	}
	return fields, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

// decodeDocuments reads the documents object preserving key order.
func decodeDocuments(raw json.RawMessage, patchTarget string) ([]DocumentReport, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("must be an object keyed by document name")
	}

	docs := []DocumentReport{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)

		var doc DocumentReport
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		doc.Name = name
		if doc.Gaps == nil {
			doc.Gaps = []string{}
		}
		if doc.Fixes == nil {
			doc.Fixes = []Fix{}
		}
		for i := range doc.Fixes {
			doc.Fixes[i].Document = name
			doc.Fixes[i].File = patchTarget
		}

		// Later duplicates replace earlier ones, as with encoding/json maps.
		if i, ok := index[name]; ok {
			docs[i] = doc
			continue
		}
		index[name] = len(docs)
		docs = append(docs, doc)
	}
	return docs, nil
}

type wireConsistency struct {
	FieldNamesMatch      *bool  `json:"fieldNamesMatch"`
	AllFieldsRendered    *bool  `json:"allFieldsRendered"`
	CalculationsAligned  *bool  `json:"calculationsAligned"`
	FormattingConsistent *bool  `json:"formattingConsistent"`
	Notes                string `json:"notes"`
}

// normalize treats an unreported check as passing.
func (w wireConsistency) normalize() ConsistencyChecks {
	orTrue := func(b *bool) bool { return b == nil || *b }
	return ConsistencyChecks{
		FieldNamesMatch:      orTrue(w.FieldNamesMatch),
		AllFieldsRendered:    orTrue(w.AllFieldsRendered),
		CalculationsAligned:  orTrue(w.CalculationsAligned),
		FormattingConsistent: orTrue(w.FormattingConsistent),
		Notes:                w.Notes,
	}
}

func schemaError(field string, err error, raw string) error {
	return &ResponseFormatError{
		Detail:  fmt.Sprintf("malformed field %q", field),
		Err:     err,
		Excerpt: excerpt(raw),
	}
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
