package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/synccheck"
)

// Compile-time interface verification.
var _ synccheck.Auditor = (*Auditor)(nil)

const (
	// DefaultAuditTimeout bounds a single audit call.
	DefaultAuditTimeout = 2 * time.Minute

	// MaxOutputTokens leaves room for a full report on every document.
	MaxOutputTokens = 16384
)

// Auditor implements synccheck.Auditor using Google Gemini.
type Auditor struct {
	client        GenerativeClient
	model         string
	timeout       time.Duration
	thinkingLevel string
}

// AuditorOption configures an Auditor.
type AuditorOption func(*Auditor)

// WithTimeout sets the timeout for the API call.
func WithTimeout(d time.Duration) AuditorOption {
	return func(a *Auditor) {
		a.timeout = d
	}
}

// WithThinkingLevel sets the model's thinking level.
func WithThinkingLevel(level string) AuditorOption {
	return func(a *Auditor) {
		a.thinkingLevel = level
	}
}

// NewAuditor creates a new Auditor.
func NewAuditor(client GenerativeClient, model string, opts ...AuditorOption) *Auditor {
	a := &Auditor{
		client:  client,
		model:   model,
		timeout: DefaultAuditTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Audit sends one request for the bundle and returns the raw response text.
// Failures are returned as *synccheck.ModelCallError; there is no retry.
func (a *Auditor) Audit(ctx context.Context, bundle *synccheck.ContextBundle) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	contents := []*Content{{
		Parts: []*Part{{Text: BuildAuditPrompt(bundle)}},
	}}
	config := BuildAuditConfig()
	config.ThinkingLevel = a.thinkingLevel

	resp, err := a.client.GenerateContent(ctx, a.model, contents, config)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return "", synccheck.NewModelCallError(err)
	}
	if resp == nil {
		return "", synccheck.NewModelCallError(errors.New("gemini: returned nil response"))
	}
	return resp.Text, nil
}

// BuildAuditPrompt creates the user prompt embedding the bundle in tagged sections.
func BuildAuditPrompt(bundle *synccheck.ContextBundle) string {
	var sb strings.Builder
	sb.WriteString("Audit the document generators against the following change.\n\n")

	sb.WriteString("<diff>\n")
	sb.WriteString(strings.TrimRight(bundle.Diff, "\n"))
	sb.WriteString("\n</diff>\n\n")

	sb.WriteString("<changed_files>\n")
	for _, f := range bundle.ChangedFiles {
		sb.WriteString(f)
		sb.WriteString("\n")
	}
	sb.WriteString("</changed_files>\n\n")

	writeBlock(&sb, "factory_function", bundle.FactoryFunction)
	writeBlock(&sb, "document_generator", bundle.DocumentGenerator)
	writeBlock(&sb, "constants", bundle.Constants)
	if bundle.Calculations != nil {
		writeBlock(&sb, "calculations", *bundle.Calculations)
	}

	sb.WriteString("Return the JSON object described in your instructions. Copy searchFor text ")
	sb.WriteString("verbatim from <document_generator>.\n")
	return sb.String()
}

func writeBlock(sb *strings.Builder, tag string, b synccheck.Block) {
	fmt.Fprintf(sb, "<%s path=%q>\n", tag, b.Path)
	fmt.Fprintf(sb, "```%s\n", b.Language)
	sb.WriteString(strings.TrimRight(b.Content, "\n"))
	sb.WriteString("\n```\n")
	fmt.Fprintf(sb, "</%s>\n\n", tag)
}

// BuildAuditConfig returns the deterministic generation config for audits.
func BuildAuditConfig() *GenerateContentConfig {
	temp := float32(0)
	return &GenerateContentConfig{
		SystemInstruction: &Content{
			Parts: []*Part{{Text: systemInstruction}},
		},
		Temperature:      &temp,
		MaxOutputTokens:  MaxOutputTokens,
		ResponseMIMEType: "application/json",
	}
}
