package synccheck

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// APIKeyEnv is the environment variable holding the model service credential.
const APIKeyEnv = "GEMINI_API_KEY"

// ErrMissingAPIKey is returned before any work is done when APIKeyEnv is unset.
var ErrMissingAPIKey = errors.New(APIKeyEnv + " environment variable required")

// ErrPromptCancelled is returned by prompters when the operator aborts a prompt.
var ErrPromptCancelled = errors.New("prompt cancelled")

// Remediator is implemented by errors that carry an operator-facing fix.
type Remediator interface {
	Remediation() string
}

// DiffUnavailableError reports that git could not produce a diff.
type DiffUnavailableError struct {
	Op   string // git subcommand that failed
	Hint string // operator guidance
	Err  error
}

func (e *DiffUnavailableError) Error() string {
	return fmt.Sprintf("git %s failed: %v", e.Op, e.Err)
}

func (e *DiffUnavailableError) Unwrap() error { return e.Err }

// Remediation implements Remediator.
func (e *DiffUnavailableError) Remediation() string {
	if e.Hint != "" {
		return e.Hint
	}
	return "run synccheck inside a git repository with git installed and on PATH"
}

// ContextAssemblyError reports that a required source file could not be read.
type ContextAssemblyError struct {
	Path string
	Err  error
}

func (e *ContextAssemblyError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ContextAssemblyError) Unwrap() error { return e.Err }

// Remediation implements Remediator.
func (e *ContextAssemblyError) Remediation() string {
	return fmt.Sprintf("check that %s exists relative to --root, or set its path in the config file", e.Path)
}

// ModelFailure classifies a failed model call.
type ModelFailure int

// Model failure kinds.
const (
	ModelFailureOther ModelFailure = iota
	ModelFailureAuth
	ModelFailureRateLimit
	ModelFailureTimeout
)

// StatusCoder is implemented by transport errors that carry an HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// ModelCallError reports a failed request to the model service.
type ModelCallError struct {
	Kind ModelFailure
	Err  error
}

// NewModelCallError wraps err and classifies it.
func NewModelCallError(err error) *ModelCallError {
	return &ModelCallError{Kind: classifyModelError(err), Err: err}
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call failed: %v", e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }

// Remediation implements Remediator.
func (e *ModelCallError) Remediation() string {
	switch e.Kind {
	case ModelFailureAuth:
		return "the API key was rejected; check " + APIKeyEnv
	case ModelFailureRateLimit:
		return "the model service is rate limiting requests; wait a minute and run again"
	case ModelFailureTimeout:
		return "the model call timed out; retry or raise --timeout"
	default:
		return "check network access to the model service and retry"
	}
}

func classifyModelError(err error) ModelFailure {
	if errors.Is(err, context.DeadlineExceeded) {
		return ModelFailureTimeout
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		switch sc.HTTPStatus() {
		case 401, 403:
			return ModelFailureAuth
		case 429:
			return ModelFailureRateLimit
		case 408, 504:
			return ModelFailureTimeout
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "api key", "api_key", "unauthenticated", "unauthorized", "permission denied", "authentication"):
		return ModelFailureAuth
	case containsAny(msg, "rate limit", "rate_limit", "resource_exhausted", "quota", "too many requests"):
		return ModelFailureRateLimit
	case containsAny(msg, "timeout", "timed out", "deadline exceeded"):
		return ModelFailureTimeout
	}
	return ModelFailureOther
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// excerptLimit bounds the raw response carried by ResponseFormatError.
const excerptLimit = 500

// ResponseFormatError reports a model response that is not a usable analysis.
type ResponseFormatError struct {
	Detail   string // What was wrong
	Err      error  // Primary parse error, if any
	Fallback error  // Error from the brace-sliced reparse, if attempted
	Excerpt  string // Leading part of the raw response
}

func (e *ResponseFormatError) Error() string {
	var b strings.Builder
	b.WriteString("invalid model response: ")
	b.WriteString(e.Detail)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Fallback != nil {
		fmt.Fprintf(&b, " (fallback: %v)", e.Fallback)
	}
	return b.String()
}

func (e *ResponseFormatError) Unwrap() error { return e.Err }

// Remediation implements Remediator.
func (e *ResponseFormatError) Remediation() string {
	return "run again; if it keeps failing, inspect the response excerpt above"
}

func excerpt(raw string) string {
	r := []rune(raw)
	if len(r) <= excerptLimit {
		return raw
	}
	return string(r[:excerptLimit]) + "..."
}
