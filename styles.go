package synccheck

import "strings"

// Marker decorates text with semantic terminal styling. Implementations decide
// colors; callers only say what the text means.
type Marker interface {
	MarkSuccess(s string) string
	MarkFailure(s string) string
	MarkWarning(s string) string
	MarkInfo(s string) string
	MarkHeading(s string) string
	MarkMuted(s string) string
	MarkRemoved(s string) string // Changed tokens in text being replaced
	MarkAdded(s string) string   // Changed tokens in replacement text
}

// PreviewLimit is the rune width of single-line previews of fix text.
const PreviewLimit = 80

// Preview returns the first line of s cut to limit runes, with "..."
// appended when anything was cut.
func Preview(s string, limit int) string {
	line, rest, multiline := strings.Cut(s, "\n")
	line = strings.TrimRight(line, "\r")
	r := []rune(line)
	if len(r) > limit {
		return string(r[:limit]) + "..."
	}
	if multiline && strings.TrimSpace(rest) != "" {
		return line + "..."
	}
	return line
}
