// Package lipgloss renders synccheck terminal output using the Lipgloss styling library.
package lipgloss

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/synccheck"
)

// Compile-time interface verification.
var _ synccheck.Marker = (*Theme)(nil)

// Palette holds the semantic colors of a theme as hex strings.
type Palette struct {
	Success string
	Failure string
	Warning string
	Info    string
	Heading string
	Muted   string

	// Token highlights in review mode; text is drawn in HighlightText.
	Removed       string
	Added         string
	HighlightText string
}

// DarkPalette is optimized for dark terminal backgrounds (Catppuccin Mocha).
func DarkPalette() Palette {
	return Palette{
		Success:       "#a6e3a1",
		Failure:       "#f38ba8",
		Warning:       "#f9e2af",
		Info:          "#89b4fa",
		Heading:       "#cba6f7",
		Muted:         "#6c7086",
		Removed:       "#f38ba8",
		Added:         "#a6e3a1",
		HighlightText: "#1e1e2e",
	}
}

// LightPalette is optimized for light terminal backgrounds (Catppuccin Latte).
func LightPalette() Palette {
	return Palette{
		Success:       "#40a02b",
		Failure:       "#d20f39",
		Warning:       "#df8e1d",
		Info:          "#1e66f5",
		Heading:       "#8839ef",
		Muted:         "#9ca0b0",
		Removed:       "#d20f39",
		Added:         "#40a02b",
		HighlightText: "#ffffff",
	}
}

// Theme implements synccheck.Marker with Lipgloss styles.
type Theme struct {
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
	removed lipgloss.Style
	added   lipgloss.Style
}

// NewTheme builds a Theme from palette. If renderer is nil, the default
// renderer is used.
func NewTheme(renderer *lipgloss.Renderer, palette Palette) *Theme {
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	fg := func(c string) lipgloss.Style {
		return renderer.NewStyle().TabWidth(lipgloss.NoTabConversion).Foreground(lipgloss.Color(c))
	}
	highlight := func(bg string) lipgloss.Style {
		return renderer.NewStyle().
			TabWidth(lipgloss.NoTabConversion).
			Foreground(lipgloss.Color(palette.HighlightText)).
			Background(lipgloss.Color(bg))
	}
	return &Theme{
		success: fg(palette.Success),
		failure: fg(palette.Failure).Bold(true),
		warning: fg(palette.Warning),
		info:    fg(palette.Info),
		heading: fg(palette.Heading).Bold(true),
		muted:   fg(palette.Muted),
		removed: highlight(palette.Removed),
		added:   highlight(palette.Added),
	}
}

// DefaultTheme picks the dark or light palette from the terminal background.
func DefaultTheme(renderer *lipgloss.Renderer) *Theme {
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	if renderer.HasDarkBackground() {
		return NewTheme(renderer, DarkPalette())
	}
	return NewTheme(renderer, LightPalette())
}

func (t *Theme) MarkSuccess(s string) string { return render(t.success, s) }
func (t *Theme) MarkFailure(s string) string { return render(t.failure, s) }
func (t *Theme) MarkWarning(s string) string { return render(t.warning, s) }
func (t *Theme) MarkInfo(s string) string    { return render(t.info, s) }
func (t *Theme) MarkHeading(s string) string { return render(t.heading, s) }
func (t *Theme) MarkMuted(s string) string   { return render(t.muted, s) }
func (t *Theme) MarkRemoved(s string) string { return render(t.removed, s) }
func (t *Theme) MarkAdded(s string) string   { return render(t.added, s) }

// render styles each line separately so multi-line text is not padded to a
// common width.
func render(style lipgloss.Style, s string) string {
	if s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
