// Package bubbletea provides the interactive terminal prompter using the
// Bubble Tea framework.
package bubbletea

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/synccheck"
)

// Compile-time interface verification.
var (
	_ synccheck.Prompter = (*Prompter)(nil)
	_ tea.Model          = ChoiceModel{}
)

// Prompter asks questions with an inline Bubble Tea choice list.
type Prompter struct {
	in       io.Reader
	out      io.Writer
	renderer *lipgloss.Renderer
}

// NewPrompter creates a Prompter reading keys from in and drawing to out.
// If renderer is nil, the default renderer is used.
func NewPrompter(in io.Reader, out io.Writer, renderer *lipgloss.Renderer) *Prompter {
	return &Prompter{in: in, out: out, renderer: renderer}
}

// Ask blocks until a choice is selected. It returns synccheck.ErrPromptCancelled
// when the operator cancels, and the context error when ctx ends first.
func (p *Prompter) Ask(ctx context.Context, question string, choices []synccheck.Choice) (string, error) {
	m := NewChoiceModel(question, choices, WithRenderer(p.renderer))
	program := tea.NewProgram(m,
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)
	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("prompt: %w", err)
	}
	result, ok := final.(ChoiceModel)
	if !ok || result.Cancelled() {
		return "", synccheck.ErrPromptCancelled
	}
	return result.Selected(), nil
}

// ChoiceModel is a single-question choice list.
type ChoiceModel struct {
	question  string
	choices   []synccheck.Choice
	cursor    int
	selected  string
	cancelled bool
	done      bool
	keymap    KeyMap

	questionStyle lipgloss.Style
	cursorStyle   lipgloss.Style
	mutedStyle    lipgloss.Style
}

// ChoiceOption configures a ChoiceModel.
type ChoiceOption func(*ChoiceModel)

// WithRenderer sets the renderer used for styles. A nil renderer is ignored.
func WithRenderer(r *lipgloss.Renderer) ChoiceOption {
	return func(m *ChoiceModel) {
		if r != nil {
			m.setStyles(r)
		}
	}
}

// WithKeyMap sets the key bindings.
func WithKeyMap(km KeyMap) ChoiceOption {
	return func(m *ChoiceModel) {
		m.keymap = km
	}
}

// NewChoiceModel creates a model asking question with the given choices.
func NewChoiceModel(question string, choices []synccheck.Choice, opts ...ChoiceOption) ChoiceModel {
	m := ChoiceModel{
		question: question,
		choices:  choices,
		keymap:   DefaultKeyMap(),
	}
	m.setStyles(lipgloss.DefaultRenderer())
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m *ChoiceModel) setStyles(r *lipgloss.Renderer) {
	m.questionStyle = r.NewStyle().Bold(true)
	m.cursorStyle = r.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	m.mutedStyle = r.NewStyle().Foreground(lipgloss.Color("#6c7086"))
}

// Selected returns the key of the chosen answer, empty until one is chosen.
func (m ChoiceModel) Selected() string {
	return m.selected
}

// Cancelled reports whether the operator aborted the prompt.
func (m ChoiceModel) Cancelled() bool {
	return m.cancelled
}

// Init implements tea.Model.
func (m ChoiceModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ChoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.done {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keymap.Cancel):
		m.cancelled = true
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keymap.Select):
		if len(m.choices) == 0 {
			return m, nil
		}
		m.selected = m.choices[m.cursor].Key
		m.done = true
		return m, tea.Quit
	}

	// Direct choice keys take precedence over navigation so "j" and "k"
	// remain usable as answers.
	for _, c := range m.choices {
		if strings.EqualFold(keyMsg.String(), c.Key) {
			m.selected = c.Key
			m.done = true
			return m, tea.Quit
		}
	}

	switch {
	case key.Matches(keyMsg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keymap.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m ChoiceModel) View() string {
	var b strings.Builder
	b.WriteString(m.questionStyle.Render(m.question))
	if m.done {
		switch {
		case m.cancelled:
			b.WriteString(" " + m.mutedStyle.Render("cancelled"))
		default:
			b.WriteString(" " + m.label(m.selected))
		}
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString("\n")
	for i, c := range m.choices {
		line := fmt.Sprintf("[%s] %s", c.Key, c.Label)
		if i == m.cursor {
			b.WriteString(m.cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString(m.mutedStyle.Render("↑/↓ move • enter select • esc cancel"))
	b.WriteString("\n")
	return b.String()
}

func (m ChoiceModel) label(k string) string {
	for _, c := range m.choices {
		if c.Key == k {
			return c.Label
		}
	}
	return k
}
