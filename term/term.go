// Package term provides line-based prompting for non-interactive input and
// terminal detection.
package term

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/synccheck"
	"golang.org/x/term"
)

// Compile-time interface verification.
var _ synccheck.Prompter = (*LinePrompter)(nil)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// LinePrompter asks questions on out and reads one line of input per answer.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a LinePrompter.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

type line struct {
	text string
	err  error
}

// Ask prints the question with its choices and returns the trimmed line typed
// by the operator. End of input without text is an empty answer.
func (p *LinePrompter) Ask(ctx context.Context, question string, choices []synccheck.Choice) (string, error) {
	opts := make([]string, len(choices))
	for i, c := range choices {
		opts[i] = fmt.Sprintf("[%s] %s", c.Key, c.Label)
	}
	if _, err := fmt.Fprintf(p.out, "%s %s: ", question, strings.Join(opts, ", ")); err != nil {
		return "", err
	}

	// The read cannot be interrupted; on cancellation it is abandoned.
	ch := make(chan line, 1)
	go func() {
		text, err := p.in.ReadString('\n')
		ch <- line{text, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l := <-ch:
		if l.err != nil && !errors.Is(l.err, io.EOF) {
			return "", fmt.Errorf("reading answer: %w", l.err)
		}
		if errors.Is(l.err, io.EOF) {
			_, _ = fmt.Fprintln(p.out)
		}
		return strings.TrimSpace(l.text), nil
	}
}
