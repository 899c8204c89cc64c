package mock

import (
	"context"
	"errors"

	"github.com/fwojciec/synccheck"
)

// Compile-time interface verification.
var _ synccheck.Prompter = (*Prompter)(nil)

// Prompter is a mock implementation of synccheck.Prompter.
type Prompter struct {
	AskFn func(ctx context.Context, question string, choices []synccheck.Choice) (string, error)
}

func (p *Prompter) Ask(ctx context.Context, question string, choices []synccheck.Choice) (string, error) {
	return p.AskFn(ctx, question, choices)
}

// ScriptedPrompter answers prompts from a fixed script and records the questions.
type ScriptedPrompter struct {
	Answers   []string
	Questions []string
}

// Ask returns the next scripted answer, or an error when the script is exhausted.
func (p *ScriptedPrompter) Ask(ctx context.Context, question string, choices []synccheck.Choice) (string, error) {
	p.Questions = append(p.Questions, question)
	if len(p.Answers) == 0 {
		return "", errors.New("mock: no scripted answer left")
	}
	answer := p.Answers[0]
	p.Answers = p.Answers[1:]
	return answer, nil
}
