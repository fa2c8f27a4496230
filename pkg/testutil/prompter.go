package testutil

import (
	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/types"
)

// ScriptedPrompter answers prompts from preloaded queues. Running out of
// answers fails the prompt, which surfaces as a test failure where a
// workflow asked an unexpected question.
type ScriptedPrompter struct {
	// Confirms are consumed front to back by Confirm
	Confirms []bool

	// Choices are consumed front to back by Choose
	Choices []string

	// Asked records every prompt text in order
	Asked []string
}

var _ types.Prompter = (*ScriptedPrompter)(nil)

func (p *ScriptedPrompter) Confirm(prompt string) (bool, error) {
	p.Asked = append(p.Asked, prompt)
	if len(p.Confirms) == 0 {
		return false, errors.Newf(errors.ErrInternal, "unexpected confirm prompt: %s", prompt)
	}
	answer := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return answer, nil
}

func (p *ScriptedPrompter) Choose(prompt string, options []string) (string, error) {
	p.Asked = append(p.Asked, prompt)
	if len(p.Choices) == 0 {
		return "", errors.Newf(errors.ErrInternal, "unexpected choice prompt: %s", prompt)
	}
	answer := p.Choices[0]
	p.Choices = p.Choices[1:]
	return answer, nil
}
