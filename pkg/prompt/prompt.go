// Package prompt implements the interactive decision capability. The
// terminal prompter blocks on the operator; pipelines and tests get a
// deterministic substitute instead (see pkg/testutil).
package prompt

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/types"
)

// Terminal is the pterm-backed Prompter for interactive sessions
type Terminal struct{}

// NewTerminal creates a prompter bound to the controlling terminal
func NewTerminal() *Terminal {
	return &Terminal{}
}

var _ types.Prompter = (*Terminal)(nil)

// Confirm asks a yes/no question. With stdin not attached to a tty the
// question cannot be answered, so it fails instead of hanging forever.
func (p *Terminal) Confirm(prompt string) (bool, error) {
	if !interactive() {
		return false, errors.Newf(errors.ErrAborted, "%q needs an interactive terminal", prompt)
	}
	ok, err := pterm.DefaultInteractiveConfirm.Show(prompt)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrInternal, "confirm prompt failed")
	}
	return ok, nil
}

// Choose asks the operator to pick one of options
func (p *Terminal) Choose(prompt string, options []string) (string, error) {
	if !interactive() {
		return "", errors.Newf(errors.ErrAborted, "%q needs an interactive terminal", prompt)
	}
	selected, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		Show(prompt)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "select prompt failed")
	}
	return selected, nil
}

func interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
