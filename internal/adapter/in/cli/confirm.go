package cli

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"
)

// promptConfirmer asks on the terminal.
type promptConfirmer struct{}

func (promptConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(prompt).
			Affirmative("Delete").
			Negative("Keep").
			Value(&ok),
	))

	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}

// autoConfirmer answers yes without asking; used with --yes.
type autoConfirmer struct{}

func (autoConfirmer) Confirm(context.Context, string) (bool, error) {
	return true, nil
}
