package ports

import (
	"context"
	"os/exec"
)

// TextEditor lets the user change note text in an external editor
type TextEditor interface {
	// Edit blocks until the editor exits and returns the edited text
	Edit(ctx context.Context, text string) (string, error)

	// Prepare writes text to a scratch file and returns the editor command
	// together with a function that reads the result back and cleans up.
	// This is useful for integrating with bubbletea's ExecProcess
	Prepare(text string) (*exec.Cmd, func() (string, error), error)
}
