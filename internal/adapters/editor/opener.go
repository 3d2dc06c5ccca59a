package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"noteboard/internal/ports"
)

var _ ports.TextEditor = (*Opener)(nil)

// Opener implements ports.TextEditor on top of $EDITOR
type Opener struct {
	// Editor overrides the lookup when set; it may carry arguments ("code --wait")
	Editor string
}

// NewOpener creates a new editor opener
func NewOpener() *Opener {
	return &Opener{}
}

// Edit opens text in the editor and waits for it to exit
func (o *Opener) Edit(ctx context.Context, text string) (string, error) {
	cmd, collect, err := o.Prepare(text)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		_, _ = collect()
		return "", err
	}
	if err := cmd.Run(); err != nil {
		_, _ = collect()
		return "", fmt.Errorf("editor exited: %w", err)
	}
	return collect()
}

// Prepare writes text to a scratch file and builds the editor command for it
func (o *Opener) Prepare(text string) (*exec.Cmd, func() (string, error), error) {
	argv := strings.Fields(o.findEditor())
	if len(argv) == 0 {
		return nil, nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	f, err := os.CreateTemp("", "noteboard-*.md")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create scratch file: %w", err)
	}
	path := f.Name()
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		os.Remove(path)
		return nil, nil, fmt.Errorf("failed to write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, nil, fmt.Errorf("failed to write scratch file: %w", err)
	}

	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	collect := func() (string, error) {
		defer os.Remove(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read scratch file: %w", err)
		}
		return string(data), nil
	}
	return cmd, collect, nil
}

// findEditor returns the editor to use
func (o *Opener) findEditor() string {
	if o.Editor != "" {
		return o.Editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	for _, editor := range []string{"nvim", "vim", "vi", "nano"} {
		if path, err := exec.LookPath(editor); err == nil {
			return path
		}
	}
	return ""
}
