package commands

import (
	"context"
	"fmt"

	"noteboard/internal/application"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// NoteContentResult contains a note and its content
type NoteContentResult struct {
	Note    *domain.Note
	Text    string
	Canvas  []byte
	Message string
}

// ReadNoteCommand loads the text (and canvas, when durable) of an owned note
type ReadNoteCommand struct {
	ns   ports.Namespace
	Note domain.Locator
}

// NewReadNoteCommand creates a new ReadNoteCommand
func NewReadNoteCommand(ns ports.Namespace, note domain.Locator) *ReadNoteCommand {
	return &ReadNoteCommand{ns: ns, Note: note}
}

// Execute runs the read note command
func (c *ReadNoteCommand) Execute(ctx context.Context) (*NoteContentResult, error) {
	var result NoteContentResult
	err := view(ctx, c.ns, "read_note", func(tx ports.NamespaceTx) error {
		n, err := locateNote(tx, c.Note)
		if err != nil {
			return err
		}
		text, err := tx.LoadText(n)
		if err != nil {
			return err
		}
		var canvas []byte
		if tx.Durable() && n.Canvas != nil && n.Canvas.ContentKey != "" {
			if canvas, err = tx.LoadCanvas(n); err != nil {
				return err
			}
		}
		result = NoteContentResult{Note: n, Text: text, Canvas: canvas}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read note: %w", err)
	}
	return &result, nil
}

// SaveTextCommand replaces the text of a note. Owners may always write;
// others only through an editable room.
type SaveTextCommand struct {
	ns   ports.Namespace
	Note domain.Locator
	Text string
}

// NewSaveTextCommand creates a new SaveTextCommand
func NewSaveTextCommand(ns ports.Namespace, note domain.Locator, text string) *SaveTextCommand {
	return &SaveTextCommand{ns: ns, Note: note, Text: text}
}

// Execute runs the save text command
func (c *SaveTextCommand) Execute(ctx context.Context) (*NoteContentResult, error) {
	var result NoteContentResult
	err := update(ctx, c.ns, "save_text", func(tx ports.NamespaceTx) error {
		n, err := locateEditableNote(tx, c.Note)
		if err != nil {
			return err
		}
		if err := tx.StoreText(n, c.Text); err != nil {
			return err
		}
		result = NoteContentResult{Note: n, Text: c.Text}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save text: %w", err)
	}

	result.Message = fmt.Sprintf("Saved %d bytes to %s", len(result.Text), result.Note.Name)
	return &result, nil
}

// SaveCanvasCommand replaces the drawing attached to a note
type SaveCanvasCommand struct {
	ns   ports.Namespace
	Note domain.Locator
	Data []byte
}

// NewSaveCanvasCommand creates a new SaveCanvasCommand
func NewSaveCanvasCommand(ns ports.Namespace, note domain.Locator, data []byte) *SaveCanvasCommand {
	return &SaveCanvasCommand{ns: ns, Note: note, Data: data}
}

// Execute runs the save canvas command
func (c *SaveCanvasCommand) Execute(ctx context.Context) (*NoteContentResult, error) {
	var result NoteContentResult
	err := update(ctx, c.ns, "save_canvas", func(tx ports.NamespaceTx) error {
		if !tx.Durable() {
			return &application.PermissionError{Resource: "canvas", Reason: "requires a durable owner"}
		}
		n, err := locateEditableNote(tx, c.Note)
		if err != nil {
			return err
		}
		if err := tx.StoreCanvas(n, c.Data); err != nil {
			return err
		}
		result = NoteContentResult{Note: n, Canvas: c.Data}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save canvas: %w", err)
	}

	result.Message = fmt.Sprintf("Saved canvas of %s (%d bytes)", result.Note.Name, len(result.Canvas))
	return &result, nil
}

// SetCanvasBackgroundCommand changes the background color of a note's canvas
type SetCanvasBackgroundCommand struct {
	ns         ports.Namespace
	Note       domain.Locator
	Background string `validate:"required,canvascolor" field:"background"`
}

// NewSetCanvasBackgroundCommand creates a new SetCanvasBackgroundCommand
func NewSetCanvasBackgroundCommand(ns ports.Namespace, note domain.Locator, background string) *SetCanvasBackgroundCommand {
	return &SetCanvasBackgroundCommand{ns: ns, Note: note, Background: background}
}

// Validate checks the color
func (c *SetCanvasBackgroundCommand) Validate() error {
	return application.ValidateStruct(c)
}

// Execute runs the set background command
func (c *SetCanvasBackgroundCommand) Execute(ctx context.Context) (*NoteContentResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var result NoteContentResult
	err := update(ctx, c.ns, "set_canvas_background", func(tx ports.NamespaceTx) error {
		if !tx.Durable() {
			return &application.PermissionError{Resource: "canvas", Reason: "requires a durable owner"}
		}
		n, err := locateEditableNote(tx, c.Note)
		if err != nil {
			return err
		}
		if n.Canvas == nil {
			n.Canvas = &domain.Canvas{}
		}
		n.Canvas.Background = c.Background
		if err := tx.SaveNote(n); err != nil {
			return err
		}
		result = NoteContentResult{Note: n}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set canvas background: %w", err)
	}

	result.Message = fmt.Sprintf("Canvas background of %s set to %s", result.Note.Name, c.Background)
	return &result, nil
}

// SetDisplayCommand chooses whether a note's room shows text or canvas
type SetDisplayCommand struct {
	ns      ports.Namespace
	Note    domain.Locator
	Display string `validate:"required,oneof=text canvas" field:"display"`
}

// NewSetDisplayCommand creates a new SetDisplayCommand
func NewSetDisplayCommand(ns ports.Namespace, note domain.Locator, display string) *SetDisplayCommand {
	return &SetDisplayCommand{ns: ns, Note: note, Display: display}
}

// Validate checks the display value
func (c *SetDisplayCommand) Validate() error {
	return application.ValidateStruct(c)
}

// Execute runs the set display command
func (c *SetDisplayCommand) Execute(ctx context.Context) (*NoteContentResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var result NoteContentResult
	err := update(ctx, c.ns, "set_display", func(tx ports.NamespaceTx) error {
		if err := requireDurable(tx, "display"); err != nil {
			return err
		}
		n, err := locateNote(tx, c.Note)
		if err != nil {
			return err
		}
		n.Display = domain.Display(c.Display)
		if err := tx.SaveNote(n); err != nil {
			return err
		}
		result = NoteContentResult{Note: n}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set display: %w", err)
	}

	result.Message = fmt.Sprintf("%s now opens as %s", result.Note.Name, result.Note.Display)
	return &result, nil
}
