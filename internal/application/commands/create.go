package commands

import (
	"context"
	"fmt"

	"noteboard/internal/application"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// CreateFolderResult contains the result of creating a folder
type CreateFolderResult struct {
	Folder  *domain.Folder
	Message string
}

// CreateFolderCommand appends a folder to a parent (or the root)
type CreateFolderCommand struct {
	ns     ports.Namespace
	Parent domain.Locator
	Name   string
}

// NewCreateFolderCommand creates a new CreateFolderCommand
func NewCreateFolderCommand(ns ports.Namespace, parent domain.Locator, name string) *CreateFolderCommand {
	return &CreateFolderCommand{
		ns:     ns,
		Parent: parent,
		Name:   name,
	}
}

// Validate checks if the create operation is valid
func (c *CreateFolderCommand) Validate() error {
	_, err := application.ValidateName(domain.KindFolder, c.Name)
	return err
}

// Execute runs the create folder command
func (c *CreateFolderCommand) Execute(ctx context.Context) (*CreateFolderResult, error) {
	name, err := application.ValidateName(domain.KindFolder, c.Name)
	if err != nil {
		return nil, err
	}

	var created *domain.Folder
	err = update(ctx, c.ns, "create_folder", func(tx ports.NamespaceTx) error {
		if err := requireWriter(tx); err != nil {
			return err
		}
		parent, err := locateParent(tx, c.Parent)
		if err != nil {
			return err
		}
		siblings, err := tx.Children(parent)
		if err != nil {
			return err
		}

		f := &domain.Folder{Node: domain.Node{
			Owner:    tx.Owner(),
			Name:     name,
			Token:    domain.NewToken(),
			ParentID: parent,
			Index:    len(siblings),
		}}
		if err := tx.InsertFolder(f); err != nil {
			return err
		}
		created = f
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return &CreateFolderResult{
		Folder:  created,
		Message: fmt.Sprintf("Created folder %s at index %d", created.Name, created.Index),
	}, nil
}

// CreateNoteResult contains the result of creating a note
type CreateNoteResult struct {
	Note    *domain.Note
	Room    *domain.Room
	Message string
}

// CreateNoteCommand appends a note, with its room, to a parent (or the root).
// An empty name picks the next free "Note<N>".
type CreateNoteCommand struct {
	ns     ports.Namespace
	Parent domain.Locator
	Name   string
}

// NewCreateNoteCommand creates a new CreateNoteCommand
func NewCreateNoteCommand(ns ports.Namespace, parent domain.Locator, name string) *CreateNoteCommand {
	return &CreateNoteCommand{
		ns:     ns,
		Parent: parent,
		Name:   name,
	}
}

// Validate checks if the create operation is valid
func (c *CreateNoteCommand) Validate() error {
	if c.Name == "" {
		return nil
	}
	_, err := application.ValidateName(domain.KindNote, c.Name)
	return err
}

// Execute runs the create note command
func (c *CreateNoteCommand) Execute(ctx context.Context) (*CreateNoteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var result CreateNoteResult
	err := update(ctx, c.ns, "create_note", func(tx ports.NamespaceTx) error {
		if err := requireWriter(tx); err != nil {
			return err
		}
		parent, err := locateParent(tx, c.Parent)
		if err != nil {
			return err
		}
		siblings, err := tx.Children(parent)
		if err != nil {
			return err
		}

		name := c.Name
		if name == "" {
			existing, err := tx.NoteNames()
			if err != nil {
				return err
			}
			name = domain.NextNoteName(existing)
		} else if name, err = application.ValidateName(domain.KindNote, name); err != nil {
			return err
		}

		room := &domain.Room{Owner: tx.Owner(), Name: domain.NewRoomName()}
		if err := tx.InsertRoom(room); err != nil {
			return err
		}

		n := &domain.Note{
			Node: domain.Node{
				Owner:    tx.Owner(),
				Name:     name,
				Token:    domain.NewToken(),
				ParentID: parent,
				Index:    len(siblings),
			},
			RoomID:  &room.ID,
			Display: domain.DisplayText,
		}
		if tx.Durable() {
			n.Canvas = &domain.Canvas{Background: domain.DefaultCanvasBackground}
		}
		if err := tx.InsertNote(n); err != nil {
			return err
		}

		result = CreateNoteResult{Note: n, Room: room}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	result.Message = fmt.Sprintf("Created note %s at index %d", result.Note.Name, result.Note.Index)
	return &result, nil
}
