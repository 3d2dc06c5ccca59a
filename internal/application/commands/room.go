package commands

import (
	"context"
	"fmt"

	"noteboard/internal/application"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// Room permissions that can be toggled
const (
	PermissionPublic   = "public"
	PermissionEditable = "editable"
)

// SetPermissionResult contains the room after a permission change
type SetPermissionResult struct {
	Note    *domain.Note
	Room    *domain.Room
	Message string
}

// SetPermissionCommand changes the visibility of a note's room. Editable
// rooms are public; private rooms are read-only.
type SetPermissionCommand struct {
	ns         ports.Namespace
	Note       domain.Locator
	Permission string `validate:"required,oneof=public editable" field:"permission"`
	Value      bool
}

// NewSetPermissionCommand creates a new SetPermissionCommand
func NewSetPermissionCommand(ns ports.Namespace, note domain.Locator, permission string, value bool) *SetPermissionCommand {
	return &SetPermissionCommand{
		ns:         ns,
		Note:       note,
		Permission: permission,
		Value:      value,
	}
}

// Validate checks the permission name
func (c *SetPermissionCommand) Validate() error {
	return application.ValidateStruct(c)
}

// Execute runs the set permission command
func (c *SetPermissionCommand) Execute(ctx context.Context) (*SetPermissionResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var result SetPermissionResult
	err := update(ctx, c.ns, "set_permission", func(tx ports.NamespaceTx) error {
		if err := requireDurable(tx, "sharing"); err != nil {
			return err
		}
		n, err := locateNote(tx, c.Note)
		if err != nil {
			return err
		}
		room, err := noteRoom(tx, n)
		if err != nil {
			return err
		}

		switch c.Permission {
		case PermissionEditable:
			room.SetEditable(c.Value)
		case PermissionPublic:
			room.SetPublic(c.Value)
		}
		if err := tx.SaveRoom(room); err != nil {
			return err
		}
		result = SetPermissionResult{Note: n, Room: room}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to change permission: %w", err)
	}

	result.Message = fmt.Sprintf("Room %s: public=%t editable=%t", result.Room.Name, result.Room.IsPublic, result.Room.IsEditable)
	return &result, nil
}

// OpenRoomResult is what a visitor of a room sees
type OpenRoomResult struct {
	Note    *domain.Note
	Room    *domain.Room
	Text    string
	IsOwner bool
	CanEdit bool
}

// OpenRoomCommand opens a note through its room. Owners always get in;
// anyone else only when the room is public.
type OpenRoomCommand struct {
	ns        ports.Namespace
	NoteToken string `validate:"required" field:"noteToken"`
	RoomName  string `validate:"required" field:"roomName"`
}

// NewOpenRoomCommand creates a new OpenRoomCommand
func NewOpenRoomCommand(ns ports.Namespace, noteToken, roomName string) *OpenRoomCommand {
	return &OpenRoomCommand{ns: ns, NoteToken: noteToken, RoomName: roomName}
}

// Validate checks the required fields
func (c *OpenRoomCommand) Validate() error {
	return application.ValidateStruct(c)
}

// Execute runs the open room command
func (c *OpenRoomCommand) Execute(ctx context.Context) (*OpenRoomResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var result OpenRoomResult
	err := view(ctx, c.ns, "open_room", func(tx ports.NamespaceTx) error {
		r, err := tx.ByToken(c.NoteToken)
		if err != nil {
			return err
		}
		if r.Kind != domain.KindNote {
			return &domain.NotFoundError{What: "note " + c.NoteToken}
		}
		n, err := tx.Note(r.ID)
		if err != nil {
			return err
		}
		room, err := noteRoom(tx, n)
		if err != nil {
			return err
		}
		if !domain.TokenMatches(room.Name, c.RoomName) {
			return &domain.NotFoundError{What: "room " + c.RoomName}
		}

		isOwner := n.Owner == tx.Owner()
		if !isOwner && !room.IsPublic {
			return &application.PermissionError{Resource: "room " + room.Name, Reason: "room is private"}
		}
		text, err := tx.LoadText(n)
		if err != nil {
			return err
		}
		result = OpenRoomResult{
			Note:    n,
			Room:    room,
			Text:    text,
			IsOwner: isOwner,
			CanEdit: isOwner || room.IsEditable,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open room: %w", err)
	}
	return &result, nil
}
