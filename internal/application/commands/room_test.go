package commands

import (
	"context"
	"errors"
	"testing"

	"noteboard/internal/domain"
)

func TestSetPermission(t *testing.T) {
	ctx := context.Background()
	ns := newDurable(t, newStore(t, newMemContent()))
	n := touch(t, ns, domain.Locator{}, "shared")

	tests := []struct {
		permission   string
		value        bool
		wantPublic   bool
		wantEditable bool
	}{
		{permission: PermissionPublic, value: true, wantPublic: true, wantEditable: false},
		{permission: PermissionEditable, value: true, wantPublic: true, wantEditable: true},
		{permission: PermissionEditable, value: false, wantPublic: true, wantEditable: false},
		{permission: PermissionEditable, value: true, wantPublic: true, wantEditable: true},
		{permission: PermissionPublic, value: false, wantPublic: false, wantEditable: false},
	}

	for _, tt := range tests {
		res, err := NewSetPermissionCommand(ns, at(n.Token), tt.permission, tt.value).Execute(ctx)
		if err != nil {
			t.Fatalf("%s=%t: %v", tt.permission, tt.value, err)
		}
		if res.Room.IsPublic != tt.wantPublic || res.Room.IsEditable != tt.wantEditable {
			t.Errorf("%s=%t: got public=%t editable=%t", tt.permission, tt.value, res.Room.IsPublic, res.Room.IsEditable)
		}
	}

	err := NewSetPermissionCommand(ns, at(n.Token), "secret", true).Validate()
	if err == nil || !contains(err.Error(), "permission must be one of") {
		t.Errorf("expected oneof error, got %v", err)
	}
}

func TestSetPermission_TransientDenied(t *testing.T) {
	tr, _ := newTransient()
	n := touch(t, tr, domain.Locator{}, "n")

	_, err := NewSetPermissionCommand(tr, at(n.Token), PermissionPublic, true).Execute(context.Background())
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("expected permission denied, got %v", err)
	}
}

func TestOpenRoom(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, newMemContent())
	alice := newDurable(t, store)
	bob := newDurable(t, store)

	created, err := NewCreateNoteCommand(alice, domain.Locator{}, "plan").Execute(ctx)
	if err != nil {
		t.Fatalf("create note: %v", err)
	}
	token, room := created.Note.Token, created.Room.Name
	if _, err := NewSaveTextCommand(alice, at(token), "secret plan").Execute(ctx); err != nil {
		t.Fatalf("save text: %v", err)
	}

	owner, err := NewOpenRoomCommand(alice, token, room).Execute(ctx)
	if err != nil {
		t.Fatalf("owner open: %v", err)
	}
	if !owner.IsOwner || !owner.CanEdit || owner.Text != "secret plan" {
		t.Errorf("unexpected owner view %+v", owner)
	}

	if _, err := NewOpenRoomCommand(bob, token, room).Execute(ctx); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("expected private room to be denied, got %v", err)
	}
	if _, err := NewOpenRoomCommand(alice, token, "wrong-room").Execute(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected wrong room to be not found, got %v", err)
	}

	if _, err := NewSetPermissionCommand(alice, at(token), PermissionPublic, true).Execute(ctx); err != nil {
		t.Fatalf("publish: %v", err)
	}
	visitor, err := NewOpenRoomCommand(bob, token, room).Execute(ctx)
	if err != nil {
		t.Fatalf("visitor open: %v", err)
	}
	if visitor.IsOwner || visitor.CanEdit || visitor.Text != "secret plan" {
		t.Errorf("unexpected visitor view %+v", visitor)
	}

	if err := NewOpenRoomCommand(bob, "", room).Validate(); err == nil {
		t.Error("expected missing note token to fail validation")
	}
}

func TestSaveText_EditableRoom(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, newMemContent())
	alice := newDurable(t, store)
	bob := newDurable(t, store)
	guest, err := store.Namespace(ctx, "")
	if err != nil {
		t.Fatalf("guest: %v", err)
	}

	n := touch(t, alice, domain.Locator{}, "wiki")

	if _, err := NewSaveTextCommand(bob, at(n.Token), "vandal").Execute(ctx); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("expected read-only room to deny bob, got %v", err)
	}
	if _, err := NewSaveTextCommand(bob, domain.ByID(domain.KindNote, n.ID, ""), "vandal").Execute(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected id without token to be not found for bob, got %v", err)
	}

	if _, err := NewSetPermissionCommand(alice, at(n.Token), PermissionEditable, true).Execute(ctx); err != nil {
		t.Fatalf("make editable: %v", err)
	}
	if _, err := NewSaveTextCommand(bob, at(n.Token), "from bob").Execute(ctx); err != nil {
		t.Fatalf("bob edit: %v", err)
	}
	if _, err := NewSaveTextCommand(guest, at(n.Token), "from guest").Execute(ctx); err != nil {
		t.Fatalf("guest edit: %v", err)
	}

	read, err := NewReadNoteCommand(alice, at(n.Token)).Execute(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if read.Text != "from guest" {
		t.Errorf("expected last write to win, got %q", read.Text)
	}
}
