package domain

import (
	"errors"
	"testing"
)

func ptr(v int64) *int64 { return &v }

func folder(id int64, parent *int64, index int, token string) Folder {
	return Folder{Node: Node{ID: id, Name: "f", Token: token, ParentID: parent, Index: index}}
}

func note(id int64, parent *int64, index int, token string, room *int64) Note {
	return Note{Node: Node{ID: id, Name: "n", Token: token, ParentID: parent, Index: index}, RoomID: room}
}

func TestDeriveNextIDs(t *testing.T) {
	got := DeriveNextIDs(nil, []int64{4, 1, 9}, []int64{0})
	want := NextIDs{Folder: 0, Note: 10, Room: 1}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestTreeBuilder_OutOfOrderParents(t *testing.T) {
	b := NewTreeBuilder()
	// child listed before its parent
	mustAdd(t, b.AddFolder(folder(5, ptr(2), 0, "child")))
	mustAdd(t, b.AddFolder(folder(2, nil, 0, "parent")))
	mustAdd(t, b.AddRoom(Room{ID: 3, Name: "room"}))
	mustAdd(t, b.AddNote(note(1, ptr(5), 0, "note", ptr(3))))

	tree, err := b.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tree.Next(); got != (NextIDs{Folder: 6, Note: 2, Room: 4}) {
		t.Errorf("unexpected next ids %+v", got)
	}

	chain, err := tree.Ancestors(Ref{Kind: KindNote, ID: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chain) != 2 || chain[0].ID != 2 || chain[1].ID != 5 {
		t.Errorf("unexpected ancestor chain %v", chain)
	}
}

func TestTreeBuilder_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *TreeBuilder) error
	}{
		{
			name: "dangling parent",
			build: func(b *TreeBuilder) error {
				return b.AddFolder(folder(1, ptr(9), 0, "a"))
			},
		},
		{
			name: "dangling room",
			build: func(b *TreeBuilder) error {
				return b.AddNote(note(1, nil, 0, "a", ptr(4)))
			},
		},
		{
			name: "gap in indices",
			build: func(b *TreeBuilder) error {
				if err := b.AddFolder(folder(1, nil, 0, "a")); err != nil {
					return err
				}
				return b.AddFolder(folder(2, nil, 2, "b"))
			},
		},
		{
			name: "cycle",
			build: func(b *TreeBuilder) error {
				if err := b.AddFolder(folder(1, ptr(2), 0, "a")); err != nil {
					return err
				}
				return b.AddFolder(folder(2, ptr(1), 0, "b"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewTreeBuilder()
			if err := tt.build(b); err != nil {
				t.Fatalf("unexpected add error: %v", err)
			}
			if _, err := b.Build(); !errors.Is(err, ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestTreeBuilder_DuplicateToken(t *testing.T) {
	b := NewTreeBuilder()
	mustAdd(t, b.AddFolder(folder(1, nil, 0, "same")))
	if err := b.AddNote(note(1, nil, 1, "same", nil)); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for shared token, got %v", err)
	}
}

func TestTree_InsertMoveRemove(t *testing.T) {
	tree := NewTree()

	a := &Folder{Node: Node{Name: "A", Token: "ta", Index: 0}}
	if err := tree.InsertFolder(a); err != nil {
		t.Fatalf("insert: %v", err)
	}
	b := &Folder{Node: Node{Name: "B", Token: "tb", ParentID: ptr(a.ID), Index: 0}}
	if err := tree.InsertFolder(b); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if a.ID != 0 || b.ID != 1 {
		t.Fatalf("expected ids 0 and 1, got %d and %d", a.ID, b.ID)
	}
	if dup := (&Folder{Node: Node{Token: "ta"}}); tree.InsertFolder(dup) == nil {
		t.Errorf("expected duplicate token to be rejected")
	}

	if err := tree.Move(b.Ref(), nil, 1); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := len(tree.Children(nil)); got != 2 {
		t.Errorf("expected 2 root children, got %d", got)
	}
	if got := len(tree.Children(ptr(a.ID))); got != 0 {
		t.Errorf("expected A to be empty, got %d", got)
	}
	if err := tree.Verify(); err != nil {
		t.Errorf("verify: %v", err)
	}

	if err := tree.RemoveFolder(b.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := tree.ByToken("tb"); ok {
		t.Errorf("token of removed folder still resolves")
	}
	if tree.Len() != 1 {
		t.Errorf("expected 1 resource left, got %d", tree.Len())
	}
}

func TestTree_RemoveFolderWithChildren(t *testing.T) {
	tree := NewTree()
	a := &Folder{Node: Node{Name: "A", Token: "ta"}}
	mustAdd(t, tree.InsertFolder(a))
	mustAdd(t, tree.InsertNote(&Note{Node: Node{Name: "n", Token: "tn", ParentID: ptr(a.ID)}}))
	if err := tree.RemoveFolder(a.ID); err == nil {
		t.Errorf("expected error removing a non-empty folder")
	}
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
