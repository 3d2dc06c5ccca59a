package domain

import (
	"fmt"
	"slices"
)

// NextIDs holds the identifier the next created entity of each kind receives.
type NextIDs struct {
	Folder int64
	Note   int64
	Room   int64
}

// DeriveNextIDs computes max(id)+1 per kind, or 0 for an empty kind.
func DeriveNextIDs(folderIDs, noteIDs, roomIDs []int64) NextIDs {
	next := func(ids []int64) int64 {
		if len(ids) == 0 {
			return 0
		}
		return slices.Max(ids) + 1
	}
	return NextIDs{Folder: next(folderIDs), Note: next(noteIDs), Room: next(roomIDs)}
}

// Tree is an arena of folders, notes and rooms with per-parent child lists.
// Entities keep their insertion order so flattening is stable.
type Tree struct {
	folders map[int64]*Folder
	notes   map[int64]*Note
	rooms   map[int64]*Room

	folderOrder []int64
	noteOrder   []int64
	roomOrder   []int64

	children map[int64][]Ref
	tokens   map[string]Ref
	next     NextIDs
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{
		folders:  make(map[int64]*Folder),
		notes:    make(map[int64]*Note),
		rooms:    make(map[int64]*Room),
		children: make(map[int64][]Ref),
		tokens:   make(map[string]Ref),
	}
}

// TreeBuilder reconstructs a Tree in two passes: entities are registered
// first, references are wired once everything exists.
type TreeBuilder struct {
	t *Tree
}

// NewTreeBuilder starts an empty build.
func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{t: NewTree()}
}

// AddFolder registers a folder without wiring its parent.
func (b *TreeBuilder) AddFolder(f Folder) error {
	if _, ok := b.t.folders[f.ID]; ok {
		return &ValidationError{Field: "folders", Message: fmt.Sprintf("duplicate folder id %d", f.ID)}
	}
	if err := b.t.claimToken(f.Token, f.Ref()); err != nil {
		return err
	}
	b.t.folders[f.ID] = &f
	b.t.folderOrder = append(b.t.folderOrder, f.ID)
	return nil
}

// AddNote registers a note without wiring its parent or room.
func (b *TreeBuilder) AddNote(n Note) error {
	if _, ok := b.t.notes[n.ID]; ok {
		return &ValidationError{Field: "notes", Message: fmt.Sprintf("duplicate note id %d", n.ID)}
	}
	if err := b.t.claimToken(n.Token, n.Ref()); err != nil {
		return err
	}
	b.t.notes[n.ID] = &n
	b.t.noteOrder = append(b.t.noteOrder, n.ID)
	return nil
}

// AddRoom registers a room.
func (b *TreeBuilder) AddRoom(r Room) error {
	if _, ok := b.t.rooms[r.ID]; ok {
		return &ValidationError{Field: "rooms", Message: fmt.Sprintf("duplicate room id %d", r.ID)}
	}
	b.t.rooms[r.ID] = &r
	b.t.roomOrder = append(b.t.roomOrder, r.ID)
	return nil
}

// Build derives the id counters, wires parent and room references and
// checks the structural invariants.
func (b *TreeBuilder) Build() (*Tree, error) {
	t := b.t
	t.next = DeriveNextIDs(t.folderOrder, t.noteOrder, t.roomOrder)

	for _, id := range t.folderOrder {
		f := t.folders[id]
		if f.ParentID != nil {
			if _, ok := t.folders[*f.ParentID]; !ok {
				return nil, &ValidationError{Field: "folders", Message: fmt.Sprintf("folder %d references missing parent %d", id, *f.ParentID)}
			}
		}
		key := ParentKey(f.ParentID)
		t.children[key] = append(t.children[key], f.Ref())
	}

	roomUsers := make(map[int64]int64)
	for _, id := range t.noteOrder {
		n := t.notes[id]
		if n.ParentID != nil {
			if _, ok := t.folders[*n.ParentID]; !ok {
				return nil, &ValidationError{Field: "notes", Message: fmt.Sprintf("note %d references missing folder %d", id, *n.ParentID)}
			}
		}
		if n.RoomID != nil {
			if _, ok := t.rooms[*n.RoomID]; !ok {
				return nil, &ValidationError{Field: "notes", Message: fmt.Sprintf("note %d references missing room %d", id, *n.RoomID)}
			}
			if other, ok := roomUsers[*n.RoomID]; ok {
				return nil, &ValidationError{Field: "notes", Message: fmt.Sprintf("room %d shared by notes %d and %d", *n.RoomID, other, id)}
			}
			roomUsers[*n.RoomID] = id
		}
		key := ParentKey(n.ParentID)
		t.children[key] = append(t.children[key], n.Ref())
	}

	for _, id := range t.folderOrder {
		if _, err := t.Ancestors(Ref{Kind: KindFolder, ID: id}); err != nil {
			return nil, &ValidationError{Field: "folders", Message: err.Error()}
		}
	}
	if err := t.Verify(); err != nil {
		return nil, &ValidationError{Field: "index", Message: err.Error()}
	}
	return t, nil
}

func (t *Tree) claimToken(token string, ref Ref) error {
	if token == "" {
		return &ValidationError{Field: "token", Message: fmt.Sprintf("%s has no token", ref)}
	}
	if other, ok := t.tokens[token]; ok && other != ref {
		return &ValidationError{Field: "token", Message: fmt.Sprintf("token shared by %s and %s", other, ref)}
	}
	t.tokens[token] = ref
	return nil
}

// Next returns the id counters.
func (t *Tree) Next() NextIDs {
	return t.next
}

// Len returns the number of folders and notes.
func (t *Tree) Len() int {
	return len(t.folders) + len(t.notes)
}

// Folder looks up a folder by id
func (t *Tree) Folder(id int64) (*Folder, bool) {
	f, ok := t.folders[id]
	return f, ok
}

// Note looks up a note by id
func (t *Tree) Note(id int64) (*Note, bool) {
	n, ok := t.notes[id]
	return n, ok
}

// Room looks up a room by id
func (t *Tree) Room(id int64) (*Room, bool) {
	r, ok := t.rooms[id]
	return r, ok
}

// Resource resolves a reference to its shared attributes.
func (t *Tree) Resource(ref Ref) (Resource, bool) {
	switch ref.Kind {
	case KindFolder:
		if f, ok := t.folders[ref.ID]; ok {
			return Resource{Kind: KindFolder, Node: f.Node}, true
		}
	case KindNote:
		if n, ok := t.notes[ref.ID]; ok {
			return Resource{Kind: KindNote, Node: n.Node}, true
		}
	}
	return Resource{}, false
}

// ByToken resolves a token to the folder or note holding it.
func (t *Tree) ByToken(token string) (Resource, bool) {
	ref, ok := t.tokens[token]
	if !ok {
		return Resource{}, false
	}
	return t.Resource(ref)
}

// Children returns the direct children of parent ordered by index.
func (t *Tree) Children(parent *int64) []Resource {
	refs := t.children[ParentKey(parent)]
	out := make([]Resource, 0, len(refs))
	for _, ref := range refs {
		if r, ok := t.Resource(ref); ok {
			out = append(out, r)
		}
	}
	SortByIndex(out)
	return out
}

// Folders returns folders in insertion order.
func (t *Tree) Folders() []*Folder {
	out := make([]*Folder, 0, len(t.folderOrder))
	for _, id := range t.folderOrder {
		out = append(out, t.folders[id])
	}
	return out
}

// Notes returns notes in insertion order.
func (t *Tree) Notes() []*Note {
	out := make([]*Note, 0, len(t.noteOrder))
	for _, id := range t.noteOrder {
		out = append(out, t.notes[id])
	}
	return out
}

// Rooms returns rooms in insertion order.
func (t *Tree) Rooms() []*Room {
	out := make([]*Room, 0, len(t.roomOrder))
	for _, id := range t.roomOrder {
		out = append(out, t.rooms[id])
	}
	return out
}

// NoteNames lists the names of every note.
func (t *Tree) NoteNames() []string {
	names := make([]string, 0, len(t.notes))
	for _, id := range t.noteOrder {
		names = append(names, t.notes[id].Name)
	}
	return names
}

// Ancestors returns the folders above ref, root first. It fails on a cycle.
func (t *Tree) Ancestors(ref Ref) ([]*Folder, error) {
	r, ok := t.Resource(ref)
	if !ok {
		return nil, &NotFoundError{What: ref.String()}
	}

	var chain []*Folder
	seen := map[int64]bool{}
	if ref.Kind == KindFolder {
		seen[ref.ID] = true
	}
	for p := r.ParentID; p != nil; {
		if seen[*p] {
			return nil, fmt.Errorf("%w: folder %d is its own ancestor", ErrCycleDetected, *p)
		}
		seen[*p] = true
		f, ok := t.folders[*p]
		if !ok {
			return nil, &NotFoundError{What: fmt.Sprintf("folder:%d", *p)}
		}
		chain = append(chain, f)
		p = f.ParentID
	}
	slices.Reverse(chain)
	return chain, nil
}

func (t *Tree) requireParent(parent *int64) error {
	if parent == nil {
		return nil
	}
	if _, ok := t.folders[*parent]; !ok {
		return &NotFoundError{What: fmt.Sprintf("folder:%d", *parent)}
	}
	return nil
}

// InsertFolder assigns the next folder id and links f under its parent.
func (t *Tree) InsertFolder(f *Folder) error {
	if err := t.requireParent(f.ParentID); err != nil {
		return err
	}
	f.ID = t.next.Folder
	if err := t.claimToken(f.Token, f.Ref()); err != nil {
		return err
	}
	t.next.Folder++
	t.folders[f.ID] = f
	t.folderOrder = append(t.folderOrder, f.ID)
	key := ParentKey(f.ParentID)
	t.children[key] = append(t.children[key], f.Ref())
	return nil
}

// InsertNote assigns the next note id and links n under its parent.
func (t *Tree) InsertNote(n *Note) error {
	if err := t.requireParent(n.ParentID); err != nil {
		return err
	}
	if n.RoomID != nil {
		if _, ok := t.rooms[*n.RoomID]; !ok {
			return &NotFoundError{What: fmt.Sprintf("room:%d", *n.RoomID)}
		}
	}
	n.ID = t.next.Note
	if err := t.claimToken(n.Token, n.Ref()); err != nil {
		return err
	}
	t.next.Note++
	t.notes[n.ID] = n
	t.noteOrder = append(t.noteOrder, n.ID)
	key := ParentKey(n.ParentID)
	t.children[key] = append(t.children[key], n.Ref())
	return nil
}

// InsertRoom assigns the next room id.
func (t *Tree) InsertRoom(r *Room) error {
	r.ID = t.next.Room
	t.next.Room++
	t.rooms[r.ID] = r
	t.roomOrder = append(t.roomOrder, r.ID)
	return nil
}

func (t *Tree) node(ref Ref) (*Node, bool) {
	switch ref.Kind {
	case KindFolder:
		if f, ok := t.folders[ref.ID]; ok {
			return &f.Node, true
		}
	case KindNote:
		if n, ok := t.notes[ref.ID]; ok {
			return &n.Node, true
		}
	}
	return nil, false
}

// Rename sets the name of a folder or note.
func (t *Tree) Rename(ref Ref, name string) error {
	n, ok := t.node(ref)
	if !ok {
		return &NotFoundError{What: ref.String()}
	}
	n.Name = name
	return nil
}

// SetIndex sets the sibling index of a folder or note.
func (t *Tree) SetIndex(ref Ref, index int) error {
	n, ok := t.node(ref)
	if !ok {
		return &NotFoundError{What: ref.String()}
	}
	n.Index = index
	return nil
}

// Move reparents ref and sets its index.
func (t *Tree) Move(ref Ref, parent *int64, index int) error {
	n, ok := t.node(ref)
	if !ok {
		return &NotFoundError{What: ref.String()}
	}
	if err := t.requireParent(parent); err != nil {
		return err
	}
	t.unlink(ParentKey(n.ParentID), ref)
	n.ParentID = parent
	n.Index = index
	key := ParentKey(parent)
	t.children[key] = append(t.children[key], ref)
	return nil
}

func (t *Tree) unlink(key int64, ref Ref) {
	t.children[key] = slices.DeleteFunc(t.children[key], func(r Ref) bool { return r == ref })
	if len(t.children[key]) == 0 {
		delete(t.children, key)
	}
}

// RemoveFolder drops an empty folder.
func (t *Tree) RemoveFolder(id int64) error {
	f, ok := t.folders[id]
	if !ok {
		return &NotFoundError{What: fmt.Sprintf("folder:%d", id)}
	}
	if len(t.children[id]) > 0 {
		return fmt.Errorf("folder %d still has %d children", id, len(t.children[id]))
	}
	t.unlink(ParentKey(f.ParentID), f.Ref())
	delete(t.tokens, f.Token)
	delete(t.folders, id)
	t.folderOrder = slices.DeleteFunc(t.folderOrder, func(v int64) bool { return v == id })
	return nil
}

// RemoveNote drops a note. Its room is removed separately.
func (t *Tree) RemoveNote(id int64) error {
	n, ok := t.notes[id]
	if !ok {
		return &NotFoundError{What: fmt.Sprintf("note:%d", id)}
	}
	t.unlink(ParentKey(n.ParentID), n.Ref())
	delete(t.tokens, n.Token)
	delete(t.notes, id)
	t.noteOrder = slices.DeleteFunc(t.noteOrder, func(v int64) bool { return v == id })
	return nil
}

// RemoveRoom drops a room.
func (t *Tree) RemoveRoom(id int64) error {
	if _, ok := t.rooms[id]; !ok {
		return &NotFoundError{What: fmt.Sprintf("room:%d", id)}
	}
	delete(t.rooms, id)
	t.roomOrder = slices.DeleteFunc(t.roomOrder, func(v int64) bool { return v == id })
	return nil
}

// Verify checks dense ordering under every parent.
func (t *Tree) Verify() error {
	for key := range t.children {
		if err := VerifyDense(t.Children(ParentPtr(key))); err != nil {
			return fmt.Errorf("parent %d: %w", key, err)
		}
	}
	return nil
}
