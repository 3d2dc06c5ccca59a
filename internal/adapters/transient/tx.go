package transient

import (
	"fmt"
	"time"

	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

var errCanvasUnsupported = fmt.Errorf("canvas needs a durable owner: %w", domain.ErrPermissionDenied)

// namespaceTx implements ports.NamespaceTx over an in-memory arena
type namespaceTx struct {
	tree     *domain.Tree
	dirty    bool
	readOnly bool
}

// Ensure namespaceTx implements NamespaceTx
var _ ports.NamespaceTx = (*namespaceTx)(nil)

func (t *namespaceTx) Owner() domain.Owner { return "" }

func (t *namespaceTx) Durable() bool { return false }

func (t *namespaceTx) write() error {
	if t.readOnly {
		return fmt.Errorf("write in read-only view")
	}
	t.dirty = true
	return nil
}

func (t *namespaceTx) Folder(id int64) (*domain.Folder, error) {
	f, ok := t.tree.Folder(id)
	if !ok {
		return nil, &domain.NotFoundError{What: fmt.Sprintf("folder:%d", id)}
	}
	c := *f
	return &c, nil
}

func (t *namespaceTx) Note(id int64) (*domain.Note, error) {
	n, ok := t.tree.Note(id)
	if !ok {
		return nil, &domain.NotFoundError{What: fmt.Sprintf("note:%d", id)}
	}
	c := *n
	return &c, nil
}

func (t *namespaceTx) Room(id int64) (*domain.Room, error) {
	r, ok := t.tree.Room(id)
	if !ok {
		return nil, &domain.NotFoundError{What: fmt.Sprintf("room:%d", id)}
	}
	c := *r
	return &c, nil
}

func (t *namespaceTx) ByToken(token string) (domain.Resource, error) {
	r, ok := t.tree.ByToken(token)
	if !ok {
		return domain.Resource{}, &domain.NotFoundError{What: "token"}
	}
	return r, nil
}

func (t *namespaceTx) RoomByName(name string) (*domain.Room, error) {
	for _, r := range t.tree.Rooms() {
		if r.Name == name {
			c := *r
			return &c, nil
		}
	}
	return nil, &domain.NotFoundError{What: "room " + name}
}

func (t *namespaceTx) NoteByRoom(roomID int64) (*domain.Note, error) {
	for _, n := range t.tree.Notes() {
		if n.RoomID != nil && *n.RoomID == roomID {
			c := *n
			return &c, nil
		}
	}
	return nil, &domain.NotFoundError{What: fmt.Sprintf("note of room:%d", roomID)}
}

func (t *namespaceTx) Children(parent *int64) ([]domain.Resource, error) {
	if parent != nil {
		if _, ok := t.tree.Folder(*parent); !ok {
			return nil, &domain.NotFoundError{What: fmt.Sprintf("folder:%d", *parent)}
		}
	}
	return t.tree.Children(parent), nil
}

func (t *namespaceTx) NoteNames() ([]string, error) {
	return t.tree.NoteNames(), nil
}

func stamp(ts *time.Time) {
	if ts.IsZero() {
		*ts = time.Now().UTC()
	}
}

func (t *namespaceTx) InsertFolder(f *domain.Folder) error {
	if err := t.write(); err != nil {
		return err
	}
	c := *f
	c.Owner = ""
	stamp(&c.CreatedAt)
	if err := t.tree.InsertFolder(&c); err != nil {
		return err
	}
	*f = c
	return nil
}

func (t *namespaceTx) InsertRoom(r *domain.Room) error {
	if err := t.write(); err != nil {
		return err
	}
	c := *r
	c.Owner, c.IsPublic, c.IsEditable = "", false, false
	if err := t.tree.InsertRoom(&c); err != nil {
		return err
	}
	*r = c
	return nil
}

func (t *namespaceTx) InsertNote(n *domain.Note) error {
	if err := t.write(); err != nil {
		return err
	}
	c := *n
	c.Owner = ""
	c.Canvas = nil
	stamp(&c.CreatedAt)
	if err := t.tree.InsertNote(&c); err != nil {
		return err
	}
	*n = c
	return nil
}

func (t *namespaceTx) Rename(ref domain.Ref, name string) error {
	if err := t.write(); err != nil {
		return err
	}
	return t.tree.Rename(ref, name)
}

func (t *namespaceTx) SetIndex(ref domain.Ref, index int) error {
	if err := t.write(); err != nil {
		return err
	}
	return t.tree.SetIndex(ref, index)
}

func (t *namespaceTx) Move(ref domain.Ref, parent *int64, index int) error {
	if err := t.write(); err != nil {
		return err
	}
	return t.tree.Move(ref, parent, index)
}

// SaveRoom keeps only the name; transient rooms are always private.
func (t *namespaceTx) SaveRoom(r *domain.Room) error {
	if err := t.write(); err != nil {
		return err
	}
	stored, ok := t.tree.Room(r.ID)
	if !ok {
		return &domain.NotFoundError{What: fmt.Sprintf("room:%d", r.ID)}
	}
	stored.Name = r.Name
	return nil
}

func (t *namespaceTx) SaveNote(n *domain.Note) error {
	if err := t.write(); err != nil {
		return err
	}
	stored, ok := t.tree.Note(n.ID)
	if !ok {
		return &domain.NotFoundError{What: fmt.Sprintf("note:%d", n.ID)}
	}
	stored.Text = n.Text
	stored.Display = n.Display
	return nil
}

func (t *namespaceTx) DeleteFolder(id int64) error {
	if err := t.write(); err != nil {
		return err
	}
	return t.tree.RemoveFolder(id)
}

func (t *namespaceTx) DeleteNote(id int64) error {
	if err := t.write(); err != nil {
		return err
	}
	return t.tree.RemoveNote(id)
}

func (t *namespaceTx) DeleteRoom(id int64) error {
	if err := t.write(); err != nil {
		return err
	}
	return t.tree.RemoveRoom(id)
}

func (t *namespaceTx) LoadText(n *domain.Note) (string, error) {
	stored, ok := t.tree.Note(n.ID)
	if !ok {
		return "", &domain.NotFoundError{What: fmt.Sprintf("note:%d", n.ID)}
	}
	return stored.Text, nil
}

func (t *namespaceTx) StoreText(n *domain.Note, text string) error {
	if err := t.write(); err != nil {
		return err
	}
	stored, ok := t.tree.Note(n.ID)
	if !ok {
		return &domain.NotFoundError{What: fmt.Sprintf("note:%d", n.ID)}
	}
	stored.Text = text
	n.Text = text
	return nil
}

func (t *namespaceTx) LoadCanvas(*domain.Note) ([]byte, error) {
	return nil, errCanvasUnsupported
}

func (t *namespaceTx) StoreCanvas(*domain.Note, []byte) error {
	return errCanvasUnsupported
}

// ReleaseContent is a no-op: text lives inside the snapshot.
func (t *namespaceTx) ReleaseContent(*domain.Note) error {
	return nil
}
