package ports

import (
	"context"

	"noteboard/internal/domain"
)

// Namespace is one actor's resource tree. Transient and durable backends
// implement it; tree algorithms are written once against NamespaceTx.
type Namespace interface {
	// Owner returns the actor the namespace is bound to (empty when transient)
	Owner() domain.Owner

	// Update runs fn as one atomic read-compute-write unit. Nothing fn
	// wrote is visible if it returns an error.
	Update(ctx context.Context, fn func(tx NamespaceTx) error) error

	// View runs fn against a consistent read-only view.
	View(ctx context.Context, fn func(tx NamespaceTx) error) error
}

// NamespaceTx exposes the primitive reads and writes of a namespace inside
// one unit of work. Lookups return resources with their recorded owner;
// ownership and token checks are the caller's job.
type NamespaceTx interface {
	Owner() domain.Owner
	Durable() bool

	// Lookups fail with domain.ErrNotFound
	Folder(id int64) (*domain.Folder, error)
	Note(id int64) (*domain.Note, error)
	Room(id int64) (*domain.Room, error)
	ByToken(token string) (domain.Resource, error)
	RoomByName(name string) (*domain.Room, error)
	NoteByRoom(roomID int64) (*domain.Note, error)

	// Children returns the direct children of parent (nil = the owner's
	// root) ordered by index.
	Children(parent *int64) ([]domain.Resource, error)
	// NoteNames lists the names of every note of the owner
	NoteNames() ([]string, error)

	// Inserts assign the id (and CreatedAt when zero)
	InsertFolder(f *domain.Folder) error
	InsertRoom(r *domain.Room) error
	InsertNote(n *domain.Note) error

	Rename(ref domain.Ref, name string) error
	SetIndex(ref domain.Ref, index int) error
	Move(ref domain.Ref, parent *int64, index int) error
	SaveRoom(r *domain.Room) error
	SaveNote(n *domain.Note) error

	DeleteFolder(id int64) error
	DeleteNote(id int64) error
	DeleteRoom(id int64) error

	// Content handling. The transient backend keeps text inline and has
	// no canvas storage.
	LoadText(n *domain.Note) (string, error)
	StoreText(n *domain.Note, text string) error
	LoadCanvas(n *domain.Note) ([]byte, error)
	StoreCanvas(n *domain.Note, data []byte) error
	ReleaseContent(n *domain.Note) error
}

// Promotable is a namespace whose whole tree can be handed over once.
type Promotable interface {
	Namespace

	// Drain locks the namespace, reconstructs its tree and passes it to fn.
	// When fn succeeds the namespace is cleared; otherwise it is untouched.
	Drain(ctx context.Context, fn func(tree *domain.Tree) error) error
}
