package ports

import "context"

// SnapshotSlot holds the serialized transient tree of one session.
type SnapshotSlot interface {
	// Load returns nil when the slot is empty
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error

	// Lock takes the slot exclusively until unlock is called
	Lock(ctx context.Context) (unlock func(), err error)
}
