package ports

import "context"

// ContentResolver stores note text and canvas bytes by opaque key.
// Get fails with domain.ErrNotFound for unknown keys.
type ContentResolver interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
