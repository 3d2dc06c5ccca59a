package transient

import (
	"context"
	"slices"
	"sync"

	"noteboard/internal/ports"
)

// MemorySlot keeps a snapshot in process memory. It backs tests and
// short-lived sessions.
type MemorySlot struct {
	mu   sync.RWMutex
	data []byte
	sem  chan struct{}
}

// Ensure MemorySlot implements SnapshotSlot
var _ ports.SnapshotSlot = (*MemorySlot)(nil)

// NewMemorySlot creates an empty slot
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{sem: make(chan struct{}, 1)}
}

func (s *MemorySlot) Load(context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data), nil
}

func (s *MemorySlot) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = slices.Clone(data)
	return nil
}

func (s *MemorySlot) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

func (s *MemorySlot) Lock(ctx context.Context) (func(), error) {
	select {
	case s.sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-s.sem }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
