package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"noteboard/internal/ports"
)

const (
	lockPollInterval = 20 * time.Millisecond
	// a lock file not touched for this long is assumed to belong to a dead
	// process; holders touch it three times per period
	staleLockAge = 30 * time.Second
)

// SnapshotFile implements ports.SnapshotSlot on a single file. The lock is
// a sibling "<file>.lock" created exclusively and holding the holder's id.
type SnapshotFile struct {
	path       string
	staleAfter time.Duration
}

// Ensure SnapshotFile implements SnapshotSlot
var _ ports.SnapshotSlot = (*SnapshotFile)(nil)

// NewSnapshotFile creates a slot stored at path
func NewSnapshotFile(path string) *SnapshotFile {
	return &SnapshotFile{path: expandHome(path), staleAfter: staleLockAge}
}

// Path returns the snapshot file location
func (s *SnapshotFile) Path() string {
	return s.path
}

// Load returns nil when no snapshot has been saved
func (s *SnapshotFile) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, nil
}

// Save replaces the snapshot atomically
func (s *SnapshotFile) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return writeAtomic(s.path, data)
}

// Clear removes the snapshot
func (s *SnapshotFile) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}

// Lock waits until the lock file can be created or ctx is done. The lock
// file is kept fresh until unlock, however long the holder needs it.
func (s *SnapshotFile) Lock(ctx context.Context) (func(), error) {
	lockPath := s.path + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	holder := fmt.Sprintf("%d %s\n", os.Getpid(), uuid.NewString())

	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()

	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			_, werr := f.WriteString(holder)
			if cerr := f.Close(); werr == nil {
				werr = cerr
			}
			if werr != nil {
				os.Remove(lockPath)
				return nil, fmt.Errorf("failed to write lock file: %w", werr)
			}
			return s.hold(ctx, lockPath, holder), nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		if s.breakStale(lockPath) {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// hold touches the lock file until the returned unlock runs. Unlock removes
// the file only while it still names holder.
func (s *SnapshotFile) hold(ctx context.Context, lockPath, holder string) func() {
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.staleAfter / 3)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
			if !holdsLock(lockPath, holder) {
				zerolog.Ctx(ctx).Warn().Str("lock", lockPath).Msg("snapshot lock taken over")
				return
			}
			now := time.Now()
			if err := os.Chtimes(lockPath, now, now); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str("lock", lockPath).Msg("failed to refresh snapshot lock")
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			if holdsLock(lockPath, holder) {
				os.Remove(lockPath)
			}
		})
	}
}

// breakStale removes a lock file its holder stopped refreshing
func (s *SnapshotFile) breakStale(lockPath string) bool {
	info, err := os.Stat(lockPath)
	if err != nil || time.Since(info.ModTime()) <= s.staleAfter {
		return false
	}
	stale, err := os.ReadFile(lockPath)
	if err != nil {
		return false
	}
	// another waiter may have broken and retaken it in between
	if !holdsLock(lockPath, string(stale)) {
		return false
	}
	return os.Remove(lockPath) == nil
}

func holdsLock(lockPath, holder string) bool {
	data, err := os.ReadFile(lockPath)
	return err == nil && string(data) == holder
}
