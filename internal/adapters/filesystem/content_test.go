package filesystem

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"noteboard/internal/domain"
)

func setupContentStore(t *testing.T) (*ContentStore, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "noteboard-content-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	cleanup := func() {
		os.RemoveAll(tmpDir)
	}
	return NewContentStore(tmpDir), cleanup
}

func TestContentStore_PutGetDelete(t *testing.T) {
	store, cleanup := setupContentStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Put(ctx, "owner/abc", []byte("hello")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	data, err := store.Get(ctx, "owner/abc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("expected hello, got %q", data)
	}

	if err := store.Put(ctx, "owner/abc", []byte("bye")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, _ = store.Get(ctx, "owner/abc")
	if string(data) != "bye" {
		t.Errorf("expected bye after overwrite, got %q", data)
	}

	if err := store.Delete(ctx, "owner/abc"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "owner/abc"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "owner/abc"); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}
}

func TestContentStore_LeavesNoTempFiles(t *testing.T) {
	store, cleanup := setupContentStore(t)
	defer cleanup()

	if err := store.Put(context.Background(), "k/v", []byte("x")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(store.Root(), "k"))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "v" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only v, got %v", names)
	}
}

func TestContentStore_RejectsEscapingKeys(t *testing.T) {
	store, cleanup := setupContentStore(t)
	defer cleanup()

	keys := []string{"", "/etc/passwd", "../outside", "a/../../b", "..", "a\\b"}
	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			err := store.Put(context.Background(), key, []byte("x"))
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected validation error for %q, got %v", key, err)
			}
		})
	}
}

func TestContentStore_CanceledContext(t *testing.T) {
	store, cleanup := setupContentStore(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Put(ctx, "k", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
