package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"noteboard/internal/adapters/filesystem"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// BenchmarkReorderWideFolder swaps the first and last of many siblings
func BenchmarkReorderWideFolder(b *testing.B) {
	const width = 200
	dir := b.TempDir()
	store := NewStore(filesystem.NewContentStore(filepath.Join(dir, "content")))
	if err := store.Open(filepath.Join(dir, "bench.db")); err != nil {
		b.Fatalf("failed to open store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			b.Fatalf("failed to close store: %v", err)
		}
	}()

	ctx := context.Background()
	owner, err := store.CreateOwner(ctx)
	if err != nil {
		b.Fatalf("failed to create owner: %v", err)
	}
	ns, _ := store.Namespace(ctx, owner)

	err = ns.Update(ctx, func(tx ports.NamespaceTx) error {
		for i := range width {
			f := &domain.Folder{Node: domain.Node{Name: fmt.Sprintf("f%d", i), Token: domain.NewToken(), Index: i}}
			if err := tx.InsertFolder(f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		b.Fatalf("failed to seed: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		err := ns.Update(ctx, func(tx ports.NamespaceTx) error {
			siblings, err := tx.Children(nil)
			if err != nil {
				return err
			}
			shifts, err := domain.PlanReorder(siblings, siblings[0].Ref(), width-1)
			if err != nil {
				return err
			}
			for _, s := range shifts {
				if err := tx.SetIndex(s.Ref, s.To); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			b.Fatalf("reorder failed: %v", err)
		}
	}
}
