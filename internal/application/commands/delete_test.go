package commands

import (
	"context"
	"errors"
	"testing"

	"noteboard/internal/domain"
)

func TestDelete_ReindexesSiblings(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			a := mkdir(t, b.ns, domain.Locator{}, "A")
			mkdir(t, b.ns, domain.Locator{}, "B")
			note := touch(t, b.ns, domain.Locator{}, "")
			if note.Name != "Note1" || note.Index != 2 {
				t.Fatalf("expected Note1 at index 2, got %s at %d", note.Name, note.Index)
			}

			res, err := NewDeleteCommand(b.ns, at(a.Token)).Execute(context.Background())
			if err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			if !res.Deleted || res.Removed != 1 {
				t.Errorf("expected one removal, got %+v", res)
			}

			idx := indexOf(list(t, b.ns, domain.Locator{}))
			if len(idx) != 2 || idx["B"] != 0 || idx["Note1"] != 1 {
				t.Errorf("expected B=0 Note1=1, got %v", idx)
			}
		})
	}
}

func TestDelete_CascadesPostOrder(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			top := mkdir(t, b.ns, domain.Locator{}, "top")
			keep := mkdir(t, b.ns, domain.Locator{}, "keep")
			mid := mkdir(t, b.ns, at(top.Token), "mid")
			touch(t, b.ns, at(top.Token), "n1")
			touch(t, b.ns, at(mid.Token), "n2")
			mkdir(t, b.ns, at(mid.Token), "leaf")

			res, err := NewDeleteCommand(b.ns, at(top.Token)).Execute(ctx)
			if err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			if res.Removed != 5 {
				t.Errorf("expected 5 removed, got %d", res.Removed)
			}

			root := list(t, b.ns, domain.Locator{})
			if len(root) != 1 || root[0].Token != keep.Token || root[0].Index != 0 {
				t.Errorf("expected only keep at index 0, got %v", names(root))
			}

			// every descendant token is gone
			_, err = NewAncestorsCommand(b.ns, at(mid.Token)).Execute(ctx)
			if !errors.Is(err, domain.ErrNotFound) {
				t.Errorf("expected descendant to be gone, got %v", err)
			}
			assertDense(t, b.ns)
		})
	}
}

func TestDelete_Unknown(t *testing.T) {
	ctx := context.Background()

	tr, _ := newTransient()
	res, err := NewDeleteCommand(tr, at("missing")).Execute(ctx)
	if err != nil {
		t.Fatalf("transient delete of unknown resource should succeed, got %v", err)
	}
	if res.Deleted {
		t.Error("expected nothing to be deleted")
	}

	durable := newDurable(t, newStore(t, newMemContent()))
	if _, err := NewDeleteCommand(durable, at("missing")).Execute(ctx); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("durable delete of unknown resource should be NotFound, got %v", err)
	}
}

func TestDelete_ReleasesContent(t *testing.T) {
	content := newMemContent()
	ns := newDurable(t, newStore(t, content))
	ctx := context.Background()

	n := touch(t, ns, domain.Locator{}, "n")
	if _, err := NewSaveTextCommand(ns, at(n.Token), "hello").Execute(ctx); err != nil {
		t.Fatalf("save text: %v", err)
	}
	if _, err := NewSaveCanvasCommand(ns, at(n.Token), []byte("{}")).Execute(ctx); err != nil {
		t.Fatalf("save canvas: %v", err)
	}
	if content.Len() != 2 {
		t.Fatalf("expected 2 blobs, got %d", content.Len())
	}

	if _, err := NewDeleteCommand(ns, at(n.Token)).Execute(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if content.Len() != 0 {
		t.Errorf("expected blobs to be released, %d left", content.Len())
	}
}

func TestDeleteCommand_Validate(t *testing.T) {
	err := (&DeleteCommand{}).Validate()
	if err == nil || !contains(err.Error(), "resource is required") {
		t.Errorf("expected resource is required, got %v", err)
	}
}
