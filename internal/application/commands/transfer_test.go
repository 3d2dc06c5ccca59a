package commands

import (
	"context"
	"errors"
	"testing"

	"noteboard/internal/domain"
)

func TestTransfer_ClosesGap(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			src := mkdir(t, b.ns, domain.Locator{}, "src")
			dst := mkdir(t, b.ns, domain.Locator{}, "dst")
			touch(t, b.ns, at(src.Token), "n0")
			moved := touch(t, b.ns, at(src.Token), "n1")
			touch(t, b.ns, at(src.Token), "n2")
			touch(t, b.ns, at(dst.Token), "d0")

			res, err := NewTransferCommand(b.ns, at(moved.Token), at(dst.Token)).Execute(context.Background())
			if err != nil {
				t.Fatalf("transfer failed: %v", err)
			}
			if res.Index != 1 || res.NewParent == nil || *res.NewParent != dst.ID {
				t.Errorf("unexpected result %+v", res)
			}

			left := indexOf(list(t, b.ns, at(src.Token)))
			if len(left) != 2 || left["n0"] != 0 || left["n2"] != 1 {
				t.Errorf("expected n0=0 n2=1 in source, got %v", left)
			}
			arrived := indexOf(list(t, b.ns, at(dst.Token)))
			if arrived["d0"] != 0 || arrived["n1"] != 1 {
				t.Errorf("expected d0=0 n1=1 in destination, got %v", arrived)
			}
			assertDense(t, b.ns)
		})
	}
}

func TestTransfer_ToRootAndSameParent(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			f := mkdir(t, b.ns, domain.Locator{}, "f")
			inner := touch(t, b.ns, at(f.Token), "inner")
			first := touch(t, b.ns, domain.Locator{}, "first")
			touch(t, b.ns, domain.Locator{}, "last")

			res, err := NewTransferCommand(b.ns, at(inner.Token), domain.Locator{}).Execute(ctx)
			if err != nil {
				t.Fatalf("transfer to root failed: %v", err)
			}
			if res.NewParent != nil || res.Index != 3 {
				t.Errorf("expected root index 3, got %+v", res)
			}

			// transferring into the current parent moves to the end
			if _, err := NewTransferCommand(b.ns, at(first.Token), domain.Locator{}).Execute(ctx); err != nil {
				t.Fatalf("same parent transfer failed: %v", err)
			}
			got := names(list(t, b.ns, domain.Locator{}))
			want := []string{"f", "last", "inner", "first"}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("expected %v, got %v", want, got)
				}
			}
			if len(list(t, b.ns, at(f.Token))) != 0 {
				t.Error("expected folder to be empty")
			}
			assertDense(t, b.ns)
		})
	}
}

func TestTransfer_RejectsCycles(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			outer := mkdir(t, b.ns, domain.Locator{}, "outer")
			middle := mkdir(t, b.ns, at(outer.Token), "middle")
			inner := mkdir(t, b.ns, at(middle.Token), "inner")

			before, err := NewTreeCommand(b.ns).Execute(ctx)
			if err != nil {
				t.Fatalf("tree: %v", err)
			}

			for _, dest := range []string{inner.Token, middle.Token, outer.Token} {
				_, err := NewTransferCommand(b.ns, at(outer.Token), at(dest)).Execute(ctx)
				if !errors.Is(err, domain.ErrCycleDetected) {
					t.Errorf("expected cycle error moving into %s, got %v", dest, err)
				}
			}

			after, err := NewTreeCommand(b.ns).Execute(ctx)
			if err != nil {
				t.Fatalf("tree: %v", err)
			}
			var beforeNodes, afterNodes []domain.Resource
			before.Walk(func(n *domain.TreeNode) { beforeNodes = append(beforeNodes, n.Resource) })
			after.Walk(func(n *domain.TreeNode) { afterNodes = append(afterNodes, n.Resource) })
			if len(beforeNodes) != len(afterNodes) {
				t.Fatalf("tree changed size: %d -> %d", len(beforeNodes), len(afterNodes))
			}
			for i := range beforeNodes {
				bn, an := beforeNodes[i], afterNodes[i]
				if bn.Ref() != an.Ref() || bn.Index != an.Index || !domain.SameParent(bn.ParentID, an.ParentID) {
					t.Errorf("node %d changed: %+v -> %+v", i, bn, an)
				}
			}
		})
	}
}

func TestTransfer_NoteDestination(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			f := mkdir(t, b.ns, domain.Locator{}, "f")
			n := touch(t, b.ns, domain.Locator{}, "n")

			_, err := NewTransferCommand(b.ns, at(f.Token), at(n.Token)).Execute(context.Background())
			if !errors.Is(err, domain.ErrInvalidDestination) {
				t.Errorf("expected invalid destination, got %v", err)
			}
		})
	}
}
