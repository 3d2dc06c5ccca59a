package commands

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"noteboard/internal/application"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// Sort orders accepted by ListChildrenCommand
const (
	OrderByIndex   = "index"
	OrderByName    = "name"
	OrderByCreated = "created"
)

// ListChildrenCommand lists the direct children of a folder (or the root)
type ListChildrenCommand struct {
	ns      ports.Namespace
	Parent  domain.Locator
	OrderBy string `validate:"omitempty,oneof=index name created" field:"orderBy"`
	Reverse bool
}

// NewListChildrenCommand creates a new ListChildrenCommand
func NewListChildrenCommand(ns ports.Namespace, parent domain.Locator, orderBy string) *ListChildrenCommand {
	return &ListChildrenCommand{
		ns:      ns,
		Parent:  parent,
		OrderBy: orderBy,
	}
}

// Validate checks the sort order
func (c *ListChildrenCommand) Validate() error {
	return application.ValidateStruct(c)
}

// Execute runs the list children command
func (c *ListChildrenCommand) Execute(ctx context.Context) ([]domain.Resource, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var children []domain.Resource
	err := view(ctx, c.ns, "list_children", func(tx ports.NamespaceTx) error {
		parent, err := locateParent(tx, c.Parent)
		if err != nil {
			return err
		}
		children, err = tx.Children(parent)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}

	SortResources(children, c.OrderBy, c.Reverse)
	return children, nil
}

// SortResources orders resources by index, name or creation time.
func SortResources(rs []domain.Resource, orderBy string, reverse bool) {
	var compare func(a, b domain.Resource) int
	switch orderBy {
	case OrderByName:
		compare = func(a, b domain.Resource) int {
			return cmp.Or(
				cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
				cmp.Compare(a.Index, b.Index),
			)
		}
	case OrderByCreated:
		compare = func(a, b domain.Resource) int {
			return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.Index, b.Index))
		}
	default:
		compare = func(a, b domain.Resource) int {
			return cmp.Compare(a.Index, b.Index)
		}
	}

	slices.SortStableFunc(rs, compare)
	if reverse {
		slices.Reverse(rs)
	}
}

// AncestorsCommand returns the folders above a resource, root first
type AncestorsCommand struct {
	ns     ports.Namespace
	Target domain.Locator
}

// NewAncestorsCommand creates a new AncestorsCommand
func NewAncestorsCommand(ns ports.Namespace, target domain.Locator) *AncestorsCommand {
	return &AncestorsCommand{ns: ns, Target: target}
}

// Execute runs the ancestor chain command
func (c *AncestorsCommand) Execute(ctx context.Context) ([]*domain.Folder, error) {
	var chain []*domain.Folder
	err := view(ctx, c.ns, "ancestor_chain", func(tx ports.NamespaceTx) error {
		r, err := locate(tx, c.Target)
		if err != nil {
			return err
		}
		chain, err = ancestors(tx, r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ancestors: %w", err)
	}
	return chain, nil
}

func ancestors(tx ports.NamespaceTx, r domain.Resource) ([]*domain.Folder, error) {
	var chain []*domain.Folder
	seen := make(map[int64]bool)
	for p := r.ParentID; p != nil; {
		if seen[*p] {
			return nil, fmt.Errorf("%w: folder %d is its own ancestor", domain.ErrCycleDetected, *p)
		}
		seen[*p] = true
		f, err := tx.Folder(*p)
		if err != nil {
			return nil, err
		}
		chain = append(chain, f)
		p = f.ParentID
	}
	slices.Reverse(chain)
	return chain, nil
}

// TreeCommand builds the actor's whole tree for display
type TreeCommand struct {
	ns ports.Namespace
}

// NewTreeCommand creates a new TreeCommand
func NewTreeCommand(ns ports.Namespace) *TreeCommand {
	return &TreeCommand{ns: ns}
}

// Execute runs the tree command. The returned root is expanded.
func (c *TreeCommand) Execute(ctx context.Context) (*domain.TreeNode, error) {
	var root *domain.TreeNode
	err := view(ctx, c.ns, "tree", func(tx ports.NamespaceTx) error {
		root = &domain.TreeNode{IsExpanded: true}
		queue := []*domain.TreeNode{root}
		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]

			var parent *int64
			if !node.IsRootNode() {
				if node.Kind != domain.KindFolder {
					continue
				}
				id := node.ID
				parent = &id
			}
			children, err := tx.Children(parent)
			if err != nil {
				return err
			}
			for _, child := range children {
				cn := &domain.TreeNode{Resource: child, Parent: node}
				node.Children = append(node.Children, cn)
				queue = append(queue, cn)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}
	return root, nil
}
