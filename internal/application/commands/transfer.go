package commands

import (
	"context"
	"errors"
	"fmt"

	"noteboard/internal/application"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// TransferResult contains the result of a transfer operation
type TransferResult struct {
	Ref       domain.Ref
	OldParent *int64
	NewParent *int64
	Index     int
	Message   string
}

// TransferCommand moves a resource under another parent, appending it last
type TransferCommand struct {
	ns          ports.Namespace
	Target      domain.Locator
	Destination domain.Locator
}

// NewTransferCommand creates a new TransferCommand. The zero destination is the root.
func NewTransferCommand(ns ports.Namespace, target, destination domain.Locator) *TransferCommand {
	return &TransferCommand{
		ns:          ns,
		Target:      target,
		Destination: destination,
	}
}

// Validate checks if the transfer operation is valid
func (c *TransferCommand) Validate() error {
	if c.Target.IsZero() {
		return &application.ValidationError{Field: "resource", Message: "resource is required"}
	}
	return nil
}

// Execute runs the transfer command
func (c *TransferCommand) Execute(ctx context.Context) (*TransferResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var result TransferResult
	err := update(ctx, c.ns, "transfer", func(tx ports.NamespaceTx) error {
		if err := requireWriter(tx); err != nil {
			return err
		}
		r, err := locate(tx, c.Target)
		if err != nil {
			return err
		}
		dest, err := c.destination(tx, r)
		if err != nil {
			return err
		}

		if err := closeGap(tx, r.ParentID, r.Index); err != nil {
			return err
		}
		siblings, err := tx.Children(dest)
		if err != nil {
			return err
		}
		index := 0
		for _, s := range siblings {
			if s.Ref() != r.Ref() {
				index++
			}
		}
		if err := tx.Move(r.Ref(), dest, index); err != nil {
			return err
		}

		result = TransferResult{Ref: r.Ref(), OldParent: r.ParentID, NewParent: dest, Index: index}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to transfer: %w", err)
	}

	result.Message = fmt.Sprintf("Moved %s to %s at index %d", result.Ref, parentLabel(result.NewParent), result.Index)
	return &result, nil
}

// destination resolves the target parent and rejects moves into the
// resource's own subtree.
func (c *TransferCommand) destination(tx ports.NamespaceTx, r domain.Resource) (*int64, error) {
	dest, err := locateParent(tx, c.Destination)
	if err != nil {
		var valErr *application.ValidationError
		if errors.As(err, &valErr) && valErr.Field == "parent" {
			return nil, &application.MoveError{
				Source:      r.Ref().String(),
				Destination: c.Destination.String(),
				Reason:      valErr.Message,
				Err:         domain.ErrInvalidDestination,
			}
		}
		return nil, err
	}
	if dest == nil || r.Kind != domain.KindFolder {
		return dest, nil
	}

	seen := make(map[int64]bool)
	for cur := dest; cur != nil; {
		if *cur == r.ID {
			return nil, &application.MoveError{
				Source:      r.Ref().String(),
				Destination: fmt.Sprintf("folder:%d", *dest),
				Reason:      "destination is inside the folder being moved",
				Err:         domain.ErrCycleDetected,
			}
		}
		if seen[*cur] {
			return nil, fmt.Errorf("%w: folder %d is its own ancestor", domain.ErrCycleDetected, *cur)
		}
		seen[*cur] = true
		f, err := tx.Folder(*cur)
		if err != nil {
			return nil, err
		}
		cur = f.ParentID
	}
	return dest, nil
}

func parentLabel(p *int64) string {
	if p == nil {
		return "root"
	}
	return fmt.Sprintf("folder:%d", *p)
}
