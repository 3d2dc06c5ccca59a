package commands

import (
	"context"
	"errors"
	"fmt"

	"noteboard/internal/application"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	Ref     domain.Ref
	Deleted bool
	// Removed counts the folders and notes removed, the target included
	Removed int
	Message string
}

// DeleteCommand removes a resource with everything below it and closes the
// gap among its former siblings
type DeleteCommand struct {
	ns     ports.Namespace
	Target domain.Locator
}

// NewDeleteCommand creates a new DeleteCommand
func NewDeleteCommand(ns ports.Namespace, target domain.Locator) *DeleteCommand {
	return &DeleteCommand{
		ns:     ns,
		Target: target,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteCommand) Validate() error {
	if c.Target.IsZero() {
		return &application.ValidationError{Field: "resource", Message: "resource is required"}
	}
	return nil
}

// Execute runs the delete command. An unknown resource is a no-op in the
// transient namespace and NotFound in the durable one.
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var result DeleteResult
	err := update(ctx, c.ns, "delete", func(tx ports.NamespaceTx) error {
		result = DeleteResult{}
		if err := requireWriter(tx); err != nil {
			return err
		}
		r, err := locate(tx, c.Target)
		if errors.Is(err, domain.ErrNotFound) && !tx.Durable() {
			return nil
		}
		if err != nil {
			return err
		}

		removed, err := deleteSubtree(tx, r)
		if err != nil {
			return err
		}
		if err := closeGap(tx, r.ParentID, r.Index); err != nil {
			return err
		}
		result = DeleteResult{Ref: r.Ref(), Deleted: true, Removed: removed}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", c.Target, err)
	}

	if result.Deleted {
		result.Message = fmt.Sprintf("Deleted %s (%d removed)", result.Ref, result.Removed)
	} else {
		result.Message = fmt.Sprintf("Nothing to delete at %s", c.Target)
	}
	return &result, nil
}

// deleteSubtree removes root and its descendants in post-order: every
// child is gone before its folder is.
func deleteSubtree(tx ports.NamespaceTx, root domain.Resource) (int, error) {
	type frame struct {
		res      domain.Resource
		expanded bool
	}

	stack := []frame{{res: root}}
	removed := 0
	for len(stack) > 0 {
		top := len(stack) - 1
		if stack[top].res.Kind == domain.KindFolder && !stack[top].expanded {
			stack[top].expanded = true
			id := stack[top].res.ID
			children, err := tx.Children(&id)
			if err != nil {
				return removed, err
			}
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, frame{res: children[i]})
			}
			continue
		}

		res := stack[top].res
		stack = stack[:top]
		if err := deleteOne(tx, res); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func deleteOne(tx ports.NamespaceTx, r domain.Resource) error {
	if r.Kind == domain.KindFolder {
		return tx.DeleteFolder(r.ID)
	}

	n, err := tx.Note(r.ID)
	if err != nil {
		return err
	}
	if err := tx.ReleaseContent(n); err != nil {
		return err
	}
	if err := tx.DeleteNote(n.ID); err != nil {
		return err
	}
	if n.RoomID != nil {
		if err := tx.DeleteRoom(*n.RoomID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	return nil
}

// closeGap shifts down every remaining child of parent above removed.
func closeGap(tx ports.NamespaceTx, parent *int64, removed int) error {
	siblings, err := tx.Children(parent)
	if err != nil {
		return err
	}
	return applyShifts(tx, domain.PlanCloseGap(siblings, removed))
}
