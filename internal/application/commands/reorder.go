package commands

import (
	"context"
	"errors"
	"fmt"

	"noteboard/internal/application"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// ReorderResult contains the result of a reorder operation
type ReorderResult struct {
	Ref     domain.Ref
	From    int
	To      int
	Shifted int
	Message string
}

// ReorderCommand moves a resource to another index under the same parent
type ReorderCommand struct {
	ns          ports.Namespace
	Target      domain.Locator
	Destination int
}

// NewReorderCommand creates a new ReorderCommand
func NewReorderCommand(ns ports.Namespace, target domain.Locator, destination int) *ReorderCommand {
	return &ReorderCommand{
		ns:          ns,
		Target:      target,
		Destination: destination,
	}
}

// Validate checks if the reorder operation is valid
func (c *ReorderCommand) Validate() error {
	if c.Target.IsZero() {
		return &application.ValidationError{Field: "resource", Message: "resource is required"}
	}
	return nil
}

// Execute runs the reorder command
func (c *ReorderCommand) Execute(ctx context.Context) (*ReorderResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var result ReorderResult
	err := update(ctx, c.ns, "reorder", func(tx ports.NamespaceTx) error {
		if err := requireWriter(tx); err != nil {
			return err
		}
		r, err := locate(tx, c.Target)
		if err != nil {
			return err
		}
		siblings, err := tx.Children(r.ParentID)
		if err != nil {
			return err
		}

		shifts, err := domain.PlanReorder(siblings, r.Ref(), c.Destination)
		if errors.Is(err, domain.ErrInvalidDestination) {
			return &application.MoveError{
				Source:      r.Ref().String(),
				Destination: fmt.Sprintf("index %d", c.Destination),
				Reason:      fmt.Sprintf("parent has %d children", len(siblings)),
				Err:         err,
			}
		}
		if err != nil {
			return err
		}
		if err := applyShifts(tx, shifts); err != nil {
			return err
		}

		result = ReorderResult{Ref: r.Ref(), From: r.Index, To: c.Destination, Shifted: max(len(shifts)-1, 0)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reorder: %w", err)
	}

	if result.From == result.To {
		result.Message = fmt.Sprintf("%s already at index %d", result.Ref, result.To)
	} else {
		result.Message = fmt.Sprintf("Moved %s from index %d to %d", result.Ref, result.From, result.To)
	}
	return &result, nil
}
