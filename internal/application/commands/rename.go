package commands

import (
	"context"
	"fmt"

	"noteboard/internal/application"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// RenameResult contains the result of a rename operation
type RenameResult struct {
	Ref     domain.Ref
	OldName string
	NewName string
	Message string
}

// RenameCommand renames a folder or note; ordering is unaffected
type RenameCommand struct {
	ns     ports.Namespace
	Target domain.Locator
	Name   string
}

// NewRenameCommand creates a new RenameCommand
func NewRenameCommand(ns ports.Namespace, target domain.Locator, name string) *RenameCommand {
	return &RenameCommand{
		ns:     ns,
		Target: target,
		Name:   name,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameCommand) Validate() error {
	if c.Target.IsZero() {
		return &application.ValidationError{Field: "resource", Message: "resource is required"}
	}
	return application.ValidateRequired("name", c.Name)
}

// Execute runs the rename command
func (c *RenameCommand) Execute(ctx context.Context) (*RenameResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var result RenameResult
	err := update(ctx, c.ns, "rename", func(tx ports.NamespaceTx) error {
		if err := requireWriter(tx); err != nil {
			return err
		}
		r, err := locate(tx, c.Target)
		if err != nil {
			return err
		}
		name, err := application.ValidateName(r.Kind, c.Name)
		if err != nil {
			return err
		}
		if err := tx.Rename(r.Ref(), name); err != nil {
			return err
		}
		result = RenameResult{Ref: r.Ref(), OldName: r.Name, NewName: name}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rename: %w", err)
	}

	result.Message = fmt.Sprintf("Renamed %s to %s", result.OldName, result.NewName)
	return &result, nil
}
