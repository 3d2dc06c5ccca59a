package application

import (
	"errors"
	"fmt"

	"noteboard/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound           = domain.ErrNotFound
	ErrValidation         = domain.ErrValidation
	ErrInvalidDestination = domain.ErrInvalidDestination
	ErrCycleDetected      = domain.ErrCycleDetected
	ErrPermissionDenied   = domain.ErrPermissionDenied
	ErrConflictRetryable  = domain.ErrConflictRetryable
	ErrStorageFailure     = domain.ErrStorageFailure
	ErrNothingToPromote   = fmt.Errorf("nothing to promote: %w", domain.ErrNotFound)
)

// ValidationError represents a validation failure with details
type ValidationError = domain.ValidationError

// MoveError represents a rejected reorder or transfer
type MoveError struct {
	Source      string
	Destination string
	Reason      string
	Err         error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("cannot move %s to %s: %s", e.Source, e.Destination, e.Reason)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

// PermissionError names the resource the actor may not touch
type PermissionError struct {
	Resource string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Resource, e.Reason)
}

func (e *PermissionError) Is(target error) bool {
	return target == ErrPermissionDenied
}

// IsRetryable reports whether the whole operation may be retried
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflictRetryable)
}

// ErrorKind returns the taxonomy name of err, used for metrics and tool output.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrInvalidDestination):
		return "invalid_destination"
	case errors.Is(err, ErrCycleDetected):
		return "cycle_detected"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, ErrConflictRetryable):
		return "conflict"
	case errors.Is(err, ErrStorageFailure):
		return "storage"
	default:
		return "internal"
	}
}
