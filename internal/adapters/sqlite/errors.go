package sqlite

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"noteboard/internal/domain"
)

// mapError translates driver errors into the domain taxonomy. Errors that
// did not come from the driver pass through unchanged.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch {
	case sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked:
		return fmt.Errorf("%s: %w", op, domain.ErrConflictRetryable)
	case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique:
		return &domain.ValidationError{Field: "token", Message: fmt.Sprintf("%s: %v", op, sqliteErr)}
	default:
		return &domain.StorageError{Op: op, Err: err}
	}
}
