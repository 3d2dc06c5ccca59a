package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

// Namespace implements ports.Namespace for one owner
type Namespace struct {
	store *Store
	owner domain.Owner
}

// Ensure Namespace implements Namespace
var _ ports.Namespace = (*Namespace)(nil)

// Owner returns the owner the namespace is bound to
func (ns *Namespace) Owner() domain.Owner {
	return ns.owner
}

// Update runs fn inside BEGIN IMMEDIATE, so concurrent writers of the same
// database serialize. Sibling sets touched by fn are re-checked before
// commit; content written by a rolled back unit is deleted again.
func (ns *Namespace) Update(ctx context.Context, fn func(tx ports.NamespaceTx) error) error {
	conn, err := ns.store.db.Conn(ctx)
	if err != nil {
		return mapError("acquire connection", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return mapError("begin", err)
	}
	t := newTx(ctx, ns, conn)

	// every exit short of a commit rolls back, panics included
	committed := false
	defer func() {
		if committed {
			return
		}
		if _, err := conn.ExecContext(context.WithoutCancel(ctx), "ROLLBACK"); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("rollback failed")
		}
		t.discardWritten()
	}()

	if err := fn(t); err != nil {
		return mapError("update", err)
	}
	if err := t.verifyTouched(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return mapError("commit", err)
	}
	committed = true
	t.releaseAfterCommit()
	return nil
}

// View runs fn inside a deferred read transaction
func (ns *Namespace) View(ctx context.Context, fn func(tx ports.NamespaceTx) error) error {
	sqlTx, err := ns.store.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return mapError("begin read", err)
	}
	defer sqlTx.Rollback()

	t := newTx(ctx, ns, sqlTx)
	t.readOnly = true
	if err := fn(t); err != nil {
		return mapError("view", err)
	}
	return nil
}

func (t *namespaceTx) verifyTouched() error {
	for key := range t.touched {
		siblings, err := t.children(domain.ParentPtr(key))
		if err != nil {
			return mapError("verify", err)
		}
		if err := domain.VerifyDense(siblings); err != nil {
			return fmt.Errorf("sibling order under %d changed underneath: %v: %w", key, err, domain.ErrConflictRetryable)
		}
	}
	return nil
}
