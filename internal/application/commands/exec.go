package commands

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"noteboard/internal/application"
	"noteboard/internal/domain"
	"noteboard/internal/metrics"
	"noteboard/internal/ports"
)

// Retry is the policy every command applies to conflicting updates.
var Retry = application.DefaultRetryPolicy()

func namespaceLabel(ns ports.Namespace) string {
	if ns.Owner().IsTransient() {
		return "transient"
	}
	return "durable"
}

// update runs fn as one retried unit of work. fn may run more than once,
// so it must not keep state across calls.
func update(ctx context.Context, ns ports.Namespace, op string, fn func(tx ports.NamespaceTx) error) error {
	start := time.Now()
	err := Retry.Do(ctx, op, func(ctx context.Context) error {
		return ns.Update(ctx, fn)
	})
	observe(ctx, ns, op, start, err)
	return err
}

// view is the read-only counterpart of update.
func view(ctx context.Context, ns ports.Namespace, op string, fn func(tx ports.NamespaceTx) error) error {
	start := time.Now()
	err := Retry.Do(ctx, op, func(ctx context.Context) error {
		return ns.View(ctx, fn)
	})
	observe(ctx, ns, op, start, err)
	return err
}

func observe(ctx context.Context, ns ports.Namespace, op string, start time.Time, err error) {
	outcome := application.ErrorKind(err)
	metrics.ObserveOperation(op, namespaceLabel(ns), outcome, start)

	event := zerolog.Ctx(ctx).Debug()
	if err != nil {
		event = zerolog.Ctx(ctx).Info().Err(err)
	}
	event.Str("operation", op).
		Str("namespace", namespaceLabel(ns)).
		Str("outcome", outcome).
		Dur("took", time.Since(start)).
		Msg("operation finished")
}

func applyShifts(tx ports.NamespaceTx, shifts []domain.Shift) error {
	for _, sh := range shifts {
		if err := tx.SetIndex(sh.Ref, sh.To); err != nil {
			return err
		}
	}
	return nil
}
