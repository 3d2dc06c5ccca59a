package transient

import (
	"context"

	"github.com/rs/zerolog"

	"noteboard/internal/domain"
	"noteboard/internal/metrics"
	"noteboard/internal/ports"
)

// Namespace is the tree of an actor without durable identity. Every unit
// of work reconstructs the tree from the slot and, when it changed,
// flattens it back.
type Namespace struct {
	slot  ports.SnapshotSlot
	codec Codec
}

// Ensure Namespace implements Promotable
var _ ports.Promotable = (*Namespace)(nil)

// New creates a transient namespace over slot
func New(slot ports.SnapshotSlot, codec Codec) *Namespace {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &Namespace{slot: slot, codec: codec}
}

// Owner is always empty for a transient namespace
func (ns *Namespace) Owner() domain.Owner {
	return ""
}

// Load reconstructs the current tree. An empty slot yields an empty tree.
func (ns *Namespace) Load(ctx context.Context) (*domain.Tree, error) {
	data, err := ns.slot.Load(ctx)
	if err != nil {
		return nil, &domain.StorageError{Op: "load snapshot", Err: err}
	}
	if len(data) == 0 {
		return domain.NewTree(), nil
	}
	snap, err := ns.codec.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return snap.Tree()
}

func (ns *Namespace) save(ctx context.Context, tree *domain.Tree) error {
	if err := tree.Verify(); err != nil {
		return &domain.StorageError{Op: "verify snapshot", Err: err}
	}
	data, err := ns.codec.Marshal(FromTree(tree))
	if err != nil {
		return &domain.StorageError{Op: "encode snapshot", Err: err}
	}
	// a caller that gave up must not see its half-finished work saved
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ns.slot.Save(ctx, data); err != nil {
		return &domain.StorageError{Op: "save snapshot", Err: err}
	}
	metrics.SnapshotBytes.WithLabelValues(ns.codec.Name()).Observe(float64(len(data)))
	zerolog.Ctx(ctx).Debug().Int("bytes", len(data)).Str("codec", ns.codec.Name()).Msg("snapshot saved")
	return nil
}

// Update implements ports.Namespace
func (ns *Namespace) Update(ctx context.Context, fn func(tx ports.NamespaceTx) error) error {
	unlock, err := ns.slot.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	tree, err := ns.Load(ctx)
	if err != nil {
		return err
	}
	tx := &namespaceTx{tree: tree}
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty {
		return nil
	}
	return ns.save(ctx, tree)
}

// View implements ports.Namespace
func (ns *Namespace) View(ctx context.Context, fn func(tx ports.NamespaceTx) error) error {
	tree, err := ns.Load(ctx)
	if err != nil {
		return err
	}
	return fn(&namespaceTx{tree: tree, readOnly: true})
}

// Drain implements ports.Promotable. The slot stays locked while fn runs
// and is cleared only when fn succeeds.
func (ns *Namespace) Drain(ctx context.Context, fn func(tree *domain.Tree) error) error {
	unlock, err := ns.slot.Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	tree, err := ns.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(tree); err != nil {
		return err
	}
	if err := ns.slot.Clear(ctx); err != nil {
		return &domain.StorageError{Op: "clear snapshot", Err: err}
	}
	return nil
}
