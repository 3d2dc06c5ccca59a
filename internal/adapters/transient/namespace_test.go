package transient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

func TestNamespace_UpdatePersistsOnSuccess(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	ns := New(slot, JSONCodec{})

	err := ns.Update(ctx, func(tx ports.NamespaceTx) error {
		return tx.InsertFolder(&domain.Folder{Node: domain.Node{Name: "A", Token: "ta"}})
	})
	require.NoError(t, err)

	data, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"A"`)

	tree, err := ns.Load(ctx)
	require.NoError(t, err)
	f, ok := tree.Folder(0)
	require.True(t, ok)
	assert.False(t, f.CreatedAt.IsZero())
}

func TestNamespace_UpdateDiscardsOnError(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	ns := New(slot, JSONCodec{})

	boom := errors.New("boom")
	err := ns.Update(ctx, func(tx ports.NamespaceTx) error {
		if err := tx.InsertFolder(&domain.Folder{Node: domain.Node{Name: "A", Token: "ta"}}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	data, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestNamespace_UpdateRefusesBrokenOrdering(t *testing.T) {
	ctx := context.Background()
	ns := New(NewMemorySlot(), JSONCodec{})

	err := ns.Update(ctx, func(tx ports.NamespaceTx) error {
		return tx.InsertFolder(&domain.Folder{Node: domain.Node{Name: "A", Token: "ta", Index: 3}})
	})
	assert.ErrorIs(t, err, domain.ErrStorageFailure)

	tree, err := ns.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Len())
}

func TestNamespace_ViewIsReadOnly(t *testing.T) {
	ns := New(NewMemorySlot(), JSONCodec{})
	err := ns.View(context.Background(), func(tx ports.NamespaceTx) error {
		return tx.InsertRoom(&domain.Room{Name: "r"})
	})
	assert.Error(t, err)
}

func TestNamespace_CanvasUnsupported(t *testing.T) {
	ns := New(NewMemorySlot(), JSONCodec{})
	err := ns.Update(context.Background(), func(tx ports.NamespaceTx) error {
		return tx.StoreCanvas(&domain.Note{}, []byte("x"))
	})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestNamespace_Drain(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	ns := New(slot, JSONCodec{})
	require.NoError(t, ns.Update(ctx, func(tx ports.NamespaceTx) error {
		return tx.InsertFolder(&domain.Folder{Node: domain.Node{Name: "A", Token: "ta"}})
	}))

	boom := errors.New("boom")
	err := ns.Drain(ctx, func(tree *domain.Tree) error {
		assert.Equal(t, 1, tree.Len())
		return boom
	})
	assert.ErrorIs(t, err, boom)
	data, _ := slot.Load(ctx)
	assert.NotNil(t, data, "failed drain must leave the snapshot")

	require.NoError(t, ns.Drain(ctx, func(*domain.Tree) error { return nil }))
	data, _ = slot.Load(ctx)
	assert.Nil(t, data)
}

func TestMemorySlot_LockHonoursContext(t *testing.T) {
	slot := NewMemorySlot()
	unlock, err := slot.Lock(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = slot.Lock(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	again, err := slot.Lock(context.Background())
	require.NoError(t, err)
	again()
}
