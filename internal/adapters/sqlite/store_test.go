package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noteboard/internal/adapters/filesystem"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

func setupStore(t *testing.T) (*Store, *filesystem.ContentStore) {
	t.Helper()

	dir := t.TempDir()
	content := filesystem.NewContentStore(filepath.Join(dir, "content"))
	store := NewStore(content)
	require.NoError(t, store.Open(filepath.Join(dir, "noteboard.db")))
	t.Cleanup(func() { store.Close() })
	return store, content
}

func setupNamespace(t *testing.T) (*Namespace, *filesystem.ContentStore) {
	t.Helper()

	store, content := setupStore(t)
	ctx := context.Background()
	owner, err := store.CreateOwner(ctx)
	require.NoError(t, err)
	ns, err := store.Namespace(ctx, owner)
	require.NoError(t, err)
	return ns, content
}

func insertFolder(t *testing.T, ns *Namespace, name string, parent *int64, index int) *domain.Folder {
	t.Helper()

	f := &domain.Folder{Node: domain.Node{Name: name, Token: domain.NewToken(), ParentID: parent, Index: index}}
	err := ns.Update(context.Background(), func(tx ports.NamespaceTx) error {
		return tx.InsertFolder(f)
	})
	require.NoError(t, err)
	return f
}

func TestStore_Owners(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	owner, err := store.CreateOwner(ctx)
	require.NoError(t, err)
	assert.False(t, owner.IsTransient())

	ok, err := store.OwnerExists(ctx, owner)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = store.Namespace(ctx, domain.Owner("nobody"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	guest, err := store.Namespace(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, domain.Owner(""), guest.Owner())
}

func TestNamespace_InsertAndChildren(t *testing.T) {
	ns, _ := setupNamespace(t)
	ctx := context.Background()

	a := insertFolder(t, ns, "a", nil, 0)
	b := insertFolder(t, ns, "b", nil, 1)
	child := insertFolder(t, ns, "child", &a.ID, 0)

	assert.Equal(t, int64(1), a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	err := ns.View(ctx, func(tx ports.NamespaceTx) error {
		root, err := tx.Children(nil)
		require.NoError(t, err)
		require.Len(t, root, 2)
		assert.Equal(t, a.ID, root[0].ID)
		assert.Equal(t, b.ID, root[1].ID)

		inner, err := tx.Children(&a.ID)
		require.NoError(t, err)
		require.Len(t, inner, 1)
		assert.Equal(t, child.ID, inner[0].ID)

		got, err := tx.Folder(child.ID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, *got.ParentID)
		assert.Equal(t, ns.Owner(), got.Owner)

		byToken, err := tx.ByToken(b.Token)
		require.NoError(t, err)
		assert.Equal(t, domain.KindFolder, byToken.Kind)
		assert.Equal(t, b.ID, byToken.ID)

		missing := int64(99)
		_, err = tx.Children(&missing)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestNamespace_RootIsScopedToOwner(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	first, err := store.CreateOwner(ctx)
	require.NoError(t, err)
	second, err := store.CreateOwner(ctx)
	require.NoError(t, err)

	nsFirst, _ := store.Namespace(ctx, first)
	nsSecond, _ := store.Namespace(ctx, second)
	insertFolder(t, nsFirst, "mine", nil, 0)

	// second owner starts its own root at index 0
	insertFolder(t, nsSecond, "theirs", nil, 0)

	err = nsSecond.View(ctx, func(tx ports.NamespaceTx) error {
		root, err := tx.Children(nil)
		require.NoError(t, err)
		require.Len(t, root, 1)
		assert.Equal(t, "theirs", root[0].Name)
		return nil
	})
	require.NoError(t, err)
}

func TestNamespace_UpdateRollsBack(t *testing.T) {
	ns, _ := setupNamespace(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := ns.Update(ctx, func(tx ports.NamespaceTx) error {
		f := &domain.Folder{Node: domain.Node{Name: "gone", Token: domain.NewToken()}}
		require.NoError(t, tx.InsertFolder(f))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = ns.View(ctx, func(tx ports.NamespaceTx) error {
		root, err := tx.Children(nil)
		require.NoError(t, err)
		assert.Empty(t, root)
		return nil
	})
	require.NoError(t, err)
}

func TestNamespace_UpdateRollsBackOnPanic(t *testing.T) {
	ns, _ := setupNamespace(t)
	ctx := context.Background()
	// the next unit must reuse the connection the panicking one held
	ns.store.db.SetMaxOpenConns(1)

	assert.PanicsWithValue(t, "boom", func() {
		_ = ns.Update(ctx, func(tx ports.NamespaceTx) error {
			f := &domain.Folder{Node: domain.Node{Name: "gone", Token: domain.NewToken()}}
			require.NoError(t, tx.InsertFolder(f))
			panic("boom")
		})
	})

	kept := insertFolder(t, ns, "kept", nil, 0)
	err := ns.View(ctx, func(tx ports.NamespaceTx) error {
		root, err := tx.Children(nil)
		require.NoError(t, err)
		require.Len(t, root, 1)
		assert.Equal(t, kept.Token, root[0].Token)
		return nil
	})
	require.NoError(t, err)
}

func TestNamespace_RejectsGapsBeforeCommit(t *testing.T) {
	ns, _ := setupNamespace(t)
	ctx := context.Background()
	insertFolder(t, ns, "a", nil, 0)

	err := ns.Update(ctx, func(tx ports.NamespaceTx) error {
		f := &domain.Folder{Node: domain.Node{Name: "b", Token: domain.NewToken(), Index: 5}}
		return tx.InsertFolder(f)
	})
	assert.ErrorIs(t, err, domain.ErrConflictRetryable)

	err = ns.View(ctx, func(tx ports.NamespaceTx) error {
		root, err := tx.Children(nil)
		require.NoError(t, err)
		assert.Len(t, root, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestNamespace_TokenUniqueAcrossKinds(t *testing.T) {
	ns, _ := setupNamespace(t)
	f := insertFolder(t, ns, "a", nil, 0)

	err := ns.Update(context.Background(), func(tx ports.NamespaceTx) error {
		n := &domain.Note{Node: domain.Node{Name: "n", Token: f.Token, Index: 1}}
		return tx.InsertNote(n)
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNamespace_MoveAndDelete(t *testing.T) {
	ns, _ := setupNamespace(t)
	ctx := context.Background()
	a := insertFolder(t, ns, "a", nil, 0)
	b := insertFolder(t, ns, "b", nil, 1)

	err := ns.Update(ctx, func(tx ports.NamespaceTx) error {
		return tx.Move(b.Ref(), &a.ID, 0)
	})
	require.NoError(t, err)

	err = ns.Update(ctx, func(tx ports.NamespaceTx) error {
		if err := tx.Rename(a.Ref(), "renamed"); err != nil {
			return err
		}
		return tx.DeleteFolder(b.ID)
	})
	require.NoError(t, err)

	err = ns.View(ctx, func(tx ports.NamespaceTx) error {
		got, err := tx.Folder(a.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Name)
		_, err = tx.Folder(b.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestNamespace_TextContentLifecycle(t *testing.T) {
	ns, content := setupNamespace(t)
	ctx := context.Background()

	note := &domain.Note{Node: domain.Node{Name: "Note 1", Token: domain.NewToken()}}
	err := ns.Update(ctx, func(tx ports.NamespaceTx) error {
		if err := tx.InsertNote(note); err != nil {
			return err
		}
		return tx.StoreText(note, "first")
	})
	require.NoError(t, err)
	firstKey := note.ContentKey
	require.NotEmpty(t, firstKey)

	err = ns.Update(ctx, func(tx ports.NamespaceTx) error {
		n, err := tx.Note(note.ID)
		if err != nil {
			return err
		}
		return tx.StoreText(n, "second")
	})
	require.NoError(t, err)

	// replaced content is released after commit
	_, err = content.Get(ctx, firstKey)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var text string
	err = ns.View(ctx, func(tx ports.NamespaceTx) error {
		n, err := tx.Note(note.ID)
		if err != nil {
			return err
		}
		text, err = tx.LoadText(n)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "second", text)
}

func TestNamespace_RollbackDiscardsWrittenContent(t *testing.T) {
	ns, content := setupNamespace(t)
	ctx := context.Background()
	boom := errors.New("boom")

	var key string
	err := ns.Update(ctx, func(tx ports.NamespaceTx) error {
		n := &domain.Note{Node: domain.Node{Name: "n", Token: domain.NewToken()}}
		if err := tx.InsertNote(n); err != nil {
			return err
		}
		if err := tx.StoreText(n, "draft"); err != nil {
			return err
		}
		key = n.ContentKey
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NotEmpty(t, key)

	_, err = content.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNamespace_CanvasAndRooms(t *testing.T) {
	ns, _ := setupNamespace(t)
	ctx := context.Background()

	room := &domain.Room{Name: domain.NewRoomName()}
	note := &domain.Note{Node: domain.Node{Name: "n", Token: domain.NewToken()}}
	err := ns.Update(ctx, func(tx ports.NamespaceTx) error {
		if err := tx.InsertRoom(room); err != nil {
			return err
		}
		note.RoomID = &room.ID
		if err := tx.InsertNote(note); err != nil {
			return err
		}
		if err := tx.StoreCanvas(note, []byte(`{"shapes":[]}`)); err != nil {
			return err
		}
		room.SetEditable(true)
		return tx.SaveRoom(room)
	})
	require.NoError(t, err)

	err = ns.View(ctx, func(tx ports.NamespaceTx) error {
		byName, err := tx.RoomByName(room.Name)
		require.NoError(t, err)
		assert.True(t, byName.IsPublic)
		assert.True(t, byName.IsEditable)

		n, err := tx.NoteByRoom(room.ID)
		require.NoError(t, err)
		require.NotNil(t, n.Canvas)
		assert.Equal(t, domain.DefaultCanvasBackground, n.Canvas.Background)

		data, err := tx.LoadCanvas(n)
		require.NoError(t, err)
		assert.JSONEq(t, `{"shapes":[]}`, string(data))
		return nil
	})
	require.NoError(t, err)
}

func TestNamespace_ViewRejectsWrites(t *testing.T) {
	ns, _ := setupNamespace(t)

	err := ns.View(context.Background(), func(tx ports.NamespaceTx) error {
		return tx.InsertFolder(&domain.Folder{Node: domain.Node{Name: "x", Token: domain.NewToken()}})
	})
	assert.Error(t, err)
}
