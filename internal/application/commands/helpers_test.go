package commands

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"noteboard/internal/adapters/sqlite"
	"noteboard/internal/adapters/transient"
	"noteboard/internal/domain"
	"noteboard/internal/ports"
)

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

// memContent is an in-memory content resolver whose writes can be made to fail
type memContent struct {
	mu      sync.Mutex
	data    map[string][]byte
	failPut bool
}

func newMemContent() *memContent {
	return &memContent{data: make(map[string][]byte)}
}

func (m *memContent) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return errors.New("content store unavailable")
	}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memContent) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, &domain.NotFoundError{What: key}
	}
	return data, nil
}

func (m *memContent) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memContent) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func newTransient() (*transient.Namespace, *transient.MemorySlot) {
	slot := transient.NewMemorySlot()
	return transient.New(slot, transient.JSONCodec{}), slot
}

func newStore(t *testing.T, content ports.ContentResolver) *sqlite.Store {
	t.Helper()

	store := sqlite.NewStore(content)
	if err := store.Open(filepath.Join(t.TempDir(), "noteboard.db")); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newDurable(t *testing.T, store *sqlite.Store) *sqlite.Namespace {
	t.Helper()

	ctx := context.Background()
	owner, err := store.CreateOwner(ctx)
	if err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}
	ns, err := store.Namespace(ctx, owner)
	if err != nil {
		t.Fatalf("failed to open namespace: %v", err)
	}
	return ns
}

type backend struct {
	name string
	ns   ports.Namespace
}

// backends returns a fresh transient and a fresh durable namespace
func backends(t *testing.T) []backend {
	t.Helper()

	tr, _ := newTransient()
	return []backend{
		{name: "transient", ns: tr},
		{name: "durable", ns: newDurable(t, newStore(t, newMemContent()))},
	}
}

// at addresses a resource by token, which works in both namespaces
func at(token string) domain.Locator {
	return domain.ByToken(token)
}

func mkdir(t *testing.T, ns ports.Namespace, parent domain.Locator, name string) *domain.Folder {
	t.Helper()

	res, err := NewCreateFolderCommand(ns, parent, name).Execute(context.Background())
	if err != nil {
		t.Fatalf("create folder %s: %v", name, err)
	}
	return res.Folder
}

func touch(t *testing.T, ns ports.Namespace, parent domain.Locator, name string) *domain.Note {
	t.Helper()

	res, err := NewCreateNoteCommand(ns, parent, name).Execute(context.Background())
	if err != nil {
		t.Fatalf("create note %s: %v", name, err)
	}
	return res.Note
}

func list(t *testing.T, ns ports.Namespace, parent domain.Locator) []domain.Resource {
	t.Helper()

	children, err := NewListChildrenCommand(ns, parent, OrderByIndex).Execute(context.Background())
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	return children
}

// indexOf maps child names to their sibling index
func indexOf(children []domain.Resource) map[string]int {
	out := make(map[string]int, len(children))
	for _, c := range children {
		out[c.Name] = c.Index
	}
	return out
}

func names(children []domain.Resource) []string {
	out := make([]string, len(children))
	for i, c := range children {
		out[i] = c.Name
	}
	return out
}

// assertDense checks every sibling set of the namespace
func assertDense(t *testing.T, ns ports.Namespace) {
	t.Helper()

	root, err := NewTreeCommand(ns).Execute(context.Background())
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	root.Walk(func(n *domain.TreeNode) {
		siblings := make([]domain.Resource, len(n.Children))
		for i, c := range n.Children {
			siblings[i] = c.Resource
		}
		if err := domain.VerifyDense(siblings); err != nil {
			t.Errorf("children of %s not dense: %v", n.Label(), err)
		}
	})
}
