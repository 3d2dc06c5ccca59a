package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t    *testing.T
	dir  string
	opts []string
}

func newHarness(t *testing.T) *harness {
	dir := t.TempDir()
	return &harness{t: t, dir: dir, opts: []string{
		"--db", filepath.Join(dir, "noteboard.db"),
		"--snapshot", filepath.Join(dir, "snapshot.json"),
		"--content", filepath.Join(dir, "content"),
		"--redis=",
		"--codec", "json",
		"--log-level", "error",
	}}
}

// run executes one CLI invocation as owner (empty for the scratch board)
func (h *harness) run(owner string, args ...string) (string, error) {
	h.t.Helper()
	createParent, listSort, listReverse, whoamiNew = "", "", false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append(append(args, h.opts...), "--owner="+owner))
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil && backend != nil {
		backend.Close()
		backend, ns = nil, nil
	}
	return out.String(), err
}

func (h *harness) mustRun(owner string, args ...string) string {
	h.t.Helper()
	out, err := h.run(owner, args...)
	require.NoError(h.t, err, "noteboard-cli %s: %s", strings.Join(args, " "), out)
	return out
}

func field(t *testing.T, out, name string) string {
	t.Helper()
	for line := range strings.SplitSeq(out, "\n") {
		if v, ok := strings.CutPrefix(line, name+": "); ok {
			return strings.Fields(v)[0]
		}
	}
	t.Fatalf("no %s in output:\n%s", name, out)
	return ""
}

func TestCLI_ScratchBoardLifecycle(t *testing.T) {
	h := newHarness(t)

	projects := field(t, h.mustRun("", "mkdir", "Projects"), "token")
	out := h.mustRun("", "new", "Todo")
	todo := field(t, out, "token")
	assert.NotEmpty(t, field(t, out, "room"))

	tree := h.mustRun("", "tree")
	assert.Contains(t, tree, "0 Projects/")
	assert.Contains(t, tree, "1 Todo")

	h.mustRun("", "write", todo, "milk, eggs")
	assert.Equal(t, "milk, eggs", h.mustRun("", "cat", todo))

	h.mustRun("", "reorder", todo, "0")
	lines := strings.Split(strings.TrimSpace(h.mustRun("", "ls")), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "0  note:"), lines[0])
	assert.Contains(t, lines[0], "Todo")

	h.mustRun("", "mv", todo, projects)
	assert.Equal(t, "/Projects/\n", h.mustRun("", "path", todo))

	h.mustRun("", "new", "Later", "--in", projects)
	children := h.mustRun("", "ls", projects, "--sort", "name")
	assert.Contains(t, children, "Later")
	assert.Contains(t, children, "Todo")
}

func TestCLI_ScratchBoardNeedsTokens(t *testing.T) {
	h := newHarness(t)
	h.mustRun("", "mkdir", "Secret")

	_, err := h.run("", "rm", "folder:0")
	assert.Error(t, err)
	assert.Contains(t, h.mustRun("", "tree"), "Secret")
}

func TestCLI_PromoteIntoNewOwner(t *testing.T) {
	h := newHarness(t)

	folder := field(t, h.mustRun("", "mkdir", "Inbox"), "token")
	note := field(t, h.mustRun("", "new", "Idea", "--in", folder), "token")
	h.mustRun("", "write", note, "draft")

	out := h.mustRun("", "promote")
	assert.Contains(t, out, "Promoted 1 folders and 1 notes")
	owner := field(t, out, "owner")

	assert.Equal(t, "(empty)\n", h.mustRun("", "tree"))

	tree := h.mustRun(owner, "tree")
	assert.Contains(t, tree, "0 Inbox/")
	assert.Contains(t, tree, "  0 Idea")
	assert.Equal(t, "draft", h.mustRun(owner, "cat", note))

	_, err := h.run("", "promote")
	assert.Error(t, err, "an empty scratch board has nothing to promote")
}

func TestCLI_OwnerBoard(t *testing.T) {
	h := newHarness(t)
	owner := strings.TrimSpace(h.mustRun("", "whoami", "--new"))
	require.NotEmpty(t, owner)
	assert.Equal(t, "owner "+owner+"\n", h.mustRun(owner, "whoami"))

	h.mustRun(owner, "mkdir", "A")
	h.mustRun(owner, "mkdir", "B")
	out := h.mustRun(owner, "new", "Shared")
	token, room := field(t, out, "token"), field(t, out, "room")

	// Durable ids are enough for the owner
	h.mustRun(owner, "rename", "folder:1", "Alpha")
	h.mustRun(owner, "rm", "folder:2")
	tree := h.mustRun(owner, "tree")
	assert.Contains(t, tree, "0 Alpha/")
	assert.Contains(t, tree, "1 Shared")
	assert.NotContains(t, tree, " B/")

	_, err := h.run("", "open", token, room)
	assert.Error(t, err, "private rooms are closed to guests")

	h.mustRun(owner, "share", token, "editable", "on")
	h.mustRun(owner, "write", token, "hello")
	visit := h.mustRun("", "open", token, room)
	assert.Contains(t, visit, "Shared (editable, opens as text)")
	assert.Contains(t, visit, "hello")

	assert.Contains(t, h.mustRun(owner, "display", token, "canvas"), "now opens as canvas")
	_, err = h.run(owner, "display", token, "video")
	assert.Error(t, err)
}

func TestCLI_InvalidArguments(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		args []string
	}{
		{"reorder index not a number", []string{"reorder", "note:1@x", "first"}},
		{"bad locator kind", []string{"rm", "box:1"}},
		{"share switch", []string{"share", "note:1@x", "public", "maybe"}},
		{"unknown parent", []string{"mkdir", "X", "--in", "missing-token"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.run("", tt.args...)
			assert.Error(t, err)
		})
	}
}
