package editor

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpener_EditRoundTrip(t *testing.T) {
	if _, err := exec.LookPath("sed"); err != nil {
		t.Skip("sed not available")
	}
	o := &Opener{Editor: "sed -i s/draft/final/"}

	out, err := o.Edit(context.Background(), "a draft note\n")
	require.NoError(t, err)
	assert.Equal(t, "a final note\n", out)
}

func TestOpener_PrepareCleansUp(t *testing.T) {
	o := &Opener{Editor: "true"}

	cmd, collect, err := o.Prepare("hello")
	require.NoError(t, err)
	path := cmd.Args[len(cmd.Args)-1]
	assert.FileExists(t, path)

	text, err := collect()
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.NoFileExists(t, path)
}

func TestOpener_NoEditor(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")
	t.Setenv("PATH", t.TempDir())

	_, _, err := NewOpener().Prepare("x")
	assert.Error(t, err)
}

func TestOpener_EditCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Opener{Editor: "true"}).Edit(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
