package editor

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpener_CommandUsesEditorWithFlags(t *testing.T) {
	t.Setenv("EDITOR", "code --wait")
	t.Setenv("VISUAL", "")

	cmd, err := NewOpener().Command("/tmp/msg.txt")

	require.NoError(t, err)
	assert.Equal(t, []string{"code", "--wait", "/tmp/msg.txt"}, cmd.Args)
}

func TestOpener_FallsBackToVisual(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "myeditor")

	cmd, err := NewOpener().Command("x.txt")

	require.NoError(t, err)
	assert.Equal(t, []string{"myeditor", "x.txt"}, cmd.Args)
}

func TestMessageFile_RoundTrip(t *testing.T) {
	mf, err := WriteMessageFile("hello")
	require.NoError(t, err)

	// what an editor leaves behind after saving
	require.NoError(t, os.WriteFile(mf.Path, []byte("hello\nworld\n"), 0o600))

	text, err := mf.ReadAndRemove()
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", text)

	_, err = os.Stat(mf.Path)
	assert.True(t, os.IsNotExist(err))
}
