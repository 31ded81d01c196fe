package utilities

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile_AbsolutePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	out, err := readFile(context.Background(), map[string]string{"file_path": path})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestReadFile_RelativeResolvesToTmpDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("KORBEN_TMP_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("scratch"), 0o644))

	out, err := readFile(context.Background(), map[string]string{"file_path": "scratch.txt"})
	require.NoError(t, err)
	assert.Equal(t, "scratch", out)
}

func TestReadFile_MissingPath(t *testing.T) {
	_, err := readFile(context.Background(), nil)
	assert.ErrorContains(t, err, "file_path")
}

func TestWriteFile_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("KORBEN_TMP_DIR", dir)

	out, err := writeFile(context.Background(), map[string]string{
		"file_path": filepath.Join("wisdom", "episode.md"),
		"content":   "# Notes",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "7 bytes")

	data, err := os.ReadFile(filepath.Join(dir, "wisdom", "episode.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Notes", string(data))
}

func TestMarkdownToHTML(t *testing.T) {
	out, err := markdownToHTML(context.Background(), map[string]string{"text": "# Title\n\nsome *emphasis*"})
	require.NoError(t, err)

	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<em>emphasis</em>")
}

func TestMarkdownToHTML_MissingText(t *testing.T) {
	_, err := markdownToHTML(context.Background(), map[string]string{})
	assert.ErrorContains(t, err, "text")
}

func TestEntropy_DefaultLength(t *testing.T) {
	out, err := entropy(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, out, defaultEntropyLen)
}

func TestEntropy_ExplicitLength(t *testing.T) {
	out, err := entropy(context.Background(), map[string]string{"length": "40"})
	require.NoError(t, err)
	assert.Len(t, out, 40)
}

func TestEntropy_InvalidLength(t *testing.T) {
	_, err := entropy(context.Background(), map[string]string{"length": "zero"})
	assert.ErrorContains(t, err, "positive integer")

	_, err = entropy(context.Background(), map[string]string{"length": "9999"})
	assert.ErrorContains(t, err, "maximum")
}

func TestPlugin_Descriptor(t *testing.T) {
	d := Plugin()
	assert.Equal(t, "utilities", d.Name)
	assert.Empty(t, d.Dependencies)
	require.NotNil(t, d.Tasks)
	assert.Nil(t, d.Flows)
}
