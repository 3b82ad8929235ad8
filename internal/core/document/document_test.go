package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Run("blank lines separate paragraphs", func(t *testing.T) {
		content := "First paragraph.\n\nSecond paragraph\nstill second.\n\n\nThird."
		paragraphs := Split(content)

		require.Len(t, paragraphs, 3)
		assert.Equal(t, Paragraph{Index: 0, Text: "First paragraph."}, paragraphs[0])
		assert.Equal(t, Paragraph{Index: 1, Text: "Second paragraph\nstill second."}, paragraphs[1])
		assert.Equal(t, Paragraph{Index: 2, Text: "Third."}, paragraphs[2])
	})

	t.Run("indexes are dense despite extra blank lines", func(t *testing.T) {
		paragraphs := Split("\n\na\n\n\n\nb\n\n")
		require.Len(t, paragraphs, 2)
		assert.Equal(t, 0, paragraphs[0].Index)
		assert.Equal(t, 1, paragraphs[1].Index)
	})

	t.Run("windows line endings", func(t *testing.T) {
		paragraphs := Split("a\r\n\r\nb\r\n")
		require.Len(t, paragraphs, 2)
		assert.Equal(t, "a", paragraphs[0].Text)
		assert.Equal(t, "b", paragraphs[1].Text)
	})

	t.Run("empty content", func(t *testing.T) {
		assert.Empty(t, Split(""))
		assert.Empty(t, Split("\n\n\n"))
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("# Title\n\nBody text."), 0o644))

	paragraphs, err := Load(path)
	require.NoError(t, err)
	require.Len(t, paragraphs, 2)
	assert.Equal(t, "# Title", paragraphs[0].Text)

	_, err = Load(filepath.Join(dir, "missing.md"))
	assert.Error(t, err)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "thesis", Title("/home/user/docs/thesis.md"))
	assert.Equal(t, "notes", Title("notes.txt"))
	assert.Equal(t, "README", Title("README"))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	for _, name := range []string{"a.md", "b.txt", "c.go", "sub/d.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	t.Run("default patterns", func(t *testing.T) {
		paths, err := Discover(dir, nil)
		require.NoError(t, err)
		require.Len(t, paths, 3)
		for _, p := range paths {
			assert.NotContains(t, p, "c.go")
		}
	})

	t.Run("explicit pattern", func(t *testing.T) {
		paths, err := Discover(dir, []string{"sub/*.md"})
		require.NoError(t, err)
		require.Len(t, paths, 1)
		assert.Equal(t, filepath.Join(dir, "sub", "d.md"), paths[0])
	})

	t.Run("overlapping patterns deduplicate", func(t *testing.T) {
		paths, err := Discover(dir, []string{"**/*.md", "a.md"})
		require.NoError(t, err)
		assert.Len(t, paths, 2)
	})
}
