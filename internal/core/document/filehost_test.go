package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHost(t *testing.T, content string) *FileHost {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	host, err := NewFileHost(path)
	require.NoError(t, err)
	return host
}

func TestFileHost_Paragraphs(t *testing.T) {
	host := newTestHost(t, "one\n\ntwo")

	paragraphs, err := host.Paragraphs(context.Background())
	require.NoError(t, err)
	require.Len(t, paragraphs, 2)
	assert.Equal(t, "one", paragraphs[0].Text)
}

func TestFileHost_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("all matches in document order", func(t *testing.T) {
		host := newTestHost(t, "cat dog cat bird CAT")

		var matches []Match
		err := host.Run(ctx, func(b Batch) error {
			var err error
			matches, err = b.Search("cat", SearchOptions{})
			return err
		})
		require.NoError(t, err)
		require.Len(t, matches, 3, "case-insensitive search should also hit CAT")
		assert.Equal(t, 0, matches[0].Start)
		assert.Equal(t, 8, matches[1].Start)
		assert.Equal(t, "CAT", matches[2].Text)
	})

	t.Run("case sensitive option", func(t *testing.T) {
		host := newTestHost(t, "cat CAT")

		var matches []Match
		err := host.Run(ctx, func(b Batch) error {
			var err error
			matches, err = b.Search("CAT", SearchOptions{MatchCase: true})
			return err
		})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, 4, matches[0].Start)
	})

	t.Run("whole word option", func(t *testing.T) {
		host := newTestHost(t, "cat catalog cat")

		var matches []Match
		err := host.Run(ctx, func(b Batch) error {
			var err error
			matches, err = b.Search("cat", SearchOptions{MatchWholeWord: true})
			return err
		})
		require.NoError(t, err)
		assert.Len(t, matches, 2, "catalog must not match as a whole word")
	})

	t.Run("pattern over host limit is rejected", func(t *testing.T) {
		host := newTestHost(t, "irrelevant")

		err := host.Run(ctx, func(b Batch) error {
			_, err := b.Search(strings.Repeat("a", MaxSearchLength+1), SearchOptions{})
			return err
		})
		assert.ErrorIs(t, err, ErrPatternTooLong)
	})

	t.Run("unicode content", func(t *testing.T) {
		host := newTestHost(t, "这是绪论部分。")

		var matches []Match
		err := host.Run(ctx, func(b Batch) error {
			var err error
			matches, err = b.Search("绪论部分", SearchOptions{})
			return err
		})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "绪论部分", matches[0].Text)
	})
}

func TestFileHost_SelectAndSync(t *testing.T) {
	ctx := context.Background()
	host := newTestHost(t, "alpha beta")

	require.Nil(t, host.Selection())

	err := host.Run(ctx, func(b Batch) error {
		matches, err := b.Search("beta", SearchOptions{})
		if err != nil {
			return err
		}
		return b.Select(matches[0])
	})
	require.NoError(t, err)

	sel := host.Selection()
	require.NotNil(t, sel)
	assert.Equal(t, "beta", sel.Text)
}

func TestFileHost_InsertComment(t *testing.T) {
	ctx := context.Background()

	t.Run("comments materialize to the notes file on sync", func(t *testing.T) {
		host := newTestHost(t, "alpha beta gamma")

		err := host.Run(ctx, func(b Batch) error {
			matches, err := b.Search("beta", SearchOptions{})
			if err != nil {
				return err
			}
			return b.InsertComment(matches[0], "needs a citation")
		})
		require.NoError(t, err)

		annotations := host.Annotations()
		require.Len(t, annotations, 1)
		assert.Equal(t, "needs a citation", annotations[0].Text)

		data, err := os.ReadFile(host.NotesPath())
		require.NoError(t, err)
		assert.Contains(t, string(data), "> beta")
		assert.Contains(t, string(data), "needs a citation")
	})

	t.Run("failed batch stages nothing", func(t *testing.T) {
		host := newTestHost(t, "alpha")
		boom := errors.New("host op failed")

		err := host.Run(ctx, func(b Batch) error {
			matches, searchErr := b.Search("alpha", SearchOptions{})
			if searchErr != nil {
				return searchErr
			}
			if insertErr := b.InsertComment(matches[0], "dropped"); insertErr != nil {
				return insertErr
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, host.Annotations(), "writes staged in a failed batch must not materialize")

		_, statErr := os.Stat(host.NotesPath())
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("cancelled context refuses the batch", func(t *testing.T) {
		host := newTestHost(t, "alpha")
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		err := host.Run(cctx, func(b Batch) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
