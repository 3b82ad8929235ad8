package redline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkshed/redline/internal/core/review"
)

func TestSaveResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thesis.review.json")

	saved := SavedResult{
		DocumentTitle: "thesis",
		Result: review.Result{
			Comments: []review.Comment{
				{ParagraphIndex: 0, TargetText: "绪论部分", Comment: "建议补充研究背景", Severity: review.SeveritySuggestion},
			},
			Summary: "needs work",
		},
	}
	require.NoError(t, SaveResult(path, saved))

	loaded, err := LoadResult(path)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestLoadResult(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadResult(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := LoadResult(path)
		assert.Error(t, err)
	})
}
