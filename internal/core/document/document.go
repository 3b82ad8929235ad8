// Package document provides paragraph extraction from reviewable documents
// and the host interface the correlation engine drives.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Paragraph is one unit of reviewable text. Index is the paragraph's position
// within the review scope; it is immutable once captured for a session.
type Paragraph struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// DefaultPatterns are the glob patterns used to discover reviewable
// documents when none are given.
var DefaultPatterns = []string{"**/*.md", "**/*.txt"}

// Split breaks document content into paragraphs. Paragraphs are separated by
// one or more blank lines; leading and trailing whitespace inside a paragraph
// is trimmed. Empty paragraphs are skipped, so indexes are dense.
func Split(content string) []Paragraph {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var (
		paragraphs []Paragraph
		current    []string
	)

	flush := func() {
		text := strings.TrimSpace(strings.Join(current, "\n"))
		current = current[:0]
		if text == "" {
			return
		}
		paragraphs = append(paragraphs, Paragraph{Index: len(paragraphs), Text: text})
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return paragraphs
}

// Load reads a document file and splits it into paragraphs.
func Load(path string) ([]Paragraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Split(string(data)), nil
}

// Title derives a document title from its file path: the base name without
// extension.
func Title(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Discover walks root and returns paths matching any of the glob patterns,
// sorted by doublestar's traversal order. Empty patterns fall back to
// DefaultPatterns.
func Discover(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	seen := map[string]struct{}{}
	var paths []string

	fsys := os.DirFS(root)
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			abs := filepath.Join(root, filepath.FromSlash(m))
			if _, ok := seen[abs]; ok {
				continue
			}
			seen[abs] = struct{}{}
			paths = append(paths, abs)
		}
	}

	return paths, nil
}
