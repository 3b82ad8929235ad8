package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// ErrPatternTooLong is returned by a batch search whose pattern exceeds
// MaxSearchLength runes. Callers are expected to truncate first.
var ErrPatternTooLong = errors.New("search pattern exceeds host limit")

// FileHost is a Host backed by a plain file on disk. Comment annotations are
// staged per batch and materialized to a sidecar notes file on sync, which
// mirrors the batch-then-sync discipline of a word-processor host.
type FileHost struct {
	path    string
	content string

	mu          sync.Mutex
	selection   *Match
	annotations []Annotation
}

// Annotation is one materialized comment with its anchor.
type Annotation struct {
	Match Match
	Text  string
}

// NewFileHost loads the document at path.
func NewFileHost(path string) (*FileHost, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	return &FileHost{path: path, content: string(data)}, nil
}

// NotesPath is the sidecar file annotations are written to on sync.
func (h *FileHost) NotesPath() string {
	return h.path + ".review.md"
}

// Paragraphs implements Host.
func (h *FileHost) Paragraphs(ctx context.Context) ([]Paragraph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Split(h.content), nil
}

// Selection returns the match selected by the most recent synced batch, or
// nil if nothing has been selected.
func (h *FileHost) Selection() *Match {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.selection
}

// Annotations returns all comments materialized so far, in sync order.
func (h *FileHost) Annotations() []Annotation {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Annotation(nil), h.annotations...)
}

// Run implements Host. Staged writes are flushed only when fn succeeds.
func (h *FileHost) Run(ctx context.Context, fn func(b Batch) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b := &fileBatch{host: h}
	if err := fn(b); err != nil {
		return err
	}
	return h.sync(b)
}

func (h *FileHost) sync(b *fileBatch) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if b.selection != nil {
		h.selection = b.selection
	}
	if len(b.staged) == 0 {
		return nil
	}

	f, err := os.OpenFile(h.NotesPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open notes file: %w", err)
	}
	defer func() { _ = f.Close() }()

	for _, a := range b.staged {
		if _, err := fmt.Fprintf(f, "> %s\n\n%s\n\n---\n\n", a.Match.Text, a.Text); err != nil {
			return fmt.Errorf("write notes file: %w", err)
		}
	}
	h.annotations = append(h.annotations, b.staged...)
	return nil
}

// fileBatch stages operations against the host's in-memory snapshot.
type fileBatch struct {
	host      *FileHost
	selection *Match
	staged    []Annotation
}

func (b *fileBatch) Search(text string, opts SearchOptions) ([]Match, error) {
	if utf8.RuneCountInString(text) > MaxSearchLength {
		return nil, ErrPatternTooLong
	}
	if text == "" {
		return nil, nil
	}

	content := b.host.content
	var matches []Match

	for offset := 0; ; {
		i := indexIn(content[offset:], text, opts.MatchCase)
		if i < 0 {
			break
		}
		start := offset + i
		end := start + len(text)
		m := Match{Start: start, End: end, Text: content[start:end]}
		offset = start + 1

		if opts.MatchWholeWord && !wholeWordAt(content, start, end) {
			continue
		}
		matches = append(matches, m)
	}

	return matches, nil
}

func (b *fileBatch) Select(m Match) error {
	b.selection = &m
	return nil
}

func (b *fileBatch) InsertComment(m Match, text string) error {
	b.staged = append(b.staged, Annotation{Match: m, Text: text})
	return nil
}

// indexIn finds the first occurrence of pattern in s, optionally folding
// case. Folded comparison uses equal-byte-length windows, which covers ASCII
// and same-width unicode case pairs.
func indexIn(s, pattern string, matchCase bool) int {
	if matchCase {
		return strings.Index(s, pattern)
	}
	n := len(pattern)
	if n > len(s) {
		return -1
	}
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], pattern) {
			return i
		}
	}
	return -1
}

// wholeWordAt reports whether content[start:end] sits on word boundaries.
func wholeWordAt(content string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(content[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(content) {
		r, _ := utf8.DecodeRuneInString(content[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
