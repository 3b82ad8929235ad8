package document

import "context"

// MaxSearchLength is the longest search pattern the host accepts, in runes.
// Longer patterns must be truncated by the caller before searching.
const MaxSearchLength = 255

// SearchOptions mirror the host's search call.
type SearchOptions struct {
	MatchCase      bool
	MatchWholeWord bool
}

// Match is a located range in the document. Offsets are byte offsets into the
// document content as last synced.
type Match struct {
	Start int
	End   int
	Text  string
}

// Batch is one scoped set of host operations. Reads reflect the snapshot
// taken when the batch opened; writes are staged and materialize only when
// the enclosing Run returns successfully.
type Batch interface {
	// Search returns all matches for text in document order. The pattern must
	// not exceed MaxSearchLength runes.
	Search(text string, opts SearchOptions) ([]Match, error)

	// Select moves the host's selection to the match.
	Select(m Match) error

	// InsertComment stages a comment annotation anchored at the match.
	InsertComment(m Match, text string) error
}

// Host is the document collaborator. The host batches reads and writes per
// sync scope: callers stage operations inside Run and must not interleave two
// scopes, since unsynced operations do not see a consistent snapshot.
type Host interface {
	// Paragraphs returns the paragraphs in review scope.
	Paragraphs(ctx context.Context) ([]Paragraph, error)

	// Run opens a batch scope, executes fn against it, and syncs staged
	// operations before returning. Run returns fn's error, or the sync error.
	Run(ctx context.Context, fn func(b Batch) error) error
}
