// Package correlate maps review comments back to locations in the live
// document. Correlation is best-effort: target text may have drifted since
// the comment was generated, so a miss is a normal outcome, never a failure.
package correlate

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/inkshed/redline/internal/core/document"
	"github.com/inkshed/redline/internal/core/logging"
	"github.com/inkshed/redline/internal/core/review"
)

// Engine locates comment targets in a document host. Each host interaction
// runs in its own batch scope, one at a time.
type Engine struct {
	host document.Host
	log  zerolog.Logger
}

// NewEngine creates an engine bound to a document host.
func NewEngine(host document.Host) *Engine {
	return &Engine{
		host: host,
		log:  logging.Component("correlate"),
	}
}

// BatchResult counts the outcomes of an AnnotateAll pass.
type BatchResult struct {
	Success int
	Failed  int
}

// searchOptions shared by all correlation lookups: case-insensitive, no
// whole-word constraint.
var searchOptions = document.SearchOptions{MatchCase: false, MatchWholeWord: false}

// Locate finds the first occurrence of target and selects it in the host.
// It returns false when the text is not present.
func (e *Engine) Locate(ctx context.Context, target string) (bool, error) {
	found := false
	err := e.host.Run(ctx, func(b document.Batch) error {
		m, ok, err := firstMatch(b, target)
		if err != nil || !ok {
			return err
		}
		found = true
		return b.Select(m)
	})
	return found, err
}

// Annotate attaches comment text at the first occurrence of target.
// It returns false when the text is not present.
func (e *Engine) Annotate(ctx context.Context, target, comment string) (bool, error) {
	found := false
	err := e.host.Run(ctx, func(b document.Batch) error {
		m, ok, err := firstMatch(b, target)
		if err != nil || !ok {
			return err
		}
		found = true
		return b.InsertComment(m, comment)
	})
	return found, err
}

// AnnotateAll applies each comment independently and reports how many landed.
// A miss or a host error on one comment never aborts the rest.
func (e *Engine) AnnotateAll(ctx context.Context, comments []review.Comment) BatchResult {
	var res BatchResult
	for _, c := range comments {
		ok, err := e.Annotate(ctx, c.TargetText, c.Comment)
		if err != nil {
			e.log.Warn().Err(err).Int("paragraph", c.ParagraphIndex).Msg("annotate failed")
			res.Failed++
			continue
		}
		if !ok {
			e.log.Debug().Int("paragraph", c.ParagraphIndex).Msg("target text not found")
			res.Failed++
			continue
		}
		res.Success++
	}
	return res
}

// firstMatch truncates target to the host search limit and returns the first
// document-order match.
func firstMatch(b document.Batch, target string) (document.Match, bool, error) {
	matches, err := b.Search(TruncateTarget(target), searchOptions)
	if err != nil {
		return document.Match{}, false, err
	}
	if len(matches) == 0 {
		return document.Match{}, false, nil
	}
	return matches[0], true, nil
}

// TruncateTarget clips target text to the host's maximum search pattern
// length. The clip is a literal prefix so the search stays a substring match.
func TruncateTarget(target string) string {
	runes := []rune(target)
	if len(runes) <= document.MaxSearchLength {
		return target
	}
	return string(runes[:document.MaxSearchLength])
}
