// Package review holds the review session data model and the event fold that
// builds session state from a decoded backend stream.
package review

// Severity classifies a review comment.
type Severity string

// Severities emitted by the backend. The protocol layer passes unknown
// severities through untouched; the display layer falls back to the
// suggestion style for them.
const (
	SeverityError      Severity = "error"
	SeverityWarning    Severity = "warning"
	SeveritySuggestion Severity = "suggestion"
)

// Comment is a single review comment tied to a paragraph. Comments are
// immutable once decoded; session state owns them in arrival order.
type Comment struct {
	ParagraphIndex int      `json:"paragraph_index"`
	TargetText     string   `json:"target_text"`
	Comment        string   `json:"comment"`
	Severity       Severity `json:"severity"`
}

// Progress is the backend's self-reported position in its batch pipeline.
// A new progress event replaces the previous value wholesale.
type Progress struct {
	CurrentBatch int    `json:"current_batch"`
	TotalBatches int    `json:"total_batches"`
	Message      string `json:"message"`
}

// Result is the accumulated outcome of a finished review, in the shape the
// export endpoints accept.
type Result struct {
	Comments []Comment `json:"comments"`
	Summary  string    `json:"summary"`
}
