package review

import (
	"encoding/json"

	"github.com/inkshed/redline/internal/core/sse"
)

// Event names recognized in the backend stream. Anything else is ignored for
// forward compatibility.
const (
	EventComment  = "comment"
	EventProgress = "progress"
	EventSummary  = "summary"
	EventText     = "text"
	EventError    = "error"
	EventDone     = "done"
)

// genericErrorMessage is used when an error event carries no message.
const genericErrorMessage = "review failed"

// State is the accumulated state of one streaming session. The zero value is
// an inactive, empty session; NewState returns the state of a freshly started
// one.
type State struct {
	Comments      []Comment
	Progress      *Progress // nil until the first progress event
	Summary       string
	NarrativeText string
	Err           string
	Active        bool
}

// NewState returns the state of a just-started session: everything empty,
// session active.
func NewState() State {
	return State{Active: true}
}

// Terminal reports whether the session has received its terminal signal.
func (s State) Terminal() bool {
	return !s.Active
}

// Result extracts the accumulated comments and summary for export.
func (s State) Result() Result {
	return Result{Comments: s.Comments, Summary: s.Summary}
}

// Apply folds one decoded event into the state and returns the new state.
// The receiver is not mutated. An event whose payload does not match its
// expected shape is dropped, leaving the state unchanged; an ill-typed frame
// must never corrupt accumulated state.
func (s State) Apply(ev sse.Event) State {
	switch ev.Name {
	case EventComment:
		var c Comment
		if err := json.Unmarshal(ev.Data, &c); err != nil {
			return s
		}
		next := s
		next.Comments = append(s.Comments[:len(s.Comments):len(s.Comments)], c)
		return next

	case EventProgress:
		var p Progress
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return s
		}
		next := s
		next.Progress = &p
		return next

	case EventSummary:
		var payload struct {
			Summary string `json:"summary"`
		}
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			return s
		}
		next := s
		next.Summary = payload.Summary
		return next

	case EventText:
		var payload struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			return s
		}
		next := s
		next.NarrativeText = s.NarrativeText + payload.Content
		return next

	case EventError:
		var payload struct {
			Message string `json:"message"`
		}
		// An error event always terminates the session, even if its payload
		// is unreadable; fall back to a generic message.
		_ = json.Unmarshal(ev.Data, &payload)
		if payload.Message == "" {
			payload.Message = genericErrorMessage
		}
		next := s
		next.Err = payload.Message
		next.Active = false
		return next

	case EventDone:
		next := s
		next.Active = false
		return next

	default:
		return s
	}
}
