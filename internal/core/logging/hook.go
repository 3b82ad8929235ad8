package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts session_kind and document from context and adds them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if kind := GetSessionKind(ctx); kind != "" {
		e.Str("session_kind", kind)
	}

	if path := GetDocument(ctx); path != "" {
		e.Str("document", path)
	}
}
