package logging

import "context"

type contextKey string

const (
	sessionKindKey contextKey = "session_kind"
	documentKey    contextKey = "document"
)

// WithSessionKind adds the session kind (review, comment) to the context.
func WithSessionKind(ctx context.Context, kind string) context.Context {
	return context.WithValue(ctx, sessionKindKey, kind)
}

// WithDocument adds the document path under review to the context.
func WithDocument(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, documentKey, path)
}

// GetSessionKind retrieves the session kind from the context.
// Returns empty string if not present.
func GetSessionKind(ctx context.Context) string {
	if kind, ok := ctx.Value(sessionKindKey).(string); ok {
		return kind
	}
	return ""
}

// GetDocument retrieves the document path from the context.
// Returns empty string if not present.
func GetDocument(ctx context.Context) string {
	if path, ok := ctx.Value(documentKey).(string); ok {
		return path
	}
	return ""
}
