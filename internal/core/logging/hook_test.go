package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "both session_kind and document",
			setupCtx: func() context.Context {
				ctx := context.Background()
				ctx = WithSessionKind(ctx, "review")
				ctx = WithDocument(ctx, "thesis.md")
				return ctx
			},
			wantKeys: []string{"session_kind", "document"},
		},
		{
			name: "only session_kind",
			setupCtx: func() context.Context {
				return WithSessionKind(context.Background(), "comment")
			},
			wantKeys:  []string{"session_kind"},
			wantEmpty: []string{"document"},
		},
		{
			name: "only document",
			setupCtx: func() context.Context {
				return WithDocument(context.Background(), "thesis.md")
			},
			wantKeys:  []string{"document"},
			wantEmpty: []string{"session_kind"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"session_kind", "document"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := tt.setupCtx()

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(ctx).Msg("test")

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}

			for _, key := range tt.wantKeys {
				if _, ok := logEntry[key]; !ok {
					t.Errorf("expected %s to be present in log", key)
				}
			}

			for _, key := range tt.wantEmpty {
				if _, ok := logEntry[key]; ok {
					t.Errorf("expected %s to be absent from log", key)
				}
			}
		})
	}
}
