package review

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkshed/redline/internal/core/sse"
)

func event(name, payload string) sse.Event {
	return sse.Event{Name: name, Data: json.RawMessage(payload)}
}

func TestState_Apply(t *testing.T) {
	t.Run("comments append in arrival order", func(t *testing.T) {
		st := NewState()
		st = st.Apply(event(EventComment, `{"paragraph_index":0,"target_text":"a","comment":"first","severity":"error"}`))
		st = st.Apply(event(EventComment, `{"paragraph_index":2,"target_text":"b","comment":"second","severity":"warning"}`))
		st = st.Apply(event(EventComment, `{"paragraph_index":1,"target_text":"c","comment":"third","severity":"suggestion"}`))

		require.Len(t, st.Comments, 3)
		assert.Equal(t, "first", st.Comments[0].Comment)
		assert.Equal(t, "second", st.Comments[1].Comment)
		assert.Equal(t, "third", st.Comments[2].Comment)
		assert.True(t, st.Active)
	})

	t.Run("progress replaces wholesale", func(t *testing.T) {
		st := NewState()
		st = st.Apply(event(EventProgress, `{"current_batch":1,"total_batches":4,"message":"a"}`))
		st = st.Apply(event(EventProgress, `{"current_batch":2,"total_batches":4,"message":"b"}`))

		require.NotNil(t, st.Progress)
		assert.Equal(t, Progress{CurrentBatch: 2, TotalBatches: 4, Message: "b"}, *st.Progress)
	})

	t.Run("text appends, never replaces", func(t *testing.T) {
		st := NewState()
		st = st.Apply(event(EventText, `{"content":"Hello "}`))
		st = st.Apply(event(EventText, `{"content":"world"}`))

		assert.Equal(t, "Hello world", st.NarrativeText)
	})

	t.Run("summary is set from payload", func(t *testing.T) {
		st := NewState()
		st = st.Apply(event(EventSummary, `{"summary":"overall fine"}`))

		assert.Equal(t, "overall fine", st.Summary)
		assert.True(t, st.Active, "summary is not a terminal event")
	})

	t.Run("error terminates with message", func(t *testing.T) {
		st := NewState()
		st = st.Apply(event(EventError, `{"message":"quota exceeded"}`))

		assert.Equal(t, "quota exceeded", st.Err)
		assert.False(t, st.Active)
		assert.True(t, st.Terminal())
	})

	t.Run("error without message uses generic one", func(t *testing.T) {
		st := NewState()
		st = st.Apply(event(EventError, `{}`))

		assert.Equal(t, genericErrorMessage, st.Err)
		assert.False(t, st.Active)
	})

	t.Run("done terminates without touching other fields", func(t *testing.T) {
		st := NewState()
		st = st.Apply(event(EventComment, `{"paragraph_index":0,"target_text":"t","comment":"c","severity":"error"}`))
		st = st.Apply(event(EventDone, `{}`))

		assert.False(t, st.Active)
		assert.Empty(t, st.Err)
		assert.Len(t, st.Comments, 1)
	})

	t.Run("unknown event names are ignored", func(t *testing.T) {
		st := NewState()
		got := st.Apply(event("heartbeat", `{"ts":123}`))

		assert.Equal(t, st, got)
	})

	t.Run("ill-typed payload drops the frame", func(t *testing.T) {
		st := NewState()
		st = st.Apply(event(EventComment, `{"paragraph_index":"zero"}`))
		st = st.Apply(event(EventProgress, `[1,2]`))
		st = st.Apply(event(EventText, `{"content":42}`))

		assert.Empty(t, st.Comments)
		assert.Nil(t, st.Progress)
		assert.Empty(t, st.NarrativeText)
		assert.True(t, st.Active)
	})

	t.Run("out-of-range severity passes through", func(t *testing.T) {
		st := NewState()
		st = st.Apply(event(EventComment, `{"paragraph_index":0,"target_text":"t","comment":"c","severity":"catastrophic"}`))

		require.Len(t, st.Comments, 1)
		assert.Equal(t, Severity("catastrophic"), st.Comments[0].Severity)
	})

	t.Run("apply does not mutate the prior state", func(t *testing.T) {
		st := NewState()
		st = st.Apply(event(EventComment, `{"paragraph_index":0,"target_text":"a","comment":"one","severity":"error"}`))

		branchA := st.Apply(event(EventComment, `{"paragraph_index":1,"target_text":"b","comment":"two","severity":"warning"}`))
		branchB := st.Apply(event(EventComment, `{"paragraph_index":2,"target_text":"c","comment":"three","severity":"suggestion"}`))

		require.Len(t, st.Comments, 1)
		assert.Equal(t, "two", branchA.Comments[1].Comment)
		assert.Equal(t, "three", branchB.Comments[1].Comment)
	})
}

func TestState_FullSessionScenario(t *testing.T) {
	t.Run("review ends with done", func(t *testing.T) {
		st := NewState()
		st = st.Apply(event(EventComment, `{"paragraph_index":0,"target_text":"绪论部分","comment":"建议补充研究背景","severity":"suggestion"}`))
		st = st.Apply(event(EventDone, `{}`))

		require.Len(t, st.Comments, 1)
		assert.Equal(t, SeveritySuggestion, st.Comments[0].Severity)
		assert.False(t, st.Active)
		assert.Empty(t, st.Err)
	})

	t.Run("review ends with server error", func(t *testing.T) {
		st := NewState()
		st = st.Apply(event(EventComment, `{"paragraph_index":0,"target_text":"t","comment":"c","severity":"warning"}`))
		before := len(st.Comments)
		st = st.Apply(event(EventError, `{"message":"quota exceeded"}`))

		assert.Equal(t, "quota exceeded", st.Err)
		assert.False(t, st.Active)
		assert.Len(t, st.Comments, before, "error must not discard accumulated comments")
	})
}

func TestState_Result(t *testing.T) {
	st := NewState()
	st = st.Apply(event(EventComment, `{"paragraph_index":0,"target_text":"t","comment":"c","severity":"error"}`))
	st = st.Apply(event(EventSummary, `{"summary":"needs work"}`))

	res := st.Result()
	assert.Len(t, res.Comments, 1)
	assert.Equal(t, "needs work", res.Summary)
}
