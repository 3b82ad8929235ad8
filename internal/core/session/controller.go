// Package session owns the lifecycle of streaming review sessions: one
// active session per kind, stream decode and fold, cancellation, and the
// exactly-once terminal notification.
package session

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/inkshed/redline/internal/client"
	"github.com/inkshed/redline/internal/core/document"
	"github.com/inkshed/redline/internal/core/logging"
	"github.com/inkshed/redline/internal/core/review"
	"github.com/inkshed/redline/internal/core/sse"
)

// Kind distinguishes the two independent session slots. Sessions of
// different kinds never share state.
type Kind string

// Session kinds.
const (
	KindReview  Kind = "review"  // full or selection paragraph review
	KindOverall Kind = "comment" // overall narrative comment
)

// Streamer opens the backend event stream for a session. Satisfied by
// *client.Client.
type Streamer interface {
	StreamReview(ctx context.Context, creds client.Credentials, paragraphs []document.Paragraph) (io.ReadCloser, error)
	StreamOverallComment(ctx context.Context, creds client.Credentials, paragraphs []document.Paragraph) (io.ReadCloser, error)
}

// Update is a state snapshot published to subscribers after every fold.
type Update struct {
	Kind  Kind
	State review.State
}

// Subscriber receives session updates. Callbacks run on the session's
// decode goroutine and must not block.
type Subscriber func(Update)

// Controller runs at most one active session per kind. Starting a new
// session of a kind resets that kind's accumulated state; terminal states
// are absorbing, so nothing mutates a session after it ends.
type Controller struct {
	streamer Streamer
	log      zerolog.Logger

	mu          sync.Mutex
	slots       map[Kind]*slot
	subscribers []Subscriber
}

// slot is one kind's session state. gen increases on every Start so events
// and cancellations from a superseded session can never touch the current one.
type slot struct {
	gen      int
	state    review.State
	cancel   context.CancelFunc
	terminal bool
}

// Handle cancels the session it was returned for. It is returned
// synchronously from Start, before the backend has responded.
type Handle struct {
	c    *Controller
	kind Kind
	gen  int
}

// Cancel aborts the session's transport and immediately marks it inactive.
// Cancelling twice, or cancelling a superseded session, is a no-op.
func (h *Handle) Cancel() {
	h.c.cancelGen(h.kind, h.gen)
}

// NewController creates a controller that opens streams via streamer.
func NewController(streamer Streamer) *Controller {
	return &Controller{
		streamer: streamer,
		log:      logging.Component("session"),
		slots:    map[Kind]*slot{},
	}
}

// Subscribe registers a callback invoked on every state change.
func (c *Controller) Subscribe(fn Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

// State returns the current state snapshot for a kind. The zero State is
// returned before the first session of that kind starts.
func (c *Controller) State(kind Kind) review.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.slots[kind]; ok {
		return s.state
	}
	return review.State{}
}

// Active reports whether a session of the given kind is in flight.
func (c *Controller) Active(kind Kind) bool {
	return c.State(kind).Active
}

// Start begins a new session of the given kind, superseding and cancelling
// any session of the same kind still in flight. The request is issued
// immediately; failures before the first byte surface as the session's
// terminal error. The returned handle can cancel the session at any point,
// including before the backend has connected.
func (c *Controller) Start(ctx context.Context, kind Kind, creds client.Credentials, paragraphs []document.Paragraph) *Handle {
	sctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	gen := 1
	if prev, ok := c.slots[kind]; ok {
		gen = prev.gen + 1
		if !prev.terminal && prev.cancel != nil {
			prev.cancel()
		}
	}
	s := &slot{gen: gen, state: review.NewState(), cancel: cancel}
	c.slots[kind] = s
	update := Update{Kind: kind, State: s.state}
	c.mu.Unlock()

	c.log.Debug().Str("kind", string(kind)).Int("gen", gen).Int("paragraphs", len(paragraphs)).Msg("session started")
	c.publish(update)

	go c.run(sctx, kind, gen, creds, paragraphs)

	return &Handle{c: c, kind: kind, gen: gen}
}

// Cancel aborts the current session of a kind, if any.
func (c *Controller) Cancel(kind Kind) {
	c.mu.Lock()
	var gen int
	if s, ok := c.slots[kind]; ok {
		gen = s.gen
	}
	c.mu.Unlock()
	if gen > 0 {
		c.cancelGen(kind, gen)
	}
}

func (c *Controller) run(ctx context.Context, kind Kind, gen int, creds client.Credentials, paragraphs []document.Paragraph) {
	body, err := c.open(ctx, kind, creds, paragraphs)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled before the backend connected. Never an error.
			c.cancelGen(kind, gen)
			return
		}
		c.fail(kind, gen, err.Error())
		return
	}
	defer func() { _ = body.Close() }()

	var dec sse.Decoder
	if err := dec.Decode(ctx, body, func(ev sse.Event) {
		c.apply(kind, gen, ev)
	}); err != nil {
		c.fail(kind, gen, "stream read: "+err.Error())
		return
	}

	if ctx.Err() != nil {
		c.cancelGen(kind, gen)
		return
	}

	// Clean end of stream without a done or error event means the server hung
	// up mid-review.
	c.fail(kind, gen, "stream ended before completion")
}

func (c *Controller) open(ctx context.Context, kind Kind, creds client.Credentials, paragraphs []document.Paragraph) (io.ReadCloser, error) {
	if kind == KindOverall {
		return c.streamer.StreamOverallComment(ctx, creds, paragraphs)
	}
	return c.streamer.StreamReview(ctx, creds, paragraphs)
}

// apply folds one decoded event into the slot. Events for superseded or
// terminated sessions are dropped.
func (c *Controller) apply(kind Kind, gen int, ev sse.Event) {
	c.mu.Lock()
	s, ok := c.slots[kind]
	if !ok || s.gen != gen || s.terminal {
		c.mu.Unlock()
		return
	}

	s.state = s.state.Apply(ev)
	if s.state.Terminal() {
		s.terminal = true
		s.cancel()
	}
	update := Update{Kind: kind, State: s.state}
	c.mu.Unlock()

	c.publish(update)
}

// fail records a transport-level terminal error. It is a no-op once the
// session already reached a terminal state by any path.
func (c *Controller) fail(kind Kind, gen int, msg string) {
	c.mu.Lock()
	s, ok := c.slots[kind]
	if !ok || s.gen != gen || s.terminal {
		c.mu.Unlock()
		return
	}

	s.terminal = true
	s.state.Err = msg
	s.state.Active = false
	s.cancel()
	update := Update{Kind: kind, State: s.state}
	c.mu.Unlock()

	c.log.Warn().Str("kind", string(kind)).Str("error", msg).Msg("session failed")
	c.publish(update)
}

// cancelGen terminates a session locally. The transport abort propagates
// asynchronously; the session is inactive from the caller's perspective as
// soon as this returns, and buffered events delivered afterwards are ignored.
func (c *Controller) cancelGen(kind Kind, gen int) {
	c.mu.Lock()
	s, ok := c.slots[kind]
	if !ok || s.gen != gen || s.terminal {
		c.mu.Unlock()
		return
	}

	s.terminal = true
	s.state.Active = false
	s.cancel()
	update := Update{Kind: kind, State: s.state}
	c.mu.Unlock()

	c.log.Debug().Str("kind", string(kind)).Int("gen", gen).Msg("session cancelled")
	c.publish(update)
}

func (c *Controller) publish(u Update) {
	c.mu.Lock()
	subs := make([]Subscriber, len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(u)
	}
}
