// Package sse decodes line-oriented server-sent event streams into discrete
// named events. The decoder is incremental: chunks may arrive at arbitrary
// byte boundaries, including mid-line and mid-payload.
package sse

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// DefaultEventName is dispatched for a data line that was not preceded by an
// event line, per the SSE convention.
const DefaultEventName = "message"

const readChunkSize = 4096

// Event is one decoded frame: an event name and its raw JSON payload.
type Event struct {
	Name string
	Data json.RawMessage
}

// Decoder incrementally decodes an event stream. The zero value is ready to
// use. Decoder is not safe for concurrent use.
type Decoder struct {
	carry string // trailing fragment of the last chunk, not yet line-terminated
	event string // event name announced for the next data line
}

// Feed appends a chunk to the decoder and returns all events completed by it.
// Incomplete trailing data is retained until a later chunk (or Reset)
// finishes it.
func (d *Decoder) Feed(chunk string) []Event {
	d.carry += chunk

	var events []Event

	for {
		i := strings.IndexByte(d.carry, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSuffix(d.carry[:i], "\r")
		d.carry = d.carry[i+1:]

		if ev, ok := d.processLine(line); ok {
			events = append(events, ev)
		}
	}

	return events
}

// Reset discards buffered state so the decoder can be reused for a new
// stream. Any unterminated trailing fragment is dropped; the protocol
// guarantees complete frames end with a newline, so a leftover fragment means
// the connection was truncated.
func (d *Decoder) Reset() {
	d.carry = ""
	d.event = ""
}

// processLine handles a single complete line. It returns an event only when
// the line is a data line with a valid JSON payload.
func (d *Decoder) processLine(line string) (Event, bool) {
	switch {
	case strings.HasPrefix(line, "event:"):
		d.event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		return Event{}, false

	case strings.HasPrefix(line, "data:"):
		name := d.event
		if name == "" {
			name = DefaultEventName
		}
		// The data line consumes the announced event name either way, so a
		// malformed frame never leaks its name onto the next data line.
		d.event = ""

		payload := strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")
		if !json.Valid([]byte(payload)) {
			// One bad frame never aborts the stream.
			return Event{}, false
		}
		return Event{Name: name, Data: json.RawMessage(payload)}, true

	default:
		// Blank separator lines and unknown fields (id:, retry:, comments).
		return Event{}, false
	}
}

// Decode reads r to completion, invoking emit for every decoded event in
// order. A read error caused by caller cancellation is swallowed: a cancelled
// stream is a clean stop, not a failure. Bytes buffered at end of stream
// without a trailing newline are discarded.
func (d *Decoder) Decode(ctx context.Context, r io.Reader, emit func(Event)) error {
	buf := make([]byte, readChunkSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, ev := range d.Feed(string(buf[:n])) {
				emit(ev)
			}
		}
		if err != nil {
			d.Reset()
			switch {
			case errors.Is(err, io.EOF):
				return nil
			case isCanceled(ctx, err):
				return nil
			default:
				return err
			}
		}
	}
}

// isCanceled reports whether err resulted from the caller tearing down the
// stream rather than the transport failing on its own.
func isCanceled(ctx context.Context, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// net/http surfaces a cancelled response body read as a *url.Error
	// wrapping context.Canceled, but older paths report a bare "request
	// cancelled" error. The context itself is the authoritative signal.
	return ctx.Err() != nil
}
