package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/inkshed/redline/internal/core/review"
	"github.com/inkshed/redline/internal/core/session"
	"github.com/inkshed/redline/internal/core/styles"
	"github.com/inkshed/redline/internal/tui"
)

// interactive reports whether stdout is a terminal, enabling the live feed.
func interactive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// startFunc begins a session once the consumer is subscribed, so no update
// can be missed.
type startFunc func() (*session.Handle, error)

// followFeed runs a session behind the live bubbletea feed and returns the
// terminal state.
func followFeed(ctrl *session.Controller, kind session.Kind, title string, start startFunc) (review.State, error) {
	var handle *session.Handle
	model := tui.NewFeed(kind, title, func() {
		if handle != nil {
			handle.Cancel()
		}
	})
	p := tea.NewProgram(model)

	ctrl.Subscribe(func(u session.Update) {
		if u.Kind == kind {
			p.Send(tui.StateMsg(u))
		}
	})

	handle, err := start()
	if err != nil {
		p.Kill()
		return review.State{}, err
	}

	final, err := p.Run()
	if err != nil {
		handle.Cancel()
		return review.State{}, fmt.Errorf("feed: %w", err)
	}

	st := final.(tui.FeedModel).State()
	if st.Active {
		// Feed exited without a terminal snapshot (user quit); make sure the
		// transport is gone and reflect the cancellation.
		handle.Cancel()
		st = ctrl.State(kind)
	}
	return st, nil
}

// followPlain runs a session without a TUI, printing events line by line as
// they arrive, and returns the terminal state. Cancelling ctx cancels the
// session cleanly.
func followPlain(ctx context.Context, ctrl *session.Controller, kind session.Kind, w io.Writer, start startFunc) (review.State, error) {
	updates := make(chan session.Update, 256)
	ctrl.Subscribe(func(u session.Update) {
		if u.Kind == kind {
			updates <- u
		}
	})

	handle, err := start()
	if err != nil {
		return review.State{}, err
	}

	var (
		printedComments int
		printedText     int
		lastBatch       int
		done            = ctx.Done()
	)

	for {
		select {
		case <-done:
			handle.Cancel()
			done = nil // the cancel notification arrives as an update

		case u := <-updates:
			st := u.State

			if p := st.Progress; p != nil && p.CurrentBatch != lastBatch {
				lastBatch = p.CurrentBatch
				fmt.Fprintln(w, styles.Muted.Render(fmt.Sprintf("batch %d/%d %s", p.CurrentBatch, p.TotalBatches, p.Message)))
			}
			for _, c := range st.Comments[printedComments:] {
				fmt.Fprintf(w, "%s ¶%d %s\n", styles.SeverityBadge(c.Severity), c.ParagraphIndex, c.Comment)
				if c.TargetText != "" {
					fmt.Fprintln(w, styles.Quote.Render("  > "+c.TargetText))
				}
			}
			printedComments = len(st.Comments)
			if len(st.NarrativeText) > printedText {
				fmt.Fprint(w, st.NarrativeText[printedText:])
				printedText = len(st.NarrativeText)
			}

			if st.Terminal() {
				if printedText > 0 {
					fmt.Fprintln(w)
				}
				return st, nil
			}
		}
	}
}
