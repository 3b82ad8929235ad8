// Package tui contains the live feed shown while a review session streams.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inkshed/redline/internal/core/review"
	"github.com/inkshed/redline/internal/core/session"
	"github.com/inkshed/redline/internal/core/styles"
)

// maxVisibleComments bounds how many trailing comments the feed shows; the
// full list is printed by the command once the session ends.
const maxVisibleComments = 8

// StateMsg delivers a session snapshot into the feed. Commands forward
// controller updates with Program.Send.
type StateMsg session.Update

// FeedModel renders a streaming session: progress, trailing comments, and
// narrative text. It quits when the session reaches a terminal state or the
// user cancels.
type FeedModel struct {
	kind    session.Kind
	title   string
	spinner spinner.Model
	state   review.State
	width   int
	cancel  func()
}

// NewFeed creates a feed for one session kind. cancel is invoked when the
// user aborts with q, esc, or ctrl+c.
func NewFeed(kind session.Kind, title string, cancel func()) FeedModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Accent

	return FeedModel{
		kind:    kind,
		title:   title,
		spinner: s,
		state:   review.NewState(),
		width:   80,
		cancel:  cancel,
	}
}

// State returns the last snapshot the feed saw, for the command to print
// final results after the program exits.
func (m FeedModel) State() review.State { return m.state }

// Init implements tea.Model.
func (m FeedModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m FeedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, nil

	case StateMsg:
		if msg.Kind != m.kind {
			return m, nil
		}
		m.state = msg.State
		if m.state.Terminal() {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m FeedModel) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n\n")

	if m.kind == session.KindOverall {
		b.WriteString(m.narrativeView())
	} else {
		b.WriteString(m.commentsView())
	}

	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("q to cancel"))
	b.WriteString("\n")

	return b.String()
}

func (m FeedModel) header() string {
	status := m.spinner.View() + " reviewing " + m.title
	if p := m.state.Progress; p != nil {
		status += styles.Muted.Render(fmt.Sprintf("  batch %d/%d", p.CurrentBatch, p.TotalBatches))
		if p.Message != "" {
			status += styles.Muted.Render("  " + p.Message)
		}
	}
	return status
}

func (m FeedModel) commentsView() string {
	comments := m.state.Comments
	if len(comments) == 0 {
		return styles.Muted.Render("waiting for comments...") + "\n"
	}

	start := 0
	if len(comments) > maxVisibleComments {
		start = len(comments) - maxVisibleComments
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("... %d earlier", start)))
		b.WriteString("\n")
	}
	for _, c := range comments[start:] {
		line := fmt.Sprintf("%s ¶%d %s", styles.SeverityBadge(c.Severity), c.ParagraphIndex, c.Comment)
		b.WriteString(truncate(line, m.width))
		b.WriteString("\n")
	}
	return b.String()
}

func (m FeedModel) narrativeView() string {
	text := m.state.NarrativeText
	if text == "" {
		return styles.Muted.Render("waiting for response...") + "\n"
	}
	wrapped := lipgloss.NewStyle().Width(max(m.width-2, 20)).Render(text)
	return tail(wrapped, 12) + "\n"
}

// truncate clips a rendered line to width terminal cells.
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
