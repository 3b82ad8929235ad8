// Package styles provides shared lipgloss styles for CLI and TUI output.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/inkshed/redline/internal/core/review"
)

// Semantic styles used across commands and the live feed.
var (
	Muted   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	Error   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	Accent  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	Quote = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

// severityStyles maps comment severities to badge styles.
var severityStyles = map[review.Severity]lipgloss.Style{
	review.SeverityError:      Error.Bold(true),
	review.SeverityWarning:    Warning.Bold(true),
	review.SeveritySuggestion: Accent.Bold(true),
}

// SeverityBadge renders a severity label. Unknown severities get the
// suggestion style, matching the tolerant protocol layer.
func SeverityBadge(s review.Severity) string {
	style, ok := severityStyles[s]
	if !ok {
		style = severityStyles[review.SeveritySuggestion]
	}
	label := string(s)
	if label == "" {
		label = string(review.SeveritySuggestion)
	}
	return style.Render("[" + label + "]")
}
