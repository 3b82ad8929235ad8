package tui

import "github.com/charmbracelet/glamour"

// RenderMarkdown renders markdown for terminal display, wrapped to width.
// On renderer failure the raw markdown is returned unchanged; a summary is
// still worth showing unstyled.
func RenderMarkdown(md string, width int) string {
	wrap := max(width-2, 20)
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
