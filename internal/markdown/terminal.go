package markdown

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// TermRenderer renders page markdown for the terminal. Renderers are built
// lazily per wrap width since glamour fixes the width at construction.
type TermRenderer struct {
	style string
	cache map[int]*glamour.TermRenderer
}

// NewTermRenderer creates a renderer using one of glamour's standard styles
// ("dark", "light", "notty", ...).
func NewTermRenderer(style string) *TermRenderer {
	if style == "" {
		style = "dark"
	}
	return &TermRenderer{style: style, cache: make(map[int]*glamour.TermRenderer)}
}

// SetStyle switches the glamour style and drops cached renderers.
func (r *TermRenderer) SetStyle(style string) {
	if style == "" || style == r.style {
		return
	}
	r.style = style
	r.cache = make(map[int]*glamour.TermRenderer)
}

// Render wraps src at width columns. Surrounding blank lines added by glamour
// are trimmed so the result fits a window body exactly.
func (r *TermRenderer) Render(src string, width int) (string, error) {
	if width < 10 {
		width = 10
	}
	tr, ok := r.cache[width]
	if !ok {
		var err error
		tr, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
			glamour.WithEmoji(),
		)
		if err != nil {
			return "", fmt.Errorf("build renderer: %w", err)
		}
		r.cache[width] = tr
	}

	out, err := tr.Render(src)
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}
