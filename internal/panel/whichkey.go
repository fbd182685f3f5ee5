package panel

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pfassina/grimoire/internal/theme"
)

// WhichKeyEntry represents a single key binding for display.
type WhichKeyEntry struct {
	Key   string
	Label string
}

// WhichKey lists the bindings reachable from the current leader prefix.
// Groups (labels starting with "+") are listed before commands.
type WhichKey struct {
	entries []WhichKeyEntry
	prefix  string
	width   int
	theme   *theme.Theme
}

func NewWhichKey() WhichKey {
	return WhichKey{}
}

// SetTheme sets the color theme for the popup.
func (w *WhichKey) SetTheme(th *theme.Theme) { w.theme = th }

func (w *WhichKey) SetEntries(prefix string, entries []WhichKeyEntry) {
	w.prefix = prefix
	w.entries = entries
	sort.Slice(w.entries, func(i, j int) bool {
		gi := strings.HasPrefix(w.entries[i].Label, "+")
		gj := strings.HasPrefix(w.entries[j].Label, "+")
		if gi != gj {
			return gi
		}
		return w.entries[i].Key < w.entries[j].Key
	})
}

func (w *WhichKey) SetWidth(width int) {
	w.width = width
}

func (w *WhichKey) Clear() {
	w.entries = nil
	w.prefix = ""
}

func (w WhichKey) Visible() bool {
	return len(w.entries) > 0
}

func (w WhichKey) View() string {
	if len(w.entries) == 0 {
		return ""
	}

	th := w.theme
	if th == nil {
		d := theme.DefaultTheme()
		th = &d
	}
	width := w.width
	if width == 0 {
		width = 60
	}
	inner := max(width-4, 10)

	keyStyle := lipgloss.NewStyle().Foreground(th.Info).Bold(true)
	groupStyle := lipgloss.NewStyle().Foreground(th.Accent)
	labelStyle := lipgloss.NewStyle().Foreground(th.Text)

	cells := make([]string, len(w.entries))
	cellW := 0
	for i, e := range w.entries {
		label := labelStyle.Render(e.Label)
		if strings.HasPrefix(e.Label, "+") {
			label = groupStyle.Render(e.Label)
		}
		cells[i] = keyStyle.Render(e.Key) + " → " + label
		cellW = max(cellW, lipgloss.Width(cells[i]))
	}

	cols := max(inner/(cellW+2), 1)
	rows := (len(cells) + cols - 1) / cols

	// Fill column-major so related keys stay together when read downwards.
	lines := make([]string, 0, rows+1)
	if title := chordTitle(w.prefix); title != "" {
		lines = append(lines, groupStyle.Bold(true).Render(title))
	}
	for r := 0; r < rows; r++ {
		var row strings.Builder
		for c := 0; c < cols; c++ {
			i := c*rows + r
			if i >= len(cells) {
				break
			}
			row.WriteString(cells[i])
			if c < cols-1 {
				row.WriteString(strings.Repeat(" ", cellW+2-lipgloss.Width(cells[i])))
			}
		}
		lines = append(lines, row.String())
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Accent).
		Padding(0, 1).
		Width(inner).
		Render(strings.Join(lines, "\n"))
}

// chordTitle spells out a pending key sequence, showing space as SPC.
func chordTitle(keys string) string {
	parts := make([]string, 0, len(keys))
	for _, r := range keys {
		if r == ' ' {
			parts = append(parts, "SPC")
			continue
		}
		parts = append(parts, string(r))
	}
	return strings.Join(parts, " ")
}
