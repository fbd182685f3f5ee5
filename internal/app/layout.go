package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// blankCanvas returns height lines of width spaces.
func blankCanvas(width, height int) []string {
	lines := make([]string, max(height, 0))
	row := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = row
	}
	return lines
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// overlayAt draws overlay onto base with its top-left corner at (x, y).
// Rows and columns falling outside the canvas are dropped.
func overlayAt(base []string, overlay string, x, y, width int) {
	overlayLines := strings.Split(overlay, "\n")

	overlayWidth := 0
	for _, line := range overlayLines {
		overlayWidth = max(overlayWidth, lipgloss.Width(line))
	}
	if x >= width || x+overlayWidth <= 0 {
		return
	}

	for i, overlayLine := range overlayLines {
		row := y + i
		if row < 0 || row >= len(base) {
			continue
		}

		baseLine := fit(base[row], width)
		left := ""
		if x > 0 {
			left = ansi.Cut(baseLine, 0, x)
		}
		if x < 0 {
			overlayLine = ansi.Cut(overlayLine, -x, overlayWidth)
		}
		right := ansi.Cut(baseLine, x+overlayWidth, width)

		// Pad short overlay rows so the tail of the base stays aligned.
		overlayLine = fit(overlayLine, min(overlayWidth, overlayWidth+min(x, 0)))

		base[row] = ansi.Truncate(left+overlayLine+right, width, "")
	}
}

// overlayCenter draws overlay centered on the canvas.
func overlayCenter(base []string, overlay string, width, height int) {
	lines := strings.Split(overlay, "\n")
	w := 0
	for _, l := range lines {
		w = max(w, lipgloss.Width(l))
	}
	x := max((width-w)/2, 0)
	y := max((height-len(lines))/2, 0)
	overlayAt(base, overlay, x, y, width)
}
