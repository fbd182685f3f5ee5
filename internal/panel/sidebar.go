package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pfassina/grimoire/internal/theme"
)

// SidebarItem is one entry row in a window's sidebar.
type SidebarItem struct {
	Icon  string
	Name  string
	Pages int
}

// Sidebar renders the entry list of one window.
type Sidebar struct {
	Items   []SidebarItem
	Active  int
	Width   int
	Height  int
	Focused bool
	Theme   *theme.Theme
}

// Offset returns the first visible row so that the active row stays in view.
func (s Sidebar) Offset() int {
	if s.Height <= 0 || s.Active < s.Height {
		return 0
	}
	return s.Active - s.Height + 1
}

// View renders exactly Height lines of Width cells.
func (s Sidebar) View() string {
	if s.Width <= 0 || s.Height <= 0 {
		return ""
	}

	th := s.Theme
	if th == nil {
		d := theme.DefaultTheme()
		th = &d
	}

	normal := lipgloss.NewStyle().Foreground(th.Subtle)
	active := lipgloss.NewStyle().Foreground(th.Text).Bold(true)
	if s.Focused {
		active = active.Foreground(th.Accent)
	}

	lines := make([]string, 0, s.Height)
	for i := s.Offset(); i < len(s.Items) && len(lines) < s.Height; i++ {
		item := s.Items[i]
		marker := "  "
		style := normal
		if i == s.Active {
			marker = "▌ "
			style = active
		}

		line := marker
		if item.Icon != "" {
			line += theme.Glyph(item.Icon) + " "
		}
		line += item.Name
		line = ansi.Truncate(line, s.Width, "…")
		if pad := s.Width - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		lines = append(lines, style.Render(line))
	}
	for len(lines) < s.Height {
		lines = append(lines, strings.Repeat(" ", s.Width))
	}
	return strings.Join(lines, "\n")
}

// RowAt maps a row inside the sidebar to an item index, or -1.
func (s Sidebar) RowAt(row int) int {
	if row < 0 || row >= s.Height {
		return -1
	}
	i := s.Offset() + row
	if i >= len(s.Items) {
		return -1
	}
	return i
}
