package theme

import (
	"regexp"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color palette used by every window and panel.
// Panels hold a *Theme pointer so in-place changes (e.g. a new accent color
// from settings) are visible on the next View() call.
type Theme struct {
	Name     string
	Bg       lipgloss.Color
	Accent   lipgloss.Color
	Subtle   lipgloss.Color
	Text     lipgloss.Color
	Dim      lipgloss.Color
	Border   lipgloss.Color
	Locked   lipgloss.Color
	StatusBg lipgloss.Color
	StatusFg lipgloss.Color
	Info     lipgloss.Color
	Warn     lipgloss.Color
	Error    lipgloss.Color
	// Glamour names the glamour standard style used for page bodies.
	Glamour string
}

var themes = map[string]Theme{
	"catppuccin": {
		Name:     "catppuccin",
		Bg:       lipgloss.Color("#1e1e2e"),
		Accent:   lipgloss.Color("#cba6f7"),
		Subtle:   lipgloss.Color("#6c7086"),
		Text:     lipgloss.Color("#cdd6f4"),
		Dim:      lipgloss.Color("#585b70"),
		Border:   lipgloss.Color("#45475a"),
		Locked:   lipgloss.Color("#f9e2af"),
		StatusBg: lipgloss.Color("#313244"),
		StatusFg: lipgloss.Color("#cdd6f4"),
		Info:     lipgloss.Color("#89b4fa"),
		Warn:     lipgloss.Color("#fab387"),
		Error:    lipgloss.Color("#f38ba8"),
		Glamour:  "dark",
	},
	"nord": {
		Name:     "nord",
		Bg:       lipgloss.Color("#2e3440"),
		Accent:   lipgloss.Color("#88c0d0"),
		Subtle:   lipgloss.Color("#4c566a"),
		Text:     lipgloss.Color("#eceff4"),
		Dim:      lipgloss.Color("#434c5e"),
		Border:   lipgloss.Color("#3b4252"),
		Locked:   lipgloss.Color("#ebcb8b"),
		StatusBg: lipgloss.Color("#3b4252"),
		StatusFg: lipgloss.Color("#eceff4"),
		Info:     lipgloss.Color("#81a1c1"),
		Warn:     lipgloss.Color("#d08770"),
		Error:    lipgloss.Color("#bf616a"),
		Glamour:  "dark",
	},
	"gruvbox": {
		Name:     "gruvbox",
		Bg:       lipgloss.Color("#282828"),
		Accent:   lipgloss.Color("#d79921"),
		Subtle:   lipgloss.Color("#665c54"),
		Text:     lipgloss.Color("#ebdbb2"),
		Dim:      lipgloss.Color("#504945"),
		Border:   lipgloss.Color("#3c3836"),
		Locked:   lipgloss.Color("#fabd2f"),
		StatusBg: lipgloss.Color("#3c3836"),
		StatusFg: lipgloss.Color("#ebdbb2"),
		Info:     lipgloss.Color("#83a598"),
		Warn:     lipgloss.Color("#fe8019"),
		Error:    lipgloss.Color("#fb4934"),
		Glamour:  "dark",
	},
	"tokyo-night": {
		Name:     "tokyo-night",
		Bg:       lipgloss.Color("#1a1b26"),
		Accent:   lipgloss.Color("#7aa2f7"),
		Subtle:   lipgloss.Color("#565f89"),
		Text:     lipgloss.Color("#c0caf5"),
		Dim:      lipgloss.Color("#414868"),
		Border:   lipgloss.Color("#292e42"),
		Locked:   lipgloss.Color("#e0af68"),
		StatusBg: lipgloss.Color("#1f2335"),
		StatusFg: lipgloss.Color("#c0caf5"),
		Info:     lipgloss.Color("#7dcfff"),
		Warn:     lipgloss.Color("#ff9e64"),
		Error:    lipgloss.Color("#f7768e"),
		Glamour:  "dark",
	},
	"parchment": {
		Name:     "parchment",
		Bg:       lipgloss.Color("#f4ecd8"),
		Accent:   lipgloss.Color("#8b4513"),
		Subtle:   lipgloss.Color("#a08c6c"),
		Text:     lipgloss.Color("#3b2f2f"),
		Dim:      lipgloss.Color("#b8a888"),
		Border:   lipgloss.Color("#c8b48c"),
		Locked:   lipgloss.Color("#b8860b"),
		StatusBg: lipgloss.Color("#e6d9b8"),
		StatusFg: lipgloss.Color("#3b2f2f"),
		Info:     lipgloss.Color("#4a6d8c"),
		Warn:     lipgloss.Color("#c0651b"),
		Error:    lipgloss.Color("#a52a2a"),
		Glamour:  "light",
	},
}

// Get returns a theme by name, defaulting to catppuccin.
func Get(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["catppuccin"]
}

// DefaultTheme returns the default color palette (catppuccin).
func DefaultTheme() Theme {
	return Get("catppuccin")
}

// Names lists the known themes in order.
func Names() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// SetAccent overrides the accent with a #rgb or #rrggbb color. Anything else
// restores the palette's own accent.
func (t *Theme) SetAccent(hex string) {
	if hexColor.MatchString(hex) {
		t.Accent = lipgloss.Color(hex)
		return
	}
	t.Accent = Get(t.Name).Accent
}
