package panel

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pfassina/grimoire/internal/theme"
)

// PickerItem is one selectable row.
type PickerItem struct {
	Title string
	Value string
	Extra string
}

// PickerResultMsg is sent when an item is chosen.
type PickerResultMsg struct {
	Purpose string
	Value   string
}

// PickerClosedMsg is sent when the picker is dismissed.
type PickerClosedMsg struct {
	Purpose string
}

// Picker is a filterable list overlay.
type Picker struct {
	input   textinput.Model
	title   string
	purpose string
	all     []PickerItem
	items   []PickerItem
	cursor  int
	width   int
	height  int
	visible bool
	theme   *theme.Theme
}

// SetTheme sets the color theme for the picker panel.
func (p *Picker) SetTheme(th *theme.Theme) { p.theme = th }

func NewPicker() Picker {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	return Picker{input: ti}
}

// Show opens the picker over items. The purpose is echoed back in the result.
func (p *Picker) Show(purpose, title string, items []PickerItem) {
	p.visible = true
	p.purpose = purpose
	p.title = title
	p.all = items
	p.items = items
	p.input.SetValue("")
	p.cursor = 0
	p.input.Focus()
}

func (p *Picker) Hide() {
	p.visible = false
	p.input.Blur()
}

func (p Picker) Visible() bool {
	return p.visible
}

// Items returns the rows matching the current filter.
func (p Picker) Items() []PickerItem {
	return p.items
}

func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	if !p.visible {
		return p, nil
	}

	purpose := p.purpose
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			p.Hide()
			return p, func() tea.Msg { return PickerClosedMsg{Purpose: purpose} }

		case "enter":
			if p.cursor < len(p.items) {
				item := p.items[p.cursor]
				p.Hide()
				return p, func() tea.Msg {
					return PickerResultMsg{Purpose: purpose, Value: item.Value}
				}
			}
			return p, nil

		case "up", "ctrl+p", "ctrl+k":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil

		case "down", "ctrl+n", "ctrl+j":
			if p.cursor < len(p.items)-1 {
				p.cursor++
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	prev := p.input.Value()
	p.input, cmd = p.input.Update(msg)

	if p.input.Value() != prev {
		p.items = Filter(p.all, p.input.Value())
		p.cursor = 0
	}

	return p, cmd
}

// Filter keeps the items whose title contains the query's characters in
// order, ignoring case.
func Filter(items []PickerItem, query string) []PickerItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}
	var out []PickerItem
	for _, it := range items {
		if subsequence(it.Title+" "+it.Extra, query) {
			out = append(out, it)
		}
	}
	return out
}

func subsequence(text, query string) bool {
	q := []rune(strings.ToLower(query))
	i := 0
	for _, r := range strings.ToLower(text) {
		if i < len(q) && (r == q[i] || unicode.IsSpace(q[i]) && unicode.IsSpace(r)) {
			i++
		}
	}
	return i == len(q)
}

func (p Picker) View() string {
	if !p.visible {
		return ""
	}

	th := p.theme
	if th == nil {
		d := theme.DefaultTheme()
		th = &d
	}

	width := p.width
	if width == 0 {
		width = 60
	}
	innerWidth := width - 6

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Accent).
		Padding(0, 1).
		Width(innerWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Accent)
	dim := lipgloss.NewStyle().Foreground(th.Dim)

	var lines []string
	lines = append(lines, titleStyle.Render(p.title))
	lines = append(lines, p.input.View())
	lines = append(lines, "")

	maxResults := max(p.height/2-4, 5)
	first := 0
	if p.cursor >= maxResults {
		first = p.cursor - maxResults + 1
	}
	last := min(first+maxResults, len(p.items))

	if len(p.items) == 0 {
		lines = append(lines, dim.Render("No matches"))
	}
	for i := first; i < last; i++ {
		item := p.items[i]
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(th.Text)
		if i == p.cursor {
			prefix = "> "
			style = lipgloss.NewStyle().Foreground(th.Accent).Bold(true)
		}

		line := prefix + item.Title
		if item.Extra != "" {
			line += " " + dim.Render(item.Extra)
		}
		lines = append(lines, style.Render(ansi.Truncate(line, innerWidth-2, "…")))
	}

	if rest := len(p.items) - last; rest > 0 {
		lines = append(lines, dim.Render(fmt.Sprintf("  ... and %d more", rest)))
	}

	content := strings.Join(lines, "\n")
	return borderStyle.Render(content)
}

func (p *Picker) SetSize(width, height int) {
	p.width = min(width, 70)
	p.height = height
	p.input.Width = p.width - 12
}
