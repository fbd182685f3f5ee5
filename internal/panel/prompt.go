package panel

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pfassina/grimoire/internal/theme"
)

// PromptResultMsg is sent when the prompt is confirmed.
type PromptResultMsg struct {
	Purpose string
	Value   string
}

// PromptCancelledMsg is sent when the prompt is dismissed.
type PromptCancelledMsg struct {
	Purpose string
}

// ConfirmResultMsg is sent when a yes/no question is answered.
type ConfirmResultMsg struct {
	Purpose string
	Yes     bool
}

// Prompt is a centered overlay text input dialog. In confirm mode it asks a
// yes/no question instead of reading text.
type Prompt struct {
	input      textinput.Model
	title      string
	purpose    string
	width      int
	height     int
	visible    bool
	confirm    bool
	allowEmpty bool
	theme      *theme.Theme
}

func NewPrompt() Prompt {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40
	ti.Focus()

	return Prompt{input: ti}
}

// SetTheme sets the color theme for the prompt.
func (p *Prompt) SetTheme(th *theme.Theme) { p.theme = th }

// Show opens a text prompt. The purpose is echoed back in the result so the
// caller knows what the value is for.
func (p *Prompt) Show(purpose, title, placeholder, value string) {
	p.visible = true
	p.confirm = false
	p.allowEmpty = false
	p.purpose = purpose
	p.title = title
	p.input.Placeholder = placeholder
	p.input.SetValue(value)
	p.input.CursorEnd()
	p.input.Focus()
}

// AllowEmpty makes an empty submission a result instead of a cancel.
func (p *Prompt) AllowEmpty() {
	p.allowEmpty = true
}

// ShowConfirm opens a yes/no question.
func (p *Prompt) ShowConfirm(purpose, question string) {
	p.visible = true
	p.confirm = true
	p.purpose = purpose
	p.title = question
	p.input.Blur()
}

func (p *Prompt) Hide() {
	p.visible = false
	p.input.Blur()
}

func (p Prompt) Visible() bool {
	return p.visible
}

func (p Prompt) Purpose() string {
	return p.purpose
}

func (p Prompt) Update(msg tea.Msg) (Prompt, tea.Cmd) {
	if !p.visible {
		return p, nil
	}

	purpose := p.purpose
	if p.confirm {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "y", "Y", "enter":
				p.visible = false
				return p, func() tea.Msg { return ConfirmResultMsg{Purpose: purpose, Yes: true} }
			case "n", "N", "esc", "ctrl+c", "q":
				p.visible = false
				return p, func() tea.Msg { return ConfirmResultMsg{Purpose: purpose} }
			}
		}
		return p, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			value := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			if value == "" && !p.allowEmpty {
				return p, func() tea.Msg { return PromptCancelledMsg{Purpose: purpose} }
			}
			return p, func() tea.Msg { return PromptResultMsg{Purpose: purpose, Value: value} }

		case "esc", "ctrl+c":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PromptCancelledMsg{Purpose: purpose} }
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Prompt) View() string {
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

	dimStyle := lipgloss.NewStyle().
		Foreground(th.Dim)

	var lines []string
	lines = append(lines, titleStyle.Render(p.title))
	if p.confirm {
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render("y to confirm, n or Esc to cancel"))
	} else {
		lines = append(lines, p.input.View())
		lines = append(lines, "")
		lines = append(lines, dimStyle.Render("Enter to confirm, Esc to cancel"))
	}

	content := strings.Join(lines, "\n")
	return borderStyle.Render(content)
}

func (p *Prompt) SetSize(width, height int) {
	p.width = min(width, 64)
	p.height = height
	p.input.Width = p.width - 12
}
