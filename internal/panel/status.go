package panel

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pfassina/grimoire/internal/theme"
)

// Level is the severity of a status notification.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// NotifyTimeout is how long a notification stays on the status bar.
const NotifyTimeout = 4 * time.Second

// NotifyExpiredMsg clears the notification with the matching id.
type NotifyExpiredMsg struct {
	ID int
}

// Status is the status bar at the bottom.
type Status struct {
	width   int
	mode    string
	context string
	right   string
	note    string
	level   Level
	noteID  int
	theme   *theme.Theme
}

func NewStatus() Status {
	return Status{mode: "NORMAL"}
}

// SetTheme sets the color theme for the status bar.
func (s *Status) SetTheme(th *theme.Theme) { s.theme = th }

func (s *Status) SetMode(mode string) {
	s.mode = mode
}

// SetContext sets the text after the mode, usually category and entry.
func (s *Status) SetContext(context string) {
	s.context = context
}

// SetRight sets the right-aligned indicators.
func (s *Status) SetRight(right string) {
	s.right = right
}

func (s *Status) SetWidth(width int) {
	s.width = width
}

// Notify shows msg in place of the context until it expires. The returned
// command delivers the expiry.
func (s *Status) Notify(level Level, msg string) tea.Cmd {
	s.noteID++
	s.note = msg
	s.level = level
	id := s.noteID
	return tea.Tick(NotifyTimeout, func(time.Time) tea.Msg {
		return NotifyExpiredMsg{ID: id}
	})
}

// Expire clears the notification if it is still the one identified by id.
func (s *Status) Expire(id int) {
	if id == s.noteID {
		s.note = ""
	}
}

// Note returns the notification currently shown.
func (s Status) Note() (string, Level) {
	return s.note, s.level
}

func (s Status) View() string {
	if s.width == 0 {
		return ""
	}

	th := s.theme
	if th == nil {
		d := theme.DefaultTheme()
		th = &d
	}

	bgStyle := lipgloss.NewStyle().
		Background(th.StatusBg)

	modeColor := th.Accent
	switch s.mode {
	case "EDIT":
		modeColor = th.Info
	case "MOVE", "RESIZE":
		modeColor = th.Warn
	}

	modeStyle := lipgloss.NewStyle().
		Background(modeColor).
		Foreground(th.Bg).
		Bold(true).
		Padding(0, 1)

	textStyle := lipgloss.NewStyle().
		Background(th.StatusBg).
		Foreground(th.StatusFg).
		Padding(0, 1)

	mode := modeStyle.Render(s.mode)

	var middle string
	if s.note != "" {
		color := th.Info
		switch s.level {
		case LevelWarn:
			color = th.Warn
		case LevelError:
			color = th.Error
		}
		middle = textStyle.Foreground(color).Render(s.note)
	} else {
		middle = textStyle.Render(s.context)
	}

	left := mode + middle

	right := ""
	if s.right != "" {
		right = textStyle.Render(s.right)
	}

	padLen := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	padding := bgStyle.Render(strings.Repeat(" ", padLen))

	return left + padding + right
}
