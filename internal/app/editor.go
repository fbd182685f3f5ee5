package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfassina/grimoire/internal/markdown"
	"github.com/pfassina/grimoire/internal/panel"
	"github.com/pfassina/grimoire/internal/session"
)

// pageEditor edits one page in place of a window body. The page reference is
// fixed when editing starts; saving against a page that no longer exists is
// dropped.
type pageEditor struct {
	catID    string
	entryID  string
	page     int
	original string
	ta       textarea.Model
}

// toolbar maps alt chords to formatting styles.
var toolbar = map[string]markdown.Style{
	"alt+b": markdown.Bold,
	"alt+i": markdown.Italic,
	"alt+s": markdown.Strikethrough,
	"alt+l": markdown.Link,
	"alt+m": markdown.Image,
	"alt+c": markdown.Code,
	"alt+q": markdown.Quote,
	"alt+u": markdown.Bullet,
	"alt+o": markdown.Number,
	"alt+t": markdown.Task,
	"alt+1": markdown.H1,
	"alt+2": markdown.H2,
	"alt+3": markdown.H3,
}

func (a *App) startEdit() tea.Cmd {
	c := a.focusedCategory()
	if c == nil {
		return a.status.Notify(panel.LevelWarn, "No window is open")
	}
	e := c.ActiveEntry()
	p := c.ActivePage()
	if e == nil || p == nil {
		return a.status.Notify(panel.LevelWarn, "Nothing to edit")
	}
	idx := c.WindowState.ActivePageIndex
	if idx < 0 || idx >= len(e.Pages) {
		idx = 0
	}

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetValue(p.Content)
	ta.Focus()

	a.cancelLeader()
	a.editor = &pageEditor{
		catID:    c.ID,
		entryID:  e.ID,
		page:     idx,
		original: p.Content,
		ta:       ta,
	}
	a.resizeEditor()
	return tea.Batch(textarea.Blink, a.status.Notify(panel.LevelInfo, "ctrl+s save · esc cancel · alt+f format"))
}

func (a *App) resizeEditor() {
	ed := a.editor
	w := a.mgr.Window(ed.catID)
	c := a.mgr.Document().Category(ed.catID)
	if w == nil || c == nil {
		return
	}
	f := a.frameOf(w, c)
	ed.ta.SetWidth(max(f.bodyW, 1))
	ed.ta.SetHeight(max(f.bodyH, 1))
}

func (a *App) updateEditor(msg tea.Msg) tea.Cmd {
	ed := a.editor
	if a.mgr.Window(ed.catID) == nil {
		// The window closed underneath the editor.
		a.editor = nil
		return nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch k := key.String(); k {
		case "ctrl+s":
			return a.saveEdit()
		case "esc":
			if ed.ta.Value() != ed.original {
				a.prompt.ShowConfirm("discard-edit", "Discard changes to this page?")
				return nil
			}
			a.editor = nil
			return nil
		case "alt+f":
			ed.ta.SetValue(markdown.Format(ed.ta.Value()))
			return nil
		default:
			if style, ok := toolbar[k]; ok {
				applyStyle(&ed.ta, style)
				return nil
			}
		}
	}

	var cmd tea.Cmd
	ed.ta, cmd = ed.ta.Update(msg)
	return cmd
}

// saveEdit commits the editor content and closes it.
func (a *App) saveEdit() tea.Cmd {
	ed := a.editor
	a.editor = nil
	if ed.ta.Value() == ed.original {
		return nil
	}

	res, cmd := a.applyResult(session.Event{
		Kind:       session.KindEditPage,
		CategoryID: ed.catID,
		EntryID:    ed.entryID,
		Page:       ed.page,
		Content:    ed.ta.Value(),
	})
	if cmd != nil {
		return cmd
	}
	if res.Edit.Paginated {
		return a.status.Notify(panel.LevelInfo, fmt.Sprintf("Page saved; entry reflowed into %d pages", res.Edit.Pages))
	}
	return a.status.Notify(panel.LevelInfo, "Page saved")
}

// applyStyle inserts a wrap style at the cursor or toggles a line style on
// the cursor row.
func applyStyle(ta *textarea.Model, style markdown.Style) {
	if !style.IsLine() {
		ta.InsertString(style.Wrap(""))
		return
	}

	row := ta.Line()
	lines := strings.Split(ta.Value(), "\n")
	if row < 0 || row >= len(lines) {
		return
	}
	lines[row] = style.PrefixLine(lines[row])
	ta.SetValue(strings.Join(lines, "\n"))

	// SetValue leaves the cursor at the end; walk back to the edited row.
	for guard := len(lines) * 4; ta.Line() > row && guard > 0; guard-- {
		ta.CursorUp()
	}
	ta.CursorEnd()
}
