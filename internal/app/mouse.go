package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfassina/grimoire/internal/session"
)

const wheelStep = 3

// handleMouse turns pointer input into window gestures: drag by the title
// row, resize from the bottom right corner, click to focus or pick an entry,
// and wheel to scroll.
func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.prompt.Visible() || a.picker.Visible() || a.editor != nil {
		return nil
	}
	p := session.Point{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionMotion:
		if !a.mgr.Dragging() {
			return nil
		}
		kind := session.KindDragMove
		if a.gesture == "RESIZE" {
			kind = session.KindResizeMove
		}
		return a.apply(session.Event{Kind: kind, Point: p})

	case tea.MouseActionRelease:
		kind := session.KindDragEnd
		if a.gesture == "RESIZE" {
			kind = session.KindResizeEnd
		}
		a.gesture = ""
		if !a.mgr.Dragging() {
			return nil
		}
		return a.apply(session.Event{Kind: kind})
	}

	w := a.mgr.WindowAt(p)
	if w == nil {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		a.scrollBy(w.CategoryID, -wheelStep)
		return nil
	case tea.MouseButtonWheelDown:
		a.scrollBy(w.CategoryID, wheelStep)
		return nil
	case tea.MouseButtonLeft:
		return a.press(w, p)
	}
	return nil
}

func (a *App) press(w *session.Window, p session.Point) tea.Cmd {
	c := a.mgr.Document().Category(w.CategoryID)
	if c == nil {
		return nil
	}
	f := a.frameOf(w, c)
	lx, ly := p.X-w.Rect.X, p.Y-w.Rect.Y
	id := w.CategoryID

	switch {
	case ly == 0:
		cmd := a.apply(session.Event{Kind: session.KindDragStart, CategoryID: id, Point: p})
		if a.mgr.Dragging() {
			a.gesture = "MOVE"
		}
		return cmd

	case lx == w.Rect.W-1 && ly == w.Rect.H-1:
		cmd := a.apply(session.Event{Kind: session.KindResizeStart, CategoryID: id, Point: p})
		if a.mgr.Dragging() {
			a.gesture = "RESIZE"
		}
		return cmd
	}

	focus := a.apply(session.Event{Kind: session.KindFocus, CategoryID: id})

	content := ly - 1
	if content < 0 || content >= w.Rect.H-2 {
		return focus
	}

	if f.sidebarW > 0 && lx >= 1 && lx < 1+f.sidebarW {
		i := a.sidebarFor(c, f, true).RowAt(content)
		if i < 0 {
			return focus
		}
		delete(a.scroll, id)
		return a.apply(session.Event{Kind: session.KindSelectEntry, CategoryID: id, EntryID: c.Entries[i].ID})
	}

	if f.footer && content == f.bodyH {
		bx := lx - f.bodyX
		switch {
		case bx >= 0 && bx < 2:
			return a.turnPage(id, session.KindPrevPage)
		case bx >= f.bodyW-2 && bx < f.bodyW:
			return a.turnPage(id, session.KindNextPage)
		}
	}
	return focus
}
