package session

import (
	"errors"
	"fmt"

	"github.com/pfassina/grimoire/internal/book"
)

// Kind identifies a user intent reported by the view.
type Kind int

const (
	KindOpen Kind = iota
	KindClose
	KindFocus
	KindDragStart
	KindDragMove
	KindDragEnd
	KindResizeStart
	KindResizeMove
	KindResizeEnd
	KindAddEntry
	KindDeleteEntry
	KindMoveEntry
	KindReorderEntry
	KindSelectEntry
	KindAddPage
	KindDeletePage
	KindNextPage
	KindPrevPage
	KindGotoPage
	KindEditPage
	KindRenameCategory
	KindRenameEntry
	KindAddCategory
	KindDeleteCategory
	KindSetBackground
	KindSetIcon
	KindToggleLock
	KindToggleFullscreen
	KindSetShortcut
	KindSetDefault
	KindSidebarWidth
	KindToggle
)

var kindNames = [...]string{
	KindOpen:             "open",
	KindClose:            "close",
	KindFocus:            "focus",
	KindDragStart:        "drag-start",
	KindDragMove:         "drag-move",
	KindDragEnd:          "drag-end",
	KindResizeStart:      "resize-start",
	KindResizeMove:       "resize-move",
	KindResizeEnd:        "resize-end",
	KindAddEntry:         "add-entry",
	KindDeleteEntry:      "delete-entry",
	KindMoveEntry:        "move-entry",
	KindReorderEntry:     "reorder-entry",
	KindSelectEntry:      "select-entry",
	KindAddPage:          "add-page",
	KindDeletePage:       "delete-page",
	KindNextPage:         "next-page",
	KindPrevPage:         "prev-page",
	KindGotoPage:         "goto-page",
	KindEditPage:         "edit-page",
	KindRenameCategory:   "rename-category",
	KindRenameEntry:      "rename-entry",
	KindAddCategory:      "add-category",
	KindDeleteCategory:   "delete-category",
	KindSetBackground:    "set-background",
	KindSetIcon:          "set-icon",
	KindToggleLock:       "toggle-lock",
	KindToggleFullscreen: "toggle-fullscreen",
	KindSetShortcut:      "set-shortcut",
	KindSetDefault:       "set-default",
	KindSidebarWidth:     "sidebar-width",
	KindToggle:           "toggle",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one user intent. Only the fields relevant to Kind are read.
type Event struct {
	Kind       Kind
	CategoryID string
	EntryID    string

	// TargetID is the destination category of a move; empty means a new
	// category named Name.
	TargetID string
	Name     string
	Icon     string
	Chord    string
	Content  string
	Page     int
	From, To int
	Width    int

	Point      Point
	Background book.Background
}

// Result carries what an event produced.
type Result struct {
	// CategoryID is the category created by add-category or move-entry.
	CategoryID string
	Edit       book.EditResult
}

// Apply routes an event to its operation. Events aimed at categories,
// entries or pages that no longer exist are dropped without error. Refused
// operations return an error wrapping book.ErrPreconditionFailed and leave
// the document unchanged.
func (m *Manager) Apply(ev Event) (Result, error) {
	res, changed, err := m.apply(ev)
	if errors.Is(err, book.ErrStaleReference) {
		return Result{}, nil
	}
	if err != nil {
		return Result{}, err
	}
	if changed {
		m.markDirty()
	}
	return res, nil
}

func (m *Manager) apply(ev Event) (Result, bool, error) {
	d := m.doc
	var res Result

	switch ev.Kind {
	case KindOpen:
		m.Open(ev.CategoryID)
	case KindClose:
		m.Close(ev.CategoryID)
	case KindFocus:
		m.Focus(ev.CategoryID)
	case KindToggle:
		if ev.CategoryID == "" {
			m.ToggleDefault()
		} else {
			m.Toggle(ev.CategoryID)
		}
	case KindDragStart:
		m.BeginDrag(ev.CategoryID, ev.Point)
	case KindResizeStart:
		m.BeginResize(ev.CategoryID, ev.Point)
	case KindDragMove, KindResizeMove:
		m.PointerMove(ev.Point)
	case KindDragEnd, KindResizeEnd:
		m.PointerUp()
	case KindToggleLock:
		m.ToggleLock(ev.CategoryID)
	case KindToggleFullscreen:
		m.ToggleFullscreen(ev.CategoryID)

	case KindAddCategory:
		c, err := d.AddCategory(ev.Name)
		if err != nil {
			return res, false, err
		}
		res.CategoryID = c.ID
		m.Open(c.ID)
		return res, true, nil
	case KindDeleteCategory:
		if err := d.DeleteCategory(ev.CategoryID); err != nil {
			return res, false, err
		}
		m.prune()
		return res, true, nil
	case KindRenameCategory:
		return res, true, d.RenameCategory(ev.CategoryID, ev.Name)
	case KindSetDefault:
		return res, true, d.SetDefaultCategory(ev.CategoryID)
	case KindSetShortcut:
		chord, err := ParseChord(ev.Chord)
		if err != nil {
			return res, false, err
		}
		return res, true, d.SetShortcut(ev.CategoryID, chord)
	case KindSetIcon:
		return res, true, d.SetIcon(ev.CategoryID, ev.EntryID, ev.Icon)
	case KindSetBackground:
		if ev.EntryID != "" {
			return res, true, d.SetEntryBackground(ev.CategoryID, ev.EntryID, ev.Background)
		}
		return res, true, d.SetCategoryBackground(ev.CategoryID, ev.Background)
	case KindSidebarWidth:
		return res, true, d.SetSidebarWidth(ev.CategoryID, ev.Width)

	case KindAddEntry:
		_, err := d.AddEntry(ev.CategoryID, ev.Name)
		return res, true, err
	case KindDeleteEntry:
		return res, true, d.DeleteEntry(ev.CategoryID, ev.EntryID)
	case KindRenameEntry:
		return res, true, d.RenameEntry(ev.CategoryID, ev.EntryID, ev.Name)
	case KindSelectEntry:
		return res, true, d.SelectEntry(ev.CategoryID, ev.EntryID)
	case KindReorderEntry:
		return res, true, d.ReorderEntry(ev.CategoryID, ev.From, ev.To)
	case KindMoveEntry:
		if ev.TargetID == "" {
			c, err := d.MoveEntryToNewCategory(ev.CategoryID, ev.EntryID, ev.Name)
			if err != nil {
				return res, false, err
			}
			res.CategoryID = c.ID
			return res, true, nil
		}
		res.CategoryID = ev.TargetID
		return res, true, d.MoveEntry(ev.CategoryID, ev.EntryID, ev.TargetID)

	case KindAddPage:
		return res, true, d.AddPage(ev.CategoryID, ev.Content)
	case KindDeletePage:
		return res, true, d.DeletePage(ev.CategoryID)
	case KindNextPage:
		return res, d.NextPage(ev.CategoryID), nil
	case KindPrevPage:
		return res, d.PrevPage(ev.CategoryID), nil
	case KindGotoPage:
		return res, true, d.GotoPage(ev.CategoryID, ev.Page)
	case KindEditPage:
		edit, err := d.EditPage(book.PageRef{
			CategoryID: ev.CategoryID,
			EntryID:    ev.EntryID,
			PageIndex:  ev.Page,
		}, ev.Content)
		res.Edit = edit
		return res, true, err

	default:
		return res, false, fmt.Errorf("unknown event %v", ev.Kind)
	}
	return res, false, nil
}
