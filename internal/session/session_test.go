package session

import (
	"errors"
	"testing"

	"github.com/pfassina/grimoire/internal/book"
)

type counter struct{ n int }

func (c *counter) mark() { c.n++ }

func newTestManager(t *testing.T) (*Manager, *counter, string) {
	t.Helper()
	doc := book.DefaultDocument()
	c, err := doc.AddCategory("Second")
	if err != nil {
		t.Fatal(err)
	}
	dirty := &counter{}
	m := New(doc, Viewport{W: 120, H: 40}, dirty.mark)
	return m, dirty, c.ID
}

func TestOpenSingleWindow(t *testing.T) {
	m, dirty, other := newTestManager(t)

	m.Open(book.DefaultCategoryID)
	m.Open(other)
	m.Open(book.DefaultCategoryID)

	if n := len(m.Windows()); n != 2 {
		t.Fatalf("windows = %d, want 2", n)
	}
	if m.FocusedID() != book.DefaultCategoryID {
		t.Errorf("focused = %q, reopening should focus", m.FocusedID())
	}
	if dirty.n != 2 {
		t.Errorf("dirty marks = %d, want 2", dirty.n)
	}
	if !m.Document().Category(other).WindowState.IsOpen {
		t.Error("isOpen not persisted")
	}
}

func TestZOrder(t *testing.T) {
	m, _, other := newTestManager(t)
	m.Open(book.DefaultCategoryID)
	m.Open(other)

	if got := m.Z(other); got != OnTopBaseZ+10 {
		t.Errorf("focused z = %d", got)
	}
	if got := m.Z(book.DefaultCategoryID); got != OnTopBaseZ {
		t.Errorf("unfocused z = %d", got)
	}

	m.Document().AlwaysOnTop = false
	if got := m.Z(other); got != BaseZ+10 {
		t.Errorf("focused z without always-on-top = %d", got)
	}

	m.ToggleFullscreen(book.DefaultCategoryID)
	if got := m.Z(book.DefaultCategoryID); got != FullscreenZ+10 {
		t.Errorf("fullscreen focused z = %d", got)
	}
	ws := m.Windows()
	if ws[len(ws)-1].CategoryID != book.DefaultCategoryID {
		t.Error("fullscreen window not on top")
	}
	if m.Window(book.DefaultCategoryID).Rect != m.Viewport().Full() {
		t.Errorf("fullscreen rect = %+v", m.Window(book.DefaultCategoryID).Rect)
	}

	m.ToggleFullscreen(book.DefaultCategoryID)
	want := rectOf(m.Document().Category(book.DefaultCategoryID).WindowState)
	if got := m.Window(book.DefaultCategoryID).Rect; got != want {
		t.Errorf("restored rect = %+v, want %+v", got, want)
	}
}

func TestCloseFocusesPrevious(t *testing.T) {
	m, _, other := newTestManager(t)
	third, _ := m.Document().AddCategory("Third")

	m.Open(book.DefaultCategoryID)
	m.Open(other)
	m.Open(third.ID)
	m.Focus(book.DefaultCategoryID)
	m.Close(book.DefaultCategoryID)

	if m.FocusedID() != third.ID {
		t.Errorf("focused = %q, want most recent %q", m.FocusedID(), third.ID)
	}
	if m.Document().Category(book.DefaultCategoryID).WindowState.IsOpen {
		t.Error("closed window still marked open")
	}

	m.Close("missing")
}

func TestDispatch(t *testing.T) {
	m, _, other := newTestManager(t)
	doc := m.Document()
	doc.SetShortcut(book.DefaultCategoryID, "Ctrl+Alt+G")

	if m.Dispatch("Ctrl+Alt+G", true) {
		t.Fatal("dispatched from a text input")
	}
	if !m.Dispatch("Ctrl+Alt+G", false) || !m.IsOpen(book.DefaultCategoryID) {
		t.Fatal("closed window not opened")
	}

	m.Open(other)
	m.Dispatch("Ctrl+Alt+G", false)
	if m.FocusedID() != book.DefaultCategoryID {
		t.Error("open window not focused")
	}

	m.Dispatch("Ctrl+Alt+G", false)
	if m.IsOpen(book.DefaultCategoryID) {
		t.Error("focused window not closed")
	}

	if m.Dispatch("Ctrl+Alt+X", false) {
		t.Error("unbound chord dispatched")
	}

	doc.IsEnabled = false
	if m.Dispatch("Ctrl+Alt+G", false) {
		t.Error("dispatched while disabled")
	}
}

func TestDragCommitsOnRelease(t *testing.T) {
	m, dirty, _ := newTestManager(t)
	m.Open(book.DefaultCategoryID)
	ws := &m.Document().Category(book.DefaultCategoryID).WindowState
	start := rectOf(*ws)
	dirty.n = 0

	if !m.BeginDrag(book.DefaultCategoryID, Point{X: 10, Y: 5}) {
		t.Fatal("drag refused")
	}
	m.PointerMove(Point{X: 13, Y: 6})
	m.PointerMove(Point{X: 15, Y: 7})

	if dirty.n != 0 {
		t.Errorf("persisted during drag: %d marks", dirty.n)
	}
	if rectOf(*ws) != start {
		t.Error("window state changed before release")
	}
	live := m.Window(book.DefaultCategoryID).Rect
	if live.X != start.X+5 || live.Y != start.Y+2 {
		t.Errorf("live rect = %+v", live)
	}

	m.PointerUp()
	if dirty.n != 1 {
		t.Errorf("dirty marks after release = %d, want 1", dirty.n)
	}
	if int(ws.Left) != start.X+5 || int(ws.Top) != start.Y+2 {
		t.Errorf("committed = %d,%d", ws.Left, ws.Top)
	}
}

func TestNudgePastEdgeKeepsSize(t *testing.T) {
	m, _, _ := newTestManager(t)
	m.Open(book.DefaultCategoryID)
	before := m.Window(book.DefaultCategoryID).Rect

	if !m.Nudge(book.DefaultCategoryID, -500, -500) {
		t.Fatal("nudge refused")
	}
	got := m.Window(book.DefaultCategoryID).Rect
	if got.X != 0 || got.Y != 0 {
		t.Errorf("not pinned to the top-left edge: %+v", got)
	}
	if got.W != before.W || got.H != before.H {
		t.Errorf("size changed from %dx%d to %dx%d", before.W, before.H, got.W, got.H)
	}
}

func TestLockedIgnoresGestures(t *testing.T) {
	m, _, _ := newTestManager(t)
	m.Open(book.DefaultCategoryID)
	before := m.Window(book.DefaultCategoryID).Rect

	m.ToggleLock(book.DefaultCategoryID)
	if m.Nudge(book.DefaultCategoryID, 5, 5) {
		t.Error("locked window moved")
	}
	m.ToggleLock(book.DefaultCategoryID)

	m.Document().LockLayout = true
	if m.Grow(book.DefaultCategoryID, 5, 5) {
		t.Error("window resized under global lock")
	}
	if m.Window(book.DefaultCategoryID).Rect != before {
		t.Error("geometry changed")
	}
}

func TestResizeFloorAndViewport(t *testing.T) {
	m, _, _ := newTestManager(t)
	m.Open(book.DefaultCategoryID)

	m.Grow(book.DefaultCategoryID, -500, -500)
	r := m.Window(book.DefaultCategoryID).Rect
	if r.W != MinWidth || r.H != MinHeight {
		t.Errorf("shrunk to %dx%d, want floor %dx%d", r.W, r.H, MinWidth, MinHeight)
	}

	m.Grow(book.DefaultCategoryID, 500, 500)
	r = m.Window(book.DefaultCategoryID).Rect
	if r.X+r.W > 120 || r.Y+r.H > 40-1 {
		t.Errorf("grew past viewport: %+v", r)
	}
}

func TestViewportKeepsPersistedBounds(t *testing.T) {
	m, dirty, _ := newTestManager(t)
	m.Open(book.DefaultCategoryID)
	ws := m.Document().Category(book.DefaultCategoryID).WindowState
	dirty.n = 0

	m.SetViewport(Viewport{W: 40, H: 12})
	r := m.Window(book.DefaultCategoryID).Rect
	if r.X+r.W > 40 || r.Y+r.H > 11 {
		t.Errorf("not clamped to small viewport: %+v", r)
	}

	m.SetViewport(Viewport{W: 200, H: 60})
	if got := m.Window(book.DefaultCategoryID).Rect; got != rectOf(ws) {
		t.Errorf("persisted bounds lost: %+v", got)
	}
	if dirty.n != 0 {
		t.Error("viewport change marked dirty")
	}
}

func TestClamp(t *testing.T) {
	all := book.DefaultSettings().Boundaries
	none := book.Boundaries{}
	vp := Viewport{W: 100, H: 30}

	tests := []struct {
		name string
		in   Rect
		b    book.Boundaries
		want Rect
	}{
		{"inside", Rect{10, 5, 40, 10}, all, Rect{10, 5, 40, 10}},
		{"past right moves left", Rect{80, 5, 40, 10}, all, Rect{60, 5, 40, 10}},
		{"past bottom offset", Rect{0, 25, 40, 10}, all, Rect{0, 19, 40, 10}},
		{"negative pinned", Rect{-5, -3, 40, 10}, all, Rect{0, 0, 40, 10}},
		{"too wide shrinks", Rect{0, 0, 150, 10}, all, Rect{0, 0, 100, 10}},
		{"below floor grows", Rect{0, 0, 5, 2}, all, Rect{0, 0, MinWidth, MinHeight}},
		{"edges off", Rect{90, 25, 40, 10}, none, Rect{90, 25, 40, 10}},
		{
			"floor beats boundary",
			Rect{0, 0, 40, 10},
			book.Boundaries{Left: book.Edge{Enabled: true}, Right: book.Edge{Enabled: true, Offset: 80}},
			Rect{0, 0, MinWidth, 10},
		},
		{
			"offset edges shrink between",
			Rect{0, 0, 100, 10},
			book.Boundaries{Left: book.Edge{Enabled: true, Offset: 5}, Right: book.Edge{Enabled: true, Offset: 5}},
			Rect{5, 0, 90, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.in, vp, tt.b); got != tt.want {
				t.Errorf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseChord(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"ctrl+alt+g", "Ctrl+Alt+G", false},
		{"Shift+Ctrl+1", "Ctrl+Shift+1", false},
		{"alt+Alt+x", "Alt+X", false},
		{"", "", false},
		{"g", "", true},
		{"ctrl+", "", true},
		{"ctrl+a+b", "", true},
	}
	for _, tt := range tests {
		got, err := ParseChord(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseChord(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseChord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApply(t *testing.T) {
	m, dirty, other := newTestManager(t)

	if _, err := m.Apply(Event{Kind: KindDeleteEntry, CategoryID: "gone", EntryID: "x"}); err != nil {
		t.Errorf("stale event returned %v", err)
	}
	if dirty.n != 0 {
		t.Error("stale event marked dirty")
	}

	m.Open(other)
	if _, err := m.Apply(Event{Kind: KindDeleteCategory, CategoryID: other}); err != nil {
		t.Fatal(err)
	}
	if m.IsOpen(other) {
		t.Error("window of deleted category still open")
	}

	_, err := m.Apply(Event{Kind: KindDeleteCategory, CategoryID: book.DefaultCategoryID})
	if !errors.Is(err, book.ErrPreconditionFailed) {
		t.Errorf("deleting last category = %v", err)
	}

	res, err := m.Apply(Event{Kind: KindAddCategory, Name: "Runes"})
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsOpen(res.CategoryID) || m.FocusedID() != res.CategoryID {
		t.Error("new category not opened")
	}

	res, err = m.Apply(Event{Kind: KindMoveEntry, CategoryID: book.DefaultCategoryID, EntryID: book.DefaultEntryID, Name: "Moved"})
	if err != nil {
		t.Fatal(err)
	}
	if c := m.Document().Category(res.CategoryID); c == nil || c.Entries[0].ID != book.DefaultEntryID {
		t.Error("entry not moved to a new category")
	}

	if _, err := m.Apply(Event{Kind: KindSetShortcut, CategoryID: res.CategoryID, Chord: "q"}); !errors.Is(err, book.ErrPreconditionFailed) {
		t.Errorf("bare key chord = %v", err)
	}
}

func TestApplyEditPage(t *testing.T) {
	m, _, _ := newTestManager(t)
	doc := m.Document()
	doc.PaginateLimit = 10

	res, err := m.Apply(Event{
		Kind:       KindEditPage,
		CategoryID: book.DefaultCategoryID,
		EntryID:    book.DefaultEntryID,
		Page:       1,
		Content:    "abcdefghij\nklmno",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Edit.Paginated {
		t.Error("edit did not paginate")
	}

	_, err = m.Apply(Event{Kind: KindEditPage, CategoryID: book.DefaultCategoryID, EntryID: book.DefaultEntryID, Page: 999})
	if err != nil {
		t.Errorf("stale page edit = %v, want dropped", err)
	}
}
