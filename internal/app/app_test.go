package app

import (
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfassina/grimoire/internal/book"
	"github.com/pfassina/grimoire/internal/config"
	"github.com/pfassina/grimoire/internal/migrate"
	"github.com/pfassina/grimoire/internal/panel"
	"github.com/pfassina/grimoire/internal/vault"
)

type memGateway struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func (g *memGateway) Load() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.data, nil
}

func (g *memGateway) Save(data []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.data = data
	g.saves++
	return nil
}

func newTestApp(t *testing.T) (*App, *memGateway) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.DataDir = dir
	cfg.SaveDelay = 60000

	gw := &memGateway{}
	a := New(Options{Config: cfg, Vault: vault.New(dir), Gateway: gw, Doc: book.DefaultDocument()})
	t.Cleanup(a.Close)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a, gw
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys in order and returns the command of the last one.
func press(a *App, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = a.Update(key(k))
	}
	return cmd
}

// deliver runs a prompt or picker command and feeds its message back.
func deliver(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	a.Update(cmd())
}

func TestKeyChord(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want string
	}{
		{"plain", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}}, ""},
		{"alt", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}, Alt: true}, "Alt+G"},
		{"ctrl", tea.KeyMsg{Type: tea.KeyCtrlG}, "Ctrl+G"},
		{"upper", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}}, "Shift+G"},
		{"shift arrow", tea.KeyMsg{Type: tea.KeyShiftLeft}, "Shift+LEFT"},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keyChord(tt.msg); got != tt.want {
				t.Errorf("keyChord(%q) = %q, want %q", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestOverlayAt(t *testing.T) {
	base := blankCanvas(10, 3)
	overlayAt(base, "ab\ncd", 8, 1, 10)
	if base[1] != "        ab" || base[2] != "        cd" {
		t.Errorf("overlay = %q", base)
	}

	base = blankCanvas(10, 1)
	overlayAt(base, "abc", -1, 0, 10)
	if base[0] != "bc        " {
		t.Errorf("clipped overlay = %q", base[0])
	}

	base = blankCanvas(4, 1)
	overlayAt(base, "abc", 6, 0, 4)
	if base[0] != "    " {
		t.Errorf("off-canvas overlay = %q", base[0])
	}
}

func TestToggleDefaultWindow(t *testing.T) {
	a, _ := newTestApp(t)

	press(a, "t")
	if a.mgr.FocusedID() != book.DefaultCategoryID {
		t.Fatalf("focused = %q", a.mgr.FocusedID())
	}
	view := a.View()
	if !strings.Contains(view, "Grimoire") || !strings.Contains(view, "Welcome") {
		t.Errorf("view missing window:\n%s", view)
	}
	if !strings.Contains(view, "1 / 2") {
		t.Errorf("view missing page footer:\n%s", view)
	}

	press(a, "l")
	if got := a.focusedCategory().WindowState.ActivePageIndex; got != 1 {
		t.Errorf("page after l = %d", got)
	}

	press(a, "q")
	if a.mgr.IsOpen(book.DefaultCategoryID) {
		t.Error("window still open after q")
	}
}

func TestLeaderNewCategory(t *testing.T) {
	a, _ := newTestApp(t)

	press(a, " ", "c", "n")
	if !a.prompt.Visible() {
		t.Fatal("prompt not shown")
	}
	a.Update(key("Potions"))
	deliver(t, a, press(a, "enter"))

	doc := a.mgr.Document()
	if len(doc.Categories) != 2 || doc.Categories[1].Name != "Potions" {
		t.Fatalf("categories = %d", len(doc.Categories))
	}
	if a.mgr.FocusedID() != doc.Categories[1].ID {
		t.Error("new category not focused")
	}
	if !a.saver.Pending() {
		t.Error("change not marked for saving")
	}
}

func TestDeleteLastCategoryRefused(t *testing.T) {
	a, _ := newTestApp(t)
	press(a, "t")

	press(a, " ", "c", "d")
	if !a.prompt.Visible() {
		t.Fatal("confirm not shown")
	}
	deliver(t, a, press(a, "y"))

	if len(a.mgr.Document().Categories) != 1 {
		t.Fatal("last category deleted")
	}
	note, level := a.status.Note()
	if level != panel.LevelError || !strings.Contains(note, "last category") {
		t.Errorf("note = %q (%v)", note, level)
	}
	if strings.Contains(note, "precondition") {
		t.Errorf("note leaks error sentinel: %q", note)
	}
}

func TestWindowDrag(t *testing.T) {
	a, _ := newTestApp(t)
	press(a, "t")

	w := a.mgr.Focused()
	start := w.Rect
	mouse := func(x, y int, action tea.MouseAction) {
		a.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
	}

	mouse(start.X+3, start.Y, tea.MouseActionPress)
	if a.gesture != "MOVE" {
		t.Fatalf("gesture = %q", a.gesture)
	}
	mouse(start.X+8, start.Y+2, tea.MouseActionMotion)
	mouse(start.X+8, start.Y+2, tea.MouseActionRelease)

	if w.Rect.X != start.X+5 || w.Rect.Y != start.Y+2 {
		t.Errorf("rect = %+v, started at %+v", w.Rect, start)
	}
	ws := a.focusedCategory().WindowState
	if int(ws.Left) != start.X+5 || int(ws.Top) != start.Y+2 {
		t.Errorf("persisted left/top = %d/%d", ws.Left, ws.Top)
	}
	if a.gesture != "" {
		t.Error("gesture not cleared")
	}
}

func TestLockedWindowIgnoresDrag(t *testing.T) {
	a, _ := newTestApp(t)
	press(a, "t", "L")

	w := a.mgr.Focused()
	start := w.Rect
	a.Update(tea.MouseMsg{X: start.X + 3, Y: start.Y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	a.Update(tea.MouseMsg{X: start.X + 9, Y: start.Y + 3, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	a.Update(tea.MouseMsg{X: start.X + 9, Y: start.Y + 3, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	if w.Rect != start {
		t.Errorf("locked window moved to %+v", w.Rect)
	}
}

func TestEditPage(t *testing.T) {
	a, _ := newTestApp(t)
	// Reflow would merge the two short welcome pages.
	a.mgr.Document().AutoPaginate = false
	press(a, "t", "e")
	if a.editor == nil {
		t.Fatal("editor not started")
	}
	original := a.editor.original

	press(a, "!", "ctrl+s")
	if a.editor != nil {
		t.Fatal("editor still open after save")
	}
	got := a.focusedCategory().ActivePage().Content
	if got != original+"!" {
		t.Errorf("content = %q", got)
	}
}

func TestEditCancelAsksBeforeDiscarding(t *testing.T) {
	a, _ := newTestApp(t)
	press(a, "t", "e", "x", "esc")
	if !a.prompt.Visible() {
		t.Fatal("no discard confirm")
	}
	deliver(t, a, press(a, "y"))
	if a.editor != nil {
		t.Error("editor still open")
	}
	if strings.HasSuffix(a.focusedCategory().ActivePage().Content, "x") {
		t.Error("discarded text was saved")
	}
}

func TestShortcutToggles(t *testing.T) {
	a, _ := newTestApp(t)
	if err := a.mgr.Document().SetShortcut(book.DefaultCategoryID, "Alt+G"); err != nil {
		t.Fatal(err)
	}
	alt := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}, Alt: true}

	a.Update(alt)
	if !a.mgr.IsOpen(book.DefaultCategoryID) {
		t.Fatal("shortcut did not open the window")
	}
	a.Update(alt)
	if a.mgr.IsOpen(book.DefaultCategoryID) {
		t.Error("shortcut did not close the focused window")
	}
}

func TestSaveDue(t *testing.T) {
	a, gw := newTestApp(t)
	press(a, "t")
	a.Update(saveDueMsg{})

	if gw.saves != 1 {
		t.Fatalf("saves = %d", gw.saves)
	}
	doc, report := migrate.Decode(gw.data)
	if report.Unrecognized || !doc.Categories[0].WindowState.IsOpen {
		t.Errorf("saved document = %+v", doc.Categories[0].WindowState)
	}
}

func TestReload(t *testing.T) {
	remote := book.DefaultDocument()
	if _, err := remote.AddCategory("Remote"); err != nil {
		t.Fatal(err)
	}
	data, err := migrate.Encode(remote)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("clean", func(t *testing.T) {
		a, _ := newTestApp(t)
		a.Update(reloadMsg{data: data})
		if n := len(a.mgr.Document().Categories); n != 2 {
			t.Errorf("categories after reload = %d", n)
		}
	})

	t.Run("pending local edits win", func(t *testing.T) {
		a, _ := newTestApp(t)
		press(a, "t")
		a.Update(reloadMsg{data: data})
		if n := len(a.mgr.Document().Categories); n != 1 {
			t.Errorf("categories after reload = %d", n)
		}
		if note, level := a.status.Note(); level != panel.LevelWarn || note == "" {
			t.Errorf("note = %q (%v)", note, level)
		}
	})

	t.Run("unreadable", func(t *testing.T) {
		a, _ := newTestApp(t)
		a.Update(reloadMsg{data: []byte("not json")})
		if n := len(a.mgr.Document().Categories); n != 1 {
			t.Errorf("categories after reload = %d", n)
		}
	})
}

func TestParseBackground(t *testing.T) {
	bg, err := parseBackground("https://x/y.png | center | 4px")
	if err != nil {
		t.Fatal(err)
	}
	if bg.URL != "https://x/y.png" || bg.Position != "center" || bg.Blur == nil || *bg.Blur != 4 {
		t.Errorf("bg = %+v", bg)
	}
	if got := formatBackground(bg); got != "https://x/y.png | center | 4" {
		t.Errorf("format = %q", got)
	}

	if bg, err := parseBackground(""); err != nil || !bg.IsZero() {
		t.Errorf("empty = %+v, %v", bg, err)
	}
	if _, err := parseBackground("a | b | soft"); err == nil {
		t.Error("bad blur accepted")
	}
}
