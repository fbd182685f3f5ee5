// Package session tracks the open category windows: their live geometry,
// focus and stacking order, and the gestures that move them.
package session

import (
	"slices"
	"sort"

	"github.com/pfassina/grimoire/internal/book"
)

// Stacking levels. Focused windows sit focusBoost above their base.
const (
	BaseZ       = 2100
	OnTopBaseZ  = 3003
	FullscreenZ = 60000
	focusBoost  = 10
)

// Window is one open category window.
type Window struct {
	CategoryID string
	Rect       Rect
}

// Manager owns the set of open windows for a document. It is not safe for
// concurrent use; all calls happen on the UI event loop.
type Manager struct {
	doc      *book.Document
	windows  map[string]*Window
	order    []string // focus history, most recent last
	viewport Viewport
	gesture  *gesture
	onDirty  func()
}

// New creates a manager and opens every window persisted as open.
func New(doc *book.Document, vp Viewport, onDirty func()) *Manager {
	m := &Manager{onDirty: onDirty, viewport: vp}
	m.Replace(doc)
	return m
}

// Document returns the managed document.
func (m *Manager) Document() *book.Document {
	return m.doc
}

// Replace swaps in a new document, closing every window and reopening the
// ones it marks open. It does not mark the document dirty.
func (m *Manager) Replace(doc *book.Document) {
	m.doc = doc
	m.windows = make(map[string]*Window)
	m.order = nil
	m.gesture = nil
	for _, c := range doc.Categories {
		if c.WindowState.IsOpen {
			w := &Window{CategoryID: c.ID}
			m.windows[c.ID] = w
			m.order = append(m.order, c.ID)
			m.layout(w)
		}
	}
}

func (m *Manager) markDirty() {
	if m.onDirty != nil {
		m.onDirty()
	}
}

// Open shows a category's window, or focuses it if already open.
func (m *Manager) Open(catID string) {
	c := m.doc.Category(catID)
	if c == nil {
		return
	}
	if _, ok := m.windows[catID]; ok {
		m.Focus(catID)
		return
	}

	c.WindowState.IsOpen = true
	w := &Window{CategoryID: catID}
	m.windows[catID] = w
	m.layout(w)
	m.raise(catID)
	m.markDirty()
}

// Close hides a category's window. Focus passes to the most recently focused
// remaining window.
func (m *Manager) Close(catID string) {
	if _, ok := m.windows[catID]; !ok {
		return
	}
	if c := m.doc.Category(catID); c != nil {
		c.WindowState.IsOpen = false
	}
	if m.gesture != nil && m.gesture.catID == catID {
		m.gesture = nil
	}
	delete(m.windows, catID)
	m.order = slices.DeleteFunc(m.order, func(id string) bool { return id == catID })
	m.markDirty()
}

// CloseAll hides every window.
func (m *Manager) CloseAll() {
	for _, id := range slices.Clone(m.order) {
		m.Close(id)
	}
}

// Focus brings an open window to the front.
func (m *Manager) Focus(catID string) {
	if _, ok := m.windows[catID]; !ok {
		return
	}
	m.raise(catID)
}

func (m *Manager) raise(catID string) {
	m.order = slices.DeleteFunc(m.order, func(id string) bool { return id == catID })
	m.order = append(m.order, catID)
}

// Toggle activates a category the way a shortcut does: close it when it is
// focused, focus it when it is open, open it otherwise.
func (m *Manager) Toggle(catID string) {
	switch {
	case m.FocusedID() == catID && catID != "":
		m.Close(catID)
	case m.IsOpen(catID):
		m.Focus(catID)
	default:
		m.Open(catID)
	}
}

// ToggleDefault toggles the default category, or the first one.
func (m *Manager) ToggleDefault() {
	if c := m.doc.Default(); c != nil {
		m.Toggle(c.ID)
	}
}

// IsOpen reports whether a category's window is open.
func (m *Manager) IsOpen(catID string) bool {
	_, ok := m.windows[catID]
	return ok
}

// Window returns the open window of a category, or nil.
func (m *Manager) Window(catID string) *Window {
	return m.windows[catID]
}

// FocusedID returns the focused category id, or "".
func (m *Manager) FocusedID() string {
	if len(m.order) == 0 {
		return ""
	}
	return m.order[len(m.order)-1]
}

// Focused returns the focused window, or nil.
func (m *Manager) Focused() *Window {
	return m.windows[m.FocusedID()]
}

// Z returns the stacking level of an open window.
func (m *Manager) Z(catID string) int {
	c := m.doc.Category(catID)
	base := BaseZ
	if m.doc.AlwaysOnTop {
		base = OnTopBaseZ
	}
	if c != nil && c.WindowState.IsFullscreen {
		base = FullscreenZ
	}
	if catID == m.FocusedID() {
		return base + focusBoost
	}
	return base
}

// Windows returns the open windows from bottom to top.
func (m *Manager) Windows() []*Window {
	out := make([]*Window, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.windows[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return m.Z(out[i].CategoryID) < m.Z(out[j].CategoryID)
	})
	return out
}

// Cycle focuses the next window in stacking order.
func (m *Manager) Cycle() {
	if len(m.order) < 2 {
		return
	}
	m.raise(m.order[0])
}

// WindowAt returns the topmost window under p.
func (m *Manager) WindowAt(p Point) *Window {
	ws := m.Windows()
	for i := len(ws) - 1; i >= 0; i-- {
		if ws[i].Rect.Contains(p) {
			return ws[i]
		}
	}
	return nil
}

// Locked reports whether a window ignores gestures, either by its own lock
// or the global layout lock.
func (m *Manager) Locked(catID string) bool {
	if m.doc.LockLayout {
		return true
	}
	c := m.doc.Category(catID)
	return c != nil && c.WindowState.IsLocked
}

// ToggleFullscreen switches a window between the viewport and its own bounds.
func (m *Manager) ToggleFullscreen(catID string) {
	w := m.windows[catID]
	c := m.doc.Category(catID)
	if w == nil || c == nil {
		return
	}
	c.WindowState.IsFullscreen = !c.WindowState.IsFullscreen
	if m.gesture != nil && m.gesture.catID == catID {
		m.gesture = nil
	}
	m.layout(w)
	m.raise(catID)
	m.markDirty()
}

// ToggleLock flips a window's own lock.
func (m *Manager) ToggleLock(catID string) {
	c := m.doc.Category(catID)
	if c == nil {
		return
	}
	c.WindowState.IsLocked = !c.WindowState.IsLocked
	m.markDirty()
}

// SetViewport re-fits every window to a new canvas size. Persisted bounds are
// left untouched so growing the canvas again restores them.
func (m *Manager) SetViewport(vp Viewport) {
	m.viewport = vp
	for _, w := range m.windows {
		m.layout(w)
	}
}

// Viewport returns the current canvas size.
func (m *Manager) Viewport() Viewport {
	return m.viewport
}

// Relayout re-fits every window, e.g. after the boundaries changed.
func (m *Manager) Relayout() {
	m.SetViewport(m.viewport)
}

// UpdateSettings applies a settings change, re-fits the windows and
// repaginates the open entries when auto-pagination is on.
func (m *Manager) UpdateSettings(fn func(s *book.Settings)) {
	fn(&m.doc.Settings)
	m.Relayout()
	if m.doc.AutoPaginate {
		m.RepaginateOpen()
	}
	m.markDirty()
}

// RepaginateOpen reflows the active entry of every open window.
func (m *Manager) RepaginateOpen() bool {
	changed := false
	for _, id := range m.order {
		if ok, _ := m.doc.Repaginate(id); ok {
			changed = true
		}
	}
	return changed
}

func (m *Manager) layout(w *Window) {
	c := m.doc.Category(w.CategoryID)
	if c == nil {
		return
	}
	if c.WindowState.IsFullscreen {
		w.Rect = m.viewport.Full()
		return
	}
	w.Rect = Clamp(rectOf(c.WindowState), m.viewport, m.doc.Boundaries)
}

// prune drops windows whose category no longer exists.
func (m *Manager) prune() {
	for id := range m.windows {
		if m.doc.Category(id) == nil {
			delete(m.windows, id)
			m.order = slices.DeleteFunc(m.order, func(o string) bool { return o == id })
			if m.gesture != nil && m.gesture.catID == id {
				m.gesture = nil
			}
		}
	}
}
