package session

type gestureKind int

const (
	gestureDrag gestureKind = iota
	gestureResize
)

type gesture struct {
	kind   gestureKind
	catID  string
	origin Point
	start  Rect
}

// BeginDrag starts moving a window. Locked and fullscreen windows refuse.
func (m *Manager) BeginDrag(catID string, p Point) bool {
	return m.begin(gestureDrag, catID, p)
}

// BeginResize starts resizing a window from its bottom right corner.
func (m *Manager) BeginResize(catID string, p Point) bool {
	return m.begin(gestureResize, catID, p)
}

func (m *Manager) begin(kind gestureKind, catID string, p Point) bool {
	w := m.windows[catID]
	c := m.doc.Category(catID)
	if w == nil || c == nil {
		return false
	}
	m.raise(catID)
	if m.Locked(catID) || c.WindowState.IsFullscreen {
		return false
	}
	m.gesture = &gesture{kind: kind, catID: catID, origin: p, start: w.Rect}
	return true
}

// Dragging reports whether a gesture is in progress.
func (m *Manager) Dragging() bool {
	return m.gesture != nil
}

// PointerMove updates the live geometry of the window under gesture. Nothing
// is persisted until PointerUp.
func (m *Manager) PointerMove(p Point) {
	g := m.gesture
	if g == nil {
		return
	}
	w := m.windows[g.catID]
	if w == nil {
		m.gesture = nil
		return
	}

	dx, dy := p.X-g.origin.X, p.Y-g.origin.Y
	r := g.start
	switch g.kind {
	case gestureDrag:
		r.X += dx
		r.Y += dy
		w.Rect = Clamp(r, m.viewport, m.doc.Boundaries)
	case gestureResize:
		r.W += dx
		r.H += dy
		w.Rect = ClampResize(r, m.viewport, m.doc.Boundaries)
	}
}

// PointerUp ends the gesture and commits the window's bounds.
func (m *Manager) PointerUp() {
	g := m.gesture
	m.gesture = nil
	if g == nil {
		return
	}
	w := m.windows[g.catID]
	c := m.doc.Category(g.catID)
	if w == nil || c == nil || w.Rect == g.start {
		return
	}

	ws := &c.WindowState
	ws.Left, ws.Top = lengthOf(w.Rect.X), lengthOf(w.Rect.Y)
	ws.Width, ws.Height = lengthOf(w.Rect.W), lengthOf(w.Rect.H)
	m.markDirty()
}

// Nudge moves a window by a delta as one complete gesture.
func (m *Manager) Nudge(catID string, dx, dy int) bool {
	if !m.BeginDrag(catID, Point{}) {
		return false
	}
	m.PointerMove(Point{X: dx, Y: dy})
	m.PointerUp()
	return true
}

// Grow resizes a window by a delta as one complete gesture.
func (m *Manager) Grow(catID string, dw, dh int) bool {
	if !m.BeginResize(catID, Point{}) {
		return false
	}
	m.PointerMove(Point{X: dw, Y: dh})
	m.PointerUp()
	return true
}
