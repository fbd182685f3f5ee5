package session

import "github.com/pfassina/grimoire/internal/book"

// Minimum window size in cells. The floor wins over boundary constraints but
// never exceeds the viewport.
const (
	MinWidth  = 30
	MinHeight = 8
)

// Point is a pointer position in cells.
type Point struct {
	X, Y int
}

// Rect is a window's live position and size in cells.
type Rect struct {
	X, Y, W, H int
}

// Viewport is the drawable canvas size.
type Viewport struct {
	W, H int
}

// Full returns the rectangle covering the whole viewport.
func (v Viewport) Full() Rect {
	return Rect{W: v.W, H: v.H}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

func rectOf(ws book.WindowState) Rect {
	return Rect{X: int(ws.Left), Y: int(ws.Top), W: int(ws.Width), H: int(ws.Height)}
}

// span describes one axis of the viewport as seen by the boundary rules.
type span struct {
	lo, hi       int
	hasLo, hasHi bool
	min          int
}

func axes(vp Viewport, b book.Boundaries) (x, y span) {
	x = span{
		lo: b.Left.Offset, hasLo: b.Left.Enabled,
		hi: vp.W - b.Right.Offset, hasHi: b.Right.Enabled,
		min: min(MinWidth, vp.W),
	}
	y = span{
		lo: b.Top.Offset, hasLo: b.Top.Enabled,
		hi: vp.H - b.Bottom.Offset, hasHi: b.Bottom.Enabled,
		min: min(MinHeight, vp.H),
	}
	return x, y
}

// Clamp fits r inside the enabled viewport edges. It repositions first,
// shrinks towards the minimum size only when moving is not enough, and
// finally pins the window to its leading edge.
func Clamp(r Rect, vp Viewport, b book.Boundaries) Rect {
	x, y := axes(vp, b)
	r.X, r.W = x.clamp(r.X, r.W, vp.W)
	r.Y, r.H = y.clamp(r.Y, r.H, vp.H)
	return r
}

// ClampResize fits a window being resized from its bottom right corner. The
// origin stays put; only the size gives way.
func ClampResize(r Rect, vp Viewport, b book.Boundaries) Rect {
	x, y := axes(vp, b)
	if x.hasHi {
		r.W = min(r.W, x.hi-r.X)
	}
	if y.hasHi {
		r.H = min(r.H, y.hi-r.Y)
	}
	return Clamp(r, vp, b)
}

func (s span) clamp(pos, size, limit int) (int, int) {
	size = max(size, s.min)
	size = min(size, max(limit, s.min))

	if s.hasHi && pos+size > s.hi {
		pos = s.hi - size
	}
	if s.hasLo && s.hasHi && pos < s.lo {
		size = max(s.min, min(size, s.hi-s.lo))
	}
	if s.hasLo && pos < s.lo {
		pos = s.lo
	}
	return pos, size
}

func lengthOf(n int) book.Length {
	return book.Length(n)
}
