package book

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SchemaVersion is the shape of the persisted blob produced by this build.
const SchemaVersion = 3

const (
	DefaultIcon           = "fa-hat-wizard"
	DefaultBackgroundPos  = "50% 50%"
	DefaultBackgroundBlur = 15

	NewPageContent     = "# New Page\n\n..."
	NewCategoryContent = "# New Grimoire\n\nStart your journey here..."
	NewCategoryEntry   = "Starting Point"

	SidebarMinWidth = 15
	SidebarMaxWidth = 60

	// PixelsPerCell converts legacy CSS pixel geometry into terminal cells.
	PixelsPerCell = 8
)

// Page is a single unit of free-text markdown.
type Page struct {
	Content string `json:"content"`
}

// Background is an image reference shown behind a window. Entries override
// their category field by field.
type Background struct {
	URL      string `json:"background,omitempty"`
	Position string `json:"backgroundPos,omitempty"`
	Blur     *int   `json:"backgroundBlur,omitempty"`
}

// IsZero reports whether no background is configured.
func (b Background) IsZero() bool {
	return b.URL == "" && b.Position == "" && b.Blur == nil
}

// Entry is a named sequence of pages inside one category.
type Entry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Pages []Page `json:"pages"`
	Background
}

// Category is a top-level collection with its own window.
type Category struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Icon        string      `json:"icon"`
	Entries     []*Entry    `json:"entries"`
	WindowState WindowState `json:"windowState"`
	Shortcut    string      `json:"shortcut,omitempty"`
	Background
}

// WindowState is the persisted layout of one category's window.
type WindowState struct {
	IsOpen          bool   `json:"isOpen"`
	Top             Length `json:"top"`
	Left            Length `json:"left"`
	Width           Length `json:"width"`
	Height          Length `json:"height"`
	IsFullscreen    bool   `json:"isFullscreen"`
	IsLocked        bool   `json:"isLocked"`
	SidebarWidth    Length `json:"sidebarWidth"`
	ActiveEntryID   string `json:"activeEntryId"`
	ActivePageIndex int    `json:"activePageIndex"`
}

// DefaultWindowState returns the closed window layout used for new and
// migrated categories.
func DefaultWindowState() WindowState {
	return WindowState{
		Top:          2,
		Left:         4,
		Width:        72,
		Height:       22,
		SidebarWidth: 20,
	}
}

// Length is a window dimension in terminal cells. It decodes from plain
// numbers and from legacy CSS strings such as "100px".
type Length int

func (l *Length) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*l = Length(math.Round(n))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("length: %w", err)
	}
	v, err := ParseLength(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// ParseLength accepts "42", "42.5" and pixel strings like "650px"; pixel
// values are converted to cells.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	px := strings.HasSuffix(s, "px")
	s = strings.TrimSuffix(s, "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("length %q: %w", s, err)
	}
	if px {
		f /= PixelsPerCell
	}
	return Length(math.Round(f)), nil
}

// SetBackground replaces the entry's background; an empty URL clears it.
func (e *Entry) SetBackground(bg Background) {
	if bg.URL == "" {
		e.Background = Background{}
		return
	}
	e.Background = bg
}

// SetBackground replaces the category's background; an empty URL clears it.
func (c *Category) SetBackground(bg Background) {
	if bg.URL == "" {
		c.Background = Background{}
		return
	}
	c.Background = bg
}

// ResolveBackground cascades the active entry's background over the
// category's and fills defaults for position and blur.
func (c *Category) ResolveBackground() Background {
	return c.BackgroundFor(c.ActiveEntry())
}

// BackgroundFor resolves the background shown while entry is displayed.
func (c *Category) BackgroundFor(entry *Entry) Background {
	var e Background
	if entry != nil {
		e = entry.Background
	}

	out := Background{URL: e.URL, Position: e.Position, Blur: e.Blur}
	if out.URL == "" {
		out.URL = c.URL
	}
	if out.Position == "" {
		out.Position = c.Position
	}
	if out.Position == "" {
		out.Position = DefaultBackgroundPos
	}
	if out.Blur == nil {
		out.Blur = c.Blur
	}
	if out.Blur == nil {
		blur := DefaultBackgroundBlur
		out.Blur = &blur
	}
	return out
}

// Entry returns the entry with the given id, or nil.
func (c *Category) Entry(id string) *Entry {
	if i := c.EntryIndex(id); i >= 0 {
		return c.Entries[i]
	}
	return nil
}

// EntryIndex returns the position of the entry with the given id, or -1.
func (c *Category) EntryIndex(id string) int {
	for i, e := range c.Entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// ActiveEntry resolves the window's active entry, falling back to the first
// entry when the stored reference is stale.
func (c *Category) ActiveEntry() *Entry {
	if e := c.Entry(c.WindowState.ActiveEntryID); e != nil {
		return e
	}
	if len(c.Entries) > 0 {
		return c.Entries[0]
	}
	return nil
}

// ActivePage resolves the window's active page, falling back to the first
// page of the active entry.
func (c *Category) ActivePage() *Page {
	e := c.ActiveEntry()
	if e == nil || len(e.Pages) == 0 {
		return nil
	}
	i := c.WindowState.ActivePageIndex
	if i < 0 || i >= len(e.Pages) {
		i = 0
	}
	return &e.Pages[i]
}

// RemovePage drops page i. Removing the last page re-seeds a placeholder so
// the entry never observes an empty page list.
func (e *Entry) RemovePage(i int) {
	if i < 0 || i >= len(e.Pages) {
		return
	}
	e.Pages = append(e.Pages[:i], e.Pages[i+1:]...)
	if len(e.Pages) == 0 {
		e.Pages = []Page{{Content: NewPageContent}}
	}
}

// Text joins every page with a blank line, the form pagination works on.
func (e *Entry) Text() string {
	parts := make([]string, len(e.Pages))
	for i, p := range e.Pages {
		parts[i] = p.Content
	}
	return strings.Join(parts, "\n\n")
}

func clampSidebar(w Length) Length {
	if w < SidebarMinWidth {
		return SidebarMinWidth
	}
	if w > SidebarMaxWidth {
		return SidebarMaxWidth
	}
	return w
}
