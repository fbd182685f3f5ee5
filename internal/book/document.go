package book

import (
	"fmt"

	"github.com/google/uuid"
)

// Document is the whole persisted state: the categories plus the settings
// stored flat beside them.
type Document struct {
	SchemaVersion int         `json:"schemaVersion"`
	Categories    []*Category `json:"categories"`
	Settings
}

// PageRef addresses one page. Edits carry the reference they were started
// against so a stale target can be detected.
type PageRef struct {
	CategoryID string
	EntryID    string
	PageIndex  int
}

const (
	DefaultCategoryID = "default-cat"
	DefaultEntryID    = "default-entry"
)

const welcomePage = `# Welcome to your Grimoire

Every **category** opens in its own window. Entries are listed in the
sidebar, and each entry is a book of pages.

* ` + "`h` / `l`" + ` turn pages
* ` + "`j` / `k`" + ` pick an entry
* ` + "`e`" + ` edits the current page
* ` + "`space`" + ` opens the command menu`

const welcomePage2 = `# Windows

Drag a window by its title bar and resize it from the bottom right corner.
Press ` + "`L`" + ` to lock a window in place and ` + "`f`" + ` for fullscreen.

Long pages are split automatically when auto-pagination is on.`

// DefaultDocument returns the document of a fresh install.
func DefaultDocument() *Document {
	ws := DefaultWindowState()
	ws.ActiveEntryID = DefaultEntryID
	return &Document{
		SchemaVersion: SchemaVersion,
		Categories: []*Category{{
			ID:   DefaultCategoryID,
			Name: "Grimoire",
			Icon: DefaultIcon,
			Entries: []*Entry{{
				ID:    DefaultEntryID,
				Name:  "Welcome",
				Pages: []Page{{Content: welcomePage}, {Content: welcomePage2}},
			}},
			WindowState: ws,
		}},
		Settings: DefaultSettings(),
	}
}

// Category returns the category with the given id, or nil.
func (d *Document) Category(id string) *Category {
	if i := d.CategoryIndex(id); i >= 0 {
		return d.Categories[i]
	}
	return nil
}

// CategoryIndex returns the position of the category with the given id, or -1.
func (d *Document) CategoryIndex(id string) int {
	for i, c := range d.Categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Default returns the configured default category, falling back to the
// first one.
func (d *Document) Default() *Category {
	if c := d.Category(d.DefaultCategoryID); c != nil {
		return c
	}
	if len(d.Categories) > 0 {
		return d.Categories[0]
	}
	return nil
}

// OpenCategories returns the categories whose window is persisted as open.
func (d *Document) OpenCategories() []*Category {
	var out []*Category
	for _, c := range d.Categories {
		if c.WindowState.IsOpen {
			out = append(out, c)
		}
	}
	return out
}

// Repair re-establishes the document invariants on freshly decoded data and
// returns a description of every fix applied.
func (d *Document) Repair() []string {
	var fixes []string
	fix := func(format string, args ...any) {
		fixes = append(fixes, fmt.Sprintf(format, args...))
	}

	if d.SchemaVersion != SchemaVersion {
		d.SchemaVersion = SchemaVersion
	}

	var cats []*Category
	for _, c := range d.Categories {
		if c != nil {
			cats = append(cats, c)
		}
	}
	if len(cats) == 0 {
		fix("seeded default category")
		cats = DefaultDocument().Categories
	}
	d.Categories = cats

	seenCat := make(map[string]bool)
	seenChord := make(map[string]bool)
	for _, c := range d.Categories {
		if c.ID == "" || seenCat[c.ID] {
			old := c.ID
			c.ID = uuid.NewString()
			fix("category %q: assigned id %s", old, c.ID)
		}
		seenCat[c.ID] = true

		if c.Name == "" {
			c.Name = "Untitled"
			fix("category %s: named Untitled", c.ID)
		}
		if c.Icon == "" {
			c.Icon = DefaultIcon
		}
		if c.Shortcut != "" {
			if seenChord[c.Shortcut] {
				fix("category %s: cleared duplicate shortcut %s", c.ID, c.Shortcut)
				c.Shortcut = ""
			} else {
				seenChord[c.Shortcut] = true
			}
		}

		fixes = append(fixes, c.repairEntries()...)
		fixes = append(fixes, c.repairWindow()...)
	}

	if d.DefaultCategoryID != "" && d.Category(d.DefaultCategoryID) == nil {
		fix("cleared stale default category %s", d.DefaultCategoryID)
		d.DefaultCategoryID = ""
	}
	if d.PaginateLimit <= 0 {
		d.PaginateLimit = DefaultSettings().PaginateLimit
		fix("reset paginate limit")
	}
	return fixes
}

func (c *Category) repairEntries() []string {
	var fixes []string
	var entries []*Entry
	seen := make(map[string]bool)
	for _, e := range c.Entries {
		if e == nil {
			continue
		}
		if e.ID == "" || seen[e.ID] {
			old := e.ID
			e.ID = uuid.NewString()
			fixes = append(fixes, fmt.Sprintf("category %s: entry %q assigned id %s", c.ID, old, e.ID))
		}
		seen[e.ID] = true
		if e.Name == "" {
			e.Name = "Untitled"
		}
		if len(e.Pages) == 0 {
			e.Pages = []Page{{Content: NewPageContent}}
			fixes = append(fixes, fmt.Sprintf("entry %s: seeded placeholder page", e.ID))
		}
		entries = append(entries, e)
	}
	if entries == nil {
		entries = []*Entry{}
	}
	c.Entries = entries
	return fixes
}

func (c *Category) repairWindow() []string {
	var fixes []string
	ws := &c.WindowState
	def := DefaultWindowState()
	if ws.Width <= 0 {
		ws.Width = def.Width
	}
	if ws.Height <= 0 {
		ws.Height = def.Height
	}
	if ws.SidebarWidth == 0 {
		ws.SidebarWidth = def.SidebarWidth
	}
	ws.SidebarWidth = clampSidebar(ws.SidebarWidth)

	if ws.ActiveEntryID != "" && c.Entry(ws.ActiveEntryID) == nil {
		fixes = append(fixes, fmt.Sprintf("category %s: stale active entry %s", c.ID, ws.ActiveEntryID))
		ws.ActiveEntryID = ""
		ws.ActivePageIndex = 0
	}
	if ws.ActiveEntryID == "" && len(c.Entries) > 0 {
		ws.ActiveEntryID = c.Entries[0].ID
	}
	c.clampPageIndex()
	return fixes
}

// clampPageIndex keeps the active page index inside the active entry.
func (c *Category) clampPageIndex() {
	e := c.ActiveEntry()
	if e == nil || c.WindowState.ActivePageIndex < 0 || c.WindowState.ActivePageIndex >= len(e.Pages) {
		c.WindowState.ActivePageIndex = 0
	}
}
