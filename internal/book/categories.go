package book

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AddCategory appends a new category with one starter entry. Its window
// inherits the geometry of the first category and starts closed.
func (d *Document) AddCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is empty: %w", ErrPreconditionFailed)
	}

	entry := &Entry{
		ID:    uuid.NewString(),
		Name:  NewCategoryEntry,
		Pages: []Page{{Content: NewCategoryContent}},
	}

	ws := DefaultWindowState()
	if len(d.Categories) > 0 {
		first := d.Categories[0].WindowState
		ws.Top, ws.Left = first.Top, first.Left
		ws.Width, ws.Height = first.Width, first.Height
		ws.SidebarWidth = first.SidebarWidth
	}
	ws.ActiveEntryID = entry.ID

	c := &Category{
		ID:          uuid.NewString(),
		Name:        name,
		Icon:        DefaultIcon,
		Entries:     []*Entry{entry},
		WindowState: ws,
	}
	d.Categories = append(d.Categories, c)
	return c, nil
}

// RenameCategory renames a category; a blank name keeps the old one.
func (d *Document) RenameCategory(id, name string) error {
	c := d.Category(id)
	if c == nil {
		return ErrStaleReference
	}
	if name = strings.TrimSpace(name); name != "" {
		c.Name = name
	}
	return nil
}

// DeleteCategory removes a category. The last category cannot be deleted.
func (d *Document) DeleteCategory(id string) error {
	i := d.CategoryIndex(id)
	if i < 0 {
		return ErrStaleReference
	}
	if len(d.Categories) <= 1 {
		return fmt.Errorf("cannot delete the last category: %w", ErrPreconditionFailed)
	}
	d.Categories = append(d.Categories[:i], d.Categories[i+1:]...)
	if d.DefaultCategoryID == id {
		d.DefaultCategoryID = ""
	}
	return nil
}

// SetIcon sets the icon of a category, or of one of its entries when
// entryID is non-empty. An empty icon restores the default.
func (d *Document) SetIcon(catID, entryID, icon string) error {
	c := d.Category(catID)
	if c == nil {
		return ErrStaleReference
	}
	if entryID != "" {
		e := c.Entry(entryID)
		if e == nil {
			return ErrStaleReference
		}
		e.Icon = icon
		return nil
	}
	if icon == "" {
		icon = DefaultIcon
	}
	c.Icon = icon
	return nil
}

// SetCategoryBackground replaces a category's background.
func (d *Document) SetCategoryBackground(id string, bg Background) error {
	c := d.Category(id)
	if c == nil {
		return ErrStaleReference
	}
	c.SetBackground(bg)
	return nil
}

// SetShortcut binds a chord to a category and removes it from any other
// category. An empty chord clears the binding.
func (d *Document) SetShortcut(id, chord string) error {
	c := d.Category(id)
	if c == nil {
		return ErrStaleReference
	}
	if chord != "" {
		for _, other := range d.Categories {
			if other != c && other.Shortcut == chord {
				other.Shortcut = ""
			}
		}
	}
	c.Shortcut = chord
	return nil
}

// ShortcutOwner returns the category bound to chord, or nil.
func (d *Document) ShortcutOwner(chord string) *Category {
	if chord == "" {
		return nil
	}
	for _, c := range d.Categories {
		if c.Shortcut == chord {
			return c
		}
	}
	return nil
}

// SetDefaultCategory marks the category opened by the main toggle. An empty
// id clears it.
func (d *Document) SetDefaultCategory(id string) error {
	if id != "" && d.Category(id) == nil {
		return ErrStaleReference
	}
	d.DefaultCategoryID = id
	return nil
}

// SetSidebarWidth stores the sidebar width of a category window.
func (d *Document) SetSidebarWidth(id string, w int) error {
	c := d.Category(id)
	if c == nil {
		return ErrStaleReference
	}
	c.WindowState.SidebarWidth = clampSidebar(Length(w))
	return nil
}
