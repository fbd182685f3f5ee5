package book

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AddEntry appends an entry with a placeholder page and makes it active. A
// blank name becomes "New Entry N".
func (d *Document) AddEntry(catID, name string) (*Entry, error) {
	c := d.Category(catID)
	if c == nil {
		return nil, ErrStaleReference
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("New Entry %d", len(c.Entries)+1)
	}

	e := &Entry{
		ID:    uuid.NewString(),
		Name:  name,
		Pages: []Page{{Content: NewPageContent}},
	}
	c.Entries = append(c.Entries, e)
	c.WindowState.ActiveEntryID = e.ID
	c.WindowState.ActivePageIndex = 0
	return e, nil
}

// RenameEntry renames an entry; a blank name keeps the old one.
func (d *Document) RenameEntry(catID, entryID, name string) error {
	c := d.Category(catID)
	if c == nil {
		return ErrStaleReference
	}
	e := c.Entry(entryID)
	if e == nil {
		return ErrStaleReference
	}
	if name = strings.TrimSpace(name); name != "" {
		e.Name = name
	}
	return nil
}

// DeleteEntry removes an entry. When it was active, the first remaining
// entry becomes active.
func (d *Document) DeleteEntry(catID, entryID string) error {
	c := d.Category(catID)
	if c == nil {
		return ErrStaleReference
	}
	_, err := c.removeEntry(entryID)
	return err
}

func (c *Category) removeEntry(entryID string) (*Entry, error) {
	i := c.EntryIndex(entryID)
	if i < 0 {
		return nil, ErrStaleReference
	}
	e := c.Entries[i]
	c.Entries = append(c.Entries[:i], c.Entries[i+1:]...)

	if c.WindowState.ActiveEntryID == entryID {
		c.WindowState.ActiveEntryID = ""
		if len(c.Entries) > 0 {
			c.WindowState.ActiveEntryID = c.Entries[0].ID
		}
		c.WindowState.ActivePageIndex = 0
	}
	return e, nil
}

// MoveEntry moves an entry from one category to the end of another. The
// entry keeps its id unless the target already holds one with that id.
func (d *Document) MoveEntry(srcID, entryID, dstID string) error {
	src := d.Category(srcID)
	dst := d.Category(dstID)
	if src == nil || dst == nil {
		return ErrStaleReference
	}
	if src == dst {
		return nil
	}
	if src.Entry(entryID) == nil {
		return ErrStaleReference
	}

	e, err := src.removeEntry(entryID)
	if err != nil {
		return err
	}
	if dst.Entry(e.ID) != nil {
		e.ID = uuid.NewString()
	}
	dst.Entries = append(dst.Entries, e)
	if dst.WindowState.ActiveEntryID == "" {
		dst.WindowState.ActiveEntryID = e.ID
		dst.WindowState.ActivePageIndex = 0
	}
	return nil
}

// MoveEntryToNewCategory creates a category named name and moves the entry
// into it as a single step. The new category's starter entry is replaced by
// the moved one.
func (d *Document) MoveEntryToNewCategory(srcID, entryID, name string) (*Category, error) {
	src := d.Category(srcID)
	if src == nil || src.Entry(entryID) == nil {
		return nil, ErrStaleReference
	}
	c, err := d.AddCategory(name)
	if err != nil {
		return nil, err
	}
	e, _ := src.removeEntry(entryID)
	c.Entries = []*Entry{e}
	c.WindowState.ActiveEntryID = e.ID
	c.WindowState.ActivePageIndex = 0
	return c, nil
}

// ReorderEntry moves the entry at index from to index to within a category.
func (d *Document) ReorderEntry(catID string, from, to int) error {
	c := d.Category(catID)
	if c == nil {
		return ErrStaleReference
	}
	n := len(c.Entries)
	if from < 0 || from >= n {
		return ErrStaleReference
	}
	if to < 0 || to >= n {
		return fmt.Errorf("position %d out of range: %w", to, ErrPreconditionFailed)
	}
	if from == to {
		return nil
	}

	e := c.Entries[from]
	c.Entries = append(c.Entries[:from], c.Entries[from+1:]...)
	c.Entries = append(c.Entries[:to], append([]*Entry{e}, c.Entries[to:]...)...)
	return nil
}

// SelectEntry makes an entry active and shows its first page.
func (d *Document) SelectEntry(catID, entryID string) error {
	c := d.Category(catID)
	if c == nil {
		return ErrStaleReference
	}
	if c.Entry(entryID) == nil {
		return ErrStaleReference
	}
	c.WindowState.ActiveEntryID = entryID
	c.WindowState.ActivePageIndex = 0
	return nil
}

// SetEntryBackground replaces an entry's background override.
func (d *Document) SetEntryBackground(catID, entryID string, bg Background) error {
	c := d.Category(catID)
	if c == nil {
		return ErrStaleReference
	}
	e := c.Entry(entryID)
	if e == nil {
		return ErrStaleReference
	}
	e.SetBackground(bg)
	return nil
}
