package book

import "fmt"

// AddPage appends a page to the active entry and makes it active. An empty
// content string uses the placeholder.
func (d *Document) AddPage(catID, content string) error {
	c := d.Category(catID)
	if c == nil {
		return ErrStaleReference
	}
	e := c.ActiveEntry()
	if e == nil {
		return fmt.Errorf("no entry selected: %w", ErrPreconditionFailed)
	}
	if content == "" {
		content = NewPageContent
	}
	e.Pages = append(e.Pages, Page{Content: content})
	c.WindowState.ActiveEntryID = e.ID
	c.WindowState.ActivePageIndex = len(e.Pages) - 1
	return nil
}

// DeletePage removes the active page of the active entry and shows the one
// before it. The last page of an entry cannot be deleted.
func (d *Document) DeletePage(catID string) error {
	c := d.Category(catID)
	if c == nil {
		return ErrStaleReference
	}
	e := c.ActiveEntry()
	if e == nil {
		return fmt.Errorf("no entry selected: %w", ErrPreconditionFailed)
	}
	if len(e.Pages) <= 1 {
		return fmt.Errorf("cannot delete the last page of an entry: %w", ErrPreconditionFailed)
	}

	i := c.WindowState.ActivePageIndex
	if i < 0 || i >= len(e.Pages) {
		i = 0
	}
	e.RemovePage(i)
	c.WindowState.ActivePageIndex = max(0, i-1)
	return nil
}

// NextPage advances the active page. It reports false at the last page.
func (d *Document) NextPage(catID string) bool {
	c := d.Category(catID)
	if c == nil {
		return false
	}
	e := c.ActiveEntry()
	if e == nil || c.WindowState.ActivePageIndex >= len(e.Pages)-1 {
		return false
	}
	c.WindowState.ActivePageIndex++
	return true
}

// PrevPage moves back one page. It reports false at the first page.
func (d *Document) PrevPage(catID string) bool {
	c := d.Category(catID)
	if c == nil || c.WindowState.ActivePageIndex <= 0 {
		return false
	}
	c.WindowState.ActivePageIndex--
	return true
}

// GotoPage jumps to page i of the active entry.
func (d *Document) GotoPage(catID string, i int) error {
	c := d.Category(catID)
	if c == nil {
		return ErrStaleReference
	}
	e := c.ActiveEntry()
	if e == nil || i < 0 || i >= len(e.Pages) {
		return ErrStaleReference
	}
	c.WindowState.ActivePageIndex = i
	return nil
}
