package book

import (
	"github.com/pfassina/grimoire/internal/paginate"
)

// Reflow redistributes the entry's text across pages of at most limit runes.
// It reports whether the pages changed. An entry that already fits on its
// single page is left alone.
func (e *Entry) Reflow(limit int) bool {
	if len(e.Pages) == 0 {
		e.Pages = []Page{{Content: NewPageContent}}
		return true
	}

	full := e.Text()
	if len(e.Pages) == 1 && paginate.Fits(full, limit) {
		return false
	}

	chunks := paginate.Paginate(full, limit)
	if len(chunks) == 0 {
		chunks = []string{""}
	}
	pages := make([]Page, len(chunks))
	for i, c := range chunks {
		pages[i] = Page{Content: c}
	}
	if samePages(e.Pages, pages) {
		return false
	}
	e.Pages = pages
	return true
}

func samePages(a, b []Page) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Content != b[i].Content {
			return false
		}
	}
	return true
}

// Repaginate reflows the active entry of a category with the configured
// limit. It reports whether anything changed.
func (d *Document) Repaginate(catID string) (bool, error) {
	c := d.Category(catID)
	if c == nil {
		return false, ErrStaleReference
	}
	e := c.ActiveEntry()
	if e == nil {
		return false, nil
	}
	if !e.Reflow(d.Limit()) {
		return false, nil
	}
	c.clampPageIndex()
	return true, nil
}

// EditResult describes the outcome of a page edit.
type EditResult struct {
	Paginated bool
	Pages     int
}

// EditPage replaces the content of the referenced page and, when
// auto-pagination is on, reflows the whole entry. The reference must still
// resolve, otherwise ErrStaleReference is returned and nothing changes.
func (d *Document) EditPage(ref PageRef, content string) (EditResult, error) {
	c := d.Category(ref.CategoryID)
	if c == nil {
		return EditResult{}, ErrStaleReference
	}
	e := c.Entry(ref.EntryID)
	if e == nil || ref.PageIndex < 0 || ref.PageIndex >= len(e.Pages) {
		return EditResult{}, ErrStaleReference
	}

	e.Pages[ref.PageIndex].Content = content
	res := EditResult{Pages: len(e.Pages)}
	if d.AutoPaginate && e.Reflow(d.Limit()) {
		res.Paginated = true
		res.Pages = len(e.Pages)
		c.clampPageIndex()
	}
	return res, nil
}
