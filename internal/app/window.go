package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pfassina/grimoire/internal/book"
	"github.com/pfassina/grimoire/internal/panel"
	"github.com/pfassina/grimoire/internal/session"
	"github.com/pfassina/grimoire/internal/theme"
)

// minBodyWidth is the narrowest page body that still shows the sidebar.
const minBodyWidth = 16

// frame is the cell layout of one window. Offsets are relative to the
// window's top-left corner.
type frame struct {
	rect     session.Rect
	sidebarW int
	bodyX    int
	bodyW    int
	bodyH    int
	footer   bool
}

func (a *App) frameOf(w *session.Window, c *book.Category) frame {
	f := frame{rect: w.Rect}
	inner := max(w.Rect.W-2, 0)
	content := max(w.Rect.H-2, 0)

	sw := min(int(c.WindowState.SidebarWidth), inner/2)
	if inner-sw-1 < minBodyWidth {
		sw = 0
	}
	f.sidebarW = sw
	f.bodyX = 1
	f.bodyW = inner
	if sw > 0 {
		f.bodyX += sw + 1
		f.bodyW -= sw + 1
	}

	f.footer = a.mgr.Document().BookModeEnabled && content > 1
	f.bodyH = content
	if f.footer {
		f.bodyH--
	}
	return f
}

// bodyHeight returns the page body height of an open window.
func (a *App) bodyHeight(w *session.Window) int {
	c := a.mgr.Document().Category(w.CategoryID)
	if c == nil {
		return 0
	}
	return a.frameOf(w, c).bodyH
}

func (a *App) windowView(w *session.Window) string {
	c := a.mgr.Document().Category(w.CategoryID)
	if c == nil || w.Rect.W < 3 || w.Rect.H < 3 {
		return ""
	}
	f := a.frameOf(w, c)
	focused := w.CategoryID == a.mgr.FocusedID()
	locked := a.mgr.Locked(c.ID)

	border := lipgloss.NewStyle().Foreground(a.theme.Border)
	switch {
	case focused && locked:
		border = border.Foreground(a.theme.Locked)
	case focused:
		border = border.Foreground(a.theme.Accent)
	}
	bar := border.Render("│")

	lines := make([]string, 0, w.Rect.H)
	lines = append(lines, a.titleRow(c, f, border, focused, locked))

	var side []string
	if f.sidebarW > 0 {
		side = strings.Split(a.sidebarFor(c, f, focused).View(), "\n")
	}
	body := a.bodyLines(c, f)

	for i := 0; i < w.Rect.H-2; i++ {
		row := bar
		if f.sidebarW > 0 {
			s := ""
			if i < len(side) {
				s = side[i]
			}
			row += fit(s, f.sidebarW) + bar
		}
		switch {
		case i < f.bodyH:
			b := ""
			if i < len(body) {
				b = body[i]
			}
			row += fit(b, f.bodyW)
		default:
			row += a.footerView(c, f.bodyW)
		}
		lines = append(lines, row+bar)
	}

	corner := "╯"
	if !locked && !c.WindowState.IsFullscreen {
		corner = "◢"
	}
	lines = append(lines, border.Render("╰"+strings.Repeat("─", w.Rect.W-2)+corner))
	return strings.Join(lines, "\n")
}

func (a *App) titleRow(c *book.Category, f frame, border lipgloss.Style, focused, locked bool) string {
	label := " " + theme.Glyph(c.Icon) + " " + c.Name + " "

	var flags []string
	if locked {
		flags = append(flags, "locked")
	}
	if c.WindowState.IsFullscreen {
		flags = append(flags, "full")
	}
	if !c.BackgroundFor(c.ActiveEntry()).IsZero() {
		flags = append(flags, "bg")
	}
	if c.Shortcut != "" {
		flags = append(flags, c.Shortcut)
	}
	if c.ID == a.mgr.Document().DefaultCategoryID {
		flags = append(flags, "default")
	}
	extra := ""
	if len(flags) > 0 {
		extra = "[" + strings.Join(flags, " ") + "] "
	}

	avail := f.rect.W - 3
	text := ansi.Truncate(label+extra, avail, "… ")
	dashes := max(avail-ansi.StringWidth(text), 0)

	titleStyle := lipgloss.NewStyle().Foreground(a.theme.Subtle)
	if focused {
		titleStyle = titleStyle.Foreground(a.theme.Accent).Bold(true)
	}
	return border.Render("╭─") + titleStyle.Render(text) + border.Render(strings.Repeat("─", dashes)+"╮")
}

func (a *App) sidebarFor(c *book.Category, f frame, focused bool) panel.Sidebar {
	sb := panel.Sidebar{
		Width:   f.sidebarW,
		Height:  f.rect.H - 2,
		Focused: focused,
		Theme:   &a.theme,
	}
	active := c.ActiveEntry()
	for i, e := range c.Entries {
		sb.Items = append(sb.Items, panel.SidebarItem{Icon: e.Icon, Name: e.Name, Pages: len(e.Pages)})
		if e == active {
			sb.Active = i
		}
	}
	return sb
}

// bodyLines returns the visible rows of a window body: the page editor when
// it targets this window, otherwise the rendered page scrolled into place.
func (a *App) bodyLines(c *book.Category, f frame) []string {
	if a.editor != nil && a.editor.catID == c.ID {
		return strings.Split(a.editor.ta.View(), "\n")
	}

	dim := lipgloss.NewStyle().Foreground(a.theme.Dim)
	e := c.ActiveEntry()
	if e == nil {
		return []string{"", dim.Render("  No entries yet. Press space e n to add one.")}
	}

	src := e.Text()
	if a.mgr.Document().BookModeEnabled {
		if p := c.ActivePage(); p != nil {
			src = p.Content
		}
	}
	if strings.TrimSpace(src) == "" {
		return []string{"", dim.Render("  Empty page. Press e to write.")}
	}

	lines := strings.Split(a.renderBody(src, f.bodyW), "\n")
	off := a.scroll[c.ID]
	off = min(off, max(len(lines)-f.bodyH, 0))
	off = max(off, 0)
	a.scroll[c.ID] = off
	return lines[off:]
}

// renderBody renders markdown for the terminal, falling back to the raw text
// when glamour fails.
func (a *App) renderBody(src string, width int) string {
	key := renderKey{width: width, content: src}
	if out, ok := a.cache[key]; ok {
		return out
	}
	out, err := a.render.Render(src, width)
	if err != nil {
		a.logger.Warn("render page", "err", err)
		out = src
	}
	if len(a.cache) >= renderCacheSize {
		clear(a.cache)
	}
	a.cache[key] = out
	return out
}

// footerView draws the page navigator of book mode: ‹ n / N ›.
func (a *App) footerView(c *book.Category, width int) string {
	e := c.ActiveEntry()
	total := 0
	if e != nil {
		total = len(e.Pages)
	}
	idx := min(c.WindowState.ActivePageIndex, max(total-1, 0))

	arrow := lipgloss.NewStyle().Foreground(a.theme.Accent)
	off := lipgloss.NewStyle().Foreground(a.theme.Dim)
	prev, next := off.Render("‹"), off.Render("›")
	if idx > 0 {
		prev = arrow.Render("‹")
	}
	if idx < total-1 {
		next = arrow.Render("›")
	}

	mid := fmt.Sprintf("%d / %d", idx+1, max(total, 1))
	gap := max(width-2-ansi.StringWidth(mid), 0)
	left := gap / 2
	return fit(prev+strings.Repeat(" ", left)+off.Render(mid)+strings.Repeat(" ", gap-left)+next, width)
}

func (a *App) scrollBy(catID string, n int) {
	a.scroll[catID] = max(a.scroll[catID]+n, 0)
}

// turnPage flips a page in book mode, or scrolls the body otherwise.
func (a *App) turnPage(catID string, kind session.Kind) tea.Cmd {
	w := a.mgr.Window(catID)
	if w == nil {
		return nil
	}
	if !a.mgr.Document().BookModeEnabled {
		n := a.bodyHeight(w) - 1
		if kind == session.KindPrevPage {
			n = -n
		}
		a.scrollBy(catID, n)
		return nil
	}
	delete(a.scroll, catID)
	return a.apply(session.Event{Kind: kind, CategoryID: catID})
}

// stepEntry selects the entry delta rows away from the active one.
func (a *App) stepEntry(delta int) tea.Cmd {
	c := a.focusedCategory()
	if c == nil || len(c.Entries) == 0 {
		return nil
	}
	i := 0
	if e := c.ActiveEntry(); e != nil {
		i = c.EntryIndex(e.ID)
	}
	i = max(0, min(i+delta, len(c.Entries)-1))
	delete(a.scroll, c.ID)
	return a.apply(session.Event{Kind: session.KindSelectEntry, CategoryID: c.ID, EntryID: c.Entries[i].ID})
}

func (a *App) resizeSidebar(catID string, delta int) tea.Cmd {
	c := a.mgr.Document().Category(catID)
	if c == nil {
		return nil
	}
	return a.apply(session.Event{
		Kind:       session.KindSidebarWidth,
		CategoryID: catID,
		Width:      int(c.WindowState.SidebarWidth) + delta,
	})
}
