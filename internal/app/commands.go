package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfassina/grimoire/internal/backup"
	"github.com/pfassina/grimoire/internal/book"
	"github.com/pfassina/grimoire/internal/markdown"
	"github.com/pfassina/grimoire/internal/panel"
	"github.com/pfassina/grimoire/internal/session"
	"github.com/pfassina/grimoire/internal/theme"
)

// Prompt, picker and confirm purposes.
const (
	purposeOpen           = "open"
	purposeNewCategory    = "new-category"
	purposeRenameCategory = "rename-category"
	purposeDeleteCategory = "delete-category"
	purposeIconCategory   = "icon-category"
	purposeIconEntry      = "icon-entry"
	purposeBgCategory     = "bg-category"
	purposeBgEntry        = "bg-entry"
	purposeShortcut       = "shortcut"
	purposeNewEntry       = "new-entry"
	purposeRenameEntry    = "rename-entry"
	purposeDeleteEntry    = "delete-entry"
	purposeMoveEntry      = "move-entry"
	purposeMoveNew        = "move-new-category"
	purposeDeletePage     = "delete-page"
	purposeTemplate       = "template"
	purposeGotoPage       = "goto-page"
	purposeSidebarWidth   = "sidebar-width"
	purposePaginateLimit  = "paginate-limit"
	purposeThemeColor     = "theme-color"
	purposeReset          = "reset-settings"
	purposeImportPath     = "import-path"
	purposeImport         = "import"
	purposeDiscardEdit    = "discard-edit"
)

// requireFocus records the focused window as the pending target, or returns
// a notification when no window is open.
func (a *App) requireFocus(withEntry bool) (*book.Category, *book.Entry, tea.Cmd) {
	c := a.focusedCategory()
	if c == nil {
		return nil, nil, a.status.Notify(panel.LevelWarn, "No window is open")
	}
	e := c.ActiveEntry()
	if withEntry && e == nil {
		return nil, nil, a.status.Notify(panel.LevelWarn, "This category has no entries")
	}
	a.pending = pendingAction{catID: c.ID}
	if e != nil {
		a.pending.entryID = e.ID
	}
	return c, e, nil
}

// Category commands

func (a *App) pickCategory() tea.Cmd {
	doc := a.mgr.Document()
	items := make([]panel.PickerItem, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		var extra []string
		if a.mgr.IsOpen(c.ID) {
			extra = append(extra, "open")
		}
		if c.Shortcut != "" {
			extra = append(extra, c.Shortcut)
		}
		items = append(items, panel.PickerItem{
			Title: theme.Glyph(c.Icon) + " " + c.Name,
			Value: c.ID,
			Extra: strings.Join(extra, " "),
		})
	}
	a.picker.Show(purposeOpen, "Open category", items)
	return nil
}

func (a *App) promptNewCategory() tea.Cmd {
	a.prompt.Show(purposeNewCategory, "New category", "Category name", "")
	return nil
}

func (a *App) promptRenameCategory() tea.Cmd {
	c, _, cmd := a.requireFocus(false)
	if c == nil {
		return cmd
	}
	a.prompt.Show(purposeRenameCategory, "Rename category", "Category name", c.Name)
	return nil
}

func (a *App) confirmDeleteCategory() tea.Cmd {
	c, _, cmd := a.requireFocus(false)
	if c == nil {
		return cmd
	}
	a.prompt.ShowConfirm(purposeDeleteCategory,
		fmt.Sprintf("Delete %q and its %d entries?", c.Name, len(c.Entries)))
	return nil
}

func (a *App) pickIcon(entry bool) tea.Cmd {
	if _, _, cmd := a.requireFocus(entry); cmd != nil {
		return cmd
	}
	items := make([]panel.PickerItem, 0, len(theme.IconPresets))
	for _, name := range theme.IconPresets {
		items = append(items, panel.PickerItem{
			Title: theme.Glyph(name) + "  " + strings.TrimPrefix(name, "fa-"),
			Value: name,
		})
	}
	purpose, title := purposeIconCategory, "Category icon"
	if entry {
		purpose, title = purposeIconEntry, "Entry icon"
	}
	a.picker.Show(purpose, title, items)
	return nil
}

func (a *App) promptBackground(entry bool) tea.Cmd {
	c, e, cmd := a.requireFocus(entry)
	if c == nil {
		return cmd
	}
	bg, purpose, title := c.Background, purposeBgCategory, "Category background"
	if entry {
		bg, purpose, title = e.Background, purposeBgEntry, "Entry background"
	}
	a.prompt.Show(purpose, title, "url | position | blur (empty clears)", formatBackground(bg))
	a.prompt.AllowEmpty()
	return nil
}

// formatBackground renders a background as "url | position | blur".
func formatBackground(bg book.Background) string {
	if bg.IsZero() {
		return ""
	}
	blur := ""
	if bg.Blur != nil {
		blur = strconv.Itoa(*bg.Blur)
	}
	return strings.TrimRight(bg.URL+" | "+bg.Position+" | "+blur, " |")
}

// parseBackground reads the "url | position | blur" form. Missing fields
// stay empty.
func parseBackground(s string) (book.Background, error) {
	var bg book.Background
	parts := strings.Split(s, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) > 3 {
		return bg, fmt.Errorf("expected url | position | blur: %w", book.ErrPreconditionFailed)
	}
	bg.URL = parts[0]
	if len(parts) > 1 {
		bg.Position = parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		n, err := strconv.Atoi(strings.TrimSuffix(parts[2], "px"))
		if err != nil || n < 0 {
			return bg, fmt.Errorf("blur must be a non-negative number: %w", book.ErrPreconditionFailed)
		}
		bg.Blur = &n
	}
	return bg, nil
}

func (a *App) promptShortcut() tea.Cmd {
	c, _, cmd := a.requireFocus(false)
	if c == nil {
		return cmd
	}
	a.prompt.Show(purposeShortcut, "Shortcut for "+c.Name, "e.g. ctrl+alt+g (empty clears)", c.Shortcut)
	a.prompt.AllowEmpty()
	return nil
}

func (a *App) setDefault() tea.Cmd {
	c, _, cmd := a.requireFocus(false)
	if c == nil {
		return cmd
	}
	if cmd := a.apply(session.Event{Kind: session.KindSetDefault, CategoryID: c.ID}); cmd != nil {
		return cmd
	}
	return a.status.Notify(panel.LevelInfo, c.Name+" is now the default category")
}

// Entry commands

func (a *App) promptNewEntry() tea.Cmd {
	c, _, cmd := a.requireFocus(false)
	if c == nil {
		return cmd
	}
	a.prompt.Show(purposeNewEntry, "New entry in "+c.Name, "Entry name", "")
	return nil
}

func (a *App) promptRenameEntry() tea.Cmd {
	_, e, cmd := a.requireFocus(true)
	if e == nil {
		return cmd
	}
	a.prompt.Show(purposeRenameEntry, "Rename entry", "Entry name", e.Name)
	return nil
}

func (a *App) confirmDeleteEntry() tea.Cmd {
	_, e, cmd := a.requireFocus(true)
	if e == nil {
		return cmd
	}
	a.prompt.ShowConfirm(purposeDeleteEntry,
		fmt.Sprintf("Delete entry %q and its %d pages?", e.Name, len(e.Pages)))
	return nil
}

func (a *App) pickMoveTarget() tea.Cmd {
	c, _, cmd := a.requireFocus(true)
	if c == nil {
		return cmd
	}
	var items []panel.PickerItem
	for _, other := range a.mgr.Document().Categories {
		if other.ID == c.ID {
			continue
		}
		items = append(items, panel.PickerItem{Title: theme.Glyph(other.Icon) + " " + other.Name, Value: other.ID})
	}
	items = append(items, panel.PickerItem{Title: "+ New category", Value: "", Extra: "create"})
	a.picker.Show(purposeMoveEntry, "Move entry to", items)
	return nil
}

func (a *App) reorderEntry(delta int) tea.Cmd {
	c, e, cmd := a.requireFocus(true)
	if e == nil {
		return cmd
	}
	from := c.EntryIndex(e.ID)
	to := from + delta
	if to < 0 || to >= len(c.Entries) {
		return nil
	}
	return a.apply(session.Event{Kind: session.KindReorderEntry, CategoryID: c.ID, From: from, To: to})
}

// Page commands

func (a *App) confirmDeletePage() tea.Cmd {
	c, e, cmd := a.requireFocus(true)
	if e == nil {
		return cmd
	}
	a.prompt.ShowConfirm(purposeDeletePage,
		fmt.Sprintf("Delete page %d of %q?", c.WindowState.ActivePageIndex+1, e.Name))
	return nil
}

func (a *App) formatPage() tea.Cmd {
	c, e, cmd := a.requireFocus(true)
	if e == nil {
		return cmd
	}
	p := c.ActivePage()
	if p == nil {
		return nil
	}
	formatted := markdown.Format(p.Content)
	if formatted == p.Content {
		return a.status.Notify(panel.LevelInfo, "Page already formatted")
	}
	return a.apply(session.Event{
		Kind:       session.KindEditPage,
		CategoryID: c.ID,
		EntryID:    e.ID,
		Page:       c.WindowState.ActivePageIndex,
		Content:    formatted,
	})
}

func (a *App) pickTemplate() tea.Cmd {
	if _, _, cmd := a.requireFocus(true); cmd != nil {
		return cmd
	}
	tpls, err := a.vault.LoadTemplates()
	if err != nil {
		return a.status.Notify(panel.LevelError, "Load templates: "+err.Error())
	}
	if len(tpls) == 0 {
		return a.status.Notify(panel.LevelWarn, "No templates in "+a.vault.TemplatesDir())
	}
	items := make([]panel.PickerItem, 0, len(tpls))
	for _, t := range tpls {
		items = append(items, panel.PickerItem{Title: t.Name, Value: t.Path, Extra: markdown.Title(t.Content, 40)})
	}
	a.picker.Show(purposeTemplate, "New page from template", items)
	return nil
}

func (a *App) promptGotoPage() tea.Cmd {
	_, e, cmd := a.requireFocus(true)
	if e == nil {
		return cmd
	}
	a.prompt.Show(purposeGotoPage, fmt.Sprintf("Go to page (1-%d)", len(e.Pages)), "Page number", "")
	return nil
}

func (a *App) repaginate() tea.Cmd {
	c, _, cmd := a.requireFocus(true)
	if c == nil {
		return cmd
	}
	changed, err := a.mgr.Document().Repaginate(c.ID)
	if err != nil {
		return a.notifyErr(err)
	}
	if !changed {
		return a.status.Notify(panel.LevelInfo, "Pages already fit the limit")
	}
	a.saver.MarkDirty()
	return a.status.Notify(panel.LevelInfo, "Entry repaginated")
}

// View and settings commands

func (a *App) promptSidebarWidth() tea.Cmd {
	c, _, cmd := a.requireFocus(false)
	if c == nil {
		return cmd
	}
	a.prompt.Show(purposeSidebarWidth,
		fmt.Sprintf("Sidebar width (%d-%d)", book.SidebarMinWidth, book.SidebarMaxWidth),
		"Columns", strconv.Itoa(int(c.WindowState.SidebarWidth)))
	return nil
}

// settingToggle builds an action flipping one boolean setting.
func settingToggle(label string, field func(s *book.Settings) *bool) func(a *App) tea.Cmd {
	return func(a *App) tea.Cmd {
		on := false
		a.mgr.UpdateSettings(func(s *book.Settings) {
			p := field(s)
			*p = !*p
			on = *p
		})
		state := "off"
		if on {
			state = "on"
		}
		return a.status.Notify(panel.LevelInfo, label+" "+state)
	}
}

// toggleBoundaries switches all four viewport edges together.
func (a *App) toggleBoundaries() tea.Cmd {
	on := false
	a.mgr.UpdateSettings(func(s *book.Settings) {
		b := &s.Boundaries
		on = !(b.Top.Enabled || b.Right.Enabled || b.Bottom.Enabled || b.Left.Enabled)
		b.Top.Enabled, b.Right.Enabled, b.Bottom.Enabled, b.Left.Enabled = on, on, on, on
	})
	if on {
		return a.status.Notify(panel.LevelInfo, "Windows stay inside the screen edges")
	}
	return a.status.Notify(panel.LevelInfo, "Windows may leave the screen")
}

func (a *App) promptPaginateLimit() tea.Cmd {
	a.prompt.Show(purposePaginateLimit, "Characters per page", "e.g. 3000",
		strconv.Itoa(a.mgr.Document().PaginateLimit))
	return nil
}

func (a *App) promptThemeColor() tea.Cmd {
	a.prompt.Show(purposeThemeColor, "Accent color", "#rrggbb (empty restores the theme)",
		a.mgr.Document().ThemeColor)
	a.prompt.AllowEmpty()
	return nil
}

func (a *App) confirmReset() tea.Cmd {
	a.prompt.ShowConfirm(purposeReset, "Reset all settings to defaults? Categories are kept.")
	return nil
}

// Transfer commands

func (a *App) exportBackup() tea.Cmd {
	now := time.Now()
	data, err := backup.Export(a.mgr.Document(), now)
	if err != nil {
		return a.notifyErr(err)
	}
	path := a.vault.BackupPath(now)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return a.notifyErr(fmt.Errorf("create export dir: %w", err))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return a.notifyErr(fmt.Errorf("write backup: %w", err))
	}
	a.logger.Info("exported backup", "path", path)
	return a.status.Notify(panel.LevelInfo, "Backup written to "+path)
}

func (a *App) promptImport() tea.Cmd {
	a.prompt.Show(purposeImportPath, "Import backup", "Path to a .json backup", "")
	return nil
}

func (a *App) importBackup(path string) tea.Cmd {
	data, err := os.ReadFile(path)
	if err != nil {
		return a.notifyErr(fmt.Errorf("read backup: %w", err))
	}
	doc := a.mgr.Document()
	sum, err := backup.Import(doc, data)
	if err != nil {
		return a.notifyErr(err)
	}
	a.editor = nil
	clear(a.scroll)
	a.mgr.Replace(doc)
	a.saver.MarkDirty()
	a.logger.Info("imported backup", "path", path, "categories", sum.Categories, "report", sum.Report.String())
	return a.status.Notify(panel.LevelInfo, strings.ToUpper(sum.String()[:1])+sum.String()[1:])
}

func (a *App) exportSite() tea.Cmd {
	dir := filepath.Join(a.vault.ExportDir(), "site")
	n, err := backup.WriteSite(a.mgr.Document(), dir, a.html)
	if err != nil {
		return a.notifyErr(err)
	}
	a.logger.Info("exported site", "dir", dir, "entries", n)
	return a.status.Notify(panel.LevelInfo, fmt.Sprintf("Wrote %d entries to %s", n, dir))
}

// Result handlers

func (a *App) handlePromptResult(msg panel.PromptResultMsg) tea.Cmd {
	p := a.pending
	a.pending = pendingAction{}
	v := msg.Value

	switch msg.Purpose {
	case purposeNewCategory:
		return a.apply(session.Event{Kind: session.KindAddCategory, Name: v})
	case purposeRenameCategory:
		return a.apply(session.Event{Kind: session.KindRenameCategory, CategoryID: p.catID, Name: v})
	case purposeShortcut:
		return a.apply(session.Event{Kind: session.KindSetShortcut, CategoryID: p.catID, Chord: v})
	case purposeBgCategory, purposeBgEntry:
		bg, err := parseBackground(v)
		if err != nil {
			return a.notifyErr(err)
		}
		ev := session.Event{Kind: session.KindSetBackground, CategoryID: p.catID, Background: bg}
		if msg.Purpose == purposeBgEntry {
			ev.EntryID = p.entryID
		}
		return a.apply(ev)

	case purposeNewEntry:
		return a.apply(session.Event{Kind: session.KindAddEntry, CategoryID: p.catID, Name: v})
	case purposeRenameEntry:
		return a.apply(session.Event{Kind: session.KindRenameEntry, CategoryID: p.catID, EntryID: p.entryID, Name: v})
	case purposeMoveNew:
		return a.moveEntry(p, "", v)

	case purposeGotoPage:
		n, err := strconv.Atoi(v)
		if err != nil {
			return a.status.Notify(panel.LevelError, "Not a page number: "+v)
		}
		delete(a.scroll, p.catID)
		return a.apply(session.Event{Kind: session.KindGotoPage, CategoryID: p.catID, Page: n - 1})
	case purposeSidebarWidth:
		n, err := strconv.Atoi(v)
		if err != nil {
			return a.status.Notify(panel.LevelError, "Not a width: "+v)
		}
		return a.apply(session.Event{Kind: session.KindSidebarWidth, CategoryID: p.catID, Width: n})

	case purposePaginateLimit:
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return a.status.Notify(panel.LevelError, "Limit must be a positive number")
		}
		a.mgr.UpdateSettings(func(s *book.Settings) { s.PaginateLimit = n })
		return a.status.Notify(panel.LevelInfo, fmt.Sprintf("Pages hold up to %d characters", n))
	case purposeThemeColor:
		a.mgr.UpdateSettings(func(s *book.Settings) { s.ThemeColor = v })
		a.theme.SetAccent(v)
		return nil

	case purposeImportPath:
		a.pending = pendingAction{value: v}
		a.prompt.ShowConfirm(purposeImport, "Replace all categories with "+filepath.Base(v)+"?")
		return nil
	}
	return nil
}

func (a *App) handleConfirm(msg panel.ConfirmResultMsg) tea.Cmd {
	p := a.pending
	a.pending = pendingAction{}
	if !msg.Yes {
		return nil
	}

	switch msg.Purpose {
	case purposeDeleteCategory:
		return a.apply(session.Event{Kind: session.KindDeleteCategory, CategoryID: p.catID})
	case purposeDeleteEntry:
		return a.apply(session.Event{Kind: session.KindDeleteEntry, CategoryID: p.catID, EntryID: p.entryID})
	case purposeDeletePage:
		delete(a.scroll, p.catID)
		return a.apply(session.Event{Kind: session.KindDeletePage, CategoryID: p.catID})
	case purposeReset:
		a.mgr.UpdateSettings(func(s *book.Settings) { *s = book.DefaultSettings() })
		a.theme.SetAccent("")
		return a.status.Notify(panel.LevelInfo, "Settings reset")
	case purposeImport:
		return a.importBackup(p.value)
	case purposeDiscardEdit:
		a.editor = nil
	}
	return nil
}

func (a *App) handlePickerResult(msg panel.PickerResultMsg) tea.Cmd {
	p := a.pending
	a.pending = pendingAction{}

	switch msg.Purpose {
	case purposeOpen:
		return a.apply(session.Event{Kind: session.KindOpen, CategoryID: msg.Value})
	case purposeIconCategory:
		return a.apply(session.Event{Kind: session.KindSetIcon, CategoryID: p.catID, Icon: msg.Value})
	case purposeIconEntry:
		return a.apply(session.Event{Kind: session.KindSetIcon, CategoryID: p.catID, EntryID: p.entryID, Icon: msg.Value})
	case purposeMoveEntry:
		if msg.Value == "" {
			a.pending = p
			a.prompt.Show(purposeMoveNew, "Move to new category", "Category name", "")
			return nil
		}
		return a.moveEntry(p, msg.Value, "")
	case purposeTemplate:
		return a.addTemplatePage(p, msg.Value)
	}
	return nil
}

func (a *App) moveEntry(p pendingAction, targetID, name string) tea.Cmd {
	res, cmd := a.applyResult(session.Event{
		Kind:       session.KindMoveEntry,
		CategoryID: p.catID,
		EntryID:    p.entryID,
		TargetID:   targetID,
		Name:       name,
	})
	if cmd != nil {
		return cmd
	}
	if c := a.mgr.Document().Category(res.CategoryID); c != nil {
		return a.status.Notify(panel.LevelInfo, "Moved to "+c.Name)
	}
	return nil
}

func (a *App) addTemplatePage(p pendingAction, path string) tea.Cmd {
	tpls, err := a.vault.LoadTemplates()
	if err != nil {
		return a.notifyErr(fmt.Errorf("load templates: %w", err))
	}
	c := a.mgr.Document().Category(p.catID)
	if c == nil {
		return nil
	}
	title := c.Name
	if e := c.Entry(p.entryID); e != nil {
		title = e.Name
	}
	for _, t := range tpls {
		if t.Path == path {
			return a.apply(session.Event{Kind: session.KindAddPage, CategoryID: p.catID, Content: t.Expand(title)})
		}
	}
	return a.status.Notify(panel.LevelWarn, "Template no longer exists")
}
