package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfassina/grimoire/internal/book"
	"github.com/pfassina/grimoire/internal/session"
)

// Binding represents a leader key binding.
type Binding struct {
	Key      string
	Label    string
	Action   func(a *App) tea.Cmd
	Children map[string]*Binding
}

// LeaderState tracks the leader key sequence.
type LeaderState struct {
	active   bool
	keys     string
	node     map[string]*Binding
	showHelp bool
}

func leaf(key, label string, action func(a *App) tea.Cmd) *Binding {
	return &Binding{Key: key, Label: label, Action: action}
}

func group(key, label string, children ...*Binding) *Binding {
	m := make(map[string]*Binding, len(children))
	for _, c := range children {
		m[c.Key] = c
	}
	return &Binding{Key: key, Label: label, Children: m}
}

func newBindings() map[string]*Binding {
	root := []*Binding{
		leaf(" ", "Open category", (*App).pickCategory),
		group("c", "+category",
			leaf("n", "New category", (*App).promptNewCategory),
			leaf("r", "Rename category", (*App).promptRenameCategory),
			leaf("d", "Delete category", (*App).confirmDeleteCategory),
			leaf("i", "Category icon", func(a *App) tea.Cmd { return a.pickIcon(false) }),
			leaf("b", "Category background", func(a *App) tea.Cmd { return a.promptBackground(false) }),
			leaf("k", "Shortcut", (*App).promptShortcut),
			leaf("s", "Set as default", (*App).setDefault),
			leaf("o", "Open category", (*App).pickCategory),
			leaf("x", "Close all windows", func(a *App) tea.Cmd {
				a.mgr.CloseAll()
				return nil
			}),
		),
		group("e", "+entry",
			leaf("n", "New entry", (*App).promptNewEntry),
			leaf("r", "Rename entry", (*App).promptRenameEntry),
			leaf("d", "Delete entry", (*App).confirmDeleteEntry),
			leaf("m", "Move to category", (*App).pickMoveTarget),
			leaf("i", "Entry icon", func(a *App) tea.Cmd { return a.pickIcon(true) }),
			leaf("b", "Entry background", func(a *App) tea.Cmd { return a.promptBackground(true) }),
			leaf("J", "Move down", func(a *App) tea.Cmd { return a.reorderEntry(1) }),
			leaf("K", "Move up", func(a *App) tea.Cmd { return a.reorderEntry(-1) }),
		),
		group("p", "+page",
			leaf("a", "Add page", func(a *App) tea.Cmd {
				return a.applyFocused(session.Event{Kind: session.KindAddPage})
			}),
			leaf("d", "Delete page", (*App).confirmDeletePage),
			leaf("e", "Edit page", (*App).startEdit),
			leaf("f", "Format page", (*App).formatPage),
			leaf("t", "Page from template", (*App).pickTemplate),
			leaf("g", "Go to page", (*App).promptGotoPage),
			leaf("r", "Repaginate entry", (*App).repaginate),
		),
		group("v", "+view",
			leaf("f", "Toggle fullscreen", func(a *App) tea.Cmd {
				return a.applyFocused(session.Event{Kind: session.KindToggleFullscreen})
			}),
			leaf("l", "Lock window", func(a *App) tea.Cmd {
				return a.applyFocused(session.Event{Kind: session.KindToggleLock})
			}),
			leaf("w", "Sidebar width", (*App).promptSidebarWidth),
			leaf("L", "Lock layout", settingToggle("Layout lock", func(s *book.Settings) *bool { return &s.LockLayout })),
			leaf("t", "Always on top", settingToggle("Always on top", func(s *book.Settings) *bool { return &s.AlwaysOnTop })),
			leaf("b", "Book mode", settingToggle("Book mode", func(s *book.Settings) *bool { return &s.BookModeEnabled })),
			leaf("e", "Edge boundaries", (*App).toggleBoundaries),
		),
		group("s", "+settings",
			leaf("a", "Auto-paginate", settingToggle("Auto-paginate", func(s *book.Settings) *bool { return &s.AutoPaginate })),
			leaf("l", "Paginate limit", (*App).promptPaginateLimit),
			leaf("k", "Shortcuts enabled", settingToggle("Shortcuts", func(s *book.Settings) *bool { return &s.IsEnabled })),
			leaf("c", "Theme color", (*App).promptThemeColor),
			leaf("r", "Reset settings", (*App).confirmReset),
		),
		group("x", "+transfer",
			leaf("e", "Export backup", (*App).exportBackup),
			leaf("i", "Import backup", (*App).promptImport),
			leaf("h", "Export HTML site", (*App).exportSite),
		),
		group("q", "+quit",
			leaf("q", "Quit Grimoire", func(a *App) tea.Cmd {
				a.Close()
				return tea.Quit
			}),
		),
	}

	m := make(map[string]*Binding, len(root))
	for _, b := range root {
		m[b.Key] = b
	}
	return m
}

func (a *App) initLeader() {
	a.bindings = newBindings()
	a.leader = LeaderState{}
}

func (a *App) leaderTick() tea.Cmd {
	return tea.Tick(time.Duration(a.cfg.LeaderTimeout)*time.Millisecond, func(time.Time) tea.Msg {
		return leaderTimeoutMsg{}
	})
}

// handleLeaderKey processes a key during leader mode.
// Returns true if the key was consumed by the leader system.
func (a *App) handleLeaderKey(key string) (consumed bool, cmd tea.Cmd) {
	if !a.leader.active {
		if key != a.cfg.LeaderKey {
			return false, nil
		}
		a.leader.active = true
		a.leader.keys = ""
		a.leader.node = a.bindings
		a.leader.showHelp = false
		return true, a.leaderTick()
	}

	if key == "esc" {
		a.cancelLeader()
		return true, nil
	}

	if a.leader.keys == "" && key == a.cfg.LeaderKey {
		key = " "
	}
	a.leader.keys += key

	if binding, ok := a.leader.node[key]; ok {
		if binding.Children != nil {
			a.leader.node = binding.Children
			a.leader.showHelp = false
			return true, a.leaderTick()
		}
		a.cancelLeader()
		if binding.Action != nil {
			return true, binding.Action(a)
		}
		return true, nil
	}

	// No match - cancel leader mode
	a.cancelLeader()
	return true, nil
}

func (a *App) handleLeaderTimeout() {
	if a.leader.active {
		a.leader.showHelp = true
	}
}

func (a *App) cancelLeader() {
	a.leader.active = false
	a.leader.showHelp = false
}

// handleKey runs the single-key bindings of normal mode.
func (a *App) handleKey(key string) tea.Cmd {
	switch key {
	case "t":
		return a.apply(session.Event{Kind: session.KindToggle})
	case "o":
		return a.pickCategory()
	case "tab":
		a.mgr.Cycle()
		return nil
	case "?":
		a.leader = LeaderState{active: true, node: a.bindings, showHelp: true}
		a.updateWhichKey()
		return nil
	}

	w := a.mgr.Focused()
	if w == nil {
		return nil
	}
	id := w.CategoryID

	switch key {
	case "q":
		return a.apply(session.Event{Kind: session.KindClose, CategoryID: id})
	case "h", "left":
		return a.turnPage(id, session.KindPrevPage)
	case "l", "right":
		return a.turnPage(id, session.KindNextPage)
	case "j", "down":
		return a.stepEntry(1)
	case "k", "up":
		return a.stepEntry(-1)
	case "e", "enter":
		return a.startEdit()
	case "f":
		return a.apply(session.Event{Kind: session.KindToggleFullscreen, CategoryID: id})
	case "L":
		return a.apply(session.Event{Kind: session.KindToggleLock, CategoryID: id})
	case "ctrl+d", "pgdown":
		a.scrollBy(id, a.bodyHeight(w)/2)
	case "ctrl+u", "pgup":
		a.scrollBy(id, -a.bodyHeight(w)/2)
	case "[":
		return a.resizeSidebar(id, -2)
	case "]":
		return a.resizeSidebar(id, 2)

	case "shift+left":
		a.mgr.Nudge(id, -2, 0)
	case "shift+right":
		a.mgr.Nudge(id, 2, 0)
	case "shift+up":
		a.mgr.Nudge(id, 0, -1)
	case "shift+down":
		a.mgr.Nudge(id, 0, 1)
	case "alt+left", "ctrl+left":
		a.mgr.Grow(id, -2, 0)
	case "alt+right", "ctrl+right":
		a.mgr.Grow(id, 2, 0)
	case "alt+up", "ctrl+up":
		a.mgr.Grow(id, 0, -1)
	case "alt+down", "ctrl+down":
		a.mgr.Grow(id, 0, 1)
	}
	return nil
}
