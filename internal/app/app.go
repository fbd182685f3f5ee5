// Package app is the Bubble Tea model that draws the category windows and
// routes keys, mouse gestures and background events to the session manager.
package app

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/pfassina/grimoire/internal/book"
	"github.com/pfassina/grimoire/internal/config"
	"github.com/pfassina/grimoire/internal/markdown"
	"github.com/pfassina/grimoire/internal/migrate"
	"github.com/pfassina/grimoire/internal/panel"
	"github.com/pfassina/grimoire/internal/session"
	"github.com/pfassina/grimoire/internal/store"
	"github.com/pfassina/grimoire/internal/theme"
	"github.com/pfassina/grimoire/internal/vault"
)

// Options configures a new App.
type Options struct {
	Config  config.Config
	Vault   *vault.Vault
	Gateway store.Gateway
	Doc     *book.Document
	Logger  *log.Logger
}

// pendingAction remembers the target of an open prompt, picker or confirm.
type pendingAction struct {
	catID   string
	entryID string
	value   string
}

// renderKey identifies a cached page body.
type renderKey struct {
	width   int
	content string
}

const renderCacheSize = 64

type App struct {
	cfg     config.Config
	vault   *vault.Vault
	gw      store.Gateway
	logger  *log.Logger
	mgr     *session.Manager
	saver   *store.Saver
	watcher *store.Watcher

	status   panel.Status
	whichKey panel.WhichKey
	picker   panel.Picker
	prompt   panel.Prompt
	theme    theme.Theme

	render *markdown.TermRenderer
	html   *markdown.HTMLRenderer
	cache  map[renderKey]string

	width  int
	height int

	editor  *pageEditor
	scroll  map[string]int
	gesture string

	// Leader key system
	bindings map[string]*Binding
	leader   LeaderState

	pending pendingAction

	events    chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
}

// New builds the model for one terminal. Changes are saved through the
// gateway after the configured delay; a file gateway is also watched for
// writes made by other sessions.
func New(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	doc := opts.Doc
	if doc == nil {
		doc = book.DefaultDocument()
	}
	v := opts.Vault
	if v == nil {
		v = vault.New(opts.Config.DataDir)
	}

	a := &App{
		cfg:      opts.Config,
		vault:    v,
		gw:       opts.Gateway,
		logger:   logger,
		status:   panel.NewStatus(),
		whichKey: panel.NewWhichKey(),
		picker:   panel.NewPicker(),
		prompt:   panel.NewPrompt(),
		theme:    theme.Get(opts.Config.Theme),
		html:     markdown.NewHTMLRenderer(),
		cache:    make(map[renderKey]string),
		scroll:   make(map[string]int),
		events:   make(chan tea.Msg, 8),
		done:     make(chan struct{}),
	}
	if a.cfg.LeaderKey == "" {
		a.cfg.LeaderKey = " "
	}
	if a.cfg.LeaderTimeout <= 0 {
		a.cfg.LeaderTimeout = config.Default().LeaderTimeout
	}
	a.theme.SetAccent(doc.ThemeColor)
	a.render = markdown.NewTermRenderer(a.theme.Glamour)
	a.initLeader()
	a.status.SetTheme(&a.theme)
	a.whichKey.SetTheme(&a.theme)
	a.picker.SetTheme(&a.theme)
	a.prompt.SetTheme(&a.theme)

	a.saver = store.NewSaver(a.gw, a.snapshot, a.cfg.SaveDelayDuration(), logger)
	a.saver.OnDue(func() { a.post(saveDueMsg{}) })
	a.mgr = session.New(doc, session.Viewport{W: 80, H: 23}, a.saver.MarkDirty)

	if fs, ok := a.gw.(*store.FileStore); ok {
		w, err := store.NewWatcher(fs,
			func(data []byte) { a.post(reloadMsg{data: data}) },
			func(err error) { a.post(watchErrMsg{err: err}) },
			logger)
		if err != nil {
			logger.Warn("settings watcher disabled", "err", err)
		} else {
			a.watcher = w
			go w.Start()
		}
	}
	return a
}

// Manager exposes the window manager, mainly for tests and the CLI.
func (a *App) Manager() *session.Manager {
	return a.mgr
}

func (a *App) snapshot() ([]byte, error) {
	return migrate.Encode(a.mgr.Document())
}

// Close writes pending changes and stops background work. It is safe to
// call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if err := a.saver.Close(); err != nil {
			a.logger.Error("final save failed", "err", err)
		}
		if a.watcher != nil {
			if err := a.watcher.Stop(); err != nil {
				a.logger.Warn("stop watcher", "err", err)
			}
		}
		close(a.done)
	})
}

func (a *App) Init() tea.Cmd {
	return a.listen()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Some terminals send transient 0x0 sizes during live resizes; ignore them.
		if msg.Width <= 0 || msg.Height <= 0 {
			return a, nil
		}
		a.width = msg.Width
		a.height = msg.Height
		a.mgr.SetViewport(session.Viewport{W: msg.Width, H: max(msg.Height-1, 1)})
		a.status.SetWidth(msg.Width)
		a.whichKey.SetWidth(min(msg.Width, 60))
		a.picker.SetSize(msg.Width, msg.Height)
		a.prompt.SetSize(min(msg.Width-4, 80), msg.Height)
		if a.editor != nil {
			a.resizeEditor()
		}
		return a, tea.ClearScreen

	case tea.KeyMsg:
		return a, a.handleKeyMsg(msg)

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case leaderTimeoutMsg:
		a.handleLeaderTimeout()
		a.updateWhichKey()
		return a, nil

	case saveDueMsg:
		var cmd tea.Cmd
		if err := a.saver.Flush(); err != nil {
			a.logger.Error("save failed", "err", err)
			cmd = a.status.Notify(panel.LevelError, "Save failed: "+err.Error())
		}
		return a, tea.Batch(cmd, a.listen())

	case reloadMsg:
		return a, tea.Batch(a.reload(msg.data), a.listen())

	case watchErrMsg:
		a.watcher = nil
		return a, tea.Batch(
			a.status.Notify(panel.LevelWarn, "Stopped watching for outside changes: "+msg.err.Error()),
			a.listen(),
		)

	case panel.NotifyExpiredMsg:
		a.status.Expire(msg.ID)
		return a, nil

	case panel.PromptResultMsg:
		return a, a.handlePromptResult(msg)

	case panel.PromptCancelledMsg:
		a.pending = pendingAction{}
		return a, nil

	case panel.ConfirmResultMsg:
		return a, a.handleConfirm(msg)

	case panel.PickerResultMsg:
		return a, a.handlePickerResult(msg)

	case panel.PickerClosedMsg:
		a.pending = pendingAction{}
		return a, nil
	}

	if a.editor != nil {
		return a, a.updateEditor(msg)
	}
	return a, nil
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		a.Close()
		return tea.Quit
	}

	// Prompt takes priority when visible
	if a.prompt.Visible() {
		var cmd tea.Cmd
		a.prompt, cmd = a.prompt.Update(msg)
		return cmd
	}

	// Picker takes priority when visible
	if a.picker.Visible() {
		var cmd tea.Cmd
		a.picker, cmd = a.picker.Update(msg)
		return cmd
	}

	// Text typed into the page editor never reaches shortcuts.
	if a.editor != nil {
		return a.updateEditor(msg)
	}

	if consumed, cmd := a.handleLeaderKey(key); consumed {
		a.updateWhichKey()
		return cmd
	}

	if a.mgr.Dispatch(keyChord(msg), false) {
		return nil
	}
	return a.handleKey(key)
}

// reload swaps in a document written by another session. Local changes that
// are not yet saved win; they overwrite the outside edit on the next flush.
func (a *App) reload(data []byte) tea.Cmd {
	if a.saver.Pending() {
		a.logger.Warn("outside change ignored, local edits pending")
		return a.status.Notify(panel.LevelWarn, "Settings changed elsewhere; keeping local edits")
	}
	doc, report := migrate.Decode(data)
	if report.Unrecognized {
		a.logger.Warn("outside change not recognized, ignored")
		return a.status.Notify(panel.LevelWarn, "Ignored unreadable outside change")
	}
	if a.editor != nil {
		a.editor = nil
	}
	a.mgr.Replace(doc)
	a.theme.SetAccent(doc.ThemeColor)
	a.logger.Info("reloaded settings", "report", report.String())
	return a.status.Notify(panel.LevelInfo, "Reloaded changes from another session")
}

// apply routes an event and reports refused operations on the status bar.
func (a *App) apply(ev session.Event) tea.Cmd {
	_, cmd := a.applyResult(ev)
	return cmd
}

func (a *App) applyResult(ev session.Event) (session.Result, tea.Cmd) {
	res, err := a.mgr.Apply(ev)
	if err != nil {
		a.logger.Debug("event refused", "kind", ev.Kind, "err", err)
		return res, a.notifyErr(err)
	}
	return res, nil
}

// applyFocused routes an event aimed at the focused window.
func (a *App) applyFocused(ev session.Event) tea.Cmd {
	id := a.mgr.FocusedID()
	if id == "" {
		return a.status.Notify(panel.LevelWarn, "No window is open")
	}
	ev.CategoryID = id
	return a.apply(ev)
}

func (a *App) notifyErr(err error) tea.Cmd {
	text := err.Error()
	if errors.Is(err, book.ErrPreconditionFailed) {
		text = strings.TrimSuffix(text, ": "+book.ErrPreconditionFailed.Error())
	}
	if text != "" {
		text = strings.ToUpper(text[:1]) + text[1:]
	}
	return a.status.Notify(panel.LevelError, text)
}

// focusedCategory returns the category of the focused window.
func (a *App) focusedCategory() *book.Category {
	return a.mgr.Document().Category(a.mgr.FocusedID())
}

func (a *App) updateWhichKey() {
	if !a.leader.showHelp || a.leader.node == nil {
		a.whichKey.Clear()
		return
	}

	var entries []panel.WhichKeyEntry
	for _, b := range a.leader.node {
		key := b.Key
		if key == " " {
			key = "SPC"
		}
		entries = append(entries, panel.WhichKeyEntry{
			Key:   key,
			Label: b.Label,
		})
	}
	a.whichKey.SetEntries(a.leader.keys, entries)
}

func (a *App) updateStatus() {
	switch {
	case a.editor != nil:
		a.status.SetMode("EDIT")
	case a.gesture != "":
		a.status.SetMode(a.gesture)
	case a.leader.active:
		a.status.SetMode("LEADER")
	default:
		a.status.SetMode("NORMAL")
	}

	c := a.focusedCategory()
	if c == nil {
		a.status.SetContext("no window open")
		a.status.SetRight("")
		return
	}
	ctx := c.Name
	e := c.ActiveEntry()
	if e != nil {
		ctx += " › " + e.Name
	}
	a.status.SetContext(ctx)

	right := ""
	if e != nil && a.mgr.Document().BookModeEnabled {
		right = fmt.Sprintf("p %d/%d", c.WindowState.ActivePageIndex+1, len(e.Pages))
	}
	if a.saver.Pending() {
		right = strings.TrimSpace(right + " ●")
	}
	a.status.SetRight(right)
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	vp := a.mgr.Viewport()
	if vp.W < session.MinWidth || vp.H < session.MinHeight {
		msg := fmt.Sprintf("Window too small (%dx%d)\nMinimum supported: %dx%d",
			a.width, a.height, session.MinWidth, session.MinHeight+1)
		box := lipgloss.NewStyle().Foreground(a.theme.Text).Render(msg)
		canvas := blankCanvas(a.width, a.height)
		overlayCenter(canvas, box, a.width, a.height)
		return strings.Join(canvas, "\n")
	}

	canvas := blankCanvas(vp.W, vp.H)
	if len(a.mgr.Windows()) == 0 {
		overlayCenter(canvas, a.emptyView(), vp.W, vp.H)
	}
	for _, w := range a.mgr.Windows() {
		overlayAt(canvas, a.windowView(w), w.Rect.X, w.Rect.Y, vp.W)
	}

	// Overlay which-key popup
	if a.leader.showHelp {
		if wk := a.whichKey.View(); wk != "" {
			overlayCenter(canvas, wk, vp.W, vp.H)
		}
	}
	if a.picker.Visible() {
		overlayCenter(canvas, a.picker.View(), vp.W, vp.H)
	}
	if a.prompt.Visible() {
		overlayCenter(canvas, a.prompt.View(), vp.W, vp.H)
	}

	a.updateStatus()
	return strings.Join(canvas, "\n") + "\n" + a.status.View()
}

func (a *App) emptyView() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(a.theme.Accent).Render("Grimoire")
	hint := lipgloss.NewStyle().Foreground(a.theme.Subtle).Render("t open default  ·  o open category  ·  space menu")
	return lipgloss.JoinVertical(lipgloss.Center, title, "", hint)
}
