package store

import (
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// Watcher reports changes to the settings file made by anyone other than
// the store itself, such as another SSH session or a text editor.
type Watcher struct {
	store    *FileStore
	watcher  *fsnotify.Watcher
	onChange func(data []byte)
	onError  func(err error)
	logger   *log.Logger

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// NewWatcher watches the directory holding the store's file. Directories are
// watched instead of the file so atomic renames are seen.
func NewWatcher(store *FileStore, onChange func([]byte), onError func(error), logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(store.Path())); err != nil {
		_ = fw.Close()
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Watcher{
		store:    store,
		watcher:  fw,
		onChange: onChange,
		onError:  onError,
		logger:   logger,
	}, nil
}

// Start begins watching for changes. Blocks until Stop is called.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.fatal(err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.store.Path()) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchDebounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	w.timer = nil
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return
	}

	data, err := w.store.Load()
	if err != nil {
		w.logger.Warn("reload settings", "err", err)
		return
	}
	if len(data) == 0 || w.store.Own(data) {
		return
	}
	w.logger.Info("settings changed on disk", "path", w.store.Path())
	if w.onChange != nil {
		w.onChange(data)
	}
}

func (w *Watcher) fatal(err error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	onError := w.onError
	w.mu.Unlock()

	w.logger.Error("watcher failed", "err", err)
	if onError != nil {
		onError(err)
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
