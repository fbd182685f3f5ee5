package store

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultSaveDelay is the quiet period before a dirty document is written.
const DefaultSaveDelay = 500 * time.Millisecond

// Saver coalesces bursts of changes into a single write. MarkDirty arms a
// timer; when it fires the due callback runs, which by default flushes
// directly. Interactive callers replace it so the flush happens on their own
// event loop.
type Saver struct {
	gw       Gateway
	snapshot func() ([]byte, error)
	delay    time.Duration
	logger   *log.Logger

	mu    sync.Mutex
	timer *time.Timer
	dirty bool
	due   func()
}

// NewSaver creates a saver that writes snapshot() to gw.
func NewSaver(gw Gateway, snapshot func() ([]byte, error), delay time.Duration, logger *log.Logger) *Saver {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Saver{
		gw:       gw,
		snapshot: snapshot,
		delay:    delay,
		logger:   logger,
	}
	s.due = func() {
		if err := s.Flush(); err != nil {
			s.logger.Error("save failed", "err", err)
		}
	}
	return s
}

// OnDue replaces the callback run when the delay elapses.
func (s *Saver) OnDue(fn func()) {
	s.mu.Lock()
	s.due = fn
	s.mu.Unlock()
}

// MarkDirty records a change and restarts the delay.
func (s *Saver) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		s.timer = nil
		due := s.due
		s.mu.Unlock()
		due()
	})
}

// Pending reports whether changes are waiting to be written.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Flush writes pending changes now. A failed write leaves the saver dirty.
func (s *Saver) Flush() error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	s.dirty = false
	s.mu.Unlock()

	data, err := s.snapshot()
	if err == nil {
		err = s.gw.Save(data)
	}
	if err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return fmt.Errorf("flush: %w", err)
	}
	s.logger.Debug("saved settings", "bytes", len(data))
	return nil
}

// Close flushes pending changes and stops the timer.
func (s *Saver) Close() error {
	return s.Flush()
}
