package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "data", "settings.json"))

	data, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if data != nil {
		t.Fatalf("missing file loaded %q", data)
	}

	want := []byte(`{"schemaVersion":3}`)
	if err := s.Save(want); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(want) {
		t.Errorf("Load = %q, want %q", got, want)
	}
	if !s.Own(got) {
		t.Error("Own should recognize the last write")
	}
	if s.Own([]byte(`{}`)) {
		t.Error("Own matched foreign data")
	}

	entries, _ := os.ReadDir(filepath.Dir(s.Path()))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestPreserve(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "settings.json"))
	path, err := s.Preserve([]byte("garbage"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(filepath.Base(path), "settings.unrecognized-") {
		t.Errorf("path = %s", path)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "garbage" {
		t.Errorf("preserved %q", data)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if data, err := s.Load(); err != nil || data != nil {
		t.Fatalf("empty Load = %q, %v", data, err)
	}

	for i := 0; i < HistoryLimit+5; i++ {
		if err := s.Save([]byte(fmt.Sprintf(`{"schemaVersion":3,"n":%d}`, i))); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Save([]byte(`{"schemaVersion":3}`)); err != nil {
		t.Fatal(err)
	}

	data, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"schemaVersion":3}` {
		t.Errorf("Load = %q", data)
	}

	hist, err := s.History()
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != HistoryLimit {
		t.Fatalf("history = %d, want %d", len(hist), HistoryLimit)
	}
	if hist[0].SchemaVersion != 3 {
		t.Errorf("schema version = %d", hist[0].SchemaVersion)
	}
	snap, err := s.Snapshot(hist[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if string(snap) != `{"schemaVersion":3}` {
		t.Errorf("latest snapshot = %q", snap)
	}
	if _, err := s.Snapshot(-1); err == nil {
		t.Error("expected error for unknown snapshot")
	}
}

func TestSQLiteReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grimoire.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save([]byte(`{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	data, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("Load after reopen = %q", data)
	}
}

type memGateway struct {
	mu    sync.Mutex
	saves [][]byte
	err   error
}

func (g *memGateway) Load() ([]byte, error) { return nil, nil }

func (g *memGateway) Save(data []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.saves = append(g.saves, data)
	return nil
}

func (g *memGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.saves)
}

func TestSaverDebounces(t *testing.T) {
	gw := &memGateway{}
	s := NewSaver(gw, func() ([]byte, error) { return []byte("doc"), nil }, 20*time.Millisecond, nil)

	for i := 0; i < 10; i++ {
		s.MarkDirty()
	}
	deadline := time.Now().Add(2 * time.Second)
	for gw.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	if n := gw.count(); n != 1 {
		t.Errorf("saves = %d, want 1", n)
	}
	if s.Pending() {
		t.Error("still pending after save")
	}
}

func TestSaverOnDue(t *testing.T) {
	gw := &memGateway{}
	s := NewSaver(gw, func() ([]byte, error) { return []byte("doc"), nil }, 10*time.Millisecond, nil)
	due := make(chan struct{}, 1)
	s.OnDue(func() { due <- struct{}{} })

	s.MarkDirty()
	select {
	case <-due:
	case <-time.After(2 * time.Second):
		t.Fatal("due callback not called")
	}
	if gw.count() != 0 {
		t.Error("saved without an explicit flush")
	}
	if err := s.Flush(); err != nil {
		t.Fatal(err)
	}
	if gw.count() != 1 {
		t.Errorf("saves = %d, want 1", gw.count())
	}
}

func TestSaverKeepsDirtyOnError(t *testing.T) {
	gw := &memGateway{err: errors.New("disk full")}
	s := NewSaver(gw, func() ([]byte, error) { return []byte("doc"), nil }, time.Hour, nil)

	s.MarkDirty()
	if err := s.Flush(); err == nil {
		t.Fatal("expected flush error")
	}
	if !s.Pending() {
		t.Error("failed save cleared dirty flag")
	}

	gw.err = nil
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if s.Pending() || gw.count() != 1 {
		t.Errorf("pending=%v saves=%d after retry", s.Pending(), gw.count())
	}
}

func TestWatcherIgnoresOwnWrites(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "settings.json"))
	if err := s.Save([]byte(`{}`)); err != nil {
		t.Fatal(err)
	}

	changed := make(chan []byte, 4)
	w, err := NewWatcher(s, func(data []byte) { changed <- data }, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	go w.Start()
	defer w.Stop()

	if err := s.Save([]byte(`{"own":true}`)); err != nil {
		t.Fatal(err)
	}
	select {
	case data := <-changed:
		t.Fatalf("own write reported: %s", data)
	case <-time.After(watchDebounce + 300*time.Millisecond):
	}

	if err := os.WriteFile(s.Path(), []byte(`{"foreign":true}`), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case data := <-changed:
		if string(data) != `{"foreign":true}` {
			t.Errorf("reported %s", data)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("external write not reported")
	}
}
