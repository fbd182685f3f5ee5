package ssh

import (
	"bytes"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"

	"github.com/pfassina/grimoire/internal/app"
	"github.com/pfassina/grimoire/internal/book"
	"github.com/pfassina/grimoire/internal/config"
	"github.com/pfassina/grimoire/internal/store"
	"github.com/pfassina/grimoire/internal/vault"
)

func TestGatewayFor(t *testing.T) {
	v := vault.New(t.TempDir())

	s := &Server{vault: v}
	a, ok := s.gatewayFor().(*store.FileStore)
	if !ok {
		t.Fatal("expected a file store")
	}
	b := s.gatewayFor().(*store.FileStore)
	if a == b {
		t.Error("sessions share a file store")
	}
	if a.Path() != v.SettingsPath() {
		t.Errorf("path = %q", a.Path())
	}

	db, err := store.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	s.shared = db
	if s.gatewayFor() != store.Gateway(db) {
		t.Error("shared store not used")
	}
}

type testContext struct {
	ssh.Context
	values map[any]any
}

func (c *testContext) Value(key any) any       { return c.values[key] }
func (c *testContext) SetValue(key, value any) { c.values[key] = value }

type testSession struct {
	ssh.Session
	ctx *testContext
}

func (s testSession) Context() ssh.Context { return s.ctx }
func (s testSession) User() string         { return "tester" }

func TestCloseSessionsSavesAfterProgram(t *testing.T) {
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cfg := config.Default()
	cfg.SaveDelay = 60000
	v := vault.New(t.TempDir())
	s := &Server{cfg: cfg, vault: v, logger: log.New(io.Discard), shared: db}
	sess := testSession{ctx: &testContext{values: map[any]any{}}}

	inner := func(sess ssh.Session) {
		a := app.New(app.Options{Config: cfg, Vault: v, Gateway: db, Doc: book.DefaultDocument()})
		sess.Context().SetValue(appKey{}, a)
		a.Manager().Open(book.DefaultCategoryID)

		if data, _ := db.Load(); data != nil {
			t.Error("saved while the program was still running")
		}
	}
	s.closeSessions()(inner)(sess)

	data, err := db.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"isOpen": true`)) {
		t.Errorf("open window not saved on close: %s", data)
	}
}
