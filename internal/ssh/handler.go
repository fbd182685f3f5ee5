package ssh

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	bts "github.com/charmbracelet/wish/bubbletea"

	"github.com/pfassina/grimoire/internal/app"
	"github.com/pfassina/grimoire/internal/store"
)

// gatewayFor returns the store a session reads and writes. File storage
// gets a store per session so each one recognizes its own writes and reloads
// the others'.
func (s *Server) gatewayFor() store.Gateway {
	if s.shared != nil {
		return s.shared
	}
	return store.NewFileStore(s.vault.SettingsPath())
}

type appKey struct{}

// closeSessions closes a session's App after the inner handlers return. The
// Bubble Tea program has stopped by then, so the final save reads a
// document nothing else is changing.
func (s *Server) closeSessions() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			next(sess)
			if a, ok := sess.Context().Value(appKey{}).(*app.App); ok {
				a.Close()
				s.logger.Info("session closed", "user", sess.User())
			}
		}
	}
}

// NewHandler returns a Bubble Tea handler for SSH sessions.
func (s *Server) NewHandler() bts.Handler {
	return func(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
		logger := s.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		gw := s.gatewayFor()

		doc, err := app.LoadDocument(gw, logger)
		if err != nil {
			logger.Error("session load failed", "err", err)
			_, _ = sess.Stderr().Write([]byte(err.Error() + "\n"))
			return nil, nil
		}

		a := app.New(app.Options{
			Config:  s.cfg,
			Vault:   s.vault,
			Gateway: gw,
			Doc:     doc,
			Logger:  logger,
		})
		sess.Context().SetValue(appKey{}, a)
		logger.Info("session opened")

		opts := []tea.ProgramOption{
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		}
		opts = append(opts, bts.MakeOptions(sess)...)

		return a, opts
	}
}
