// Package ssh serves the grimoire over SSH, one window manager per session.
package ssh

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bts "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/pfassina/grimoire/internal/config"
	"github.com/pfassina/grimoire/internal/store"
	"github.com/pfassina/grimoire/internal/vault"
)

// Options configures a Server.
type Options struct {
	Config config.Config
	Vault  *vault.Vault
	Logger *log.Logger
	// Shared is the store used by every session when storage is not a
	// plain file. Nil selects a per-session file store.
	Shared store.Gateway
}

// Server wraps a Wish SSH server.
type Server struct {
	server *ssh.Server
	cfg    config.Config
	vault  *vault.Vault
	logger *log.Logger
	shared store.Gateway
}

// New creates a new SSH server.
func New(opts Options) (*Server, error) {
	s := &Server{
		cfg:    opts.Config,
		vault:  opts.Vault,
		logger: opts.Logger,
		shared: opts.Shared,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	srv, err := wish.NewServer(
		wish.WithAddress(opts.Config.Listen),
		wish.WithHostKeyPath(opts.Vault.HostKeyPath()),
		wish.WithMiddleware(
			logging.MiddlewareWithLogger(s.logger),
			activeterm.Middleware(),
			bts.Middleware(s.NewHandler()),
			s.closeSessions(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create ssh server: %w", err)
	}
	s.server = srv
	return s, nil
}

// ListenAndServe starts the SSH server.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.cfg.Listen)
	return s.server.ListenAndServe()
}

// Shutdown waits for open sessions to finish until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Close stops the SSH server.
func (s *Server) Close() error {
	return s.server.Close()
}
