package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	gossh "github.com/charmbracelet/ssh"

	"github.com/pfassina/grimoire/internal/app"
	"github.com/pfassina/grimoire/internal/backup"
	"github.com/pfassina/grimoire/internal/config"
	"github.com/pfassina/grimoire/internal/markdown"
	"github.com/pfassina/grimoire/internal/migrate"
	"github.com/pfassina/grimoire/internal/ssh"
	"github.com/pfassina/grimoire/internal/store"
	"github.com/pfassina/grimoire/internal/vault"
)

func main() {
	cfg := config.Default()
	configExisted, err := config.LoadFile(&cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error loading config:", err)
		os.Exit(1)
	}

	dataDir := flag.String("data", cfg.DataDir, "path to the data directory")
	storage := flag.String("storage", cfg.Storage, "settings storage: file|sqlite")
	serve := flag.Bool("serve", cfg.Serve, "run in SSH server mode")
	listen := flag.String("listen", cfg.Listen, "listen address for --serve (e.g. :2222)")
	themeName := flag.String("theme", cfg.Theme, "color theme")
	logLevel := flag.String("log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	leaderKey := flag.String("leader-key", cfg.LeaderKey, "leader key (default: space)")
	leaderTimeout := flag.Int("leader-timeout", cfg.LeaderTimeout, "leader timeout in ms")
	importPath := flag.String("import", "", "import a JSON backup and exit")
	exportPath := flag.String("export", "", "write a JSON backup to this path and exit")
	htmlDir := flag.String("html", "", "render every entry to a static site in this directory and exit")
	history := flag.Bool("history", false, "list saved snapshots (sqlite storage) and exit")
	restore := flag.Int64("restore", 0, "restore the snapshot with this id (sqlite storage) and exit")

	flag.Parse()

	cfg.DataDir = config.ExpandHome(*dataDir)
	cfg.Storage = *storage
	cfg.Serve = *serve
	cfg.Listen = *listen
	cfg.Theme = *themeName
	cfg.LogLevel = *logLevel
	cfg.LeaderKey = *leaderKey
	cfg.LeaderTimeout = *leaderTimeout

	// First-run: if no config file exists and the data dir wasn't explicitly
	// provided, prompt for one and persist it.
	if !configExisted && !argHas("--data") {
		res, err := config.RunSetup()
		if err != nil {
			fmt.Fprintln(os.Stderr, "setup failed:", err)
			os.Exit(1)
		}
		if res.Cancelled {
			os.Exit(0)
		}
		cfg.DataDir = res.DataDir
		if !argHas("--storage") {
			cfg.Storage = res.Storage
		}
	}
	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		os.Exit(1)
	}

	v := vault.New(cfg.DataDir)
	if err := v.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "error creating data dir:", err)
		os.Exit(1)
	}

	logger, closeLog, err := openLogger(v.LogPath(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error opening log:", err)
		os.Exit(1)
	}
	defer closeLog()

	gw, closeStore, err := openStore(cfg, v)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeStore()

	switch {
	case *history:
		err = runHistory(gw)
	case *restore != 0:
		err = runRestore(gw, *restore, logger)
	case *importPath != "":
		err = runImport(gw, *importPath, logger)
	case *exportPath != "":
		err = runExport(gw, *exportPath, logger)
	case *htmlDir != "":
		err = runSite(gw, *htmlDir, logger)
	case cfg.Serve:
		err = runServe(cfg, v, gw, logger)
	default:
		err = runLocal(cfg, v, gw, logger)
	}
	if err != nil {
		logger.Error("exit", "err", err)
		closeStore()
		closeLog()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openLogger writes structured logs to the data directory so they never
// draw over the TUI.
func openLogger(path, level string) (*log.Logger, func(), error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Prefix:          "grimoire",
	})
	return logger, func() { _ = f.Close() }, nil
}

func openStore(cfg config.Config, v *vault.Vault) (store.Gateway, func(), error) {
	if cfg.Storage == config.StorageSQLite {
		db, err := store.OpenSQLite(v.DBPath())
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		return db, func() { _ = db.Close() }, nil
	}
	return store.NewFileStore(v.SettingsPath()), func() {}, nil
}

func runLocal(cfg config.Config, v *vault.Vault, gw store.Gateway, logger *log.Logger) error {
	doc, err := app.LoadDocument(gw, logger)
	if err != nil {
		return err
	}
	a := app.New(app.Options{Config: cfg, Vault: v, Gateway: gw, Doc: doc, Logger: logger})
	defer a.Close()

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func runServe(cfg config.Config, v *vault.Vault, gw store.Gateway, logger *log.Logger) error {
	opts := ssh.Options{Config: cfg, Vault: v, Logger: logger}
	if _, ok := gw.(*store.FileStore); !ok {
		opts.Shared = gw
	}
	s, err := ssh.New(opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "serving on %s (logs in %s)\n", cfg.Listen, v.LogPath())

	// Graceful shutdown on SIGINT/SIGTERM.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(ctx); err != nil {
			logger.Error("shutdown", "err", err)
		}
	}()

	if err := s.ListenAndServe(); err != nil && !errors.Is(err, gossh.ErrServerClosed) {
		return err
	}
	return nil
}

func runExport(gw store.Gateway, path string, logger *log.Logger) error {
	doc, err := app.LoadDocument(gw, logger)
	if err != nil {
		return err
	}
	data, err := backup.Export(doc, time.Now())
	if err != nil {
		return err
	}
	if err := writeOut(path, data); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported %d categories to %s\n", len(doc.Categories), path)
	return nil
}

func runImport(gw store.Gateway, path string, logger *log.Logger) error {
	doc, err := app.LoadDocument(gw, logger)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	sum, err := backup.Import(doc, data)
	if err != nil {
		return err
	}
	out, err := migrate.Encode(doc)
	if err != nil {
		return err
	}
	if err := gw.Save(out); err != nil {
		return err
	}
	logger.Info("imported backup", "path", path, "report", sum.Report.String())
	fmt.Fprintln(os.Stderr, sum.String())
	return nil
}

func runSite(gw store.Gateway, dir string, logger *log.Logger) error {
	doc, err := app.LoadDocument(gw, logger)
	if err != nil {
		return err
	}
	n, err := backup.WriteSite(doc, dir, markdown.NewHTMLRenderer())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d entries to %s\n", n, dir)
	return nil
}

func runHistory(gw store.Gateway) error {
	db, ok := gw.(*store.SQLiteStore)
	if !ok {
		return errors.New("history needs --storage sqlite")
	}
	snaps, err := db.History()
	if err != nil {
		return err
	}
	for _, s := range snaps {
		fmt.Printf("%6d  %s  v%d  %d bytes\n", s.ID, s.SavedAt.Local().Format(time.DateTime), s.SchemaVersion, s.Size)
	}
	return nil
}

func runRestore(gw store.Gateway, id int64, logger *log.Logger) error {
	db, ok := gw.(*store.SQLiteStore)
	if !ok {
		return errors.New("restore needs --storage sqlite")
	}
	data, err := db.Snapshot(id)
	if err != nil {
		return err
	}
	if err := db.Save(data); err != nil {
		return err
	}
	logger.Info("restored snapshot", "id", id)
	fmt.Fprintf(os.Stderr, "restored snapshot %d\n", id)
	return nil
}

func writeOut(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func argHas(name string) bool {
	for _, a := range os.Args[1:] {
		if a == name || a == "-"+name[2:] {
			return true
		}
	}
	return false
}
