package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Storage backends for the settings document.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

type Config struct {
	DataDir       string
	Storage       string
	Listen        string
	Serve         bool
	Theme         string
	SaveDelay     int // milliseconds
	LogLevel      string
	LeaderKey     string
	LeaderTimeout int // milliseconds
}

func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:       filepath.Join(home, ".local", "share", "grimoire"),
		Storage:       StorageFile,
		Listen:        ":2222",
		Serve:         false,
		Theme:         "catppuccin",
		SaveDelay:     500,
		LogLevel:      "info",
		LeaderKey:     " ",
		LeaderTimeout: 500,
	}
}

// SaveDelayDuration is the debounce applied to persisted writes.
func (c Config) SaveDelayDuration() time.Duration {
	return time.Duration(c.SaveDelay) * time.Millisecond
}

// Validate rejects settings the program cannot run with.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is empty")
	}
	switch c.Storage {
	case StorageFile, StorageSQLite:
	default:
		return fmt.Errorf("storage %q: want %q or %q", c.Storage, StorageFile, StorageSQLite)
	}
	if c.SaveDelay < 0 {
		return fmt.Errorf("save_delay %d is negative", c.SaveDelay)
	}
	if c.LeaderTimeout <= 0 {
		return fmt.Errorf("leader_timeout %d must be positive", c.LeaderTimeout)
	}
	return nil
}
