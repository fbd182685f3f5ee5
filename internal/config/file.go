package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors Config with pointer fields so we can distinguish
// "not set" from zero values when merging TOML.
type fileConfig struct {
	DataDir       *string `toml:"data_dir"`
	Storage       *string `toml:"storage,omitempty"`
	Listen        *string `toml:"listen,omitempty"`
	Theme         *string `toml:"theme,omitempty"`
	SaveDelay     *int    `toml:"save_delay,omitempty"`
	LogLevel      *string `toml:"log_level,omitempty"`
	LeaderKey     *string `toml:"leader_key,omitempty"`
	LeaderTimeout *int    `toml:"leader_timeout,omitempty"`
}

// ConfigDir returns the grimoire config directory, respecting XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "grimoire")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "grimoire")
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadFile reads config.toml and merges non-nil fields into cfg.
// Returns true if the file existed, false otherwise.
func LoadFile(cfg *Config) (bool, error) {
	path := ConfigPath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return true, fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.DataDir != nil {
		cfg.DataDir = ExpandHome(*fc.DataDir)
	}
	if fc.Storage != nil {
		cfg.Storage = *fc.Storage
	}
	if fc.Listen != nil {
		cfg.Listen = *fc.Listen
	}
	if fc.Theme != nil {
		cfg.Theme = *fc.Theme
	}
	if fc.SaveDelay != nil {
		cfg.SaveDelay = *fc.SaveDelay
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.LeaderKey != nil {
		cfg.LeaderKey = *fc.LeaderKey
	}
	if fc.LeaderTimeout != nil {
		cfg.LeaderTimeout = *fc.LeaderTimeout
	}

	return true, nil
}

// SaveFile writes a minimal config.toml with the chosen data directory and
// storage backend.
func SaveFile(dataDir, storage string) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Store with ~ for readability if under home dir.
	home, _ := os.UserHomeDir()
	display := dataDir
	if home != "" && strings.HasPrefix(dataDir, home+string(os.PathSeparator)) {
		display = "~" + dataDir[len(home):]
	}

	fc := fileConfig{DataDir: &display}
	if storage != "" {
		fc.Storage = &storage
	}
	f, err := os.Create(filepath.Join(dir, "config.toml"))
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(fc)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, _ := os.UserHomeDir()
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
