// Package store persists the settings blob and watches it for outside edits.
package store

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Gateway loads and saves the opaque settings blob. A missing blob loads as
// nil with no error.
type Gateway interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// FileStore keeps the blob in a single JSON file, replaced atomically.
type FileStore struct {
	path string

	mu       sync.Mutex
	lastHash string
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the settings file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the settings file.
func (s *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return data, nil
}

// Save writes the blob to a temporary file and renames it over the settings
// file, so readers never observe a partial write.
func (s *FileStore) Save(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("sync settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(name, s.path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("replace settings: %w", err)
	}

	s.mu.Lock()
	s.lastHash = hash(data)
	s.mu.Unlock()
	return nil
}

// Own reports whether data is exactly what this store last wrote.
func (s *FileStore) Own(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHash != "" && s.lastHash == hash(data)
}

// Preserve copies unreadable settings next to the settings file so they are
// not lost when defaults are written over them.
func (s *FileStore) Preserve(data []byte) (string, error) {
	return preserve(filepath.Dir(s.path), data)
}

func preserve(dir string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("settings.unrecognized-%d.json", time.Now().Unix()))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("preserve settings: %w", err)
	}
	return path, nil
}

func hash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}
