// Package vault lays out the data directory: settings, database, logs,
// host key, page templates and exports.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Vault is the grimoire data directory.
type Vault struct {
	Root string
}

func New(root string) *Vault {
	return &Vault{Root: root}
}

func (v *Vault) SettingsPath() string { return filepath.Join(v.Root, "settings.json") }
func (v *Vault) DBPath() string       { return filepath.Join(v.Root, "grimoire.db") }
func (v *Vault) LogPath() string      { return filepath.Join(v.Root, "grimoire.log") }
func (v *Vault) HostKeyPath() string  { return filepath.Join(v.Root, ".ssh", "grimoire_ed25519") }
func (v *Vault) TemplatesDir() string { return filepath.Join(v.Root, "templates") }
func (v *Vault) ExportDir() string    { return filepath.Join(v.Root, "export") }

// BackupPath names a JSON backup written at t.
func (v *Vault) BackupPath(t time.Time) string {
	return filepath.Join(v.ExportDir(), fmt.Sprintf("grimoire-backup-%d.json", t.Unix()))
}

const sampleTemplate = `# {{title}}

*{{date}}*

## Components

-

## Notes

`

// Init creates the directory layout. A starter template is written the first
// time the templates directory is created.
func (v *Vault) Init() error {
	if err := os.MkdirAll(v.Root, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	dir := v.TemplatesDir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create templates dir: %w", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "spell.md"), []byte(sampleTemplate), 0644); err != nil {
			return fmt.Errorf("write sample template: %w", err)
		}
	}
	return nil
}
