package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SetupResult is returned by RunSetup.
type SetupResult struct {
	DataDir   string
	Storage   string
	Cancelled bool
}

const defaultDataDir = "~/.local/share/grimoire"

// setupStep is the page of the first-run wizard currently shown.
type setupStep int

const (
	stepDataDir setupStep = iota
	stepStorage
)

var storageChoices = []struct {
	value string
	label string
}{
	{StorageFile, "JSON file (settings.json, easy to copy and sync)"},
	{StorageSQLite, "SQLite database (keeps the last saves as history)"},
}

type setupModel struct {
	step    setupStep
	input   textinput.Model
	storage int
	err     string
	done    bool
	quit    bool
}

func newSetupModel() setupModel {
	ti := textinput.New()
	ti.Placeholder = defaultDataDir
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	return setupModel{input: ti}
}

func (m setupModel) Init() tea.Cmd {
	return textinput.Blink
}

// dataDir returns the typed directory with ~ expanded.
func (m setupModel) dataDir() string {
	path := strings.TrimSpace(m.input.Value())
	if path == "" {
		path = defaultDataDir
	}
	return ExpandHome(path)
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if ok && (key.String() == "esc" || key.String() == "ctrl+c") {
		m.quit = true
		return m, tea.Quit
	}

	if m.step == stepStorage {
		if !ok {
			return m, nil
		}
		switch key.String() {
		case "up", "k", "shift+tab":
			m.storage = (m.storage + len(storageChoices) - 1) % len(storageChoices)
		case "down", "j", "tab":
			m.storage = (m.storage + 1) % len(storageChoices)
		case "backspace":
			m.step = stepDataDir
			m.input.Focus()
		case "enter":
			m.done = true
			return m, tea.Quit
		}
		return m, nil
	}

	if ok && key.String() == "enter" {
		if err := validateDataDir(m.dataDir()); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.err = ""
		m.step = stepStorage
		m.input.Blur()
		return m, nil
	}

	m.err = ""
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m setupModel) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cba6f7")).
		Render("Welcome to Grimoire")
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	active := lipgloss.NewStyle().Foreground(lipgloss.Color("#cba6f7")).Bold(true)

	var b strings.Builder
	b.WriteString("\n " + title + "\n\n")

	switch m.step {
	case stepDataDir:
		b.WriteString(" Where should your spell book live?\n\n")
		b.WriteString("   " + m.input.View() + "\n\n")
		if m.err != "" {
			errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
			b.WriteString(" " + errStyle.Render(m.err) + "\n\n")
		}
		b.WriteString(" " + dim.Render("enter next · esc cancel") + "\n")

	case stepStorage:
		fmt.Fprintf(&b, " Data directory: %s\n\n", m.dataDir())
		b.WriteString(" How should pages be stored?\n\n")
		for i, c := range storageChoices {
			if i == m.storage {
				b.WriteString("   " + active.Render("› "+c.label) + "\n")
			} else {
				b.WriteString("     " + c.label + "\n")
			}
		}
		b.WriteString("\n " + dim.Render("↑/↓ choose · enter confirm · backspace back · esc cancel") + "\n")
	}
	return b.String()
}

// validateDataDir checks that a path is usable as the data directory.
func validateDataDir(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("%s exists but is not a directory", path)
	case err == nil:
		return nil
	case !os.IsNotExist(err):
		return err
	}

	parent, err := os.Stat(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("parent directory %s does not exist", filepath.Dir(path))
	}
	if !parent.IsDir() {
		return fmt.Errorf("%s is not a directory", filepath.Dir(path))
	}
	return nil
}

// RunSetup runs the first-run wizard, saves the answers to config.toml and
// returns them.
func RunSetup() (SetupResult, error) {
	final, err := tea.NewProgram(newSetupModel()).Run()
	if err != nil {
		return SetupResult{}, err
	}

	fm, ok := final.(setupModel)
	if !ok {
		return SetupResult{}, fmt.Errorf("unexpected model type from setup wizard")
	}
	if fm.quit || !fm.done {
		return SetupResult{Cancelled: true}, nil
	}

	res := SetupResult{DataDir: fm.dataDir(), Storage: storageChoices[fm.storage].value}
	if err := SaveFile(res.DataDir, res.Storage); err != nil {
		return SetupResult{}, fmt.Errorf("saving config: %w", err)
	}
	return res, nil
}
