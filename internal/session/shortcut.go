package session

import (
	"fmt"
	"strings"

	"github.com/pfassina/grimoire/internal/book"
)

// Chord builds the canonical "Ctrl+Alt+Shift+KEY" form of a key combination.
// Modifiers always appear in that order and the key is upper-cased.
func Chord(ctrl, alt, shift bool, key string) string {
	var parts []string
	if ctrl {
		parts = append(parts, "Ctrl")
	}
	if alt {
		parts = append(parts, "Alt")
	}
	if shift {
		parts = append(parts, "Shift")
	}
	return strings.Join(append(parts, strings.ToUpper(key)), "+")
}

// ParseChord normalizes a user-typed chord such as "alt+ctrl+g". A chord
// needs at least one modifier so plain typing never triggers it. An empty
// string parses to "".
func ParseChord(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	var ctrl, alt, shift bool
	key := ""
	for _, part := range strings.Split(s, "+") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "ctrl", "control":
			ctrl = true
		case "alt", "meta", "option":
			alt = true
		case "shift":
			shift = true
		case "":
			return "", fmt.Errorf("chord %q has an empty key: %w", s, book.ErrPreconditionFailed)
		default:
			if key != "" {
				return "", fmt.Errorf("chord %q has more than one key: %w", s, book.ErrPreconditionFailed)
			}
			key = strings.TrimSpace(part)
		}
	}
	if key == "" {
		return "", fmt.Errorf("chord %q has no key: %w", s, book.ErrPreconditionFailed)
	}
	if !ctrl && !alt && !shift {
		return "", fmt.Errorf("chord %q needs a modifier: %w", s, book.ErrPreconditionFailed)
	}
	return Chord(ctrl, alt, shift, key), nil
}

// Dispatch runs the shortcut bound to chord. Key events typed into a text
// input never trigger shortcuts. It reports whether a binding matched.
func (m *Manager) Dispatch(chord string, fromTextInput bool) bool {
	if fromTextInput || !m.doc.IsEnabled || chord == "" {
		return false
	}
	c := m.doc.ShortcutOwner(chord)
	if c == nil {
		return false
	}
	m.Toggle(c.ID)
	return true
}
