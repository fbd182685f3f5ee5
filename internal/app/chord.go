package app

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfassina/grimoire/internal/session"
)

// keyChord converts a key press into the canonical shortcut form used by
// category shortcuts, or "" when the key carries no modifier. Upper-case
// letters count as Shift.
func keyChord(msg tea.KeyMsg) string {
	parts := strings.Split(msg.String(), "+")
	if len(parts) == 0 {
		return ""
	}

	key := parts[len(parts)-1]
	var ctrl, alt, shift bool
	for _, p := range parts[:len(parts)-1] {
		switch p {
		case "ctrl":
			ctrl = true
		case "alt":
			alt = true
		case "shift":
			shift = true
		}
	}
	// "alt++" and similar end with an empty key after splitting.
	if key == "" {
		key = "+"
	}

	runes := []rune(key)
	if len(runes) == 1 && unicode.IsUpper(runes[0]) {
		shift = true
	}
	if !ctrl && !alt && !shift {
		return ""
	}
	return session.Chord(ctrl, alt, shift, key)
}
