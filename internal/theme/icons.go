package theme

import "strings"

// IconPresets are the icon names offered by the icon picker.
var IconPresets = []string{
	"fa-hat-wizard", "fa-wand-magic-sparkles", "fa-scroll", "fa-book-skull", "fa-flask", "fa-fire", "fa-bolt", "fa-cloud-bolt", "fa-star",
	"fa-gavel", "fa-shield-halved", "fa-skull", "fa-hammer", "fa-bullseye", "fa-fist-raised", "fa-dungeon", "fa-dragon",
	"fa-pen-nib", "fa-gear", "fa-user", "fa-box-open", "fa-map", "fa-gem", "fa-crown", "fa-heart",
	"fa-feather", "fa-eye", "fa-key", "fa-lock", "fa-unlock", "fa-hourglass", "fa-dice-d20", "fa-ghost", "fa-spider",
}

var glyphs = map[string]string{
	"fa-hat-wizard":          "⍋",
	"fa-wand-magic-sparkles": "✧",
	"fa-scroll":              "§",
	"fa-book-skull":          "☠",
	"fa-flask":               "⚗",
	"fa-fire":                "♨",
	"fa-bolt":                "ϟ",
	"fa-cloud-bolt":          "☈",
	"fa-star":                "★",
	"fa-gavel":               "⚖",
	"fa-shield-halved":       "⛨",
	"fa-skull":               "☠",
	"fa-hammer":              "⚒",
	"fa-bullseye":            "◎",
	"fa-fist-raised":         "✊",
	"fa-dungeon":             "⌂",
	"fa-dragon":              "♆",
	"fa-pen-nib":             "✒",
	"fa-gear":                "⚙",
	"fa-user":                "☺",
	"fa-box-open":            "☐",
	"fa-map":                 "⌖",
	"fa-gem":                 "◆",
	"fa-crown":               "♛",
	"fa-heart":               "♥",
	"fa-feather":             "✎",
	"fa-eye":                 "◉",
	"fa-key":                 "⚷",
	"fa-lock":                "⚿",
	"fa-unlock":              "○",
	"fa-hourglass":           "⧗",
	"fa-dice-d20":            "⬡",
	"fa-ghost":               "☁",
	"fa-spider":              "✱",
}

// Glyph maps an icon name to a terminal glyph. Unknown names that are not
// preset identifiers are shown as typed, so a literal character works too.
func Glyph(icon string) string {
	if g, ok := glyphs[icon]; ok {
		return g
	}
	if icon == "" || strings.HasPrefix(icon, "fa-") {
		return "•"
	}
	return icon
}
