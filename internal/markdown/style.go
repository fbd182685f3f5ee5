package markdown

import "strings"

// Style is a formatting action offered while editing a page.
type Style string

const (
	Bold          Style = "bold"
	Italic        Style = "italic"
	Strikethrough Style = "strikethrough"
	Link          Style = "link"
	Image         Style = "image"
	Code          Style = "code"
	Quote         Style = "quote"
	Bullet        Style = "bullet"
	Number        Style = "number"
	Task          Style = "task"
	H1            Style = "h1"
	H2            Style = "h2"
	H3            Style = "h3"
)

// Styles lists every style in menu order.
var Styles = []Style{Bold, Italic, Strikethrough, Link, Image, Code, Quote, Bullet, Number, Task, H1, H2, H3}

var wraps = map[Style][2]string{
	Bold:          {"**", "**"},
	Italic:        {"*", "*"},
	Strikethrough: {"~~", "~~"},
	Link:          {"[", "](url)"},
	Image:         {"![", "](image-url)"},
	Code:          {"`", "`"},
}

var prefixes = map[Style]string{
	Quote:  "> ",
	Bullet: "- ",
	Number: "1. ",
	Task:   "- [ ] ",
	H1:     "# ",
	H2:     "## ",
	H3:     "### ",
}

// IsLine reports whether the style prefixes a whole line rather than
// wrapping text.
func (s Style) IsLine() bool {
	_, ok := prefixes[s]
	return ok
}

// Wrap surrounds selected with the style's markers. An empty selection gets
// placeholder text.
func (s Style) Wrap(selected string) string {
	w, ok := wraps[s]
	if !ok {
		return selected
	}
	if selected == "" {
		selected = "text"
	}
	return w[0] + selected + w[1]
}

// PrefixLine applies a line style. Headings replace any existing heading
// marker; other prefixes toggle.
func (s Style) PrefixLine(line string) string {
	prefix, ok := prefixes[s]
	if !ok {
		return line
	}
	if strings.HasPrefix(prefix, "#") {
		if level, text := headingLevel(line); level > 0 {
			line = text
		}
		return prefix + line
	}
	if strings.HasPrefix(line, prefix) {
		return strings.TrimPrefix(line, prefix)
	}
	return prefix + line
}
