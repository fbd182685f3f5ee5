package markdown

import (
	"strings"
)

// Heading represents a markdown heading.
type Heading struct {
	Level int
	Text  string
	Line  int // 1-based line number
}

// ExtractHeadings extracts all ATX headings outside fenced code blocks.
func ExtractHeadings(content string) []Heading {
	var headings []Heading
	fence := ""

	for i, line := range strings.Split(content, "\n") {
		if fence != "" {
			if isFenceClose(line, fence) {
				fence = ""
			}
			continue
		}
		if f := fenceOpen(line); f != "" {
			fence = f
			continue
		}

		level, text := headingLevel(line)
		if level == 0 || text == "" {
			continue
		}
		headings = append(headings, Heading{Level: level, Text: text, Line: i + 1})
	}
	return headings
}

// Title names a page: its first heading, else its first non-empty line,
// cut to maxLen runes.
func Title(content string, maxLen int) string {
	title := ""
	if hs := ExtractHeadings(content); len(hs) > 0 {
		title = hs[0].Text
	} else {
		for _, line := range strings.Split(content, "\n") {
			if t := strings.TrimSpace(line); t != "" {
				title = t
				break
			}
		}
	}

	r := []rune(title)
	if maxLen > 0 && len(r) > maxLen {
		if maxLen == 1 {
			return "…"
		}
		return string(r[:maxLen-1]) + "…"
	}
	return title
}
