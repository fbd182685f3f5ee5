package markdown

import (
	"strings"
)

// Format tidies page markdown:
//   - one space after heading markers, trailing markers removed
//   - a blank line before every heading
//   - trailing whitespace trimmed
//   - at most two consecutive blank lines
//   - no leading or trailing blank lines
//
// Fenced code blocks are left untouched.
func Format(content string) string {
	var out []string
	blanks := 0
	fence := ""

	for _, line := range strings.Split(content, "\n") {
		if fence != "" {
			out = append(out, line)
			if isFenceClose(line, fence) {
				fence = ""
			}
			continue
		}
		if f := fenceOpen(line); f != "" {
			fence = f
			blanks = 0
			out = append(out, strings.TrimRight(line, " \t"))
			continue
		}

		line = strings.TrimRight(line, " \t")
		if line == "" {
			blanks++
			if blanks <= 2 && len(out) > 0 {
				out = append(out, line)
			}
			continue
		}

		if level, _ := headingLevel(line); level > 0 {
			line = normalizeHeading(line)
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
		}
		blanks = 0
		out = append(out, line)
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

// headingLevel returns the ATX heading level of line and the text after the
// markers, or 0 when line is not a heading.
func headingLevel(line string) (int, string) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return 0, ""
	}
	level := 0
	for level < len(trimmed) && trimmed[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0, ""
	}
	rest := trimmed[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, ""
	}
	text := strings.TrimSpace(rest)
	text = strings.TrimSpace(strings.TrimRight(text, "#"))
	return level, text
}

func normalizeHeading(line string) string {
	level, text := headingLevel(line)
	if level == 0 {
		return line
	}
	if text == "" {
		return strings.Repeat("#", level)
	}
	return strings.Repeat("#", level) + " " + text
}

func fenceOpen(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, marker) {
			return marker
		}
	}
	return ""
}

func isFenceClose(line, fence string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), fence)
}
