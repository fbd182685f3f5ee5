// Package paginate splits long free text into bounded pages, preferring
// line breaks over hard cuts.
package paginate

import "strings"

// Threshold is the fraction of the limit below which a line break is
// considered too far back and the text is cut at the limit instead.
const Threshold = 0.7

// Paginate splits text into pages of at most limit runes. Each split lands on
// the last newline at or before limit, unless that newline sits before
// Threshold*limit, in which case the text is cut at exactly limit. Pages are
// trimmed and empty pages are dropped, so whitespace-only input yields nil.
func Paginate(text string, limit int) []string {
	if limit < 1 {
		limit = 1
	}

	var pages []string
	rest := []rune(text)
	for len(rest) > limit {
		cut := lastNewline(rest, limit)
		if cut < 0 || float64(cut) < float64(limit)*Threshold {
			cut = limit
		}
		if cut < 1 {
			cut = 1
		}

		if page := strings.TrimSpace(string(rest[:cut])); page != "" {
			pages = append(pages, page)
		}
		rest = []rune(strings.TrimSpace(string(rest[cut:])))
	}

	if last := strings.TrimSpace(string(rest)); last != "" {
		pages = append(pages, last)
	}
	return pages
}

// Fits reports whether text needs no splitting at limit.
func Fits(text string, limit int) bool {
	return len([]rune(text)) <= limit
}

// lastNewline returns the index of the last '\n' at or before pos.
func lastNewline(r []rune, pos int) int {
	if pos >= len(r) {
		pos = len(r) - 1
	}
	for i := pos; i >= 0; i-- {
		if r[i] == '\n' {
			return i
		}
	}
	return -1
}
