package vault

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify converts a title to a file-name-friendly slug. Letters and digits
// are kept, every other run of characters becomes a single hyphen.
func Slugify(title string) string {
	var buf strings.Builder
	pending := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && buf.Len() > 0 {
				buf.WriteByte('-')
			}
			pending = false
			buf.WriteRune(r)
			continue
		}
		pending = true
	}
	return buf.String()
}

// UniqueSlug slugifies title and appends a counter until the result is not
// in taken. The chosen slug is added to taken.
func UniqueSlug(title, fallback string, taken map[string]bool) string {
	base := Slugify(title)
	if base == "" {
		base = fallback
	}
	slug := base
	for n := 2; taken[slug]; n++ {
		slug = fmt.Sprintf("%s-%d", base, n)
	}
	taken[slug] = true
	return slug
}
