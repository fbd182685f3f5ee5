// Package backup exports and imports the category tree as a portable JSON
// bundle, and renders it to a static HTML site.
package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pfassina/grimoire/internal/book"
	"github.com/pfassina/grimoire/internal/migrate"
)

// Bundle is the exported file shape.
type Bundle struct {
	Version    int              `json:"version"`
	ExportDate string           `json:"exportDate"`
	Categories []*book.Category `json:"categories"`
}

// Export serializes the categories of doc. The version is always the current
// schema version.
func Export(doc *book.Document, now time.Time) ([]byte, error) {
	b := Bundle{
		Version:    book.SchemaVersion,
		ExportDate: now.UTC().Format(time.RFC3339),
		Categories: doc.Categories,
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode bundle: %w", err)
	}
	return data, nil
}

// Summary describes what an import brought in.
type Summary struct {
	Categories int
	Pages      int
	Legacy     bool
	Report     migrate.Report
}

func (s Summary) String() string {
	if s.Legacy {
		return fmt.Sprintf("imported %d page(s)", s.Pages)
	}
	return fmt.Sprintf("imported %d category(s)", s.Categories)
}

// Import replaces the categories of doc with those in data. Settings are
// kept. A bundle is either {categories: [...]} of any schema version or the
// legacy {pages: [...]} form, which lands in a single "Imported" category.
// Anything else fails with book.ErrInvalidImport and leaves doc untouched.
func Import(doc *book.Document, data []byte) (Summary, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return Summary{}, fmt.Errorf("parse bundle: %w", book.ErrInvalidImport)
	}

	var sum Summary
	var cats []any
	switch {
	case isList(raw["categories"]):
		cats = raw["categories"].([]any)
	case isList(raw["pages"]):
		pages := raw["pages"].([]any)
		cats = []any{legacyCategory(pages)}
		sum.Legacy = true
		sum.Pages = len(pages)
	default:
		return Summary{}, fmt.Errorf("no categories or pages: %w", book.ErrInvalidImport)
	}
	if len(cats) == 0 {
		return Summary{}, fmt.Errorf("empty bundle: %w", book.ErrInvalidImport)
	}

	imported, report, err := migrate.DecodeBlob(migrate.Blob{"categories": cats})
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", book.ErrInvalidImport, err)
	}

	doc.Categories = imported.Categories
	report.Repairs = append(report.Repairs, doc.Repair()...)
	sum.Categories = len(doc.Categories)
	sum.Report = report
	return sum, nil
}

func legacyCategory(pages []any) map[string]any {
	list := make([]any, 0, len(pages))
	for _, p := range pages {
		content := ""
		switch p := p.(type) {
		case string:
			content = p
		case map[string]any:
			content, _ = p["content"].(string)
		}
		list = append(list, map[string]any{"content": content})
	}
	return map[string]any{
		"id":   "imported",
		"name": "Imported",
		"entries": []any{map[string]any{
			"id":    "imp-entry",
			"name":  "Imported Entry",
			"pages": list,
		}},
	}
}

func isList(v any) bool {
	_, ok := v.([]any)
	return ok
}
