package vault

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Template is a page skeleton loaded from the templates directory.
type Template struct {
	Name    string
	Path    string
	Content string
}

// LoadTemplates loads every .md file in the templates directory, sorted by
// name. A missing directory yields no templates.
func (v *Vault) LoadTemplates() ([]Template, error) {
	dir := v.TemplatesDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var templates []Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		templates = append(templates, Template{
			Name:    strings.TrimSuffix(entry.Name(), ".md"),
			Path:    path,
			Content: string(content),
		})
	}

	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}

// Expand fills the template for a page titled title.
func (t Template) Expand(title string) string {
	return ExpandTemplate(t.Content, title, time.Now())
}

// ExpandTemplate expands template variables in content.
// Variables:
//
//	{{title}}     - Page title
//	{{date}}      - Current date (YYYY-MM-DD)
//	{{datetime}}  - Current datetime (YYYY-MM-DD HH:MM:SS)
//	{{time}}      - Current time (HH:MM:SS)
//	{{slug}}      - Slugified title
func ExpandTemplate(content, title string, now time.Time) string {
	r := strings.NewReplacer(
		"{{title}}", title,
		"{{date}}", now.Format("2006-01-02"),
		"{{datetime}}", now.Format("2006-01-02 15:04:05"),
		"{{time}}", now.Format("15:04:05"),
		"{{slug}}", Slugify(title),
	)
	return strings.TrimRight(r.Replace(content), "\n")
}
