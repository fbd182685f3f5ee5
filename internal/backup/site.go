package backup

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfassina/grimoire/internal/book"
	"github.com/pfassina/grimoire/internal/markdown"
	"github.com/pfassina/grimoire/internal/vault"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { max-width: 46em; margin: 2em auto; font-family: Georgia, serif; line-height: 1.5; padding: 0 1em; }
{{- if .Background}}
body::before { content: ""; position: fixed; inset: 0; z-index: -1; background: url("{{.Background}}") {{.Position}} / cover; filter: blur({{.Blur}}px); }
{{- end}}
section.page { border-bottom: 1px solid #ccc; padding-bottom: 1em; margin-bottom: 1em; }
nav a { margin-right: 1em; }
</style>
</head>
<body>
<nav><a href="{{.Root}}index.html">Index</a></nav>
<h1>{{.Title}}</h1>
{{range $i, $p := .Pages}}<section class="page" id="page-{{$i}}">
{{$p}}
</section>
{{end}}</body>
</html>
`))

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Grimoire</title>
</head>
<body>
<h1>Grimoire</h1>
{{range .}}<h2>{{.Name}}</h2>
<ul>
{{range .Entries}}<li><a href="{{.Href}}">{{.Name}}</a></li>
{{end}}</ul>
{{end}}</body>
</html>
`))

type pageView struct {
	Title      string
	Root       string
	Pages      []template.HTML
	Background string
	Position   string
	Blur       int
}

type indexEntry struct {
	Name string
	Href string
}

type indexCategory struct {
	Name    string
	Entries []indexEntry
}

// WriteSite renders every entry of doc to <dir>/<category>/<entry>.html and
// writes an index.html linking them. It returns the number of entry files
// written.
func WriteSite(doc *book.Document, dir string, r *markdown.HTMLRenderer) (int, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create export dir: %w", err)
	}

	var index []indexCategory
	written := 0
	catSlugs := map[string]bool{}
	for _, cat := range doc.Categories {
		catSlug := vault.UniqueSlug(cat.Name, "category", catSlugs)
		if err := os.MkdirAll(filepath.Join(dir, catSlug), 0755); err != nil {
			return written, fmt.Errorf("create category dir: %w", err)
		}

		ic := indexCategory{Name: cat.Name}
		entrySlugs := map[string]bool{}
		for _, e := range cat.Entries {
			slug := vault.UniqueSlug(e.Name, "entry", entrySlugs)
			view, err := renderEntry(cat, e, r)
			if err != nil {
				return written, fmt.Errorf("render %s/%s: %w", cat.Name, e.Name, err)
			}

			rel := catSlug + "/" + slug + ".html"
			if err := writeTemplate(filepath.Join(dir, filepath.FromSlash(rel)), pageTmpl, view); err != nil {
				return written, err
			}
			written++
			ic.Entries = append(ic.Entries, indexEntry{Name: e.Name, Href: rel})
		}
		index = append(index, ic)
	}

	if err := writeTemplate(filepath.Join(dir, "index.html"), indexTmpl, index); err != nil {
		return written, err
	}
	return written, nil
}

func renderEntry(cat *book.Category, e *book.Entry, r *markdown.HTMLRenderer) (pageView, error) {
	view := pageView{Title: e.Name, Root: "../"}

	bg := cat.BackgroundFor(e)
	if bg.URL != "" && !strings.HasPrefix(bg.URL, "data:") {
		view.Background = bg.URL
		view.Position = bg.Position
		if bg.Blur != nil {
			view.Blur = *bg.Blur
		}
	}

	for _, p := range e.Pages {
		out, err := r.Render(p.Content)
		if err != nil {
			return view, err
		}
		// Page content is authored by the owner of the document.
		view.Pages = append(view.Pages, template.HTML(out))
	}
	return view, nil
}

func writeTemplate(path string, t *template.Template, data any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := t.Execute(f, data); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
