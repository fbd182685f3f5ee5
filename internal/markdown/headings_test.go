package markdown

import (
	"strings"
	"testing"
)

func TestExtractHeadings(t *testing.T) {
	input := `# Heading 1

Some text.

` + "```" + `
# not a heading
` + "```" + `

## Heading 2

### Heading 3
`
	headings := ExtractHeadings(input)

	if len(headings) != 3 {
		t.Fatalf("got %d headings, want 3", len(headings))
	}

	tests := []struct {
		level int
		text  string
	}{
		{1, "Heading 1"},
		{2, "Heading 2"},
		{3, "Heading 3"},
	}

	for i, tt := range tests {
		if headings[i].Level != tt.level {
			t.Errorf("[%d] level: got %d, want %d", i, headings[i].Level, tt.level)
		}
		if headings[i].Text != tt.text {
			t.Errorf("[%d] text: got %q, want %q", i, headings[i].Text, tt.text)
		}
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		content string
		max     int
		want    string
	}{
		{"# Fireball\nboom", 0, "Fireball"},
		{"\n\n  plain start\nmore", 0, "plain start"},
		{"", 10, ""},
		{"# A very long heading", 8, "A very …"},
	}
	for _, tt := range tests {
		if got := Title(tt.content, tt.max); got != tt.want {
			t.Errorf("Title(%q, %d) = %q, want %q", tt.content, tt.max, got, tt.want)
		}
	}
}

func TestHTMLRenderer(t *testing.T) {
	r := NewHTMLRenderer()
	out, err := r.Render("# Title\n\n~~gone~~ :smile:\n\n- [x] done\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`<h1 id="title">Title</h1>`, "<del>gone</del>", "<table>", `type="checkbox"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, ":smile:") {
		t.Error("emoji shortcode not rendered")
	}
}

func TestTermRenderer(t *testing.T) {
	r := NewTermRenderer("notty")
	out, err := r.Render("# Title\n\nSome **bold** text.", 40)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "bold") {
		t.Errorf("unexpected output: %q", out)
	}
	if strings.HasPrefix(out, "\n") || strings.HasSuffix(out, "\n") {
		t.Error("surrounding newlines not trimmed")
	}
}
