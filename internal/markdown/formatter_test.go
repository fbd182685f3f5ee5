package markdown

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trailing whitespace",
			input: "Hello   \nWorld  \n",
			want:  "Hello\nWorld",
		},
		{
			name:  "heading spacing",
			input: "##  Too Many Spaces  ##\n",
			want:  "## Too Many Spaces",
		},
		{
			name:  "blank line before heading",
			input: "Some text\n# Heading\n",
			want:  "Some text\n\n# Heading",
		},
		{
			name:  "excessive blank lines",
			input: "A\n\n\n\n\nB\n",
			want:  "A\n\n\nB",
		},
		{
			name:  "leading blank lines",
			input: "\n\n\nHello",
			want:  "Hello",
		},
		{
			name:  "hashtag is not a heading",
			input: "#hashtag",
			want:  "#hashtag",
		},
		{
			name:  "fenced code untouched",
			input: "```\n#  inside  \n```\n",
			want:  "```\n#  inside  \n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.input)
			if got != tt.want {
				t.Errorf("\ngot:  %q\nwant: %q", got, tt.want)
			}
		})
	}
}

func TestStyles(t *testing.T) {
	tests := []struct {
		style Style
		in    string
		want  string
	}{
		{Bold, "word", "**word**"},
		{Italic, "", "*text*"},
		{Link, "site", "[site](url)"},
		{Image, "", "![text](image-url)"},
		{Strikethrough, "old", "~~old~~"},
	}
	for _, tt := range tests {
		if got := tt.style.Wrap(tt.in); got != tt.want {
			t.Errorf("%s.Wrap(%q) = %q, want %q", tt.style, tt.in, got, tt.want)
		}
	}

	lines := []struct {
		style Style
		in    string
		want  string
	}{
		{Bullet, "item", "- item"},
		{Bullet, "- item", "item"},
		{Task, "todo", "- [ ] todo"},
		{Quote, "said", "> said"},
		{H2, "# Title", "## Title"},
		{H1, "plain", "# plain"},
	}
	for _, tt := range lines {
		if !tt.style.IsLine() {
			t.Errorf("%s should be a line style", tt.style)
		}
		if got := tt.style.PrefixLine(tt.in); got != tt.want {
			t.Errorf("%s.PrefixLine(%q) = %q, want %q", tt.style, tt.in, got, tt.want)
		}
	}
}
