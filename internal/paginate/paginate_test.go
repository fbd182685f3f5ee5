package paginate

import (
	"reflect"
	"strings"
	"testing"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{"newline at limit", "abcdefghij\nklmno", 10, []string{"abcdefghij", "klmno"}},
		{"forced cut", "abcdefghijklmno", 10, []string{"abcdefghij", "klmno"}},
		{"fits", "short", 10, []string{"short"}},
		{"exactly limit", "abcdefghij", 10, []string{"abcdefghij"}},
		{"newline too early", "ab\ncdefghijklmno", 10, []string{"ab\ncdefghi", "jklmno"}},
		{"newline past threshold", "abcdefgh\nijklmnop", 10, []string{"abcdefgh", "ijklmnop"}},
		{"whitespace only", "   \n\n  ", 10, nil},
		{"empty", "", 10, nil},
		{"multibyte counted as runes", "ééééééééééé", 10, []string{"éééééééééé", "é"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(tt.text, tt.limit)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Paginate(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}

func TestPaginateBounded(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet\n", 200)
	for _, limit := range []int{1, 7, 50, 300} {
		for i, p := range Paginate(text, limit) {
			if n := len([]rune(p)); n > limit {
				t.Errorf("limit %d: page %d has %d runes", limit, i, n)
			}
		}
	}
}

func TestPaginatePreservesOrder(t *testing.T) {
	text := "first paragraph here\nsecond one follows\nthird closes it out\nand a fourth"
	pages := Paginate(text, 25)
	if len(pages) < 2 {
		t.Fatalf("expected several pages, got %q", pages)
	}

	strip := func(s string) string { return strings.Join(strings.Fields(s), "") }
	if got, want := strip(strings.Join(pages, "")), strip(text); got != want {
		t.Errorf("content changed:\n got %q\nwant %q", got, want)
	}
}

func TestPaginateIdempotent(t *testing.T) {
	text := strings.Repeat("alpha beta gamma\n", 40)
	first := Paginate(text, 100)
	second := Paginate(strings.Join(first, "\n\n"), 100)
	for _, p := range second {
		if len([]rune(p)) > 100 {
			t.Errorf("repaginated page exceeds limit: %d", len([]rune(p)))
		}
	}
}

func TestFits(t *testing.T) {
	if !Fits("héllo", 5) {
		t.Error("Fits should count runes")
	}
	if Fits("hello!", 5) {
		t.Error("Fits(6 runes, 5) = true")
	}
}
