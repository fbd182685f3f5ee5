package book

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDeleteOnlyCategory(t *testing.T) {
	doc := DefaultDocument()
	err := doc.DeleteCategory(DefaultCategoryID)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("DeleteCategory = %v, want ErrPreconditionFailed", err)
	}
	if len(doc.Categories) != 1 || doc.Categories[0].ID != DefaultCategoryID {
		t.Error("document changed after refused delete")
	}
}

func TestDeleteCategory(t *testing.T) {
	doc := DefaultDocument()
	c, err := doc.AddCategory("Lore")
	if err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if err := doc.SetDefaultCategory(c.ID); err != nil {
		t.Fatal(err)
	}
	if err := doc.DeleteCategory(c.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if doc.Category(c.ID) != nil {
		t.Error("category still present")
	}
	if doc.DefaultCategoryID != "" {
		t.Errorf("DefaultCategoryID = %q, want cleared", doc.DefaultCategoryID)
	}
	if err := doc.DeleteCategory(c.ID); !errors.Is(err, ErrStaleReference) {
		t.Errorf("second delete = %v, want ErrStaleReference", err)
	}
}

func TestAddCategory(t *testing.T) {
	doc := DefaultDocument()
	if _, err := doc.AddCategory("   "); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("blank name = %v, want ErrPreconditionFailed", err)
	}

	c, err := doc.AddCategory("Potions")
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Entries) != 1 || c.Entries[0].Name != NewCategoryEntry {
		t.Fatalf("entries = %+v", c.Entries)
	}
	if c.WindowState.ActiveEntryID != c.Entries[0].ID {
		t.Error("starter entry not active")
	}
	if c.WindowState.IsOpen {
		t.Error("new category window should start closed")
	}
	if c.WindowState.Width != doc.Categories[0].WindowState.Width {
		t.Error("geometry not inherited from first category")
	}
}

func TestRenameBlankKeepsName(t *testing.T) {
	doc := DefaultDocument()
	if err := doc.RenameCategory(DefaultCategoryID, " "); err != nil {
		t.Fatal(err)
	}
	if doc.Categories[0].Name != "Grimoire" {
		t.Errorf("name = %q", doc.Categories[0].Name)
	}
	if err := doc.RenameEntry(DefaultCategoryID, DefaultEntryID, "Intro"); err != nil {
		t.Fatal(err)
	}
	if got := doc.Categories[0].Entries[0].Name; got != "Intro" {
		t.Errorf("entry name = %q", got)
	}
}

func TestDeleteActiveEntry(t *testing.T) {
	doc := DefaultDocument()
	second, _ := doc.AddEntry(DefaultCategoryID, "")
	if second.Name != "New Entry 2" {
		t.Errorf("name = %q, want New Entry 2", second.Name)
	}
	c := doc.Category(DefaultCategoryID)
	c.WindowState.ActivePageIndex = 0

	if err := doc.DeleteEntry(DefaultCategoryID, second.ID); err != nil {
		t.Fatal(err)
	}
	if c.WindowState.ActiveEntryID != DefaultEntryID {
		t.Errorf("active = %q, want %q", c.WindowState.ActiveEntryID, DefaultEntryID)
	}

	if err := doc.DeleteEntry(DefaultCategoryID, DefaultEntryID); err != nil {
		t.Fatal(err)
	}
	if c.WindowState.ActiveEntryID != "" || c.WindowState.ActivePageIndex != 0 {
		t.Errorf("window state = %+v, want no active entry", c.WindowState)
	}
	if c.ActiveEntry() != nil {
		t.Error("ActiveEntry on empty category should be nil")
	}
}

func TestMoveEntry(t *testing.T) {
	doc := DefaultDocument()
	dst, _ := doc.AddCategory("Archive")

	if err := doc.MoveEntry(DefaultCategoryID, DefaultEntryID, dst.ID); err != nil {
		t.Fatal(err)
	}
	src := doc.Category(DefaultCategoryID)
	if len(src.Entries) != 0 {
		t.Errorf("source still has %d entries", len(src.Entries))
	}
	if src.WindowState.ActiveEntryID != "" {
		t.Error("source still points at moved entry")
	}
	if len(dst.Entries) != 2 || dst.Entries[1].ID != DefaultEntryID {
		t.Errorf("target entries = %d", len(dst.Entries))
	}

	if err := doc.MoveEntry(dst.ID, "missing", DefaultCategoryID); !errors.Is(err, ErrStaleReference) {
		t.Errorf("missing entry = %v", err)
	}
}

func TestMoveEntryToNewCategory(t *testing.T) {
	doc := DefaultDocument()
	c, err := doc.MoveEntryToNewCategory(DefaultCategoryID, DefaultEntryID, "Moved")
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Entries) != 1 || c.Entries[0].ID != DefaultEntryID {
		t.Fatalf("entries = %+v", c.Entries)
	}
	if c.WindowState.ActiveEntryID != DefaultEntryID {
		t.Error("moved entry not active")
	}
	if len(doc.Categories) != 2 {
		t.Errorf("categories = %d", len(doc.Categories))
	}
}

func TestReorderEntry(t *testing.T) {
	doc := DefaultDocument()
	doc.AddEntry(DefaultCategoryID, "b")
	doc.AddEntry(DefaultCategoryID, "c")

	if err := doc.ReorderEntry(DefaultCategoryID, 2, 0); err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range doc.Category(DefaultCategoryID).Entries {
		names = append(names, e.Name)
	}
	want := []string{"c", "Welcome", "b"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order = %v, want %v", names, want)
		}
	}
	if err := doc.ReorderEntry(DefaultCategoryID, 0, 3); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("out of range = %v", err)
	}
}

func TestPages(t *testing.T) {
	doc := DefaultDocument()
	c := doc.Category(DefaultCategoryID)

	if !doc.NextPage(DefaultCategoryID) || c.WindowState.ActivePageIndex != 1 {
		t.Fatal("NextPage did not advance")
	}
	if doc.NextPage(DefaultCategoryID) {
		t.Error("NextPage past the end")
	}

	if err := doc.AddPage(DefaultCategoryID, ""); err != nil {
		t.Fatal(err)
	}
	if c.WindowState.ActivePageIndex != 2 || c.ActivePage().Content != NewPageContent {
		t.Fatalf("new page not active: %+v", c.WindowState)
	}

	if err := doc.DeletePage(DefaultCategoryID); err != nil {
		t.Fatal(err)
	}
	if c.WindowState.ActivePageIndex != 1 {
		t.Errorf("index after delete = %d, want 1", c.WindowState.ActivePageIndex)
	}

	doc.PrevPage(DefaultCategoryID)
	if err := doc.DeletePage(DefaultCategoryID); err != nil {
		t.Fatal(err)
	}
	if c.WindowState.ActivePageIndex != 0 {
		t.Errorf("index after deleting first = %d, want 0", c.WindowState.ActivePageIndex)
	}

	if err := doc.DeletePage(DefaultCategoryID); !errors.Is(err, ErrPreconditionFailed) {
		t.Errorf("deleting last page = %v, want ErrPreconditionFailed", err)
	}
	if n := len(c.ActiveEntry().Pages); n != 1 {
		t.Errorf("pages = %d, want 1", n)
	}
}

func TestRemovePageReseeds(t *testing.T) {
	e := &Entry{ID: "e", Pages: []Page{{Content: "only"}}}
	e.RemovePage(0)
	if len(e.Pages) != 1 || e.Pages[0].Content != NewPageContent {
		t.Errorf("pages = %+v, want placeholder", e.Pages)
	}
}

func TestResolveBackground(t *testing.T) {
	blur := 4
	c := &Category{
		Background: Background{URL: "cat.png", Blur: &blur},
		Entries: []*Entry{
			{ID: "a", Pages: []Page{{}}, Background: Background{URL: "entry.png", Position: "10% 20%"}},
			{ID: "b", Pages: []Page{{}}},
		},
	}

	c.WindowState.ActiveEntryID = "a"
	bg := c.ResolveBackground()
	if bg.URL != "entry.png" || bg.Position != "10% 20%" || *bg.Blur != 4 {
		t.Errorf("entry override = %+v", bg)
	}

	c.WindowState.ActiveEntryID = "b"
	bg = c.ResolveBackground()
	if bg.URL != "cat.png" || bg.Position != DefaultBackgroundPos {
		t.Errorf("category fallback = %+v", bg)
	}

	c.Background = Background{}
	bg = c.ResolveBackground()
	if bg.URL != "" || *bg.Blur != DefaultBackgroundBlur {
		t.Errorf("defaults = %+v", bg)
	}
}

func TestSetShortcutUnique(t *testing.T) {
	doc := DefaultDocument()
	c, _ := doc.AddCategory("Other")
	doc.SetShortcut(DefaultCategoryID, "Ctrl+Alt+G")
	doc.SetShortcut(c.ID, "Ctrl+Alt+G")

	if doc.Category(DefaultCategoryID).Shortcut != "" {
		t.Error("chord not cleared from previous owner")
	}
	if doc.ShortcutOwner("Ctrl+Alt+G") != c {
		t.Error("chord owner mismatch")
	}
}

func TestRepair(t *testing.T) {
	doc := &Document{
		Categories: []*Category{
			{ID: "a", Entries: []*Entry{{ID: "x"}, {ID: "x", Pages: []Page{{Content: "p"}}}}},
			{ID: "a", WindowState: WindowState{ActiveEntryID: "gone", ActivePageIndex: 9}},
		},
		Settings: Settings{DefaultCategoryID: "missing"},
	}
	fixes := doc.Repair()
	if len(fixes) == 0 {
		t.Fatal("expected repairs")
	}

	if doc.Categories[0].ID == doc.Categories[1].ID {
		t.Error("duplicate category ids survived")
	}
	first := doc.Categories[0]
	if first.Entries[0].ID == first.Entries[1].ID {
		t.Error("duplicate entry ids survived")
	}
	if len(first.Entries[0].Pages) != 1 {
		t.Error("empty entry not re-seeded")
	}
	if first.WindowState.ActiveEntryID != "x" {
		t.Errorf("active entry = %q, want first entry", first.WindowState.ActiveEntryID)
	}
	second := doc.Categories[1]
	if second.WindowState.ActiveEntryID != "" || second.WindowState.ActivePageIndex != 0 {
		t.Errorf("stale window state kept: %+v", second.WindowState)
	}
	if doc.DefaultCategoryID != "" {
		t.Error("stale default category kept")
	}
	if doc.SchemaVersion != SchemaVersion {
		t.Errorf("schema = %d", doc.SchemaVersion)
	}

	if again := doc.Repair(); len(again) != 0 {
		t.Errorf("second repair applied %v", again)
	}
}

func TestLengthDecode(t *testing.T) {
	tests := []struct {
		in   string
		want Length
	}{
		{`12`, 12},
		{`12.6`, 13},
		{`"40"`, 40},
		{`"100px"`, 13},
		{`"650px"`, 81},
		{`null`, 0},
	}
	for _, tt := range tests {
		var l Length
		if err := json.Unmarshal([]byte(tt.in), &l); err != nil {
			t.Errorf("%s: %v", tt.in, err)
			continue
		}
		if l != tt.want {
			t.Errorf("%s = %d, want %d", tt.in, l, tt.want)
		}
	}

	var l Length
	if err := json.Unmarshal([]byte(`"wide"`), &l); err == nil {
		t.Error("expected error for non-numeric length")
	}
}
