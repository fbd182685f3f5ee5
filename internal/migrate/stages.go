package migrate

import (
	"encoding/json"
	"fmt"
	"strconv"

	opts "github.com/goliatone/go-options/layering"

	"github.com/pfassina/grimoire/internal/book"
)

const (
	migratedCategoryID   = "migrated-cat"
	migratedCategoryName = "Spells"
)

// legacyWindowKeys were stored once at the root, before every category got
// its own window.
var legacyWindowKeys = []string{
	"activeCategoryId", "activeEntryId", "activePageIndex", "activePageId",
	"isOpen", "top", "left", "width", "height",
}

// hasFlatPages matches categories that still hold pages directly instead of
// entries.
func hasFlatPages(b Blob) bool {
	for _, c := range categoryMaps(b) {
		if _, ok := c["pages"].([]any); ok {
			return true
		}
	}
	return false
}

func nestFlatPages(b Blob) {
	flat := false
	for i, c := range categoryMaps(b) {
		pages, ok := c["pages"].([]any)
		if !ok {
			continue
		}
		delete(c, "pages")
		id := str(c["id"])
		if id == "" {
			id = fmt.Sprintf("cat-%d", i+1)
			c["id"] = id
		}
		moved := pagesToEntries(pages, id)
		// Pages left beside entries become extra entries.
		if entries, ok := c["entries"].([]any); ok {
			c["entries"] = append(entries, moved...)
			continue
		}
		flat = true
		c["entries"] = moved
	}
	if !flat {
		return
	}

	if v, ok := b["activePageId"]; ok {
		b["activeEntryId"] = v
		b["activePageIndex"] = 0
		delete(b, "activePageId")
	}
	b["bookModeEnabled"] = true
}

// hasRootPages matches the oldest shape: a bare page list at the root.
func hasRootPages(b Blob) bool {
	_, ok := b["pages"].([]any)
	return ok
}

func wrapRootPages(b Blob) {
	pages, _ := b["pages"].([]any)
	cats, _ := b["categories"].([]any)

	id := migratedCategoryID
	for n := 2; hasCategory(cats, id); n++ {
		id = fmt.Sprintf("%s-%d", migratedCategoryID, n)
	}
	entries := pagesToEntries(pages, id)
	cat := map[string]any{
		"id":      id,
		"name":    migratedCategoryName,
		"entries": entries,
	}

	if len(cats) == 0 {
		b["activeCategoryId"] = id
		if len(entries) > 0 {
			b["activeEntryId"] = entries[0].(map[string]any)["id"]
		}
		b["activePageIndex"] = 0
	}
	b["categories"] = append(cats, cat)
	b["bookModeEnabled"] = true
	delete(b, "pages")
}

// hasGlobalWindow matches blobs that keep a single window's layout at the
// root.
func hasGlobalWindow(b Blob) bool {
	for _, k := range legacyWindowKeys {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func spreadGlobalWindow(b Blob) {
	cats := categoryMaps(b)
	active := pickActiveCategory(b, cats)
	def := book.DefaultWindowState()

	for _, c := range cats {
		if _, ok := c["windowState"].(map[string]any); ok {
			continue
		}
		isActive := str(c["id"]) == active
		ws := map[string]any{
			"isOpen":          isActive && b["isOpen"] == true,
			"top":             orDefault(b["top"], int(def.Top)),
			"left":            orDefault(b["left"], int(def.Left)),
			"width":           orDefault(b["width"], int(def.Width)),
			"height":          orDefault(b["height"], int(def.Height)),
			"isFullscreen":    false,
			"isLocked":        false,
			"sidebarWidth":    int(def.SidebarWidth),
			"activeEntryId":   firstEntryID(c),
			"activePageIndex": 0,
		}
		if isActive {
			if id := str(b["activeEntryId"]); id != "" {
				ws["activeEntryId"] = id
			}
			if n, ok := num(b["activePageIndex"]); ok {
				ws["activePageIndex"] = int(n)
			}
		}
		c["windowState"] = ws
	}

	for _, k := range legacyWindowKeys {
		delete(b, k)
	}
}

func pickActiveCategory(b Blob, cats []map[string]any) string {
	for _, key := range []string{"activeCategoryId", "defaultCategoryId"} {
		id := str(b[key])
		for _, c := range cats {
			if id != "" && str(c["id"]) == id {
				return id
			}
		}
	}
	if len(cats) > 0 {
		return str(cats[0]["id"])
	}
	return ""
}

func needsBackfill(b Blob) bool { return fill(b, false) }

func backfill(b Blob) { fill(b, true) }

// fill reports whether anything is missing from the blob and, when apply is
// set, fills it from the current defaults.
func fill(b Blob, apply bool) bool {
	changed := false

	if v, ok := num(b["schemaVersion"]); !ok || int(v) != book.SchemaVersion {
		changed = true
		if apply {
			b["schemaVersion"] = book.SchemaVersion
		}
	}

	if settings := toBlob(book.DefaultSettings()); missingDefaults(b, settings) {
		changed = true
		if apply {
			mergeDefaults(b, settings)
		}
	}

	raw, ok := b["categories"].([]any)
	if !ok {
		changed = true
		if apply {
			b["categories"] = toBlob(struct {
				Categories []*book.Category `json:"categories"`
			}{book.DefaultDocument().Categories})["categories"]
		}
		return changed
	}

	var kept []any
	for i, v := range raw {
		c, ok := v.(map[string]any)
		if !ok {
			changed = true
			continue
		}
		if fillCategory(c, i, apply) {
			changed = true
		}
		kept = append(kept, c)
	}
	if apply && len(kept) != len(raw) {
		if kept == nil {
			kept = []any{}
		}
		b["categories"] = kept
	}
	return changed
}

func fillCategory(c map[string]any, i int, apply bool) bool {
	changed := false
	set := func(key string, v any) {
		changed = true
		if apply {
			c[key] = v
		}
	}

	id := str(c["id"])
	if id == "" {
		id = fmt.Sprintf("cat-%d", i+1)
	}
	if c["id"] != id {
		set("id", id)
	}
	if str(c["name"]) == "" {
		set("name", "Untitled")
	}
	if str(c["icon"]) == "" {
		set("icon", book.DefaultIcon)
	}

	entries, ok := c["entries"].([]any)
	if !ok {
		entries = []any{}
		set("entries", entries)
	}
	var kept []any
	for j, v := range entries {
		e, ok := v.(map[string]any)
		if !ok {
			changed = true
			continue
		}
		if fillEntry(e, id, j, apply) {
			changed = true
		}
		kept = append(kept, e)
	}
	if apply && len(kept) != len(entries) {
		if kept == nil {
			kept = []any{}
		}
		c["entries"] = kept
	}

	def := toBlob(book.DefaultWindowState())
	def["activeEntryId"] = firstEntryID(c)
	ws, ok := c["windowState"].(map[string]any)
	if !ok {
		set("windowState", def)
		return changed
	}
	if missingDefaults(ws, def) {
		changed = true
		if apply {
			mergeDefaults(ws, def)
		}
	}
	return changed
}

func fillEntry(e map[string]any, catID string, j int, apply bool) bool {
	changed := false
	set := func(key string, v any) {
		changed = true
		if apply {
			e[key] = v
		}
	}
	id := str(e["id"])
	if id == "" {
		id = fmt.Sprintf("%s-entry-%d", catID, j+1)
	}
	if e["id"] != id {
		set("id", id)
	}
	if str(e["name"]) == "" {
		set("name", "Untitled")
	}
	if pages, ok := e["pages"].([]any); !ok || len(pages) == 0 {
		set("pages", []any{map[string]any{"content": book.NewPageContent}})
	}
	return changed
}

// missingDefaults reports whether any key of defaults is absent or null in
// dst, looking into nested objects present on both sides.
func missingDefaults(dst, defaults map[string]any) bool {
	for k, v := range defaults {
		if v == nil {
			continue
		}
		cur, ok := dst[k]
		if !ok || cur == nil {
			return true
		}
		dm, dok := cur.(map[string]any)
		sm, sok := v.(map[string]any)
		if dok && sok && missingDefaults(dm, sm) {
			return true
		}
	}
	return false
}

// mergeDefaults layers dst over defaults in place. Values already in dst win.
func mergeDefaults(dst, defaults map[string]any) {
	for k, v := range opts.MergeLayers(dst, defaults) {
		dst[k] = v
	}
}

func pagesToEntries(pages []any, catID string) []any {
	entries := make([]any, 0, len(pages))
	for i, p := range pages {
		entry := map[string]any{
			"id":   fmt.Sprintf("%s-entry-%d", catID, i+1),
			"name": fmt.Sprintf("Page %d", i+1),
		}
		content := ""
		switch p := p.(type) {
		case string:
			content = p
		case map[string]any:
			if id := str(p["id"]); id != "" {
				entry["id"] = id
			}
			if name := str(p["name"]); name != "" {
				entry["name"] = name
			} else if title := str(p["title"]); title != "" {
				entry["name"] = title
			}
			content = str(p["content"])
		}
		entry["pages"] = []any{map[string]any{"content": content}}
		entries = append(entries, entry)
	}
	return entries
}

func categoryMaps(b Blob) []map[string]any {
	raw, _ := b["categories"].([]any)
	var out []map[string]any
	for _, v := range raw {
		if c, ok := v.(map[string]any); ok {
			out = append(out, c)
		}
	}
	return out
}

func hasCategory(cats []any, id string) bool {
	for _, v := range cats {
		if c, ok := v.(map[string]any); ok && str(c["id"]) == id {
			return true
		}
	}
	return false
}

func firstEntryID(c map[string]any) string {
	entries, _ := c["entries"].([]any)
	for _, v := range entries {
		if e, ok := v.(map[string]any); ok {
			if id := str(e["id"]); id != "" {
				return id
			}
		}
	}
	return ""
}

// toBlob converts a value into its generic JSON form. The result shares no
// memory with v or with earlier results.
func toBlob(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("migrate: encode defaults: %v", err))
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("migrate: decode defaults: %v", err))
	}
	return out
}

func str(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func num(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func orDefault(v any, def int) any {
	if v == nil || v == "" || v == false {
		return def
	}
	return v
}
