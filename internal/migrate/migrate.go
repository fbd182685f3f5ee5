// Package migrate upgrades persisted settings blobs of any age into the
// current document shape.
package migrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pfassina/grimoire/internal/book"
)

// Blob is a decoded but untyped settings document.
type Blob = map[string]any

// Stage is one ordered upgrade step. Apply only runs when Applies reports
// true, and a stage must leave the blob in a state where it no longer
// applies.
type Stage struct {
	Name    string
	Applies func(Blob) bool
	Apply   func(Blob)
}

// Stages lists every upgrade step in the order they run.
var Stages = []Stage{
	{Name: "flat-pages", Applies: hasFlatPages, Apply: nestFlatPages},
	{Name: "pre-category", Applies: hasRootPages, Apply: wrapRootPages},
	{Name: "global-window", Applies: hasGlobalWindow, Apply: spreadGlobalWindow},
	{Name: "backfill", Applies: needsBackfill, Apply: backfill},
}

// Report describes what an upgrade did.
type Report struct {
	Applied      []string
	Repairs      []string
	Unrecognized bool
}

// Changed reports whether the persisted form differs from the input.
func (r Report) Changed() bool {
	return len(r.Applied) > 0 || len(r.Repairs) > 0 || r.Unrecognized
}

func (r Report) String() string {
	if !r.Changed() {
		return "up to date"
	}
	var parts []string
	if r.Unrecognized {
		parts = append(parts, "unrecognized input replaced by defaults")
	}
	if len(r.Applied) > 0 {
		parts = append(parts, "stages: "+strings.Join(r.Applied, ", "))
	}
	if len(r.Repairs) > 0 {
		parts = append(parts, fmt.Sprintf("%d repairs", len(r.Repairs)))
	}
	return strings.Join(parts, "; ")
}

// Upgrade runs every applicable stage over blob in place.
func Upgrade(blob Blob) Report {
	var r Report
	for _, s := range Stages {
		if s.Applies(blob) {
			s.Apply(blob)
			r.Applied = append(r.Applied, s.Name)
		}
	}
	return r
}

// Decode parses persisted bytes, upgrades them and returns a repaired
// document. Empty input yields the default document. Input that is not a
// JSON object also yields the default document with Unrecognized set; the
// caller is expected to keep the original bytes.
func Decode(data []byte) (*book.Document, Report) {
	if len(bytes.TrimSpace(data)) == 0 {
		doc := book.DefaultDocument()
		return doc, Report{}
	}

	var blob Blob
	if err := json.Unmarshal(data, &blob); err != nil || blob == nil {
		doc := book.DefaultDocument()
		return doc, Report{Unrecognized: true}
	}

	doc, r, err := DecodeBlob(blob)
	if err != nil {
		doc = book.DefaultDocument()
		r.Unrecognized = true
	}
	return doc, r
}

// DecodeBlob upgrades an already parsed blob and decodes it into a document.
func DecodeBlob(blob Blob) (*book.Document, Report, error) {
	r := Upgrade(blob)

	data, err := json.Marshal(blob)
	if err != nil {
		return nil, r, fmt.Errorf("encode blob: %w", err)
	}
	var doc book.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, r, fmt.Errorf("decode document: %w: %w", book.ErrUnrecognizedShape, err)
	}
	r.Repairs = doc.Repair()
	return &doc, r, nil
}

// Encode serializes a document in its persisted form.
func Encode(doc *book.Document) ([]byte, error) {
	doc.SchemaVersion = book.SchemaVersion
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}
