package app

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/pfassina/grimoire/internal/book"
	"github.com/pfassina/grimoire/internal/migrate"
	"github.com/pfassina/grimoire/internal/store"
)

// preserver keeps a copy of bytes that could not be decoded.
type preserver interface {
	Preserve(data []byte) (string, error)
}

// LoadDocument reads the blob from gw and upgrades it to the current schema.
// Unrecognized input is kept aside before the defaults replace it.
func LoadDocument(gw store.Gateway, logger *log.Logger) (*book.Document, error) {
	data, err := gw.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	doc, report := migrate.Decode(data)
	if report.Unrecognized {
		if p, ok := gw.(preserver); ok {
			path, err := p.Preserve(data)
			if err != nil {
				return nil, fmt.Errorf("preserve unrecognized settings: %w", err)
			}
			logger.Warn("unrecognized settings kept aside", "path", path)
		}
	}
	if report.Changed() {
		logger.Info("settings upgraded", "report", report.String())
	}
	return doc, nil
}
