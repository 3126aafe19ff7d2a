package services

import (
	"errors"
	"fmt"

	"maps-scraper/models"
	"maps-scraper/storage"
	"maps-scraper/utils"
)

// Exporter deduplicates a collection and hands the rows to every sink.
type Exporter struct {
	logger  *utils.Logger
	writers []storage.ListingWriter
}

// NewExporter creates an Exporter over the given sinks.
func NewExporter(logger *utils.Logger, writers ...storage.ListingWriter) *Exporter {
	return &Exporter{logger: logger, writers: writers}
}

// Export runs exactly one Deduplicate on coll, then writes to all sinks. A
// failing sink does not stop the others; an error is returned only when every
// sink failed.
func (e *Exporter) Export(coll *models.Collection) error {
	before := coll.Len()
	coll.Deduplicate()
	e.logger.Info("[export] Deduplicated %d → %d listings", before, coll.Len())

	var errs []error
	for _, w := range e.writers {
		if err := w.Write(coll.Listings()); err != nil {
			e.logger.Error("[export] %s sink failed: %v", w.Name(), err)
			errs = append(errs, fmt.Errorf("%s: %w", w.Name(), err))
			continue
		}
		e.logger.Info("[export] %s sink written (%d rows)", w.Name(), coll.Len())
	}

	if len(errs) > 0 && len(errs) == len(e.writers) {
		return fmt.Errorf("export: all sinks failed: %w", errors.Join(errs...))
	}
	return nil
}
