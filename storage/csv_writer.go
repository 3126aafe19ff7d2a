package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"maps-scraper/models"
)

// CSVWriter writes deduplicated listings to a delimited-text file.
type CSVWriter struct {
	path string
}

// NewCSVWriter prepares a writer for path. Intermediate directories are
// created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVWriter{path: path}, nil
}

func (c *CSVWriter) Name() string { return "csv" }

// Path returns the destination file.
func (c *CSVWriter) Path() string { return c.path }

// Write (re)creates the file with a header row followed by one row per listing.
func (c *CSVWriter) Write(listings []*models.Listing) error {
	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.Header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, l := range listings {
		if err := w.Write(models.Row(l)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return f.Close()
}

func (c *CSVWriter) Close() error { return nil }
