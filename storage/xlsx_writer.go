package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"maps-scraper/models"
)

const xlsxSheet = "Sheet1"

// XLSXWriter writes deduplicated listings to a spreadsheet with the same
// columns as the CSV export.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter prepares a writer for path, creating intermediate directories.
func NewXLSXWriter(path string) (*XLSXWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("xlsx: create output dir: %w", err)
	}
	return &XLSXWriter{path: path}, nil
}

func (x *XLSXWriter) Name() string { return "xlsx" }

// Path returns the destination file.
func (x *XLSXWriter) Path() string { return x.path }

func (x *XLSXWriter) Write(listings []*models.Listing) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(models.Header))
	for i, h := range models.Header {
		header[i] = h
	}
	if err := setRow(f, 1, header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}
	for i, l := range listings {
		if err := setRow(f, i+2, typedRow(l)); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}

func (x *XLSXWriter) Close() error { return nil }

// typedRow is models.Row with review figures kept numeric. Absent values
// leave the cell empty.
func typedRow(l *models.Listing) []interface{} {
	row := []interface{}{l.Name, l.Address, l.Website, l.ContainKeyword.String(), l.PhoneNumber, nil, nil}
	if l.ReviewsCount != nil {
		row[5] = *l.ReviewsCount
	}
	if l.ReviewsAverage != nil {
		row[6] = *l.ReviewsAverage
	}
	return row
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(xlsxSheet, cell, &values)
}
