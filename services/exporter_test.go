package services

import (
	"errors"
	"testing"

	"maps-scraper/models"
	"maps-scraper/utils"
)

type recordingWriter struct {
	name   string
	err    error
	writes [][]string
}

func (r *recordingWriter) Name() string { return r.name }
func (r *recordingWriter) Close() error { return nil }

func (r *recordingWriter) Write(listings []*models.Listing) error {
	if r.err != nil {
		return r.err
	}
	names := make([]string, 0, len(listings))
	for _, l := range listings {
		names = append(names, l.Name)
	}
	r.writes = append(r.writes, names)
	return nil
}

func duplicatedCollection() *models.Collection {
	c := models.NewCollection()
	for _, n := range []string{"A", "B", "A", "C", "B"} {
		c.Append(&models.Listing{Name: n})
	}
	return c
}

func TestExportDeduplicatesBeforeWriting(t *testing.T) {
	csv := &recordingWriter{name: "csv"}
	xlsx := &recordingWriter{name: "xlsx"}
	e := NewExporter(utils.NewDiscardLogger(), csv, xlsx)

	if err := e.Export(duplicatedCollection()); err != nil {
		t.Fatalf("Export: %v", err)
	}

	for _, w := range []*recordingWriter{csv, xlsx} {
		if len(w.writes) != 1 {
			t.Fatalf("%s: writes got %d, want 1", w.name, len(w.writes))
		}
		if got := w.writes[0]; len(got) != 3 || got[0] != "A" || got[1] != "B" || got[2] != "C" {
			t.Errorf("%s: rows got %v", w.name, got)
		}
	}
}

func TestExportTwiceIsIdempotent(t *testing.T) {
	w := &recordingWriter{name: "csv"}
	e := NewExporter(utils.NewDiscardLogger(), w)
	c := duplicatedCollection()

	if err := e.Export(c); err != nil {
		t.Fatal(err)
	}
	if err := e.Export(c); err != nil {
		t.Fatal(err)
	}
	if len(w.writes[0]) != len(w.writes[1]) {
		t.Errorf("second export changed row count: %v vs %v", w.writes[0], w.writes[1])
	}
}

func TestExportPartialFailure(t *testing.T) {
	broken := &recordingWriter{name: "postgres", err: errors.New("connection reset")}
	ok := &recordingWriter{name: "csv"}

	if err := NewExporter(utils.NewDiscardLogger(), broken, ok).Export(duplicatedCollection()); err != nil {
		t.Errorf("one healthy sink should make the export succeed, got %v", err)
	}
	if len(ok.writes) != 1 {
		t.Errorf("healthy sink should still be written")
	}

	err := NewExporter(utils.NewDiscardLogger(), broken).Export(duplicatedCollection())
	if err == nil {
		t.Fatal("expected an error when every sink fails")
	}
}
