package services

import (
	"bytes"
	"strings"
	"testing"

	"maps-scraper/models"
	"maps-scraper/utils"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func sampleListings() []*models.Listing {
	return []*models.Listing{
		{Name: "Smile Dental", Website: "smile.com", PhoneNumber: "1", Address: "a", ReviewsAverage: floatPtr(4.9), ReviewsCount: intPtr(100), ContainKeyword: models.KeywordYes},
		{Name: "Bright Teeth", Website: "bright.com", PhoneNumber: "2", ReviewsAverage: floatPtr(4.5), ReviewsCount: intPtr(20), ContainKeyword: models.KeywordNo},
		{Name: "Park Dentistry", Address: "c", ReviewsAverage: floatPtr(4.9), ReviewsCount: intPtr(300)},
		{Name: "Uptown Ortho", Website: "uptown.com", PhoneNumber: "4", Address: "d"},
		{Name: "Kids Dental", Website: "kids.com", PhoneNumber: "5", Address: "e", ReviewsAverage: floatPtr(3.7), ReviewsCount: intPtr(8), ContainKeyword: models.KeywordNo},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(utils.NewDiscardLogger())
	r := svc.Generate(sampleListings())
	if r.TotalListings != 5 {
		t.Errorf("TotalListings: got %d, want 5", r.TotalListings)
	}
	if r.WithWebsite != 4 {
		t.Errorf("WithWebsite: got %d, want 4", r.WithWebsite)
	}
	if r.KeywordYes != 1 || r.KeywordNo != 2 || r.KeywordUnknown != 2 {
		t.Errorf("keyword counts: got yes=%d no=%d unknown=%d", r.KeywordYes, r.KeywordNo, r.KeywordUnknown)
	}
	if r.MissingPhone != 1 || r.MissingAddress != 1 {
		t.Errorf("missing: got phone=%d address=%d", r.MissingPhone, r.MissingAddress)
	}
}

func TestInsightRatings(t *testing.T) {
	svc := NewInsightService(utils.NewDiscardLogger())
	r := svc.Generate(sampleListings())
	if r.RatedListings != 4 {
		t.Errorf("RatedListings: got %d, want 4", r.RatedListings)
	}
	if r.AverageRating != 4.5 {
		t.Errorf("AverageRating: got %.2f, want 4.50", r.AverageRating)
	}
	if r.TotalReviews != 428 {
		t.Errorf("TotalReviews: got %d, want 428", r.TotalReviews)
	}
}

func TestInsightTopRatedOrder(t *testing.T) {
	svc := NewInsightService(utils.NewDiscardLogger())
	r := svc.Generate(sampleListings())
	if len(r.TopRated) != 4 {
		t.Fatalf("TopRated len: got %d, want 4", len(r.TopRated))
	}
	if r.TopRated[0].Name != "Park Dentistry" {
		t.Errorf("tie on 4.9 should favour more reviews, got %q first", r.TopRated[0].Name)
	}
	if r.TopRated[3].Name != "Kids Dental" {
		t.Errorf("lowest rated should be last, got %q", r.TopRated[3].Name)
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(utils.NewDiscardLogger())
	r := svc.Generate(nil)
	if r.TotalListings != 0 {
		t.Errorf("expected 0 total listings for empty input")
	}

	var buf bytes.Buffer
	svc.Print(&buf, r)
	if !strings.Contains(buf.String(), "No rated listings found") {
		t.Errorf("empty report should say so: %q", buf.String())
	}
}

func TestGenerateLogsSummary(t *testing.T) {
	var out, errOut bytes.Buffer
	svc := NewInsightService(utils.NewLoggerWithWriters(&out, &errOut))

	svc.Generate(sampleListings())
	if !strings.Contains(out.String(), "Summarised 5 listings: 1 with keyword, 4 rated") {
		t.Errorf("summary log: got %q", out.String())
	}

	out.Reset()
	errOut.Reset()
	svc.Generate(nil)
	if !strings.Contains(out.String()+errOut.String(), "No listings to summarise") {
		t.Errorf("empty input should be logged, got %q / %q", out.String(), errOut.String())
	}
}
