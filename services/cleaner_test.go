package services

import (
	"errors"
	"testing"
)

func TestParseReviewLabel(t *testing.T) {
	tests := []struct {
		label     string
		wantAvg   float64
		wantCount int
	}{
		{"4,5 stars 128 reviews", 4.5, 128},
		{"4.8 stars 1,234 Reviews", 4.8, 1234},
		{"  5,0 stars 7 reviews ", 5.0, 7},
		{"3 stars 0 reviews", 3, 0},
		{"4,1 Sterne 2.051 Rezensionen", 4.1, 2051},
	}

	for _, tt := range tests {
		avg, count, err := ParseReviewLabel(tt.label)
		if err != nil {
			t.Errorf("ParseReviewLabel(%q): unexpected error %v", tt.label, err)
			continue
		}
		if *avg != tt.wantAvg {
			t.Errorf("ParseReviewLabel(%q) average = %v; want %v", tt.label, *avg, tt.wantAvg)
		}
		if *count != tt.wantCount {
			t.Errorf("ParseReviewLabel(%q) count = %d; want %d", tt.label, *count, tt.wantCount)
		}
	}
}

func TestParseReviewLabelFaults(t *testing.T) {
	labels := []string{
		"bad data",
		"",
		"No reviews",
		"four stars 12 reviews",
		"4,5 stars many reviews",
		"7,5 stars 12 reviews",
		"4,5 stars -3 reviews",
	}

	for _, label := range labels {
		avg, count, err := ParseReviewLabel(label)
		if !errors.Is(err, ErrReviewLabel) {
			t.Errorf("ParseReviewLabel(%q): expected ErrReviewLabel, got %v", label, err)
		}
		if avg != nil || count != nil {
			t.Errorf("ParseReviewLabel(%q): partial result returned (%v, %v)", label, avg, count)
		}
	}
}

func TestNormaliseText(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  Smile   Dental \n", "Smile Dental"},
		{"\t", ""},
		{"1 Main St, New York", "1 Main St, New York"},
	}
	for _, tt := range tests {
		if got := NormaliseText(tt.in); got != tt.want {
			t.Errorf("NormaliseText(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestProbeURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"smiledental.com", "http://www.smiledental.com"},
		{"www.smiledental.com", "http://www.smiledental.com"},
		{"https://smiledental.com/about", "https://smiledental.com/about"},
		{"HTTP://Example.org", "HTTP://Example.org"},
		{" //example.org ", "http://www.example.org"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ProbeURL(tt.in); got != tt.want {
			t.Errorf("ProbeURL(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
