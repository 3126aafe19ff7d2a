package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrReviewLabel is returned for an accessible review label that does not have
// the "<average> stars <count> reviews" shape.
var ErrReviewLabel = errors.New("malformed review label")

// ParseReviewLabel reads an accessible label such as "4,5 stars 128 reviews".
// Token 0 is the average (decimal comma accepted), token 2 is the count
// (thousands separators stripped). Either both values are returned or neither.
func ParseReviewLabel(label string) (*float64, *int, error) {
	parts := strings.Fields(label)
	if len(parts) < 3 {
		return nil, nil, fmt.Errorf("%w: %q has %d tokens", ErrReviewLabel, label, len(parts))
	}

	average, err := strconv.ParseFloat(strings.ReplaceAll(parts[0], ",", "."), 64)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: average %q: %v", ErrReviewLabel, parts[0], err)
	}
	if average < 0 || average > 5 {
		return nil, nil, fmt.Errorf("%w: average %v out of range", ErrReviewLabel, average)
	}

	rawCount := strings.NewReplacer(",", "", ".", "").Replace(parts[2])
	count, err := strconv.Atoi(rawCount)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: count %q: %v", ErrReviewLabel, parts[2], err)
	}
	if count < 0 {
		return nil, nil, fmt.Errorf("%w: negative count %d", ErrReviewLabel, count)
	}

	return &average, &count, nil
}

// NormaliseText strips leading/trailing whitespace and collapses internal whitespace.
func NormaliseText(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}

// ProbeURL turns the website text shown on a listing ("example.com") into a
// navigable address. Text that already carries a scheme is kept as is.
func ProbeURL(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	lower := strings.ToLower(website)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return website
	}
	website = strings.TrimLeft(website, "/")
	if !strings.HasPrefix(strings.ToLower(website), "www.") {
		website = "www." + website
	}
	return "http://" + website
}
