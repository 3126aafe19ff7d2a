package models

// KeywordMatch is the outcome of a website keyword probe.
type KeywordMatch int

const (
	// KeywordUnknown means no probe result exists: the listing has no website
	// or the probe failed before the content could be tested.
	KeywordUnknown KeywordMatch = iota
	KeywordYes
	KeywordNo
)

// String renders the match the way it appears in exported rows.
func (k KeywordMatch) String() string {
	switch k {
	case KeywordYes:
		return "Yes"
	case KeywordNo:
		return "No"
	default:
		return ""
	}
}

// Listing is one business discovered on the map search surface.
//
// Text fields hold "" when the field is not present on the page. Review fields
// are nil when the accessible label was missing or could not be parsed.
type Listing struct {
	Name           string
	Address        string
	Website        string
	PhoneNumber    string
	ReviewsCount   *int
	ReviewsAverage *float64
	ContainKeyword KeywordMatch
}

// HasWebsite reports whether a website was extracted for the listing.
func (l *Listing) HasWebsite() bool {
	return l.Website != ""
}

// InsightReport holds the computed summary of a finished run.
type InsightReport struct {
	TotalListings  int
	WithWebsite    int
	KeywordYes     int
	KeywordNo      int
	KeywordUnknown int
	RatedListings  int
	AverageRating  float64
	TotalReviews   int
	TopRated       []*Listing
	MissingPhone   int
	MissingAddress int
}
