package models

import (
	"strconv"

	"maps-scraper/utils"
)

// Header is the column order of exported rows.
var Header = []string{
	"name",
	"address",
	"website",
	"contain_keyword",
	"phone_number",
	"reviews_count",
	"reviews_average",
}

// Collection is the ordered set of listings gathered during a run.
// It is owned by a single goroutine.
type Collection struct {
	listings []*Listing
}

// NewCollection returns an empty Collection.
func NewCollection() *Collection {
	return &Collection{listings: make([]*Listing, 0)}
}

// Append adds l at the end of the collection unconditionally.
func (c *Collection) Append(l *Listing) {
	c.listings = append(c.listings, l)
}

// HasWebsite reports whether a keyword-matched entry already carries exactly
// this website. Entries without a match do not reserve their website.
func (c *Collection) HasWebsite(website string) bool {
	for _, l := range c.listings {
		if l.ContainKeyword == KeywordYes && l.Website == website {
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	return len(c.listings)
}

// Listings returns the entries in order. The slice must not be modified.
func (c *Collection) Listings() []*Listing {
	return c.listings
}

// Deduplicate keeps the first entry for every name and drops the rest,
// preserving order.
func (c *Collection) Deduplicate() {
	names := utils.NewKeySet()
	unique := make([]*Listing, 0, len(c.listings))
	for _, l := range c.listings {
		if names.Add(l.Name) {
			unique = append(unique, l)
		}
	}
	c.listings = unique
}

// Rows flattens every entry into a record matching Header.
func (c *Collection) Rows() [][]string {
	rows := make([][]string, 0, len(c.listings))
	for _, l := range c.listings {
		rows = append(rows, Row(l))
	}
	return rows
}

// Row flattens a single listing. Absent numeric fields render as empty cells.
func Row(l *Listing) []string {
	count := ""
	if l.ReviewsCount != nil {
		count = strconv.Itoa(*l.ReviewsCount)
	}
	average := ""
	if l.ReviewsAverage != nil {
		average = strconv.FormatFloat(*l.ReviewsAverage, 'f', -1, 64)
	}
	return []string{
		l.Name,
		l.Address,
		l.Website,
		l.ContainKeyword.String(),
		l.PhoneNumber,
		count,
		average,
	}
}
