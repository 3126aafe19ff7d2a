package storage

import "maps-scraper/models"

// ListingWriter is the interface any export sink must satisfy. Write replaces
// whatever the sink held from a previous Write of the same run.
type ListingWriter interface {
	Name() string
	Write(listings []*models.Listing) error
	Close() error
}
