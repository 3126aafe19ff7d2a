package gmaps

import (
	"context"

	"maps-scraper/models"
	"maps-scraper/services"
	"maps-scraper/utils"
)

// Extractor reads a Listing from the detail panel of the selected row.
type Extractor struct {
	page   Page
	sel    Selectors
	logger *utils.Logger
}

// NewExtractor creates an Extractor using sel against page.
func NewExtractor(page Page, sel Selectors, logger *utils.Logger) *Extractor {
	return &Extractor{page: page, sel: sel, logger: logger}
}

// Extract never fails: every field that cannot be read gets its default.
func (e *Extractor) Extract(ctx context.Context, h Handle) *models.Listing {
	l := &models.Listing{
		Name:        e.text(ctx, e.page, e.sel.Name, "name"),
		Address:     e.text(ctx, e.page, e.sel.Address, "address"),
		Website:     e.text(ctx, e.page, e.sel.Website, "website"),
		PhoneNumber: e.text(ctx, e.page, e.sel.PhoneNumber, "phone"),
	}
	if l.Name == "" {
		l.Name = services.NormaliseText(h.Label)
	}

	label, ok := e.attribute(ctx, e.page.Within(h), e.sel.Reviews, "aria-label", "reviews")
	if ok {
		avg, count, err := services.ParseReviewLabel(label)
		if err != nil {
			e.logger.Debug("[gmaps] 😞 Error while extracting reviews information: %v", err)
		} else {
			l.ReviewsAverage = avg
			l.ReviewsCount = count
		}
	}

	return l
}

func (e *Extractor) text(ctx context.Context, loc Locator, selector, field string) string {
	v, ok, err := loc.Text(ctx, selector)
	if err != nil {
		e.logger.Warn("[gmaps] Lookup of %s failed, leaving it empty: %v", field, err)
		return ""
	}
	if !ok {
		return ""
	}
	return services.NormaliseText(v)
}

func (e *Extractor) attribute(ctx context.Context, loc Locator, selector, name, field string) (string, bool) {
	v, ok, err := loc.Attribute(ctx, selector, name)
	if err != nil {
		e.logger.Warn("[gmaps] Lookup of %s failed, leaving it empty: %v", field, err)
		return "", false
	}
	return v, ok
}
