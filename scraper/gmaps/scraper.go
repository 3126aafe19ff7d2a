package gmaps

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"maps-scraper/config"
	"maps-scraper/models"
	"maps-scraper/utils"
)

const searchBaseURL = "https://www.google.com/maps/search/"

// Scraper drives one search run: collect rows, extract, verify, admit.
type Scraper struct {
	cfg       *config.Config
	logger    *utils.Logger
	page      Page
	collector *ScrollCollector
	extractor *Extractor
	verifier  *Verifier
	retry     *utils.RetryConfig
}

// New wires a Scraper over page. Probes are opened through opener; checker
// may be nil to skip the DNS pre-check.
func New(cfg *config.Config, logger *utils.Logger, page Page, opener ProbeOpener, checker HostChecker) (*Scraper, error) {
	matcher, err := NewKeywordMatcher(cfg.Keywords)
	if err != nil {
		return nil, err
	}
	sel := DefaultSelectors

	return &Scraper{
		cfg:    cfg,
		logger: logger,
		page:   page,
		collector: NewScrollCollector(page, CollectorOptions{
			Selector:      sel.Listing,
			Settle:        cfg.ScrollSettle,
			MaxIterations: cfg.ScrollMaxIter,
			Timeout:       cfg.ScrollTimeout,
		}, logger),
		extractor: NewExtractor(page, sel, logger),
		verifier: NewVerifier(opener, matcher, checker, VerifierOptions{
			Timeout: cfg.ProbeTimeout,
			Settle:  cfg.ProbeSettle,
		}, logger),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}, nil
}

// SearchURL builds the Maps search address for query.
func SearchURL(query string) string {
	return searchBaseURL + url.QueryEscape(strings.TrimSpace(query)) + "?hl=en"
}

// Scrape runs the whole pipeline for cfg.Search and returns the collection
// before export deduplication, together with how the scroll loop ended.
func (s *Scraper) Scrape(ctx context.Context) (*models.Collection, *ScrollResult, error) {
	s.logger.Info("[gmaps] Starting scrape: %q, target %d listings", s.cfg.Search, s.cfg.Total)

	if err := s.openSearch(ctx); err != nil {
		return nil, nil, err
	}

	result, err := s.collector.Collect(ctx, s.cfg.Total)
	if err != nil {
		return nil, nil, fmt.Errorf("collect listings: %w", err)
	}
	switch result.State {
	case StateSatisfied:
		s.logger.Info("[gmaps] 🎯 Total scraped ⟹ %d", len(result.Handles))
	case StateExhausted:
		s.logger.Info("[gmaps] 📜 Arrived at all available, total scraped ⟹ %d", len(result.Handles))
	case StateCapped:
		s.logger.Warn("[gmaps] Scroll capped (%s), continuing with %d listings", result.Reason, len(result.Handles))
	}

	coll := models.NewCollection()
	for i, h := range result.Handles {
		s.processListing(ctx, coll, h, i+1, len(result.Handles))
	}

	s.logger.Info("[gmaps] Scrape complete: %d listings collected", coll.Len())
	return coll, result, nil
}

func (s *Scraper) openSearch(ctx context.Context) error {
	target := SearchURL(s.cfg.Search)
	return s.retry.Do(ctx, "open-search", func(ctx context.Context) error {
		if err := s.page.Navigate(ctx, target, s.cfg.NavTimeout); err != nil {
			return fmt.Errorf("navigate %s: %w", target, err)
		}
		if d, ok := s.page.(consentDismisser); ok {
			if err := d.DismissConsent(ctx); err != nil {
				s.logger.Debug("[gmaps] Consent dialog not dismissed: %v", err)
			}
		}
		return s.page.Wait(ctx, s.cfg.ClickSettle)
	})
}

func (s *Scraper) processListing(ctx context.Context, coll *models.Collection, h Handle, n, total int) {
	s.logger.Info("[gmaps] ————————————————————————————————————————————————")
	if err := s.page.Click(ctx, h); err != nil {
		s.logger.Warn("[gmaps] Could not open listing %d (%s): %v", n, h.Href, err)
		return
	}
	if err := s.page.Wait(ctx, s.cfg.ClickSettle); err != nil {
		s.logger.Warn("[gmaps] Settle after click interrupted: %v", err)
		return
	}

	l := s.extractor.Extract(ctx, h)
	s.logger.Info("[gmaps] 💼 %d). of %d ⟹ %s", n, total, l.Name)

	if l.HasWebsite() {
		s.logger.Info("[gmaps] 🌐 Open website ⟹ %s", l.Website)
		s.verifier.Verify(ctx, l)
	} else {
		s.logger.Info("[gmaps] ⏭️ Website not found for this listing")
	}

	s.admit(coll, l)
}

// admit adds every listing at most once. Keyword matches go through the
// verifier's website gate; everything else is appended directly.
func (s *Scraper) admit(coll *models.Collection, l *models.Listing) {
	if l.ContainKeyword == models.KeywordYes {
		s.verifier.Admit(coll, l)
		return
	}
	coll.Append(l)
}
