package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"maps-scraper/models"
	"maps-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []*models.Listing) *models.InsightReport {
	report := &models.InsightReport{}

	if len(listings) == 0 {
		s.logger.Warn("[insights] No listings to summarise")
		return report
	}

	report.TotalListings = len(listings)

	var rated []*models.Listing
	var ratingSum float64

	for _, l := range listings {
		if l.HasWebsite() {
			report.WithWebsite++
		}
		switch l.ContainKeyword {
		case models.KeywordYes:
			report.KeywordYes++
		case models.KeywordNo:
			report.KeywordNo++
		default:
			report.KeywordUnknown++
		}
		if l.PhoneNumber == "" {
			report.MissingPhone++
		}
		if l.Address == "" {
			report.MissingAddress++
		}
		if l.ReviewsAverage != nil {
			rated = append(rated, l)
			ratingSum += *l.ReviewsAverage
		}
		if l.ReviewsCount != nil {
			report.TotalReviews += *l.ReviewsCount
		}
	}

	report.RatedListings = len(rated)
	if len(rated) > 0 {
		report.AverageRating = round2(ratingSum / float64(len(rated)))
	}

	// Top 5 by rating, ties broken by review count
	sort.SliceStable(rated, func(i, j int) bool {
		ai, aj := *rated[i].ReviewsAverage, *rated[j].ReviewsAverage
		if ai != aj {
			return ai > aj
		}
		return reviewCount(rated[i]) > reviewCount(rated[j])
	})
	if len(rated) > 5 {
		report.TopRated = rated[:5]
	} else {
		report.TopRated = rated
	}

	s.logger.Info("[insights] Summarised %d listings: %d with keyword, %d rated",
		report.TotalListings, report.KeywordYes, report.RatedListings)
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 MAPS SCRAPE SUMMARY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Unique listings        : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  With website           : \033[1m%d\033[0m\n", r.WithWebsite)
	fmt.Fprintf(w, "  Missing phone/address  : \033[1m%d / %d\033[0m\n", r.MissingPhone, r.MissingAddress)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Keyword Signals\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Found     : \033[1;32m%d\033[0m\n", r.KeywordYes)
	fmt.Fprintf(w, "  Not found : \033[1;31m%d\033[0m\n", r.KeywordNo)
	fmt.Fprintf(w, "  Unknown   : \033[1m%d\033[0m\n", r.KeywordUnknown)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Top Rated\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopRated) == 0 {
		fmt.Fprintf(w, "  No rated listings found\n")
	} else {
		fmt.Fprintf(w, "  Average rating: %.2f over %d listings (%d reviews)\n",
			r.AverageRating, r.RatedListings, r.TotalReviews)
		for i, l := range r.TopRated {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%.1f ★\033[0m (%d)\n",
				i+1, truncate(l.Name, 38), *l.ReviewsAverage, reviewCount(l))
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func reviewCount(l *models.Listing) int {
	if l.ReviewsCount == nil {
		return 0
	}
	return *l.ReviewsCount
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
