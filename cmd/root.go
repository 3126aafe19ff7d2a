package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"maps-scraper/config"
	"maps-scraper/scraper/gmaps"
	"maps-scraper/services"
	"maps-scraper/storage"
	"maps-scraper/utils"
)

// options holds the values taken from the command line.
type options struct {
	search string
	total  int
}

// NewRootCmd creates the maps-scraper command.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "maps-scraper",
		Short: "Scrape Google Maps listings and check their websites for hiring keywords",
		Long: `maps-scraper searches Google Maps, scrolls the result feed until enough
listings are loaded, reads each listing's details and visits its website
looking for hiring keywords. Results are written to CSV and XLSX files under
the output directory, and optionally to PostgreSQL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.search, "search", "s", config.DefaultSearch, "Search query")
	cmd.Flags().IntVarP(&opts.total, "total", "t", config.DefaultTotal, "Number of listings to collect")

	return cmd
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options) error {
	logger := utils.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Search = opts.search
	cfg.Total = opts.total
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger.SetDebug(cfg.Debug)

	logger.Info("=== Maps Scraping System starting ===")
	logger.Info("Config | search: %q | total: %d | headless: %v | dns precheck: %v",
		cfg.Search, cfg.Total, cfg.Headless, cfg.DNSPrecheck)

	sinks, err := openSinks(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		for _, s := range sinks {
			if err := s.Close(); err != nil {
				logger.Warn("Closing %s sink: %v", s.Name(), err)
			}
		}
	}()

	browser, err := gmaps.NewBrowser(cfg, logger)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer browser.Close()

	var checker gmaps.HostChecker
	if cfg.DNSPrecheck {
		checker = gmaps.NewDNSChecker(cfg.DNSServers, cfg.ProbeTimeout)
	}

	scraper, err := gmaps.New(cfg, logger, browser.Page(), browser, checker)
	if err != nil {
		return err
	}

	coll, result, err := scraper.Scrape(ctx)
	if err != nil {
		return fmt.Errorf("scrape %q: %w", cfg.Search, err)
	}
	logger.Info("Scroll loop ended %s after %d iterations", result.State, result.Iterations)

	if err := services.NewExporter(logger, sinks...).Export(coll); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	insights := services.NewInsightService(logger)
	insights.Print(os.Stdout, insights.Generate(coll.Listings()))

	fmt.Printf("  Done. CSV → %s.csv | XLSX → %s.xlsx\n\n", cfg.OutputBase(), cfg.OutputBase())
	return nil
}

// openSinks creates the CSV and XLSX writers and, when enabled, the PostgreSQL
// writer. A PostgreSQL connection failure is logged and that sink skipped.
func openSinks(cfg *config.Config, logger *utils.Logger) ([]storage.ListingWriter, error) {
	base := cfg.OutputBase()

	csvWriter, err := storage.NewCSVWriter(base + ".csv")
	if err != nil {
		return nil, fmt.Errorf("create CSV writer: %w", err)
	}
	xlsxWriter, err := storage.NewXLSXWriter(base + ".xlsx")
	if err != nil {
		return nil, fmt.Errorf("create XLSX writer: %w", err)
	}
	sinks := []storage.ListingWriter{csvWriter, xlsxWriter}

	if cfg.ExportPostgres {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN(), cfg.Search)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
		} else {
			sinks = append(sinks, pgWriter)
		}
	}
	return sinks, nil
}
