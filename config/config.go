package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSearch = "dentist new york"
	DefaultTotal  = 10
)

// DefaultKeywords are the hiring signals looked for on every listing website.
var DefaultKeywords = []string{
	"career",
	"careers",
	"loker",
	"karir",
	"join with us",
	"lowongan kerja",
	"job opportunity",
	"job opportunities",
	"employment",
	"careers portal",
	"work with us",
	"opportunities",
	"careers section",
	"employment opportunities",
	"job vacancies",
	"work here",
}

// Validation errors returned by Config.Validate.
var (
	ErrEmptySearch      = errors.New("config: search query must not be empty")
	ErrInvalidTotal     = errors.New("config: total must be a positive integer")
	ErrInvalidTimeout   = errors.New("config: navigation and probe timeouts must be positive")
	ErrInvalidScrollCap = errors.New("config: scroll iteration ceiling and timeout must be positive")
	ErrNoKeywords       = errors.New("config: keyword set must not be empty")
)

// Config holds all application configuration loaded from environment variables
// and command-line flags.
type Config struct {
	Search string
	Total  int

	Headless  bool
	ChromeBin string

	NavTimeout    time.Duration
	ProbeTimeout  time.Duration
	ScrollSettle  time.Duration
	ClickSettle   time.Duration
	ProbeSettle   time.Duration
	ScrollMaxIter int
	ScrollTimeout time.Duration
	MaxRetries    int

	Keywords     []string
	KeywordsFile string

	DNSPrecheck bool
	DNSServers  []string

	OutputDir string
	Debug     bool

	ExportPostgres   bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct. Search and
// Total take their defaults and are normally overridden by CLI flags.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		Search: DefaultSearch,
		Total:  DefaultTotal,

		Headless:  getEnvBool("HEADLESS", true),
		ChromeBin: getEnv("CHROME_BIN", ""),

		NavTimeout:    getEnvDuration("NAV_TIMEOUT_MS", 60000, time.Millisecond),
		ProbeTimeout:  getEnvDuration("PROBE_TIMEOUT_MS", 60000, time.Millisecond),
		ScrollSettle:  getEnvDuration("SCROLL_SETTLE_MS", 3000, time.Millisecond),
		ClickSettle:   getEnvDuration("CLICK_SETTLE_MS", 5000, time.Millisecond),
		ProbeSettle:   getEnvDuration("PROBE_SETTLE_MS", 5000, time.Millisecond),
		ScrollMaxIter: getEnvInt("SCROLL_MAX_ITERATIONS", 200),
		ScrollTimeout: getEnvDuration("SCROLL_TIMEOUT_S", 600, time.Second),
		MaxRetries:    getEnvInt("MAX_RETRIES", 3),

		KeywordsFile: getEnv("KEYWORDS_FILE", ""),

		DNSPrecheck: getEnvBool("DNS_PRECHECK", false),
		DNSServers:  splitList(getEnv("DNS_SERVERS", "8.8.8.8:53,1.1.1.1:53")),

		OutputDir: getEnv("OUTPUT_DIR", "output"),
		Debug:     getEnvBool("LOG_DEBUG", false),

		ExportPostgres:   getEnvBool("EXPORT_POSTGRES", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "maps_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}

	cfg.Keywords = DefaultKeywords
	if cfg.KeywordsFile != "" {
		kws, err := LoadKeywords(cfg.KeywordsFile)
		if err != nil {
			return nil, err
		}
		cfg.Keywords = kws
	}

	return cfg, nil
}

// Validate checks the values a run cannot proceed without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Search) == "" {
		return ErrEmptySearch
	}
	if c.Total <= 0 {
		return ErrInvalidTotal
	}
	if c.NavTimeout <= 0 || c.ProbeTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.ScrollMaxIter <= 0 || c.ScrollTimeout <= 0 {
		return ErrInvalidScrollCap
	}
	if len(c.Keywords) == 0 {
		return ErrNoKeywords
	}
	return nil
}

// OutputBase returns the export path without extension: the query with spaces
// replaced by underscores, prefixed with data_ inside the output directory.
func (c *Config) OutputBase() string {
	name := strings.ReplaceAll("data_"+c.Search, " ", "_")
	return strings.TrimRight(c.OutputDir, "/") + "/" + name
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

type keywordsFile struct {
	Keywords []string `yaml:"keywords"`
}

// LoadKeywords reads a YAML file of the form `keywords: [..]`. Blank entries
// are dropped.
func LoadKeywords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read keywords file %q: %w", path, err)
	}
	var kf keywordsFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("config: parse keywords file %q: %w", path, err)
	}

	out := make([]string, 0, len(kf.Keywords))
	for _, kw := range kf.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoKeywords, path)
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback int, unit time.Duration) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * unit
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
