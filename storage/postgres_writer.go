package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"maps-scraper/models"
)

const businessColumns = 8

// PostgresWriter persists the exported rows of one search query to PostgreSQL.
type PostgresWriter struct {
	db    *sql.DB
	query string
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a writer scoped to the given search query.
func NewPostgresWriter(dsn, searchQuery string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db, query: searchQuery}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS businesses (
			id              SERIAL PRIMARY KEY,
			search_query    TEXT         NOT NULL,
			name            TEXT         NOT NULL,
			address         TEXT         NOT NULL DEFAULT '',
			website         TEXT         NOT NULL DEFAULT '',
			contain_keyword VARCHAR(3)   NOT NULL DEFAULT '',
			phone_number    TEXT         NOT NULL DEFAULT '',
			reviews_count   INTEGER,
			reviews_average NUMERIC(3,2),
			created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			UNIQUE (search_query, name)
		);

		CREATE INDEX IF NOT EXISTS idx_businesses_query   ON businesses(search_query);
		CREATE INDEX IF NOT EXISTS idx_businesses_keyword ON businesses(contain_keyword);
	`)
	return err
}

func (pw *PostgresWriter) Name() string { return "postgres" }

// Clear deletes the rows previously stored for this search query.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM businesses WHERE search_query = $1", pw.query)
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts the listings, replacing earlier rows of the same query.
func (pw *PostgresWriter) Write(listings []*models.Listing) error {
	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		query, args := buildInsert(pw.query, listings[i:end])
		if _, err := pw.db.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch: %w", err)
		}
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func buildInsert(searchQuery string, batch []*models.Listing) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*businessColumns)

	for idx, l := range batch {
		base := idx * businessColumns
		placeholders := make([]string, businessColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			searchQuery, l.Name, l.Address, l.Website, l.ContainKeyword.String(),
			l.PhoneNumber, nullInt(l.ReviewsCount), nullFloat64(l.ReviewsAverage))
	}

	query := fmt.Sprintf(`
		INSERT INTO businesses (search_query, name, address, website, contain_keyword, phone_number, reviews_count, reviews_average)
		VALUES %s
		ON CONFLICT (search_query, name) DO NOTHING
	`, strings.Join(valueStrings, ","))

	return query, valueArgs
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat64(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
