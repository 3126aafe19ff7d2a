package gmaps

import (
	"context"
	"time"
)

// Handle is a stable reference to one listing row of the results feed. The
// anchor that is counted and clicked is identified by its position and place
// URL; the row that carries the review label is the anchor's container.
type Handle struct {
	Index int
	Href  string
	Label string
}

// Locator answers bounded lookups inside one scope of the page. A lookup that
// matches nothing returns ok == false and a nil error; err is reserved for
// failures talking to the browser.
type Locator interface {
	Text(ctx context.Context, selector string) (value string, ok bool, err error)
	Attribute(ctx context.Context, selector, name string) (value string, ok bool, err error)
}

// Page is the search tab the scraper drives. Its Locator methods are scoped to
// the whole document; Within scopes them to a listing row.
type Page interface {
	Locator

	Navigate(ctx context.Context, url string, timeout time.Duration) error
	Count(ctx context.Context, selector string) (int, error)
	Handles(ctx context.Context, selector string) ([]Handle, error)
	ScrollBy(ctx context.Context, dx, dy int) error
	Wait(ctx context.Context, d time.Duration) error
	Click(ctx context.Context, h Handle) error
	Within(h Handle) Locator
}

// Probe is an isolated browsing context used for a single website visit.
type Probe interface {
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	Wait(ctx context.Context, d time.Duration) error
	Content(ctx context.Context) (string, error)
	Close() error
}

// ProbeOpener hands out a fresh Probe per website visit.
type ProbeOpener interface {
	OpenProbe(ctx context.Context) (Probe, error)
}

// consentDismisser is implemented by pages that can clear a cookie wall.
type consentDismisser interface {
	DismissConsent(ctx context.Context) error
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
