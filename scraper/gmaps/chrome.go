package gmaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"maps-scraper/config"
	"maps-scraper/utils"
)

// actionTimeout bounds DOM queries that are not navigations.
const actionTimeout = 15 * time.Second

var errHandleGone = errors.New("gmaps: listing row no longer present")

// Browser owns the headless Chrome process. The search page lives in the
// first tab; every probe gets its own tab.
type Browser struct {
	browserCtx    context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
	listSelector  string
}

// NewBrowser launches Chrome and opens the first tab.
func NewBrowser(cfg *config.Config, logger *utils.Logger) (*Browser, error) {
	chromeBin := cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	logger.Info("[gmaps] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("lang", "en-US"),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// The first Run starts the browser; it must not carry a timeout.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &Browser{
		browserCtx:    browserCtx,
		cancelAlloc:   cancelAlloc,
		cancelBrowser: cancelBrowser,
		listSelector:  DefaultSelectors.Listing,
	}, nil
}

// Page returns the search tab.
func (b *Browser) Page() *ChromePage {
	return &ChromePage{tab: tab{ctx: b.browserCtx}, listSelector: b.listSelector}
}

// OpenProbe opens a new tab used for one website visit only.
func (b *Browser) OpenProbe(ctx context.Context) (Probe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("open probe tab: %w", err)
	}
	return &chromeProbe{tab: tab{ctx: tabCtx}, cancel: cancel}, nil
}

// Close shuts the browser down.
func (b *Browser) Close() {
	b.cancelBrowser()
	b.cancelAlloc()
}

// tab runs chromedp actions against one target, bounded by a timeout and by
// the caller's context.
type tab struct {
	ctx context.Context
}

func (t tab) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := context.WithTimeout(t.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (t tab) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	return t.run(ctx, timeout, chromedp.Navigate(url))
}

func (t tab) Wait(ctx context.Context, d time.Duration) error {
	return sleep(ctx, d)
}

func (t tab) Content(ctx context.Context) (string, error) {
	var html string
	if err := t.run(ctx, actionTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read content: %w", err)
	}
	return html, nil
}

func (t tab) eval(ctx context.Context, expr string, out interface{}) error {
	return t.run(ctx, actionTimeout, chromedp.Evaluate(expr, out))
}

type chromeProbe struct {
	tab
	cancel context.CancelFunc
}

func (p *chromeProbe) Close() error {
	p.cancel()
	return nil
}

// ChromePage implements Page on the search tab with XPath lookups.
type ChromePage struct {
	tab
	listSelector string
}

type lookupResult struct {
	Found bool   `json:"found"`
	Value string `json:"value"`
}

func (p *ChromePage) Count(ctx context.Context, selector string) (int, error) {
	var n int
	err := p.eval(ctx, fmt.Sprintf(`document.evaluate(%s, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null).snapshotLength`, jsString(selector)), &n)
	return n, err
}

func (p *ChromePage) Handles(ctx context.Context, selector string) ([]Handle, error) {
	var anchors []struct {
		Href  string `json:"href"`
		Label string `json:"label"`
	}
	if err := p.eval(ctx, fmt.Sprintf(handlesScript, jsString(selector)), &anchors); err != nil {
		return nil, err
	}
	handles := make([]Handle, 0, len(anchors))
	for i, a := range anchors {
		handles = append(handles, Handle{Index: i, Href: a.Href, Label: a.Label})
	}
	return handles, nil
}

func (p *ChromePage) ScrollBy(ctx context.Context, dx, dy int) error {
	return p.eval(ctx, fmt.Sprintf(scrollScript, dx, dy), nil)
}

func (p *ChromePage) Click(ctx context.Context, h Handle) error {
	var clicked bool
	if err := p.eval(ctx, fmt.Sprintf(clickScript, p.anchorExpr(h)), &clicked); err != nil {
		return err
	}
	if !clicked {
		return errHandleGone
	}
	return nil
}

func (p *ChromePage) Text(ctx context.Context, selector string) (string, bool, error) {
	return p.lookup(ctx, "document", selector, "")
}

func (p *ChromePage) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	return p.lookup(ctx, "document", selector, name)
}

func (p *ChromePage) Within(h Handle) Locator {
	return rowLocator{page: p, root: fmt.Sprintf(`(function(){ var a = %s; return a ? a.parentElement : null; })()`, p.anchorExpr(h))}
}

// DismissConsent clicks through the cookie wall shown to fresh sessions.
func (p *ChromePage) DismissConsent(ctx context.Context) error {
	return p.eval(ctx, consentScript, nil)
}

func (p *ChromePage) lookup(ctx context.Context, root, selector, attr string) (string, bool, error) {
	var res lookupResult
	if err := p.eval(ctx, fmt.Sprintf(lookupScript, root, jsString(selector), jsString(attr)), &res); err != nil {
		return "", false, err
	}
	return res.Value, res.Found, nil
}

// anchorExpr resolves a handle to its anchor: by position when the href still
// matches, otherwise by href.
func (p *ChromePage) anchorExpr(h Handle) string {
	return fmt.Sprintf(anchorScript, jsString(p.listSelector), h.Index, jsString(h.Href))
}

type rowLocator struct {
	page *ChromePage
	root string
}

func (r rowLocator) Text(ctx context.Context, selector string) (string, bool, error) {
	return r.page.lookup(ctx, r.root, selector, "")
}

func (r rowLocator) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	return r.page.lookup(ctx, r.root, selector, name)
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

const handlesScript = `(function (sel) {
  var snap = document.evaluate(sel, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
  var out = [];
  for (var i = 0; i < snap.snapshotLength; i++) {
    var a = snap.snapshotItem(i);
    out.push({ href: a.getAttribute('href') || '', label: a.getAttribute('aria-label') || '' });
  }
  return out;
})(%s)`

const anchorScript = `(function (sel, idx, href) {
  var snap = document.evaluate(sel, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
  var a = snap.snapshotItem(idx);
  if (a && (a.getAttribute('href') || '') === href) return a;
  for (var i = 0; i < snap.snapshotLength; i++) {
    var n = snap.snapshotItem(i);
    if ((n.getAttribute('href') || '') === href) return n;
  }
  return null;
})(%s, %d, %s)`

const clickScript = `(function () {
  var a = %s;
  if (!a) return false;
  a.click();
  return true;
})()`

const lookupScript = `(function (root, sel, attr) {
  if (!root) return { found: false, value: '' };
  var n = document.evaluate(sel, root, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
  if (!n) return { found: false, value: '' };
  if (attr) {
    var v = n.getAttribute(attr);
    return { found: v !== null, value: v || '' };
  }
  return { found: true, value: n.innerText || n.textContent || '' };
})(%s, %s, %s)`

const scrollScript = `(function (dx, dy) {
  var feed = document.querySelector('div[role="feed"]');
  if (feed) { feed.scrollBy(dx, dy); return true; }
  window.scrollBy(dx, dy);
  return false;
})(%d, %d)`

const consentScript = `(function () {
  const selectors = [
    'button[aria-label="Accept all"]',
    'button[aria-label="I agree"]',
    'form[action*="consent"] button'
  ];
  for (const sel of selectors) {
    const btn = document.querySelector(sel);
    if (btn) {
      btn.click();
      return true;
    }
  }
  return false;
})()`
