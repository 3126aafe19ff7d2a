package gmaps

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"maps-scraper/models"
	"maps-scraper/services"
	"maps-scraper/utils"
)

// HostChecker tells whether a host name resolves before a probe is spent on it.
type HostChecker interface {
	Resolves(ctx context.Context, host string) (bool, error)
}

// VerifierOptions tune website probes.
type VerifierOptions struct {
	Timeout time.Duration
	Settle  time.Duration
}

// Verifier visits a listing website once and classifies it by keyword.
type Verifier struct {
	opener  ProbeOpener
	matcher *KeywordMatcher
	checker HostChecker
	opts    VerifierOptions
	logger  *utils.Logger
}

// NewVerifier creates a Verifier. checker may be nil.
func NewVerifier(opener ProbeOpener, matcher *KeywordMatcher, checker HostChecker, opts VerifierOptions, logger *utils.Logger) *Verifier {
	return &Verifier{opener: opener, matcher: matcher, checker: checker, opts: opts, logger: logger}
}

// Verify probes l.Website and sets l.ContainKeyword to Yes or No. Any failure
// before the content could be tested is logged and leaves it unknown.
func (v *Verifier) Verify(ctx context.Context, l *models.Listing) models.KeywordMatch {
	if !l.HasWebsite() {
		return l.ContainKeyword
	}
	target := services.ProbeURL(l.Website)

	if v.checker != nil {
		if host := hostOf(target); host != "" {
			ok, err := v.checker.Resolves(ctx, host)
			switch {
			case err != nil:
				v.logger.Debug("[verifier] DNS pre-check for %s inconclusive: %v", host, err)
			case !ok:
				v.logger.Warn("[verifier] 😞 %s does not resolve, skipping probe", host)
				return l.ContainKeyword
			}
		}
	}

	content, err := v.fetch(ctx, target)
	if err != nil {
		v.logger.Warn("[verifier] 😞 Error while accessing website ⟹ %s: %v", target, err)
		return l.ContainKeyword
	}

	if kw, ok := v.matcher.Match(pageText(content)); ok {
		v.logger.Info("[verifier] ✅ Keyword %q found on ⟹ %s", kw, l.Website)
		l.ContainKeyword = models.KeywordYes
	} else {
		v.logger.Info("[verifier] ❌ Keyword not found on ⟹ %s", l.Website)
		l.ContainKeyword = models.KeywordNo
	}
	return l.ContainKeyword
}

// fetch owns the probe for exactly one visit and releases it on every path.
func (v *Verifier) fetch(ctx context.Context, target string) (string, error) {
	probe, err := v.opener.OpenProbe(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := probe.Close(); err != nil {
			v.logger.Warn("[verifier] Closing probe for %s: %v", target, err)
		}
	}()

	if err := probe.Navigate(ctx, target, v.opts.Timeout); err != nil {
		return "", err
	}
	if err := probe.Wait(ctx, v.opts.Settle); err != nil {
		return "", err
	}
	return probe.Content(ctx)
}

// Admit appends a keyword-matched listing unless an entry with the identical
// website is already present. It reports whether l was appended.
func (v *Verifier) Admit(coll *models.Collection, l *models.Listing) bool {
	if coll.HasWebsite(l.Website) {
		v.logger.Debug("[verifier] Website %s already collected, dropping %q", l.Website, l.Name)
		return false
	}
	coll.Append(l)
	return true
}

// pageText reduces rendered HTML to its visible text plus link targets, so
// that a "/careers" link behind an icon still counts. Unparseable input is
// returned unchanged.
func pageText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find("script, style, noscript, template").Remove()

	var b strings.Builder
	writeTextNodes(&b, doc.Selection)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			b.WriteString(" ")
			b.WriteString(href)
		}
	})
	return services.NormaliseText(b.String())
}

// writeTextNodes appends every text node under s in document order, each
// followed by a space. Minified markup has no whitespace between tags, so
// Selection.Text would glue neighbouring words together.
func writeTextNodes(b *strings.Builder, s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			b.WriteString(c.Text())
			b.WriteString(" ")
			return
		}
		writeTextNodes(b, c)
	})
}

func hostOf(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
