package gmaps

import (
	"context"
	"fmt"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

// fakePage scripts a results feed: Count returns counts in order and repeats
// the last value once the script runs out.
type fakePage struct {
	counts   []int
	countErr error
	clock    *fakeClock

	countCalls int
	scrolls    int
	waits      int

	// details[index][selector] is the detail panel shown after clicking index.
	details map[int]map[string]string
	// rows[index][selector+"@"+attr] is an attribute inside a listing row.
	rows      map[int]map[string]string
	lookupErr map[string]error
	clickErr  map[int]error

	selected int
	clicked  []int
}

func (p *fakePage) current() int {
	if len(p.counts) == 0 {
		return 0
	}
	i := p.countCalls - 1
	if i < 0 {
		i = 0
	}
	if i >= len(p.counts) {
		i = len(p.counts) - 1
	}
	return p.counts[i]
}

func (p *fakePage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	return nil
}

func (p *fakePage) Count(ctx context.Context, selector string) (int, error) {
	if p.countErr != nil {
		return 0, p.countErr
	}
	p.countCalls++
	return p.current(), nil
}

func (p *fakePage) Handles(ctx context.Context, selector string) ([]Handle, error) {
	n := p.current()
	out := make([]Handle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Handle{Index: i, Href: fmt.Sprintf("https://www.google.com/maps/place/%d", i), Label: fmt.Sprintf("Place %d", i)})
	}
	return out, nil
}

func (p *fakePage) ScrollBy(ctx context.Context, dx, dy int) error {
	p.scrolls++
	return nil
}

func (p *fakePage) Wait(ctx context.Context, d time.Duration) error {
	p.waits++
	if p.clock != nil {
		p.clock.t = p.clock.t.Add(d)
	}
	return nil
}

func (p *fakePage) Click(ctx context.Context, h Handle) error {
	if err := p.clickErr[h.Index]; err != nil {
		return err
	}
	p.selected = h.Index
	p.clicked = append(p.clicked, h.Index)
	return nil
}

func (p *fakePage) Text(ctx context.Context, selector string) (string, bool, error) {
	if err := p.lookupErr[selector]; err != nil {
		return "", false, err
	}
	v, ok := p.details[p.selected][selector]
	return v, ok, nil
}

func (p *fakePage) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	v, ok := p.details[p.selected][selector+"@"+name]
	return v, ok, nil
}

func (p *fakePage) Within(h Handle) Locator {
	return fakeRow{page: p, index: h.Index}
}

type fakeRow struct {
	page  *fakePage
	index int
}

func (r fakeRow) Text(ctx context.Context, selector string) (string, bool, error) {
	v, ok := r.page.rows[r.index][selector]
	return v, ok, nil
}

func (r fakeRow) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	if err := r.page.lookupErr[selector]; err != nil {
		return "", false, err
	}
	v, ok := r.page.rows[r.index][selector+"@"+name]
	return v, ok, nil
}

// site is the scripted behaviour of one probed website.
type site struct {
	content    string
	navErr     error
	contentErr error
}

type fakeOpener struct {
	sites   map[string]site
	openErr error

	opened  int
	closed  int
	visited []string
}

func (o *fakeOpener) OpenProbe(ctx context.Context) (Probe, error) {
	if o.openErr != nil {
		return nil, o.openErr
	}
	o.opened++
	return &fakeProbe{opener: o}, nil
}

type fakeProbe struct {
	opener *fakeOpener
	url    string
}

func (p *fakeProbe) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	p.url = url
	p.opener.visited = append(p.opener.visited, url)
	return p.opener.sites[url].navErr
}

func (p *fakeProbe) Wait(ctx context.Context, d time.Duration) error { return nil }

func (p *fakeProbe) Content(ctx context.Context) (string, error) {
	s := p.opener.sites[p.url]
	return s.content, s.contentErr
}

func (p *fakeProbe) Close() error {
	p.opener.closed++
	return nil
}

type fakeChecker struct {
	resolves map[string]bool
	err      error
	asked    []string
}

func (c *fakeChecker) Resolves(ctx context.Context, host string) (bool, error) {
	c.asked = append(c.asked, host)
	if c.err != nil {
		return false, c.err
	}
	return c.resolves[host], nil
}
