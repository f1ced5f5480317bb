// Package board scrapes greenhouse-style HTML careers pages. One board
// belongs to one company; rows are anchors into the posting pages.
package board

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/feed"
	"jobmatch-engine/internal/normalize"
	"jobmatch-engine/internal/source"
)

type Config struct {
	Name    string
	Company string
	URL     string

	// Selector overrides; defaults fit greenhouse-style boards.
	RowSelector      string
	LinkContains     string
	LocationSelector string
}

type Fetcher struct {
	cfg    Config
	client *feed.Client
}

func New(cfg Config, client *feed.Client) *Fetcher {
	if cfg.RowSelector == "" {
		cfg.RowSelector = ".opening"
	}
	if cfg.LinkContains == "" {
		cfg.LinkContains = "/jobs/"
	}
	if cfg.LocationSelector == "" {
		cfg.LocationSelector = ".location"
	}
	return &Fetcher{cfg: cfg, client: client}
}

func (f *Fetcher) Name() string { return f.cfg.Name }

func (f *Fetcher) Descriptor() source.Descriptor {
	return source.Descriptor{Kind: source.KindBoard, Name: f.cfg.Name, URL: f.cfg.URL}
}

func (f *Fetcher) Fetch(ctx context.Context, _ domain.SourceState) (feed.Result, error) {
	res, err := f.client.Get(ctx, f.cfg.URL, nil)
	if err != nil {
		return feed.Result{}, fmt.Errorf("board get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return feed.Result{}, fmt.Errorf("board %s: status %d", f.cfg.Name, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return feed.Result{}, fmt.Errorf("board %s: parse html: %w", f.cfg.Name, err)
	}

	base, err := url.Parse(f.cfg.URL)
	if err != nil {
		return feed.Result{}, fmt.Errorf("board %s: bad url: %w", f.cfg.Name, err)
	}

	// Boards repeat links (logo + title anchors), dedupe per page.
	seen := map[string]bool{}
	var entries []normalize.RawEntry

	doc.Find(f.cfg.RowSelector).Each(func(_ int, row *goquery.Selection) {
		a := row.Find("a[href]").First()
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		abs := absolutize(base, href)
		if abs == "" || !strings.Contains(strings.ToLower(abs), f.cfg.LinkContains) {
			return
		}
		if seen[abs] {
			return
		}
		seen[abs] = true

		title := normalize.CleanText(a.Text())
		location := normalize.CleanText(row.Find(f.cfg.LocationSelector).First().Text())

		entries = append(entries, normalize.BoardRow{
			Title:    title,
			Company:  f.cfg.Company,
			URL:      abs,
			Location: location,
		})
	})

	return feed.Result{Entries: entries}, nil
}

func absolutize(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
