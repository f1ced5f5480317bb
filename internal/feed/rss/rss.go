// Package rss fetches syndication feeds (RSS/Atom) and adapts their
// items into raw entries. Feeds are the one source kind the gate
// always allows.
package rss

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/feed"
	"jobmatch-engine/internal/normalize"
	"jobmatch-engine/internal/source"
)

type Fetcher struct {
	name   string
	url    string
	client *feed.Client
	parser *gofeed.Parser
}

func New(name, url string, client *feed.Client) *Fetcher {
	return &Fetcher{
		name:   name,
		url:    url,
		client: client,
		parser: gofeed.NewParser(),
	}
}

func (f *Fetcher) Name() string { return f.name }

func (f *Fetcher) Descriptor() source.Descriptor {
	return source.Descriptor{Kind: source.KindFeed, Name: f.name, URL: f.url}
}

// Fetch pulls the feed with a conditional GET against the stored state.
// An unchanged feed (304) comes back as NotModified with no entries.
func (f *Fetcher) Fetch(ctx context.Context, prev domain.SourceState) (feed.Result, error) {
	res, err := f.client.Get(ctx, f.url, feed.ConditionalHeaders(prev))
	if err != nil {
		return feed.Result{}, fmt.Errorf("rss get: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 304 {
		return feed.Result{
			NotModified:  true,
			ETag:         prev.ETag,
			LastModified: prev.LastModified,
		}, nil
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return feed.Result{}, fmt.Errorf("rss fetch %s: status %d", f.name, res.StatusCode)
	}

	parsed, err := f.parser.Parse(res.Body)
	if err != nil {
		return feed.Result{}, fmt.Errorf("rss parse %s: %w", f.name, err)
	}

	out := feed.Result{
		ETag:         res.Header.Get("ETag"),
		LastModified: res.Header.Get("Last-Modified"),
	}
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		out.Entries = append(out.Entries, normalize.RSSItem{
			Title:       item.Title,
			Link:        item.Link,
			Author:      authorOf(item),
			Description: descriptionOf(item),
			Categories:  item.Categories,
			Published:   item.PublishedParsed,
		})
	}
	return out, nil
}

func authorOf(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	return ""
}

func descriptionOf(item *gofeed.Item) string {
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}
