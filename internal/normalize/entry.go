// Package normalize turns raw source entries into canonical JobPosting
// records. Entry shapes form a closed union: each fetcher produces one
// of the types below, and anything else is a rejection, never a panic.
package normalize

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// RawEntry is one of RSSItem, BoardRow, APIPosting.
type RawEntry interface {
	entryKind() string
}

// RSSItem is a syndication feed entry.
type RSSItem struct {
	Title       string
	Link        string
	Author      string
	Description string
	Categories  []string
	Published   *time.Time
}

func (RSSItem) entryKind() string { return "rss" }

// BoardRow is one row scraped off an HTML careers board.
type BoardRow struct {
	Title       string
	Company     string
	URL         string
	Location    string
	Description string
	PostedAt    *time.Time
}

func (BoardRow) entryKind() string { return "board" }

// APIPosting is a JSON API object decoded into known fields.
type APIPosting struct {
	Title       string   `mapstructure:"title"`
	Company     string   `mapstructure:"company"`
	URL         string   `mapstructure:"url"`
	HostedURL   string   `mapstructure:"hostedUrl"` // lever-style APIs
	Location    string   `mapstructure:"location"`
	Remote      bool     `mapstructure:"remote"`
	Description string   `mapstructure:"description"`
	Tags        []string `mapstructure:"tags"`
	SalaryMin   int      `mapstructure:"salary_min"`
	SalaryMax   int      `mapstructure:"salary_max"`
	Currency    string   `mapstructure:"salary_currency"`
	PublishedAt string   `mapstructure:"published_at"`
	CreatedAtMs int64    `mapstructure:"createdAt"` // ms epoch, lever-style
}

func (APIPosting) entryKind() string { return "api" }

// DecodeAPIPosting maps one raw JSON object into an APIPosting. Weak
// typing tolerates string/number drift between API vendors.
func DecodeAPIPosting(m map[string]any) (APIPosting, error) {
	var p APIPosting
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return p, err
	}
	if err := dec.Decode(m); err != nil {
		return p, fmt.Errorf("decode api posting: %w", err)
	}
	return p, nil
}

// bestURL picks the application URL for an API posting.
func (p APIPosting) bestURL() string {
	if p.URL != "" {
		return p.URL
	}
	return p.HostedURL
}

// EntryID returns the best available identifier for an entry, for
// failure reports: the URL when present, the title otherwise.
func EntryID(e RawEntry) string {
	switch v := e.(type) {
	case RSSItem:
		if v.Link != "" {
			return v.Link
		}
		return v.Title
	case BoardRow:
		if v.URL != "" {
			return v.URL
		}
		return v.Title
	case APIPosting:
		if u := v.bestURL(); u != "" {
			return u
		}
		return v.Title
	default:
		return ""
	}
}

// postedAt resolves the published time from either field form.
func (p APIPosting) postedAt() *time.Time {
	if p.CreatedAtMs > 0 {
		t := time.UnixMilli(p.CreatedAtMs).UTC()
		return &t
	}
	if p.PublishedAt != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, p.PublishedAt); err == nil {
				t = t.UTC()
				return &t
			}
		}
	}
	return nil
}
