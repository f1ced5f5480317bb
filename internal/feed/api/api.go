// Package api fetches postings from whitelisted JSON endpoints that
// return an array of posting objects (lever-style) or an object with
// an items array.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/feed"
	"jobmatch-engine/internal/normalize"
	"jobmatch-engine/internal/source"
)

// maxBody caps an API response at 8 MB so one huge payload cannot
// wedge a batch.
const maxBody = 8 << 20

type Config struct {
	Name    string
	Company string
	URL     string
	Token   string // optional bearer token
}

type Fetcher struct {
	cfg    Config
	client *feed.Client
}

func New(cfg Config, client *feed.Client) *Fetcher {
	return &Fetcher{cfg: cfg, client: client}
}

func (f *Fetcher) Name() string { return f.cfg.Name }

func (f *Fetcher) Descriptor() source.Descriptor {
	return source.Descriptor{Kind: source.KindAPI, Name: f.cfg.Name, URL: f.cfg.URL}
}

func (f *Fetcher) Fetch(ctx context.Context, _ domain.SourceState) (feed.Result, error) {
	hdr := http.Header{"Accept": []string{"application/json"}}
	if f.cfg.Token != "" {
		hdr.Set("Authorization", "Bearer "+f.cfg.Token)
	}

	res, err := f.client.Get(ctx, f.cfg.URL, hdr)
	if err != nil {
		return feed.Result{}, fmt.Errorf("api get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return feed.Result{}, fmt.Errorf("api %s: status %d", f.cfg.Name, res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return feed.Result{}, fmt.Errorf("api %s: read body: %w", f.cfg.Name, err)
	}

	raw, err := decodeObjects(body)
	if err != nil {
		return feed.Result{}, fmt.Errorf("api %s: %w", f.cfg.Name, err)
	}

	var entries []normalize.RawEntry
	for _, obj := range raw {
		p, err := normalize.DecodeAPIPosting(obj)
		if err != nil {
			// one malformed object is the normalizer's problem, hand
			// it over as an empty shape so it gets reported there
			entries = append(entries, normalize.APIPosting{})
			continue
		}
		if p.Company == "" {
			p.Company = f.cfg.Company
		}
		entries = append(entries, p)
	}
	return feed.Result{Entries: entries}, nil
}

// decodeObjects accepts both a bare JSON array and {"items": [...]}.
func decodeObjects(body []byte) ([]map[string]any, error) {
	var arr []map[string]any
	if err := json.Unmarshal(body, &arr); err == nil {
		return arr, nil
	}

	var envelope struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Items != nil {
		return envelope.Items, nil
	}
	return nil, fmt.Errorf("unsupported payload shape")
}
