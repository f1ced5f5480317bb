// Package feed implements the fetch capability: turning an approved
// source descriptor into raw entries for the normalizer. Transport
// details stay in here; the coordinator only sees entries and errors.
package feed

import (
	"context"
	"net/http"
	"time"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/normalize"
	"jobmatch-engine/internal/source"
)

const defaultUserAgent = "jobmatch-engine/1.0 (+https://github.com/jobmatch/engine)"

// Result is one fetch outcome. NotModified means the upstream payload
// is unchanged since prev (HTTP 304) and Entries is empty by design.
type Result struct {
	Entries      []normalize.RawEntry
	NotModified  bool
	ETag         string
	LastModified string
}

// Fetcher pulls raw entries for one configured source. Implementations
// must honor ctx and keep every request bounded by the client timeout.
type Fetcher interface {
	Name() string
	Descriptor() source.Descriptor
	Fetch(ctx context.Context, prev domain.SourceState) (Result, error)
}

// Client is the shared HTTP side of all fetchers: one timeout, one
// User-Agent, one per-host rate limiter.
type Client struct {
	hc        *http.Client
	limiter   *HostLimiter
	userAgent string
}

func NewClient(timeout time.Duration, perHostRPS float64, burst int) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		hc:        &http.Client{Timeout: timeout},
		limiter:   NewHostLimiter(perHostRPS, burst),
		userAgent: defaultUserAgent,
	}
}

// Get performs a rate-limited GET. Extra headers may be nil.
func (c *Client) Get(ctx context.Context, rawURL string, extra http.Header) (*http.Response, error) {
	if err := c.limiter.Wait(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ConditionalHeaders builds If-None-Match/If-Modified-Since from the
// stored source state.
func ConditionalHeaders(prev domain.SourceState) http.Header {
	h := http.Header{}
	if prev.ETag != "" {
		h.Set("If-None-Match", prev.ETag)
	}
	if prev.LastModified != "" {
		h.Set("If-Modified-Since", prev.LastModified)
	}
	return h
}
