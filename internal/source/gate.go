// Package source models where postings may come from. The Gate is the
// single choke point: every descriptor passes through it before any
// network access happens in the ingestion path.
package source

import (
	"net/url"
	"strings"
)

type Kind string

const (
	KindFeed  Kind = "feed"  // syndication feed, always allowed
	KindBoard Kind = "board" // HTML board page, host must be whitelisted
	KindAPI   Kind = "api"   // JSON API endpoint, host must be whitelisted
	KindURL   Kind = "url"   // bare URL, host must be whitelisted
)

// Descriptor identifies one configured source.
type Descriptor struct {
	Kind Kind
	Name string
	URL  string
}

// Gate answers whether a descriptor may be fetched. It never errors and
// never touches the network. The whitelist is fixed at construction.
type Gate struct {
	whitelist []string
}

// NewGate builds a gate over the given whitelist domains. Entries are
// lower-cased and have any www. prefix stripped; empties are dropped.
func NewGate(domains []string) *Gate {
	g := &Gate{}
	for _, d := range domains {
		d = normalizeHost(d)
		if d == "" {
			continue
		}
		g.whitelist = append(g.whitelist, d)
	}
	return g
}

// Allowed reports whether the descriptor may be fetched. Feed
// descriptors always pass. URL descriptors pass when the host exactly
// matches a whitelist entry or is a subdomain of one.
func (g *Gate) Allowed(d Descriptor) bool {
	if d.Kind == KindFeed {
		return true
	}

	host := hostOf(d.URL)
	if host == "" {
		return false
	}

	for _, w := range g.whitelist {
		if host == w || strings.HasSuffix(host, "."+w) {
			return true
		}
	}
	return false
}

func hostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" {
		// bare "example.com/path" parses as a path
		if i := strings.IndexByte(raw, '/'); i >= 0 {
			raw = raw[:i]
		}
		host = raw
	}
	return normalizeHost(host)
}

func normalizeHost(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimPrefix(h, "www.")
	return h
}
