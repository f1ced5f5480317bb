// Package dedup derives the identity of a job posting from its
// application URL. Two URLs that differ only by case, query string,
// fragment, or a trailing slash canonicalize to the same form and
// therefore share one posting row.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// Canonicalize reduces a posting URL to its canonical form: the whole
// URL lower-cased, query and fragment stripped, one trailing slash
// removed, collapsed to host + path. Applying it twice is a no-op.
func Canonicalize(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err == nil && u.Host == "" {
		// Scheme-less input parses without a host, and a first segment
		// carrying a colon ("example.com:443/jobs/1") even parses as a
		// scheme. Re-parse with a scheme so canonical output round-trips.
		u, err = url.Parse("https://" + raw)
	}
	if err != nil {
		// Unparseable input still needs a deterministic form.
		if i := strings.IndexAny(raw, "?#"); i >= 0 {
			raw = raw[:i]
		}
		return strings.TrimSuffix(raw, "/")
	}

	path := strings.TrimSuffix(u.Path, "/")
	return u.Host + path
}

// Hash returns the dedup key for a URL: the SHA-256 hex digest of its
// canonical form. This, not the raw URL, is the JobPosting identity.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(Canonicalize(raw)))
	return hex.EncodeToString(sum[:])
}
