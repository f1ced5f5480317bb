package dedup

import (
	"fmt"
	"strings"
	"testing"
)

func TestCanonicalizeEquivalence(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"case", "https://Example.com/Jobs/Test-Job", "https://example.com/jobs/test-job"},
		{"trailing slash", "https://example.com/jobs/test-job/", "https://example.com/jobs/test-job"},
		{"query string", "https://example.com/jobs/test-job?utm_source=x&ref=rss", "https://example.com/jobs/test-job"},
		{"fragment", "https://example.com/jobs/test-job#apply", "https://example.com/jobs/test-job"},
		{"all of the above", "https://Example.com/jobs/Test-Job/?utm_source=x#apply", "https://example.com/jobs/test-job"},
		{"scheme ignored", "http://example.com/jobs/1", "https://example.com/jobs/1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ca, cb := Canonicalize(tc.a), Canonicalize(tc.b)
			if ca != cb {
				t.Fatalf("canonical forms differ: %q vs %q", ca, cb)
			}
			if Hash(tc.a) != Hash(tc.b) {
				t.Fatalf("hashes differ for %q and %q", tc.a, tc.b)
			}
		})
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	urls := []string{
		"https://Example.com/jobs/test-job/",
		"https://jobs.acme.com/eng/123?ref=rss",
		"https://example.com:443/jobs/1",
		"example.com:8080/jobs/2?utm_source=x",
		"example.com/plain",
		"",
	}
	for _, u := range urls {
		once := Canonicalize(u)
		twice := Canonicalize(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q -> %q", u, once, twice)
		}
	}
}

func TestCanonicalizeCollapsesToHostPath(t *testing.T) {
	got := Canonicalize("https://Jobs.Acme.com/eng/123?ref=rss#top")
	want := "jobs.acme.com/eng/123"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestHashShape(t *testing.T) {
	h := Hash("https://example.com/jobs/test-job")
	if len(h) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(h))
	}
	if strings.ToLower(h) != h {
		t.Fatalf("expected lowercase hex, got %q", h)
	}
	for _, r := range h {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Fatalf("non-hex rune %q in %q", r, h)
		}
	}
}

func TestHashDiscriminates(t *testing.T) {
	seen := make(map[string]string)
	for i := 0; i < 120; i++ {
		u := fmt.Sprintf("https://host%d.example.com/jobs/%d", i%12, i)
		h := Hash(u)
		if prev, ok := seen[h]; ok {
			t.Fatalf("collision between %q and %q", prev, u)
		}
		seen[h] = u
	}

	if Hash("https://example.com/jobs/1") == Hash("https://example.org/jobs/1") {
		t.Fatal("different hosts must hash differently")
	}
	if Hash("https://example.com/jobs/1") == Hash("https://example.com/jobs/2") {
		t.Fatal("different paths must hash differently")
	}
	// Explicit ports survive canonicalization instead of collapsing.
	if Hash("https://example.com:8443/jobs/1") == Hash("https://example.com:8443/jobs/2") {
		t.Fatal("ported URLs with different paths must hash differently")
	}
	if got := Canonicalize("https://example.com:8443/jobs/1"); got != "example.com:8443/jobs/1" {
		t.Fatalf("ported canonical form = %q", got)
	}
}
