package board

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobmatch-engine/internal/domain"
	"jobmatch-engine/internal/feed"
	"jobmatch-engine/internal/normalize"
)

const boardHTML = `<html><body>
<section>
  <div class="opening">
    <a href="/acme/jobs/101">Backend Engineer</a>
    <span class="location">Berlin, Germany</span>
  </div>
  <div class="opening">
    <a href="/acme/jobs/102">Platform Engineer</a>
    <span class="location">Remote</span>
  </div>
  <div class="opening">
    <a href="/acme/jobs/101">Backend Engineer (duplicate anchor)</a>
  </div>
  <div class="opening">
    <a href="/acme/about">Not a job</a>
  </div>
</section>
</body></html>`

func TestFetchScrapesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(boardHTML))
	}))
	defer srv.Close()

	f := New(Config{Name: "acme-board", Company: "Acme", URL: srv.URL}, feed.NewClient(5*time.Second, 100, 10))
	res, err := f.Fetch(context.Background(), domain.SourceState{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(res.Entries) != 2 {
		t.Fatalf("expected 2 entries (dedup + filter), got %d", len(res.Entries))
	}

	row, ok := res.Entries[0].(normalize.BoardRow)
	if !ok {
		t.Fatalf("entry type %T", res.Entries[0])
	}
	if row.Title != "Backend Engineer" {
		t.Fatalf("title = %q", row.Title)
	}
	if row.Company != "Acme" {
		t.Fatalf("company = %q", row.Company)
	}
	if row.Location != "Berlin, Germany" {
		t.Fatalf("location = %q", row.Location)
	}
	if row.URL != srv.URL+"/acme/jobs/101" {
		t.Fatalf("url = %q", row.URL)
	}
}

func TestFetchErrorOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := New(Config{Name: "acme-board", Company: "Acme", URL: srv.URL}, feed.NewClient(5*time.Second, 100, 10))
	if _, err := f.Fetch(context.Background(), domain.SourceState{}); err == nil {
		t.Fatal("expected error on 404")
	}
}
