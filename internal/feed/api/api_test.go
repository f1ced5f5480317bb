package api

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

func TestFetchBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("authorization header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"title":"Go Engineer","hostedUrl":"https://jobs.lever.co/acme/1","location":"Remote","createdAt":1717236000000,"description":"<p>Go and Kubernetes</p>"},
			{"title":"SRE","url":"https://jobs.lever.co/acme/2","company":"Acme Special"}
		]`))
	}))
	defer srv.Close()

	f := New(Config{Name: "acme-api", Company: "Acme", URL: srv.URL, Token: "sekrit"}, feed.NewClient(5*time.Second, 100, 10))
	res, err := f.Fetch(context.Background(), domain.SourceState{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(res.Entries))
	}

	first, ok := res.Entries[0].(normalize.APIPosting)
	if !ok {
		t.Fatalf("entry type %T", res.Entries[0])
	}
	if first.Company != "Acme" {
		t.Fatalf("default company not applied: %q", first.Company)
	}
	if first.HostedURL != "https://jobs.lever.co/acme/1" {
		t.Fatalf("hostedUrl = %q", first.HostedURL)
	}

	second := res.Entries[1].(normalize.APIPosting)
	if second.Company != "Acme Special" {
		t.Fatalf("explicit company overridden: %q", second.Company)
	}
}

func TestFetchItemsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"title":"Dev","url":"https://api.example.com/j/1"}],"found":1}`))
	}))
	defer srv.Close()

	f := New(Config{Name: "env-api", Company: "Env", URL: srv.URL}, feed.NewClient(5*time.Second, 100, 10))
	res, err := f.Fetch(context.Background(), domain.SourceState{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(res.Entries))
	}
}

func TestFetchRejectsNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	f := New(Config{Name: "bad-api", URL: srv.URL}, feed.NewClient(5*time.Second, 100, 10))
	if _, err := f.Fetch(context.Background(), domain.SourceState{}); err == nil {
		t.Fatal("expected decode error")
	}
}
