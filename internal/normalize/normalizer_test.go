package normalize

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"jobmatch-engine/internal/dedup"
	"jobmatch-engine/internal/domain"
)

func TestNormalizeDeterministic(t *testing.T) {
	pub := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	entry := RSSItem{
		Title:       "Senior Backend Engineer at Acme Corp",
		Link:        "https://jobs.acme.com/eng/123?utm_source=rss",
		Description: "<p>We need <b>Python</b> and Kubernetes. Remote OK. $140k - $170k.</p>",
		Categories:  []string{"python", "backend"},
		Published:   &pub,
	}

	first, err := Normalize(entry, "acme-rss")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	second, err := Normalize(entry, "acme-rss")
	if err != nil {
		t.Fatalf("normalize again: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated normalization diverged:\n%+v\n%+v", first, second)
	}
}

func TestNormalizeRSSFields(t *testing.T) {
	entry := RSSItem{
		Title:       "Senior Backend Engineer at Acme Corp",
		Link:        "https://jobs.acme.com/eng/123",
		Description: "Looking for Python, Kubernetes and AWS experience. Fully remote. $140k - $170k.",
	}

	p, err := Normalize(entry, "acme-rss")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	if p.Title != "Senior Backend Engineer" {
		t.Fatalf("title = %q", p.Title)
	}
	if p.Company != "Acme Corp" {
		t.Fatalf("company = %q", p.Company)
	}
	if !p.Remote {
		t.Fatal("expected remote")
	}
	if p.Seniority != domain.SenioritySenior {
		t.Fatalf("seniority = %q", p.Seniority)
	}
	if p.WorkType != domain.WorkTypeFullTime {
		t.Fatalf("work type = %q", p.WorkType)
	}
	if p.SalaryMin != 140000 || p.SalaryMax != 170000 || p.SalaryCurrency != "USD" {
		t.Fatalf("salary = %d-%d %s", p.SalaryMin, p.SalaryMax, p.SalaryCurrency)
	}
	for _, want := range []string{"python", "kubernetes", "aws"} {
		if !p.HasSkill(want) {
			t.Fatalf("missing skill %q in %v", want, p.Skills)
		}
	}
	if p.SourceID != "acme-rss" {
		t.Fatalf("source id = %q", p.SourceID)
	}
}

func TestNormalizeCompanyColonForm(t *testing.T) {
	entry := RSSItem{
		Title: "Globex: Platform Engineer (Berlin)",
		Link:  "https://globex.example.com/jobs/42",
	}
	p, err := Normalize(entry, "wwr")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if p.Company != "Globex" || p.Title != "Platform Engineer (Berlin)" {
		t.Fatalf("got company=%q title=%q", p.Company, p.Title)
	}
	if p.Location != "Berlin" {
		t.Fatalf("location = %q", p.Location)
	}
}

func TestNormalizeRejectsMissingFields(t *testing.T) {
	cases := []struct {
		name  string
		entry RawEntry
		field string
	}{
		{"no title", BoardRow{Company: "Acme", URL: "https://a.example.com/1"}, "title"},
		{"no company", RSSItem{Title: "Engineer", Link: "https://a.example.com/1"}, "company"},
		{"no url", BoardRow{Title: "Engineer", Company: "Acme"}, "url"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.entry, "src")
			if err == nil {
				t.Fatal("expected rejection")
			}
			var rej *domain.RejectionError
			if !errors.As(err, &rej) {
				t.Fatalf("expected RejectionError, got %T", err)
			}
			if rej.Field != tc.field {
				t.Fatalf("field = %q, want %q", rej.Field, tc.field)
			}
		})
	}
}

func TestNormalizeUnknownShapeRejected(t *testing.T) {
	_, err := Normalize(nil, "src")
	if !domain.IsRejection(err) {
		t.Fatalf("expected rejection for unknown shape, got %v", err)
	}
}

func TestNormalizeHashMatchesOwnURL(t *testing.T) {
	entries := []RawEntry{
		RSSItem{Title: "Dev at Acme", Link: "https://Jobs.Acme.com/eng/9/?ref=x"},
		BoardRow{Title: "Dev", Company: "Acme", URL: "https://boards.greenhouse.io/acme/jobs/77"},
		APIPosting{Title: "Dev", Company: "Acme", HostedURL: "https://jobs.lever.co/acme/abc"},
	}
	for _, e := range entries {
		p, err := Normalize(e, "src")
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}
		if p.URLHash != dedup.Hash(p.URL) {
			t.Fatalf("hash %q does not match hash of own url %q", p.URLHash, p.URL)
		}
	}
}

func TestDerivedFieldTables(t *testing.T) {
	workTypes := []struct {
		text string
		want domain.WorkType
	}{
		{"6 month contract role", domain.WorkTypeContract},
		{"part-time position", domain.WorkTypePartTime},
		{"summer internship program", domain.WorkTypeInternship},
		{"plain engineer role", domain.WorkTypeFullTime},
	}
	for _, tc := range workTypes {
		if got := InferWorkType(tc.text); got != tc.want {
			t.Fatalf("InferWorkType(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}

	seniorities := []struct {
		text string
		want domain.Seniority
	}{
		{"Principal Engineer", domain.SeniorityLead},
		{"Senior Gopher", domain.SenioritySenior},
		{"Junior Developer", domain.SeniorityJunior},
		{"Software Engineer", domain.SeniorityMid},
	}
	for _, tc := range seniorities {
		if got := InferSeniority(tc.text); got != tc.want {
			t.Fatalf("InferSeniority(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestExtractSkillsWordBoundaries(t *testing.T) {
	skills := ExtractSkills("We use Go and JavaScript, never mind Google or java-adjacent tooling.")
	if !contains(skills, "go") {
		t.Fatalf("expected go in %v", skills)
	}
	if !contains(skills, "javascript") {
		t.Fatalf("expected javascript in %v", skills)
	}
	if !contains(skills, "java") {
		// "java-adjacent" has a boundary on both sides of "java"
		t.Fatalf("expected java in %v", skills)
	}

	skills = ExtractSkills("Our microservices run on golang and k8s.")
	if !contains(skills, "go") || !contains(skills, "kubernetes") {
		t.Fatalf("aliases not folded: %v", skills)
	}

	skills = ExtractSkills("Nothing about googling here.")
	if contains(skills, "go") {
		t.Fatalf("go must not match inside google: %v", skills)
	}
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
