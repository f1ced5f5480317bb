package normalize

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobmatch-engine/internal/dedup"
	"jobmatch-engine/internal/domain"
)

// parts is the common intermediate every entry shape adapts into.
type parts struct {
	title       string
	company     string
	url         string
	location    string
	description string
	tags        []string
	remote      bool
	salaryMin   int
	salaryMax   int
	currency    string
	postedAt    *time.Time
}

// Normalize maps a raw entry into a canonical JobPosting. It is pure:
// the same entry and sourceID always produce a byte-identical record
// (first/last-seen stamps belong to the store, not here). Entries
// missing a recoverable title, company, or URL are rejected.
func Normalize(entry RawEntry, sourceID string) (domain.JobPosting, error) {
	var f parts

	switch e := entry.(type) {
	case RSSItem:
		f = fromRSS(e)
	case BoardRow:
		f = fromBoard(e)
	case APIPosting:
		f = fromAPI(e)
	default:
		return domain.JobPosting{}, &domain.RejectionError{Field: "entry", Reason: "unknown entry shape"}
	}

	f.title = CleanText(f.title)
	f.company = CleanText(f.company)
	f.url = strings.TrimSpace(f.url)

	if f.title == "" {
		return domain.JobPosting{}, &domain.RejectionError{Field: "title", Reason: "missing"}
	}
	if f.company == "" {
		return domain.JobPosting{}, &domain.RejectionError{Field: "company", Reason: "missing"}
	}
	if f.url == "" {
		return domain.JobPosting{}, &domain.RejectionError{Field: "url", Reason: "missing"}
	}

	blob := f.title + " " + f.location + " " + f.description

	remote := f.remote || InferRemote(blob)
	location := CleanText(f.location)
	if location == "" && remote {
		location = "Remote"
	}

	salMin, salMax, cur := f.salaryMin, f.salaryMax, f.currency
	if salMin == 0 && salMax == 0 {
		salMin, salMax, cur = ParseSalary(f.title + " " + f.description)
	}

	skills := mergeSkills(ExtractSkills(blob), f.tags)

	p := domain.JobPosting{
		URLHash:        dedup.Hash(f.url),
		Title:          f.title,
		Company:        f.company,
		URL:            f.url,
		Location:       location,
		Remote:         remote,
		WorkType:       InferWorkType(blob),
		Seniority:      InferSeniority(f.title + " " + f.description),
		SalaryMin:      salMin,
		SalaryMax:      salMax,
		SalaryCurrency: cur,
		Skills:         skills,
		Description:    CleanText(f.description),
		SourceID:       sourceID,
		PostedAt:       f.postedAt,
		Active:         true,
	}
	return p, nil
}

func fromBoard(e BoardRow) parts {
	return parts{
		title:       e.Title,
		company:     e.Company,
		url:         e.URL,
		location:    e.Location,
		description: StripHTML(e.Description),
		postedAt:    e.PostedAt,
	}
}

func fromAPI(e APIPosting) parts {
	return parts{
		title:       e.Title,
		company:     e.Company,
		url:         e.bestURL(),
		location:    e.Location,
		description: StripHTML(e.Description),
		tags:        e.Tags,
		remote:      e.Remote,
		salaryMin:   e.SalaryMin,
		salaryMax:   e.SalaryMax,
		currency:    e.Currency,
		postedAt:    e.postedAt(),
	}
}

// titleAtCompanyRe catches "Senior Engineer at Acme Corp" style titles.
var titleAtCompanyRe = regexp.MustCompile(`^(.*\S)\s+at\s+([A-Z][\w .,&'-]{1,60})$`)

func fromRSS(e RSSItem) parts {
	f := parts{
		url:         e.Link,
		description: StripHTML(e.Description),
		postedAt:    e.Published,
	}

	title := CleanText(e.Title)
	company := CleanText(e.Author)

	// Feeds encode the company either in the author field, as
	// "Title at Company", or as "Company: Title".
	if m := titleAtCompanyRe.FindStringSubmatch(title); m != nil {
		title = CleanText(m[1])
		if company == "" {
			company = CleanText(m[2])
		}
	} else if i := strings.Index(title, ": "); i > 0 && company == "" {
		company = CleanText(title[:i])
		title = CleanText(title[i+2:])
	}

	f.title = title
	f.company = company
	f.location = locationFromRSS(title, e.Categories)
	f.tags = e.Categories
	return f
}

// locationFromRSS pulls a location out of a "Title (City)" suffix or a
// location-looking category tag.
func locationFromRSS(title string, categories []string) string {
	if i := strings.LastIndexByte(title, '('); i >= 0 {
		if j := strings.IndexByte(title[i:], ')'); j > 1 {
			candidate := CleanText(title[i+1 : i+j])
			if candidate != "" && len(candidate) <= 60 {
				return candidate
			}
		}
	}
	for _, c := range categories {
		lc := strings.ToLower(CleanText(c))
		if lc == "remote" || strings.HasPrefix(lc, "location:") {
			return CleanText(strings.TrimPrefix(CleanText(c), "Location:"))
		}
	}
	return ""
}

// StripHTML reduces an HTML fragment to its text. Non-HTML input comes
// back unchanged apart from whitespace cleanup.
func StripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return CleanText(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CleanText(s)
	}
	return CleanText(doc.Text())
}

// mergeSkills unions extracted tags with source-provided ones that are
// part of the known vocabulary, keeping the result sorted.
func mergeSkills(extracted, provided []string) []string {
	if len(provided) == 0 {
		return extracted
	}
	seen := map[string]bool{}
	for _, s := range extracted {
		seen[s] = true
	}
	out := append([]string(nil), extracted...)
	for _, raw := range provided {
		tag := strings.ToLower(CleanText(raw))
		if canon, ok := skillAliases[tag]; ok {
			tag = canon
		}
		if !inVocabulary(tag) || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func inVocabulary(tag string) bool {
	for _, v := range skillVocabulary {
		if v == tag {
			return true
		}
	}
	return false
}
