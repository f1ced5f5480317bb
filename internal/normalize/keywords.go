package normalize

import (
	"sort"
	"strings"

	"jobmatch-engine/internal/domain"
)

// skillVocabulary is the fixed tag set postings are matched against.
// Extraction scans title+description for these terms; the same text
// always yields the same tags.
var skillVocabulary = []string{
	"python", "java", "javascript", "typescript", "go", "rust", "c++", "c#",
	"ruby", "php", "swift", "kotlin", "scala", "elixir",
	"react", "angular", "vue", "svelte", "next.js", "node.js", "express",
	"django", "flask", "fastapi", "spring", "rails", "laravel",
	"sql", "postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"kafka", "rabbitmq", "sqlite",
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ansible",
	"jenkins", "ci/cd", "git", "linux", "bash",
	"graphql", "rest", "grpc", "html", "css", "sass",
	"machine learning", "deep learning", "nlp", "tensorflow", "pytorch",
	"pandas", "numpy", "spark", "hadoop", "airflow", "etl",
	"microservices", "devops", "security", "testing", "agile", "scrum",
	"communication", "leadership", "teamwork", "problem solving", "mentoring",
}

// skillAliases fold vendor spellings onto canonical tags.
var skillAliases = map[string]string{
	"golang":     "go",
	"postgres":   "postgresql",
	"k8s":        "kubernetes",
	"node":       "node.js",
	"nodejs":     "node.js",
	"reactjs":    "react",
	"vuejs":      "vue",
	"ml":         "machine learning",
	"cicd":       "ci/cd",
	"restful":    "rest",
	"tf":         "terraform",
	"postgre":    "postgresql",
	"springboot": "spring",
}

// CanonicalTag folds a raw tag onto the vocabulary: lower-cased,
// alias-resolved, and rejected when the result is not a known skill.
func CanonicalTag(raw string) (string, bool) {
	tag := strings.ToLower(CleanText(raw))
	if canon, ok := skillAliases[tag]; ok {
		tag = canon
	}
	if !inVocabulary(tag) {
		return "", false
	}
	return tag, true
}

// CleanText collapses whitespace runs and non-breaking spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// ExtractSkills returns the sorted set of vocabulary tags found in the
// text. Short terms only match on word boundaries so "go" never fires
// inside "google" nor "java" inside "javascript".
func ExtractSkills(text string) []string {
	blob := strings.ToLower(text)
	found := map[string]bool{}

	for _, term := range skillVocabulary {
		if containsTerm(blob, term) {
			found[term] = true
		}
	}
	for alias, canon := range skillAliases {
		if containsTerm(blob, alias) {
			found[canon] = true
		}
	}

	if len(found) == 0 {
		return nil
	}
	out := make([]string, 0, len(found))
	for s := range found {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// containsTerm finds term in blob delimited by non-identifier runes.
// Runes like '+', '#', '.', '/' are part of skill names (c++, c#,
// node.js, ci/cd) and do not break a match.
func containsTerm(blob, term string) bool {
	for start := 0; ; {
		i := strings.Index(blob[start:], term)
		if i < 0 {
			return false
		}
		i += start
		j := i + len(term)

		beforeOK := i == 0 || isBoundary(rune(blob[i-1]))
		afterOK := j >= len(blob) || isBoundary(rune(blob[j]))
		if beforeOK && afterOK {
			return true
		}
		start = i + 1
	}
}

func isBoundary(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case r == '+', r == '#':
		// keep "c" from matching inside "c++"/"c#"
		return false
	}
	return true
}

// InferWorkType classifies the employment arrangement from text,
// defaulting to full-time.
func InferWorkType(text string) domain.WorkType {
	blob := strings.ToLower(text)
	switch {
	case containsAny(blob, "internship", "intern "):
		return domain.WorkTypeInternship
	case containsAny(blob, "part-time", "part time"):
		return domain.WorkTypePartTime
	case containsAny(blob, "contract", "contractor", "freelance"):
		return domain.WorkTypeContract
	default:
		return domain.WorkTypeFullTime
	}
}

// InferRemote reports whether the text marks the role as remote.
func InferRemote(text string) bool {
	blob := strings.ToLower(text)
	return containsAny(blob, "remote", "work from home", "wfh", "work anywhere", "fully distributed")
}

// InferSeniority maps title/description wording onto the seniority
// ladder, defaulting to mid.
func InferSeniority(text string) domain.Seniority {
	blob := strings.ToLower(text)
	switch {
	case containsAny(blob, "principal", "staff engineer", "head of", "lead ", " lead,", "team lead", "tech lead"):
		return domain.SeniorityLead
	case containsAny(blob, "senior", "sr.", "sr "):
		return domain.SenioritySenior
	case containsAny(blob, "junior", "jr.", "jr ", "entry level", "entry-level", "graduate", "intern"):
		return domain.SeniorityJunior
	default:
		return domain.SeniorityMid
	}
}

func containsAny(blob string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(blob, t) {
			return true
		}
	}
	return false
}
