package skillgap

import (
	"fmt"
	"sort"
	"strings"

	"jobmatch-engine/internal/domain"
)

// curatedResources holds hand-picked recommendations for the skills
// people gap on most. Everything else gets generic fallbacks.
var curatedResources = map[string][]domain.LearningResource{
	"kubernetes": {
		{Title: "Kubernetes Up & Running", Provider: "O'Reilly", Type: "book", Hours: 30, Difficulty: "intermediate", Relevance: 0.95, Rating: 4.6},
		{Title: "Certified Kubernetes Administrator Course", Provider: "KodeKloud", Type: "course", Hours: 40, Difficulty: "advanced", Relevance: 0.9, Rating: 4.7},
		{Title: "Kubernetes the Hard Way", Provider: "GitHub", Type: "tutorial", Hours: 20, Difficulty: "advanced", Relevance: 0.85, Rating: 4.8},
	},
	"go": {
		{Title: "The Go Programming Language", Provider: "Addison-Wesley", Type: "book", Hours: 40, Difficulty: "intermediate", Relevance: 0.95, Rating: 4.7},
		{Title: "Go by Example", Provider: "gobyexample.com", Type: "tutorial", Hours: 15, Difficulty: "beginner", Relevance: 0.9, Rating: 4.5},
		{Title: "Learn Go with Tests", Provider: "quii.gitbook.io", Type: "practice", Hours: 25, Difficulty: "intermediate", Relevance: 0.85, Rating: 4.6},
	},
	"python": {
		{Title: "Python Crash Course", Provider: "No Starch Press", Type: "book", Hours: 30, Difficulty: "beginner", Relevance: 0.95, Rating: 4.6},
		{Title: "Fluent Python", Provider: "O'Reilly", Type: "book", Hours: 50, Difficulty: "advanced", Relevance: 0.85, Rating: 4.7},
		{Title: "Exercism Python Track", Provider: "exercism.org", Type: "practice", Hours: 20, Difficulty: "intermediate", Relevance: 0.8, Rating: 4.4},
	},
	"aws": {
		{Title: "AWS Certified Solutions Architect Course", Provider: "A Cloud Guru", Type: "course", Hours: 45, Difficulty: "intermediate", Relevance: 0.95, Rating: 4.5},
		{Title: "AWS Well-Architected Labs", Provider: "AWS", Type: "practice", Hours: 20, Difficulty: "intermediate", Relevance: 0.85, Rating: 4.3},
	},
	"docker": {
		{Title: "Docker Deep Dive", Provider: "Nigel Poulton", Type: "book", Hours: 20, Difficulty: "intermediate", Relevance: 0.95, Rating: 4.6},
		{Title: "Docker Mastery", Provider: "Udemy", Type: "course", Hours: 25, Difficulty: "beginner", Relevance: 0.85, Rating: 4.5},
	},
	"terraform": {
		{Title: "Terraform Up & Running", Provider: "O'Reilly", Type: "book", Hours: 25, Difficulty: "intermediate", Relevance: 0.95, Rating: 4.6},
		{Title: "HashiCorp Terraform Associate Prep", Provider: "HashiCorp Learn", Type: "course", Hours: 20, Difficulty: "intermediate", Relevance: 0.85, Rating: 4.4},
	},
	"postgresql": {
		{Title: "The Art of PostgreSQL", Provider: "theartofpostgresql.com", Type: "book", Hours: 30, Difficulty: "intermediate", Relevance: 0.9, Rating: 4.5},
		{Title: "PostgreSQL Exercises", Provider: "pgexercises.com", Type: "practice", Hours: 15, Difficulty: "beginner", Relevance: 0.85, Rating: 4.4},
	},
	"react": {
		{Title: "The Official React Tutorial", Provider: "react.dev", Type: "tutorial", Hours: 10, Difficulty: "beginner", Relevance: 0.95, Rating: 4.6},
		{Title: "Epic React", Provider: "Kent C. Dodds", Type: "course", Hours: 40, Difficulty: "advanced", Relevance: 0.85, Rating: 4.7},
	},
}

// displayNames covers skills whose conventional spelling is not
// plain title case.
var displayNames = map[string]string{
	"aws": "AWS", "gcp": "GCP", "sql": "SQL", "rest": "REST",
	"grpc": "gRPC", "graphql": "GraphQL", "ci-cd": "CI/CD",
	"mysql": "MySQL", "postgresql": "PostgreSQL", "mongodb": "MongoDB",
	"javascript": "JavaScript", "typescript": "TypeScript", "node.js": "Node.js",
}

func displayName(skill string) string {
	if d, ok := displayNames[skill]; ok {
		return d
	}
	words := strings.Fields(skill)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// resourcesFor returns the top-n resources for a skill, curated first
// by relevance descending, padded with deterministic generic
// fallbacks when the curated list is short.
func resourcesFor(skill string, info SkillInfo, catalog *Catalog, n int) []domain.LearningResource {
	curated := curatedResources[strings.ToLower(skill)]
	out := make([]domain.LearningResource, len(curated))
	copy(out, curated)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Relevance != out[j].Relevance {
			return out[i].Relevance > out[j].Relevance
		}
		return out[i].Title < out[j].Title
	})

	base := catalog.BaseHours(info.Difficulty)
	display := displayName(skill)
	fallbacks := []domain.LearningResource{
		{Title: display + " Fundamentals", Provider: "Coursera", Type: "course", Hours: base, Difficulty: info.Difficulty, Relevance: 0.6},
		{Title: display + " Official Documentation", Provider: "vendor docs", Type: "tutorial", Hours: base / 2, Difficulty: info.Difficulty, Relevance: 0.5},
		{Title: fmt.Sprintf("Build a small project with %s", display), Provider: "self-directed", Type: "practice", Hours: base / 2, Difficulty: info.Difficulty, Relevance: 0.4},
	}
	for _, fb := range fallbacks {
		if len(out) >= n {
			break
		}
		out = append(out, fb)
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}
