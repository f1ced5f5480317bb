// Package skillgap computes per-skill gap analyses with readiness
// scores and time-estimated learning paths.
package skillgap

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"jobmatch-engine/internal/domain"
)

// SkillInfo is the catalog's knowledge about one skill. Demand is a
// 0..1 market-demand factor used for path prioritization.
type SkillInfo struct {
	Category   string  `yaml:"category"`
	Difficulty string  `yaml:"difficulty"` // beginner/intermediate/advanced
	Demand     float64 `yaml:"demand"`
}

// RoleTemplate lets an analysis target a named role instead of a
// concrete posting.
type RoleTemplate struct {
	Skills    []string         `yaml:"skills"`
	Seniority domain.Seniority `yaml:"seniority"`
}

type Catalog struct {
	Version string                  `yaml:"version"`
	Skills  map[string]SkillInfo    `yaml:"skills"`
	Roles   map[string]RoleTemplate `yaml:"roles"`
}

// LoadCatalog overlays a YAML file onto the built-in catalog; file
// entries win per skill and per role.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var overlay Catalog
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	c := DefaultCatalog()
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	for name, info := range overlay.Skills {
		c.Skills[strings.ToLower(name)] = info
	}
	for name, role := range overlay.Roles {
		c.Roles[strings.ToLower(name)] = role
	}
	return c, nil
}

// Info returns what the catalog knows about a skill, with a neutral
// default for skills it has never heard of.
func (c *Catalog) Info(skill string) SkillInfo {
	if info, ok := c.Skills[strings.ToLower(skill)]; ok {
		return info
	}
	return SkillInfo{Category: "general", Difficulty: "intermediate", Demand: 0.5}
}

// BaseHours maps a difficulty to the hours needed to close a full gap.
func (c *Catalog) BaseHours(difficulty string) int {
	switch difficulty {
	case "beginner":
		return 20
	case "advanced":
		return 80
	default:
		return 40
	}
}

// RoleTarget resolves a named role into an analysis target.
func (c *Catalog) RoleTarget(role string) (Target, error) {
	key := strings.ToLower(strings.TrimSpace(role))
	tpl, ok := c.Roles[key]
	if !ok {
		known := make([]string, 0, len(c.Roles))
		for name := range c.Roles {
			known = append(known, name)
		}
		sort.Strings(known)
		return Target{}, fmt.Errorf("unknown role %q (known: %s)", role, strings.Join(known, ", "))
	}
	return Target{
		Role:      key,
		Skills:    tpl.Skills,
		Seniority: tpl.Seniority,
	}, nil
}

func DefaultCatalog() *Catalog {
	return &Catalog{
		Version: "catalog-v1",
		Skills: map[string]SkillInfo{
			"go":                {Category: "language", Difficulty: "intermediate", Demand: 0.85},
			"python":            {Category: "language", Difficulty: "beginner", Demand: 0.9},
			"java":              {Category: "language", Difficulty: "intermediate", Demand: 0.75},
			"typescript":        {Category: "language", Difficulty: "intermediate", Demand: 0.8},
			"javascript":        {Category: "language", Difficulty: "beginner", Demand: 0.8},
			"rust":              {Category: "language", Difficulty: "advanced", Demand: 0.6},
			"c++":               {Category: "language", Difficulty: "advanced", Demand: 0.55},
			"sql":               {Category: "data", Difficulty: "beginner", Demand: 0.85},
			"postgresql":        {Category: "data", Difficulty: "intermediate", Demand: 0.8},
			"mysql":             {Category: "data", Difficulty: "intermediate", Demand: 0.6},
			"mongodb":           {Category: "data", Difficulty: "intermediate", Demand: 0.6},
			"redis":             {Category: "data", Difficulty: "intermediate", Demand: 0.65},
			"kafka":             {Category: "data", Difficulty: "advanced", Demand: 0.65},
			"spark":             {Category: "data", Difficulty: "advanced", Demand: 0.55},
			"airflow":           {Category: "data", Difficulty: "intermediate", Demand: 0.5},
			"kubernetes":        {Category: "infrastructure", Difficulty: "advanced", Demand: 0.85},
			"docker":            {Category: "infrastructure", Difficulty: "intermediate", Demand: 0.85},
			"terraform":         {Category: "infrastructure", Difficulty: "intermediate", Demand: 0.75},
			"ansible":           {Category: "infrastructure", Difficulty: "intermediate", Demand: 0.5},
			"aws":               {Category: "cloud", Difficulty: "intermediate", Demand: 0.9},
			"gcp":               {Category: "cloud", Difficulty: "intermediate", Demand: 0.65},
			"azure":             {Category: "cloud", Difficulty: "intermediate", Demand: 0.65},
			"linux":             {Category: "infrastructure", Difficulty: "intermediate", Demand: 0.7},
			"ci-cd":             {Category: "infrastructure", Difficulty: "intermediate", Demand: 0.7},
			"react":             {Category: "frontend", Difficulty: "intermediate", Demand: 0.8},
			"vue":               {Category: "frontend", Difficulty: "intermediate", Demand: 0.5},
			"angular":           {Category: "frontend", Difficulty: "intermediate", Demand: 0.45},
			"node.js":           {Category: "backend", Difficulty: "intermediate", Demand: 0.7},
			"grpc":              {Category: "backend", Difficulty: "advanced", Demand: 0.55},
			"graphql":           {Category: "backend", Difficulty: "intermediate", Demand: 0.55},
			"rest":              {Category: "backend", Difficulty: "beginner", Demand: 0.75},
			"microservices":     {Category: "architecture", Difficulty: "advanced", Demand: 0.7},
			"machine learning":  {Category: "data", Difficulty: "advanced", Demand: 0.75},
			"observability":     {Category: "infrastructure", Difficulty: "intermediate", Demand: 0.55},
			"security":          {Category: "infrastructure", Difficulty: "advanced", Demand: 0.7},
		},
		Roles: map[string]RoleTemplate{
			"backend engineer": {
				Skills:    []string{"go", "postgresql", "rest", "docker", "sql"},
				Seniority: domain.SeniorityMid,
			},
			"frontend engineer": {
				Skills:    []string{"typescript", "react", "javascript", "rest"},
				Seniority: domain.SeniorityMid,
			},
			"devops engineer": {
				Skills:    []string{"kubernetes", "terraform", "docker", "aws", "ci-cd", "linux"},
				Seniority: domain.SeniorityMid,
			},
			"data engineer": {
				Skills:    []string{"python", "sql", "spark", "airflow", "kafka"},
				Seniority: domain.SeniorityMid,
			},
			"site reliability engineer": {
				Skills:    []string{"kubernetes", "linux", "observability", "go", "terraform"},
				Seniority: domain.SenioritySenior,
			},
		},
	}
}
