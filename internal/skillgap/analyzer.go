package skillgap

import (
	"math"
	"sort"
	"strings"

	"jobmatch-engine/internal/domain"
)

// Target is what an analysis is computed against: either a concrete
// posting or a named role template. Requirements is the free text the
// importance classifier reads.
type Target struct {
	PostingHash  string
	Role         string
	Skills       []string
	Seniority    domain.Seniority
	Requirements string
}

func TargetFromPosting(p domain.JobPosting) Target {
	return Target{
		PostingHash:  p.URLHash,
		Skills:       p.Skills,
		Seniority:    p.Seniority,
		Requirements: p.Title + "\n" + p.Description,
	}
}

// Analyzer derives skill gaps, readiness and a learning path from a
// profile and a target. Pure: a fixed (profile, target, catalog)
// triple always produces the same analysis, and the caller assigns the
// identity (ID, CreatedAt) before persisting.
type Analyzer struct {
	catalog *Catalog
}

func NewAnalyzer(catalog *Catalog) *Analyzer {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Analyzer{catalog: catalog}
}

func (a *Analyzer) Analyze(profile domain.Profile, target Target) domain.SkillGapAnalysis {
	required := uniqueSorted(target.Skills)
	reqLevel := requiredLevel(target.Seniority)

	var (
		gaps       []domain.SkillGap
		sumWeight  float64
		sumWeighed float64
		totalHours int
		critical   int
	)
	for _, skill := range required {
		tier := classifyImportance(skill, target.Requirements)
		weight := tier.Weight()
		sumWeight += weight

		cur := currentLevel(profile, skill, reqLevel)
		if cur >= reqLevel {
			continue
		}
		deficit := float64(reqLevel-cur) / float64(reqLevel)
		sumWeighed += weight * deficit

		info := a.catalog.Info(skill)
		hours := int(math.Round(float64(a.catalog.BaseHours(info.Difficulty)) * deficit))
		gap := domain.SkillGap{
			Skill:          skill,
			Category:       info.Category,
			Importance:     tier,
			CurrentLevel:   cur,
			RequiredLevel:  reqLevel,
			GapScore:       round1(deficit * weight * 100),
			EstimatedHours: hours,
			Resources:      resourcesFor(skill, info, a.catalog, 3),
		}
		gaps = append(gaps, gap)
		totalHours += hours
		if tier == domain.ImportanceCritical {
			critical++
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		if gaps[i].GapScore != gaps[j].GapScore {
			return gaps[i].GapScore > gaps[j].GapScore
		}
		return gaps[i].Skill < gaps[j].Skill
	})

	readiness := 100.0
	if sumWeight > 0 {
		readiness = round1(clamp(100*(1-sumWeighed/sumWeight), 0, 100))
	}

	return domain.SkillGapAnalysis{
		ProfileID:      profile.ID,
		PostingHash:    target.PostingHash,
		Role:           target.Role,
		Gaps:           gaps,
		ReadinessScore: readiness,
		TotalHours:     totalHours,
		CriticalCount:  critical,
		Path:           a.buildPath(gaps),
		WeightsVersion: a.catalog.Version,
		Active:         true,
	}
}

// currentLevel reads the explicit self-assessment when present. A skill
// the profile lists without a level counts as meeting the bar, so gap
// analyses agree with the match engine about which skills are covered.
func currentLevel(profile domain.Profile, skill string, reqLevel int) int {
	if lvl := profile.SkillLevel(skill); lvl > 0 {
		return lvl
	}
	if profileHasSkill(profile, skill) {
		return reqLevel
	}
	return 0
}

func profileHasSkill(profile domain.Profile, skill string) bool {
	for _, s := range profile.Skills {
		if strings.EqualFold(strings.TrimSpace(s), skill) {
			return true
		}
	}
	return false
}

// requiredLevel maps the target's seniority to the 1..5 proficiency bar.
func requiredLevel(s domain.Seniority) int {
	switch s {
	case domain.SeniorityJunior:
		return 2
	case domain.SenioritySenior, domain.SeniorityLead:
		return 4
	default:
		return 3
	}
}

const importanceWindow = 60

// classifyImportance reads the requirement text around the skill
// mention. Wording like "required"/"must"/"essential" near the skill
// makes it critical; "nice to have"/"plus"/"preferred" demotes it.
func classifyImportance(skill, text string) domain.ImportanceTier {
	lower := strings.ToLower(text)
	idx := strings.Index(lower, strings.ToLower(skill))
	if idx < 0 {
		return domain.ImportanceImportant
	}
	start := idx - importanceWindow
	if start < 0 {
		start = 0
	}
	end := idx + len(skill) + importanceWindow
	if end > len(lower) {
		end = len(lower)
	}
	window := lower[start:end]

	for _, kw := range []string{"required", "must", "essential", "mandatory"} {
		if strings.Contains(window, kw) {
			return domain.ImportanceCritical
		}
	}
	// "plus" only as the phrase "a plus"; the bare word would fire on
	// "surplus" and the like.
	for _, kw := range []string{"nice to have", "nice-to-have", "a plus", "big plus", "preferred", "bonus", "optional"} {
		if strings.Contains(window, kw) {
			return domain.ImportanceNiceToHave
		}
	}
	return domain.ImportanceImportant
}

func uniqueSorted(skills []string) []string {
	set := make(map[string]bool, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set[s] = true
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
