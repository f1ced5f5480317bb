package skillgap

import (
	"reflect"
	"strings"
	"testing"

	"jobmatch-engine/internal/domain"
)

func seniorPlatformPosting() domain.JobPosting {
	return domain.JobPosting{
		URLHash:   "hash-1",
		Title:     "Senior Platform Engineer",
		Company:   "Acme",
		Skills:    []string{"python", "aws", "kubernetes"},
		Seniority: domain.SenioritySenior,
		Description: "Kubernetes experience is required for this position on our " +
			"infrastructure team. Daily work touches Python services and AWS infrastructure.",
	}
}

func TestAnalyzeWorkedExample(t *testing.T) {
	a := NewAnalyzer(nil)
	profile := domain.Profile{ID: "me", Skills: []string{"python", "aws"}}

	got := a.Analyze(profile, TargetFromPosting(seniorPlatformPosting()))

	if len(got.Gaps) != 1 {
		t.Fatalf("gaps = %d, want exactly 1: %+v", len(got.Gaps), got.Gaps)
	}
	gap := got.Gaps[0]
	if gap.Skill != "kubernetes" {
		t.Fatalf("gap skill = %q, want kubernetes", gap.Skill)
	}
	if gap.Importance != domain.ImportanceCritical {
		t.Errorf("importance = %v, want critical (text says required)", gap.Importance)
	}
	if gap.CurrentLevel != 0 || gap.RequiredLevel != 4 {
		t.Errorf("levels = %d/%d, want 0/4", gap.CurrentLevel, gap.RequiredLevel)
	}
	if gap.GapScore != 100 {
		t.Errorf("gap score = %v, want 100", gap.GapScore)
	}
	if gap.EstimatedHours != 80 {
		t.Errorf("hours = %d, want 80 (advanced skill, full deficit)", gap.EstimatedHours)
	}
	if len(gap.Resources) != 3 {
		t.Fatalf("resources = %d, want 3", len(gap.Resources))
	}
	for i := 1; i < len(gap.Resources); i++ {
		if gap.Resources[i].Relevance > gap.Resources[i-1].Relevance {
			t.Errorf("resources not ordered by relevance: %+v", gap.Resources)
		}
	}

	if got.CriticalCount != 1 {
		t.Errorf("critical count = %d, want 1", got.CriticalCount)
	}
	if got.TotalHours != 80 {
		t.Errorf("total hours = %d, want 80", got.TotalHours)
	}
	// weights: kubernetes 1.0 unmet, python+aws 0.7 met => 100*(1 - 1.0/2.4)
	if got.ReadinessScore != 58.3 {
		t.Errorf("readiness = %v, want 58.3", got.ReadinessScore)
	}
	if len(got.Path.Phases) != 1 || got.Path.Phases[0].Weeks != 8 {
		t.Errorf("path = %+v, want one 8-week phase", got.Path)
	}
	if got.ProfileID != "me" || got.PostingHash != "hash-1" {
		t.Errorf("identity fields wrong: %+v", got)
	}
	if !got.Active {
		t.Error("fresh analysis must be active")
	}
}

func TestAnalyzeDeterminism(t *testing.T) {
	a := NewAnalyzer(nil)
	profile := domain.Profile{
		ID:          "me",
		Skills:      []string{"python"},
		SkillLevels: map[string]int{"kubernetes": 1, "aws": 2},
	}
	target := TargetFromPosting(seniorPlatformPosting())

	first := a.Analyze(profile, target)
	second := a.Analyze(profile, target)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same inputs, different analyses:\n%+v\nvs\n%+v", first, second)
	}
}

func TestReadinessMonotonicity(t *testing.T) {
	a := NewAnalyzer(nil)
	target := TargetFromPosting(seniorPlatformPosting())

	none := a.Analyze(domain.Profile{ID: "a", Skills: []string{"python", "aws"}}, target)
	partial := a.Analyze(domain.Profile{
		ID: "b", Skills: []string{"python", "aws"},
		SkillLevels: map[string]int{"kubernetes": 2},
	}, target)
	full := a.Analyze(domain.Profile{ID: "c", Skills: []string{"python", "aws", "kubernetes"}}, target)

	if !(none.ReadinessScore < partial.ReadinessScore) {
		t.Errorf("closing half the gap did not raise readiness: %v vs %v",
			none.ReadinessScore, partial.ReadinessScore)
	}
	if !(partial.ReadinessScore < full.ReadinessScore) {
		t.Errorf("meeting the skill did not raise readiness: %v vs %v",
			partial.ReadinessScore, full.ReadinessScore)
	}
	if full.ReadinessScore != 100 {
		t.Errorf("no gaps but readiness = %v", full.ReadinessScore)
	}
	if len(full.Gaps) != 0 {
		t.Errorf("no gaps expected, got %+v", full.Gaps)
	}

	if g := partial.Gaps[0]; g.GapScore != 50 || g.EstimatedHours != 40 {
		t.Errorf("half deficit gap = %+v, want score 50, hours 40", g)
	}
}

func TestExplicitLevelBelowBar(t *testing.T) {
	a := NewAnalyzer(nil)
	profile := domain.Profile{
		ID:          "me",
		Skills:      []string{"go"},
		SkillLevels: map[string]int{"go": 2},
	}
	target := Target{Skills: []string{"go"}, Seniority: domain.SenioritySenior}

	got := a.Analyze(profile, target)
	if len(got.Gaps) != 1 {
		t.Fatalf("a listed skill with a low self-assessment must still gap: %+v", got.Gaps)
	}
	if got.Gaps[0].CurrentLevel != 2 || got.Gaps[0].RequiredLevel != 4 {
		t.Errorf("levels = %+v, want 2/4", got.Gaps[0])
	}
}

func TestImportanceClassification(t *testing.T) {
	pad := strings.Repeat("x", importanceWindow+10)
	tests := []struct {
		name string
		text string
		want domain.ImportanceTier
	}{
		{"required", "Go is required for this role", domain.ImportanceCritical},
		{"must", "candidates must know Go well", domain.ImportanceCritical},
		{"essential", "Go fluency is essential", domain.ImportanceCritical},
		{"plus", "Go experience is a plus", domain.ImportanceNiceToHave},
		{"surplus is not plus", "manage Go services for our surplus inventory team", domain.ImportanceImportant},
		{"nice to have", "nice to have: Go", domain.ImportanceNiceToHave},
		{"preferred", "Go preferred but not expected", domain.ImportanceNiceToHave},
		{"plain mention", "our services are written in Go", domain.ImportanceImportant},
		{"not mentioned", "we value curiosity", domain.ImportanceImportant},
		{"keyword out of window", "required " + pad + " Go " + pad + " preferred", domain.ImportanceImportant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyImportance("go", tt.text); got != tt.want {
				t.Errorf("classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestRequiredLevelPerSeniority(t *testing.T) {
	a := NewAnalyzer(nil)
	tests := []struct {
		seniority domain.Seniority
		want      int
	}{
		{domain.SeniorityJunior, 2},
		{domain.SeniorityMid, 3},
		{domain.SenioritySenior, 4},
		{domain.SeniorityLead, 4},
		{domain.SeniorityUnknown, 3},
	}
	for _, tt := range tests {
		got := a.Analyze(domain.Profile{ID: "p"}, Target{Skills: []string{"go"}, Seniority: tt.seniority})
		if len(got.Gaps) != 1 || got.Gaps[0].RequiredLevel != tt.want {
			t.Errorf("seniority %q: required level = %+v, want %d", tt.seniority, got.Gaps, tt.want)
		}
	}
}

func TestAnalyzeEmptyRequirements(t *testing.T) {
	a := NewAnalyzer(nil)
	got := a.Analyze(domain.Profile{ID: "me"}, Target{Role: "mystery role"})

	if got.ReadinessScore != 100 {
		t.Errorf("readiness = %v, want 100 for empty requirement set", got.ReadinessScore)
	}
	if len(got.Gaps) != 0 || got.TotalHours != 0 || got.CriticalCount != 0 {
		t.Errorf("expected empty analysis, got %+v", got)
	}
	if len(got.Path.Phases) != 0 {
		t.Errorf("expected empty path, got %+v", got.Path)
	}
}

func TestPathOrderingAndMilestones(t *testing.T) {
	a := NewAnalyzer(nil)
	target := Target{
		Skills:       []string{"kubernetes", "go", "vue", "ansible"},
		Seniority:    domain.SeniorityMid,
		Requirements: "Kubernetes is required.",
	}

	got := a.Analyze(domain.Profile{ID: "me"}, target)
	if len(got.Path.Phases) != 4 {
		t.Fatalf("phases = %d, want 4", len(got.Path.Phases))
	}

	// priority = importance x demand x deficit; ansible/vue tie on
	// priority and fall back to name order
	wantOrder := []string{"kubernetes", "go", "ansible", "vue"}
	for i, want := range wantOrder {
		ph := got.Path.Phases[i]
		if ph.Skill != want {
			t.Fatalf("phase %d = %s, want %s", i+1, ph.Skill, want)
		}
		if ph.Order != i+1 {
			t.Errorf("phase %d order field = %d", i+1, ph.Order)
		}
	}

	if got.Path.Phases[0].Weeks != 8 || got.Path.Phases[1].Weeks != 4 {
		t.Errorf("weeks = %+v, want 8 then 4", got.Path.Phases)
	}
	if got.Path.TotalWeeks != 20 {
		t.Errorf("total weeks = %d, want 20", got.Path.TotalWeeks)
	}

	if m := got.Path.Phases[2].Milestone; m == "" || !strings.Contains(m, "ansible") {
		t.Errorf("third phase milestone = %q, want checkpoint naming recent skills", m)
	}
	if got.Path.Phases[0].Milestone != "" || got.Path.Phases[3].Milestone != "" {
		t.Errorf("unexpected milestones: %+v", got.Path.Phases)
	}
}

func TestResourceFallbacks(t *testing.T) {
	c := DefaultCatalog()
	got := resourcesFor("ansible", c.Info("ansible"), c, 3)

	if len(got) != 3 {
		t.Fatalf("resources = %d, want 3 fallbacks", len(got))
	}
	for i, r := range got {
		if !strings.Contains(r.Title, "Ansible") {
			t.Errorf("fallback %d title %q does not name the skill", i, r.Title)
		}
		if i > 0 && got[i].Relevance > got[i-1].Relevance {
			t.Errorf("fallbacks out of relevance order: %+v", got)
		}
	}

	again := resourcesFor("ansible", c.Info("ansible"), c, 3)
	if !reflect.DeepEqual(got, again) {
		t.Error("fallback generation not deterministic")
	}
}

func TestRoleTarget(t *testing.T) {
	c := DefaultCatalog()

	target, err := c.RoleTarget("Backend Engineer")
	if err != nil {
		t.Fatalf("role lookup: %v", err)
	}
	if target.Role != "backend engineer" || target.Seniority != domain.SeniorityMid {
		t.Errorf("target = %+v", target)
	}
	found := false
	for _, s := range target.Skills {
		if s == "go" {
			found = true
		}
	}
	if !found {
		t.Errorf("backend role skills = %v, want go included", target.Skills)
	}

	if _, err := c.RoleTarget("underwater basket weaver"); err == nil {
		t.Error("unknown role must error")
	}

	a := NewAnalyzer(c)
	got := a.Analyze(domain.Profile{ID: "me", Skills: []string{"go", "sql"}}, target)
	if got.Role != "backend engineer" || got.PostingHash != "" {
		t.Errorf("analysis target fields = %+v", got)
	}
}
