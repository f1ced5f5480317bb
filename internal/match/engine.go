package match

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"jobmatch-engine/internal/domain"
)

// Engine scores postings against profiles. The reference time is fixed
// at construction so recency never depends on the wall clock and a
// whole batch scores against one instant.
type Engine struct {
	weights ScoringWeights
	ref     time.Time
}

func NewEngine(weights ScoringWeights, reference time.Time) *Engine {
	if reference.IsZero() {
		reference = time.Now()
	}
	return &Engine{weights: weights, ref: reference.UTC()}
}

func (e *Engine) Weights() ScoringWeights { return e.weights }

// Score computes the match between one profile and one posting. Pure:
// identical inputs always produce an identical result, and the missing
// and matched skill lists come from the same sets as the overlap so the
// explanation can never disagree with the number.
func (e *Engine) Score(profile domain.Profile, posting domain.JobPosting) domain.MatchResult {
	w := e.weights

	have := skillSet(profile.Skills)
	required := uniqueSorted(posting.Skills)

	matched := make([]string, 0, len(required))
	missing := make([]string, 0, len(required))
	for _, s := range required {
		if have[s] {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}

	confidence := domain.ConfidenceFull
	reasons := make([]string, 0, 4)

	overlap := 1.0
	if len(required) == 0 {
		confidence = domain.ConfidenceLow
		reasons = append(reasons, "posting lists no skills; treating skill fit as neutral (low confidence)")
	} else {
		overlap = float64(len(matched)) / float64(len(required))
		reasons = append(reasons, fmt.Sprintf("matches %d of %d required skills", len(matched), len(required)))
		if len(missing) > 0 {
			reasons = append(reasons, "missing skills: "+strings.Join(missing, ", "))
		}
	}

	loc := e.locationBonus(profile, posting, &reasons)
	sen := e.seniorityBonus(profile, posting, &reasons)
	rec := e.recencyBonus(posting, &reasons)

	raw := overlap*w.SkillWeight + loc + sen + rec
	score := clamp(raw*100, 0, 100)
	score = math.Round(score*10) / 10

	return domain.MatchResult{
		ProfileID:       profile.ID,
		PostingHash:     posting.URLHash,
		PostingTitle:    posting.Title,
		PostingCompany:  posting.Company,
		PostingPostedAt: posting.PostedAt,
		Score:           score,
		SubScores: domain.SubScores{
			SkillOverlap:   overlap,
			LocationBonus:  loc,
			SeniorityBonus: sen,
			RecencyBonus:   rec,
		},
		MatchedSkills:  matched,
		MissingSkills:  missing,
		Reasons:        reasons,
		Confidence:     confidence,
		WeightsVersion: w.Version,
	}
}

// ScoreAll scores every posting; results come back unranked.
func (e *Engine) ScoreAll(profile domain.Profile, postings []domain.JobPosting) []domain.MatchResult {
	out := make([]domain.MatchResult, 0, len(postings))
	for _, p := range postings {
		out = append(out, e.Score(profile, p))
	}
	return out
}

// locationBonus sums the independent location signals and caps the
// total at LocationBonusMax.
func (e *Engine) locationBonus(profile domain.Profile, posting domain.JobPosting, reasons *[]string) float64 {
	w := e.weights
	var b float64

	cityMatched := cityMatch(profile.Location, posting.Location)
	hybrid := mentionsHybrid(posting)

	if posting.Remote && profile.RemotePreferred {
		b += w.RemoteBonus
		*reasons = append(*reasons, "remote role matches remote preference")
	}
	if hybrid && (profile.RemotePreferred || cityMatched) {
		b += w.HybridBonus
		*reasons = append(*reasons, "hybrid arrangement is workable")
	}
	if cityMatched {
		b += w.CityBonus
		*reasons = append(*reasons, fmt.Sprintf("location %q matches", profile.Location))
	}
	if b > w.LocationBonusMax {
		b = w.LocationBonusMax
	}
	return b
}

func (e *Engine) seniorityBonus(profile domain.Profile, posting domain.JobPosting, reasons *[]string) float64 {
	dp := seniorityRank(profile.Seniority)
	dj := seniorityRank(posting.Seniority)
	if dp == 0 || dj == 0 {
		return 0
	}
	switch diff := abs(dp - dj); diff {
	case 0:
		*reasons = append(*reasons, fmt.Sprintf("seniority %s matches exactly", posting.Seniority))
		return e.weights.SeniorityBonusMax
	case 1:
		*reasons = append(*reasons, fmt.Sprintf("seniority %s is adjacent to yours", posting.Seniority))
		return e.weights.SeniorityBonusMax / 2
	default:
		return 0
	}
}

// recencyBonus decays linearly to zero across the configured window,
// measured against the engine's fixed reference time.
func (e *Engine) recencyBonus(posting domain.JobPosting, reasons *[]string) float64 {
	if posting.PostedAt == nil {
		return 0
	}
	age := e.ref.Sub(posting.PostedAt.UTC())
	if age < 0 {
		age = 0
	}
	window := time.Duration(e.weights.RecencyWindowDays) * 24 * time.Hour
	if age >= window {
		return 0
	}
	frac := 1 - float64(age)/float64(window)
	b := e.weights.RecencyBonusMax * frac
	if age <= 7*24*time.Hour {
		*reasons = append(*reasons, "posted within the last week")
	}
	return b
}

func seniorityRank(s domain.Seniority) int {
	switch s {
	case domain.SeniorityJunior:
		return 1
	case domain.SeniorityMid:
		return 2
	case domain.SenioritySenior:
		return 3
	case domain.SeniorityLead:
		return 4
	default:
		return 0
	}
}

// mentionsHybrid scans the same fields the normalizer scans for the
// remote signal; boards often bury "hybrid" in the description while
// the location stays a plain city.
func mentionsHybrid(p domain.JobPosting) bool {
	blob := strings.ToLower(p.Title + " " + p.Location + " " + p.Description)
	return strings.Contains(blob, "hybrid")
}

// cityMatch is a bidirectional substring check on the trimmed,
// lowercased locations. "Berlin" matches "Berlin, Germany (hybrid)".
func cityMatch(profileLoc, postingLoc string) bool {
	p := strings.ToLower(strings.TrimSpace(profileLoc))
	j := strings.ToLower(strings.TrimSpace(postingLoc))
	if p == "" || j == "" {
		return false
	}
	return strings.Contains(j, p) || strings.Contains(p, j)
}

func skillSet(skills []string) map[string]bool {
	set := make(map[string]bool, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set[s] = true
		}
	}
	return set
}

func uniqueSorted(skills []string) []string {
	set := skillSet(skills)
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
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

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
