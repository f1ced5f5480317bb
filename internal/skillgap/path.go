package skillgap

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"jobmatch-engine/internal/domain"
)

// buildPath orders the gaps into a schedule. Priority is importance
// weight x market demand x deficit, so a critical in-demand skill with
// a deep gap is tackled first; every third phase closes with a
// milestone checkpoint.
func (a *Analyzer) buildPath(gaps []domain.SkillGap) domain.LearningPath {
	if len(gaps) == 0 {
		return domain.LearningPath{MarketAlignment: 100}
	}

	type prioritized struct {
		gap      domain.SkillGap
		priority float64
		demand   float64
	}
	items := make([]prioritized, 0, len(gaps))
	for _, g := range gaps {
		demand := a.catalog.Info(g.Skill).Demand
		// GapScore already carries importance x deficit
		items = append(items, prioritized{
			gap:      g,
			priority: g.GapScore / 100 * demand,
			demand:   demand,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].priority != items[j].priority {
			return items[i].priority > items[j].priority
		}
		return items[i].gap.Skill < items[j].gap.Skill
	})

	var (
		phases     []domain.PathPhase
		totalWeeks int
		sumDemand  float64
	)
	for i, it := range items {
		weeks := int(math.Round(float64(it.gap.EstimatedHours) / 10))
		if weeks < 1 {
			weeks = 1
		}
		phase := domain.PathPhase{
			Order: i + 1,
			Skill: it.gap.Skill,
			Weeks: weeks,
			Hours: it.gap.EstimatedHours,
		}
		if (i+1)%3 == 0 {
			recent := make([]string, 0, 3)
			for _, p := range items[i-2 : i+1] {
				recent = append(recent, p.gap.Skill)
			}
			phase.Milestone = fmt.Sprintf("checkpoint: build a small project combining %s", strings.Join(recent, ", "))
		}
		phases = append(phases, phase)
		totalWeeks += weeks
		sumDemand += it.demand
	}

	return domain.LearningPath{
		Phases:          phases,
		TotalWeeks:      totalWeeks,
		MarketAlignment: round1(100 * sumDemand / float64(len(items))),
	}
}
