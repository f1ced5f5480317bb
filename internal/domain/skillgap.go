package domain

import "time"

type ImportanceTier string

const (
	ImportanceCritical   ImportanceTier = "critical"
	ImportanceImportant  ImportanceTier = "important"
	ImportanceNiceToHave ImportanceTier = "nice-to-have"
)

// Weight returns the multiplier a tier contributes to gap scoring.
func (t ImportanceTier) Weight() float64 {
	switch t {
	case ImportanceCritical:
		return 1.0
	case ImportanceNiceToHave:
		return 0.4
	default:
		return 0.7
	}
}

type LearningResource struct {
	Title      string  `json:"title" bson:"title"`
	Provider   string  `json:"provider" bson:"provider"`
	Type       string  `json:"type" bson:"type"` // course/book/tutorial/practice
	Hours      int     `json:"hours" bson:"hours"`
	Difficulty string  `json:"difficulty" bson:"difficulty"`
	Relevance  float64 `json:"relevance" bson:"relevance"` // 0..1, ranking key
	Rating     float64 `json:"rating,omitempty" bson:"rating,omitempty"`
}

type SkillGap struct {
	Skill          string             `json:"skill" bson:"skill"`
	Category       string             `json:"category" bson:"category"`
	Importance     ImportanceTier     `json:"importance" bson:"importance"`
	CurrentLevel   int                `json:"current_level" bson:"current_level"`
	RequiredLevel  int                `json:"required_level" bson:"required_level"`
	GapScore       float64            `json:"gap_score" bson:"gap_score"` // 0..100
	EstimatedHours int                `json:"estimated_hours" bson:"estimated_hours"`
	Resources      []LearningResource `json:"resources,omitempty" bson:"resources,omitempty"`
}

// PathPhase is one step of a learning path. Milestone marks a review
// checkpoint after every third skill.
type PathPhase struct {
	Order     int    `json:"order" bson:"order"`
	Skill     string `json:"skill" bson:"skill"`
	Weeks     int    `json:"weeks" bson:"weeks"`
	Hours     int    `json:"hours" bson:"hours"`
	Milestone string `json:"milestone,omitempty" bson:"milestone,omitempty"`
}

type LearningPath struct {
	Phases          []PathPhase `json:"phases" bson:"phases"`
	TotalWeeks      int         `json:"total_weeks" bson:"total_weeks"`
	MarketAlignment float64     `json:"market_alignment" bson:"market_alignment"` // 0..100
}

// SkillGapAnalysis is the persisted outcome of one analyze request.
// A re-request produces a new analysis with a fresh ID and deactivates the
// prior one; old versions stay addressable and are never merged into.
type SkillGapAnalysis struct {
	ID             string       `json:"id" bson:"_id"`
	ProfileID      string       `json:"profile_id" bson:"profile_id"`
	PostingHash    string       `json:"posting_hash,omitempty" bson:"posting_hash,omitempty"`
	Role           string       `json:"role,omitempty" bson:"role,omitempty"`
	Gaps           []SkillGap   `json:"gaps" bson:"gaps"`
	ReadinessScore float64      `json:"readiness_score" bson:"readiness_score"` // 0..100
	TotalHours     int          `json:"total_hours" bson:"total_hours"`
	CriticalCount  int          `json:"critical_count" bson:"critical_count"`
	Path           LearningPath `json:"learning_path" bson:"learning_path"`
	WeightsVersion string       `json:"weights_version" bson:"weights_version"`
	CreatedAt      time.Time    `json:"created_at" bson:"created_at"`
	Active         bool         `json:"active" bson:"active"`
}

// SkillProgress is written by an external progress tracker and only read
// by this engine.
type SkillProgress struct {
	ProfileID          string     `json:"profile_id" bson:"profile_id"`
	Skill              string     `json:"skill" bson:"skill"`
	StartedAt          *time.Time `json:"started_at,omitempty" bson:"started_at,omitempty"`
	HoursLogged        int        `json:"hours_logged" bson:"hours_logged"`
	CompletedResources int        `json:"completed_resources" bson:"completed_resources"`
}
