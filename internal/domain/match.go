package domain

import "time"

type Confidence string

const (
	ConfidenceFull Confidence = "full"
	ConfidenceLow  Confidence = "low"
)

// SubScores itemizes the score components before the x100 scaling.
// SkillOverlap is the raw overlap fraction; the bonuses are each bounded
// by their weight caps (location <= 0.2, seniority and recency <= 0.05).
type SubScores struct {
	SkillOverlap   float64 `json:"skill_overlap"`
	LocationBonus  float64 `json:"location_bonus"`
	SeniorityBonus float64 `json:"seniority_bonus"`
	RecencyBonus   float64 `json:"recency_bonus"`
}

// MatchResult is computed per (profile, posting) pair and never persisted.
// Identical inputs always produce an identical result.
type MatchResult struct {
	ProfileID       string     `json:"profile_id"`
	PostingHash     string     `json:"posting_hash"`
	PostingTitle    string     `json:"posting_title"`
	PostingCompany  string     `json:"posting_company"`
	PostingPostedAt *time.Time `json:"posting_posted_at,omitempty"`
	Score           float64    `json:"score"` // 0..100
	SubScores       SubScores  `json:"sub_scores"`
	MatchedSkills   []string   `json:"matched_skills"`
	MissingSkills   []string   `json:"missing_skills"`
	Reasons         []string   `json:"reasons"`
	Confidence      Confidence `json:"confidence"`
	WeightsVersion  string     `json:"weights_version"`
}
