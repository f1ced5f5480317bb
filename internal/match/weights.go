// Package match computes explainable 0-100 compatibility scores between
// a profile and stored postings, and ranks the results.
package match

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScoringWeights is the versioned tuning surface of the engine. Weights
// are loaded once and never mutated; a changed file is a new version.
type ScoringWeights struct {
	Version           string  `yaml:"version"`
	SkillWeight       float64 `yaml:"skill_weight"`
	LocationBonusMax  float64 `yaml:"location_bonus_max"`
	RemoteBonus       float64 `yaml:"remote_bonus"`
	HybridBonus       float64 `yaml:"hybrid_bonus"`
	CityBonus         float64 `yaml:"city_bonus"`
	SeniorityBonusMax float64 `yaml:"seniority_bonus_max"`
	RecencyBonusMax   float64 `yaml:"recency_bonus_max"`
	RecencyWindowDays int     `yaml:"recency_window_days"`
}

func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		Version:           "v1",
		SkillWeight:       0.70,
		LocationBonusMax:  0.20,
		RemoteBonus:       0.15,
		HybridBonus:       0.10,
		CityBonus:         0.05,
		SeniorityBonusMax: 0.05,
		RecencyBonusMax:   0.05,
		RecencyWindowDays: 30,
	}
}

// LoadWeights overlays a YAML file onto the defaults, so a file may tune
// a single weight without restating the rest.
func LoadWeights(path string) (ScoringWeights, error) {
	w := DefaultWeights()
	data, err := os.ReadFile(path)
	if err != nil {
		return ScoringWeights{}, fmt.Errorf("read weights %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return ScoringWeights{}, fmt.Errorf("parse weights %s: %w", path, err)
	}
	if err := w.Validate(); err != nil {
		return ScoringWeights{}, fmt.Errorf("weights %s: %w", path, err)
	}
	return w, nil
}

func (w ScoringWeights) Validate() error {
	if w.Version == "" {
		return fmt.Errorf("version is required")
	}
	if w.SkillWeight <= 0 || w.SkillWeight > 1 {
		return fmt.Errorf("skill_weight %v out of (0,1]", w.SkillWeight)
	}
	for name, v := range map[string]float64{
		"location_bonus_max":  w.LocationBonusMax,
		"remote_bonus":        w.RemoteBonus,
		"hybrid_bonus":        w.HybridBonus,
		"city_bonus":          w.CityBonus,
		"seniority_bonus_max": w.SeniorityBonusMax,
		"recency_bonus_max":   w.RecencyBonusMax,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s %v out of [0,1]", name, v)
		}
	}
	if w.RecencyWindowDays <= 0 {
		return fmt.Errorf("recency_window_days must be positive")
	}
	return nil
}
