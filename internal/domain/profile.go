package domain

// Profile is the candidate snapshot the scoring and gap paths read.
// It is produced by an external accessor and never mutated here.
type Profile struct {
	ID              string         `json:"id" yaml:"id"`
	Skills          []string       `json:"skills" yaml:"skills"`
	SkillLevels     map[string]int `json:"skill_levels,omitempty" yaml:"skill_levels"` // skill -> 1..5
	Location        string         `json:"location,omitempty" yaml:"location"`
	RemotePreferred bool           `json:"remote_preferred" yaml:"remote_preferred"`
	Seniority       Seniority      `json:"seniority,omitempty" yaml:"seniority"`
	YearsExperience int            `json:"years_experience,omitempty" yaml:"years_experience"`
}

// SkillLevel returns the self-assessed level for a skill, 0 when absent.
func (p Profile) SkillLevel(skill string) int {
	if p.SkillLevels == nil {
		return 0
	}
	return p.SkillLevels[skill]
}

// HasSkill reports whether the profile lists the given (lowercase) skill.
func (p Profile) HasSkill(skill string) bool {
	for _, s := range p.Skills {
		if s == skill {
			return true
		}
	}
	return false
}
