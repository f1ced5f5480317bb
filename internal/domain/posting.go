package domain

import "time"

type WorkType string

const (
	WorkTypeFullTime   WorkType = "full-time"
	WorkTypePartTime   WorkType = "part-time"
	WorkTypeContract   WorkType = "contract"
	WorkTypeInternship WorkType = "internship"
)

type Seniority string

const (
	SeniorityJunior  Seniority = "junior"
	SeniorityMid     Seniority = "mid"
	SenioritySenior  Seniority = "senior"
	SeniorityLead    Seniority = "lead"
	SeniorityUnknown Seniority = "unknown"
)

// JobPosting is the canonical posting record. URLHash is the identity:
// two postings with the same hash are the same logical posting and the
// later occurrence only refreshes the mutable fields.
type JobPosting struct {
	URLHash        string     `json:"url_hash" bson:"url_hash"`
	Title          string     `json:"title" bson:"title"`
	Company        string     `json:"company" bson:"company"`
	URL            string     `json:"url" bson:"url"`
	Location       string     `json:"location,omitempty" bson:"location,omitempty"`
	Remote         bool       `json:"remote" bson:"remote"`
	WorkType       WorkType   `json:"work_type" bson:"work_type"`
	Seniority      Seniority  `json:"seniority" bson:"seniority"`
	SalaryMin      int        `json:"salary_min,omitempty" bson:"salary_min,omitempty"`
	SalaryMax      int        `json:"salary_max,omitempty" bson:"salary_max,omitempty"`
	SalaryCurrency string     `json:"salary_currency,omitempty" bson:"salary_currency,omitempty"`
	Skills         []string   `json:"skills,omitempty" bson:"skills,omitempty"`
	Description    string     `json:"description,omitempty" bson:"description,omitempty"`
	SourceID       string     `json:"source_id" bson:"source_id"`
	PostedAt       *time.Time `json:"posted_at,omitempty" bson:"posted_at,omitempty"`
	FirstSeenAt    time.Time  `json:"first_seen_at" bson:"first_seen_at"`
	LastSeenAt     time.Time  `json:"last_seen_at" bson:"last_seen_at"`
	Active         bool       `json:"active" bson:"active"`
}

// HasSkill reports whether the posting lists the given (lowercase) skill tag.
func (p JobPosting) HasSkill(skill string) bool {
	for _, s := range p.Skills {
		if s == skill {
			return true
		}
	}
	return false
}
