package domain

import "fmt"

// MatchingPreference describes what a seeker wants in a ski companion.
// Instances are validated at construction and never mutated during a search.
type MatchingPreference struct {
	SkillLevelMin         int      `json:"skill_level_min" db:"skill_level_min"`
	SkillLevelMax         int      `json:"skill_level_max" db:"skill_level_max"`
	PreferredResorts      []string `json:"preferred_resorts" db:"preferred_resorts"`
	PreferredRegions      []string `json:"preferred_regions" db:"preferred_regions"`
	Availability          []string `json:"availability" db:"availability"` // ISO dates, YYYY-MM-DD
	SeekingRole           Role     `json:"seeking_role" db:"seeking_role"`
	IncludeKnowledgeScore bool     `json:"include_knowledge_score" db:"include_knowledge_score"`
}

// Validate checks the preference invariants.
func (p *MatchingPreference) Validate() error {
	if p.SkillLevelMin < 0 || p.SkillLevelMax < 0 {
		return fmt.Errorf("%w: skill levels must be non-negative", ErrInvalidPreference)
	}
	if p.SkillLevelMin > p.SkillLevelMax {
		return fmt.Errorf("%w: skill_level_min %d exceeds skill_level_max %d",
			ErrInvalidPreference, p.SkillLevelMin, p.SkillLevelMax)
	}
	if _, err := ParseRole(string(p.SeekingRole)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPreference, err)
	}
	return nil
}

// CandidateProfile is a snapshot of one user in the candidate pool.
// Preferences describe what the candidate themself is looking for and are
// used symmetrically during scoring.
type CandidateProfile struct {
	UserID      int                `json:"user_id" db:"user_id"`
	Nickname    string             `json:"nickname" db:"nickname"`
	SkillLevel  int                `json:"skill_level" db:"skill_level"`
	SelfRole    Role               `json:"self_role" db:"self_role"`
	Preferences MatchingPreference `json:"preferences"`
}
