package domain

// SkillTrend labels the direction a practiced skill is moving in.
type SkillTrend string

const (
	TrendImproving SkillTrend = "improving"
	TrendStable    SkillTrend = "stable"
	TrendDeclining SkillTrend = "declining"
)

// LearningFocus summarises which skills a user has recently practiced.
// It is derived by the external profile service from lesson history.
type LearningFocus struct {
	UserID        int                   `json:"user_id"`
	PrimarySkill  string                `json:"primary_skill"`
	RecentLessons []string              `json:"recent_lessons"`
	SkillTrend    map[string]SkillTrend `json:"skill_trend"`
}

// KnowledgeSummary is the externally assessed proficiency snapshot used by
// the optional knowledge sub-score. OverallScore is on a 0–100 scale.
type KnowledgeSummary struct {
	UserID       int            `json:"user_id"`
	OverallScore float64        `json:"overall_score"`
	Focus        *LearningFocus `json:"learning_focus,omitempty"`
}
