package matching

import "github.com/James3014/snowbuddy-backend/internal/domain"

// Weights of the three learning-focus components. They sum to 1.0 so the
// similarity stays in [0,1].
const (
	primarySkillWeight  = 0.4
	recentLessonsWeight = 0.3
	trendWeight         = 0.3
)

// FocusSimilarity compares two users' recent-practice summaries. Comparing a
// user against themself always yields exactly 1.0.
func FocusSimilarity(a, b domain.LearningFocus) float64 {
	if a.UserID == b.UserID && a.UserID != 0 {
		return 1.0
	}

	sim := 0.0
	if a.PrimarySkill != "" && a.PrimarySkill == b.PrimarySkill {
		sim += primarySkillWeight
	}
	sim += recentLessonsWeight * jaccard(a.RecentLessons, b.RecentLessons)
	sim += trendWeight * trendAgreement(a.SkillTrend, b.SkillTrend)
	return clamp01(sim)
}

// jaccard is |intersection| / |union|. An empty set on either side yields 0;
// absence of data earns no bonus.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	setA := make(map[string]struct{}, len(a))
	for _, v := range a {
		setA[v] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, v := range b {
		setB[v] = struct{}{}
	}
	common := 0
	for v := range setA {
		if _, ok := setB[v]; ok {
			common++
		}
	}
	union := len(setA) + len(setB) - common
	return float64(common) / float64(union)
}

// trendAgreement is the fraction of skills present in both trend maps whose
// label matches, 0 when the maps share no skills.
func trendAgreement(a, b map[string]domain.SkillTrend) float64 {
	shared, agreed := 0, 0
	for skill, trendA := range a {
		trendB, ok := b[skill]
		if !ok {
			continue
		}
		shared++
		if trendA == trendB {
			agreed++
		}
	}
	if shared == 0 {
		return 0.0
	}
	return float64(agreed) / float64(shared)
}
