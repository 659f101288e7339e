package matching_test

import (
	"math"
	"testing"

	"github.com/James3014/snowbuddy-backend/internal/domain"
	"github.com/James3014/snowbuddy-backend/internal/usecase/matching"
)

func TestFocusSimilarity_SelfComparisonIsIdentity(t *testing.T) {
	focus := domain.LearningFocus{
		UserID:        7,
		PrimarySkill:  "carving",
		RecentLessons: []string{"carving", "moguls"},
		SkillTrend: map[string]domain.SkillTrend{
			"carving": domain.TrendImproving,
			"moguls":  domain.TrendStable,
		},
	}
	if got := matching.FocusSimilarity(focus, focus); got != 1.0 {
		t.Errorf("FocusSimilarity(x, x) = %v, want exactly 1.0", got)
	}
}

func TestFocusSimilarity_Weights(t *testing.T) {
	a := domain.LearningFocus{
		UserID:        1,
		PrimarySkill:  "carving",
		RecentLessons: []string{"carving", "powder"},
		SkillTrend: map[string]domain.SkillTrend{
			"carving": domain.TrendImproving,
			"powder":  domain.TrendStable,
		},
	}
	b := domain.LearningFocus{
		UserID:        2,
		PrimarySkill:  "carving",
		RecentLessons: []string{"carving", "moguls", "powder"},
		SkillTrend: map[string]domain.SkillTrend{
			"carving": domain.TrendImproving,
			"powder":  domain.TrendDeclining,
		},
	}
	// primary match: 0.4
	// jaccard({carving,powder}, {carving,moguls,powder}) = 2/3 -> 0.2
	// trend agreement: carving matches, powder differs -> 0.5 -> 0.15
	want := 0.4 + 0.3*(2.0/3.0) + 0.3*0.5
	if got := matching.FocusSimilarity(a, b); math.Abs(got-want) > 1e-9 {
		t.Errorf("FocusSimilarity = %v, want %v", got, want)
	}
}

func TestFocusSimilarity_EmptyLessonsEarnNoBonus(t *testing.T) {
	a := domain.LearningFocus{UserID: 1, PrimarySkill: "carving"}
	b := domain.LearningFocus{UserID: 2, PrimarySkill: "moguls", RecentLessons: []string{"moguls"}}
	if got := matching.FocusSimilarity(a, b); got != 0.0 {
		t.Errorf("FocusSimilarity with no shared data = %v, want 0.0", got)
	}
}

func TestFocusSimilarity_NoSharedTrendSkills(t *testing.T) {
	a := domain.LearningFocus{
		UserID:     1,
		SkillTrend: map[string]domain.SkillTrend{"carving": domain.TrendImproving},
	}
	b := domain.LearningFocus{
		UserID:     2,
		SkillTrend: map[string]domain.SkillTrend{"moguls": domain.TrendImproving},
	}
	if got := matching.FocusSimilarity(a, b); got != 0.0 {
		t.Errorf("FocusSimilarity with disjoint trend maps = %v, want 0.0", got)
	}
}

func TestFocusSimilarity_ClampedToUnitInterval(t *testing.T) {
	a := domain.LearningFocus{
		UserID:        1,
		PrimarySkill:  "carving",
		RecentLessons: []string{"carving"},
		SkillTrend:    map[string]domain.SkillTrend{"carving": domain.TrendImproving},
	}
	b := domain.LearningFocus{
		UserID:        2,
		PrimarySkill:  "carving",
		RecentLessons: []string{"carving"},
		SkillTrend:    map[string]domain.SkillTrend{"carving": domain.TrendImproving},
	}
	got := matching.FocusSimilarity(a, b)
	if got < 0 || got > 1 {
		t.Errorf("FocusSimilarity = %v, out of [0,1]", got)
	}
	if got != 1.0 {
		t.Errorf("fully matching focus = %v, want 1.0", got)
	}
}
