package matching

import (
	"fmt"
	"math"
	"sort"

	"github.com/James3014/snowbuddy-backend/internal/domain"
)

// Weighted bands for each sub-score. The normalized [0,1] sub-scores are
// projected into these so the total always lands in [0,100].
const (
	timeWeight     = 40.0
	locationWeight = 30.0
	skillWeight    = 20.0
	socialWeight   = 10.0

	// skillDecayLevels is how far outside the preferred range a candidate's
	// skill may fall before the skill sub-score reaches zero. The decay is
	// linear with distance from the nearest bound.
	skillDecayLevels = 5.0

	// reasonThreshold is the minimal normalized sub-score that earns a
	// human-readable reason clause.
	reasonThreshold = 0.05
)

// Scorer computes MatchScores for one search run. It is pure and
// deterministic: the resort directory and knowledge summaries are snapshots
// taken before scoring starts, so repeated runs on the same inputs produce
// byte-identical results.
type Scorer struct {
	regionOf  map[string]string                // resort id -> region name
	knowledge map[int]*domain.KnowledgeSummary // by user id; missing = lookup unavailable
}

// NewScorer builds a scorer over a resort->region directory snapshot and the
// knowledge summaries fetched for this run. Either map may be nil.
func NewScorer(regionOf map[string]string, knowledge map[int]*domain.KnowledgeSummary) *Scorer {
	return &Scorer{regionOf: regionOf, knowledge: knowledge}
}

// Score computes the weighted compatibility of one candidate against the
// seeker's preference.
func (s *Scorer) Score(pref domain.MatchingPreference, seekerID int, c domain.CandidateProfile) domain.MatchScore {
	skill := skillScore(pref, c.SkillLevel)
	timeS := availabilityScore(pref.Availability, c.Preferences.Availability)
	location, sharedResort, sharedRegion := s.locationScore(pref, c.Preferences)
	role := roleScore(pref.SeekingRole, c.SelfRole)

	social := role
	if pref.IncludeKnowledgeScore {
		social = (role + s.knowledgeScore(seekerID, c.UserID)) / 2
	}

	score := domain.MatchScore{
		Time:     timeS * timeWeight,
		Location: location * locationWeight,
		Skill:    skill * skillWeight,
		Social:   social * socialWeight,
	}
	score.Total = score.Time + score.Location + score.Skill + score.Social

	if timeS > reasonThreshold {
		score.Reasons = append(score.Reasons, "available on overlapping dates")
	}
	if location > reasonThreshold {
		switch {
		case sharedResort != "":
			score.Reasons = append(score.Reasons, fmt.Sprintf("shares resort %s", sharedResort))
		case sharedRegion != "":
			score.Reasons = append(score.Reasons, fmt.Sprintf("rides the same region %s", sharedRegion))
		}
	}
	if skill > reasonThreshold {
		if skill == 1.0 {
			score.Reasons = append(score.Reasons, "skill levels compatible")
		} else {
			score.Reasons = append(score.Reasons, "skill level close to preferred range")
		}
	}
	if social > reasonThreshold {
		if role == 1.0 {
			score.Reasons = append(score.Reasons, fmt.Sprintf("looking for a %s too", pref.SeekingRole))
		} else if pref.IncludeKnowledgeScore {
			score.Reasons = append(score.Reasons, "similar learning focus")
		}
	}

	return score
}

// Rank orders scored candidates by total score descending. Ties break on
// ascending user id so repeated runs over identical input stay stable.
func Rank(results []domain.ScoredCandidate) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score.Total != results[j].Score.Total {
			return results[i].Score.Total > results[j].Score.Total
		}
		return results[i].Candidate.UserID < results[j].Candidate.UserID
	})
}

// skillScore is 1.0 inside [min,max] and decays linearly with the distance
// from the nearest bound, reaching 0.0 at skillDecayLevels away.
func skillScore(pref domain.MatchingPreference, level int) float64 {
	if level >= pref.SkillLevelMin && level <= pref.SkillLevelMax {
		return 1.0
	}
	var dist float64
	if level < pref.SkillLevelMin {
		dist = float64(pref.SkillLevelMin - level)
	} else {
		dist = float64(level - pref.SkillLevelMax)
	}
	if dist >= skillDecayLevels {
		return 0.0
	}
	return 1.0 - dist/skillDecayLevels
}

// availabilityScore is 1.0 iff the two date sets intersect. Symmetric.
func availabilityScore(a, b []string) float64 {
	if intersects(a, b) {
		return 1.0
	}
	return 0.0
}

// locationScore is exactly 1.0 on a direct resort overlap, 0.5 on a
// region-only overlap and 0.0 otherwise. The effective region set of each
// side is the declared regions plus the regions of the declared resorts.
func (s *Scorer) locationScore(seeker, candidate domain.MatchingPreference) (score float64, sharedResort, sharedRegion string) {
	for _, r := range seeker.PreferredResorts {
		for _, cr := range candidate.PreferredResorts {
			if r == cr {
				return 1.0, r, ""
			}
		}
	}
	seekerRegions := s.regionSet(seeker)
	for _, region := range s.regionList(candidate) {
		if _, ok := seekerRegions[region]; ok {
			return 0.5, "", region
		}
	}
	return 0.0, "", ""
}

func (s *Scorer) regionSet(pref domain.MatchingPreference) map[string]struct{} {
	set := make(map[string]struct{}, len(pref.PreferredRegions))
	for _, region := range s.regionList(pref) {
		set[region] = struct{}{}
	}
	return set
}

func (s *Scorer) regionList(pref domain.MatchingPreference) []string {
	regions := append([]string(nil), pref.PreferredRegions...)
	for _, resort := range pref.PreferredResorts {
		if region, ok := s.regionOf[resort]; ok {
			regions = append(regions, region)
		}
	}
	return regions
}

func roleScore(seeking, self domain.Role) float64 {
	if seeking == self {
		return 1.0
	}
	return 0.0
}

// knowledgeScore compares the two users' externally assessed proficiency.
// When both sides carry a learning focus the trend-aware similarity is used;
// otherwise the flat |a-b| distance on overall scores. A missing summary on
// either side degrades to the neutral 0.5.
func (s *Scorer) knowledgeScore(seekerID, candidateID int) float64 {
	a, b := s.knowledge[seekerID], s.knowledge[candidateID]
	if a == nil || b == nil {
		return 0.5
	}
	if a.Focus != nil && b.Focus != nil {
		return FocusSimilarity(*a.Focus, *b.Focus)
	}
	sim := 1.0 - math.Abs(a.OverallScore-b.OverallScore)/100.0
	return clamp01(sim)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
