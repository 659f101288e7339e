package matching

import "github.com/James3014/snowbuddy-backend/internal/domain"

// FilterCandidates reduces the candidate pool to profiles passing all hard
// constraints: never the seeker themself, skill level inside the seeker's
// range, and — when the seeker names resorts or regions — at least one
// location overlap with what the candidate is looking for. Pure function;
// an empty result is a valid ranked list of zero candidates.
func FilterCandidates(pref domain.MatchingPreference, seekerID int, pool []domain.CandidateProfile) []domain.CandidateProfile {
	eligible := make([]domain.CandidateProfile, 0, len(pool))
	for _, c := range pool {
		if c.UserID == seekerID {
			continue
		}
		if c.SkillLevel < pref.SkillLevelMin || c.SkillLevel > pref.SkillLevelMax {
			continue
		}
		if !passesLocationFilter(pref, c.Preferences) {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible
}

// passesLocationFilter checks the hard location constraint. Resort overlap
// is checked before region overlap; a seeker with no location preference
// accepts everyone.
func passesLocationFilter(seeker, candidate domain.MatchingPreference) bool {
	if len(seeker.PreferredResorts) == 0 && len(seeker.PreferredRegions) == 0 {
		return true
	}
	if intersects(seeker.PreferredResorts, candidate.PreferredResorts) {
		return true
	}
	return intersects(seeker.PreferredRegions, candidate.PreferredRegions)
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
