package domain

// MatchScore is the weighted compatibility breakdown for one candidate.
//
// Total is always the exact sum of the four components:
//
//	Time     0–40
//	Location 0–30
//	Skill    0–20
//	Social   0–10
type MatchScore struct {
	Total    float64  `json:"total_score"`
	Time     float64  `json:"time_score"`
	Location float64  `json:"location_score"`
	Skill    float64  `json:"skill_score"`
	Social   float64  `json:"social_score"`
	Reasons  []string `json:"reasons"`
}

// ScoredCandidate pairs a candidate with its score inside a ranked result set.
type ScoredCandidate struct {
	Candidate CandidateProfile `json:"candidate"`
	Score     MatchScore       `json:"score"`
}
