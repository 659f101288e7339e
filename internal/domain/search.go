package domain

import "time"

// SearchStatus tracks one asynchronous filter+score run.
//
//	computing ──► ready   (terminal)
//	computing ──► failed  (terminal)
type SearchStatus string

const (
	SearchComputing SearchStatus = "computing"
	SearchReady     SearchStatus = "ready"
	SearchFailed    SearchStatus = "failed"
)

// SearchJob is one cached search execution, keyed by SearchID. It is owned
// by the search usecase; callers only ever read it.
type SearchJob struct {
	SearchID  string            `json:"search_id"`
	TripID    int               `json:"trip_id"`
	UserID    int               `json:"user_id"`
	Status    SearchStatus      `json:"status"`
	Results   []ScoredCandidate `json:"results"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Expired reports whether the job is past its TTL at the given instant.
// An expired job is treated as not found even if the entry still exists.
func (j *SearchJob) Expired(now time.Time) bool {
	return !now.Before(j.ExpiresAt)
}
