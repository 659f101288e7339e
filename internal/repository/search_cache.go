package repository

import (
	"context"

	"github.com/James3014/snowbuddy-backend/internal/domain"
)

type SearchCache interface {
	// Save upserts the whole job under its search id in one write, with a
	// TTL derived from ExpiresAt. Partial result sets are never visible.
	Save(ctx context.Context, job *domain.SearchJob) error

	// SaveIfCurrent writes the job only while the (trip, user) scope still
	// points at its search id, and reports whether the write happened. A
	// pipeline that finishes after its search was superseded must not
	// resurrect the evicted entry.
	SaveIfCurrent(ctx context.Context, job *domain.SearchJob) (bool, error)

	// Get returns domain.ErrSearchNotFound for unknown or evicted ids.
	// Passive expiry past ExpiresAt is checked by the caller.
	Get(ctx context.Context, searchID string) (*domain.SearchJob, error)

	// Supersede points the (trip, user) scope at newID and evicts the prior
	// live entry, if any. A user holds at most one live search per trip.
	Supersede(ctx context.Context, tripID, userID int, newID string) error
}
