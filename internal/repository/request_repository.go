package repository

import (
	"context"

	"github.com/James3014/snowbuddy-backend/internal/domain"
)

type BuddyRequestRepository interface {
	Create(ctx context.Context, req *domain.BuddyRequest) error
	GetByID(ctx context.Context, id string) (*domain.BuddyRequest, error)
	GetPendingByTripAndUser(ctx context.Context, tripID, userID int) (*domain.BuddyRequest, error)
	ListByUser(ctx context.Context, userID int) ([]*domain.BuddyRequest, error)
	ListByTrip(ctx context.Context, tripID int) ([]*domain.BuddyRequest, error)

	// Update persists a decline or cancel transition. The WHERE clause guards
	// on the pending status so a concurrent responder cannot overwrite a
	// terminal state.
	Update(ctx context.Context, req *domain.BuddyRequest) error

	// AcceptWithCapacity persists an accept transition and increments the
	// trip's buddy count inside one transaction. The trip row is locked so
	// two concurrent accepts on the last open slot cannot both succeed;
	// the loser gets domain.ErrTripFull.
	AcceptWithCapacity(ctx context.Context, req *domain.BuddyRequest) error
}
