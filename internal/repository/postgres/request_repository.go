package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/James3014/snowbuddy-backend/internal/domain"
	"github.com/James3014/snowbuddy-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type requestRepository struct {
	db *sqlx.DB
}

func NewBuddyRequestRepository(db *sqlx.DB) repository.BuddyRequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *domain.BuddyRequest) error {
	query := `
		INSERT INTO buddy_requests (
			id, trip_id, user_id, inviter_id, role, status,
			request_message, requested_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.TripID, req.UserID, req.InviterID,
		req.Role, req.Status, req.RequestMessage, req.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("insert buddy request: %w", err)
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.BuddyRequest, error) {
	var req domain.BuddyRequest
	query := `SELECT * FROM buddy_requests WHERE id = $1`
	err := r.db.GetContext(ctx, &req, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("get buddy request: %w", err)
	}
	return &req, nil
}

func (r *requestRepository) GetPendingByTripAndUser(ctx context.Context, tripID, userID int) (*domain.BuddyRequest, error) {
	var req domain.BuddyRequest
	query := `
		SELECT * FROM buddy_requests
		WHERE trip_id = $1 AND user_id = $2 AND status = $3
	`
	err := r.db.GetContext(ctx, &req, query, tripID, userID, domain.RequestPending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("get pending buddy request: %w", err)
	}
	return &req, nil
}

func (r *requestRepository) ListByUser(ctx context.Context, userID int) ([]*domain.BuddyRequest, error) {
	var reqs []*domain.BuddyRequest
	query := `
		SELECT * FROM buddy_requests
		WHERE user_id = $1 OR inviter_id = $1
		ORDER BY requested_at DESC
	`
	if err := r.db.SelectContext(ctx, &reqs, query, userID); err != nil {
		return nil, fmt.Errorf("list buddy requests by user: %w", err)
	}
	return reqs, nil
}

func (r *requestRepository) ListByTrip(ctx context.Context, tripID int) ([]*domain.BuddyRequest, error) {
	var reqs []*domain.BuddyRequest
	query := `
		SELECT * FROM buddy_requests
		WHERE trip_id = $1
		ORDER BY requested_at DESC
	`
	if err := r.db.SelectContext(ctx, &reqs, query, tripID); err != nil {
		return nil, fmt.Errorf("list buddy requests by trip: %w", err)
	}
	return reqs, nil
}

func (r *requestRepository) Update(ctx context.Context, req *domain.BuddyRequest) error {
	// Guard on the pending status so a terminal row is never overwritten.
	query := `
		UPDATE buddy_requests
		SET status = $1, response_message = $2, responded_at = $3, joined_at = $4
		WHERE id = $5 AND status = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		req.Status, req.ResponseMessage, req.RespondedAt, req.JoinedAt,
		req.ID, domain.RequestPending,
	)
	if err != nil {
		return fmt.Errorf("update buddy request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// AcceptWithCapacity commits the accept transition and the buddy-count
// increment atomically. The trip row is locked FOR UPDATE so two concurrent
// accepts on the last open slot serialize; the second sees a full trip.
func (r *requestRepository) AcceptWithCapacity(ctx context.Context, req *domain.BuddyRequest) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin accept tx: %w", err)
	}
	defer tx.Rollback()

	var trip domain.Trip
	err = tx.GetContext(ctx, &trip, `SELECT * FROM trips WHERE id = $1 FOR UPDATE`, req.TripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrTripNotFound
		}
		return fmt.Errorf("lock trip: %w", err)
	}
	if !trip.HasCapacity() {
		return domain.ErrTripFull
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE buddy_requests
		SET status = $1, response_message = $2, responded_at = $3, joined_at = $4
		WHERE id = $5 AND status = $6
	`,
		req.Status, req.ResponseMessage, req.RespondedAt, req.JoinedAt,
		req.ID, domain.RequestPending,
	)
	if err != nil {
		return fmt.Errorf("accept buddy request: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrInvalidTransition
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE trips SET current_buddies = current_buddies + 1 WHERE id = $1`,
		req.TripID,
	)
	if err != nil {
		return fmt.Errorf("increment trip buddies: %w", err)
	}

	return tx.Commit()
}
