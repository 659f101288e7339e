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

type tripRepository struct {
	db *sqlx.DB
}

func NewTripRepository(db *sqlx.DB) repository.TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) GetByID(ctx context.Context, id int) (*domain.Trip, error) {
	var trip domain.Trip
	query := `SELECT * FROM trips WHERE id = $1`
	err := r.db.GetContext(ctx, &trip, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}
		return nil, fmt.Errorf("get trip: %w", err)
	}
	return &trip, nil
}
