package repository

import (
	"context"

	"github.com/James3014/snowbuddy-backend/internal/domain"
)

type TripRepository interface {
	GetByID(ctx context.Context, id int) (*domain.Trip, error)
}
