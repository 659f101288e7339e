package repository

import (
	"context"

	"github.com/James3014/snowbuddy-backend/internal/domain"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int) (*domain.CandidateProfile, error)
	ListPool(ctx context.Context) ([]domain.CandidateProfile, error)
}
