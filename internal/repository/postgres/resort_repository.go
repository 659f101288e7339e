package postgres

import (
	"context"
	"fmt"

	"github.com/James3014/snowbuddy-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type resortRepository struct {
	db *sqlx.DB
}

func NewResortRepository(db *sqlx.DB) repository.ResortRepository {
	return &resortRepository{db: db}
}

func (r *resortRepository) RegionDirectory(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, region FROM resorts`)
	if err != nil {
		return nil, fmt.Errorf("query resorts: %w", err)
	}
	defer rows.Close()

	directory := make(map[string]string)
	for rows.Next() {
		var id, region string
		if err := rows.Scan(&id, &region); err != nil {
			return nil, fmt.Errorf("scan resort: %w", err)
		}
		directory[id] = region
	}
	return directory, rows.Err()
}
