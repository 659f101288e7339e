package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/James3014/snowbuddy-backend/internal/domain"
	"github.com/James3014/snowbuddy-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

// profileRow flattens a ski profile and its embedded matching preference.
type profileRow struct {
	UserID                int            `db:"user_id"`
	Nickname              string         `db:"nickname"`
	SkillLevel            int            `db:"skill_level"`
	SelfRole              string         `db:"self_role"`
	SkillLevelMin         int            `db:"skill_level_min"`
	SkillLevelMax         int            `db:"skill_level_max"`
	PreferredResorts      pq.StringArray `db:"preferred_resorts"`
	PreferredRegions      pq.StringArray `db:"preferred_regions"`
	Availability          pq.StringArray `db:"availability"`
	SeekingRole           string         `db:"seeking_role"`
	IncludeKnowledgeScore bool           `db:"include_knowledge_score"`
}

func (r profileRow) toDomain() domain.CandidateProfile {
	return domain.CandidateProfile{
		UserID:     r.UserID,
		Nickname:   r.Nickname,
		SkillLevel: r.SkillLevel,
		SelfRole:   domain.Role(r.SelfRole),
		Preferences: domain.MatchingPreference{
			SkillLevelMin:         r.SkillLevelMin,
			SkillLevelMax:         r.SkillLevelMax,
			PreferredResorts:      r.PreferredResorts,
			PreferredRegions:      r.PreferredRegions,
			Availability:          r.Availability,
			SeekingRole:           domain.Role(r.SeekingRole),
			IncludeKnowledgeScore: r.IncludeKnowledgeScore,
		},
	}
}

const profileColumns = `
	user_id, nickname, skill_level, self_role,
	skill_level_min, skill_level_max,
	preferred_resorts, preferred_regions, availability,
	seeking_role, include_knowledge_score
`

func (r *profileRepository) GetByUserID(ctx context.Context, userID int) (*domain.CandidateProfile, error) {
	var row profileRow
	query := `SELECT ` + profileColumns + ` FROM ski_profiles WHERE user_id = $1`
	err := r.db.GetContext(ctx, &row, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get ski profile: %w", err)
	}
	profile := row.toDomain()
	return &profile, nil
}

func (r *profileRepository) ListPool(ctx context.Context) ([]domain.CandidateProfile, error) {
	var rows []profileRow
	query := `SELECT ` + profileColumns + ` FROM ski_profiles WHERE matching_enabled = true ORDER BY user_id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list candidate pool: %w", err)
	}
	pool := make([]domain.CandidateProfile, 0, len(rows))
	for _, row := range rows {
		pool = append(pool, row.toDomain())
	}
	return pool, nil
}
