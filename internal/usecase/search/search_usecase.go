package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/James3014/snowbuddy-backend/internal/domain"
	"github.com/James3014/snowbuddy-backend/internal/repository"
	"github.com/James3014/snowbuddy-backend/internal/usecase/matching"
)

// pipelineTimeout bounds one filter+score run. The pipeline runs detached
// from the submitting request, so it carries its own deadline.
const pipelineTimeout = 30 * time.Second

// KnowledgeSource provides externally assessed knowledge summaries. Lookup
// failures surface as missing entries, never as errors.
type KnowledgeSource interface {
	KnowledgeSummaries(ctx context.Context, userIDs []int) map[int]*domain.KnowledgeSummary
}

type SearchUseCase struct {
	profileRepo repository.ProfileRepository
	resortRepo  repository.ResortRepository
	cache       repository.SearchCache
	knowledge   KnowledgeSource
	ttl         time.Duration
	logger      *zap.Logger

	now func() time.Time
	wg  sync.WaitGroup
}

func NewSearchUseCase(
	profileRepo repository.ProfileRepository,
	resortRepo repository.ResortRepository,
	cache repository.SearchCache,
	knowledge KnowledgeSource,
	ttl time.Duration,
	logger *zap.Logger,
) *SearchUseCase {
	return &SearchUseCase{
		profileRepo: profileRepo,
		resortRepo:  resortRepo,
		cache:       cache,
		knowledge:   knowledge,
		ttl:         ttl,
		logger:      logger,
		now:         time.Now,
	}
}

// SubmitSearchRequest is the search intent a seeker posts.
type SubmitSearchRequest struct {
	TripID                int      `json:"trip_id" binding:"required"`
	SkillLevelMin         int      `json:"skill_level_min" binding:"min=0"`
	SkillLevelMax         int      `json:"skill_level_max" binding:"min=0"`
	PreferredResorts      []string `json:"preferred_resorts"`
	PreferredRegions      []string `json:"preferred_regions"`
	Availability          []string `json:"availability" binding:"dive,datetime=2006-01-02"`
	SeekingRole           string   `json:"seeking_role" binding:"required,oneof=buddy coach student"`
	IncludeKnowledgeScore bool     `json:"include_knowledge_score"`
}

// Preference converts the request body into a domain preference.
func (r *SubmitSearchRequest) Preference() domain.MatchingPreference {
	return domain.MatchingPreference{
		SkillLevelMin:         r.SkillLevelMin,
		SkillLevelMax:         r.SkillLevelMax,
		PreferredResorts:      r.PreferredResorts,
		PreferredRegions:      r.PreferredRegions,
		Availability:          r.Availability,
		SeekingRole:           domain.Role(r.SeekingRole),
		IncludeKnowledgeScore: r.IncludeKnowledgeScore,
	}
}

// Submit acknowledges the search immediately and runs the filter+score
// pipeline on a background goroutine. A new search for the same trip
// supersedes the seeker's previous one.
func (uc *SearchUseCase) Submit(ctx context.Context, userID int, req *SubmitSearchRequest) (*domain.SearchJob, error) {
	pref := req.Preference()
	if err := pref.Validate(); err != nil {
		return nil, err
	}

	now := uc.now()
	job := &domain.SearchJob{
		SearchID:  uuid.New().String(),
		TripID:    req.TripID,
		UserID:    userID,
		Status:    domain.SearchComputing,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}

	// The placeholder goes in before the previous entry is evicted, so a
	// failed write here leaves the old search intact.
	if err := uc.cache.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("publish search placeholder: %w", err)
	}
	if err := uc.cache.Supersede(ctx, job.TripID, job.UserID, job.SearchID); err != nil {
		return nil, fmt.Errorf("supersede previous search: %w", err)
	}

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		runCtx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
		defer cancel()
		uc.run(runCtx, *job, pref)
	}()

	return job, nil
}

// Get returns the cached job. Unknown ids and entries past their TTL both
// surface as domain.ErrSearchNotFound; stale data is never served.
func (uc *SearchUseCase) Get(ctx context.Context, searchID string) (*domain.SearchJob, error) {
	job, err := uc.cache.Get(ctx, searchID)
	if err != nil {
		return nil, err
	}
	if job.Expired(uc.now()) {
		return nil, domain.ErrSearchNotFound
	}
	return job, nil
}

// Wait blocks until all in-flight pipelines finish. Called on shutdown.
func (uc *SearchUseCase) Wait() {
	uc.wg.Wait()
}

// run executes filter -> score -> rank -> cache-write for one job.
// Fail-closed: on any pipeline error the entry is rewritten as failed with
// no results, never with a partial result set.
func (uc *SearchUseCase) run(ctx context.Context, job domain.SearchJob, pref domain.MatchingPreference) {
	results, err := uc.compute(ctx, job.UserID, pref)
	if err != nil {
		uc.logger.Error("search pipeline failed",
			zap.String("search_id", job.SearchID),
			zap.Int("trip_id", job.TripID),
			zap.Error(err),
		)
		job.Status = domain.SearchFailed
		job.Results = nil
	} else {
		job.Status = domain.SearchReady
		job.Results = results
	}

	// A newer submit for the same (trip, user) may have evicted this job
	// while it was computing; its results must stay dead in that case.
	saved, err := uc.cache.SaveIfCurrent(ctx, &job)
	if err != nil {
		uc.logger.Error("failed to publish search results",
			zap.String("search_id", job.SearchID),
			zap.Error(err),
		)
		return
	}
	if !saved {
		uc.logger.Info("search superseded during compute, results dropped",
			zap.String("search_id", job.SearchID),
			zap.Int("trip_id", job.TripID),
		)
		return
	}

	uc.logger.Info("search completed",
		zap.String("search_id", job.SearchID),
		zap.String("status", string(job.Status)),
		zap.Int("results", len(job.Results)),
	)
}

func (uc *SearchUseCase) compute(ctx context.Context, seekerID int, pref domain.MatchingPreference) ([]domain.ScoredCandidate, error) {
	pool, err := uc.profileRepo.ListPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("load candidate pool: %w", err)
	}
	directory, err := uc.resortRepo.RegionDirectory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load resort directory: %w", err)
	}

	candidates := matching.FilterCandidates(pref, seekerID, pool)

	var knowledge map[int]*domain.KnowledgeSummary
	if pref.IncludeKnowledgeScore {
		ids := make([]int, 0, len(candidates)+1)
		ids = append(ids, seekerID)
		for _, c := range candidates {
			ids = append(ids, c.UserID)
		}
		knowledge = uc.knowledge.KnowledgeSummaries(ctx, ids)
	}

	scorer := matching.NewScorer(directory, knowledge)
	results := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, domain.ScoredCandidate{
			Candidate: c,
			Score:     scorer.Score(pref, seekerID, c),
		})
	}
	matching.Rank(results)
	return results, nil
}
