package search

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/James3014/snowbuddy-backend/internal/domain"
)

type fakeProfileRepo struct {
	pool []domain.CandidateProfile
	err  error

	// gate, when set, blocks each ListPool call until a token is sent,
	// letting tests hold a pipeline mid-compute.
	gate chan struct{}
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID int) (*domain.CandidateProfile, error) {
	for i := range f.pool {
		if f.pool[i].UserID == userID {
			return &f.pool[i], nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (f *fakeProfileRepo) ListPool(_ context.Context) ([]domain.CandidateProfile, error) {
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.pool, nil
}

type fakeResortRepo struct {
	directory map[string]string
}

func (f *fakeResortRepo) RegionDirectory(_ context.Context) (map[string]string, error) {
	return f.directory, nil
}

type fakeKnowledge struct{}

func (fakeKnowledge) KnowledgeSummaries(_ context.Context, _ []int) map[int]*domain.KnowledgeSummary {
	return nil
}

// memCache is an in-memory SearchCache with the same single-key-per-job
// semantics as the Redis implementation.
type memCache struct {
	mu       sync.Mutex
	jobs     map[string]domain.SearchJob
	scope    map[[2]int]string
	failSave bool
}

func newMemCache() *memCache {
	return &memCache{jobs: make(map[string]domain.SearchJob), scope: make(map[[2]int]string)}
}

func (c *memCache) Save(_ context.Context, job *domain.SearchJob) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSave {
		return errors.New("cache write refused")
	}
	c.jobs[job.SearchID] = *job
	return nil
}

func (c *memCache) SaveIfCurrent(_ context.Context, job *domain.SearchJob) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSave {
		return false, errors.New("cache write refused")
	}
	if c.scope[[2]int{job.TripID, job.UserID}] != job.SearchID {
		return false, nil
	}
	c.jobs[job.SearchID] = *job
	return true, nil
}

func (c *memCache) Get(_ context.Context, searchID string) (*domain.SearchJob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	job, ok := c.jobs[searchID]
	if !ok {
		return nil, domain.ErrSearchNotFound
	}
	copied := job
	return &copied, nil
}

func (c *memCache) Supersede(_ context.Context, tripID, userID int, newID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := [2]int{tripID, userID}
	if old, ok := c.scope[key]; ok && old != newID {
		delete(c.jobs, old)
	}
	c.scope[key] = newID
	return nil
}

func newTestUseCase(pool []domain.CandidateProfile, poolErr error) (*SearchUseCase, *memCache) {
	cache := newMemCache()
	uc := NewSearchUseCase(
		&fakeProfileRepo{pool: pool, err: poolErr},
		&fakeResortRepo{directory: map[string]string{"r1": "hokkaido"}},
		cache,
		fakeKnowledge{},
		time.Hour,
		zap.NewNop(),
	)
	return uc, cache
}

func validSubmit() *SubmitSearchRequest {
	return &SubmitSearchRequest{
		TripID:        10,
		SkillLevelMin: 5,
		SkillLevelMax: 7,
		Availability:  []string{"2026-01-10"},
		SeekingRole:   "buddy",
	}
}

func testPool() []domain.CandidateProfile {
	mk := func(id, skill int) domain.CandidateProfile {
		return domain.CandidateProfile{
			UserID:     id,
			SkillLevel: skill,
			SelfRole:   domain.RoleBuddy,
			Preferences: domain.MatchingPreference{
				SkillLevelMax: 10,
				Availability:  []string{"2026-01-10"},
				SeekingRole:   domain.RoleBuddy,
			},
		}
	}
	return []domain.CandidateProfile{mk(2, 6), mk(3, 6), mk(4, 9)}
}

func TestSubmit_AcknowledgesBeforeResultsReady(t *testing.T) {
	uc, _ := newTestUseCase(testPool(), nil)

	job, err := uc.Submit(context.Background(), 1, validSubmit())
	if err != nil {
		t.Fatalf("Submit returned unexpected error: %v", err)
	}
	if job.SearchID == "" {
		t.Error("Submit returned empty search id")
	}
	if job.Status != domain.SearchComputing {
		t.Errorf("status at submit = %s, want computing", job.Status)
	}

	uc.Wait()
	got, err := uc.Get(context.Background(), job.SearchID)
	if err != nil {
		t.Fatalf("Get after pipeline returned error: %v", err)
	}
	if got.Status != domain.SearchReady {
		t.Errorf("status after pipeline = %s, want ready", got.Status)
	}
	// skill 9 is outside [5,7]: hard-filtered
	if len(got.Results) != 2 {
		t.Errorf("results = %d candidates, want 2", len(got.Results))
	}
}

func TestGet_RepeatedReadsAreIdentical(t *testing.T) {
	uc, _ := newTestUseCase(testPool(), nil)
	job, err := uc.Submit(context.Background(), 1, validSubmit())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	uc.Wait()

	first, err := uc.Get(context.Background(), job.SearchID)
	if err != nil {
		t.Fatalf("first Get failed: %v", err)
	}
	second, err := uc.Get(context.Background(), job.SearchID)
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated reads of a live search differ")
	}
}

func TestGet_ExpiredSearchIsNotFound(t *testing.T) {
	uc, _ := newTestUseCase(testPool(), nil)
	job, err := uc.Submit(context.Background(), 1, validSubmit())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	uc.Wait()

	uc.now = func() time.Time { return job.ExpiresAt.Add(time.Second) }
	if _, err := uc.Get(context.Background(), job.SearchID); !errors.Is(err, domain.ErrSearchNotFound) {
		t.Errorf("Get past TTL = %v, want ErrSearchNotFound", err)
	}
}

func TestGet_UnknownIDIsNotFound(t *testing.T) {
	uc, _ := newTestUseCase(testPool(), nil)
	if _, err := uc.Get(context.Background(), "no-such-id"); !errors.Is(err, domain.ErrSearchNotFound) {
		t.Errorf("Get(unknown) = %v, want ErrSearchNotFound", err)
	}
}

func TestSubmit_SupersedesPriorSearchForSameTrip(t *testing.T) {
	uc, _ := newTestUseCase(testPool(), nil)

	first, err := uc.Submit(context.Background(), 1, validSubmit())
	if err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	uc.Wait()
	second, err := uc.Submit(context.Background(), 1, validSubmit())
	if err != nil {
		t.Fatalf("second Submit failed: %v", err)
	}
	uc.Wait()

	if _, err := uc.Get(context.Background(), first.SearchID); !errors.Is(err, domain.ErrSearchNotFound) {
		t.Errorf("superseded search still readable: %v", err)
	}
	if _, err := uc.Get(context.Background(), second.SearchID); err != nil {
		t.Errorf("new search unreadable: %v", err)
	}
}

func TestSubmit_SlowPipelineCannotResurrectSupersededSearch(t *testing.T) {
	gate := make(chan struct{})
	cache := newMemCache()
	uc := NewSearchUseCase(
		&fakeProfileRepo{pool: testPool(), gate: gate},
		&fakeResortRepo{directory: map[string]string{"r1": "hokkaido"}},
		cache,
		fakeKnowledge{},
		time.Hour,
		zap.NewNop(),
	)

	// Hold the first pipeline mid-compute while a second submit for the
	// same trip evicts its entry.
	first, err := uc.Submit(context.Background(), 1, validSubmit())
	if err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	second, err := uc.Submit(context.Background(), 1, validSubmit())
	if err != nil {
		t.Fatalf("second Submit failed: %v", err)
	}

	gate <- struct{}{}
	gate <- struct{}{}
	uc.Wait()

	if _, err := uc.Get(context.Background(), first.SearchID); !errors.Is(err, domain.ErrSearchNotFound) {
		t.Errorf("superseded search came back to life after its pipeline finished: %v", err)
	}
	got, err := uc.Get(context.Background(), second.SearchID)
	if err != nil {
		t.Fatalf("current search unreadable: %v", err)
	}
	if got.Status != domain.SearchReady {
		t.Errorf("current search status = %s, want ready", got.Status)
	}
}

func TestSubmit_PlaceholderWriteFailureKeepsPriorSearch(t *testing.T) {
	uc, cache := newTestUseCase(testPool(), nil)

	first, err := uc.Submit(context.Background(), 1, validSubmit())
	if err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	uc.Wait()

	cache.mu.Lock()
	cache.failSave = true
	cache.mu.Unlock()
	if _, err := uc.Submit(context.Background(), 1, validSubmit()); err == nil {
		t.Fatal("Submit with failing cache succeeded, want error")
	}
	cache.mu.Lock()
	cache.failSave = false
	cache.mu.Unlock()

	got, err := uc.Get(context.Background(), first.SearchID)
	if err != nil {
		t.Fatalf("prior search evicted by a failed submit: %v", err)
	}
	if got.Status != domain.SearchReady {
		t.Errorf("prior search status = %s, want ready", got.Status)
	}
}

func TestSubmit_PipelineFailureIsFailClosed(t *testing.T) {
	uc, _ := newTestUseCase(nil, errors.New("pool unavailable"))
	job, err := uc.Submit(context.Background(), 1, validSubmit())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	uc.Wait()

	got, err := uc.Get(context.Background(), job.SearchID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != domain.SearchFailed {
		t.Errorf("status = %s, want failed", got.Status)
	}
	if len(got.Results) != 0 {
		t.Errorf("failed search published %d results, want none", len(got.Results))
	}
}

func TestSubmit_RejectsInvalidPreference(t *testing.T) {
	uc, _ := newTestUseCase(testPool(), nil)
	req := validSubmit()
	req.SkillLevelMin = 8
	req.SkillLevelMax = 3

	if _, err := uc.Submit(context.Background(), 1, req); !errors.Is(err, domain.ErrInvalidPreference) {
		t.Errorf("Submit with inverted range = %v, want ErrInvalidPreference", err)
	}
}
