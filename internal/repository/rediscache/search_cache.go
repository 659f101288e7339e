// Package rediscache stores ranked search results in Redis with a TTL.
// Each job is one JSON value under its search id, so a write either
// publishes the full result set or nothing.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/James3014/snowbuddy-backend/internal/domain"
	"github.com/James3014/snowbuddy-backend/internal/repository"
	"github.com/redis/go-redis/v9"
)

const (
	jobKeyPrefix   = "matching:search:"
	scopeKeyPrefix = "matching:current:"

	// scopeIndexTTL caps the lifetime of the (trip, user) -> search id
	// index; any job it points at expires well before this.
	scopeIndexTTL = 24 * time.Hour
)

// saveIfCurrentScript writes the job only while the scope key still names
// its search id, so the check and the write are one atomic step.
var saveIfCurrentScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
	return 1
end
return 0
`)

type searchCache struct {
	client *redis.Client
}

func NewSearchCache(client *redis.Client) repository.SearchCache {
	return &searchCache{client: client}
}

func jobKey(searchID string) string {
	return jobKeyPrefix + searchID
}

func scopeKey(tripID, userID int) string {
	return fmt.Sprintf("%s%d:%d", scopeKeyPrefix, tripID, userID)
}

func (c *searchCache) Save(ctx context.Context, job *domain.SearchJob) error {
	ttl := time.Until(job.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("search %s already expired", job.SearchID)
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal search job: %w", err)
	}
	if err := c.client.Set(ctx, jobKey(job.SearchID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save search job: %w", err)
	}
	return nil
}

func (c *searchCache) SaveIfCurrent(ctx context.Context, job *domain.SearchJob) (bool, error) {
	ttl := time.Until(job.ExpiresAt)
	if ttl <= 0 {
		return false, fmt.Errorf("search %s already expired", job.SearchID)
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return false, fmt.Errorf("marshal search job: %w", err)
	}

	saved, err := saveIfCurrentScript.Run(ctx, c.client,
		[]string{scopeKey(job.TripID, job.UserID), jobKey(job.SearchID)},
		job.SearchID, payload, ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("save search job: %w", err)
	}
	return saved == 1, nil
}

func (c *searchCache) Get(ctx context.Context, searchID string) (*domain.SearchJob, error) {
	payload, err := c.client.Get(ctx, jobKey(searchID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSearchNotFound
		}
		return nil, fmt.Errorf("get search job: %w", err)
	}
	var job domain.SearchJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("unmarshal search job: %w", err)
	}
	return &job, nil
}

func (c *searchCache) Supersede(ctx context.Context, tripID, userID int, newID string) error {
	key := scopeKey(tripID, userID)

	oldID, err := c.client.Get(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("get current search for scope: %w", err)
	}
	if oldID != "" && oldID != newID {
		if err := c.client.Del(ctx, jobKey(oldID)).Err(); err != nil {
			return fmt.Errorf("evict superseded search: %w", err)
		}
	}

	// The index only needs to live as long as any job it can point at.
	if err := c.client.Set(ctx, key, newID, scopeIndexTTL).Err(); err != nil {
		return fmt.Errorf("set current search for scope: %w", err)
	}
	return nil
}
