// Package profileapi talks to the external user-profile service that owns
// knowledge (CASI) assessments and learning-focus summaries.
package profileapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/James3014/snowbuddy-backend/internal/domain"
	"go.uber.org/zap"
)

const httpTimeout = 10 * time.Second

// Client fetches knowledge summaries over HTTP. When BaseURL is empty every
// lookup reports missing data and the knowledge sub-score stays neutral.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: httpTimeout},
		logger:  logger,
	}
}

// KnowledgeSummaries fetches the summaries for the given users. Lookup
// failures are logged and skipped; a missing entry degrades that user's
// knowledge sub-score to neutral rather than failing the search.
func (c *Client) KnowledgeSummaries(ctx context.Context, userIDs []int) map[int]*domain.KnowledgeSummary {
	summaries := make(map[int]*domain.KnowledgeSummary, len(userIDs))
	if c.baseURL == "" {
		return summaries
	}
	for _, id := range userIDs {
		summary, err := c.fetchSummary(ctx, id)
		if err != nil {
			c.logger.Warn("knowledge summary lookup failed, degrading to neutral",
				zap.Int("user_id", id),
				zap.Error(err),
			)
			continue
		}
		summaries[id] = summary
	}
	return summaries
}

func (c *Client) fetchSummary(ctx context.Context, userID int) (*domain.KnowledgeSummary, error) {
	url := fmt.Sprintf("%s/api/v1/users/%d/knowledge", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile service returned %d", resp.StatusCode)
	}

	var summary domain.KnowledgeSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("decode knowledge summary: %w", err)
	}
	return &summary, nil
}
