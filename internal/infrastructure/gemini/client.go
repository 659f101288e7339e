package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(apiKey string) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-pro")
	model.SetTemperature(0.7)

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Close() {
	c.client.Close()
}

// GenerateBuddyIntro writes a short intro message suggestion for two users
// who just became trip buddies. Falls back to a canned message when the API
// is unavailable so the accept path never depends on it.
func (c *GeminiClient) GenerateBuddyIntro(ctx context.Context, inviterNickname, buddyNickname, tripTitle string) (string, error) {
	prompt := fmt.Sprintf(`
		Two users of a ski-trip platform just agreed to ride together.
		Inviter: %s
		New buddy: %s
		Trip: %s

		Task: Write one short, friendly opening message (1-2 sentences) that
		%s could send to %s to kick off planning the trip.
		Output: Just the message text.
	`, inviterNickname, buddyNickname, tripTitle, inviterNickname, buddyNickname)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return c.fallbackIntro(buddyNickname, tripTitle), nil
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return c.fallbackIntro(buddyNickname, tripTitle), nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	intro := strings.TrimSpace(sb.String())
	if intro == "" {
		return c.fallbackIntro(buddyNickname, tripTitle), nil
	}
	return intro, nil
}

func (c *GeminiClient) fallbackIntro(buddyNickname, tripTitle string) string {
	return fmt.Sprintf("Hey %s, stoked to ride together on %s! When are you planning to arrive?", buddyNickname, tripTitle)
}
