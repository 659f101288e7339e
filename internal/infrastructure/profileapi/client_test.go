package profileapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestKnowledgeSummaries_FetchesPerUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization header = %q, want bearer token", got)
		}
		switch r.URL.Path {
		case "/api/v1/users/1/knowledge":
			fmt.Fprint(w, `{"user_id":1,"overall_score":72,"learning_focus":{"user_id":1,"primary_skill":"carving","recent_lessons":["carving"],"skill_trend":{"carving":"improving"}}}`)
		case "/api/v1/users/2/knowledge":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", zap.NewNop())
	summaries := client.KnowledgeSummaries(context.Background(), []int{1, 2, 3})

	got, ok := summaries[1]
	if !ok {
		t.Fatal("expected a summary for user 1")
	}
	if got.OverallScore != 72 {
		t.Errorf("overall_score = %v, want 72", got.OverallScore)
	}
	if got.Focus == nil || got.Focus.PrimarySkill != "carving" {
		t.Errorf("learning focus not decoded: %+v", got.Focus)
	}

	// Failed and unknown users are skipped, not fatal.
	if _, ok := summaries[2]; ok {
		t.Error("user 2 errored upstream, should be absent")
	}
	if _, ok := summaries[3]; ok {
		t.Error("user 3 is unknown upstream, should be absent")
	}
}

func TestKnowledgeSummaries_NoBaseURLIsNoop(t *testing.T) {
	client := NewClient("", "", zap.NewNop())
	if got := client.KnowledgeSummaries(context.Background(), []int{1, 2}); len(got) != 0 {
		t.Errorf("expected no summaries without a configured base URL, got %d", len(got))
	}
}
