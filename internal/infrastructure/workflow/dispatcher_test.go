package workflow_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/James3014/snowbuddy-backend/internal/infrastructure/workflow"
)

func TestDispatch_DeliversEventWithBearerToken(t *testing.T) {
	var (
		mu       sync.Mutex
		received []workflow.Event
		auth     string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		auth = r.Header.Get("Authorization")
		var event workflow.Event
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			t.Errorf("decode event: %v", err)
		}
		received = append(received, event)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	d := workflow.NewDispatcher(server.URL, "secret-token", zap.NewNop())
	d.Dispatch(workflow.Event{
		Type:       workflow.EventRequestCreated,
		RequestID:  "req-1",
		TripID:     10,
		OccurredAt: time.Now(),
	})
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("received %d events, want 1", len(received))
	}
	if received[0].Type != workflow.EventRequestCreated || received[0].RequestID != "req-1" {
		t.Errorf("received event = %+v", received[0])
	}
	if auth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want bearer token", auth)
	}
}

func TestDispatch_SwallowsEndpointFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	d := workflow.NewDispatcher(server.URL, "", zap.NewNop())
	d.Dispatch(workflow.Event{Type: workflow.EventRequestUpdated, RequestID: "req-2"})
	d.Close() // must return without surfacing any error
}

func TestDispatch_NoEndpointIsNoop(t *testing.T) {
	d := workflow.NewDispatcher("", "", zap.NewNop())
	d.Dispatch(workflow.Event{Type: workflow.EventRequestCancelled, RequestID: "req-3"})
	d.Close()
}

func TestDispatch_AfterCloseDropsEvent(t *testing.T) {
	var delivered int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		delivered++
	}))
	defer server.Close()

	d := workflow.NewDispatcher(server.URL, "", zap.NewNop())
	d.Close()
	d.Close() // idempotent

	// Must not panic on the closed queue; the event is just dropped.
	d.Dispatch(workflow.Event{Type: workflow.EventRequestCreated, RequestID: "req-4"})

	if delivered != 0 {
		t.Errorf("delivered %d events after Close, want 0", delivered)
	}
}
