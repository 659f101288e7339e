// Package workflow notifies the external trip orchestrator about
// buddy-request lifecycle transitions. Delivery is best effort: one attempt
// per event, failures logged and discarded, never surfaced to the caller.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	EventRequestCreated   = "buddy_request.created"
	EventRequestUpdated   = "buddy_request.updated"
	EventRequestCancelled = "buddy_request.cancelled"
)

const (
	sendTimeout = 10 * time.Second
	queueSize   = 64
)

// Event is the payload posted to the orchestrator.
type Event struct {
	Type       string    `json:"type"`
	RequestID  string    `json:"request_id"`
	TripID     int       `json:"trip_id"`
	UserID     int       `json:"user_id"`
	InviterID  int       `json:"inviter_id"`
	Status     string    `json:"status"`
	Intro      string    `json:"intro_message,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Dispatcher hands events to a single worker goroutine over a buffered
// channel, keeping outbound HTTP entirely off the request path. With no
// endpoint configured every dispatch is a no-op.
type Dispatcher struct {
	url    string
	token  string
	client *http.Client
	events chan Event
	done   chan struct{}
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(url, token string, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: sendTimeout},
		events: make(chan Event, queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	go d.worker()
	return d
}

// Dispatch enqueues an event without blocking. When the queue is full the
// event is dropped; notifications are advisory, never load bearing.
func (d *Dispatcher) Dispatch(event Event) {
	if d.url == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.logger.Warn("dispatcher closed, dropping event",
			zap.String("type", event.Type),
			zap.String("request_id", event.RequestID),
		)
		return
	}
	select {
	case d.events <- event:
	default:
		d.logger.Warn("workflow queue full, dropping event",
			zap.String("type", event.Type),
			zap.String("request_id", event.RequestID),
		)
	}
}

// Close stops accepting events and waits for queued ones to drain.
// Safe to call more than once; later Dispatch calls become drops.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.events)
	d.mu.Unlock()
	<-d.done
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for event := range d.events {
		d.send(event)
	}
}

// send makes exactly one delivery attempt and swallows any failure.
func (d *Dispatcher) send(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		d.logger.Warn("failed to marshal workflow event", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(payload))
	if err != nil {
		d.logger.Warn("failed to build workflow request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("workflow dispatch failed",
			zap.String("type", event.Type),
			zap.String("request_id", event.RequestID),
			zap.Error(err),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		d.logger.Warn("workflow endpoint rejected event",
			zap.String("type", event.Type),
			zap.String("request_id", event.RequestID),
			zap.Int("status", resp.StatusCode),
		)
	}
}
