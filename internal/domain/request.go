package domain

import (
	"fmt"
	"time"
)

// RequestStatus is the buddy-request lifecycle state.
//
// Valid status graph:
//
//	PENDING ──► ACCEPTED
//	    │
//	    ├─────► DECLINED
//	    │
//	    └─────► CANCELLED
//
// ACCEPTED, DECLINED and CANCELLED are terminal states.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestDeclined  RequestStatus = "declined"
	RequestCancelled RequestStatus = "cancelled"
)

// ParseRequestStatus converts a raw string to a RequestStatus, returning an
// error for unknown values.
func ParseRequestStatus(s string) (RequestStatus, error) {
	st := RequestStatus(s)
	switch st {
	case RequestPending, RequestAccepted, RequestDeclined, RequestCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown request status %q", s)
}

// IsTerminal reports whether no further transition may leave the status.
func (s RequestStatus) IsTerminal() bool {
	return s != RequestPending
}

// CanTransitionTo reports whether moving from s to the target status is
// permitted by the state machine.
func (s RequestStatus) CanTransitionTo(to RequestStatus) bool {
	if s != RequestPending {
		return false // terminal state, no outgoing transitions
	}
	switch to {
	case RequestAccepted, RequestDeclined, RequestCancelled:
		return true
	}
	return false
}

// BuddyRequest is an explicit invitation of one user onto a trip. Rows are
// never deleted; the status column carries the history.
type BuddyRequest struct {
	ID              string        `json:"id" db:"id"`
	TripID          int           `json:"trip_id" db:"trip_id"`
	UserID          int           `json:"user_id" db:"user_id"` // invited / applying user
	InviterID       int           `json:"inviter_id" db:"inviter_id"`
	Role            Role          `json:"role" db:"role"`
	Status          RequestStatus `json:"status" db:"status"`
	RequestMessage  *string       `json:"request_message" db:"request_message"`
	ResponseMessage *string       `json:"response_message" db:"response_message"`
	RequestedAt     time.Time     `json:"requested_at" db:"requested_at"`
	RespondedAt     *time.Time    `json:"responded_at" db:"responded_at"`
	JoinedAt        *time.Time    `json:"joined_at" db:"joined_at"`
}

// Transition moves the request to the target status, stamping response and
// join times. The receiver is left untouched when the transition is invalid.
func (r *BuddyRequest) Transition(to RequestStatus, now time.Time, responseMessage *string) error {
	if !r.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, to)
	}
	r.Status = to
	r.ResponseMessage = responseMessage
	switch to {
	case RequestAccepted:
		r.RespondedAt = &now
		r.JoinedAt = &now
	case RequestDeclined:
		r.RespondedAt = &now
	case RequestCancelled:
		// requester withdrew before any response
	}
	return nil
}

// Trip carries the capacity fields the accept transition guards on. The full
// trip aggregate lives in the trip service; only capacity is owned here.
type Trip struct {
	ID             int       `json:"id" db:"id"`
	OwnerID        int       `json:"owner_id" db:"owner_id"`
	Title          string    `json:"title" db:"title"`
	CurrentBuddies int       `json:"current_buddies" db:"current_buddies"`
	MaxBuddies     int       `json:"max_buddies" db:"max_buddies"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// HasCapacity reports whether one more buddy fits on the trip.
func (t *Trip) HasCapacity() bool {
	return t.CurrentBuddies < t.MaxBuddies
}
