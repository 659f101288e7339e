package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/James3014/snowbuddy-backend/internal/domain"
	"github.com/James3014/snowbuddy-backend/internal/infrastructure/workflow"
	"github.com/James3014/snowbuddy-backend/internal/repository"
)

// EventDispatcher decouples lifecycle notifications from the transaction
// committing a transition. Dispatch never blocks and never fails.
type EventDispatcher interface {
	Dispatch(event workflow.Event)
}

// IntroGenerator produces an optional intro-message suggestion after an
// accept. Failures are tolerated; nil disables the feature.
type IntroGenerator interface {
	GenerateBuddyIntro(ctx context.Context, inviterNickname, buddyNickname, tripTitle string) (string, error)
}

type RequestUseCase struct {
	requestRepo repository.BuddyRequestRepository
	tripRepo    repository.TripRepository
	profileRepo repository.ProfileRepository
	dispatcher  EventDispatcher
	intros      IntroGenerator
	logger      *zap.Logger

	now func() time.Time
}

func NewRequestUseCase(
	requestRepo repository.BuddyRequestRepository,
	tripRepo repository.TripRepository,
	profileRepo repository.ProfileRepository,
	dispatcher EventDispatcher,
	intros IntroGenerator,
	logger *zap.Logger,
) *RequestUseCase {
	return &RequestUseCase{
		requestRepo: requestRepo,
		tripRepo:    tripRepo,
		profileRepo: profileRepo,
		dispatcher:  dispatcher,
		intros:      intros,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateRequestRequest invites a user onto a trip.
type CreateRequestRequest struct {
	TripID         int     `json:"trip_id" binding:"required"`
	TargetUserID   int     `json:"target_user_id" binding:"required"`
	Role           string  `json:"role" binding:"omitempty,oneof=buddy coach"`
	RequestMessage *string `json:"request_message"`
}

// RespondRequest resolves a pending request.
type RespondRequest struct {
	Action  string  `json:"action" binding:"required,oneof=accept decline cancel"`
	Message *string `json:"message"`
}

// Create opens a new buddy request in the pending state.
func (uc *RequestUseCase) Create(ctx context.Context, inviterID int, req *CreateRequestRequest) (*domain.BuddyRequest, error) {
	if inviterID == req.TargetUserID {
		return nil, domain.ErrSelfMatch
	}

	role := domain.RoleBuddy
	if req.Role != "" {
		parsed, err := domain.ParseRequestRole(req.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	if _, err := uc.tripRepo.GetByID(ctx, req.TripID); err != nil {
		return nil, err
	}
	if _, err := uc.profileRepo.GetByUserID(ctx, req.TargetUserID); err != nil {
		return nil, err
	}

	if existing, err := uc.requestRepo.GetPendingByTripAndUser(ctx, req.TripID, req.TargetUserID); err == nil && existing != nil {
		return nil, domain.ErrDuplicateRequest
	} else if err != nil && !errors.Is(err, domain.ErrRequestNotFound) {
		return nil, fmt.Errorf("check duplicate request: %w", err)
	}

	buddyReq := &domain.BuddyRequest{
		ID:             uuid.New().String(),
		TripID:         req.TripID,
		UserID:         req.TargetUserID,
		InviterID:      inviterID,
		Role:           role,
		Status:         domain.RequestPending,
		RequestMessage: req.RequestMessage,
		RequestedAt:    uc.now(),
	}
	if err := uc.requestRepo.Create(ctx, buddyReq); err != nil {
		return nil, fmt.Errorf("create buddy request: %w", err)
	}

	uc.notify(workflow.EventRequestCreated, buddyReq, "")
	return buddyReq, nil
}

// Respond applies an accept, decline or cancel to a pending request.
// Accept and decline belong to the invited user; cancel to the requester.
func (uc *RequestUseCase) Respond(ctx context.Context, actorID int, id string, req *RespondRequest) (*domain.BuddyRequest, error) {
	buddyReq, err := uc.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case "accept":
		return uc.accept(ctx, actorID, buddyReq, req.Message)
	case "decline":
		return uc.decline(ctx, actorID, buddyReq, req.Message)
	case "cancel":
		return uc.cancel(ctx, actorID, buddyReq)
	}
	return nil, fmt.Errorf("unknown action %q", req.Action)
}

func (uc *RequestUseCase) accept(ctx context.Context, actorID int, buddyReq *domain.BuddyRequest, message *string) (*domain.BuddyRequest, error) {
	if actorID != buddyReq.UserID {
		return nil, domain.ErrNotRequestParty
	}
	if err := buddyReq.Transition(domain.RequestAccepted, uc.now(), message); err != nil {
		return nil, err
	}
	if err := uc.requestRepo.AcceptWithCapacity(ctx, buddyReq); err != nil {
		return nil, err
	}

	intro := uc.suggestIntro(ctx, buddyReq)
	uc.notify(workflow.EventRequestUpdated, buddyReq, intro)
	return buddyReq, nil
}

func (uc *RequestUseCase) decline(ctx context.Context, actorID int, buddyReq *domain.BuddyRequest, message *string) (*domain.BuddyRequest, error) {
	if actorID != buddyReq.UserID {
		return nil, domain.ErrNotRequestParty
	}
	if err := buddyReq.Transition(domain.RequestDeclined, uc.now(), message); err != nil {
		return nil, err
	}
	if err := uc.requestRepo.Update(ctx, buddyReq); err != nil {
		return nil, err
	}

	uc.notify(workflow.EventRequestUpdated, buddyReq, "")
	return buddyReq, nil
}

func (uc *RequestUseCase) cancel(ctx context.Context, actorID int, buddyReq *domain.BuddyRequest) (*domain.BuddyRequest, error) {
	if actorID != buddyReq.InviterID {
		return nil, domain.ErrNotRequestParty
	}
	if err := buddyReq.Transition(domain.RequestCancelled, uc.now(), nil); err != nil {
		return nil, err
	}
	if err := uc.requestRepo.Update(ctx, buddyReq); err != nil {
		return nil, err
	}

	uc.notify(workflow.EventRequestCancelled, buddyReq, "")
	return buddyReq, nil
}

// Get returns a request visible only to its two parties.
func (uc *RequestUseCase) Get(ctx context.Context, actorID int, id string) (*domain.BuddyRequest, error) {
	buddyReq, err := uc.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID != buddyReq.UserID && actorID != buddyReq.InviterID {
		return nil, domain.ErrNotRequestParty
	}
	return buddyReq, nil
}

// ListForUser returns all requests the user participates in, either side.
func (uc *RequestUseCase) ListForUser(ctx context.Context, userID int) ([]*domain.BuddyRequest, error) {
	return uc.requestRepo.ListByUser(ctx, userID)
}

// ListForTrip returns the requests attached to a trip. The trip owner sees
// all of them; anyone else only sees requests they are a party to.
func (uc *RequestUseCase) ListForTrip(ctx context.Context, actorID, tripID int) ([]*domain.BuddyRequest, error) {
	trip, err := uc.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}

	requests, err := uc.requestRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if actorID == trip.OwnerID {
		return requests, nil
	}

	own := make([]*domain.BuddyRequest, 0, len(requests))
	for _, req := range requests {
		if req.UserID == actorID || req.InviterID == actorID {
			own = append(own, req)
		}
	}
	return own, nil
}

func (uc *RequestUseCase) notify(eventType string, buddyReq *domain.BuddyRequest, intro string) {
	if uc.dispatcher == nil {
		return
	}
	uc.dispatcher.Dispatch(workflow.Event{
		Type:       eventType,
		RequestID:  buddyReq.ID,
		TripID:     buddyReq.TripID,
		UserID:     buddyReq.UserID,
		InviterID:  buddyReq.InviterID,
		Status:     string(buddyReq.Status),
		Intro:      intro,
		OccurredAt: uc.now(),
	})
}

// suggestIntro asks the intro generator for an opening message after an
// accept. Any failure just means no suggestion.
func (uc *RequestUseCase) suggestIntro(ctx context.Context, buddyReq *domain.BuddyRequest) string {
	if uc.intros == nil {
		return ""
	}
	inviter, err := uc.profileRepo.GetByUserID(ctx, buddyReq.InviterID)
	if err != nil {
		return ""
	}
	buddy, err := uc.profileRepo.GetByUserID(ctx, buddyReq.UserID)
	if err != nil {
		return ""
	}
	trip, err := uc.tripRepo.GetByID(ctx, buddyReq.TripID)
	if err != nil {
		return ""
	}

	intro, err := uc.intros.GenerateBuddyIntro(ctx, inviter.Nickname, buddy.Nickname, trip.Title)
	if err != nil {
		uc.logger.Warn("intro generation failed", zap.String("request_id", buddyReq.ID), zap.Error(err))
		return ""
	}
	return intro
}
