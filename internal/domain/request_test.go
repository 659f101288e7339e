package domain_test

import (
	"testing"
	"time"

	"github.com/James3014/snowbuddy-backend/internal/domain"
)

func TestParseRequestStatus_ValidValues(t *testing.T) {
	valid := []string{"pending", "accepted", "declined", "cancelled"}
	for _, s := range valid {
		got, err := domain.ParseRequestStatus(s)
		if err != nil {
			t.Errorf("ParseRequestStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseRequestStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseRequestStatus_InvalidValue(t *testing.T) {
	for _, s := range []string{"PENDING", "unknown", ""} {
		if _, err := domain.ParseRequestStatus(s); err == nil {
			t.Errorf("ParseRequestStatus(%q) expected error, got nil", s)
		}
	}
}

func TestCanTransitionTo_FromPending(t *testing.T) {
	targets := []domain.RequestStatus{
		domain.RequestAccepted,
		domain.RequestDeclined,
		domain.RequestCancelled,
	}
	for _, to := range targets {
		if !domain.RequestPending.CanTransitionTo(to) {
			t.Errorf("CanTransitionTo(pending -> %s) should be true", to)
		}
	}
	if domain.RequestPending.CanTransitionTo(domain.RequestPending) {
		t.Error("CanTransitionTo(pending -> pending) should be false (self)")
	}
}

func TestCanTransitionTo_FromTerminal(t *testing.T) {
	terminals := []domain.RequestStatus{
		domain.RequestAccepted,
		domain.RequestDeclined,
		domain.RequestCancelled,
	}
	targets := []domain.RequestStatus{
		domain.RequestPending,
		domain.RequestAccepted,
		domain.RequestDeclined,
		domain.RequestCancelled,
	}
	for _, from := range terminals {
		if !from.IsTerminal() {
			t.Errorf("IsTerminal(%s) should be true", from)
		}
		for _, to := range targets {
			if from.CanTransitionTo(to) {
				t.Errorf("CanTransitionTo(%s -> %s) should be false (terminal state)", from, to)
			}
		}
	}
}

func TestTransition_AcceptStampsBothTimes(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	req := domain.BuddyRequest{Status: domain.RequestPending}

	if err := req.Transition(domain.RequestAccepted, now, nil); err != nil {
		t.Fatalf("Transition(accept) returned unexpected error: %v", err)
	}
	if req.Status != domain.RequestAccepted {
		t.Errorf("status = %s, want accepted", req.Status)
	}
	if req.RespondedAt == nil || !req.RespondedAt.Equal(now) {
		t.Errorf("RespondedAt = %v, want %v", req.RespondedAt, now)
	}
	if req.JoinedAt == nil || !req.JoinedAt.Equal(now) {
		t.Errorf("JoinedAt = %v, want %v", req.JoinedAt, now)
	}
}

func TestTransition_DeclineLeavesJoinedAtNil(t *testing.T) {
	now := time.Now()
	msg := "already found a group"
	req := domain.BuddyRequest{Status: domain.RequestPending}

	if err := req.Transition(domain.RequestDeclined, now, &msg); err != nil {
		t.Fatalf("Transition(decline) returned unexpected error: %v", err)
	}
	if req.JoinedAt != nil {
		t.Errorf("JoinedAt = %v, want nil after decline", req.JoinedAt)
	}
	if req.ResponseMessage == nil || *req.ResponseMessage != msg {
		t.Errorf("ResponseMessage = %v, want %q", req.ResponseMessage, msg)
	}
}

func TestTransition_SecondTransitionFails(t *testing.T) {
	now := time.Now()
	req := domain.BuddyRequest{Status: domain.RequestPending}
	if err := req.Transition(domain.RequestCancelled, now, nil); err != nil {
		t.Fatalf("first transition failed: %v", err)
	}

	before := req
	err := req.Transition(domain.RequestAccepted, now.Add(time.Minute), nil)
	if err == nil {
		t.Fatal("second transition expected error, got nil")
	}
	if req.Status != before.Status {
		t.Errorf("status changed on failed transition: %s", req.Status)
	}
	if req.RespondedAt != before.RespondedAt || req.JoinedAt != before.JoinedAt {
		t.Error("timestamps changed on failed transition")
	}
}

func TestPreferenceValidate(t *testing.T) {
	cases := []struct {
		name    string
		pref    domain.MatchingPreference
		wantErr bool
	}{
		{"valid range", domain.MatchingPreference{SkillLevelMin: 2, SkillLevelMax: 5, SeekingRole: domain.RoleBuddy}, false},
		{"equal bounds", domain.MatchingPreference{SkillLevelMin: 4, SkillLevelMax: 4, SeekingRole: domain.RoleCoach}, false},
		{"inverted range", domain.MatchingPreference{SkillLevelMin: 6, SkillLevelMax: 3, SeekingRole: domain.RoleBuddy}, true},
		{"negative level", domain.MatchingPreference{SkillLevelMin: -1, SkillLevelMax: 3, SeekingRole: domain.RoleBuddy}, true},
		{"bad role", domain.MatchingPreference{SkillLevelMin: 1, SkillLevelMax: 3, SeekingRole: "guide"}, true},
	}
	for _, c := range cases {
		err := c.pref.Validate()
		if (err != nil) != c.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", c.name, err, c.wantErr)
		}
	}
}

func TestTripHasCapacity(t *testing.T) {
	full := domain.Trip{CurrentBuddies: 4, MaxBuddies: 4}
	if full.HasCapacity() {
		t.Error("HasCapacity() should be false when current == max")
	}
	open := domain.Trip{CurrentBuddies: 3, MaxBuddies: 4}
	if !open.HasCapacity() {
		t.Error("HasCapacity() should be true when current < max")
	}
}
