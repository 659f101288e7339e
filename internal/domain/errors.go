package domain

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrTripNotFound    = errors.New("trip not found")
	ErrSearchNotFound  = errors.New("search not found")
	ErrRequestNotFound = errors.New("buddy request not found")

	ErrSelfMatch         = errors.New("cannot target yourself")
	ErrDuplicateRequest  = errors.New("pending request already exists")
	ErrTripFull          = errors.New("trip buddy capacity exceeded")
	ErrInvalidTransition = errors.New("invalid request state transition")
	ErrInvalidPreference = errors.New("invalid matching preference")
	ErrNotRequestParty   = errors.New("user is not a party of this request")
)
