package service

import "errors"

// Engine error taxonomy. Detector faults are recovered inside the hunter and
// never reach callers; everything here can.
var (
	// ErrEmptyProfile marks a request with no usable profile data.
	ErrEmptyProfile = errors.New("profile is empty")

	// ErrInvalidDecision marks a malformed proposed decision.
	ErrInvalidDecision = errors.New("invalid proposed decision")

	// ErrProfileNotFound marks a user the profile source does not know.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrModelTimeout marks a model call that exceeded its time budget.
	ErrModelTimeout = errors.New("model call timed out")

	// ErrModelUnavailable marks a model backend that could not be reached or
	// answered with a server error.
	ErrModelUnavailable = errors.New("model backend unavailable")

	// ErrInvalidModelResponse marks a model reply that could not be used.
	ErrInvalidModelResponse = errors.New("invalid model response")
)
