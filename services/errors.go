package services

import "errors"

// Shared error taxonomy. Every service call translates its store or
// gateway failure into the nearest of these kinds; controllers map them
// to HTTP status codes.
var (
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("invalid input")
	// ErrConflict indicates a duplicate unique field.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized indicates bad credentials or token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound indicates a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrInvalidToken indicates an absent, consumed or expired reset token.
	ErrInvalidToken = errors.New("token is invalid or expired")
	// ErrUpstream indicates a store or gateway failure.
	ErrUpstream = errors.New("upstream failure")
)
