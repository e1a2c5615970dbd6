package domain

import "errors"

var (
	// ErrEmailAlreadyExists is returned when signing up with a taken email.
	ErrEmailAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials covers both unknown email and password mismatch.
	// A single error keeps login failures from enabling account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrItemNotFound is returned for an unknown catalog item id.
	ErrItemNotFound = errors.New("title not found")

	// ErrDuplicateVote is returned when a user resubmits their current vote.
	ErrDuplicateVote = errors.New("you've already voted this way")
)
