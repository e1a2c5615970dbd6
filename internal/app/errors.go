package app

import "errors"

var (
	// ErrEmailAndPasswordRequired rejects signup requests with blank fields
	// before any storage work happens.
	ErrEmailAndPasswordRequired = errors.New("email and password required")
)
