package domain

import "errors"

var (
	// ErrStorageUnavailable wraps failures of the durable store. Callers
	// decide retry policy; nothing retries internally.
	ErrStorageUnavailable = errors.New("notification storage unavailable")

	ErrEmptyMessage = errors.New("message must not be empty")
	ErrEmptyUserID  = errors.New("user id must not be empty")
)
