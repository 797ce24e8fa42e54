package services

import "errors"

var (
	// ErrNotAuthorized covers failed membership checks and wrong room
	// passwords. Never retried automatically.
	ErrNotAuthorized = errors.New("not authorized for this room")

	ErrSelfCall = errors.New("caller and receiver must be distinct")
)
