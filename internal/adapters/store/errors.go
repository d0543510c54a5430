package store

import "errors"

// Sentinel kinds for gateway errors.
var (
	ErrNotFound        = errors.New("event not found")
	ErrAlreadyExists   = errors.New("event already exists")
	ErrVersionMismatch = errors.New("event version mismatch")
	ErrUnavailable     = errors.New("event store unavailable")
)
