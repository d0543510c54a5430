package identity

import "errors"

// Sentinel kinds for identity errors.
var (
	ErrNotFound = errors.New("student not found")
)
