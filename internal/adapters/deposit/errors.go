package deposit

import "errors"

// Sentinel kinds for deposit errors.
var (
	ErrUnavailable = errors.New("file deposit unavailable")
)
