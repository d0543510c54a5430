package model

import "errors"

// Sentinel kinds for model validation errors.
var (
	ErrValidation = errors.New("validation failed")
)
