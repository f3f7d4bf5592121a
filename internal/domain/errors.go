package domain

import "errors"

// Sentinel errors used across all layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)
