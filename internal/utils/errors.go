package utils

import "errors"

// Common application errors used across services.
var (
	ErrNotFound   = errors.New("NOT_FOUND")
	ErrValidation = errors.New("VALIDATION_FAILED")
	ErrOutOfRange = errors.New("VALUE_OUT_OF_RANGE")
)
