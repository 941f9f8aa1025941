package usecase

import "errors"

// Sentinel errors the HTTP layer maps to status codes. Services wrap them
// with operation detail; callers match with errors.Is.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflicting state")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
