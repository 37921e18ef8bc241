package usecase

import "errors"

// Sentinel errors services wrap with fmt.Errorf("%w: ...") so the HTTP
// layer can map causes to statuses without string matching.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrStateConflict         = errors.New("state conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
