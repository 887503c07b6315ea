package session

import "errors"

// Session domain errors
var (
	ErrSessionNotFound = errors.New("session record not found")
	ErrMissingIdentity = errors.New("session has no resolvable identity field")
	ErrInvalidRange    = errors.New("session end is not after start")
)
