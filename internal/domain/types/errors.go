package types

import "errors"

var (
	// backend answers
	ErrBadRequest         = errors.New("request rejected by backend")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("you are not allowed to do that")
	ErrNotFound           = errors.New("requested item not found")
	ErrBackendFailed      = errors.New("backend request failed")
	ErrBackendUnavailable = errors.New("backend is unreachable")

	// session
	ErrEmptyToken         = errors.New("empty bearer token")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidSessionData = errors.New("invalid session data")

	// screens
	ErrValidation = errors.New("validation failed")
	ErrDetached   = errors.New("request finished before the result was applied")
)
