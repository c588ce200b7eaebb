package usecase

import "errors"

// Stable error kinds surfaced to callers. Handlers map these onto HTTP
// statuses with errors.Is; messages wrapped around them stay human-readable.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("order not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUpstream          = errors.New("upstream service unavailable")
)
