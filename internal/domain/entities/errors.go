package entities

import "errors"

// Domain-level sentinel errors. The adapter layer maps these onto HTTP
// error codes; inside the domain they stay plain errors.
var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = errors.New("password must be at least 8 characters")
	ErrUserNotFound       = errors.New("user not found")
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrActionItemNotFound = errors.New("action item not found")
	ErrVariantNotFound    = errors.New("extraction variant not found")
	ErrOAuthStateMismatch = errors.New("oauth state mismatch")
	ErrSessionRevoked     = errors.New("session revoked or expired")

	ErrInvalidStatusTransition = errors.New("meeting status transition not allowed")
)
