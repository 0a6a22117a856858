package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// SessionRepository defines the interface for refresh-token session storage
type SessionRepository interface {
	// Create persists a new session
	Create(ctx context.Context, session *entities.Session) error

	// FindByRefreshToken finds an active session by its refresh token
	FindByRefreshToken(ctx context.Context, token string) (*entities.Session, error)

	// Revoke marks a session as revoked
	Revoke(ctx context.Context, id uuid.UUID) error

	// RevokeAllForUser revokes every session belonging to a user
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired removes sessions past their expiry
	DeleteExpired(ctx context.Context) (int64, error)
}
