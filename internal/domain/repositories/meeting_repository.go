package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create creates a new meeting
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID finds a meeting by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// FindByIDForUser finds a meeting by ID scoped to its owner
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*entities.Meeting, error)

	// ListByUser returns the user's meetings, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Meeting, error)

	// Search returns the user's meetings whose title or transcription
	// matches the query, newest first
	Search(ctx context.Context, userID uuid.UUID, query string) ([]*entities.Meeting, error)

	// UpdateStatus sets the meeting status. Writes that violate the
	// lifecycle return entities.ErrInvalidStatusTransition
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.MeetingStatus) error

	// MarkCompleted stores the transcription result and flips the meeting
	// to completed in one update
	MarkCompleted(ctx context.Context, id uuid.UUID, transcription string, duration int) error

	// Delete removes a meeting
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByUserSince counts the user's meetings created at or after the cutoff
	CountByUserSince(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int64, error)

	// FindStuckProcessing returns meetings that have sat in processing
	// since before the cutoff
	FindStuckProcessing(ctx context.Context, cutoff time.Time) ([]*entities.Meeting, error)
}
