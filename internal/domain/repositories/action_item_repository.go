package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// ActionItemRepository defines the interface for action item data access
type ActionItemRepository interface {
	// CreateBatch inserts a batch of action items
	CreateBatch(ctx context.Context, items []*entities.ActionItem) error

	// FindByID finds an action item by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)

	// FindByMeeting returns the items extracted from one meeting
	FindByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.ActionItem, error)

	// ListByUser returns all of the user's action items, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.ActionItem, error)

	// Update updates an action item
	Update(ctx context.Context, item *entities.ActionItem) error

	// CountByUserSince counts the user's items created at or after the cutoff
	CountByUserSince(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int64, error)
}
