package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// AssetRepository defines the interface for tier allowance data access
type AssetRepository interface {
	// Create creates a new asset record
	Create(ctx context.Context, asset *entities.Asset) error

	// FindByUser finds the asset record for a user
	FindByUser(ctx context.Context, userID uuid.UUID) (*entities.Asset, error)

	// Update updates an asset record
	Update(ctx context.Context, asset *entities.Asset) error

	// UpsertForTier creates or replaces the user's asset with the given
	// tier's allowance template
	UpsertForTier(ctx context.Context, userID uuid.UUID, tier entities.SubscriptionTier) (*entities.Asset, error)
}

// SubscriptionRepository defines the interface for billing subscription records
type SubscriptionRepository interface {
	// Create persists a subscription event
	Create(ctx context.Context, sub *entities.Subscription) error

	// FindLatestByUser returns the user's most recent subscription record
	FindLatestByUser(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error)
}
