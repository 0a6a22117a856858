package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// AssetRepository implements the tier allowance repository using GORM
type AssetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{
		db: db,
	}
}

// Create creates a new asset record
func (r *AssetRepository) Create(ctx context.Context, asset *entities.Asset) error {
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

// FindByUser finds the asset record for a user
func (r *AssetRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*entities.Asset, error) {
	var asset entities.Asset
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&asset).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find asset: %w", err)
	}
	return &asset, nil
}

// Update updates an asset record
func (r *AssetRepository) Update(ctx context.Context, asset *entities.Asset) error {
	if err := r.db.WithContext(ctx).Save(asset).Error; err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	return nil
}

// UpsertForTier creates or replaces the user's asset with the given tier's
// allowance template
func (r *AssetRepository) UpsertForTier(ctx context.Context, userID uuid.UUID, tier entities.SubscriptionTier) (*entities.Asset, error) {
	asset := entities.NewAsset(userID)
	asset.ApplyTier(tier)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"current_tier",
				"transcription_count",
				"action_per_time",
				"action_description_allow",
				"updated_at",
			}),
		}).
		Create(asset).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert asset: %w", err)
	}
	return asset, nil
}

// SubscriptionRepository implements billing subscription storage using GORM
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{
		db: db,
	}
}

// Create persists a subscription event
func (r *SubscriptionRepository) Create(ctx context.Context, sub *entities.Subscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// FindLatestByUser returns the user's most recent subscription record
func (r *SubscriptionRepository) FindLatestByUser(ctx context.Context, userID uuid.UUID) (*entities.Subscription, error) {
	var sub entities.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&sub).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	return &sub, nil
}
