package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// VariantRepository implements the extraction variant repository using GORM
type VariantRepository struct {
	db *gorm.DB
}

// NewVariantRepository creates a new variant repository
func NewVariantRepository(db *gorm.DB) *VariantRepository {
	return &VariantRepository{
		db: db,
	}
}

// Create creates a new extraction variant
func (r *VariantRepository) Create(ctx context.Context, variant *entities.ExtractionVariant) error {
	if err := r.db.WithContext(ctx).Create(variant).Error; err != nil {
		return fmt.Errorf("failed to create variant: %w", err)
	}
	return nil
}

// FindByID finds a variant by ID
func (r *VariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ExtractionVariant, error) {
	var variant entities.ExtractionVariant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&variant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to find variant: %w", err)
	}
	return &variant, nil
}

// FindActiveByModel finds an active variant by its model selector
func (r *VariantRepository) FindActiveByModel(ctx context.Context, model string) (*entities.ExtractionVariant, error) {
	var variant entities.ExtractionVariant
	if err := r.db.WithContext(ctx).
		Where("model = ? AND is_active = ?", model, true).
		First(&variant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to find variant by model: %w", err)
	}
	return &variant, nil
}

// FindOldestActive returns the active variant with the earliest created_at,
// ties broken by lowest id
func (r *VariantRepository) FindOldestActive(ctx context.Context) (*entities.ExtractionVariant, error) {
	var variant entities.ExtractionVariant
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC, id ASC").
		First(&variant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, entities.ErrVariantNotFound
		}
		return nil, fmt.Errorf("failed to find oldest active variant: %w", err)
	}
	return &variant, nil
}

// List returns every variant, newest first
func (r *VariantRepository) List(ctx context.Context) ([]*entities.ExtractionVariant, error) {
	var variants []*entities.ExtractionVariant
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&variants).Error; err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	return variants, nil
}

// CreateResult records a benchmark result for a variant
func (r *VariantRepository) CreateResult(ctx context.Context, result *entities.TestResult) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to create test result: %w", err)
	}
	return nil
}

// FindResults returns the recorded results for one variant, newest first
func (r *VariantRepository) FindResults(ctx context.Context, testID uuid.UUID) ([]*entities.TestResult, error) {
	var results []*entities.TestResult
	if err := r.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to find test results: %w", err)
	}
	return results, nil
}
