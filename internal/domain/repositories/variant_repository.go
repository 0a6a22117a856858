package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

// VariantRepository defines the interface for extraction variant data access
type VariantRepository interface {
	// Create creates a new extraction variant
	Create(ctx context.Context, variant *entities.ExtractionVariant) error

	// FindByID finds a variant by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ExtractionVariant, error)

	// FindActiveByModel finds an active variant by its model selector
	FindActiveByModel(ctx context.Context, model string) (*entities.ExtractionVariant, error)

	// FindOldestActive returns the active variant with the earliest
	// created_at, ties broken by lowest id
	FindOldestActive(ctx context.Context) (*entities.ExtractionVariant, error)

	// List returns every variant, newest first
	List(ctx context.Context) ([]*entities.ExtractionVariant, error)

	// CreateResult records a benchmark result for a variant
	CreateResult(ctx context.Context, result *entities.TestResult) error

	// FindResults returns the recorded results for one variant, newest first
	FindResults(ctx context.Context, testID uuid.UUID) ([]*entities.TestResult, error)
}
