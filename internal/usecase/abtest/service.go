package abtest

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/domain/repositories"
)

// Service exposes extraction variants and their benchmark aggregates.
type Service struct {
	variantRepo repositories.VariantRepository
}

// NewService creates an A/B test service
func NewService(variantRepo repositories.VariantRepository) *Service {
	return &Service{variantRepo: variantRepo}
}

// List returns every variant
func (s *Service) List(ctx context.Context) ([]*entities.ExtractionVariant, error) {
	return s.variantRepo.List(ctx)
}

// Create registers a new variant
func (s *Service) Create(ctx context.Context, name, model, prompt string, description *string) (*entities.ExtractionVariant, error) {
	variant := entities.NewExtractionVariant(name, model, prompt)
	variant.Description = description
	if err := s.variantRepo.Create(ctx, variant); err != nil {
		return nil, err
	}
	return variant, nil
}

// Aggregate summarises all recorded runs for one variant.
type Aggregate struct {
	TestID             uuid.UUID `json:"test_id"`
	TestCount          int       `json:"test_count"`
	AvgAccuracy        float64   `json:"avg_accuracy"`
	AvgProcessingTime  float64   `json:"avg_processing_time"` // minutes, one decimal
	AvgActionItemsRate float64   `json:"avg_action_items_rate"`
}

// Results returns the per-run measurements and the aggregate for a variant
func (s *Service) Results(ctx context.Context, testID uuid.UUID) ([]*entities.TestResult, *Aggregate, error) {
	if _, err := s.variantRepo.FindByID(ctx, testID); err != nil {
		return nil, nil, err
	}

	results, err := s.variantRepo.FindResults(ctx, testID)
	if err != nil {
		return nil, nil, err
	}

	agg := &Aggregate{TestID: testID, TestCount: len(results)}
	if len(results) == 0 {
		return results, agg, nil
	}

	var accuracy, seconds, items float64
	for _, r := range results {
		accuracy += float64(r.AccuracyRate)
		seconds += float64(r.ProcessingTime)
		items += float64(r.ActionItemsFound)
	}
	n := float64(len(results))
	agg.AvgAccuracy = round1(accuracy / n)
	// Processing time is shown in minutes with one decimal.
	agg.AvgProcessingTime = round1(seconds / n / 60)
	agg.AvgActionItemsRate = round1(items / n)
	return results, agg, nil
}

// VariantOverview pairs a variant with its aggregate for the results listing.
type VariantOverview struct {
	Variant   *entities.ExtractionVariant `json:"variant"`
	Aggregate *Aggregate                  `json:"aggregate"`
}

// Overview returns the aggregate for every variant
func (s *Service) Overview(ctx context.Context) ([]*VariantOverview, error) {
	variants, err := s.variantRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	overviews := make([]*VariantOverview, 0, len(variants))
	for _, v := range variants {
		_, agg, err := s.Results(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, &VariantOverview{Variant: v, Aggregate: agg})
	}
	return overviews, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
